package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
)

func TestPercentile(t *testing.T) {
	sorted := make([]time.Duration, 0, 100)
	for i := 1; i <= 100; i++ {
		sorted = append(sorted, time.Duration(i)*time.Millisecond)
	}

	cases := []struct {
		p    int
		want time.Duration
	}{
		{50, 50 * time.Millisecond},
		{95, 95 * time.Millisecond},
		{100, 100 * time.Millisecond},
	}
	for _, tc := range cases {
		if got := percentile(sorted, tc.p); got != tc.want {
			t.Fatalf("p%d: expected %s, got %s", tc.p, tc.want, got)
		}
	}
	if got := percentile(nil, 95); got != 0 {
		t.Fatalf("expected 0 for empty input, got %s", got)
	}
}

func TestRunLoad(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if n%5 == 0 {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"success":false,"error":"down"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"paymentId":"x"}`))
	}))
	defer srv.Close()

	report, err := runLoad(context.Background(), resty.New().SetBaseURL(srv.URL), "gopay", 20, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Requests != 20 || report.Succeeded != 16 || report.Failed != 4 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Max < report.P95 || report.P95 < report.P50 {
		t.Fatalf("percentiles out of order %+v", report)
	}

	if _, err := runLoad(context.Background(), resty.New(), "gopay", 0, 1); err == nil {
		t.Fatalf("expected error for zero requests")
	}
}

func TestRunSmoke(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	var out bytes.Buffer
	failed := runSmoke(&out, resty.New().SetBaseURL(srv.URL), []step{
		{name: "health", method: http.MethodGet, path: "/health", want: []int{http.StatusOK}},
		{name: "list payments", method: http.MethodGet, path: "/api/payment/all", want: []int{http.StatusOK}},
	})
	if failed != 1 {
		t.Fatalf("expected 1 failure, got %d\n%s", failed, out.String())
	}
	if !strings.Contains(out.String(), "health") || !strings.Contains(out.String(), "FAIL") {
		t.Fatalf("unexpected output %q", out.String())
	}
}
