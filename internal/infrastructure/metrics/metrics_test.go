package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Observe(t *testing.T) {
	m := New()
	m.ObservePaymentCreated("gopay", "success", 10*time.Millisecond)
	m.ObservePaymentCreated("gopay", "success", 10*time.Millisecond)
	m.ObserveWebhook("stripe", "rejected")

	if got := testutil.ToFloat64(m.PaymentsCreated.WithLabelValues("gopay", "success")); got != 2 {
		t.Fatalf("expected 2 creations, got %v", got)
	}
	if got := testutil.ToFloat64(m.WebhooksProcessed.WithLabelValues("stripe", "rejected")); got != 1 {
		t.Fatalf("expected 1 webhook, got %v", got)
	}

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w.Body.String(), "payhub_payments_created_total") {
		t.Fatalf("expected exported counter, got %s", w.Body.String())
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObservePaymentCreated("stripe", "failed", time.Second)
	m.ObserveWebhook("stripe", "applied")
}

func TestNew_Twice(t *testing.T) {
	New()
	New()
}
