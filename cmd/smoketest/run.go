package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

type step struct {
	name   string
	method string
	path   string
	body   any
	// accepted statuses; a gateway without credentials answers 502 and still counts as reachable.
	want []int
}

func smokeSteps(email string) []step {
	payment := func(amount int, desc string) map[string]any {
		return map[string]any{
			"amount":        amount,
			"currency":      "CZK",
			"description":   desc,
			"customerEmail": email,
		}
	}
	return []step{
		{name: "health", method: http.MethodGet, path: "/health", want: []int{http.StatusOK}},
		{name: "stripe create", method: http.MethodPost, path: "/api/payment/create/stripe", body: payment(1000, "Smoke Stripe payment"), want: []int{http.StatusOK, http.StatusBadGateway}},
		{name: "paypal create", method: http.MethodPost, path: "/api/payment/create/paypal", body: payment(2000, "Smoke PayPal payment"), want: []int{http.StatusOK, http.StatusBadGateway}},
		{name: "gopay create", method: http.MethodPost, path: "/api/payment/create/gopay", body: payment(3000, "Smoke GoPay payment"), want: []int{http.StatusOK, http.StatusBadGateway}},
		{name: "list payments", method: http.MethodGet, path: "/api/payment/all", want: []int{http.StatusOK}},
		{name: "unknown session", method: http.MethodGet, path: "/api/payment-info/doesnotexist", want: []int{http.StatusNotFound}},
		// Unsigned callbacks must be rejected.
		{name: "stripe webhook unsigned", method: http.MethodPost, path: "/api/webhook/stripe", body: map[string]any{"data": map[string]any{"object": map[string]any{"id": "pi_test_123"}}}, want: []int{http.StatusBadRequest}},
		{name: "gopay webhook", method: http.MethodPost, path: "/api/webhook/gopay", body: map[string]any{"payment": map[string]any{"id": "smoke-unknown", "state": "PAID", "amount": 1000, "currency": "CZK"}}, want: []int{http.StatusOK}},
	}
}

func runCmd(client func() *resty.Client) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Call every endpoint once and check the status codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := runSmoke(cmd.OutOrStdout(), client(), smokeSteps(email))
			if failed > 0 {
				return fmt.Errorf("%d smoke step(s) failed", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "smoke@example.com", "Customer email sent with payment requests")
	return cmd
}

func runSmoke(out io.Writer, c *resty.Client, steps []step) int {
	failed := 0
	for i, s := range steps {
		req := c.R()
		if s.body != nil {
			req.SetBody(s.body)
		}
		resp, err := req.Execute(s.method, s.path)
		if err != nil {
			failed++
			fmt.Fprintf(out, "%d. %-24s ERROR %v\n", i+1, s.name, err)
			continue
		}

		verdict := "FAIL"
		if accepted(resp.StatusCode(), s.want) {
			verdict = "ok"
		} else {
			failed++
		}
		fmt.Fprintf(out, "%d. %-24s %s %d %s\n", i+1, s.name, verdict, resp.StatusCode(), resp.String())
	}
	return failed
}

func accepted(code int, want []int) bool {
	for _, w := range want {
		if code == w {
			return true
		}
	}
	return false
}
