package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"payhub/internal/domain/entities"
	"payhub/internal/infrastructure/config"

	"github.com/stripe/stripe-go/v81"
)

const testWebhookSecret = "whsec_test_secret"

func signStripePayload(t *testing.T, secret string, payload []byte) http.Header {
	t.Helper()
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.%s", ts, payload)))
	h := http.Header{}
	h.Set("Stripe-Signature", fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil))))
	return h
}

func newTestStripeGateway(t *testing.T, url string) *StripeGateway {
	t.Helper()
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(url),
		MaxNetworkRetries: stripe.Int64(0),
	})
	return newStripeGatewayWithBackend(config.StripeConfig{
		SecretKey:     "sk_test_123",
		WebhookSecret: testWebhookSecret,
	}, "http://localhost:3000", backend)
}

func TestStripeGateway_ProcessWebhook(t *testing.T) {
	g := newTestStripeGateway(t, "http://127.0.0.1:0")

	tests := []struct {
		name       string
		payload    string
		wantStatus entities.PaymentStatus
		wantID     string
		wantAmount int64
		wantCur    string
	}{
		{
			name:       "checkout session completed",
			payload:    `{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_test_1","object":"checkout.session","amount_total":1500,"currency":"eur"}}}`,
			wantStatus: entities.PaymentStatusSuccess,
			wantID:     "cs_test_1",
			wantAmount: 1500,
			wantCur:    "EUR",
		},
		{
			name:       "checkout session expired",
			payload:    `{"id":"evt_2","object":"event","type":"checkout.session.expired","data":{"object":{"id":"cs_test_2","object":"checkout.session","amount_total":900}}}`,
			wantStatus: entities.PaymentStatusFailed,
			wantID:     "cs_test_2",
			wantAmount: 900,
			wantCur:    "USD",
		},
		{
			name:       "payment intent succeeded",
			payload:    `{"id":"evt_3","object":"event","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","object":"payment_intent","amount":2000,"currency":"usd"}}}`,
			wantStatus: entities.PaymentStatusSuccess,
			wantID:     "pi_1",
			wantAmount: 2000,
			wantCur:    "USD",
		},
		{
			name:       "payment intent failed",
			payload:    `{"id":"evt_4","object":"event","type":"payment_intent.payment_failed","data":{"object":{"id":"pi_2","object":"payment_intent","amount":2000,"currency":"usd"}}}`,
			wantStatus: entities.PaymentStatusFailed,
			wantID:     "pi_2",
			wantAmount: 2000,
			wantCur:    "USD",
		},
		{
			name:       "unhandled event type is pending",
			payload:    `{"id":"evt_5","object":"event","type":"charge.succeeded","data":{"object":{"id":"ch_1","object":"charge"}}}`,
			wantStatus: entities.PaymentStatusPending,
			wantCur:    "USD",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := []byte(tc.payload)
			ev, err := g.ProcessWebhook(context.Background(), raw, signStripePayload(t, testWebhookSecret, raw))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ev.Status != tc.wantStatus {
				t.Fatalf("expected status %s, got %s", tc.wantStatus, ev.Status)
			}
			if ev.GatewayPaymentID != tc.wantID {
				t.Fatalf("expected id %q, got %q", tc.wantID, ev.GatewayPaymentID)
			}
			if ev.Amount != tc.wantAmount || ev.Currency != tc.wantCur {
				t.Fatalf("expected %d %s, got %d %s", tc.wantAmount, tc.wantCur, ev.Amount, ev.Currency)
			}
			if ev.Gateway != entities.GatewayStripe {
				t.Fatalf("expected stripe gateway, got %s", ev.Gateway)
			}
		})
	}
}

func TestStripeGateway_ProcessWebhook_Rejections(t *testing.T) {
	g := newTestStripeGateway(t, "http://127.0.0.1:0")
	raw := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_test_1","object":"checkout.session","amount_total":1500}}}`)

	t.Run("missing signature header", func(t *testing.T) {
		_, err := g.ProcessWebhook(context.Background(), raw, http.Header{})
		if !errors.Is(err, entities.ErrVerification) {
			t.Fatalf("expected ErrVerification, got %v", err)
		}
	})

	t.Run("tampered body", func(t *testing.T) {
		headers := signStripePayload(t, testWebhookSecret, raw)
		tampered := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_test_1","object":"checkout.session","amount_total":1}}}`)
		_, err := g.ProcessWebhook(context.Background(), tampered, headers)
		if !errors.Is(err, entities.ErrVerification) {
			t.Fatalf("expected ErrVerification, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := g.ProcessWebhook(context.Background(), raw, signStripePayload(t, "whsec_other", raw))
		if !errors.Is(err, entities.ErrVerification) {
			t.Fatalf("expected ErrVerification, got %v", err)
		}
	})

	t.Run("signed but not json", func(t *testing.T) {
		body := []byte(`not-json`)
		_, err := g.ProcessWebhook(context.Background(), body, signStripePayload(t, testWebhookSecret, body))
		if !errors.Is(err, entities.ErrMalformedPayload) {
			t.Fatalf("expected ErrMalformedPayload, got %v", err)
		}
	})

	t.Run("completed session without id", func(t *testing.T) {
		body := []byte(`{"id":"evt_9","object":"event","type":"checkout.session.completed","data":{"object":{"object":"checkout.session","amount_total":1}}}`)
		_, err := g.ProcessWebhook(context.Background(), body, signStripePayload(t, testWebhookSecret, body))
		if !errors.Is(err, entities.ErrMalformedPayload) {
			t.Fatalf("expected ErrMalformedPayload, got %v", err)
		}
	})
}

func TestStripeGateway_CreatePayment(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		g := newStripeGatewayWithBackend(config.StripeConfig{}, "http://localhost:3000", nil)
		res := g.CreatePayment(context.Background(), entities.PaymentRequest{Amount: 100, Currency: "USD"})
		if res.Success || res.GatewayPaymentID != "" || res.Error == "" {
			t.Fatalf("expected failure result, got %+v", res)
		}
	})

	t.Run("creates checkout session", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/checkout/sessions" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if err := r.ParseForm(); err != nil {
				t.Errorf("parse form: %v", err)
			}
			if got := r.PostForm.Get("line_items[0][price_data][unit_amount]"); got != "1500" {
				t.Errorf("expected unit_amount 1500, got %q", got)
			}
			if got := r.PostForm.Get("metadata[order_id]"); got != "order-1" {
				t.Errorf("expected order_id metadata, got %q", got)
			}
			if got := r.PostForm.Get("success_url"); got != "http://localhost:3000/success?session_id={CHECKOUT_SESSION_ID}" {
				t.Errorf("unexpected success_url %q", got)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"cs_test_123","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_123"}`))
		}))
		defer srv.Close()

		g := newTestStripeGateway(t, srv.URL)
		res := g.CreatePayment(context.Background(), entities.PaymentRequest{
			Amount:        1500,
			Currency:      "USD",
			Description:   "Pro plan",
			CustomerEmail: "a@b.c",
			OrderID:       "order-1",
		})
		if !res.Success {
			t.Fatalf("expected success, got %+v", res)
		}
		if res.GatewayPaymentID != "cs_test_123" || res.RedirectURL != "https://checkout.stripe.com/c/pay/cs_test_123" {
			t.Fatalf("unexpected result %+v", res)
		}
	})

	t.Run("api error becomes failure result", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"Invalid currency","type":"invalid_request_error"}}`))
		}))
		defer srv.Close()

		g := newTestStripeGateway(t, srv.URL)
		res := g.CreatePayment(context.Background(), entities.PaymentRequest{Amount: 1500, Currency: "XXX"})
		if res.Success || res.GatewayPaymentID != "" {
			t.Fatalf("expected failure, got %+v", res)
		}
		if res.Error != "Invalid currency" {
			t.Fatalf("expected stripe error message, got %q", res.Error)
		}
	})
}
