package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"payhub/internal/adapter/http/handlers/mocks"
	"payhub/internal/domain/entities"
	"payhub/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func newWebhookRouter(h *WebhookHandler) *gin.Engine {
	r := gin.New()
	for _, g := range entities.KnownGateways {
		r.POST("/api/webhook/"+string(g), h.Handle(g))
	}
	return r
}

func TestWebhookHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("stripe passes raw bytes and headers", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIWebhookUseCase(ctrl)
		r := newWebhookRouter(NewWebhookHandler(uc))

		raw := []byte("{\"id\": \"evt_1\",\n  \"type\": \"checkout.session.completed\"}")
		uc.EXPECT().HandleWebhook(gomock.Any(), "stripe", raw, gomock.Any()).
			DoAndReturn(func(_ any, _ string, _ []byte, h http.Header) (usecase.ReconciliationResult, error) {
				if h.Get("Stripe-Signature") != "t=1,v1=abc" {
					t.Errorf("expected signature header to be forwarded")
				}
				return usecase.ReconciliationResult{Outcome: usecase.ReconciliationApplied}, nil
			})

		req := httptest.NewRequest(http.MethodPost, "/api/webhook/stripe", bytes.NewReader(raw))
		req.Header.Set("Stripe-Signature", "t=1,v1=abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK || w.Body.String() != `{"received":true}` {
			t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("gopay acknowledgement body", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIWebhookUseCase(ctrl)
		r := newWebhookRouter(NewWebhookHandler(uc))

		uc.EXPECT().HandleWebhook(gomock.Any(), "gopay", gomock.Any(), gomock.Any()).Return(usecase.ReconciliationResult{
			Event:   entities.WebhookEvent{GatewayPaymentID: "gp-1", Status: entities.PaymentStatusSuccess},
			Outcome: usecase.ReconciliationUnmatched,
		}, nil)

		w := doJSON(r, http.MethodPost, "/api/webhook/gopay", `{"payment":{"id":"gp-1","state":"PAID"}}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := decodeBody(t, w)
		if body["success"] != true || body["paymentId"] != "gp-1" || body["status"] != "success" || body["message"] != "GoPay webhook processed successfully" {
			t.Fatalf("unexpected body %v", body)
		}
	})

	errorCases := []struct {
		name string
		err  error
		want int
	}{
		{"verification failure", entities.ErrVerification, http.StatusBadRequest},
		{"malformed payload", entities.ErrMalformedPayload, http.StatusBadRequest},
		{"gateway unavailable", entities.ErrGatewayUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			uc := mocks.NewMockIWebhookUseCase(ctrl)
			r := newWebhookRouter(NewWebhookHandler(uc))

			uc.EXPECT().HandleWebhook(gomock.Any(), "paypal", gomock.Any(), gomock.Any()).Return(usecase.ReconciliationResult{}, tc.err)

			w := doJSON(r, http.MethodPost, "/api/webhook/paypal", `{}`)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
			if body := decodeBody(t, w); body["success"] != false {
				t.Fatalf("unexpected body %v", body)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", Health)

	w := doJSON(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["status"] != "OK" || body["timestamp"] == "" {
		t.Fatalf("unexpected body %v", body)
	}
}
