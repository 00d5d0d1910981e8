package interfaces

import (
	"context"
	"net/http"

	"payhub/internal/domain/entities"
)

// IPaymentGateway abstracts one external payment provider (card, wallet, regional).
//
// Implementations:
//   - CreatePayment opens a gateway-side session/order. Failures are returned as a
//     PaymentCreationResult with Success=false, never as an error or panic.
//   - ProcessWebhook verifies the raw callback body and normalizes it. It must not touch
//     the payment store. Errors wrap entities.ErrVerification, entities.ErrMalformedPayload
//     or entities.ErrGatewayUnavailable.
type IPaymentGateway interface {
	Name() entities.Gateway
	CreatePayment(ctx context.Context, req entities.PaymentRequest) entities.PaymentCreationResult
	ProcessWebhook(ctx context.Context, rawPayload []byte, headers http.Header) (entities.WebhookEvent, error)
}

// IGatewayRegistry resolves a gateway tag to its adapter.
type IGatewayRegistry interface {
	Get(gateway entities.Gateway) (IPaymentGateway, bool)
}
