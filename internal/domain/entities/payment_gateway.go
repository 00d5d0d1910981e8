package entities

import "time"

// PaymentRequest is the gateway-agnostic payment creation input.
//
// Amount is expressed in minor currency units (cents, haléře).
type PaymentRequest struct {
	Amount        int64
	Currency      string
	Description   string
	CustomerEmail string
	OrderID       string
}

// PaymentCreationResult is returned by every gateway adapter.
//
// Adapters never return an error from creation: a failed external call yields
// Success=false, an empty GatewayPaymentID and a message in Error.
type PaymentCreationResult struct {
	Success          bool
	GatewayPaymentID string
	RedirectURL      string
	ClientSecret     string
	Error            string
}

// FailedCreation builds the failure result used by adapters.
func FailedCreation(msg string) PaymentCreationResult {
	return PaymentCreationResult{Success: false, Error: msg}
}

// WebhookEvent is a verified callback normalized to the canonical status vocabulary.
//
// Status pending means the event does not affect the billing outcome.
type WebhookEvent struct {
	Gateway          Gateway
	EventType        string
	GatewayPaymentID string
	Status           PaymentStatus
	Amount           int64
	Currency         string
	ReceivedAt       time.Time
}
