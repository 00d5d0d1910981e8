package entities

import "time"

// Gateway identifies one of the external payment gateways.
type Gateway string

const (
	GatewayStripe Gateway = "stripe"
	GatewayPayPal Gateway = "paypal"
	GatewayGoPay  Gateway = "gopay"
)

// KnownGateways lists every gateway tag accepted at the API boundary.
var KnownGateways = []Gateway{GatewayStripe, GatewayPayPal, GatewayGoPay}

// ParseGateway resolves a selector into a known gateway tag.
func ParseGateway(s string) (Gateway, bool) {
	for _, g := range KnownGateways {
		if string(g) == s {
			return g, true
		}
	}
	return "", false
}

// PaymentStatus is the lifecycle state of a payment attempt.
//
// Allowed transitions: pending -> success, pending -> failed.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed
}

// PaymentRecord is the persisted payment attempt.
//
// Storage model:
//   - PK: id
//   - unique: gateway_payment_id
//   - indexes: session_id, status
//
// SessionID mirrors GatewayPaymentID and is what the confirmation page looks up.
type PaymentRecord struct {
	ID               string        `json:"id"`
	GatewayPaymentID string        `json:"gatewayPaymentId"`
	Gateway          Gateway       `json:"gateway"`
	Amount           int64         `json:"amount"`
	Currency         string        `json:"currency"`
	Status           PaymentStatus `json:"status"`
	CustomerEmail    string        `json:"customerEmail,omitempty"`
	OrderID          string        `json:"orderId,omitempty"`
	SessionID        string        `json:"sessionId"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// StatusUpdateOutcome describes what a status update did to the stored record.
type StatusUpdateOutcome string

const (
	// StatusUpdateApplied means the record moved from pending to the new status.
	StatusUpdateApplied StatusUpdateOutcome = "applied"
	// StatusUpdateUnchanged means the record already had the requested status.
	StatusUpdateUnchanged StatusUpdateOutcome = "unchanged"
	// StatusUpdateConflict means the record is terminal with a different status; nothing was written.
	StatusUpdateConflict StatusUpdateOutcome = "conflict"
	// StatusUpdateNotFound means no record matched the gateway payment id.
	StatusUpdateNotFound StatusUpdateOutcome = "not_found"
)
