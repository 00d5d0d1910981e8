package response

import (
	"time"

	"payhub/internal/domain/entities"
)

type PaymentCreationResponse struct {
	Success      bool   `json:"success"`
	PaymentID    string `json:"paymentId"`
	RedirectURL  string `json:"redirectUrl,omitempty"`
	ClientSecret string `json:"clientSecret,omitempty"`
	Error        string `json:"error,omitempty"`
}

func FromCreationResult(r entities.PaymentCreationResult) PaymentCreationResponse {
	return PaymentCreationResponse{
		Success:      r.Success,
		PaymentID:    r.GatewayPaymentID,
		RedirectURL:  r.RedirectURL,
		ClientSecret: r.ClientSecret,
		Error:        r.Error,
	}
}

type PaymentResponse struct {
	ID               string    `json:"id"`
	GatewayPaymentID string    `json:"gatewayPaymentId"`
	Gateway          string    `json:"gateway"`
	Amount           int64     `json:"amount"`
	Currency         string    `json:"currency"`
	Status           string    `json:"status"`
	CustomerEmail    string    `json:"customerEmail,omitempty"`
	OrderID          string    `json:"orderId,omitempty"`
	SessionID        string    `json:"sessionId"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func FromPaymentRecord(p entities.PaymentRecord) PaymentResponse {
	return PaymentResponse{
		ID:               p.ID,
		GatewayPaymentID: p.GatewayPaymentID,
		Gateway:          string(p.Gateway),
		Amount:           p.Amount,
		Currency:         p.Currency,
		Status:           string(p.Status),
		CustomerEmail:    p.CustomerEmail,
		OrderID:          p.OrderID,
		SessionID:        p.SessionID,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

type PaymentListResponse struct {
	Success  bool              `json:"success"`
	Payments []PaymentResponse `json:"payments"`
}

func FromPaymentRecords(items []entities.PaymentRecord) PaymentListResponse {
	out := PaymentListResponse{Success: true, Payments: make([]PaymentResponse, 0, len(items))}
	for _, p := range items {
		out.Payments = append(out.Payments, FromPaymentRecord(p))
	}
	return out
}

type PaymentInfoResponse struct {
	Success bool            `json:"success"`
	Payment PaymentResponse `json:"payment"`
}

// WebhookAckResponse is returned to the wallet and regional gateways.
type WebhookAckResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"`
}

// StripeAckResponse is returned to the card gateway.
type StripeAckResponse struct {
	Received bool `json:"received"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
