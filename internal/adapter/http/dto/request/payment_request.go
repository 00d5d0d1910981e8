package request

import (
	"encoding/json"
	"fmt"
	"strings"

	"payhub/internal/domain/entities"
)

// CreatePaymentRequest is the body of the create endpoints.
//
// `gateway` is only read by the generic endpoint. `amount` is in minor currency
// units and may arrive as a JSON number or a numeric string.
type CreatePaymentRequest struct {
	Gateway       string      `json:"gateway,omitempty" example:"stripe"`
	Amount        json.Number `json:"amount" swaggertype:"integer" example:"1500"`
	Currency      string      `json:"currency" example:"USD"`
	Description   string      `json:"description" example:"Pro plan"`
	CustomerEmail string      `json:"customerEmail,omitempty" example:"jane@example.com"`
	OrderID       string      `json:"orderId,omitempty" example:"order-42"`
}

// ToEntity checks presence of the required fields and converts the amount.
func (r CreatePaymentRequest) ToEntity() (entities.PaymentRequest, error) {
	if r.Amount == "" || strings.TrimSpace(r.Currency) == "" {
		return entities.PaymentRequest{}, fmt.Errorf("%w: missing required fields: amount, currency", entities.ErrInvalidRequest)
	}
	amount, err := r.Amount.Int64()
	if err != nil {
		return entities.PaymentRequest{}, fmt.Errorf("%w: amount must be an integer in minor units", entities.ErrInvalidRequest)
	}
	return entities.PaymentRequest{
		Amount:        amount,
		Currency:      r.Currency,
		Description:   r.Description,
		CustomerEmail: r.CustomerEmail,
		OrderID:       r.OrderID,
	}, nil
}
