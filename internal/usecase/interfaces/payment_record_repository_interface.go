package interfaces

import (
	"context"

	"payhub/internal/domain/entities"
)

// IPaymentRecordRepository abstracts persistence for PaymentRecord.
//
// Lookups return a zero PaymentRecord (empty ID) and a nil error when nothing matches.
// Infrastructure failures wrap entities.ErrStoreUnavailable.
type IPaymentRecordRepository interface {
	Create(ctx context.Context, r entities.PaymentRecord) (entities.PaymentRecord, error)
	UpdateStatus(ctx context.Context, gatewayPaymentID string, status entities.PaymentStatus) (entities.StatusUpdateOutcome, error)
	GetBySessionID(ctx context.Context, sessionID string) (entities.PaymentRecord, error)
	GetByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (entities.PaymentRecord, error)
	ListAll(ctx context.Context) ([]entities.PaymentRecord, error)
}
