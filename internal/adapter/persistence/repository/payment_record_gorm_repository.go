package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"payhub/internal/domain/entities"
	"payhub/internal/usecase/interfaces"

	"gorm.io/gorm"
)

type paymentRecordModel struct {
	ID               string    `gorm:"primaryKey;size:64"`
	GatewayPaymentID string    `gorm:"size:128;not null;uniqueIndex"`
	Gateway          string    `gorm:"size:16;not null"`
	Amount           int64     `gorm:"not null"`
	Currency         string    `gorm:"size:8;not null"`
	Status           string    `gorm:"size:16;not null;index"`
	CustomerEmail    string    `gorm:"size:255"`
	OrderID          string    `gorm:"size:128"`
	SessionID        string    `gorm:"size:128;not null;index"`
	CreatedAt        time.Time `gorm:"index"`
	UpdatedAt        time.Time
}

func (paymentRecordModel) TableName() string { return "payments" }

// PaymentRecordGormRepository persists PaymentRecord entities in a relational table (sqlite or postgres).
//
// Table requirements:
//   - PK: id
//   - unique: gateway_payment_id
//   - indexes: session_id, status, created_at
type PaymentRecordGormRepository struct {
	db *gorm.DB
}

var _ interfaces.IPaymentRecordRepository = (*PaymentRecordGormRepository)(nil)

func NewPaymentRecordGormRepository(db *gorm.DB) *PaymentRecordGormRepository {
	return &PaymentRecordGormRepository{db: db}
}

// AutoMigrate creates or updates the payments table and its indexes.
func (r *PaymentRecordGormRepository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&paymentRecordModel{})
}

func (r *PaymentRecordGormRepository) Create(ctx context.Context, p entities.PaymentRecord) (entities.PaymentRecord, error) {
	m := toPaymentRecordModel(p)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDuplicate(err) {
			return entities.PaymentRecord{}, entities.ErrDuplicateKey
		}
		return entities.PaymentRecord{}, storeError("create", err)
	}
	return fromPaymentRecordModel(m), nil
}

func (r *PaymentRecordGormRepository) UpdateStatus(ctx context.Context, gatewayPaymentID string, status entities.PaymentStatus) (entities.StatusUpdateOutcome, error) {
	if err := requireTerminal(status); err != nil {
		return "", err
	}

	res := r.db.WithContext(ctx).
		Model(&paymentRecordModel{}).
		Where("gateway_payment_id = ? AND status = ?", gatewayPaymentID, string(entities.PaymentStatusPending)).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": nowUTC(),
		})
	if res.Error != nil {
		return "", storeError("update status", res.Error)
	}
	if res.RowsAffected > 0 {
		return entities.StatusUpdateApplied, nil
	}

	current, err := r.GetByGatewayPaymentID(ctx, gatewayPaymentID)
	if err != nil {
		return "", err
	}
	return outcomeFor(current, status), nil
}

func (r *PaymentRecordGormRepository) GetBySessionID(ctx context.Context, sessionID string) (entities.PaymentRecord, error) {
	return r.first(ctx, "session_id = ?", sessionID)
}

func (r *PaymentRecordGormRepository) GetByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (entities.PaymentRecord, error) {
	return r.first(ctx, "gateway_payment_id = ?", gatewayPaymentID)
}

func (r *PaymentRecordGormRepository) ListAll(ctx context.Context) ([]entities.PaymentRecord, error) {
	var models []paymentRecordModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, storeError("list", err)
	}

	items := make([]entities.PaymentRecord, 0, len(models))
	for _, m := range models {
		items = append(items, fromPaymentRecordModel(m))
	}
	return items, nil
}

func (r *PaymentRecordGormRepository) first(ctx context.Context, query string, arg string) (entities.PaymentRecord, error) {
	var m paymentRecordModel
	err := r.db.WithContext(ctx).Where(query, arg).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.PaymentRecord{}, nil
	}
	if err != nil {
		return entities.PaymentRecord{}, storeError("get", err)
	}
	return fromPaymentRecordModel(m), nil
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func toPaymentRecordModel(p entities.PaymentRecord) paymentRecordModel {
	return paymentRecordModel{
		ID:               p.ID,
		GatewayPaymentID: p.GatewayPaymentID,
		Gateway:          string(p.Gateway),
		Amount:           p.Amount,
		Currency:         p.Currency,
		Status:           string(p.Status),
		CustomerEmail:    p.CustomerEmail,
		OrderID:          p.OrderID,
		SessionID:        p.SessionID,
		CreatedAt:        p.CreatedAt.UTC(),
		UpdatedAt:        p.UpdatedAt.UTC(),
	}
}

func fromPaymentRecordModel(m paymentRecordModel) entities.PaymentRecord {
	return entities.PaymentRecord{
		ID:               m.ID,
		GatewayPaymentID: m.GatewayPaymentID,
		Gateway:          entities.Gateway(m.Gateway),
		Amount:           m.Amount,
		Currency:         m.Currency,
		Status:           entities.PaymentStatus(m.Status),
		CustomerEmail:    m.CustomerEmail,
		OrderID:          m.OrderID,
		SessionID:        m.SessionID,
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
}
