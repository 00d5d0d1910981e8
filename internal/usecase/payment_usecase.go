package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"payhub/internal/domain/entities"
	"payhub/internal/infrastructure/logger"
	"payhub/internal/infrastructure/metrics"
	"payhub/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// IPaymentUseCase is the Payment Creation Service plus the read paths used by the HTTP surface.
//
// CreatePayment guarantees exactly one of:
//   - a successful result and exactly one new pending PaymentRecord
//   - a failed result (or error) and no new PaymentRecord
//
// The one exception is ErrOrphanedGatewaySession: the gateway session exists but the
// record could not be written.
type IPaymentUseCase interface {
	CreatePayment(ctx context.Context, gateway string, req entities.PaymentRequest) (entities.PaymentCreationResult, error)
	ListAll(ctx context.Context) ([]entities.PaymentRecord, error)
	GetBySessionID(ctx context.Context, sessionID string) (entities.PaymentRecord, error)
}

type PaymentUseCase struct {
	repo     interfaces.IPaymentRecordRepository
	gateways interfaces.IGatewayRegistry
	metrics  *metrics.Metrics
	timeout  time.Duration
	now      func() time.Time
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

// NewPaymentUseCase wires the creation service. A zero timeout leaves gateway calls unbounded; m may be nil.
func NewPaymentUseCase(repo interfaces.IPaymentRecordRepository, gateways interfaces.IGatewayRegistry, m *metrics.Metrics, timeout time.Duration) *PaymentUseCase {
	return &PaymentUseCase{
		repo:     repo,
		gateways: gateways,
		metrics:  m,
		timeout:  timeout,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (u *PaymentUseCase) CreatePayment(ctx context.Context, gateway string, req entities.PaymentRequest) (entities.PaymentCreationResult, error) {
	tag, ok := entities.ParseGateway(strings.ToLower(strings.TrimSpace(gateway)))
	if !ok {
		logger.Warn(ctx).Str("gateway", gateway).Msg("[payment][usecase] unsupported gateway")
		return entities.PaymentCreationResult{}, fmt.Errorf("%w: %q", entities.ErrUnsupportedGateway, gateway)
	}

	req, err := normalizePaymentRequest(req)
	if err != nil {
		logger.Warn(ctx).Err(err).Str("gateway", string(tag)).Msg("[payment][usecase] invalid request")
		return entities.PaymentCreationResult{}, err
	}

	adapter, ok := u.gateways.Get(tag)
	if !ok {
		logger.Error(ctx).Str("gateway", string(tag)).Msg("[payment][usecase] gateway not configured")
		return entities.PaymentCreationResult{}, fmt.Errorf("%w: %s not configured", entities.ErrUnsupportedGateway, tag)
	}

	logger.Info(ctx).
		Str("gateway", string(tag)).
		Int64("amount", req.Amount).
		Str("currency", req.Currency).
		Msg("[payment][usecase] create start")

	callCtx, cancel := u.gatewayContext(ctx)
	started := time.Now()
	res := adapter.CreatePayment(callCtx, req)
	took := time.Since(started)
	cancel()

	if res.Success && strings.TrimSpace(res.GatewayPaymentID) == "" {
		res = entities.FailedCreation("gateway returned an empty payment id")
	}
	if !res.Success {
		if res.Error == "" {
			res.Error = "payment creation failed"
		}
		res.GatewayPaymentID = ""
		logger.Warn(ctx).Str("gateway", string(tag)).Str("error", res.Error).Msg("[payment][usecase] gateway create failed")
		u.metrics.ObservePaymentCreated(string(tag), "gateway_error", took)
		return res, nil
	}

	now := u.now()
	record := entities.PaymentRecord{
		ID:               newRecordID(tag),
		GatewayPaymentID: res.GatewayPaymentID,
		Gateway:          tag,
		Amount:           req.Amount,
		Currency:         req.Currency,
		Status:           entities.PaymentStatusPending,
		CustomerEmail:    req.CustomerEmail,
		OrderID:          req.OrderID,
		SessionID:        res.GatewayPaymentID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	// The gateway session already exists; a client disconnect must not cancel its record.
	storeCtx, cancelStore := detachedStoreContext(ctx)
	defer cancelStore()
	if _, err := u.repo.Create(storeCtx, record); err != nil {
		logger.Error(ctx).
			Err(err).
			Str("gateway", string(tag)).
			Str("gateway_payment_id", res.GatewayPaymentID).
			Msg("[payment][usecase] orphaned gateway session")
		u.metrics.ObservePaymentCreated(string(tag), "orphaned", took)
		return entities.PaymentCreationResult{}, fmt.Errorf("%w: %w", entities.ErrOrphanedGatewaySession, err)
	}

	logger.Info(ctx).
		Str("gateway", string(tag)).
		Str("payment_id", record.ID).
		Str("gateway_payment_id", record.GatewayPaymentID).
		Msg("[payment][usecase] create success")
	u.metrics.ObservePaymentCreated(string(tag), "success", took)
	return res, nil
}

func (u *PaymentUseCase) ListAll(ctx context.Context) ([]entities.PaymentRecord, error) {
	items, err := u.repo.ListAll(ctx)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("[payment][usecase] list failed")
		return nil, err
	}
	return items, nil
}

func (u *PaymentUseCase) GetBySessionID(ctx context.Context, sessionID string) (entities.PaymentRecord, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return entities.PaymentRecord{}, entities.ErrPaymentNotFound
	}

	rec, err := u.repo.GetBySessionID(ctx, sessionID)
	if err != nil {
		logger.Error(ctx).Err(err).Str("session_id", sessionID).Msg("[payment][usecase] session lookup failed")
		return entities.PaymentRecord{}, err
	}
	if rec.ID == "" {
		return entities.PaymentRecord{}, entities.ErrPaymentNotFound
	}
	return rec, nil
}

func (u *PaymentUseCase) gatewayContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if u.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, u.timeout)
}

// storeWriteTimeout bounds store writes that run after an external side effect.
const storeWriteTimeout = 5 * time.Second

// detachedStoreContext keeps the request's values (request id logger) but not its cancellation.
func detachedStoreContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), storeWriteTimeout)
}

func normalizePaymentRequest(req entities.PaymentRequest) (entities.PaymentRequest, error) {
	if req.Amount <= 0 {
		return req, fmt.Errorf("%w: amount must be a positive integer in minor units", entities.ErrInvalidRequest)
	}
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if req.Currency == "" {
		return req, fmt.Errorf("%w: currency is required", entities.ErrInvalidRequest)
	}
	req.Description = strings.TrimSpace(req.Description)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	req.OrderID = strings.TrimSpace(req.OrderID)
	return req, nil
}

func newRecordID(gateway entities.Gateway) string {
	return string(gateway) + "_" + uuid.NewString()
}
