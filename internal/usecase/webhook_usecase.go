package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"payhub/internal/domain/entities"
	"payhub/internal/infrastructure/logger"
	"payhub/internal/infrastructure/metrics"
	"payhub/internal/usecase/interfaces"
)

// ReconciliationOutcome is what a verified callback did to the store.
type ReconciliationOutcome string

const (
	// ReconciliationIgnored: the event does not affect the billing outcome.
	ReconciliationIgnored   ReconciliationOutcome = "ignored"
	ReconciliationApplied   ReconciliationOutcome = "applied"
	ReconciliationUnchanged ReconciliationOutcome = "unchanged"
	ReconciliationConflict  ReconciliationOutcome = "conflict"
	// ReconciliationUnmatched: no local record for the gateway payment id.
	ReconciliationUnmatched ReconciliationOutcome = "unmatched"
	// ReconciliationStoreFailed: the update could not be written; the callback is still acknowledged.
	ReconciliationStoreFailed ReconciliationOutcome = "store_failed"
)

type ReconciliationResult struct {
	Event   entities.WebhookEvent
	Outcome ReconciliationOutcome
}

// IWebhookUseCase is the Webhook Reconciliation Service.
//
// An error is returned only when the callback was not verified or normalized
// (ErrVerification, ErrMalformedPayload, ErrGatewayUnavailable, ErrUnsupportedGateway).
// Every verified callback yields a result and must be acknowledged.
type IWebhookUseCase interface {
	HandleWebhook(ctx context.Context, gateway string, rawPayload []byte, headers http.Header) (ReconciliationResult, error)
}

type WebhookUseCase struct {
	repo     interfaces.IPaymentRecordRepository
	gateways interfaces.IGatewayRegistry
	metrics  *metrics.Metrics
}

var _ IWebhookUseCase = (*WebhookUseCase)(nil)

func NewWebhookUseCase(repo interfaces.IPaymentRecordRepository, gateways interfaces.IGatewayRegistry, m *metrics.Metrics) *WebhookUseCase {
	return &WebhookUseCase{repo: repo, gateways: gateways, metrics: m}
}

func (u *WebhookUseCase) HandleWebhook(ctx context.Context, gateway string, rawPayload []byte, headers http.Header) (ReconciliationResult, error) {
	tag, ok := entities.ParseGateway(strings.ToLower(strings.TrimSpace(gateway)))
	if !ok {
		return ReconciliationResult{}, fmt.Errorf("%w: %q", entities.ErrUnsupportedGateway, gateway)
	}
	adapter, ok := u.gateways.Get(tag)
	if !ok {
		return ReconciliationResult{}, fmt.Errorf("%w: %s not configured", entities.ErrUnsupportedGateway, tag)
	}

	logger.Info(ctx).Str("gateway", string(tag)).Int("payload_len", len(rawPayload)).Msg("[webhook][usecase] received")

	ev, err := adapter.ProcessWebhook(ctx, rawPayload, headers)
	if err != nil {
		logger.Warn(ctx).Err(err).Str("gateway", string(tag)).Msg("[webhook][usecase] callback rejected")
		u.metrics.ObserveWebhook(string(tag), "rejected")
		return ReconciliationResult{}, err
	}

	result := ReconciliationResult{Event: ev, Outcome: ReconciliationIgnored}
	log := logger.WithContext(ctx).With().
		Str("gateway", string(tag)).
		Str("event_type", ev.EventType).
		Str("gateway_payment_id", ev.GatewayPaymentID).
		Str("status", string(ev.Status)).
		Logger()

	if !ev.Status.IsTerminal() {
		log.Info().Msg("[webhook][usecase] non-terminal event acknowledged")
		u.metrics.ObserveWebhook(string(tag), string(result.Outcome))
		return result, nil
	}

	storeCtx, cancelStore := detachedStoreContext(ctx)
	defer cancelStore()
	outcome, err := u.repo.UpdateStatus(storeCtx, ev.GatewayPaymentID, ev.Status)
	switch {
	case err != nil:
		log.Error().Err(err).Msg("[webhook][usecase] webhook store update failed")
		result.Outcome = ReconciliationStoreFailed
	case outcome == entities.StatusUpdateApplied:
		log.Info().Msg("[webhook][usecase] status applied")
		result.Outcome = ReconciliationApplied
	case outcome == entities.StatusUpdateUnchanged:
		log.Info().Msg("[webhook][usecase] duplicate delivery, status unchanged")
		result.Outcome = ReconciliationUnchanged
	case outcome == entities.StatusUpdateConflict:
		log.Warn().Msg("[webhook][usecase] conflicting terminal status ignored")
		result.Outcome = ReconciliationConflict
	default:
		log.Warn().Msg("[webhook][usecase] webhook for unknown payment")
		result.Outcome = ReconciliationUnmatched
	}

	u.metrics.ObserveWebhook(string(tag), string(result.Outcome))
	return result, nil
}
