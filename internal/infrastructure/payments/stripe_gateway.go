package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"payhub/internal/domain/entities"
	"payhub/internal/infrastructure/config"
	"payhub/internal/infrastructure/logger"
	"payhub/internal/usecase/interfaces"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"
)

const (
	stripeSignatureHeader = "Stripe-Signature"
	stripeDefaultCurrency = "USD"
)

// StripeGateway is the card gateway adapter backed by Stripe Checkout.
type StripeGateway struct {
	sessions      *session.Client
	secretKey     string
	webhookSecret string
	baseURL       string
}

var _ interfaces.IPaymentGateway = (*StripeGateway)(nil)

func NewStripeGateway(cfg config.StripeConfig, publicBaseURL string, timeout time.Duration) *StripeGateway {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripe.Int64(0),
	})
	return newStripeGatewayWithBackend(cfg, publicBaseURL, backend)
}

func newStripeGatewayWithBackend(cfg config.StripeConfig, publicBaseURL string, backend stripe.Backend) *StripeGateway {
	if cfg.WebhookSecret == "" {
		logger.Logger.Warn().Msg("[payment][stripe] STRIPE_WEBHOOK_SECRET is empty; every webhook will be rejected")
	}
	return &StripeGateway{
		sessions:      &session.Client{B: backend, Key: cfg.SecretKey},
		secretKey:     cfg.SecretKey,
		webhookSecret: cfg.WebhookSecret,
		baseURL:       publicBaseURL,
	}
}

func (g *StripeGateway) Name() entities.Gateway { return entities.GatewayStripe }

func (g *StripeGateway) CreatePayment(ctx context.Context, req entities.PaymentRequest) entities.PaymentCreationResult {
	if g.secretKey == "" {
		logger.Warn(ctx).Msg("[payment][stripe] create rejected: missing STRIPE_SECRET_KEY")
		return entities.FailedCreation("stripe gateway not configured")
	}

	name := req.Description
	if strings.TrimSpace(name) == "" {
		name = "Payment"
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(strings.ToLower(req.Currency)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(name),
					},
					UnitAmount: stripe.Int64(req.Amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(g.baseURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(g.baseURL + "/cancel"),
	}
	params.Context = ctx
	params.AddMetadata("customer_email", req.CustomerEmail)
	params.AddMetadata("order_id", req.OrderID)

	logger.Info(ctx).Int64("amount", req.Amount).Str("currency", req.Currency).Msg("[payment][stripe] create checkout session start")
	s, err := g.sessions.New(params)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("[payment][stripe] create checkout session failed")
		return entities.FailedCreation(stripeErrorMessage(err))
	}
	logger.Info(ctx).Str("gateway_payment_id", s.ID).Msg("[payment][stripe] create checkout session success")

	return entities.PaymentCreationResult{
		Success:          true,
		GatewayPaymentID: s.ID,
		RedirectURL:      s.URL,
	}
}

func (g *StripeGateway) ProcessWebhook(ctx context.Context, rawPayload []byte, headers http.Header) (entities.WebhookEvent, error) {
	signature := headers.Get(stripeSignatureHeader)
	if signature == "" {
		return entities.WebhookEvent{}, fmt.Errorf("%w: missing %s header", entities.ErrVerification, stripeSignatureHeader)
	}
	if g.webhookSecret == "" {
		return entities.WebhookEvent{}, fmt.Errorf("%w: webhook secret not configured", entities.ErrVerification)
	}
	if err := webhook.ValidatePayloadWithTolerance(rawPayload, signature, g.webhookSecret, webhook.DefaultTolerance); err != nil {
		return entities.WebhookEvent{}, fmt.Errorf("%w: %v", entities.ErrVerification, err)
	}

	var event stripe.Event
	if err := json.Unmarshal(rawPayload, &event); err != nil {
		return entities.WebhookEvent{}, fmt.Errorf("%w: %v", entities.ErrMalformedPayload, err)
	}
	if event.Type == "" {
		return entities.WebhookEvent{}, fmt.Errorf("%w: missing event type", entities.ErrMalformedPayload)
	}

	out := entities.WebhookEvent{
		Gateway:    entities.GatewayStripe,
		EventType:  string(event.Type),
		Status:     entities.PaymentStatusPending,
		Currency:   stripeDefaultCurrency,
		ReceivedAt: time.Now().UTC(),
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted, stripe.EventTypeCheckoutSessionExpired:
		var s stripe.CheckoutSession
		if err := decodeStripeObject(event, &s); err != nil {
			return entities.WebhookEvent{}, err
		}
		if s.ID == "" {
			return entities.WebhookEvent{}, fmt.Errorf("%w: checkout session without id", entities.ErrMalformedPayload)
		}
		out.GatewayPaymentID = s.ID
		out.Amount = s.AmountTotal
		out.Currency = stripeCurrency(s.Currency)
		out.Status = entities.PaymentStatusSuccess
		if event.Type == stripe.EventTypeCheckoutSessionExpired {
			out.Status = entities.PaymentStatusFailed
		}
	case stripe.EventTypePaymentIntentSucceeded, stripe.EventTypePaymentIntentPaymentFailed:
		var pi stripe.PaymentIntent
		if err := decodeStripeObject(event, &pi); err != nil {
			return entities.WebhookEvent{}, err
		}
		if pi.ID == "" {
			return entities.WebhookEvent{}, fmt.Errorf("%w: payment intent without id", entities.ErrMalformedPayload)
		}
		out.GatewayPaymentID = pi.ID
		out.Amount = pi.Amount
		out.Currency = stripeCurrency(pi.Currency)
		out.Status = entities.PaymentStatusSuccess
		if event.Type == stripe.EventTypePaymentIntentPaymentFailed {
			out.Status = entities.PaymentStatusFailed
		}
	default:
		logger.Info(ctx).Str("event_type", string(event.Type)).Msg("[payment][stripe] unhandled event type")
	}

	return out, nil
}

func decodeStripeObject(event stripe.Event, into any) error {
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return fmt.Errorf("%w: missing data.object", entities.ErrMalformedPayload)
	}
	if err := json.Unmarshal(event.Data.Raw, into); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrMalformedPayload, err)
	}
	return nil
}

func stripeCurrency(c stripe.Currency) string {
	if c == "" {
		return stripeDefaultCurrency
	}
	return strings.ToUpper(string(c))
}

func stripeErrorMessage(err error) string {
	if se, ok := err.(*stripe.Error); ok && se.Msg != "" {
		return se.Msg
	}
	return err.Error()
}
