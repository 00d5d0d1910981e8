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

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

const (
	gopaySandboxOrigin = "https://gw.sandbox.gopay.com"
	gopayLiveOrigin    = "https://gate.gopay.cz"

	gopayDefaultCurrency = "CZK"

	gopayStatePaid   = "PAID"
	gopayStateFailed = "FAILED"
)

// GoPayGateway is the regional gateway adapter.
//
// With GOID and OAuth credentials it calls the GoPay REST API; otherwise it issues
// placeholder payment ids and embed URLs.
type GoPayGateway struct {
	client   *resty.Client
	cfg      config.GoPayConfig
	origin   string
	baseURL  string
	mockMode bool
}

var _ interfaces.IPaymentGateway = (*GoPayGateway)(nil)

func NewGoPayGateway(cfg config.GoPayConfig, publicBaseURL string, timeout time.Duration, mock bool) *GoPayGateway {
	origin := gopaySandboxOrigin
	if cfg.Live() {
		origin = gopayLiveOrigin
	}
	return newGoPayGateway(cfg, publicBaseURL, origin, timeout, mock)
}

func newGoPayGateway(cfg config.GoPayConfig, publicBaseURL, origin string, timeout time.Duration, mock bool) *GoPayGateway {
	g := &GoPayGateway{
		client:   resty.New().SetBaseURL(origin + "/api").SetTimeout(timeout),
		cfg:      cfg,
		origin:   origin,
		baseURL:  publicBaseURL,
		mockMode: mock || cfg.GoID == "" || cfg.ClientID == "" || cfg.ClientSecret == "",
	}
	if g.mockMode {
		logger.Logger.Info().Str("mode", cfg.Mode).Msg("[payment][gopay] placeholder mode enabled")
	}
	logger.Logger.Warn().Msg("[payment][gopay] notifications are not signed; callback payloads are trusted")
	return g
}

func (g *GoPayGateway) Name() entities.Gateway { return entities.GatewayGoPay }

func (g *GoPayGateway) embedURL(paymentID string) string {
	return g.origin + "/gp-gw/v3/embed?payment_id=" + paymentID
}

type gopayPaymentRequest struct {
	Payer struct {
		Contact struct {
			Email string `json:"email,omitempty"`
		} `json:"contact"`
	} `json:"payer"`
	Target struct {
		Type string `json:"type"`
		GoID int64  `json:"goid"`
	} `json:"target"`
	Amount           int64       `json:"amount"`
	Currency         string      `json:"currency"`
	OrderNumber      string      `json:"order_number"`
	OrderDescription string      `json:"order_description,omitempty"`
	Items            []gopayItem `json:"items"`
	Callback         struct {
		ReturnURL       string `json:"return_url"`
		NotificationURL string `json:"notification_url"`
	} `json:"callback"`
}

type gopayItem struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
	Count  int    `json:"count"`
}

type gopayPaymentResponse struct {
	ID    any    `json:"id"`
	GwURL string `json:"gw_url"`
	State string `json:"state"`
}

func (g *GoPayGateway) CreatePayment(ctx context.Context, req entities.PaymentRequest) entities.PaymentCreationResult {
	if g.mockMode {
		id := fmt.Sprintf("%d_%s", unixMillis(), placeholderSuffix(9))
		logger.Info(ctx).Str("gateway_payment_id", id).Msg("[payment][gopay] placeholder create success")
		return entities.PaymentCreationResult{
			Success:          true,
			GatewayPaymentID: id,
			RedirectURL:      g.embedURL(id),
		}
	}

	goID, err := cast.ToInt64E(g.cfg.GoID)
	if err != nil {
		return entities.FailedCreation("invalid GOPAY_GOID")
	}

	token, err := g.accessToken(ctx)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("[payment][gopay] oauth token failed")
		return entities.FailedCreation(err.Error())
	}

	orderNo := req.OrderID
	if orderNo == "" {
		orderNo = orderNumber()
	}

	var body gopayPaymentRequest
	body.Payer.Contact.Email = req.CustomerEmail
	body.Target.Type = "ACCOUNT"
	body.Target.GoID = goID
	body.Amount = req.Amount
	body.Currency = strings.ToUpper(req.Currency)
	body.OrderNumber = orderNo
	body.OrderDescription = req.Description
	body.Items = []gopayItem{{Type: "ITEM", Name: req.Description, Amount: req.Amount, Count: 1}}
	body.Callback.ReturnURL = g.baseURL + "/success"
	body.Callback.NotificationURL = g.baseURL + "/api/webhook/gopay"

	var created gopayPaymentResponse
	logger.Info(ctx).Int64("amount", req.Amount).Str("order_number", orderNo).Msg("[payment][gopay] create payment start")
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Accept", "application/json").
		SetBody(body).
		SetResult(&created).
		Post("/payments/payment")
	if err != nil {
		logger.Error(ctx).Err(err).Msg("[payment][gopay] create payment failed")
		return entities.FailedCreation(err.Error())
	}
	if resp.IsError() {
		logger.Error(ctx).Int("status", resp.StatusCode()).Str("body", resp.String()).Msg("[payment][gopay] create payment rejected")
		return entities.FailedCreation(fmt.Sprintf("gopay payment rejected with status %d", resp.StatusCode()))
	}

	id := gopayID(created.ID)
	if id == "" {
		return entities.FailedCreation("gopay response without payment id")
	}
	redirect := created.GwURL
	if redirect == "" {
		redirect = g.embedURL(id)
	}
	logger.Info(ctx).Str("gateway_payment_id", id).Str("state", created.State).Msg("[payment][gopay] create payment success")

	return entities.PaymentCreationResult{
		Success:          true,
		GatewayPaymentID: id,
		RedirectURL:      redirect,
	}
}

type gopayNotification struct {
	ID       any    `json:"id"`
	State    string `json:"state"`
	Amount   any    `json:"amount"`
	Currency string `json:"currency"`
}

type gopayWebhook struct {
	Payment *gopayNotification `json:"payment"`
	gopayNotification
}

// ProcessWebhook trusts the payload shape; GoPay notifications carry no signature.
func (g *GoPayGateway) ProcessWebhook(ctx context.Context, rawPayload []byte, _ http.Header) (entities.WebhookEvent, error) {
	var hook gopayWebhook
	if err := json.Unmarshal(rawPayload, &hook); err != nil {
		return entities.WebhookEvent{}, fmt.Errorf("%w: %v", entities.ErrMalformedPayload, err)
	}

	n := hook.gopayNotification
	if hook.Payment != nil {
		n = *hook.Payment
	}
	if n.State == "" {
		return entities.WebhookEvent{}, fmt.Errorf("%w: missing state", entities.ErrMalformedPayload)
	}

	out := entities.WebhookEvent{
		Gateway:          entities.GatewayGoPay,
		EventType:        n.State,
		GatewayPaymentID: gopayID(n.ID),
		Status:           entities.PaymentStatusPending,
		Currency:         gopayDefaultCurrency,
		ReceivedAt:       time.Now().UTC(),
	}
	if c := strings.TrimSpace(n.Currency); c != "" {
		out.Currency = strings.ToUpper(c)
	}

	switch n.State {
	case gopayStatePaid, gopayStateFailed:
		if out.GatewayPaymentID == "" {
			return entities.WebhookEvent{}, fmt.Errorf("%w: missing payment id", entities.ErrMalformedPayload)
		}
		if n.Amount != nil {
			amount, err := gopayAmount(n.Amount)
			if err != nil {
				return entities.WebhookEvent{}, fmt.Errorf("%w: amount: %v", entities.ErrMalformedPayload, err)
			}
			out.Amount = amount
		}
		out.Status = entities.PaymentStatusSuccess
		if n.State == gopayStateFailed {
			out.Status = entities.PaymentStatusFailed
		}
	default:
		logger.Info(ctx).Str("state", n.State).Msg("[payment][gopay] non-terminal state")
	}

	return out, nil
}

// gopayAmount accepts integral minor-unit amounts sent as JSON numbers or decimal strings.
func gopayAmount(v any) (int64, error) {
	raw, err := cast.ToStringE(v)
	if err != nil {
		return 0, err
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%s is not a whole number of minor units", raw)
	}
	return d.IntPart(), nil
}

// gopayID normalizes ids that arrive as JSON numbers or strings.
func gopayID(v any) string {
	if v == nil {
		return ""
	}
	if f, ok := v.(float64); ok {
		return cast.ToString(int64(f))
	}
	return strings.TrimSpace(cast.ToString(v))
}

func (g *GoPayGateway) accessToken(ctx context.Context) (string, error) {
	var token struct {
		AccessToken string `json:"access_token"`
	}
	resp, err := g.client.R().
		SetContext(ctx).
		SetBasicAuth(g.cfg.ClientID, g.cfg.ClientSecret).
		SetHeader("Accept", "application/json").
		SetFormData(map[string]string{
			"grant_type": "client_credentials",
			"scope":      "payment-create",
		}).
		SetResult(&token).
		Post("/oauth2/token")
	if err != nil {
		return "", err
	}
	if resp.IsError() || token.AccessToken == "" {
		return "", fmt.Errorf("gopay oauth returned %d", resp.StatusCode())
	}
	return token.AccessToken, nil
}
