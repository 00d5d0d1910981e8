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
)

const (
	paypalSandboxAPI = "https://api-m.sandbox.paypal.com"
	paypalLiveAPI    = "https://api-m.paypal.com"

	paypalSandboxCheckout = "https://www.sandbox.paypal.com/cgi-bin/webscr?cmd=_express-checkout&token="
	paypalLiveCheckout    = "https://www.paypal.com/cgi-bin/webscr?cmd=_express-checkout&token="

	paypalDefaultCurrency = "USD"

	paypalEventCaptureCompleted = "PAYMENT.CAPTURE.COMPLETED"
	paypalEventCaptureDenied    = "PAYMENT.CAPTURE.DENIED"
	paypalEventOrderApproved    = "CHECKOUT.ORDER.APPROVED"
	paypalEventOrderCompleted   = "CHECKOUT.ORDER.COMPLETED"

	paypalIssueAlreadyCaptured = "ORDER_ALREADY_CAPTURED"
)

// Transmission headers PayPal attaches to every webhook delivery.
var paypalVerificationHeaders = []string{
	"Paypal-Auth-Algo",
	"Paypal-Cert-Url",
	"Paypal-Transmission-Id",
	"Paypal-Transmission-Sig",
	"Paypal-Transmission-Time",
}

// PayPalGateway is the wallet gateway adapter.
//
// Without API credentials (or with MOCK_GATEWAYS on) it issues placeholder order ids
// and checkout URLs instead of calling the Orders API.
type PayPalGateway struct {
	client      *resty.Client
	cfg         config.PayPalConfig
	baseURL     string
	checkoutURL string
	mockMode    bool
}

var _ interfaces.IPaymentGateway = (*PayPalGateway)(nil)

func NewPayPalGateway(cfg config.PayPalConfig, publicBaseURL string, timeout time.Duration, mock bool) *PayPalGateway {
	apiURL := paypalSandboxAPI
	if cfg.Live() {
		apiURL = paypalLiveAPI
	}
	return newPayPalGateway(cfg, publicBaseURL, apiURL, timeout, mock)
}

func newPayPalGateway(cfg config.PayPalConfig, publicBaseURL, apiURL string, timeout time.Duration, mock bool) *PayPalGateway {
	g := &PayPalGateway{
		client:      resty.New().SetBaseURL(apiURL).SetTimeout(timeout),
		cfg:         cfg,
		baseURL:     publicBaseURL,
		checkoutURL: paypalSandboxCheckout,
		mockMode:    mock || cfg.ClientID == "" || cfg.ClientSecret == "",
	}
	if cfg.Live() {
		g.checkoutURL = paypalLiveCheckout
	}
	if g.mockMode {
		logger.Logger.Info().Str("mode", cfg.Mode).Msg("[payment][paypal] placeholder mode enabled")
	}
	if !g.verificationEnabled() {
		logger.Logger.Warn().Msg("[payment][paypal] webhook signature verification disabled; callback payloads are trusted")
	}
	return g
}

func (g *PayPalGateway) Name() entities.Gateway { return entities.GatewayPayPal }

type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalPurchaseUnit struct {
	ReferenceID string       `json:"reference_id,omitempty"`
	CustomID    string       `json:"custom_id,omitempty"`
	Description string       `json:"description,omitempty"`
	Amount      paypalAmount `json:"amount"`
}

type paypalPayer struct {
	EmailAddress string `json:"email_address"`
}

type paypalOrderRequest struct {
	Intent             string               `json:"intent"`
	Payer              *paypalPayer         `json:"payer,omitempty"`
	PurchaseUnits      []paypalPurchaseUnit `json:"purchase_units"`
	ApplicationContext struct {
		ReturnURL string `json:"return_url"`
		CancelURL string `json:"cancel_url"`
	} `json:"application_context"`
}

type paypalOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

func (g *PayPalGateway) CreatePayment(ctx context.Context, req entities.PaymentRequest) entities.PaymentCreationResult {
	if g.mockMode {
		id := fmt.Sprintf("PAY-%d-%s", unixMillis(), strings.ToUpper(placeholderSuffix(9)))
		logger.Info(ctx).Str("gateway_payment_id", id).Msg("[payment][paypal] placeholder create success")
		return entities.PaymentCreationResult{
			Success:          true,
			GatewayPaymentID: id,
			RedirectURL:      g.checkoutURL + id,
		}
	}

	token, err := g.accessToken(ctx)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("[payment][paypal] oauth token failed")
		return entities.FailedCreation(err.Error())
	}

	var body paypalOrderRequest
	body.Intent = "CAPTURE"
	body.PurchaseUnits = []paypalPurchaseUnit{{
		ReferenceID: req.OrderID,
		CustomID:    req.OrderID,
		Description: req.Description,
		Amount: paypalAmount{
			CurrencyCode: strings.ToUpper(req.Currency),
			Value:        decimal.New(req.Amount, -2).StringFixed(2),
		},
	}}
	if req.CustomerEmail != "" {
		body.Payer = &paypalPayer{EmailAddress: req.CustomerEmail}
	}
	body.ApplicationContext.ReturnURL = g.baseURL + "/success"
	body.ApplicationContext.CancelURL = g.baseURL + "/cancel"

	var order paypalOrderResponse
	logger.Info(ctx).Int64("amount", req.Amount).Str("currency", req.Currency).Msg("[payment][paypal] create order start")
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(body).
		SetResult(&order).
		Post("/v2/checkout/orders")
	if err != nil {
		logger.Error(ctx).Err(err).Msg("[payment][paypal] create order failed")
		return entities.FailedCreation(err.Error())
	}
	if resp.IsError() {
		logger.Error(ctx).Int("status", resp.StatusCode()).Str("body", resp.String()).Msg("[payment][paypal] create order rejected")
		return entities.FailedCreation(fmt.Sprintf("paypal order rejected with status %d", resp.StatusCode()))
	}
	if order.ID == "" {
		return entities.FailedCreation("paypal order response without id")
	}

	redirect := g.checkoutURL + order.ID
	for _, l := range order.Links {
		if l.Rel == "approve" || l.Rel == "payer-action" {
			redirect = l.Href
			break
		}
	}
	logger.Info(ctx).Str("gateway_payment_id", order.ID).Msg("[payment][paypal] create order success")

	return entities.PaymentCreationResult{
		Success:          true,
		GatewayPaymentID: order.ID,
		RedirectURL:      redirect,
	}
}

type paypalCapture struct {
	ID     string        `json:"id"`
	Status string        `json:"status"`
	Amount *paypalAmount `json:"amount"`
}

type paypalWebhookResource struct {
	ID                string        `json:"id"`
	Status            string        `json:"status"`
	Amount            *paypalAmount `json:"amount"`
	SupplementaryData struct {
		RelatedIDs struct {
			OrderID string `json:"order_id"`
		} `json:"related_ids"`
	} `json:"supplementary_data"`
	PurchaseUnits []struct {
		Amount *paypalAmount `json:"amount"`
	} `json:"purchase_units"`
}

type paypalWebhook struct {
	ID        string                 `json:"id"`
	EventType string                 `json:"event_type"`
	Resource  *paypalWebhookResource `json:"resource"`
}

// ProcessWebhook normalizes PayPal events onto the order id stored at creation.
//
// Capture events carry the capture id in resource.id and the order id in
// supplementary_data.related_ids. An approved order is captured here; the capture
// result is the payment outcome.
func (g *PayPalGateway) ProcessWebhook(ctx context.Context, rawPayload []byte, headers http.Header) (entities.WebhookEvent, error) {
	if !json.Valid(rawPayload) {
		return entities.WebhookEvent{}, fmt.Errorf("%w: body is not json", entities.ErrMalformedPayload)
	}
	if g.verificationEnabled() {
		if err := g.verifySignature(ctx, rawPayload, headers); err != nil {
			return entities.WebhookEvent{}, err
		}
	}

	var hook paypalWebhook
	if err := json.Unmarshal(rawPayload, &hook); err != nil {
		return entities.WebhookEvent{}, fmt.Errorf("%w: %v", entities.ErrMalformedPayload, err)
	}
	if hook.EventType == "" {
		return entities.WebhookEvent{}, fmt.Errorf("%w: missing event_type", entities.ErrMalformedPayload)
	}

	out := entities.WebhookEvent{
		Gateway:    entities.GatewayPayPal,
		EventType:  hook.EventType,
		Status:     entities.PaymentStatusPending,
		Currency:   paypalDefaultCurrency,
		ReceivedAt: time.Now().UTC(),
	}
	res := hook.Resource
	if res != nil {
		out.GatewayPaymentID = res.ID
	}

	switch hook.EventType {
	case paypalEventCaptureCompleted, paypalEventCaptureDenied:
		if res == nil || res.ID == "" {
			return entities.WebhookEvent{}, fmt.Errorf("%w: missing resource.id", entities.ErrMalformedPayload)
		}
		if res.Amount == nil || res.Amount.Value == "" {
			return entities.WebhookEvent{}, fmt.Errorf("%w: missing resource.amount", entities.ErrMalformedPayload)
		}
		if orderID := res.SupplementaryData.RelatedIDs.OrderID; orderID != "" {
			out.GatewayPaymentID = orderID
		}
		if err := applyPayPalAmount(&out, res.Amount); err != nil {
			return entities.WebhookEvent{}, err
		}
		out.Status = entities.PaymentStatusSuccess
		if hook.EventType == paypalEventCaptureDenied {
			out.Status = entities.PaymentStatusFailed
		}

	case paypalEventOrderApproved, paypalEventOrderCompleted:
		if res == nil || res.ID == "" {
			return entities.WebhookEvent{}, fmt.Errorf("%w: missing resource.id", entities.ErrMalformedPayload)
		}
		if len(res.PurchaseUnits) > 0 && res.PurchaseUnits[0].Amount != nil {
			if err := applyPayPalAmount(&out, res.PurchaseUnits[0].Amount); err != nil {
				return entities.WebhookEvent{}, err
			}
		}
		if hook.EventType == paypalEventOrderCompleted || res.Status == "COMPLETED" {
			out.Status = entities.PaymentStatusSuccess
			break
		}
		if g.mockMode {
			logger.Info(ctx).Str("order_id", res.ID).Msg("[payment][paypal] order approved, capture skipped in placeholder mode")
			break
		}
		capture, err := g.captureOrder(ctx, res.ID)
		if err != nil {
			return entities.WebhookEvent{}, err
		}
		if capture != nil {
			if capture.Amount != nil {
				if err := applyPayPalAmount(&out, capture.Amount); err != nil {
					return entities.WebhookEvent{}, err
				}
			}
			out.Status = paypalCaptureStatus(capture.Status)
		}

	default:
		logger.Info(ctx).Str("event_type", hook.EventType).Msg("[payment][paypal] unhandled event type")
	}

	return out, nil
}

func applyPayPalAmount(out *entities.WebhookEvent, amount *paypalAmount) error {
	if amount == nil || amount.Value == "" {
		return nil
	}
	minor, err := toMinorUnits(amount.Value)
	if err != nil {
		return fmt.Errorf("%w: amount %q: %v", entities.ErrMalformedPayload, amount.Value, err)
	}
	out.Amount = minor
	if c := strings.TrimSpace(amount.CurrencyCode); c != "" {
		out.Currency = strings.ToUpper(c)
	}
	return nil
}

func paypalCaptureStatus(status string) entities.PaymentStatus {
	switch status {
	case "COMPLETED":
		return entities.PaymentStatusSuccess
	case "DECLINED", "FAILED":
		return entities.PaymentStatusFailed
	default:
		return entities.PaymentStatusPending
	}
}

type paypalCaptureResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []paypalCapture `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

type paypalErrorResponse struct {
	Name    string `json:"name"`
	Details []struct {
		Issue string `json:"issue"`
	} `json:"details"`
}

// captureOrder captures an approved order. A nil capture means there is no outcome yet
// (already captured, or PayPal refused the capture); the capture events will follow.
func (g *PayPalGateway) captureOrder(ctx context.Context, orderID string) (*paypalCapture, error) {
	token, err := g.accessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrGatewayUnavailable, err)
	}

	var (
		captured paypalCaptureResponse
		apiErr   paypalErrorResponse
	)
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetHeader("PayPal-Request-Id", "capture-"+orderID).
		SetResult(&captured).
		SetError(&apiErr).
		Post("/v2/checkout/orders/" + orderID + "/capture")
	if err != nil {
		return nil, fmt.Errorf("%w: capture order: %v", entities.ErrGatewayUnavailable, err)
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: capture order returned %d", entities.ErrGatewayUnavailable, resp.StatusCode())
	}
	if resp.IsError() {
		issue := apiErr.Name
		if len(apiErr.Details) > 0 {
			issue = apiErr.Details[0].Issue
		}
		if issue == paypalIssueAlreadyCaptured {
			logger.Info(ctx).Str("order_id", orderID).Msg("[payment][paypal] order already captured")
		} else {
			logger.Warn(ctx).Str("order_id", orderID).Int("status", resp.StatusCode()).Str("issue", issue).Msg("[payment][paypal] capture refused")
		}
		return nil, nil
	}

	for _, pu := range captured.PurchaseUnits {
		for _, c := range pu.Payments.Captures {
			logger.Info(ctx).Str("order_id", orderID).Str("capture_id", c.ID).Str("status", c.Status).Msg("[payment][paypal] order captured")
			return &c, nil
		}
	}
	return &paypalCapture{ID: captured.ID, Status: captured.Status}, nil
}

// toMinorUnits converts a major-unit decimal string ("12.34") into minor units (1234).
func toMinorUnits(value string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	return d.Shift(2).Round(0).IntPart(), nil
}

func (g *PayPalGateway) verificationEnabled() bool {
	return !g.mockMode && g.cfg.WebhookID != ""
}

type paypalVerifyRequest struct {
	AuthAlgo         string          `json:"auth_algo"`
	CertURL          string          `json:"cert_url"`
	TransmissionID   string          `json:"transmission_id"`
	TransmissionSig  string          `json:"transmission_sig"`
	TransmissionTime string          `json:"transmission_time"`
	WebhookID        string          `json:"webhook_id"`
	WebhookEvent     json.RawMessage `json:"webhook_event"`
}

func (g *PayPalGateway) verifySignature(ctx context.Context, rawPayload []byte, headers http.Header) error {
	for _, h := range paypalVerificationHeaders {
		if headers.Get(h) == "" {
			return fmt.Errorf("%w: missing %s header", entities.ErrVerification, h)
		}
	}

	token, err := g.accessToken(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrGatewayUnavailable, err)
	}

	var result struct {
		VerificationStatus string `json:"verification_status"`
	}
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(paypalVerifyRequest{
			AuthAlgo:         headers.Get("Paypal-Auth-Algo"),
			CertURL:          headers.Get("Paypal-Cert-Url"),
			TransmissionID:   headers.Get("Paypal-Transmission-Id"),
			TransmissionSig:  headers.Get("Paypal-Transmission-Sig"),
			TransmissionTime: headers.Get("Paypal-Transmission-Time"),
			WebhookID:        g.cfg.WebhookID,
			WebhookEvent:     json.RawMessage(rawPayload),
		}).
		SetResult(&result).
		Post("/v1/notifications/verify-webhook-signature")
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrGatewayUnavailable, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: verify-webhook-signature returned %d", entities.ErrGatewayUnavailable, resp.StatusCode())
	}
	if result.VerificationStatus != "SUCCESS" {
		return fmt.Errorf("%w: verification_status=%s", entities.ErrVerification, result.VerificationStatus)
	}
	return nil
}

func (g *PayPalGateway) accessToken(ctx context.Context) (string, error) {
	var token struct {
		AccessToken string `json:"access_token"`
	}
	resp, err := g.client.R().
		SetContext(ctx).
		SetBasicAuth(g.cfg.ClientID, g.cfg.ClientSecret).
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		SetResult(&token).
		Post("/v1/oauth2/token")
	if err != nil {
		return "", err
	}
	if resp.IsError() || token.AccessToken == "" {
		return "", fmt.Errorf("paypal oauth returned %d", resp.StatusCode())
	}
	return token.AccessToken, nil
}
