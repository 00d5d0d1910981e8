package handlers

import (
	"fmt"
	"io"
	"net/http"

	"payhub/internal/adapter/http/dto/response"
	"payhub/internal/domain/entities"
	"payhub/internal/infrastructure/logger"
	"payhub/internal/usecase"
	"payhub/pkg"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 1 << 20

var gatewayDisplayNames = map[entities.Gateway]string{
	entities.GatewayStripe: "Stripe",
	entities.GatewayPayPal: "PayPal",
	entities.GatewayGoPay:  "GoPay",
}

// WebhookHandler receives gateway callbacks. Bodies are passed on as raw bytes.
type WebhookHandler struct {
	usecase usecase.IWebhookUseCase
}

func NewWebhookHandler(uc usecase.IWebhookUseCase) *WebhookHandler {
	return &WebhookHandler{usecase: uc}
}

// Handle returns the callback handler for one gateway.
//
// @Summary      Gateway callback
// @Description  Verifies and reconciles a payment status callback. Verified callbacks are always acknowledged.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.WebhookAckResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      503  {object}  pkg.HTTPError
// @Router       /api/webhook/stripe [post]
// @Router       /api/webhook/paypal [post]
// @Router       /api/webhook/gopay [post]
func (h *WebhookHandler) Handle(gateway entities.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
		if err != nil {
			logger.Warn(ctx).Err(err).Str("gateway", string(gateway)).Msg("[webhook][handler] read body failed")
			writeError(c, pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request body", http.StatusBadRequest))
			return
		}

		res, err := h.usecase.HandleWebhook(ctx, string(gateway), raw, c.Request.Header)
		if err != nil {
			writeError(c, mapWebhookError(err))
			return
		}

		if gateway == entities.GatewayStripe {
			c.JSON(http.StatusOK, response.StripeAckResponse{Received: true})
			return
		}
		c.JSON(http.StatusOK, response.WebhookAckResponse{
			Success:   true,
			Message:   fmt.Sprintf("%s webhook processed successfully", gatewayDisplayNames[gateway]),
			PaymentID: res.Event.GatewayPaymentID,
			Status:    string(res.Event.Status),
		})
	}
}
