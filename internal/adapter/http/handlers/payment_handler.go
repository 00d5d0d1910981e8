package handlers

import (
	"net/http"

	"payhub/internal/adapter/http/dto/request"
	"payhub/internal/adapter/http/dto/response"
	"payhub/internal/domain/entities"
	"payhub/internal/infrastructure/logger"
	"payhub/internal/usecase"
	"payhub/pkg"

	"github.com/gin-gonic/gin"
)

var errMissingCreateFields = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Missing required fields: gateway, amount, currency", http.StatusBadRequest)

// PaymentHandler handles payment creation and lookups.
type PaymentHandler struct {
	usecase usecase.IPaymentUseCase
}

func NewPaymentHandler(uc usecase.IPaymentUseCase) *PaymentHandler {
	return &PaymentHandler{usecase: uc}
}

// CreatePayment godoc
// @Summary      Create a payment
// @Description  Creates a payment on the gateway named in the body and records it as pending.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        payment  body      request.CreatePaymentRequest  true  "Payment"
// @Success      200      {object}  response.PaymentCreationResponse
// @Failure      400      {object}  pkg.HTTPError
// @Failure      502      {object}  response.PaymentCreationResponse
// @Failure      500      {object}  pkg.HTTPError
// @Router       /api/payment/create [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var body request.CreatePaymentRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Gateway == "" {
		logger.Warn(c.Request.Context()).Err(err).Msg("[payment][handler] invalid create body")
		writeError(c, errMissingCreateFields)
		return
	}
	h.create(c, body.Gateway, body)
}

// CreateGatewayPayment returns the handler for a gateway-specific create endpoint.
//
// @Summary      Create a payment on a specific gateway
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        payment  body      request.CreatePaymentRequest  true  "Payment"
// @Success      200      {object}  response.PaymentCreationResponse
// @Failure      400      {object}  pkg.HTTPError
// @Failure      502      {object}  response.PaymentCreationResponse
// @Router       /api/payment/create/stripe [post]
// @Router       /api/payment/create/paypal [post]
// @Router       /api/payment/create/gopay [post]
func (h *PaymentHandler) CreateGatewayPayment(gateway entities.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body request.CreatePaymentRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			logger.Warn(c.Request.Context()).Err(err).Str("gateway", string(gateway)).Msg("[payment][handler] invalid create body")
			writeError(c, pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest))
			return
		}
		h.create(c, string(gateway), body)
	}
}

func (h *PaymentHandler) create(c *gin.Context, gateway string, body request.CreatePaymentRequest) {
	ctx := c.Request.Context()

	req, err := body.ToEntity()
	if err != nil {
		writeError(c, mapPaymentError(err))
		return
	}

	res, err := h.usecase.CreatePayment(ctx, gateway, req)
	if err != nil {
		logger.Warn(ctx).Err(err).Str("gateway", gateway).Msg("[payment][handler] create failed")
		writeError(c, mapPaymentError(err))
		return
	}
	if !res.Success {
		c.JSON(http.StatusBadGateway, response.FromCreationResult(res))
		return
	}
	c.JSON(http.StatusOK, response.FromCreationResult(res))
}

// ListPayments godoc
// @Summary      List payments
// @Description  Returns every payment record, newest first.
// @Tags         payments
// @Produce      json
// @Success      200  {object}  response.PaymentListResponse
// @Failure      500  {object}  pkg.HTTPError
// @Router       /api/payment/all [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	items, err := h.usecase.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, mapPaymentError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentRecords(items))
}

// GetPaymentInfo godoc
// @Summary      Payment by session id
// @Description  Lookup used by the post-redirect confirmation page.
// @Tags         payments
// @Produce      json
// @Param        sessionId  path      string  true  "Gateway session id"
// @Success      200        {object}  response.PaymentInfoResponse
// @Failure      404        {object}  pkg.HTTPError
// @Failure      500        {object}  pkg.HTTPError
// @Router       /api/payment-info/{sessionId} [get]
func (h *PaymentHandler) GetPaymentInfo(c *gin.Context) {
	rec, err := h.usecase.GetBySessionID(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		writeError(c, mapPaymentError(err))
		return
	}
	c.JSON(http.StatusOK, response.PaymentInfoResponse{Success: true, Payment: response.FromPaymentRecord(rec)})
}
