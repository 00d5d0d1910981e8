package handlers

import (
	"errors"
	"net/http"

	"payhub/internal/domain/entities"
	"payhub/pkg"

	"github.com/gin-gonic/gin"
)

func mapPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, entities.ErrUnsupportedGateway):
		return pkg.NewDomainErrorSimple("UNSUPPORTED_GATEWAY", "Unsupported payment gateway", http.StatusBadRequest)
	case errors.Is(err, entities.ErrInvalidRequest):
		return pkg.NewDomainError("INVALID_REQUEST", err.Error(), err, http.StatusBadRequest)
	case errors.Is(err, entities.ErrPaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrOrphanedGatewaySession):
		return pkg.NewDomainError("PAYMENT_NOT_PERSISTED", "Payment could not be recorded", err, http.StatusInternalServerError)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

func mapWebhookError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, entities.ErrVerification):
		return pkg.NewDomainError("WEBHOOK_VERIFICATION_FAILED", "Webhook verification failed", err, http.StatusBadRequest)
	case errors.Is(err, entities.ErrMalformedPayload):
		return pkg.NewDomainError("WEBHOOK_MALFORMED", "Malformed webhook payload", err, http.StatusBadRequest)
	case errors.Is(err, entities.ErrGatewayUnavailable):
		return pkg.NewDomainError("GATEWAY_UNAVAILABLE", "Payment gateway unavailable, retry later", err, http.StatusServiceUnavailable)
	case errors.Is(err, entities.ErrUnsupportedGateway):
		return pkg.NewDomainErrorSimple("UNSUPPORTED_GATEWAY", "Unsupported payment gateway", http.StatusBadRequest)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

func writeError(c *gin.Context, appErr *pkg.AppError) {
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
