package routes

import (
	"payhub/internal/adapter/http/handlers"
	"payhub/internal/domain/entities"

	"github.com/gin-gonic/gin"
)

const (
	PathPayments    = "/payment"
	PathPaymentInfo = "/payment-info"
	PathWebhooks    = "/webhook"
)

func addPaymentRoutes(rg *gin.RouterGroup, paymentHandler *handlers.PaymentHandler, limit gin.HandlerFunc) {
	payments := rg.Group(PathPayments, limit)
	{
		payments.POST("/create", paymentHandler.CreatePayment)
		for _, g := range entities.KnownGateways {
			payments.POST("/create/"+string(g), paymentHandler.CreateGatewayPayment(g))
		}
		payments.GET("/all", paymentHandler.ListPayments)
	}

	rg.GET(PathPaymentInfo+"/:sessionId", limit, paymentHandler.GetPaymentInfo)
}

func addWebhookRoutes(rg *gin.RouterGroup, webhookHandler *handlers.WebhookHandler) {
	webhooks := rg.Group(PathWebhooks)
	{
		for _, g := range entities.KnownGateways {
			webhooks.POST("/"+string(g), webhookHandler.Handle(g))
		}
	}
}

func addPublicRoutes(r *gin.Engine) {
	r.GET("/health", handlers.Health)
	r.GET("/success", handlers.Success)
	r.GET("/cancel", handlers.Cancel)
}
