package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/workhive/payment-integrity-service/internal/delivery/http/handlers"
	usecase "github.com/workhive/payment-integrity-service/internal/usecase/payment"
)

func NewRouter(uc usecase.PaymentUsecase) *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))

	paymentHandler := handlers.NewPaymentHandler(uc)
	webhookHandler := handlers.NewWebhookHandler(uc)

	payments := router.Group("/v1/payments")
	{
		payments.POST("/initiate", paymentHandler.Initiate)
		payments.POST("/webhook", webhookHandler.Handle)
		payments.GET("/attempts/:orderID", paymentHandler.GetAttempt)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
