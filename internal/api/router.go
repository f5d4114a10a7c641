package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akylbek/payment-relay/internal/handlers"
	"github.com/akylbek/payment-relay/internal/middleware"
	"github.com/akylbek/payment-relay/internal/telemetry"
)

func NewRouter(transactions handlers.TransactionCreator, notifications handlers.NotificationHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())
	r.Use(telemetry.TracingMiddleware())
	r.Use(middleware.RequestLogger())

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "payment-relay"})
	})

	paymentHandler := handlers.NewPaymentHandler(transactions, notifications)
	r.POST("/create-transaction", paymentHandler.CreateTransaction)
	r.POST("/midtrans-notification", paymentHandler.MidtransNotification)

	return r
}
