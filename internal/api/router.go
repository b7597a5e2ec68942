package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hotelply/marketplace/refund-engine/internal/handlers"
	"github.com/hotelply/marketplace/refund-engine/internal/telemetry"
)

func NewRouter(refund *handlers.RefundHandler, payment *handlers.PaymentHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(telemetry.TracingMiddleware())

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "refund-engine"})
	})

	// Refund routes
	r.GET("/refund/check/:orderId", refund.CheckRefund)
	r.POST("/refund/cancel/hotel/:orderId", refund.CancelAsHotel)
	r.POST("/refund/cancel/seller/:orderId", refund.CancelAsSeller)
	r.GET("/refund/policy", refund.GetPolicy)

	// Mock gateway verification
	r.POST("/payment/mock/verify", payment.VerifyPayment)

	return r
}
