package api

import (
	"log"
	stdhttp "net/http"
	"time"

	intconfig "github.com/lipa-nganya/test-two-sub001/internal/config"
	h "github.com/lipa-nganya/test-two-sub001/internal/http/handlers"
	"github.com/lipa-nganya/test-two-sub001/internal/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	h.Configure(env)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		api.POST("/auth/login", h.Login)

		// Settlement triggers
		orders := api.Group("/orders")
		orders.POST("", h.CreateOrder)
		orders.GET("/:id", h.GetOrder)
		orders.GET("/:id/breakdown", h.GetOrderBreakdown)
		orders.POST("/:id/delivered", h.MarkOrderDelivered)
		orders.GET("/:id/settlement-statement", h.GetSettlementStatement)

		api.POST("/payments/webhook", h.PaymentWebhook)

		// Manual repair tooling, admin only
		repair := api.Group("/orders/:id/settlement")
		repair.Use(middleware.RequireAdmin(env.JWTSecret))
		repair.POST("/repair", h.RepairSettlement)
	}

	return r
}
