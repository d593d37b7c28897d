package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/playvault/storefront/internal/server/http/handlers"
	"github.com/playvault/storefront/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StorefrontFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.NoMethod(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusMethodNotAllowed)
	})

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.CORS())
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	adminHandler := handlers.NewAdminHandler(facade)
	functionsHandler := handlers.NewFunctionsHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/ping", healthHandler.Ping)

	api := engine.Group("/api")

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	orders := api.Group("/orders")
	orders.Use(middleware.AuthRequired(facade))
	orders.POST("", orderHandler.Checkout)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("/:id/proofs", orderHandler.SubmitProof)
	orders.POST("/:id/messages", orderHandler.PostMessage)
	orders.GET("/:id/messages", orderHandler.Messages)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(facade))
	admin.Use(middleware.AdminRequired(facade))
	admin.GET("/orders", adminHandler.Orders)
	admin.POST("/orders/:id/approve", adminHandler.Approve)
	admin.POST("/orders/:id/reject", adminHandler.Reject)
	admin.GET("/orders/:id/credentials", adminHandler.RecoverCredentials)
	admin.POST("/orders/:id/messages", adminHandler.PostMessage)
	admin.POST("/proofs/:id/review", adminHandler.ReviewProof)
	admin.GET("/grants", adminHandler.Grants)
	admin.POST("/grants", adminHandler.Grant)
	admin.POST("/grants/revoke", adminHandler.Revoke)

	functions := api.Group("/functions")
	functions.POST("/admin-check", functionsHandler.AdminCheck)

	protected := functions.Group("")
	protected.Use(middleware.AuthRequired(facade))
	protected.Use(middleware.AdminRequired(facade))
	protected.POST("/deliver-account", functionsHandler.DeliverAccount)
	protected.POST("/discord-user-manager", functionsHandler.UserManager)
	protected.POST("/discord-create-channel", functionsHandler.CreateChannel)
	protected.POST("/discord-webhook", functionsHandler.Webhook)
	protected.POST("/fix-orders-schema", functionsHandler.FixOrdersSchema)

	return engine
}
