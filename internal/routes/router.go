package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-api/internal/auth/session"
	"marketplace-api/internal/auth/token"
	"marketplace-api/internal/config"
	"marketplace-api/internal/delivery/http/handler"
	"marketplace-api/internal/infrastructure/database/postgres"
	"marketplace-api/internal/mail"
	"marketplace-api/internal/middleware"
	"marketplace-api/internal/payment"
	listingUsecase "marketplace-api/internal/usecase/listing"
	orderUsecase "marketplace-api/internal/usecase/order"
	userUsecase "marketplace-api/internal/usecase/user"
	wishlistUsecase "marketplace-api/internal/usecase/wishlist"
	"marketplace-api/pkg/utils"
)

const (
	defaultRateLimitRPS   = 10
	defaultRateLimitBurst = 20
)

// SetupRouter wires repositories, services and handlers onto a gin
// engine with the full middleware chain. The route guard runs last in
// the chain so every registered route below is subject to it.
func SetupRouter(cfg *config.Config, db *postgres.DB) *gin.Engine {
	userRepo := postgres.NewUserRepository(db)
	listingRepo := postgres.NewListingRepository(db)
	wishlistRepo := postgres.NewWishlistRepository(db)
	orderRepo := postgres.NewOrderRepository(db)

	tokens := token.NewService(cfg.JWT.Secret)
	cookies := session.NewCookieManager(cfg.Server.Environment)
	mailer := mail.NewSMTPMailer(cfg.SMTP)
	provider := payment.NewClient(cfg.Payment)

	userService := userUsecase.NewService(userRepo, tokens, mailer, cfg)
	listingService := listingUsecase.NewService(listingRepo, userRepo)
	wishlistService := wishlistUsecase.NewService(wishlistRepo, listingRepo)
	orderService := orderUsecase.NewService(orderRepo, listingRepo, userRepo, provider)

	authHandler := handler.NewAuthHandler(userService, cookies)
	userHandler := handler.NewUserHandler(userService)
	listingHandler := handler.NewListingHandler(listingService)
	wishlistHandler := handler.NewWishlistHandler(wishlistService)
	orderHandler := handler.NewOrderHandler(orderService)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	rps := cfg.RateLimit.GeneralRPS
	if rps <= 0 {
		rps = defaultRateLimitRPS
	}
	burst := cfg.RateLimit.GeneralBurst
	if burst <= 0 {
		burst = defaultRateLimitBurst
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(rps, burst))
	router.Use(middleware.RouteGuard(tokens, userRepo, cookies))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "ok", nil)
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authHandler.Me)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.POST("/verify-email", authHandler.VerifyEmail)
			auth.POST("/resend-verification", authHandler.ResendVerification)
		}

		profile := api.Group("/profile")
		{
			profile.GET("", userHandler.GetProfile)
			profile.PUT("", userHandler.UpdateProfile)
			profile.PUT("/password", userHandler.ChangePassword)
		}

		listings := api.Group("/listings")
		{
			listings.GET("", listingHandler.Browse)
			listings.GET("/:id", listingHandler.Get)
			listings.POST("", listingHandler.Create)
			listings.PUT("/:id", listingHandler.Update)
			listings.DELETE("/:id", listingHandler.Remove)
		}
		api.GET("/my-listings", listingHandler.MyListings)

		wishlist := api.Group("/wishlist")
		{
			wishlist.GET("", wishlistHandler.Get)
			wishlist.POST("/:listingId", wishlistHandler.Add)
			wishlist.DELETE("/:listingId", wishlistHandler.Remove)
		}

		orders := api.Group("/orders")
		{
			orders.GET("", orderHandler.MyOrders)
			orders.POST("/checkout", orderHandler.Checkout)
			orders.POST("/:id/confirm", orderHandler.Confirm)
			orders.POST("/:id/cancel", orderHandler.Cancel)
		}

		// The guard has already verified the admin role on /api/admin
		// paths; AdminOnly backstops routes mounted elsewhere.
		admin := api.Group("/admin")
		admin.Use(middleware.AdminOnly())
		{
			admin.GET("/users", userHandler.GetAllUsers)
			admin.PATCH("/users/:id/status", userHandler.UpdateUserStatus)
			admin.DELETE("/users/:id", userHandler.DeleteUser)
			admin.DELETE("/listings/:id", listingHandler.Remove)
			admin.GET("/orders", orderHandler.GetAllOrders)
			admin.GET("/stats", orderHandler.GetStats)
		}
	}

	return router
}
