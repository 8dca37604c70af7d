package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crabstertechnology/EZCirkit/internal/core"
	"github.com/crabstertechnology/EZCirkit/internal/db"
	"github.com/crabstertechnology/EZCirkit/internal/middleware"
)

// Services bundles every core service the API layer depends on.
type Services struct {
	Account  core.AccountService
	Cart     core.CartService
	Checkout core.CheckoutService
	Catalog  core.CatalogService
	Order    core.OrderService
	Address  core.AddressService
	Tutorial core.TutorialService
	Contact  core.ContactService
}

// SetupRoutes configures all application routes. Global middleware (logging,
// recovery, CORS) is expected to be applied to the router before this is
// called, in main.
func SetupRoutes(router *gin.Engine, logger *zap.Logger, userRepo db.UserRepository, services Services) {
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firebaseAuthClient == nil {
		logger.Fatal("CRITICAL_SETUP_ERROR: Firebase Auth client is not initialized; routes cannot be secured")
	}
	authMW := middleware.NewAuthMiddleware(firebaseAuthClient, userRepo)

	userHandler := NewUserHandler(services.Account)
	cartHandler := NewCartHandler(services.Cart)
	checkoutHandler := NewCheckoutHandler(services.Checkout)
	productHandler := NewProductHandler(services.Catalog)
	orderHandler := NewOrderHandler(services.Order)
	addressHandler := NewAddressHandler(services.Address)
	tutorialHandler := NewTutorialHandler(services.Tutorial)
	contactHandler := NewContactHandler(services.Contact)

	apiV1 := router.Group("/api/v1")
	{
		// Public catalog. Reviews are listed publicly but written only by
		// authenticated buyers.
		productsGroup := apiV1.Group("/products")
		{
			productsGroup.GET("", productHandler.ListProducts)
			productsGroup.GET("/:productId", productHandler.GetProduct)
			productsGroup.GET("/:productId/reviews", productHandler.ListReviews)
			productsGroup.POST("/:productId/reviews", authMW.VerifyToken(), productHandler.CreateReview)
		}

		// The gateway session is opened before sign-in completes, so this
		// endpoint carries no auth. The session holds only the amount.
		apiV1.POST("/payments/session", checkoutHandler.CreatePaymentSession)

		// Public contact form.
		apiV1.POST("/contact", contactHandler.SubmitMessage)

		// Tutorial tree: anonymous viewers get the gated fields stripped.
		tutorialsGroup := apiV1.Group("/tutorials", authMW.OptionalToken())
		{
			tutorialsGroup.GET("", tutorialHandler.GetTree)
			tutorialsGroup.GET("/:chapterId/:tutorialId", tutorialHandler.GetTutorial)
		}

		usersGroup := apiV1.Group("/users", authMW.VerifyToken())
		{
			usersGroup.POST("/initialize", userHandler.InitializeProfile)
			usersGroup.GET("/me", userHandler.GetCurrentProfile)
			usersGroup.PATCH("/me", userHandler.UpdateProfile)
		}

		cartGroup := apiV1.Group("/cart", authMW.VerifyToken())
		{
			cartGroup.GET("", cartHandler.GetCart)
			cartGroup.DELETE("", cartHandler.ClearCart)
			cartGroup.POST("/items", cartHandler.AddItem)
			cartGroup.POST("/items/:productId/decrement", cartHandler.DecrementItem)
			cartGroup.DELETE("/items/:productId", cartHandler.RemoveItem)
		}

		apiV1.POST("/checkout/confirm", authMW.VerifyToken(), checkoutHandler.ConfirmCheckout)

		ordersGroup := apiV1.Group("/orders", authMW.VerifyToken())
		{
			ordersGroup.GET("", orderHandler.ListMyOrders)
			ordersGroup.GET("/:orderId", orderHandler.GetMyOrder)
		}

		addressesGroup := apiV1.Group("/addresses", authMW.VerifyToken())
		{
			addressesGroup.GET("", addressHandler.ListAddresses)
			addressesGroup.POST("", addressHandler.CreateAddress)
			addressesGroup.PUT("/:addressId", addressHandler.UpdateAddress)
			addressesGroup.DELETE("/:addressId", addressHandler.DeleteAddress)
		}

		adminGroup := apiV1.Group("/admin", authMW.VerifyToken(), authMW.RequireAdmin())
		{
			adminGroup.GET("/orders", orderHandler.ListAllOrders)
			adminGroup.PATCH("/orders/:userId/:orderId/status", orderHandler.UpdateOrderStatus)

			adminGroup.GET("/users", userHandler.ListUsers)

			adminGroup.POST("/products", productHandler.CreateProduct)
			adminGroup.PUT("/products/:productId", productHandler.UpdateProduct)
			adminGroup.DELETE("/products/:productId", productHandler.DeleteProduct)

			adminGroup.POST("/chapters", tutorialHandler.CreateChapter)
			adminGroup.PUT("/chapters/:chapterId", tutorialHandler.UpdateChapter)
			adminGroup.DELETE("/chapters/:chapterId", tutorialHandler.DeleteChapter)
			adminGroup.POST("/chapters/:chapterId/tutorials", tutorialHandler.CreateTutorial)
			adminGroup.PUT("/chapters/:chapterId/tutorials/:tutorialId", tutorialHandler.UpdateTutorial)
			adminGroup.DELETE("/chapters/:chapterId/tutorials/:tutorialId", tutorialHandler.DeleteTutorial)

			adminGroup.GET("/messages", contactHandler.ListMessages)
			adminGroup.PATCH("/messages/:messageId/read", contactHandler.MarkMessageRead)
			adminGroup.DELETE("/messages/:messageId", contactHandler.DeleteMessage)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	logger.Info("API routes configured under /api/v1 and /health")
}
