package routes

import (
	"techmart_back_end/internal/handlers"
	"techmart_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	// Auth
	auth := api.Group("/auth")
	{
		auth.POST("/signup", middleware.RegisterRateLimit(), handlers.Signup)
		auth.POST("/login", middleware.LoginRateLimit(), handlers.Login)
		auth.POST("/logout", middleware.AuthRequired(), handlers.Logout)
		auth.GET("/me", middleware.AuthRequired(), handlers.Me)

		// OAuth web (Google, Facebook)
		auth.GET("/:provider", handlers.BeginAuth)
		auth.GET("/:provider/callback", handlers.CallbackAuth)
	}

	// Catalogue (public)
	api.GET("/products", handlers.GetAllProducts)
	api.GET("/products/search", middleware.SearchRateLimit(), handlers.SearchProducts)
	api.GET("/products/:id", handlers.GetProduct)
	api.POST("/products", middleware.AuthRequired(), handlers.CreateProduct)
	api.POST("/products/:id/image", middleware.AuthRequired(), handlers.UploadProductImage)

	// Panier (authentifié)
	cart := api.Group("/cart", middleware.AuthRequired())
	{
		cart.GET("", handlers.GetCart)
		cart.POST("/add", middleware.CartRateLimit(), handlers.AddToCart)
		cart.PUT("/:productId", handlers.UpdateCartQuantity)
		cart.PATCH("/:productId", handlers.AdjustCartQuantity)
		cart.DELETE("/:productId", handlers.RemoveFromCart)
		cart.DELETE("", handlers.ClearCart)
	}

	// Checkout & paiement
	api.POST("/checkout", middleware.AuthRequired(), handlers.Checkout)
	api.POST("/checkout/payment-intent", middleware.AuthRequired(), handlers.CreatePaymentIntent)
	api.POST("/webhook/stripe", handlers.StripeWebhook)

	// Commandes
	orders := api.Group("/orders", middleware.AuthRequired())
	{
		orders.GET("", handlers.GetMyOrders)
		orders.GET("/:id", handlers.GetOrderByID)
		orders.GET("/:id/invoice", handlers.GetOrderInvoice)
	}
}
