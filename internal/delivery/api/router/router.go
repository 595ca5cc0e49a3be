// Package router wires the HTTP routes of the storefront API.
package router

import (
	"storefront/config"
	"storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/router/handler"
	"storefront/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler     *handler.AuthHandler
	AccountHandler  *handler.AccountHandler
	CatalogHandler  *handler.CatalogHandler
	CartHandler     *handler.CartHandler
	CheckoutHandler *handler.CheckoutHandler
	OrderHandler    *handler.OrderHandler
	ReportHandler   *handler.ReportHandler
	TestHandler     *handler.TestHandler
	AuthMiddleware  *middleware.AuthMiddleware
	Config          *config.Config
}

type router struct {
	auth     *handler.AuthHandler
	account  *handler.AccountHandler
	catalog  *handler.CatalogHandler
	cart     *handler.CartHandler
	checkout *handler.CheckoutHandler
	order    *handler.OrderHandler
	report   *handler.ReportHandler
	test     *handler.TestHandler
	authMW   *middleware.AuthMiddleware
	config   *config.Config
}

func NewRouter(params RouterParams) *router {
	return &router{
		auth:     params.AuthHandler,
		account:  params.AccountHandler,
		catalog:  params.CatalogHandler,
		cart:     params.CartHandler,
		checkout: params.CheckoutHandler,
		order:    params.OrderHandler,
		report:   params.ReportHandler,
		test:     params.TestHandler,
		authMW:   params.AuthMiddleware,
		config:   params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	apiV1 := e.Group("/api/v1")
	authenticated := r.authMW.Authenticate
	adminOnly := r.authMW.RequireRole(entity.RoleAdmin)

	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/signup", r.auth.Signup)
		authGroup.POST("/signup/verify", r.auth.VerifySignup)
		authGroup.POST("/signup/resend", r.auth.ResendSignupOTP)
		authGroup.POST("/login", r.auth.Login)
		authGroup.POST("/refresh", r.auth.RefreshToken)
		authGroup.POST("/logout", r.auth.Logout)
		authGroup.POST("/logout-all", r.auth.LogoutAll, authenticated)

		authGroup.POST("/password-reset", r.account.RequestPasswordReset)
		authGroup.POST("/password-reset/resend", r.account.ResendPasswordResetOTP)
		authGroup.POST("/password-reset/confirm", r.account.ConfirmPasswordReset)
	}

	accountGroup := apiV1.Group("/account", authenticated)
	{
		accountGroup.GET("/profile", r.account.GetProfile)
		accountGroup.POST("/password", r.account.RequestPasswordChange)
		accountGroup.POST("/password/confirm", r.account.ConfirmPasswordChange)
		accountGroup.POST("/email", r.account.RequestEmailChange)
		accountGroup.POST("/email/confirm", r.account.ConfirmEmailChange)
		accountGroup.POST("/name", r.account.RequestNameChange)
		accountGroup.POST("/name/confirm", r.account.ConfirmNameChange)
		accountGroup.POST("/otp/resend", r.account.ResendOTP)
	}

	// Catalog reads are public; writes need the admin role.
	{
		apiV1.GET("/categories", r.catalog.ListCategories)
		apiV1.GET("/categories/:id", r.catalog.GetCategory)
		apiV1.GET("/categories/:id/sub-categories", r.catalog.ListSubCategories)
		apiV1.GET("/products", r.catalog.ListProducts)
		apiV1.GET("/products/:id", r.catalog.GetProduct)

		apiV1.POST("/categories", r.catalog.CreateCategory, authenticated, adminOnly)
		apiV1.PUT("/categories/:id", r.catalog.UpdateCategory, authenticated, adminOnly)
		apiV1.DELETE("/categories/:id", r.catalog.DeleteCategory, authenticated, adminOnly)
		apiV1.POST("/categories/:id/sub-categories", r.catalog.CreateSubCategory, authenticated, adminOnly)
		apiV1.PUT("/sub-categories/:id", r.catalog.UpdateSubCategory, authenticated, adminOnly)
		apiV1.DELETE("/sub-categories/:id", r.catalog.DeleteSubCategory, authenticated, adminOnly)
		apiV1.POST("/products", r.catalog.CreateProduct, authenticated, adminOnly)
		apiV1.PUT("/products/:id", r.catalog.UpdateProduct, authenticated, adminOnly)
		apiV1.DELETE("/products/:id", r.catalog.DeleteProduct, authenticated, adminOnly)
	}

	cartsGroup := apiV1.Group("/carts", authenticated)
	{
		cartsGroup.POST("", r.cart.CreateCart)
		cartsGroup.GET("", r.cart.ListCarts)
		cartsGroup.POST("/current/items", r.cart.AddItemToCurrentCart)
		cartsGroup.GET("/:id", r.cart.GetCart)
		cartsGroup.DELETE("/:id", r.cart.DeleteCart)
		cartsGroup.GET("/:id/items", r.cart.ListItems)
		cartsGroup.POST("/:id/items", r.cart.AddItem)
		cartsGroup.PUT("/:id/items/:itemId", r.cart.UpdateItem)
		cartsGroup.DELETE("/:id/items/:itemId", r.cart.RemoveItem)
		cartsGroup.POST("/:id/pay", r.checkout.Pay)
	}

	// The gateway redirects the buyer here; the checkout token authenticates the call.
	apiV1.GET("/payments/confirm", r.checkout.ConfirmPayment)
	apiV1.POST("/payments/confirm", r.checkout.ConfirmPayment)

	ordersGroup := apiV1.Group("/orders", authenticated)
	{
		ordersGroup.GET("", r.order.ListOrders)
		ordersGroup.GET("/:id", r.order.GetOrder)
		ordersGroup.GET("/:id/receipt-qr", r.order.ReceiptQR)
		ordersGroup.PATCH("/:id/delivered", r.order.MarkDelivered, adminOnly)
		ordersGroup.DELETE("/:id", r.order.DeleteOrder, adminOnly)
		ordersGroup.POST("/deliveries/qr", r.order.ConfirmDeliveryByQR, adminOnly)
	}

	reportsGroup := apiV1.Group("/reports", authenticated, adminOnly)
	{
		reportsGroup.GET("/orders/monthly", r.report.OrdersByMonth)
		reportsGroup.GET("/orders/daily", r.report.OrdersByDateRange)
		reportsGroup.GET("/products/top", r.report.TopProducts)
	}
}

func (r *router) RegisterTestRoutes(e *echo.Echo) {
	if r.config.TestRoutes == nil || !r.config.TestRoutes.Enabled {
		return
	}

	testGroup := e.Group("/test")
	testGroup.GET("/public", r.test.TestPublicEndpoint)
	testGroup.GET("/auth", r.test.TestAuthMiddleware, r.authMW.Authenticate)
}
