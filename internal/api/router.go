package api

import (
	"net/http"

	"food-ordering/internal/api/middleware"
	"food-ordering/internal/modules/analytics"
	"food-ordering/internal/modules/menu"
	"food-ordering/internal/modules/orders"
	"food-ordering/internal/modules/users"
	"food-ordering/internal/realtime"

	"github.com/labstack/echo/v4"
)

// SetupRoutes sets up all the API endpoints for the application.
func SetupRoutes(
	e *echo.Echo,
	userHandler *users.Handler,
	menuHandler *menu.Handler,
	orderHandler *orders.Handler,
	analyticsHandler *analytics.Handler,
	hub *realtime.Hub,
	jwtSecret string,
) {
	authMiddleware := middleware.JWTMAuth(jwtSecret)
	adminRequired := middleware.AdminRequired()

	// --- Public Routes ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Welcome to the Food Ordering Platform!"})
	})

	authGroup := e.Group("/api/auth")
	{
		authGroup.POST("/signup", userHandler.Signup)
		authGroup.POST("/login", userHandler.Login)
		authGroup.POST("/forgot-password", userHandler.ForgotPassword)
		authGroup.POST("/reset-password", userHandler.ResetPassword)
	}

	// --- Menu Routes ---
	menuGroup := e.Group("/api/menu")
	{
		menuGroup.GET("", menuHandler.ListMenu)
		menuGroup.GET("/all", menuHandler.ListAllMenu, authMiddleware, adminRequired)
		menuGroup.GET("/:itemId", menuHandler.GetMenuItem)
		menuGroup.POST("", menuHandler.CreateMenuItem, authMiddleware, adminRequired)
		menuGroup.PUT("/:itemId", menuHandler.UpdateMenuItem, authMiddleware, adminRequired)
		menuGroup.DELETE("/:itemId", menuHandler.DeleteMenuItem, authMiddleware, adminRequired)
	}

	// --- Order Routes ---
	orderGroup := e.Group("/api/orders", authMiddleware)
	{
		orderGroup.POST("", orderHandler.CreateOrder)
		orderGroup.GET("/user", orderHandler.GetUserOrders)
		orderGroup.GET("/token/:token", orderHandler.GetOrderByToken)
		orderGroup.GET("/assigned/:deliveryGuyId", orderHandler.GetAssignedOrders)
		orderGroup.PUT("/:orderId/status", orderHandler.UpdateOrderStatus)

		orderGroup.POST("/assign-delivery", orderHandler.AssignDelivery, adminRequired)
		orderGroup.GET("/all", orderHandler.GetAllOrders, adminRequired)
		orderGroup.GET("/user/:userId", orderHandler.GetOrdersForUser, adminRequired)
	}

	// --- User Routes ---
	e.GET("/api/users", userHandler.ListCustomers, authMiddleware, adminRequired)
	e.GET("/api/users/profile", userHandler.GetMyProfile, authMiddleware)
	e.PUT("/api/users/update-address", userHandler.UpdateMyAddress, authMiddleware)
	e.GET("/api/users/delivery", userHandler.ListDeliveryPersonnel, authMiddleware, adminRequired)

	// --- Analytics Routes ---
	e.GET("/api/analytics/summary", analyticsHandler.GetSummary, authMiddleware, adminRequired)

	// --- Realtime ---
	e.GET("/ws", hub.ServeWS, authMiddleware)
}
