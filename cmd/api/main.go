package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-ordering/internal/api"
	"food-ordering/internal/config"
	"food-ordering/internal/modules/analytics"
	"food-ordering/internal/modules/menu"
	"food-ordering/internal/modules/orders"
	"food-ordering/internal/modules/users"
	"food-ordering/internal/realtime"
	"food-ordering/pkg/email"
	"food-ordering/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	// 1. --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true

	// 2. --- Middleware ---
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:5173", cfg.ClientOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// 3. --- Database Connection ---
	dbConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to parse database configuration: %v", err)
	}

	dbPool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		log.Fatalf("Unable to create connection pool: %v", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	appLog.Info("connected to database")

	// 4. --- Outbound Email ---
	mailer, err := email.NewSESV2Sender(context.Background(), cfg.AWSRegion, cfg.EmailFrom)
	if err != nil {
		log.Fatalf("Failed to initialize email sender: %v", err)
	}

	// 5. --- Realtime Hub ---
	hub := realtime.NewHub(appLog)

	// 6. --- Dependency Injection ---
	// --- Users Module ---
	userRepo := users.NewRepository(dbPool)
	userService := users.NewService(userRepo, mailer, cfg.JWTSecret, cfg.OTPTTL, appLog)
	userHandler := users.NewHandler(userService)

	// --- Menu Module ---
	menuRepo := menu.NewRepository(dbPool)
	menuService := menu.NewService(menuRepo, cfg.StoreTimeout, appLog)
	menuHandler := menu.NewHandler(menuService)

	// --- Orders Module ---
	orderRepo := orders.NewRepository(dbPool)
	orderService := orders.NewService(orderRepo, userRepo, hub, cfg.StoreTimeout, appLog)
	orderHandler := orders.NewHandler(orderService)

	// --- Analytics Module ---
	analyticsRepo := analytics.NewRepository(dbPool)
	analyticsService := analytics.NewService(analyticsRepo, cfg.StoreTimeout, appLog)
	analyticsHandler := analytics.NewHandler(analyticsService)

	// 7. --- Routes ---
	api.SetupRoutes(e, userHandler, menuHandler, orderHandler, analyticsHandler, hub, cfg.JWTSecret)

	// 8. --- Start Server with graceful shutdown ---
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server, an error occurred:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal("Server forced to shutdown:", err)
	}
	log.Println("Server exiting")
}
