package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hotslice/ordering-system/internal/api/handler"
	"github.com/hotslice/ordering-system/internal/api/middleware"
	"github.com/hotslice/ordering-system/internal/core/service"
	"github.com/hotslice/ordering-system/internal/infrastructure/config"
	mongodb "github.com/hotslice/ordering-system/internal/infrastructure/db/mongo"
	redisdb "github.com/hotslice/ordering-system/internal/infrastructure/db/redis"
)

// NewRouter wires repositories, services and handlers and returns the Echo
// instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *goredis.Client, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("ordering"))

	// --- Dependencies ---
	tokenService, err := service.NewTokenService(cfg.Auth.Secret, cfg.Auth.Algorithm)
	if err != nil {
		return nil, err
	}

	userRepo := mongodb.NewUserRepository(db)
	orderRepo := mongodb.NewOrderRepository(db)
	userCache := redisdb.NewUserCache(rdb)

	accessTTL := time.Duration(cfg.Auth.AccessTokenMinutes) * time.Minute
	authService := service.NewAuthService(userRepo, tokenService, userCache, accessTTL, log)
	orderService := service.NewOrderService(orderRepo, userRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	orderHandler := handler.NewOrderHandler(orderService)
	authMiddleware := middleware.Auth(authService)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/create_account", authHandler.CreateAccount)
	auth.POST("/login", authHandler.Login)
	auth.POST("/login-form", authHandler.LoginForm)
	auth.GET("/refresh", authHandler.Refresh, authMiddleware)

	// --- Order routes (all require a bearer token) ---
	orders := e.Group("/orders", authMiddleware)
	orders.POST("/order", orderHandler.Create)
	orders.POST("/order/cancel/:id", orderHandler.Cancel)
	orders.POST("/order/finish/:id", orderHandler.Finish)
	orders.GET("/list", orderHandler.ListAll)
	orders.GET("/list/order-user", orderHandler.ListOwn)
	orders.POST("/order/add-item/:id", orderHandler.AddItem)
	orders.POST("/order/remove-item/:item_id", orderHandler.RemoveItem)
	orders.GET("/order/:id", orderHandler.Get)

	// --- Observability (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, nil
}
