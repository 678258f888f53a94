package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/growshop/admin-console/docs"
	"github.com/growshop/admin-console/internal/api/handler"
	"github.com/growshop/admin-console/internal/api/middleware"
	"github.com/growshop/admin-console/internal/core/domain"
	"github.com/growshop/admin-console/internal/core/ports"
	"github.com/growshop/admin-console/internal/infrastructure/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	cfg *config.Config,
	admin ports.AdminService,
	store handler.StorefrontPinger,
	notify ports.NotificationChannel,
	rdb *redis.Client,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("admin_console"))

	// --- Handlers ---
	sessionHandler := handler.NewSessionHandler(admin, cfg.JWTSecret, cfg.SessionTTL)
	productHandler := handler.NewProductHandler(admin)
	userHandler := handler.NewUserHandler(admin)
	dashboardHandler := handler.NewDashboardHandler(admin)
	broadcastHandler := handler.NewBroadcastHandler(admin)

	// --- Session lifecycle ---
	// Login is the only authenticated-surface route reachable without a token.
	e.POST("/v1/session", sessionHandler.Login)

	authed := e.Group("/v1", middleware.Auth(cfg.JWTSecret), middleware.RBAC(domain.RoleAdmin))
	authed.GET("/session", sessionHandler.Restore)
	authed.DELETE("/session", sessionHandler.Logout)

	// --- Tables and CRUD ---
	authed.GET("/products", productHandler.List)
	authed.POST("/products", productHandler.Create)
	authed.PATCH("/products/:id", productHandler.Update)
	authed.DELETE("/products/:id", productHandler.Delete)

	authed.GET("/users", userHandler.List)
	authed.PATCH("/users/:id/promote", userHandler.Promote)
	authed.PATCH("/users/:id/ban", userHandler.Ban)

	// --- Dashboard and broadcast ---
	authed.GET("/dashboard", dashboardHandler.Get)
	authed.POST("/reload", dashboardHandler.Reload)
	authed.POST("/broadcast", broadcastHandler.Send)

	// --- Health probes and observability (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(rdb, store, notify)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
