package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/barberapp/barbershop-system/internal/api/handler"
	"github.com/barberapp/barbershop-system/internal/api/middleware"
	"github.com/barberapp/barbershop-system/internal/core/domain"
	"github.com/barberapp/barbershop-system/internal/core/service"
	mongodb "github.com/barberapp/barbershop-system/internal/infrastructure/db/mongo"
	redisdb "github.com/barberapp/barbershop-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("barbershop"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	loyaltyRepo := mongodb.NewLoyaltyRepository(db)
	haircutRepo := mongodb.NewHaircutRepository(db)
	locker := redisdb.NewVisitLocker(rdb)

	authService := service.NewAuthService(userRepo, jwtSecret, 24*time.Hour)
	loyaltyService := service.NewLoyaltyService(loyaltyRepo, haircutRepo, userRepo, locker, log)

	authHandler := handler.NewAuthHandler(authService)
	loyaltyHandler := handler.NewLoyaltyHandler(loyaltyService)
	userHandler := handler.NewUserHandler(userRepo)

	authMW := middleware.Auth(jwtSecret)
	staffOnly := middleware.RBAC(domain.RoleBarber, domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Users ---
	users := e.Group("/v1/users")
	users.GET("/barbers", userHandler.Barbers)
	users.GET("/me", userHandler.Me, authMW)

	// --- Loyalty ---
	loyalty := e.Group("/v1/loyalty", authMW)
	loyalty.GET("/profile", loyaltyHandler.GetProfile)
	loyalty.GET("/free-haircut", loyaltyHandler.CheckFreeHaircut)
	loyalty.GET("/history/:customer_id", loyaltyHandler.History)
	loyalty.POST("/haircuts/:customer_id", loyaltyHandler.RegisterHaircut, staffOnly)
	loyalty.GET("/stats", loyaltyHandler.Stats, staffOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
