package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"artwala_backend/database"
	"artwala_backend/internal/auth"
	"artwala_backend/internal/config"
	"artwala_backend/internal/events"
	"artwala_backend/internal/handlers"
	"artwala_backend/internal/locker"
	"artwala_backend/internal/logger"
	"artwala_backend/internal/middleware"
	"artwala_backend/internal/routes"
	"artwala_backend/internal/services"
	"artwala_backend/internal/validator"
	"artwala_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Infrastructure - внешние зависимости сервисов: блокировки и события
type Infrastructure struct {
	Locker    locker.Locker
	Publisher events.Publisher
	redis     *redis.Client
}

// NewInfrastructure выбирает Redis-блокировку, если задан адрес, иначе локальную;
// Kafka-издателя, если он включен, иначе пустого.
func NewInfrastructure(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	infra := &Infrastructure{
		Locker:    locker.NewLocalLocker(),
		Publisher: events.NoopPublisher{},
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis unavailable: %w", err)
		}
		infra.redis = client
		infra.Locker = locker.NewRedisLocker(client,
			time.Duration(cfg.Lock.TTLSeconds)*time.Second,
			time.Duration(cfg.Lock.WaitSeconds)*time.Second,
		)
		logger.Info("Commission locks backed by Redis", "addr", cfg.Redis.Addr)
	} else {
		logger.Warn("REDIS_ADDR is not set. Commission locks are local to this process.")
	}

	if cfg.Kafka.Enabled {
		infra.Publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		logger.Info("Commission events published to Kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	return infra, nil
}

func (i *Infrastructure) Close() {
	if err := i.Publisher.Close(); err != nil {
		logger.WithError(err).Warn("Failed to close event publisher")
	}
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close redis client")
		}
	}
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	apperrors.SetDebug(!cfg.IsProduction())
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	defer sqlDB.Close()
	if err = sqlDB.PingContext(ctx); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(gormDB); err != nil {
			logger.Fatal("Failed to migrate database", "error", err)
		}
	}

	infra, err := NewInfrastructure(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize infrastructure", "error", err)
	}
	defer infra.Close()

	ginRouter := SetupRouter(cfg, gormDB, infra)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	logger.Info("Server stopped")
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, infra *Infrastructure) *gin.Engine {
	// 1. Инициализируем сервисы
	serviceContainer := services.NewServiceContainer(infra.Locker, infra.Publisher)

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(cfg, serviceContainer)

	// 3. Инициализируем Gin
	ginRouter := initializeGinRouter(cfg, gormDB)

	// 4. Делегируем регистрацию маршрутов пакету 'routes'
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeHandlers(cfg *config.Config, services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	tokens := auth.NewTokenManager(cfg.JWT.Secret)
	baseHandler := handlers.NewBaseHandler(customValidator, tokens)

	return &handlers.AppHandlers{
		HealthHandler:     handlers.NewHealthHandler(baseHandler),
		CommissionHandler: handlers.NewCommissionHandler(baseHandler, services.CommissionService),
		ProposalHandler:   handlers.NewProposalHandler(baseHandler, services.ProposalService),
		ContractHandler:   handlers.NewContractHandler(baseHandler, services.ContractService),
		MilestoneHandler:  handlers.NewMilestoneHandler(baseHandler, services.MilestoneService),
		PaymentHandler:    handlers.NewPaymentHandler(baseHandler, services.PaymentService),
		ReviewHandler:     handlers.NewReviewHandler(baseHandler, services.ReviewService),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router
}
