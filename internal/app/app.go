package app

import (
	"context"

	"github.com/POS-Ninjas/backend/internal/config"
	"github.com/POS-Ninjas/backend/internal/db"
	"github.com/POS-Ninjas/backend/internal/handlers"
	"github.com/POS-Ninjas/backend/internal/logger"
	"github.com/POS-Ninjas/backend/internal/ratelimiter"
	"github.com/POS-Ninjas/backend/internal/repository"
	"github.com/POS-Ninjas/backend/internal/routes"
	"github.com/POS-Ninjas/backend/internal/services"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/go-redis/redis/v9"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	// Репозитории
	userRepo := repository.NewUserRepository(conn)
	resetRepo := repository.NewPasswordResetRepository(conn)
	productRepo := repository.NewProductRepository(conn)
	supplierRepo := repository.NewSupplierRepository(conn)
	auditRepo := repository.NewAuditLogRepository(conn)

	// Почта: реальный отправитель за очередью, чтобы выдача токена
	// не ждала SMTP/SES.
	sender, err := buildMailSender(cfg)
	if err != nil {
		return nil, err
	}
	mailQueue := services.NewQueuedMailer(100)
	mailQueue.StartWorkers(sender, 3)

	// Сервисы
	authService := services.NewAuthService(userRepo, auditRepo)
	resetService := services.NewPasswordResetService(
		resetRepo,
		mailQueue,
		auditRepo,
		cfg.FrontendURL,
		cfg.ResetTokenTTL(),
		cfg.PasswordResetSupersede,
	)
	productService := services.NewProductService(productRepo)
	supplierService := services.NewSupplierService(supplierRepo)

	// Лимитер запросов на сброс
	limiter := buildRateLimiter(cfg)

	// Хендлеры
	authHandler := handlers.NewAuthHandler(authService, cfg)
	resetHandler := handlers.NewPasswordResetHandler(resetService, limiter, cfg.ResetRateLimitPerMinute)
	productHandler := handlers.NewProductHandler(productService)
	supplierHandler := handlers.NewSupplierHandler(supplierService)
	auditHandler := handlers.NewAuditHandler(auditRepo)

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, cfg.JWTSecret, authHandler, resetHandler, productHandler, supplierHandler, auditHandler)

	return router, nil
}

func buildMailSender(cfg *config.Config) (services.EmailSender, error) {
	if cfg.MailDriver == "ses" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, err
		}
		logger.Log.Info("Почта через SES", zap.String("sender", cfg.SESSender), zap.String("template", cfg.SESTemplate))
		return services.NewSESSender(awsCfg, cfg.SESSender, cfg.SESTemplate), nil
	}

	logger.Log.Info("Почта через SMTP", zap.String("host", cfg.SMTPHost))
	return services.NewSMTPSender(cfg), nil
}

func buildRateLimiter(cfg *config.Config) ratelimiter.RateLimiter {
	if cfg.RedisAddr == "" {
		return ratelimiter.AllowAll{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	logger.Log.Info("Лимитер сброса пароля через Redis", zap.String("addr", cfg.RedisAddr))
	return ratelimiter.NewRedis(client)
}
