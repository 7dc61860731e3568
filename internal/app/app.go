package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"storefront_backend/database"
	"storefront_backend/internal/auth"
	"storefront_backend/internal/config"
	"storefront_backend/internal/email"
	"storefront_backend/internal/handlers"
	"storefront_backend/internal/identity"
	"storefront_backend/internal/imageprocessor"
	"storefront_backend/internal/logger"
	"storefront_backend/internal/middleware"
	"storefront_backend/internal/payment"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/routes"
	"storefront_backend/internal/services"
	"storefront_backend/internal/storage"
	"storefront_backend/internal/validator"
	"storefront_backend/internal/workers"
	"storefront_backend/pkg/apperrors"
)

const (
	maxBodyBytes    = 10 << 20
	shutdownTimeout = 15 * time.Second
)

// Infra - внешние зависимости, которые создаются один раз при старте
type Infra struct {
	DB         *gorm.DB
	Storage    storage.Storage
	Processor  *imageprocessor.Processor
	Gateway    payment.Gateway
	Google     identity.Verifier
	Mailer     services.MailDispatcher
	Tokens     *auth.TokenManager
	IDs        *snowflake.Node
	RateLimits *middleware.RateLimiter
}

func Run() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}

	if err := logger.Init(cfg.Server.Env, logger.Options{
		File:       cfg.Logging.File,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	}); err != nil {
		logger.Fatal("Failed to initialize logger", "error", err)
	}
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(!cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Open(database.Options{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
		Debug:  cfg.IsDevelopment(),
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	logger.Info("Database connected")

	// Почта уходит в фоне: запрос не ждет SMTP
	mailProvider := email.NewProvider(email.Config{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}, cfg.IsDevelopment())
	mailWorker := workers.NewMailWorker(mailProvider, cfg.Email.QueueSize, cfg.Email.Workers, cfg.IsDevelopment())
	mailWorker.Start()

	infra, err := buildInfra(ctx, cfg, gormDB, mailWorker)
	if err != nil {
		logger.Fatal("Failed to initialize infrastructure", "error", err)
	}

	serviceContainer, err := initializeServices(cfg, infra)
	if err != nil {
		logger.Fatal("Failed to initialize services", "error", err)
	}

	if err := seedFirstAdmin(ctx, gormDB, cfg, serviceContainer.AuthService); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, infra, serviceContainer)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(fmt.Sprintf("🚀 Server starting on %s", cfg.Addr()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if err := mailWorker.Stop(shutdownCtx); err != nil {
		logger.Error("Mail worker did not drain in time", "error", err)
	}
	logger.Info("Mail worker stopped", "sent", mailWorker.Sent(), "failed", mailWorker.Failures(), "dropped", mailWorker.Dropped())

	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("Server stopped")
}

func buildInfra(ctx context.Context, cfg *config.Config, gormDB *gorm.DB, mailer services.MailDispatcher) (*Infra, error) {
	storageInstance, err := storage.New(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		AccountID:  cfg.Storage.AccountID,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	ids, err := snowflake.NewNode(cfg.Orders.SnowflakeNode)
	if err != nil {
		return nil, fmt.Errorf("snowflake node: %w", err)
	}

	google, err := identity.NewGoogleVerifier(ctx, cfg.Auth.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("google verifier: %w", err)
	}
	if cfg.Auth.GoogleClientID == "" {
		logger.Warn("GOOGLE_CLIENT_ID не задан, вход через Google отключен")
	}

	gateway := payment.NewRazorpayClient(payment.Config{
		KeyID:     cfg.Payment.KeyID,
		KeySecret: cfg.Payment.KeySecret,
		Currency:  cfg.Payment.Currency,
		BaseURL:   cfg.Payment.BaseURL,
		Timeout:   cfg.Payment.Timeout,
	})
	if !gateway.Configured() {
		logger.Warn("Razorpay не настроен, онлайн-оплата недоступна")
	}

	infra := &Infra{
		DB:        gormDB,
		Storage:   storageInstance,
		Processor: imageprocessor.NewProcessor(cfg.Upload.ImageQuality, cfg.Upload.MaxDimension),
		Gateway:   gateway,
		Google:    google,
		Mailer:    mailer,
		Tokens:    auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL),
		IDs:       ids,
	}

	if cfg.RateLimit.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			// лимитер пропускает запросы, пока redis недоступен
			logger.Warn("Redis unavailable at startup", "addr", cfg.RateLimit.RedisAddr, "error", err)
		}
		infra.RateLimits = middleware.NewRateLimiter(client, cfg.RateLimit.Requests, cfg.RateLimit.Window)
		logger.Info("Rate limiting enabled", "requests", cfg.RateLimit.Requests, "window", cfg.RateLimit.Window)
	}

	return infra, nil
}

// SetupRouter собирает gin-движок со всеми middleware и маршрутами
func SetupRouter(cfg *config.Config, infra *Infra, serviceContainer *services.ServiceContainer) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	appHandlers := initializeHandlers(serviceContainer)
	guard := middleware.NewAuthMiddleware(infra.Tokens)

	ginRouter := initializeGinRouter(cfg, infra)

	opts := routes.Options{Swagger: !cfg.IsProduction()}
	if cfg.Storage.Type == "" || cfg.Storage.Type == "local" {
		opts.UploadsURL = cfg.Storage.BaseURL
		opts.UploadsDir = cfg.Storage.BasePath
	}
	routes.RegisterRoutes(ginRouter, appHandlers, guard, opts)

	return ginRouter
}

func initializeServices(cfg *config.Config, infra *Infra) (*services.ServiceContainer, error) {
	templates, err := email.NewTemplates(cfg.Email.FromName)
	if err != nil {
		return nil, fmt.Errorf("email templates: %w", err)
	}
	emailService := services.NewEmailService(templates, infra.Mailer, cfg.Auth.OTPExpiry)

	// --- Репозитории ---
	userRepo := repositories.NewUserRepository()
	categoryRepo := repositories.NewCategoryRepository()
	filterRepo := repositories.NewFilterAttributeRepository()
	productRepo := repositories.NewProductRepository()
	orderRepo := repositories.NewOrderRepository()
	addressRepo := repositories.NewAddressRepository()
	wishlistRepo := repositories.NewWishlistRepository()
	blogRepo := repositories.NewBlogRepository()
	pageRepo := repositories.NewPageRepository()
	uploadRepo := repositories.NewUploadRepository()

	// --- Сервисы ---
	authService := services.NewAuthService(userRepo, infra.Tokens, infra.Google, emailService, services.AuthConfig{
		OTPExpiry:      cfg.Auth.OTPExpiry,
		ResendCooldown: cfg.Auth.OTPResendCooldown,
		ExposeOTP:      cfg.IsDevelopment() && !cfg.SMTPConfigured(),
	})

	uploadService := services.NewUploadService(uploadRepo, infra.Storage, infra.Processor, &services.UploadConfig{
		MaxFileSize:  cfg.Upload.MaxSize,
		AllowedTypes: cfg.Upload.AllowedTypes,
		Provider:     cfg.Storage.Type,
		Targets:      config.UploadTargets,
	})

	return &services.ServiceContainer{
		AuthService:            authService,
		AccountService:         services.NewAccountService(userRepo, orderRepo, addressRepo, wishlistRepo, productRepo),
		ProductService:         services.NewProductService(productRepo, categoryRepo, filterRepo),
		CategoryService:        services.NewCategoryService(categoryRepo),
		FilterAttributeService: services.NewFilterAttributeService(filterRepo),
		BlogService:            services.NewBlogService(blogRepo),
		PageService:            services.NewPageService(pageRepo),
		CheckoutService:        services.NewCheckoutService(orderRepo, userRepo, infra.Gateway, infra.IDs),
		OrderService:           services.NewOrderService(orderRepo),
		UserService:            services.NewUserService(userRepo, orderRepo, addressRepo, wishlistRepo),
		UploadService:          uploadService,
		EmailService:           emailService,
	}, nil
}

func initializeHandlers(svc *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:            handlers.NewAuthHandler(baseHandler, svc.AuthService),
		CheckoutHandler:        handlers.NewCheckoutHandler(baseHandler, svc.CheckoutService),
		ProductHandler:         handlers.NewProductHandler(baseHandler, svc.ProductService),
		CategoryHandler:        handlers.NewCategoryHandler(baseHandler, svc.CategoryService),
		FilterAttributeHandler: handlers.NewFilterAttributeHandler(baseHandler, svc.FilterAttributeService),
		ContentHandler:         handlers.NewContentHandler(baseHandler, svc.BlogService, svc.PageService),
		AccountHandler:         handlers.NewAccountHandler(baseHandler, svc.AccountService),
		AdminHandler:           handlers.NewAdminHandler(baseHandler, svc.OrderService, svc.UserService),
		UploadHandler:          handlers.NewUploadHandler(baseHandler, svc.UploadService),
	}
}

func initializeGinRouter(cfg *config.Config, infra *Infra) *gin.Engine {
	router := gin.New()
	router.Use(gin.CustomRecovery(apperrors.RecoveryHandler))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.ClientURL))
	router.Use(middleware.BodyLimitMiddleware(maxBodyBytes))
	if infra.RateLimits != nil {
		router.Use(middleware.RateLimitMiddleware(infra.RateLimits))
	}
	router.Use(middleware.DBMiddleware(infra.DB))
	return router
}

// seedFirstAdmin создает первого администратора из ADMIN_EMAIL/ADMIN_PASSWORD
func seedFirstAdmin(ctx context.Context, db *gorm.DB, cfg *config.Config, authService services.AuthService) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		logger.Warn("ADMIN_EMAIL or ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	created, err := authService.SeedFirstAdmin(ctx, db, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name)
	if err != nil {
		return err
	}
	if created {
		logger.Info("✅ Successfully created first admin user", "email", cfg.Admin.Email)
	} else {
		logger.Info("Admin user already exists. Skipping creation.", "email", cfg.Admin.Email)
	}
	return nil
}
