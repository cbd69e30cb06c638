package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"preipo-sip.backend/internal/config"
	"preipo-sip.backend/internal/infrastructure/jobs"
	"preipo-sip.backend/internal/infrastructure/queue"
	"preipo-sip.backend/internal/infrastructure/repositories"
	"preipo-sip.backend/internal/infrastructure/storage"
	"preipo-sip.backend/internal/infrastructure/ws"
	"preipo-sip.backend/internal/interfaces/http/handlers"
	"preipo-sip.backend/internal/interfaces/http/middleware"
	"preipo-sip.backend/internal/usecases"
	"preipo-sip.backend/pkg/jwt"
	"preipo-sip.backend/pkg/logger"
	"preipo-sip.backend/pkg/redis"
	"preipo-sip.backend/pkg/signedurl"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize attachment storage
	attachmentStore, err := storage.NewAttachmentStore(cfg.Storage.Root)
	if err != nil {
		return fmt.Errorf("failed to initialize attachment store: %w", err)
	}

	// Initialize Kafka producer and consumer
	producer := queue.NewProducer(cfg.Kafka)
	defer producer.Close()
	consumer := queue.NewConsumer(cfg.Kafka)
	defer consumer.Close()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	planRepo := repositories.NewPlanRepository(db)
	investmentRepo := repositories.NewInvestmentRepository(db)
	walletRepo := repositories.NewWalletRepository(db)
	referralRepo := repositories.NewReferralRepository(db)
	ticketRepo := repositories.NewSupportTicketRepository(db)
	messageRepo := repositories.NewSupportMessageRepository(db)
	legalRepo := repositories.NewLegalAgreementRepository(db)
	auditRepo := repositories.NewAuditLogRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize websocket hub
	hub := ws.NewHub()

	// Initialize usecases
	auditUsecase := usecases.NewAuditUsecase(auditRepo)
	authUsecase := usecases.NewAuthUsecase(userRepo, referralRepo, jwtService, auditUsecase)
	eligibilityUsecase := usecases.NewEligibilityUsecase([]usecases.Rule{
		usecases.KYCVerifiedRule{},
		usecases.NewMinimumAgeRule(18),
	}, cfg.Cache.EligibilityTTL)
	portfolioUsecase := usecases.NewPortfolioUsecase(investmentRepo, cfg.Cache.PortfolioTTL)
	projectionUsecase := usecases.NewProjectionUsecase()
	planUsecase := usecases.NewPlanUsecase(planRepo, auditUsecase)
	investmentUsecase := usecases.NewInvestmentUsecase(investmentRepo, planRepo, userRepo, eligibilityUsecase, portfolioUsecase, auditUsecase)
	walletUsecase := usecases.NewWalletUsecase(walletRepo, uow, auditUsecase)
	referralUsecase := usecases.NewReferralUsecase(
		referralRepo,
		userRepo,
		walletUsecase,
		usecases.NewBonusChain(
			usecases.NewReferralBonus(cfg.Referral.BonusPaise),
			usecases.NewAnniversaryBonus(),
		),
		cfg.Referral.MinAccountAge,
	)
	signer := signedurl.NewSigner(cfg.Security.SignedURLSecret)
	supportUsecase := usecases.NewSupportUsecase(ticketRepo, messageRepo, attachmentStore, signer, cfg.Security.SignedURLTTL, hub, auditUsecase)
	legalUsecase := usecases.NewLegalUsecase(legalRepo, auditUsecase)
	webhookUsecase := usecases.NewWebhookUsecase(cfg.Security.WebhookSecret, producer)
	adminUsecase := usecases.NewAdminUsecase(userRepo, investmentRepo, ticketRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	planHandler := handlers.NewPlanHandler(planUsecase, authUsecase, eligibilityUsecase)
	investmentHandler := handlers.NewInvestmentHandler(investmentUsecase)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioUsecase, projectionUsecase)
	walletHandler := handlers.NewWalletHandler(walletUsecase)
	referralHandler := handlers.NewReferralHandler(referralUsecase)
	supportHandler := handlers.NewSupportHandler(supportUsecase)
	legalHandler := handlers.NewLegalHandler(legalUsecase)
	webhookHandler := handlers.NewWebhookHandler(webhookUsecase)
	adminHandler := handlers.NewAdminHandler(adminUsecase, authUsecase, planUsecase, supportUsecase, legalUsecase, auditUsecase)
	wsHandler := handlers.NewWSHandler(hub, supportUsecase)

	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventConsumer := jobs.NewPaymentEventConsumer(consumer, investmentUsecase, walletUsecase)
	go eventConsumer.Start(ctx)

	maturationJob := jobs.NewReferralMaturationJob(referralUsecase, cfg.Referral.SweepInterval)
	go maturationJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:       authHandler,
		planHandler:       planHandler,
		investmentHandler: investmentHandler,
		portfolioHandler:  portfolioHandler,
		walletHandler:     walletHandler,
		referralHandler:   referralHandler,
		supportHandler:    supportHandler,
		legalHandler:      legalHandler,
		webhookHandler:    webhookHandler,
		adminHandler:      adminHandler,
		wsHandler:         wsHandler,
		authMiddleware:    authMiddleware,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		eventConsumer.Stop()
		maturationJob.Stop()
		cancel()
	}()

	// Start server
	log.Printf("🚀 Pre-IPO SIP Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
