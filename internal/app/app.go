package app

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"biotrack/internal/config"
	"biotrack/internal/database"
	"biotrack/internal/handlers"
	"biotrack/internal/middleware"
	"biotrack/internal/pdf"
	"biotrack/internal/repositories"
	"biotrack/internal/routes"
	"biotrack/internal/services"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "biotrack/docs"
)

func Run() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Ошибка конфигурации: ", err)
	}

	// === DB (+ миграции) ===
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()

	// === Repos ===
	accountRepo := repositories.NewAccountRepository(db)
	codeRepo := repositories.NewVerificationCodeRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	resetRepo := repositories.NewPasswordResetRepository(db)

	// === Services ===
	authService := services.NewAuthService([]byte(cfg.Auth.JWTSecret), cfg.Auth.AccessTTL)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	codeService := services.NewCodeService(codeRepo)
	codeService.CodeTTL = cfg.Auth.CodeTTL

	// Telegram-уведомления опциональны
	var notifier *services.TelegramService
	if cfg.Telegram.BotToken != "" {
		notifier = services.NewTelegramService(cfg.Telegram.BotToken, cfg.Telegram.AdminChatID)
	}

	sessionService := services.NewSessionService(sessionRepo, accountRepo, authService, cfg.Auth.RefreshTTL)
	registrationService := services.NewRegistrationService(accountRepo, codeRepo, codeService, emailService, authService, notifier)
	loginService := services.NewLoginService(accountRepo, codeRepo, codeService, sessionService, authService, emailService)
	resetService := services.NewPasswordResetService(accountRepo, resetRepo, emailService, authService)

	// === Handlers ===
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	authHandler := handlers.NewAuthHandler(loginService, sessionService, resetService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	accountHandler := handlers.NewAccountHandler(accountRepo)
	reportHandler := handlers.NewReportHandler(accountRepo, pdf.NewReportGenerator())

	// === Фоновая чистка (протухшие коды и сессии) ===
	go func() {
		t := time.NewTicker(cfg.Auth.CleanupPeriod)
		defer t.Stop()
		for range t.C {
			if n, err := sessionService.CleanupExpired(); err != nil {
				log.Printf("[cleanup] sessions: %v", err)
			} else if n > 0 {
				log.Printf("[cleanup] sessions removed=%d", n)
			}
			if n, err := codeService.CleanupExpired(24 * time.Hour); err != nil {
				log.Printf("[cleanup] codes: %v", err)
			} else if n > 0 {
				log.Printf("[cleanup] codes removed=%d", n)
			}
		}
	}()

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Лимитер для публичных auth-роутов: 5 rps, всплеск 10
	limiter := middleware.NewRateLimiter(5, 10)

	routes.SetupRoutes(
		router,
		[]byte(cfg.Auth.JWTSecret),
		limiter,
		registrationHandler,
		authHandler,
		sessionHandler,
		accountHandler,
		reportHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
