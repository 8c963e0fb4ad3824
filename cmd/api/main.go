package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"bandprep/internal/cache"
	"bandprep/internal/config"
	"bandprep/internal/db"
	"bandprep/internal/email"
	apihttp "bandprep/internal/http"
	"bandprep/internal/repository"
	"bandprep/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	otpRepo := repository.NewPgOTPRepository(pool)
	activityRepo := repository.NewPgActivityRepository(pool)
	vocabRepo := repository.NewPgVocabularyRepository(pool)
	practiceRepo := repository.NewPgPracticeRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var analyticsCache cache.Cache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			analyticsCache = cache.NewRedisCache(redisClient)
		}
		cancel()
	}
	if analyticsCache == nil {
		memCache := cache.NewMemoryCache()
		memCache.StartCleanup(ctx, time.Minute)
		analyticsCache = memCache
	}

	jwtSvc := service.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTExpireMinutes)*time.Minute)
	authSvc := service.NewAuthService(
		logger,
		userRepo,
		otpRepo,
		cfg.OTPLength,
		time.Duration(cfg.OTPTTLSeconds)*time.Second,
		time.Duration(cfg.OTPRateLimitSeconds)*time.Second,
	)
	progressSvc := service.NewProgressService(logger, userRepo)
	activitySvc := service.NewActivityService(logger, activityRepo, progressSvc)
	analyticsSvc := service.NewAnalyticsService(logger, activityRepo, analyticsCache, time.Duration(cfg.AnalyticsCacheTTLSeconds)*time.Second)
	dashboardSvc := service.NewDashboardService(logger, userRepo, activityRepo)

	authHandler := apihttp.NewAuthHandler(logger, authSvc, jwtSvc, userRepo, emailSender)
	progressHandler := apihttp.NewProgressHandler(logger, progressSvc, activitySvc)
	dashboardHandler := apihttp.NewDashboardHandler(logger, dashboardSvc, analyticsSvc)
	vocabHandler := apihttp.NewVocabularyHandler(logger, vocabRepo)
	practiceHandler := apihttp.NewPracticeHandler(logger, practiceRepo)

	router := apihttp.NewRouter(logger, jwtSvc, authHandler, progressHandler, dashboardHandler, vocabHandler, practiceHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
