package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/healthrec-api/config"
	"github.com/jwalitptl/healthrec-api/internal/email"
	"github.com/jwalitptl/healthrec-api/internal/handler"
	apikeyHandler "github.com/jwalitptl/healthrec-api/internal/handler/apikey"
	authHandler "github.com/jwalitptl/healthrec-api/internal/handler/auth"
	clientHandler "github.com/jwalitptl/healthrec-api/internal/handler/client"
	dashboardHandler "github.com/jwalitptl/healthrec-api/internal/handler/dashboard"
	integrationHandler "github.com/jwalitptl/healthrec-api/internal/handler/integration"
	programHandler "github.com/jwalitptl/healthrec-api/internal/handler/program"
	userHandler "github.com/jwalitptl/healthrec-api/internal/handler/user"
	"github.com/jwalitptl/healthrec-api/internal/middleware"
	"github.com/jwalitptl/healthrec-api/internal/repository/postgres"
	"github.com/jwalitptl/healthrec-api/internal/repository/tokenstore"
	"github.com/jwalitptl/healthrec-api/internal/router"
	apikeyService "github.com/jwalitptl/healthrec-api/internal/service/apikey"
	authService "github.com/jwalitptl/healthrec-api/internal/service/auth"
	clientService "github.com/jwalitptl/healthrec-api/internal/service/client"
	enrollmentService "github.com/jwalitptl/healthrec-api/internal/service/enrollment"
	profileService "github.com/jwalitptl/healthrec-api/internal/service/profile"
	programService "github.com/jwalitptl/healthrec-api/internal/service/program"
	userService "github.com/jwalitptl/healthrec-api/internal/service/user"
	pkgauth "github.com/jwalitptl/healthrec-api/pkg/auth"
	"github.com/jwalitptl/healthrec-api/pkg/logger"
	"github.com/jwalitptl/healthrec-api/pkg/security"
	"github.com/jwalitptl/healthrec-api/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLog := logger.NewLogger(&logger.Config{
		Level:      logger.InfoLevel,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	if err := validator.RegisterCustom(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := postgres.Migrate(cfg.Database, cfg.Migrations); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Redis backs the token revocation list
	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	programRepo := postgres.NewProgramRepository(db)
	enrollmentRepo := postgres.NewEnrollmentRepository(db)
	apiKeyRepo := postgres.NewAPIKeyRepository(db)
	statsRepo := postgres.NewStatsRepository(db)
	tokenStore := tokenstore.New(redisClient)

	// Initialize services
	hasher := security.NewBcryptHasher(12)
	jwtSvc := pkgauth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	emailSvc := email.NewSMTPService(cfg.SMTP, appLog)

	authSvc := authService.NewService(userRepo, jwtSvc, tokenStore, hasher)
	userSvc := userService.NewService(userRepo, hasher, emailSvc, appLog)
	clientSvc := clientService.NewService(clientRepo)
	programSvc := programService.NewService(programRepo)
	enrollmentSvc := enrollmentService.NewService(enrollmentRepo, clientRepo, programRepo)
	profileSvc := profileService.NewService(clientRepo, enrollmentRepo)
	apiKeySvc := apikeyService.NewService(apiKeyRepo)

	if err := userSvc.EnsureAdmin(context.Background(),
		cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap admin account")
	}

	// Initialize middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	r := router.NewRouter(authMiddleware, router.Handlers{
		Health:      handler.NewHandler(db),
		Auth:        authHandler.NewHandler(authSvc),
		User:        userHandler.NewHandler(userSvc),
		Client:      clientHandler.NewHandler(clientSvc, enrollmentSvc, profileSvc),
		Program:     programHandler.NewHandler(programSvc),
		APIKey:      apikeyHandler.NewHandler(apiKeySvc),
		Dashboard:   dashboardHandler.NewHandler(statsRepo, clientRepo),
		Integration: integrationHandler.NewHandler(profileSvc, apiKeySvc),
	}, router.Config{
		RateLimit: middleware.RateLimiterConfig{
			RPS:   cfg.RateLimit.RPS,
			Burst: cfg.RateLimit.Burst,
		},
		CORSConfig:    middleware.DefaultCORSConfig(),
		MetricsPrefix: "healthrec",
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
