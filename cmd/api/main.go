package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/medq/hospital-api/internal/config"
	"github.com/medq/hospital-api/internal/email"
	"github.com/medq/hospital-api/internal/handler"
	adminHandler "github.com/medq/hospital-api/internal/handler/admin"
	appointmentHandler "github.com/medq/hospital-api/internal/handler/appointment"
	authHandler "github.com/medq/hospital-api/internal/handler/auth"
	doctorHandler "github.com/medq/hospital-api/internal/handler/doctor"
	hospitalHandler "github.com/medq/hospital-api/internal/handler/hospital"
	patientHandler "github.com/medq/hospital-api/internal/handler/patient"
	queueHandler "github.com/medq/hospital-api/internal/handler/queue"
	"github.com/medq/hospital-api/internal/middleware"
	"github.com/medq/hospital-api/internal/repository/postgres"
	"github.com/medq/hospital-api/internal/router"
	appointmentService "github.com/medq/hospital-api/internal/service/appointment"
	authService "github.com/medq/hospital-api/internal/service/auth"
	doctorService "github.com/medq/hospital-api/internal/service/doctor"
	eventService "github.com/medq/hospital-api/internal/service/event"
	hospitalService "github.com/medq/hospital-api/internal/service/hospital"
	patientService "github.com/medq/hospital-api/internal/service/patient"
	queueService "github.com/medq/hospital-api/internal/service/queue"
	pkgauth "github.com/medq/hospital-api/pkg/auth"
	"github.com/medq/hospital-api/pkg/logger"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(logger.Config{Level: "info", Pretty: false})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid redis URL")
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	// Repositories
	hospitalRepo := postgres.NewHospitalRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	emailSvc := email.NewService(cfg.SMTP)
	eventSvc := eventService.NewService(outboxRepo)
	jwtSvc := pkgauth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	authSvc := authService.NewService(patientRepo, hospitalRepo, jwtSvc, cfg.Admin)
	patientSvc := patientService.NewService(patientRepo)
	hospitalSvc := hospitalService.NewService(hospitalRepo, eventSvc, emailSvc)
	doctorSvc := doctorService.NewService(doctorRepo)
	queueSvc := queueService.NewService(
		appointmentRepo,
		redisClient,
		queueService.FixedSlotEstimator{Slot: time.Duration(cfg.Queue.SlotMinutes) * time.Minute},
		cfg.Queue.CacheTTL,
	)
	appointmentSvc := appointmentService.NewService(
		appointmentRepo,
		patientRepo,
		doctorRepo,
		hospitalRepo,
		eventSvc,
		emailSvc,
		queueSvc,
	)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc)
	h := handler.NewHandler(db)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Security.AllowedOrigins
	}
	if len(cfg.Security.AllowedMethods) > 0 {
		corsConfig.AllowMethods = cfg.Security.AllowedMethods
	}
	if len(cfg.Security.AllowedHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.Security.AllowedHeaders
	}

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		patientHandler.NewHandler(patientSvc),
		hospitalHandler.NewHandler(hospitalSvc),
		doctorHandler.NewHandler(doctorSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		queueHandler.NewHandler(queueSvc),
		adminHandler.NewHandler(hospitalSvc),
		h,
		router.RouterConfig{
			RateLimit:     rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:     cfg.RateLimit.Burst,
			CORSConfig:    corsConfig,
			MetricsPrefix: "hospital_api",
		},
	)
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
