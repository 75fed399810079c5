package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/carelink/hospital-api/internal/config"
	"github.com/carelink/hospital-api/internal/email"
	"github.com/carelink/hospital-api/internal/handler"
	approvalHandler "github.com/carelink/hospital-api/internal/handler/approval"
	callHandler "github.com/carelink/hospital-api/internal/handler/call"
	doctorHandler "github.com/carelink/hospital-api/internal/handler/doctor"
	escalationHandler "github.com/carelink/hospital-api/internal/handler/escalation"
	"github.com/carelink/hospital-api/internal/middleware"
	"github.com/carelink/hospital-api/internal/repository/postgres"
	"github.com/carelink/hospital-api/internal/router"
	approvalService "github.com/carelink/hospital-api/internal/service/approval"
	auditService "github.com/carelink/hospital-api/internal/service/audit"
	callService "github.com/carelink/hospital-api/internal/service/call"
	doctorService "github.com/carelink/hospital-api/internal/service/doctor"
	escalationService "github.com/carelink/hospital-api/internal/service/escalation"
	rbacService "github.com/carelink/hospital-api/internal/service/rbac"
	"github.com/carelink/hospital-api/internal/voice"
	"github.com/carelink/hospital-api/pkg/auth"
	"github.com/carelink/hospital-api/pkg/logger"
	"github.com/carelink/hospital-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	// Repositories
	roleRepo := postgres.NewRoleRepository(db)
	approvalRepo := postgres.NewApprovalRepository(db)
	escalationRepo := postgres.NewEscalationRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	patientAppointmentRepo := postgres.NewPatientAppointmentRepository(db)
	callbackRepo := postgres.NewCallbackRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	departmentRepo := postgres.NewDepartmentRepository(db)
	callAuditRepo := postgres.NewCallAuditRepository(db)

	// Services
	m := metrics.NewMetrics("hospital", "core")
	gate := rbacService.NewService(roleRepo)
	auditor := auditService.NewService(callAuditRepo)
	emailSvc := email.NewService(cfg.SMTP)
	approvalSvc := approvalService.NewService(approvalRepo, gate, emailSvc, m)
	escalationSvc := escalationService.NewService(escalationRepo, gate, m)
	doctorSvc := doctorService.NewService(doctorRepo, gate, escalationSvc)

	resolver := callService.NewResolver(
		appointmentRepo,
		patientAppointmentRepo,
		callbackRepo,
		patientRepo,
		doctorRepo,
		departmentRepo,
	)
	caller := voice.NewClient(cfg.Voice)
	locks := callService.NewRedisLock(redisClient)
	callSvc := callService.NewService(
		resolver,
		appointmentRepo,
		patientAppointmentRepo,
		gate,
		auditor,
		caller,
		locks,
		m,
		cfg.Voice.FacilityName,
	)

	// Middleware and handlers
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authMiddleware := middleware.NewAuthMiddleware(gate, jwtSvc)

	base := handler.NewHandler(gate)
	health := handler.NewHealthHandler(db)

	r := router.NewRouter(
		authMiddleware,
		base,
		health,
		cfg,
		callHandler.NewHandler(callSvc, authMiddleware, cfg.Voice.WebhookSecret),
		approvalHandler.NewHandler(approvalSvc, authMiddleware),
		escalationHandler.NewHandler(escalationSvc, authMiddleware),
		doctorHandler.NewHandler(doctorSvc, authMiddleware),
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
