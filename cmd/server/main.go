package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	appacademics "github.com/schoolhub/backend/internal/application/academics"
	appassessment "github.com/schoolhub/backend/internal/application/assessment"
	appcommerce "github.com/schoolhub/backend/internal/application/commerce"
	appengagement "github.com/schoolhub/backend/internal/application/engagement"
	appidentity "github.com/schoolhub/backend/internal/application/identity"
	apppeople "github.com/schoolhub/backend/internal/application/people"
	appschool "github.com/schoolhub/backend/internal/application/school"
	"github.com/schoolhub/backend/internal/domain/academics"
	"github.com/schoolhub/backend/internal/domain/commerce"
	"github.com/schoolhub/backend/internal/infrastructure/auth"
	"github.com/schoolhub/backend/internal/infrastructure/config"
	"github.com/schoolhub/backend/internal/infrastructure/email"
	"github.com/schoolhub/backend/internal/infrastructure/logger"
	"github.com/schoolhub/backend/internal/infrastructure/payment"
	"github.com/schoolhub/backend/internal/infrastructure/persistence"
	"github.com/schoolhub/backend/internal/infrastructure/storage"
	"github.com/schoolhub/backend/internal/interfaces/http/handler"
	"github.com/schoolhub/backend/internal/interfaces/http/middleware"
	"github.com/schoolhub/backend/internal/interfaces/http/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewGormLogger(log, gormlogger.Warn))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = db.Close() }()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = redisClient.Close() }()

	var blacklist auth.TokenBlacklist
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("Redis unreachable, falling back to in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	objectStorage, err := buildStorage(cfg, log)
	if err != nil {
		return err
	}
	mailer := buildMailer(cfg, log)
	gateway, err := buildGateway(cfg, log)
	if err != nil {
		return err
	}

	// repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	schoolRepo := persistence.NewGormSchoolRepository(db.DB)
	classRepo := persistence.NewGormClassRepository(db.DB)
	roomRepo := persistence.NewGormRoomRepository(db.DB)
	curriculumRepo := persistence.NewGormCurriculumRepository(db.DB)
	lessonRepo := persistence.NewGormLessonRepository(db.DB)
	timetableRepo := persistence.NewGormTimetableRepository(db.DB)
	studentRepo := persistence.NewGormStudentRepository(db.DB)
	teacherRepo := persistence.NewGormTeacherRepository(db.DB)
	guardianRepo := persistence.NewGormGuardianRepository(db.DB)
	attendanceRepo := persistence.NewGormAttendanceRepository(db.DB)
	reportCardRepo := persistence.NewGormReportCardRepository(db.DB)
	eventRepo := persistence.NewGormEventRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	materialRepo := persistence.NewGormMaterialRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	tx := persistence.NewGormTxManager(db.DB)

	conflicts := academics.NewConflictChecker(timetableRepo, lessonRepo)

	// application services
	authService := appidentity.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := appidentity.NewUserService(userRepo, blacklist, log)
	schoolService := appschool.NewSchoolService(schoolRepo, userRepo, tx, objectStorage, mailer, gateway, log)
	classService := appacademics.NewClassService(classRepo, lessonRepo, studentRepo, teacherRepo, log)
	roomService := appacademics.NewRoomService(roomRepo, timetableRepo, log)
	curriculumService := appacademics.NewCurriculumService(curriculumRepo, lessonRepo, log)
	lessonService := appacademics.NewLessonService(lessonRepo, classRepo, curriculumRepo, teacherRepo, log)
	timetableService := appacademics.NewTimetableService(timetableRepo, classRepo, lessonRepo, conflicts, tx, log)
	studentService := apppeople.NewStudentService(studentRepo, classRepo, objectStorage, tx, log)
	teacherService := apppeople.NewTeacherService(teacherRepo, userRepo, lessonRepo, tx, mailer, log)
	guardianService := apppeople.NewGuardianService(guardianRepo, studentRepo, userRepo, notificationRepo, tx, log)
	attendanceService := appassessment.NewAttendanceService(attendanceRepo, lessonRepo, studentRepo,
		guardianRepo, notificationRepo, log)
	reportCardService := appassessment.NewReportCardService(reportCardRepo, studentRepo, classRepo,
		curriculumRepo, guardianRepo, userRepo, notificationRepo, mailer, log)
	eventService := appengagement.NewEventService(eventRepo, notificationRepo, guardianRepo, userRepo, mailer, objectStorage, log)
	notificationService := appengagement.NewNotificationService(notificationRepo, log)
	materialService := appcommerce.NewMaterialService(materialRepo, objectStorage, log)
	orderService := appcommerce.NewOrderService(orderRepo, materialRepo, log)
	paymentService := appcommerce.NewPaymentService(paymentRepo, orderRepo, materialRepo,
		userRepo, notificationRepo, gateway, tx, log)

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authService, log),
		User:         handler.NewUserHandler(userService, log),
		School:       handler.NewSchoolHandler(schoolService, log),
		Class:        handler.NewClassHandler(classService, log),
		Room:         handler.NewRoomHandler(roomService, log),
		Curriculum:   handler.NewCurriculumHandler(curriculumService, log),
		Lesson:       handler.NewLessonHandler(lessonService, log),
		Timetable:    handler.NewTimetableHandler(timetableService, log),
		Student:      handler.NewStudentHandler(studentService, guardianService, log),
		Teacher:      handler.NewTeacherHandler(teacherService, log),
		Attendance:   handler.NewAttendanceHandler(attendanceService, log),
		ReportCard:   handler.NewReportCardHandler(reportCardService, log),
		Event:        handler.NewEventHandler(eventService, log),
		Notification: handler.NewNotificationHandler(notificationService, log),
		Material:     handler.NewMaterialHandler(materialService, log),
		Order:        handler.NewOrderHandler(orderService, log),
		Payment:      handler.NewPaymentHandler(paymentService, log),
	}

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(redisClient,
			cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow, log)
	}

	engine := router.New(router.Options{
		Config:      cfg,
		Logger:      log,
		JWTService:  jwtService,
		Blacklist:   blacklist,
		RateLimiter: limiter,
	}, handlers)

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening",
			zap.String("addr", server.Addr),
			zap.String("env", cfg.App.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case sig := <-quit:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("Server stopped")
	return nil
}

func buildStorage(cfg *config.Config, log *zap.Logger) (storage.ObjectStorage, error) {
	if !cfg.Storage.Enabled {
		log.Warn("Object storage disabled, uploads held in memory")
		return storage.NewMemoryObjectStorage(), nil
	}
	s3, err := storage.NewS3ObjectStorage(&cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}
	return s3, nil
}

func buildMailer(cfg *config.Config, log *zap.Logger) email.Sender {
	if !cfg.Email.Enabled {
		log.Warn("Email disabled, messages logged to console")
		return email.NewConsoleSender(log)
	}
	sender, err := email.NewSendGridSender(&cfg.Email, log)
	if err != nil {
		log.Warn("SendGrid misconfigured, messages logged to console", zap.Error(err))
		return email.NewConsoleSender(log)
	}
	return sender
}

func buildGateway(cfg *config.Config, log *zap.Logger) (commerce.Gateway, error) {
	if !cfg.Payment.Enabled {
		log.Warn("Payment gateway disabled, using local stub")
		return payment.NewStubGateway(), nil
	}
	gw, err := payment.NewPaystackAdapter(&cfg.Payment, log)
	if err != nil {
		return nil, fmt.Errorf("init payment gateway: %w", err)
	}
	return gw, nil
}
