package config

import (
	"Veriface/database/postgres"
	attendanceHandler "Veriface/internal/api/attendance/handler"
	attendanceRepository "Veriface/internal/api/attendance/repository"
	attendanceService "Veriface/internal/api/attendance/service"
	authHandler "Veriface/internal/api/auth/handler"
	authService "Veriface/internal/api/auth/service"
	faceHandler "Veriface/internal/api/face/handler"
	faceRepository "Veriface/internal/api/face/repository"
	faceService "Veriface/internal/api/face/service"
	"Veriface/internal/middleware"
	"Veriface/pkg/bcrypt"
	"Veriface/pkg/liveness"
	"Veriface/pkg/redis"
	"Veriface/pkg/s3"
	"Veriface/pkg/utils"
	"Veriface/pkg/vision"
	"Veriface/pkg/whatsapp"
	"fmt"
	"os"

	"github.com/go-co-op/gocron"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine           *fiber.App
	db               *sqlx.DB
	log              *logrus.Logger
	middleware       middleware.Middleware
	validator        *validator.Validate
	utils            utils.IUtils
	bcryptUtils      bcrypt.IBcrypt
	handlers         []handler
	redisServer      redis.IRedis
	visionClient     vision.IVision
	livenessDetector liveness.IDetector
	whatsappClient   whatsapp.IWhatsappSender
	s3Client         s3.ItfS3
	scheduler        *gocron.Scheduler
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithVisionClient(visionClient vision.IVision) ServerOption {
	return func(s *Server) error {
		s.visionClient = visionClient
		return nil
	}
}

func WithLivenessDetector(detector liveness.IDetector) ServerOption {
	return func(s *Server) error {
		s.livenessDetector = detector
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithWhatsappClient() ServerOption {
	return func(s *Server) error {
		client, err := whatsapp.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize WhatsApp client: %v", err)
			}
			return fmt.Errorf("failed to create WhatsApp client: %w", err)
		}
		s.whatsappClient = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Face Domain
	faceRepo := faceRepository.New(s.db, s.log)
	faceServices := faceService.New(s.log, faceRepo, s.redisServer, s.s3Client, s.visionClient)
	faceHandlers := faceHandler.New(s.log, s.validator, s.middleware, faceServices, s.utils)

	// Attendance Domain
	attendanceRepo := attendanceRepository.New(s.db, s.log)
	attendanceServices := attendanceService.New(s.log, attendanceRepo, faceServices, s.visionClient, s.livenessDetector, s.whatsappClient, s.utils)
	attendanceHandlers := attendanceHandler.New(s.log, s.validator, s.middleware, attendanceServices, s.utils)

	// Operator Auth
	authServices := authService.New(s.log, s.bcryptUtils)
	authHandlers := authHandler.New(s.log, s.validator, s.middleware, authServices)

	scheduler, err := NewScheduler(s.log, attendanceServices.Report().LogDailySummary)
	if err == nil {
		s.scheduler = scheduler
	}

	s.setupHealthCheck()
	s.handlers = append(s.handlers, faceHandlers, attendanceHandlers, authHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())
	s.engine.Use(s.middleware.NewRateLimiter)

	for _, h := range s.handlers {
		h.Start(router)
	}

	if s.scheduler != nil {
		s.scheduler.StartAsync()
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		s.shutdownClients()
		return err
	}

	return nil
}

func (s *Server) Shutdown() {
	s.shutdownClients()
	if err := s.engine.Shutdown(); err != nil {
		s.log.Errorf("Error shutting down server: %v", err)
	}
}

func (s *Server) shutdownClients() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	if s.whatsappClient != nil {
		if err := s.whatsappClient.Disconnect(); err != nil {
			s.log.Errorf("Error disconnecting WhatsApp client: %v", err)
		}
	}
	if s.visionClient != nil {
		s.visionClient.CloseConnections()
	}
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
