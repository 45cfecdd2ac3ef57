// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "scribe/docs" // swagger docs
	"scribe/internal/cache"
	"scribe/internal/config"
	"scribe/internal/database"
	"scribe/internal/middleware"
	"scribe/internal/models"
	"scribe/internal/repository"
	"scribe/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const serviceName = "scribe-api"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	auth           *middleware.Authenticator

	userRepo    repository.UserRepository
	groupRepo   repository.GroupRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	followRepo  repository.FollowRepository

	feedService    *service.FeedService
	postService    *service.PostService
	commentService *service.CommentService
	followService  *service.FollowService
	authService    *service.AuthService
	imageService   *service.ImageService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Redis is optional: the group cache, rate limits and token revocation
	// degrade gracefully without it.
	redisClient := cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics(serviceName),
		auth:           middleware.NewAuthenticator(cfg.JWTSecret, cfg.LoginURL, redisClient),
		userRepo:       repository.NewUserRepository(db),
		groupRepo:      repository.NewGroupRepository(db),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		followRepo:     repository.NewFollowRepository(db),
	}

	s.imageService = service.NewImageService(cfg)
	s.feedService = service.NewFeedService(s.postRepo, s.groupRepo, s.userRepo, s.commentRepo, s.followRepo, cfg.PostsPerPage)
	s.postService = service.NewPostService(s.postRepo, s.groupRepo, s.imageService)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.followService = service.NewFollowService(s.userRepo, s.followRepo)
	s.authService = service.NewAuthService(s.userRepo, cfg.JWTSecret,
		time.Duration(cfg.JWTTTLMinutes)*time.Minute, redisClient)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Span per request; sets traceID in locals for the context middleware.
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and Trace ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Location",
		AllowCredentials: !strings.Contains(origins, "*"),
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	requireAuth := s.auth.Required()
	optionalAuth := s.auth.Optional()

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Uploaded post images
	app.Get("/media/posts/:name", s.ServeImage)

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Scribe Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	auth := api.Group("/auth")
	// Signup refuses requests while a configured limiter store is down.
	signupPolicy := middleware.FailOpen
	if s.redis != nil {
		signupPolicy = middleware.FailClosed
	}
	auth.Post("/signup", middleware.RateLimitWithPolicy(
		s.redis, 3, 10*time.Minute, signupPolicy, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", requireAuth, s.Logout)

	// Posts
	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Post("/", requireAuth, middleware.RateLimit(
		s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	// Specific /:id/:resource routes before generic /:id routes
	posts.Post("/:id/comments", requireAuth, middleware.RateLimit(
		s.redis, 20, time.Minute, "create_comment"), s.CreateComment)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", requireAuth, s.UpdatePost)

	// Groups
	groups := api.Group("/groups")
	groups.Get("/", s.GetGroups)
	groups.Get("/:slug", s.GetGroup)

	// Profiles and follows
	profile := api.Group("/profile")
	profile.Post("/:username/follow", requireAuth, middleware.RateLimit(
		s.redis, 30, time.Minute, "follow"), s.FollowAuthor)
	profile.Post("/:username/unfollow", requireAuth, s.UnfollowAuthor)
	profile.Get("/:username", optionalAuth, s.GetProfile)

	api.Get("/follow", requireAuth, s.GetFollowedFeed)
}

// LivenessCheck reports whether the process is up
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports whether the database and Redis are reachable
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is optional; only a configured but unreachable Redis fails readiness.
	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// errorHandler renders errors that escape handlers. Unmatched routes surface
// here as fiber.ErrNotFound.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code == fiber.StatusNotFound {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Route", c.Path()))
		}
		if fe.Code < fiber.StatusInternalServerError {
			return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
		}
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
		slog.String("path", c.Path()), slog.String("error", err.Error()))
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}

// NewApp builds the Fiber application with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Scribe API",
		ErrorHandler: errorHandler,
		UnescapePath: true,
		BodyLimit:    (s.imageLimitMB() + 1) * 1024 * 1024,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

func (s *Server) imageLimitMB() int {
	if s.config.ImageMaxUploadSizeMB > 0 {
		return s.config.ImageMaxUploadSizeMB
	}
	return service.DefaultImageMaxUploadSizeMB
}

// Start starts the server
func (s *Server) Start() error {
	s.app = s.NewApp()

	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
