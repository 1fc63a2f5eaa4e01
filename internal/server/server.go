// Package server contains the HTTP handlers for the blog API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "inkwell/docs" // swagger docs
	"inkwell/internal/bootstrap"
	"inkwell/internal/config"
	"inkwell/internal/featureflags"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/notifications"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	db              *gorm.DB
	redis           *redis.Client
	app             *fiber.App
	promMiddleware  *fiberprometheus.FiberPrometheus
	tokens          *middleware.TokenManager
	featureFlags    *featureflags.Manager
	limiter         *middleware.RateLimiter
	identityService *service.IdentityService
	postService     *service.PostService
	commentService  *service.CommentService
	categoryService *service.CategoryService
	likeService     *service.LikeService
	followService   *service.FollowService
	userService     *service.UserService
}

// NewServer connects to the database and Redis and builds a server on top of them.
// The demo fixtures are loaded first when SEED_ON_STARTUP is set.
func NewServer(cfg *config.Config) (*Server, error) {
	db, rdb, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedFixtures: cfg.SeedOnStartup})
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, rdb)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and optionally
// performs explicit seeding. redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle is required")
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)
	tx := repository.NewTransactor(db)
	enricher := service.NewEnricher(likeRepo, followRepo)

	ttl := time.Duration(cfg.JWTTTLHours) * time.Hour
	flags := featureflags.NewManager(cfg.FeatureFlags)
	notifier := notifications.NewNotifier(redisClient, flags)

	server := &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		promMiddleware:  middleware.InitMetrics(observability.ServiceName),
		tokens:          middleware.NewTokenManager(cfg.JWTSecret, ttl, redisClient),
		featureFlags:    flags,
		limiter:         middleware.NewRateLimiter(redisClient, cfg.Env),
		identityService: service.NewIdentityService(userRepo, tx, cfg.BcryptCost),
		postService:     service.NewPostService(postRepo, userRepo, tx, enricher),
		commentService:  service.NewCommentService(commentRepo, postRepo, userRepo, tx, enricher),
		categoryService: service.NewCategoryService(postRepo, categoryRepo, tx),
		likeService:     service.NewLikeService(likeRepo, postRepo, commentRepo, userRepo, tx),
		followService:   service.NewFollowService(followRepo, userRepo, tx),
		userService:     service.NewUserService(userRepo, postRepo, commentRepo, likeRepo, followRepo, enricher),
	}

	server.commentService.SetActivityPublisher(notifier)
	server.likeService.SetActivityPublisher(notifier)
	server.followService.SetActivityPublisher(notifier)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Must follow requestid and tracing so their locals reach the context.
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected browser requests still get CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global per-IP limit, in memory.
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
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/swagger/*", swagger.HandlerDefault)

	auth := s.tokens.AuthRequired()

	authGroup := app.Group("/auth")
	authGroup.Post("/register",
		s.limiter.Handler("register", 5, 10*time.Minute, middleware.FailOpen), s.Register)
	authGroup.Post("/login",
		s.limiter.Handler("login", 10, 5*time.Minute, middleware.FailOpen), s.Login)
	authGroup.Post("/logout", auth, s.Logout)

	// Static segments are registered before /:id.
	posts := app.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Get("/compact", s.GetCompactPosts)
	posts.Get("/category/:name", s.GetPostsByCategory)
	posts.Get("/:id", s.GetPost)
	posts.Post("/", auth, s.CreatePost)
	posts.Put("/:id", auth, s.UpdatePost)
	posts.Delete("/:id", auth, s.DeletePost)

	comments := app.Group("/comments")
	comments.Get("/:postId", s.GetComments)
	comments.Post("/:postId", auth, s.CreateComment)
	comments.Put("/:commentId", auth, s.UpdateComment)
	comments.Delete("/:commentId", auth, s.DeleteComment)

	likes := app.Group("/likes")
	likes.Get("/post/:id", s.GetLikers(models.PostTarget))
	likes.Get("/comment/:id", s.GetLikers(models.CommentTarget))
	likes.Post("/post/:id", auth, s.CreateLike(models.PostTarget))
	likes.Post("/comment/:id", auth, s.CreateLike(models.CommentTarget))
	likes.Delete("/post/:id", auth, s.DeleteLike(models.PostTarget))
	likes.Delete("/comment/:id", auth, s.DeleteLike(models.CommentTarget))

	followers := app.Group("/followers")
	followers.Get("/:userId", s.GetFollowers)
	followers.Post("/:userId", auth, s.FollowUser)
	followers.Delete("/:userId", auth, s.UnfollowUser)

	categories := app.Group("/category")
	categories.Post("/:postId", auth, s.AddCategory)
	categories.Delete("/:postId", auth, s.RemoveCategory)

	users := app.Group("/users")
	users.Get("/", s.GetUsers)
	users.Put("/", auth, s.UpdateUser)
	users.Delete("/", auth, s.DeleteUser)
	users.Get("/posts/:id", s.GetUserPosts)
	users.Get("/comments/:id", s.GetUserComments)
	users.Get("/likes/:id", s.GetUserLikes)
	users.Get("/features", auth, s.GetFeatureFlags)
	users.Get("/:id", s.GetUser)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck pings the database and Redis concurrently.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus, redisStatus := "healthy", "healthy"

	var g errgroup.Group
	g.Go(func() error {
		sqlDB, err := s.db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			dbStatus = "unhealthy"
		}
		return nil
	})
	g.Go(func() error {
		if s.redis == nil {
			redisStatus = "unavailable"
			return nil
		}
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
		return nil
	})
	_ = g.Wait()

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus != "healthy" {
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

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName: "Inkwell API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
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
