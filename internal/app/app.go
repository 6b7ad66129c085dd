package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/user-service/internal/config"
	"github.com/prperemyshlev/user-service/internal/handler"
	"github.com/prperemyshlev/user-service/internal/repository"
	"github.com/prperemyshlev/user-service/internal/seed"
	"github.com/prperemyshlev/user-service/internal/service"
	"github.com/prperemyshlev/user-service/internal/utils"
	"github.com/prperemyshlev/user-service/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	repos  *repository.Repositories
	hasher *utils.PasswordHasher
	router *gin.Engine
	server *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) (*App, error) {
	logger := infra.Logger()

	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	instruments, err := observability.NewInstruments(infra.MeterProvider().Meter(observability.ServiceName))
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(infra.Postgres())

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry.Duration,
		cfg.JWT.RefreshTokenExpiry.Duration,
	)
	hasher := NewPasswordHasher(cfg.Security)

	var publisher service.StatusPublisher
	if p := infra.Publisher(); p != nil {
		publisher = service.NewBrokerStatusPublisher(p)
	} else {
		publisher = service.NewLogStatusPublisher(logger)
	}

	authService := service.NewAuthService(repos.User, hasher, jwtManager, logger, instruments)
	userService := service.NewUserService(repos.User, hasher, publisher, logger, instruments)

	routes := handler.Routes{
		Auth:        handler.NewAuthHandler(authService, cfg.JWT.AccessTokenExpiry.Duration, logger),
		Users:       handler.NewUserHandler(userService, logger),
		AuthService: authService,
	}
	if cfg.Security.RateLimitEnabled {
		routes.AuthLimit = handler.RateLimitMiddleware(
			service.NewRateLimiter(infra.Redis()),
			cfg.Security.RateLimitRequests,
			cfg.Security.RateLimitWindow.Duration,
			handler.RouteAndIPKey,
			logger,
		)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(observability.ServiceName))
	router.Use(handler.RequestIDMiddleware())
	router.Use(handler.LoggerMiddleware(logger))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	router.GET("/metrics", observability.PrometheusHandler(infra.MetricsHandler()))
	router.GET("/health", NewHealthChecker(infra).Handler)
	handler.RegisterRoutes(router, routes)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		repos:  repos,
		hasher: hasher,
		router: router,
		server: srv,
	}, nil
}

// NewPasswordHasher builds the argon2id hasher from the security settings
func NewPasswordHasher(cfg config.SecurityConfig) *utils.PasswordHasher {
	return utils.NewPasswordHasher(utils.Argon2Params{
		MemoryKiB:   cfg.Argon2MemoryKiB,
		Iterations:  cfg.Argon2Iterations,
		Parallelism: cfg.Argon2Parallelism,
	})
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// Seed creates the admin and demo accounts that do not exist yet
func (a *App) Seed(ctx context.Context) error {
	seeder := seed.NewSeeder(a.repos.User, a.hasher, seed.Options{
		AdminPassword:   a.config.Seed.AdminPassword,
		DefaultPassword: a.config.Seed.DefaultPassword,
	}, a.infra.Logger())

	if _, err := seeder.Run(ctx); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	return nil
}

func (a *App) Run(ctx context.Context) error {
	if a.config.Seed.OnStart {
		if err := a.Seed(ctx); err != nil {
			a.infra.Logger().Error("Seeding failed", zap.Error(err))
		}
	}

	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Drain requests before closing the connections they use
	if err := a.server.Shutdown(ctx); err != nil {
		a.infra.Logger().Error("HTTP server shutdown failed", zap.Error(err))
		return errors.Join(err, a.infra.Shutdown(ctx))
	}

	if err := a.infra.Shutdown(ctx); err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
