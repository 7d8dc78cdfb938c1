package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"
	"github.com/templui/microblog/internal/config"
	"github.com/templui/microblog/internal/db"
	"github.com/templui/microblog/internal/federation"
	"github.com/templui/microblog/internal/markdown"
	"github.com/templui/microblog/internal/redis"
	"github.com/templui/microblog/internal/repository"
	"github.com/templui/microblog/internal/service"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	Redis           *goredis.Client
	Providers       *federation.Registry
	Markdown        *markdown.Parser
	AuthService     *service.AuthService
	SessionService  *service.SessionService
	IdentityService *service.IdentityService
	UserService     *service.UserService
	PostService     *service.PostService
	EmailService    *service.EmailService
	ErrorReporter   *service.ErrorReporter
}

// New connects to the database, migrates it and wires the services.
// Providers come from configuration.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	return NewWithProviders(ctx, cfg, federation.FromConfig(cfg))
}

// NewWithProviders is New with an explicit provider registry.
func NewWithProviders(ctx context.Context, cfg *config.Config, providers *federation.Registry) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a := &App{
		Cfg:       cfg,
		DB:        database,
		Providers: providers,
		Markdown:  markdown.NewParser(),
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	postRepository := repository.NewPostRepository(database)

	var loginFlowRepository repository.LoginFlowRepository
	switch cfg.LoginFlowStore {
	case "redis":
		a.Redis, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		loginFlowRepository = repository.NewRedisLoginFlowRepository(a.Redis)
	case "sql", "":
		loginFlowRepository = repository.NewLoginFlowRepository(database)
	default:
		_ = a.Close()
		return nil, fmt.Errorf("unknown LOGIN_FLOW_STORE %q", cfg.LoginFlowStore)
	}

	// Services
	a.EmailService = service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	a.ErrorReporter = service.NewErrorReporter(a.EmailService, cfg.AdminEmails)
	a.SessionService = service.NewSessionService(
		userRepository,
		loginFlowRepository,
		cfg.SessionSecret,
		cfg.IsProduction(),
		cfg.SessionExpiry,
		cfg.RememberExpiry,
		cfg.LoginFlowExpiry,
	)
	a.IdentityService = service.NewIdentityService(userRepository, a.EmailService, cfg.NicknameMaxAttempts)
	a.AuthService = service.NewAuthService(providers, a.SessionService, a.IdentityService)
	a.UserService = service.NewUserService(userRepository)
	a.PostService = service.NewPostService(postRepository, a.Markdown, cfg.PostsPerPage)

	return a, nil
}

func (a *App) Close() error {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
