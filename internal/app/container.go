package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ShujaShah/starte/domain"
	"github.com/ShujaShah/starte/internal/config"
	httpx "github.com/ShujaShah/starte/internal/http"
	"github.com/ShujaShah/starte/internal/http/handlers"
	"github.com/ShujaShah/starte/internal/http/middleware"
	"github.com/ShujaShah/starte/internal/infrastructure/auth"
	"github.com/ShujaShah/starte/internal/infrastructure/database"
	"github.com/ShujaShah/starte/internal/infrastructure/notifications"
	"github.com/ShujaShah/starte/internal/infrastructure/repositories"
	"github.com/ShujaShah/starte/internal/logging"
	"github.com/ShujaShah/starte/internal/metrics"
	"github.com/ShujaShah/starte/internal/services"
)

// Infra is the external state the container is built on
type Infra struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Mailer domain.Mailer
}

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Log    *slog.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService
	Metrics     *metrics.Metrics

	// Repositories
	UserRepo    domain.UserRepository
	Revocations domain.RevocationRepository

	// Services
	PasswordSvc domain.PasswordService
	TokenSvc    domain.TokenService
	Mailer      domain.Mailer
	Auditor     domain.AuditLogger
	AuthSvc     domain.AuthService
	UserSvc     domain.UserService
	PolicySvc   domain.PolicyService
}

// NewContainer connects to postgres, redis and the mail relay and wires the service
func NewContainer(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Container, error) {
	db, err := database.Open(cfg.DSN, cfg.IsProduction())
	if err != nil {
		return nil, err
	}
	return connect(ctx, cfg, log, db)
}

// connect finishes wiring on an open database. On failure it closes db and
// anything it opened itself.
func connect(ctx context.Context, cfg *config.Config, log *slog.Logger, db *gorm.DB) (_ *Container, err error) {
	var rdb *database.RedisClient
	defer func() {
		if err == nil {
			return
		}
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		if rdb != nil {
			_ = rdb.Client.Close()
		}
	}()

	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}

	rdb = database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := rdb.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	mailer, err := notifications.NewSMTPMailer(notifications.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		SSL:      cfg.SMTPSSL,
	}, log)
	if err != nil {
		return nil, err
	}

	return Assemble(cfg, log, Infra{DB: db, Redis: rdb.Client, Mailer: mailer})
}

// Assemble wires every component on top of already opened infrastructure.
// The schema must already be migrated.
func Assemble(cfg *config.Config, log *slog.Logger, infra Infra) (*Container, error) {
	c := &Container{
		Config:      cfg,
		Log:         log,
		DB:          infra.DB,
		RedisClient: infra.Redis,
		Mailer:      infra.Mailer,
		Metrics:     metrics.New(),
		Auditor:     logging.NewSlogAuditLogger(log),
	}

	cas, err := auth.NewCasbinService(c.DB, cfg.CasbinModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to build casbin enforcer: %w", err)
	}
	seeded, err := cas.SeedDefaultPolicies(cfg.APIPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to seed policies: %w", err)
	}
	if seeded {
		log.Info("casbin: seeded default policies")
	}
	c.Casbin = cas

	c.UserRepo = repositories.NewUserRepository(c.DB)
	if c.RedisClient != nil {
		c.Revocations = repositories.NewRevocationRepository(c.RedisClient)
	}

	c.PasswordSvc = auth.NewPasswordService(cfg.BcryptCost)
	c.TokenSvc = auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer)
	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.Revocations,
		c.PasswordSvc,
		c.TokenSvc,
		services.NewCodeGenerator(),
		c.Mailer,
		c.Auditor,
		c.Metrics,
		services.AuthConfig{
			ActivationTTL:    cfg.ActivationTTL,
			AuthTTL:          cfg.AuthTTL,
			RefreshTTL:       cfg.RefreshTTL,
			ExposeCode:       cfg.ExposeCode,
			AllowAdminSignup: cfg.AllowAdminSignup,
		},
	)
	c.UserSvc = services.NewUserService(c.UserRepo, c.Auditor)
	c.PolicySvc = services.NewPolicyService(cas.E)

	return c, nil
}

// Router builds the gin engine for the container's components
func (c *Container) Router() *gin.Engine {
	gin.SetMode(c.Config.GinMode)

	cookies := handlers.CookieConfig{
		Domain:        c.Config.CookieDomain,
		Secure:        c.Config.CookieSecure,
		AuthMaxAge:    c.Config.CookieAuthMaxAge,
		RefreshMaxAge: c.Config.CookieRefreshMaxAge,
	}

	return httpx.BuildRouter(httpx.Router{
		APIPrefix: c.Config.APIPrefix,
		DevMode:   c.Config.DevMode(),
		Log:       c.Log,
		Metrics:   c.Metrics,
		Auth:      handlers.NewAuthHandlers(c.AuthSvc, cookies),
		Users:     handlers.NewUserHandlers(c.UserSvc),
		Policies:  handlers.NewPolicyHandlers(c.PolicySvc),
		AuthMW:    middleware.NewAuthMW(c.TokenSvc, c.UserRepo, c.Revocations, c.Auditor, c.Metrics, c.Log),
		Casbin:    middleware.NewCasbinMW(services.NewCasbinEnforcerWrapper(c.Casbin.E), "id"),
	})
}

// Close releases the database and redis connections
func (c *Container) Close() error {
	var errs []error
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	if c.RedisClient != nil {
		errs = append(errs, c.RedisClient.Close())
	}
	return errors.Join(errs...)
}
