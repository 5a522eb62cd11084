package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config/config.yml"

type AppConfig struct {
	Port      int    `yaml:"port"`
	GinMode   string `yaml:"gin_mode"`
	Env       string `yaml:"env"`
	APIPrefix string `yaml:"api_prefix"`
	LogLevel  string `yaml:"log_level"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer"`
	AuthTTL    string `yaml:"auth_ttl"`
	RefreshTTL string `yaml:"refresh_ttl"`
}

type ActivationConfig struct {
	TTL              string `yaml:"ttl"`
	ExposeCode       bool   `yaml:"expose_code"`
	AllowAdminSignup bool   `yaml:"allow_admin_signup"`
}

type CookieConfig struct {
	AuthMaxAge    string `yaml:"auth_max_age"`
	RefreshMaxAge string `yaml:"refresh_max_age"`
	Secure        *bool  `yaml:"secure"`
	Domain        string `yaml:"domain"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	SSL      bool   `yaml:"ssl"`
}

type BcryptConfig struct {
	Cost int `yaml:"cost"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	JWT        JWTConfig        `yaml:"jwt"`
	Activation ActivationConfig `yaml:"activation"`
	Cookie     CookieConfig     `yaml:"cookie"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	Bcrypt     BcryptConfig     `yaml:"bcrypt"`
	Casbin     CasbinConfig     `yaml:"casbin"`
}

type Config struct {
	Port      string
	GinMode   string
	Env       string
	APIPrefix string
	LogLevel  string

	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	JWTIssuer  string
	AuthTTL    time.Duration
	RefreshTTL time.Duration

	ActivationTTL    time.Duration
	ExposeCode       bool
	AllowAdminSignup bool

	CookieAuthMaxAge    time.Duration
	CookieRefreshMaxAge time.Duration
	CookieSecure        bool
	CookieDomain        string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPSSL      bool

	BcryptCost      int
	CasbinModelPath string
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool { return c.Env == "production" }

// DevMode reports whether unclassified error detail may be shown to clients
func (c *Config) DevMode() bool { return c.Env == "development" }

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads .env (when present), the YAML file named by CONFIG_PATH and
// finally environment overrides.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return LoadFile(env("CONFIG_PATH", defaultConfigPath))
}

// LoadFile builds the configuration from a YAML file plus environment overrides
func LoadFile(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	applyEnv(configFile)
	return build(configFile)
}

func build(f *ConfigFile) (*Config, error) {
	cfg := &Config{
		Port:             strconv.Itoa(orInt(f.App.Port, 8000)),
		GinMode:          orString(f.App.GinMode, "release"),
		Env:              orString(f.App.Env, "development"),
		APIPrefix:        strings.TrimRight(orString(f.App.APIPrefix, "/api/v1"), "/"),
		LogLevel:         orString(f.App.LogLevel, "info"),
		DSN:              f.Database.DSN,
		RedisAddr:        f.Redis.Addr,
		RedisPassword:    f.Redis.Password,
		RedisDB:          f.Redis.DB,
		JWTSecret:        f.JWT.Secret,
		JWTIssuer:        orString(f.JWT.Issuer, "lms"),
		ExposeCode:       f.Activation.ExposeCode,
		AllowAdminSignup: f.Activation.AllowAdminSignup,
		CookieSecure:     true,
		CookieDomain:     f.Cookie.Domain,
		SMTPHost:         f.SMTP.Host,
		SMTPPort:         orInt(f.SMTP.Port, 465),
		SMTPUsername:     f.SMTP.Username,
		SMTPPassword:     f.SMTP.Password,
		SMTPFrom:         orString(f.SMTP.From, f.SMTP.Username),
		SMTPSSL:          f.SMTP.SSL,
		BcryptCost:       orInt(f.Bcrypt.Cost, 10),
		CasbinModelPath:  f.Casbin.ModelPath,
	}
	if f.Cookie.Secure != nil {
		cfg.CookieSecure = *f.Cookie.Secure
	}

	durations := []struct {
		name string
		raw  string
		def  time.Duration
		dst  *time.Duration
	}{
		{"jwt.auth_ttl", f.JWT.AuthTTL, 72 * time.Hour, &cfg.AuthTTL},
		{"jwt.refresh_ttl", f.JWT.RefreshTTL, 90 * 24 * time.Hour, &cfg.RefreshTTL},
		{"activation.ttl", f.Activation.TTL, 600 * time.Second, &cfg.ActivationTTL},
		{"cookie.auth_max_age", f.Cookie.AuthMaxAge, 24 * time.Hour, &cfg.CookieAuthMaxAge},
		{"cookie.refresh_max_age", f.Cookie.RefreshMaxAge, 365 * 24 * time.Hour, &cfg.CookieRefreshMaxAge},
	}
	for _, d := range durations {
		if d.raw == "" {
			*d.dst = d.def
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.name, err)
		}
		*d.dst = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service must not start with
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt.secret is required"))
	}
	if c.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}
	if c.ExposeCode && c.IsProduction() {
		errs = append(errs, errors.New("activation.expose_code cannot be enabled in production"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("bcrypt.cost must be between 4 and 31, got %d", c.BcryptCost))
	}
	for name, d := range map[string]time.Duration{
		"jwt.auth_ttl":           c.AuthTTL,
		"jwt.refresh_ttl":        c.RefreshTTL,
		"activation.ttl":         c.ActivationTTL,
		"cookie.auth_max_age":    c.CookieAuthMaxAge,
		"cookie.refresh_max_age": c.CookieRefreshMaxAge,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	return errors.Join(errs...)
}

// applyEnv lets the environment override file values
func applyEnv(f *ConfigFile) {
	f.App.Port = envInt("PORT", f.App.Port)
	f.App.GinMode = env("GIN_MODE", f.App.GinMode)
	f.App.Env = env("APP_ENV", f.App.Env)
	f.App.APIPrefix = env("API_PREFIX", f.App.APIPrefix)
	f.App.LogLevel = env("LOG_LEVEL", f.App.LogLevel)
	f.Database.DSN = env("DATABASE_DSN", f.Database.DSN)
	f.Redis.Addr = env("REDIS_ADDR", f.Redis.Addr)
	f.Redis.Password = env("REDIS_PASSWORD", f.Redis.Password)
	f.Redis.DB = envInt("REDIS_DB", f.Redis.DB)
	f.JWT.Secret = env("JWT_SECRET", f.JWT.Secret)
	f.JWT.Issuer = env("JWT_ISSUER", f.JWT.Issuer)
	f.Activation.ExposeCode = envBool("ACTIVATION_EXPOSE_CODE", f.Activation.ExposeCode)
	f.Activation.AllowAdminSignup = envBool("ACTIVATION_ALLOW_ADMIN_SIGNUP", f.Activation.AllowAdminSignup)
	f.SMTP.Host = env("SMTP_HOST", f.SMTP.Host)
	f.SMTP.Port = envInt("SMTP_PORT", f.SMTP.Port)
	f.SMTP.Username = env("SMTP_MAIL", f.SMTP.Username)
	f.SMTP.Password = env("SMTP_PASSWORD", f.SMTP.Password)
	f.SMTP.From = env("SMTP_FROM", f.SMTP.From)
	if v, ok := os.LookupEnv("COOKIE_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err == nil {
			f.Cookie.Secure = &b
		}
	}
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func envInt(k string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(k)); err == nil {
		return v
	}
	return def
}

func orString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
