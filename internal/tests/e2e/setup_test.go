package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ShujaShah/starte/internal/app"
	"github.com/ShujaShah/starte/internal/config"
	"github.com/ShujaShah/starte/internal/http/middleware"
	"github.com/ShujaShah/starte/internal/infrastructure/database"
	"github.com/ShujaShah/starte/internal/logging"
	"github.com/ShujaShah/starte/internal/mocks"
)

const (
	testSecret = "test-secret-for-e2e"
	apiPrefix  = "/api/v1"
)

// TestSuite holds the E2E test infrastructure for one test
type TestSuite struct {
	Config    *config.Config
	DB        *gorm.DB
	Redis     *miniredis.Miniredis
	Mailer    *mocks.MockMailer
	Container *app.Container
	Server    *httptest.Server
}

type suiteOption func(*config.Config)

func withExposedCode(cfg *config.Config) { cfg.ExposeCode = true }

func testConfig() *config.Config {
	return &config.Config{
		Port:                "0",
		GinMode:             "test",
		Env:                 "test",
		APIPrefix:           apiPrefix,
		LogLevel:            "error",
		DSN:                 "file::memory:",
		JWTSecret:           testSecret,
		JWTIssuer:           "lms-test",
		AuthTTL:             72 * time.Hour,
		RefreshTTL:          90 * 24 * time.Hour,
		ActivationTTL:       600 * time.Second,
		CookieAuthMaxAge:    24 * time.Hour,
		CookieRefreshMaxAge: 365 * 24 * time.Hour,
		// cookiejar does not return Secure cookies over plain http
		CookieSecure: false,
		BcryptCost:   4,
	}
}

// newSuite starts the whole service on sqlite, miniredis and a recording mailer
func newSuite(t *testing.T, opts ...suiteOption) *TestSuite {
	t.Helper()

	cfg := testConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	require.NoError(t, cfg.Validate())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mailer := mocks.NewMockMailer()

	c, err := app.Assemble(cfg, logging.Discard(), app.Infra{DB: db, Redis: rdb, Mailer: mailer})
	require.NoError(t, err)

	server := httptest.NewServer(c.Router())
	t.Cleanup(func() {
		server.Close()
		_ = c.Close()
	})

	return &TestSuite{
		Config:    cfg,
		DB:        db,
		Redis:     mr,
		Mailer:    mailer,
		Container: c,
		Server:    server,
	}
}

// Client is a cookie-keeping HTTP client bound to the suite's server
type Client struct {
	t    *testing.T
	base string
	http *http.Client
}

// NewClient returns a client with an empty cookie jar
func (s *TestSuite) NewClient(t *testing.T) *Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &Client{
		t:    t,
		base: s.Server.URL,
		http: &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}
}

// Response is a decoded API response
type Response struct {
	Status  int
	Body    map[string]any
	Cookies []*http.Cookie
}

func (r *Response) Data() map[string]any {
	d, _ := r.Body["data"].(map[string]any)
	return d
}

func (r *Response) Cookie(name string) *http.Cookie {
	for _, c := range r.Cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Do sends body as JSON to an API path
func (c *Client) Do(method, path string, body any) *Response {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	out := &Response{Status: resp.StatusCode, Cookies: resp.Cookies()}
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(c.t, json.Unmarshal(raw, &out.Body))
	}
	return out
}

// SetCookie replaces the named cookie held by the jar
func (c *Client) SetCookie(name, value string) {
	u, err := url.Parse(c.base)
	require.NoError(c.t, err)
	c.http.Jar.SetCookies(u, []*http.Cookie{{Name: name, Value: value, Path: "/"}})
}

func (c *Client) SetAuthCookie(value string) { c.SetCookie(middleware.AuthTokenCookie, value) }

// JarCookie returns the named cookie currently held by the jar
func (c *Client) JarCookie(name string) *http.Cookie {
	u, err := url.Parse(c.base)
	require.NoError(c.t, err)
	for _, ck := range c.http.Jar.Cookies(u) {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

var emailSeq atomic.Int64

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s%d@example.com", prefix, emailSeq.Add(1))
}
