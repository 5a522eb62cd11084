package httpx

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ShujaShah/starte/domain"
	"github.com/ShujaShah/starte/internal/http/handlers"
	"github.com/ShujaShah/starte/internal/http/middleware"
	"github.com/ShujaShah/starte/internal/metrics"
)

// Router groups everything BuildRouter mounts
type Router struct {
	APIPrefix string
	DevMode   bool
	Log       *slog.Logger
	Metrics   *metrics.Metrics

	Auth     *handlers.AuthHandlers
	Users    *handlers.UserHandlers
	Policies *handlers.PolicyHandlers
	AuthMW   *middleware.AuthMW
	Casbin   *middleware.CasbinMW
}

func BuildRouter(rt Router) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(rt.Log, rt.Metrics), middleware.ErrorHandler(rt.DevMode, rt.Log))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(rt.Metrics.Handler()))

	api := r.Group(rt.APIPrefix)

	users := api.Group("/users")
	users.POST("", rt.Auth.Register)
	users.POST("/verify-code", rt.Auth.VerifyCode)
	users.POST("/login", rt.Auth.Login)
	users.POST("/refresh", rt.Auth.Refresh)

	session := users.Group("", rt.AuthMW.RequireAuth())
	session.GET("/me", rt.Auth.Me)
	session.POST("/logout", rt.Auth.Logout)

	profiles := users.Group("", rt.AuthMW.RequireAuth(), rt.Casbin.Enforce())
	profiles.GET("/all", rt.Users.List)
	profiles.GET("/:id", rt.Users.Get)
	profiles.PATCH("/:id", rt.Users.Update)
	profiles.DELETE("/:id", rt.Users.Delete)

	adm := api.Group("/admin", rt.AuthMW.RequireRole(domain.RoleAdmin))
	adm.GET("/policies", rt.Policies.List)
	adm.GET("/policies/check", rt.Policies.Check)
	adm.POST("/policies", rt.Policies.Add)
	adm.DELETE("/policies", rt.Policies.Remove)
	adm.PATCH("/users/:id/role", rt.Users.ChangeRole)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Page not found"})
	})
	return r
}
