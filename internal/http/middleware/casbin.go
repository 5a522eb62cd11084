package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ShujaShah/starte/domain"
)

// OwnerSubject is the casbin subject tried when the caller owns the addressed resource
const OwnerSubject = "role_owner"

// CasbinMW wraps the casbin enforcer for middleware
type CasbinMW struct {
	enforcer   domain.CasbinEnforcer
	ownerParam string
}

// NewCasbinMW creates new casbin middleware wrapper. ownerParam names the path
// parameter that carries a user id; empty disables the owner check.
func NewCasbinMW(enforcer domain.CasbinEnforcer, ownerParam string) *CasbinMW {
	return &CasbinMW{enforcer: enforcer, ownerParam: ownerParam}
}

// Enforce returns the casbin authorization middleware. It must run after
// RequireAuth so that the live role is on the context.
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserID)
		role := CurrentRole(c)
		if userID == "" || role == "" {
			abortWithError(c, http.StatusUnauthorized, "You are not logged in")
			return
		}

		// Use c.FullPath() to match against the route pattern (e.g., /users/:id)
		path := c.FullPath()
		method := c.Request.Method

		allowed, err := mw.enforcer.Enforce("role_"+string(role), path, method)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		if !allowed && mw.ownerParam != "" && c.Param(mw.ownerParam) == userID {
			allowed, err = mw.enforcer.Enforce(OwnerSubject, path, method)
			if err != nil {
				c.Error(err)
				c.Abort()
				return
			}
		}

		if !allowed {
			c.Error(domain.ErrInsufficientRole)
			abortWithError(c, http.StatusForbidden, "Access Denied")
			return
		}

		c.Next()
	}
}
