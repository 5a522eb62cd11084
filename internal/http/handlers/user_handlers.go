package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ShujaShah/starte/domain"
)

// UserHandlers handles profile HTTP requests
type UserHandlers struct {
	userSvc domain.UserService
}

// NewUserHandlers creates new profile handlers
func NewUserHandlers(userSvc domain.UserService) *UserHandlers {
	return &UserHandlers{userSvc: userSvc}
}

// ChangeRoleRequest represents an admin role change
type ChangeRoleRequest struct {
	Role domain.Role `json:"role"`
}

// unknownID reports whether err means the addressed user does not exist
func unknownID(err error) bool {
	return errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidID)
}

// Update replaces name and email, and the avatar when one is given
func (h *UserHandlers) Update(c *gin.Context) {
	var req domain.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(domain.NewValidationError("Invalid user data", err))
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		switch {
		case unknownID(err):
			c.Error(domain.NewValidationError("No user with the given id found", err))
		case errors.Is(err, domain.ErrUserAlreadyExists):
			c.Error(domain.NewConflictError("Duplicate email entered", err))
		default:
			c.Error(err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user":    user,
	})
}

// Delete removes a user
func (h *UserHandlers) Delete(c *gin.Context) {
	if err := h.userSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if unknownID(err) {
			c.Error(domain.NewValidationError("user with the given id does not exist", err))
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "user successfully deleted",
	})
}

// List returns every user with the total count
func (h *UserHandlers) List(c *gin.Context) {
	users, count, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"count":   count,
		"data":    users,
	})
}

// Get returns a single user
func (h *UserHandlers) Get(c *gin.Context) {
	user, err := h.userSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if unknownID(err) {
			c.Error(domain.NewValidationError("user not found", err))
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// ChangeRole is the admin action that alters a user's role
func (h *UserHandlers) ChangeRole(c *gin.Context) {
	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(domain.NewValidationError("Invalid user data", err))
		return
	}

	user, err := h.userSvc.ChangeRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		if unknownID(err) {
			c.Error(domain.NewValidationError("No user with the given id found", err))
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user":    user,
	})
}
