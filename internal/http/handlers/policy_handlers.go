package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ShujaShah/starte/domain"
)

type PolicyHandlers struct{ svc domain.PolicyService }

func NewPolicyHandlers(svc domain.PolicyService) *PolicyHandlers {
	return &PolicyHandlers{svc: svc}
}

type policyReq struct {
	Role     string `json:"role"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

func (h *PolicyHandlers) List(c *gin.Context) {
	policies, err := h.svc.GetPolicies()
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": policies})
}

// Check reports whether a role may perform action on resource under the current policies
func (h *PolicyHandlers) Check(c *gin.Context) {
	r := policyReq{
		Role:     c.Query("role"),
		Resource: c.Query("resource"),
		Action:   c.Query("action"),
	}
	if r.Role == "" || r.Resource == "" || r.Action == "" {
		c.Error(domain.NewValidationError("role, resource and action are required", domain.ErrInvalidUserData))
		return
	}
	allowed, err := h.svc.CheckPermission(r.Role, r.Resource, r.Action)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "allowed": allowed})
}

func (h *PolicyHandlers) Add(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		c.Error(domain.NewValidationError("Invalid policy", err))
		return
	}
	if err := h.svc.AddPolicy(r.Role, r.Resource, r.Action); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PolicyHandlers) Remove(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		c.Error(domain.NewValidationError("Invalid policy", err))
		return
	}
	if err := h.svc.RemovePolicy(r.Role, r.Resource, r.Action); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
