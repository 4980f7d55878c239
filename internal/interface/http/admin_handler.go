package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/learnhub/learnhub-backend/internal/application"
	"github.com/learnhub/learnhub-backend/pkg/response"
	"github.com/learnhub/learnhub-backend/pkg/validation"
)

// AdminHandler exposes role management and instructor request moderation.
type AdminHandler struct {
	Svc    *application.AccountService
	Logger *logrus.Logger
}

func NewAdminHandler(svc *application.AccountService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Svc: svc, Logger: logger}
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=student pending-instructor instructor admin"`
}

func (h *AdminHandler) ListInstructors(c *gin.Context) {
	list, err := h.Svc.ListInstructors(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, a := range list {
		out = append(out, accountView(a))
	}
	response.Success(c, http.StatusOK, out, "instructors", gin.H{"count": len(out)})
}

func (h *AdminHandler) PendingRequests(c *gin.Context) {
	reqs, err := h.Svc.PendingInstructorRequests(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	out := make([]gin.H, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, gin.H{
			"id":         r.ID,
			"user_id":    r.UserID,
			"status":     r.Status,
			"created_at": r.CreatedAt,
		})
	}
	response.Success(c, http.StatusOK, out, "pending instructor requests", gin.H{"count": len(out)})
}

func (h *AdminHandler) ApproveRequest(c *gin.Context) {
	if err := h.Svc.ApproveInstructorRequest(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"approved": true}, "instructor request approved", nil)
}

// ChangeRole overwrites an account's role. The new value wins regardless of
// the current role.
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ChangeRole(c.Request.Context(), c.Param("id"), req.Role); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"role": req.Role}, "role updated", nil)
}
