package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/learnhub/learnhub-backend/internal/application"
	"github.com/learnhub/learnhub-backend/pkg/response"
	"github.com/learnhub/learnhub-backend/pkg/validation"
)

// UserHandler exposes the authenticated account surface: profile, avatar,
// enrolled and saved courses, and instructor access requests.
type UserHandler struct {
	Svc    *application.AccountService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.AccountService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	Name        string `json:"name"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	a, err := h.Svc.GetProfile(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, accountView(a), "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, err := h.Svc.UpdateProfile(c.Request.Context(), c.GetString("userID"), application.UpdateProfileInput{
		Name:        req.Name,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, accountView(a), "profile updated", nil)
}

func (h *UserHandler) UploadAvatar(c *gin.Context) {
	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	defer func() { _ = file.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), c.GetString("userID"), file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"avatar_url": url}, "avatar updated", nil)
}

func (h *UserHandler) MyCourses(c *gin.Context) {
	courses, err := h.Svc.MyCourses(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, courseViews(courses), "enrolled courses", gin.H{"count": len(courses)})
}

func (h *UserHandler) SavedCourses(c *gin.Context) {
	courses, err := h.Svc.SavedCourses(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, courseViews(courses), "saved courses", gin.H{"count": len(courses)})
}

func (h *UserHandler) ToggleSavedCourse(c *gin.Context) {
	courseID := c.Param("id")
	saved, err := h.Svc.ToggleSavedCourse(c.Request.Context(), c.GetString("userID"), courseID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	msg := "course removed from saved"
	if saved {
		msg = "course saved"
	}
	response.Success[any](c, http.StatusOK, gin.H{"saved": saved}, msg, nil)
}

func (h *UserHandler) RequestInstructorAccess(c *gin.Context) {
	req, err := h.Svc.RequestInstructorAccess(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusCreated, gin.H{"id": req.ID, "status": req.Status}, "instructor access requested", nil)
}
