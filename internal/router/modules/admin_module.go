package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/learnhub/learnhub-backend/internal/container"
	"github.com/learnhub/learnhub-backend/internal/domain/entity"
	handlers "github.com/learnhub/learnhub-backend/internal/interface/http"
	"github.com/learnhub/learnhub-backend/internal/interface/middleware"
	"github.com/learnhub/learnhub-backend/pkg/helpers"
)

// AdminModule wires role management and instructor request moderation.
type AdminModule struct {
	Handler *handlers.AdminHandler
	JWT     *helpers.JWTManager
}

func NewAdminModule(h *handlers.AdminHandler, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Handler: h, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	rg.GET("/instructors", m.Handler.ListInstructors)

	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(m.JWT))
	admin.Use(middleware.RequireRole(entity.RoleAdmin.String()))
	admin.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		admin.GET("/instructor-requests", m.Handler.PendingRequests)
		admin.POST("/instructor-requests/:id/approve", m.Handler.ApproveRequest)
		admin.PUT("/users/:id/role", m.Handler.ChangeRole)
	}
}
