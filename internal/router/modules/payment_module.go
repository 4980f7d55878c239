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

// PaymentModule wires order creation, payment confirmation, and the
// enrollment ledger views.
type PaymentModule struct {
	Handler *handlers.PaymentHandler
	JWT     *helpers.JWTManager
}

func NewPaymentModule(h *handlers.PaymentHandler, jwt *helpers.JWTManager) *PaymentModule {
	return &PaymentModule{Handler: h, JWT: jwt}
}

func (m *PaymentModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/payments/orders", m.Handler.CreateOrder)
		auth.POST("/payments/confirm", m.Handler.Confirm)
	}

	instructor := rg.Group("/")
	instructor.Use(middleware.Auth(m.JWT))
	instructor.Use(middleware.RequireRole(entity.RoleInstructor.String(), entity.RoleAdmin.String()))
	{
		instructor.GET("/enrollments/mine", m.Handler.MyEnrollments)
		instructor.GET("/courses/:id/enrollments", m.Handler.CourseEnrollments)
	}

	admin := rg.Group("/")
	admin.Use(middleware.Auth(m.JWT))
	admin.Use(middleware.RequireRole(entity.RoleAdmin.String()))
	{
		admin.GET("/enrollments", m.Handler.AllEnrollments)
	}
}
