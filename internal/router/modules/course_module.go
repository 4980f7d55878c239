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

// CourseModule wires the course catalog, search, lectures, and reviews.
// Browsing and search are public; authoring requires the instructor or
// admin role.
type CourseModule struct {
	Handler *handlers.CourseHandler
	JWT     *helpers.JWTManager
}

func NewCourseModule(h *handlers.CourseHandler, jwt *helpers.JWTManager) *CourseModule {
	return &CourseModule{Handler: h, JWT: jwt}
}

func (m *CourseModule) Register(rg *gin.RouterGroup) {
	browseLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	searchLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.GET("/courses", browseLimiter, m.Handler.List)
	rg.GET("/courses/search", searchLimiter, m.Handler.Search)
	rg.GET("/courses/check-title", browseLimiter, m.Handler.CheckTitle)
	rg.GET("/courses/:id", browseLimiter, m.Handler.Get)
	rg.GET("/courses/:id/reviews", browseLimiter, m.Handler.ListReviews)

	// Authenticated: lecture visibility depends on enrollment, reviews on identity
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/courses/:id/lectures", m.Handler.Lectures)
		auth.POST("/courses/:id/reviews", m.Handler.PostReview)
	}

	// Authoring: instructor or admin only
	authoring := rg.Group("/")
	authoring.Use(middleware.Auth(m.JWT))
	authoring.Use(middleware.RequireRole(entity.RoleInstructor.String(), entity.RoleAdmin.String()))
	authoring.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		authoring.POST("/courses", m.Handler.Create)
		authoring.GET("/courses/mine/list", m.Handler.Mine)
		authoring.PUT("/courses/:id", m.Handler.Update)
		authoring.DELETE("/courses/:id", m.Handler.Delete)
		authoring.POST("/courses/:id/image", m.Handler.UploadImage)

		authoring.GET("/courses/:id/students", m.Handler.Students)

		authoring.POST("/courses/:id/lectures", m.Handler.AddLecture)
		authoring.PUT("/lectures/:lectureId", m.Handler.UpdateLecture)
		authoring.DELETE("/lectures/:lectureId", m.Handler.DeleteLecture)
	}
}
