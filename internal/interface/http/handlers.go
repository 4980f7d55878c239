package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/learnhub/learnhub-backend/internal/apperr"
	"github.com/learnhub/learnhub-backend/internal/application"
	"github.com/learnhub/learnhub-backend/internal/domain/entity"
	"github.com/learnhub/learnhub-backend/pkg/response"
)

// fail renders a business error through the shared envelope. The status and
// client message come from the error kind, never from the underlying cause;
// internal causes are logged here so they are not lost.
func fail(c *gin.Context, log *logrus.Logger, err error) {
	if log != nil && apperr.KindOf(err) == apperr.KindInternal {
		log.WithError(err).WithFields(logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		}).Error("request failed")
	}
	response.Error[any](c, apperr.HTTPStatus(err), apperr.MessageOf(err), nil)
}

func actorFrom(c *gin.Context) application.Actor {
	return application.Actor{
		ID:   c.GetString("userID"),
		Role: entity.Role(c.GetString("userRole")),
	}
}

func accountView(a *entity.Account) gin.H {
	return gin.H{
		"id":          a.ID,
		"email":       a.Email,
		"name":        a.Name,
		"avatar_url":  a.AvatarURL,
		"role":        a.Role,
		"is_verified": a.IsVerified,
		"created_at":  a.CreatedAt,
		"updated_at":  a.UpdatedAt,
	}
}

func courseView(c *entity.Course) gin.H {
	return gin.H{
		"id":            c.ID,
		"title":         c.Title,
		"description":   c.Description,
		"category":      c.Category,
		"price_minor":   c.PriceMinor,
		"currency":      c.Currency,
		"image_url":     c.ImageURL,
		"instructor_id": c.InstructorID,
		"created_at":    c.CreatedAt,
		"updated_at":    c.UpdatedAt,
	}
}

func courseViews(list []*entity.Course) []gin.H {
	out := make([]gin.H, 0, len(list))
	for _, c := range list {
		out = append(out, courseView(c))
	}
	return out
}

func lectureView(l *entity.Lecture) gin.H {
	return gin.H{
		"id":              l.ID,
		"course_id":       l.CourseID,
		"title":           l.Title,
		"video_url":       l.VideoURL,
		"is_preview_free": l.IsPreviewFree,
		"created_at":      l.CreatedAt,
	}
}
