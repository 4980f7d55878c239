package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/learnhub/learnhub-backend/internal/application"
	"github.com/learnhub/learnhub-backend/pkg/response"
	"github.com/learnhub/learnhub-backend/pkg/validation"
)

// CourseHandler exposes course CRUD, search, lectures, and reviews.
type CourseHandler struct {
	Svc    *application.CourseService
	Logger *logrus.Logger
}

func NewCourseHandler(svc *application.CourseService, logger *logrus.Logger) *CourseHandler {
	return &CourseHandler{Svc: svc, Logger: logger}
}

type courseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"required"`
	PriceMinor  int64  `json:"price_minor" binding:"required,gt=0"`
	Currency    string `json:"currency"`
}

type courseUpdateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PriceMinor  int64  `json:"price_minor"`
	Currency    string `json:"currency"`
}

type reviewRequest struct {
	Rating  int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	course, err := h.Svc.CreateCourse(c.Request.Context(), actorFrom(c), application.CourseInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		PriceMinor:  req.PriceMinor,
		Currency:    req.Currency,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, courseView(course), "course created", nil)
}

func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.Svc.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, courseView(course), "course", nil)
}

func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.Svc.ListCourses(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, courseViews(courses), "courses", gin.H{"count": len(courses)})
}

func (h *CourseHandler) Mine(c *gin.Context) {
	courses, err := h.Svc.InstructorCourses(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, courseViews(courses), "instructor courses", gin.H{"count": len(courses)})
}

// CheckTitle answers whether an exact title is already taken, so the
// authoring UI can warn before submit.
func (h *CourseHandler) CheckTitle(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		response.Error[any](c, http.StatusBadRequest, "title query parameter is required", nil)
		return
	}
	if _, err := h.Svc.CheckTitle(c.Request.Context(), title); err != nil {
		response.Success[any](c, http.StatusOK, gin.H{"exists": false}, "title available", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"exists": true}, "title taken", nil)
}

func (h *CourseHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "q query parameter is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchCourses(c.Request.Context(), q, size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}

func (h *CourseHandler) Update(c *gin.Context) {
	var req courseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	course, err := h.Svc.UpdateCourse(c.Request.Context(), actorFrom(c), c.Param("id"), application.CourseInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		PriceMinor:  req.PriceMinor,
		Currency:    req.Currency,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, courseView(course), "course updated", nil)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteCourse(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "course deleted", nil)
}

func (h *CourseHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "image file is required", nil)
		return
	}
	defer func() { _ = file.Close() }()

	url, err := h.Svc.UploadCourseImage(c.Request.Context(), actorFrom(c), c.Param("id"), file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"image_url": url}, "course image updated", nil)
}

// AddLecture accepts multipart form data: title, is_preview_free, video.
func (h *CourseHandler) AddLecture(c *gin.Context) {
	title := c.PostForm("title")
	if title == "" {
		response.Error[any](c, http.StatusBadRequest, "title is required", nil)
		return
	}
	preview, _ := strconv.ParseBool(c.DefaultPostForm("is_preview_free", "false"))

	file, header, err := c.Request.FormFile("video")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "video file is required", nil)
		return
	}
	defer func() { _ = file.Close() }()

	lecture, err := h.Svc.AddLecture(c.Request.Context(), actorFrom(c), application.LectureInput{
		CourseID:      c.Param("id"),
		Title:         title,
		IsPreviewFree: preview,
		Video:         file,
		Filename:      header.Filename,
		ContentType:   header.Header.Get("Content-Type"),
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, lectureView(lecture), "lecture added", nil)
}

func (h *CourseHandler) UpdateLecture(c *gin.Context) {
	in := application.LectureInput{Title: c.PostForm("title")}
	in.IsPreviewFree, _ = strconv.ParseBool(c.DefaultPostForm("is_preview_free", "false"))

	if file, header, err := c.Request.FormFile("video"); err == nil {
		defer func() { _ = file.Close() }()
		in.Video = file
		in.Filename = header.Filename
		in.ContentType = header.Header.Get("Content-Type")
	}

	lecture, err := h.Svc.UpdateLecture(c.Request.Context(), actorFrom(c), c.Param("lectureId"), in)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, lectureView(lecture), "lecture updated", nil)
}

func (h *CourseHandler) DeleteLecture(c *gin.Context) {
	if err := h.Svc.DeleteLecture(c.Request.Context(), actorFrom(c), c.Param("lectureId")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "lecture deleted", nil)
}

func (h *CourseHandler) Lectures(c *gin.Context) {
	lectures, err := h.Svc.CourseLectures(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	out := make([]gin.H, 0, len(lectures))
	for _, l := range lectures {
		out = append(out, lectureView(l))
	}
	response.Success(c, http.StatusOK, out, "lectures", gin.H{"count": len(out)})
}

// Students returns the enrollment roster for the course owner or an admin.
func (h *CourseHandler) Students(c *gin.Context) {
	students, err := h.Svc.CourseStudents(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	out := make([]gin.H, 0, len(students))
	for _, a := range students {
		out = append(out, gin.H{"id": a.ID, "name": a.Name, "email": a.Email})
	}
	response.Success(c, http.StatusOK, out, "enrolled students", gin.H{"count": len(out)})
}

func (h *CourseHandler) PostReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	rev, err := h.Svc.PostReview(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusCreated, gin.H{
		"id":      rev.ID,
		"rating":  rev.Rating,
		"comment": rev.Comment,
	}, "review posted", nil)
}

func (h *CourseHandler) ListReviews(c *gin.Context) {
	reviews, err := h.Svc.ListReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	out := make([]gin.H, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, gin.H{
			"id":         r.ID,
			"user_id":    r.UserID,
			"rating":     r.Rating,
			"comment":    r.Comment,
			"created_at": r.CreatedAt,
		})
	}
	response.Success(c, http.StatusOK, out, "reviews", gin.H{"count": len(out)})
}

func (h *CourseHandler) DeleteReview(c *gin.Context) {
	if err := h.Svc.DeleteReview(c.Request.Context(), c.Param("reviewId")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "review deleted", nil)
}
