package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/learnhub/learnhub-backend/internal/apperr"
	"github.com/learnhub/learnhub-backend/internal/domain/entity"
	repo "github.com/learnhub/learnhub-backend/internal/domain/repository"
	"github.com/learnhub/learnhub-backend/pkg/helpers"
)

// CourseService owns course and lecture management, reviews, and the
// search index.
type CourseService struct {
	Courses   repo.CourseRepository
	Accounts  repo.AccountRepository
	GCS       *storage.Client
	GCSBucket string
	ES        *elasticsearch.Client
	ESIndex   string
	Logger    *logrus.Logger
}

func NewCourseService(courses repo.CourseRepository, accounts repo.AccountRepository, gcs *storage.Client, gcsBucket string, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *CourseService {
	return &CourseService{
		Courses:   courses,
		Accounts:  accounts,
		GCS:       gcs,
		GCSBucket: gcsBucket,
		ES:        es,
		ESIndex:   esIndex,
		Logger:    logger,
	}
}

// Actor identifies who is performing a mutation, for ownership checks.
type Actor struct {
	ID   string
	Role entity.Role
}

func (a Actor) canManage(c *entity.Course) bool {
	return a.Role == entity.RoleAdmin || c.InstructorID == a.ID
}

type CourseInput struct {
	Title       string
	Description string
	Category    string
	PriceMinor  int64
	Currency    string
}

func (s *CourseService) CreateCourse(ctx context.Context, actor Actor, in CourseInput) (*entity.Course, error) {
	if _, err := s.Courses.GetByTitle(ctx, in.Title); err == nil {
		return nil, apperr.New(apperr.KindConflict, "a course with this title already exists")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, apperr.Internal(err)
	}
	if in.Currency == "" {
		in.Currency = "INR"
	}
	c := &entity.Course{
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		PriceMinor:   in.PriceMinor,
		Currency:     in.Currency,
		InstructorID: actor.ID,
	}
	if err := s.Courses.Create(ctx, c); err != nil {
		return nil, apperr.Internal(err)
	}
	_ = s.indexCourse(ctx, c)
	return c, nil
}

func (s *CourseService) GetCourse(ctx context.Context, id string) (*entity.Course, error) {
	c, err := s.Courses.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoErr(err, "course not found")
	}
	return c, nil
}

// CheckTitle reports whether a course with the exact title exists.
func (s *CourseService) CheckTitle(ctx context.Context, title string) (*entity.Course, error) {
	c, err := s.Courses.GetByTitle(ctx, title)
	if err != nil {
		return nil, s.mapRepoErr(err, "course not found")
	}
	return c, nil
}

func (s *CourseService) ListCourses(ctx context.Context) ([]*entity.Course, error) {
	list, err := s.Courses.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return list, nil
}

func (s *CourseService) InstructorCourses(ctx context.Context, instructorID string) ([]*entity.Course, error) {
	list, err := s.Courses.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return list, nil
}

func (s *CourseService) UpdateCourse(ctx context.Context, actor Actor, id string, in CourseInput) (*entity.Course, error) {
	c, err := s.Courses.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoErr(err, "course not found")
	}
	if !actor.canManage(c) {
		return nil, apperr.New(apperr.KindForbidden, "not the course owner")
	}
	if in.Title != "" {
		c.Title = in.Title
	}
	if in.Description != "" {
		c.Description = in.Description
	}
	if in.Category != "" {
		c.Category = in.Category
	}
	if in.PriceMinor > 0 {
		c.PriceMinor = in.PriceMinor
	}
	if in.Currency != "" {
		c.Currency = in.Currency
	}
	if err := s.Courses.Update(ctx, c); err != nil {
		return nil, s.mapRepoErr(err, "course not found")
	}
	_ = s.indexCourse(ctx, c)
	return c, nil
}

func (s *CourseService) DeleteCourse(ctx context.Context, actor Actor, id string) error {
	c, err := s.Courses.GetByID(ctx, id)
	if err != nil {
		return s.mapRepoErr(err, "course not found")
	}
	if !actor.canManage(c) {
		return apperr.New(apperr.KindForbidden, "not the course owner")
	}
	if err := s.Courses.Delete(ctx, id); err != nil {
		return s.mapRepoErr(err, "course not found")
	}
	s.deleteCourseDoc(ctx, id)
	return nil
}

// UploadCourseImage stores the cover image on the media host and saves the URL.
func (s *CourseService) UploadCourseImage(ctx context.Context, actor Actor, id string, r io.Reader, filename, contentType string) (string, error) {
	c, err := s.Courses.GetByID(ctx, id)
	if err != nil {
		return "", s.mapRepoErr(err, "course not found")
	}
	if !actor.canManage(c) {
		return "", apperr.New(apperr.KindForbidden, "not the course owner")
	}
	url, err := s.upload(ctx, filepath.Join("courses", id), filename, contentType, r)
	if err != nil {
		return "", err
	}
	c.ImageURL = url
	if err := s.Courses.Update(ctx, c); err != nil {
		return "", s.mapRepoErr(err, "course not found")
	}
	return url, nil
}

type LectureInput struct {
	CourseID      string
	Title         string
	IsPreviewFree bool
	Video         io.Reader
	Filename      string
	ContentType   string
}

// AddLecture uploads the video to the media host and attaches the lecture
// to the course.
func (s *CourseService) AddLecture(ctx context.Context, actor Actor, in LectureInput) (*entity.Lecture, error) {
	c, err := s.Courses.GetByID(ctx, in.CourseID)
	if err != nil {
		return nil, s.mapRepoErr(err, "course not found")
	}
	if !actor.canManage(c) {
		return nil, apperr.New(apperr.KindForbidden, "not the course owner")
	}
	if in.Video == nil {
		return nil, apperr.New(apperr.KindValidation, "lecture video is required")
	}
	url, err := s.upload(ctx, filepath.Join("courses", c.ID, "lectures"), in.Filename, in.ContentType, in.Video)
	if err != nil {
		return nil, err
	}
	l := &entity.Lecture{
		CourseID:      c.ID,
		Title:         in.Title,
		VideoURL:      url,
		IsPreviewFree: in.IsPreviewFree,
	}
	if err := s.Courses.CreateLecture(ctx, l); err != nil {
		return nil, apperr.Internal(err)
	}
	return l, nil
}

// UpdateLecture changes the title and preview flag; a new video, when
// provided, replaces the stored one.
func (s *CourseService) UpdateLecture(ctx context.Context, actor Actor, lectureID string, in LectureInput) (*entity.Lecture, error) {
	l, err := s.Courses.GetLecture(ctx, lectureID)
	if err != nil {
		return nil, s.mapRepoErr(err, "lecture not found")
	}
	c, err := s.Courses.GetByID(ctx, l.CourseID)
	if err != nil {
		return nil, s.mapRepoErr(err, "course not found")
	}
	if !actor.canManage(c) {
		return nil, apperr.New(apperr.KindForbidden, "not the course owner")
	}
	if in.Title != "" {
		l.Title = in.Title
	}
	l.IsPreviewFree = in.IsPreviewFree
	if in.Video != nil {
		url, err := s.upload(ctx, filepath.Join("courses", c.ID, "lectures"), in.Filename, in.ContentType, in.Video)
		if err != nil {
			return nil, err
		}
		s.deleteObjectForURL(ctx, l.VideoURL)
		l.VideoURL = url
	}
	if err := s.Courses.UpdateLecture(ctx, l); err != nil {
		return nil, s.mapRepoErr(err, "lecture not found")
	}
	return l, nil
}

func (s *CourseService) DeleteLecture(ctx context.Context, actor Actor, lectureID string) error {
	l, err := s.Courses.GetLecture(ctx, lectureID)
	if err != nil {
		return s.mapRepoErr(err, "lecture not found")
	}
	c, err := s.Courses.GetByID(ctx, l.CourseID)
	if err != nil {
		return s.mapRepoErr(err, "course not found")
	}
	if !actor.canManage(c) {
		return apperr.New(apperr.KindForbidden, "not the course owner")
	}
	if err := s.Courses.DeleteLecture(ctx, lectureID); err != nil {
		return s.mapRepoErr(err, "lecture not found")
	}
	s.deleteObjectForURL(ctx, l.VideoURL)
	return nil
}

// CourseLectures returns all lectures for enrolled students, the owning
// instructor, and admins; everyone else sees only preview-free lectures.
func (s *CourseService) CourseLectures(ctx context.Context, actor Actor, courseID string) ([]*entity.Lecture, error) {
	c, err := s.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, s.mapRepoErr(err, "course not found")
	}
	lectures, err := s.Courses.ListLectures(ctx, courseID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if actor.canManage(c) {
		return lectures, nil
	}
	enrolled, err := s.Accounts.IsEnrolled(ctx, actor.ID, courseID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if enrolled {
		return lectures, nil
	}
	preview := lectures[:0]
	for _, l := range lectures {
		if l.IsPreviewFree {
			preview = append(preview, l)
		}
	}
	return preview, nil
}

// CourseStudents lists the accounts enrolled in a course. Only the owning
// instructor or an admin may see the roster.
func (s *CourseService) CourseStudents(ctx context.Context, actor Actor, courseID string) ([]*entity.Account, error) {
	c, err := s.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, s.mapRepoErr(err, "course not found")
	}
	if !actor.canManage(c) {
		return nil, apperr.New(apperr.KindForbidden, "not the course owner")
	}
	ids, err := s.Courses.EnrolledStudentIDs(ctx, courseID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	students := make([]*entity.Account, 0, len(ids))
	for _, id := range ids {
		a, err := s.Accounts.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				continue
			}
			return nil, apperr.Internal(err)
		}
		students = append(students, a)
	}
	return students, nil
}

func (s *CourseService) IsEnrolled(ctx context.Context, userID, courseID string) (bool, error) {
	enrolled, err := s.Accounts.IsEnrolled(ctx, userID, courseID)
	if err != nil {
		return false, apperr.Internal(err)
	}
	return enrolled, nil
}

func (s *CourseService) PostReview(ctx context.Context, userID, courseID string, rating int, comment string) (*entity.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.New(apperr.KindValidation, "rating must be between 1 and 5")
	}
	if _, err := s.Courses.GetByID(ctx, courseID); err != nil {
		return nil, s.mapRepoErr(err, "course not found")
	}
	rev := &entity.Review{CourseID: courseID, UserID: userID, Rating: rating, Comment: comment}
	if err := s.Courses.CreateReview(ctx, rev); err != nil {
		return nil, apperr.Internal(err)
	}
	return rev, nil
}

func (s *CourseService) ListReviews(ctx context.Context, courseID string) ([]*entity.Review, error) {
	list, err := s.Courses.ListReviews(ctx, courseID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return list, nil
}

func (s *CourseService) DeleteReview(ctx context.Context, reviewID string) error {
	if err := s.Courses.DeleteReview(ctx, reviewID); err != nil {
		return s.mapRepoErr(err, "review not found")
	}
	return nil
}

// SearchCourses performs a multi_match query on title, description, and
// category. With no search backend configured it degrades to empty results.
func (s *CourseService) SearchCourses(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "description", "category"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "search failed", err)
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "search failed", err)
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *CourseService) indexCourse(ctx context.Context, c *entity.Course) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":            c.ID,
		"title":         c.Title,
		"description":   c.Description,
		"category":      c.Category,
		"price_minor":   c.PriceMinor,
		"currency":      c.Currency,
		"instructor_id": c.InstructorID,
		"created_at":    c.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: c.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	cc, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(cc, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("course_id", c.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("course_id", c.ID).Warn("es index response error")
	}
	return nil
}

func (s *CourseService) deleteCourseDoc(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	cc, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(cc, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("course_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

func (s *CourseService) upload(ctx context.Context, dir, filename, contentType string, r io.Reader) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", apperr.New(apperr.KindInternal, "media storage not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join(dir, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "media upload failed", err)
	}
	return url, nil
}

// deleteObjectForURL best-effort removes a previously uploaded object.
func (s *CourseService) deleteObjectForURL(ctx context.Context, url string) {
	if s.GCS == nil || s.GCSBucket == "" || url == "" {
		return
	}
	prefix := helpers.PublicURL(s.GCSBucket, "")
	if !strings.HasPrefix(url, prefix) {
		return
	}
	objectPath := strings.TrimPrefix(url, prefix)
	if err := helpers.DeleteObject(ctx, s.GCS, s.GCSBucket, objectPath); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("object", objectPath).Warn("media delete failed")
	}
}

func (s *CourseService) mapRepoErr(err error, notFoundMsg string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.New(apperr.KindNotFound, notFoundMsg)
	}
	return apperr.Internal(err)
}
