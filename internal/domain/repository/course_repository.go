package repository

import (
	"context"

	"github.com/learnhub/learnhub-backend/internal/domain/entity"
)

// CourseRepository defines persistence for courses and their lectures.
type CourseRepository interface {
	Create(ctx context.Context, c *entity.Course) error
	GetByID(ctx context.Context, id string) (*entity.Course, error)
	GetByTitle(ctx context.Context, title string) (*entity.Course, error)
	List(ctx context.Context) ([]*entity.Course, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]*entity.Course, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Course, error)
	Update(ctx context.Context, c *entity.Course) error
	Delete(ctx context.Context, id string) error

	EnrolledStudentIDs(ctx context.Context, courseID string) ([]string, error)

	CreateLecture(ctx context.Context, l *entity.Lecture) error
	GetLecture(ctx context.Context, id string) (*entity.Lecture, error)
	UpdateLecture(ctx context.Context, l *entity.Lecture) error
	DeleteLecture(ctx context.Context, id string) error
	ListLectures(ctx context.Context, courseID string) ([]*entity.Lecture, error)

	CreateReview(ctx context.Context, r *entity.Review) error
	ListReviews(ctx context.Context, courseID string) ([]*entity.Review, error)
	DeleteReview(ctx context.Context, id string) error
}
