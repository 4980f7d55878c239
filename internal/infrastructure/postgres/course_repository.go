package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnhub/learnhub-backend/internal/domain/entity"
	"github.com/learnhub/learnhub-backend/internal/domain/repository"
)

type CourseRepository struct {
	pool *pgxpool.Pool
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

const courseColumns = `id, title, description, category, price_minor, currency, image_url, instructor_id, created_at, updated_at`

func scanCourse(row pgx.Row) (*entity.Course, error) {
	c := &entity.Course{}
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Category, &c.PriceMinor,
		&c.Currency, &c.ImageURL, &c.InstructorID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CourseRepository) queryCourses(ctx context.Context, query string, args ...any) ([]*entity.Course, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CourseRepository) Create(ctx context.Context, c *entity.Course) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO courses (title, description, category, price_minor, currency, image_url, instructor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, c.Title, c.Description, c.Category, c.PriceMinor, c.Currency, c.ImageURL, c.InstructorID)
	return row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	return scanCourse(r.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
}

func (r *CourseRepository) GetByTitle(ctx context.Context, title string) (*entity.Course, error) {
	return scanCourse(r.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE title = $1`, title))
}

func (r *CourseRepository) List(ctx context.Context) ([]*entity.Course, error) {
	return r.queryCourses(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY created_at DESC`)
}

func (r *CourseRepository) ListByInstructor(ctx context.Context, instructorID string) ([]*entity.Course, error) {
	return r.queryCourses(ctx, `SELECT `+courseColumns+` FROM courses WHERE instructor_id = $1 ORDER BY created_at DESC`, instructorID)
}

func (r *CourseRepository) ListByIDs(ctx context.Context, ids []string) ([]*entity.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.queryCourses(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = ANY($1) ORDER BY created_at DESC`, ids)
}

func (r *CourseRepository) Update(ctx context.Context, c *entity.Course) error {
	c.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE courses
		SET title = $1, description = $2, category = $3, price_minor = $4, currency = $5, image_url = $6, updated_at = $7
		WHERE id = $8
	`, c.Title, c.Description, c.Category, c.PriceMinor, c.Currency, c.ImageURL, c.UpdatedAt, c.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CourseRepository) EnrolledStudentIDs(ctx context.Context, courseID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id FROM course_enrollments WHERE course_id = $1 ORDER BY created_at
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *CourseRepository) CreateLecture(ctx context.Context, l *entity.Lecture) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO lectures (course_id, title, video_url, is_preview_free)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, l.CourseID, l.Title, l.VideoURL, l.IsPreviewFree)
	return row.Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (r *CourseRepository) GetLecture(ctx context.Context, id string) (*entity.Lecture, error) {
	l := &entity.Lecture{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, course_id, title, video_url, is_preview_free, created_at, updated_at
		FROM lectures
		WHERE id = $1
	`, id).Scan(&l.ID, &l.CourseID, &l.Title, &l.VideoURL, &l.IsPreviewFree, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *CourseRepository) UpdateLecture(ctx context.Context, l *entity.Lecture) error {
	l.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE lectures
		SET title = $1, video_url = $2, is_preview_free = $3, updated_at = $4
		WHERE id = $5
	`, l.Title, l.VideoURL, l.IsPreviewFree, l.UpdatedAt, l.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CourseRepository) DeleteLecture(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM lectures WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CourseRepository) ListLectures(ctx context.Context, courseID string) ([]*entity.Lecture, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, course_id, title, video_url, is_preview_free, created_at, updated_at
		FROM lectures
		WHERE course_id = $1
		ORDER BY created_at
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Lecture
	for rows.Next() {
		l := &entity.Lecture{}
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Title, &l.VideoURL, &l.IsPreviewFree, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *CourseRepository) CreateReview(ctx context.Context, rev *entity.Review) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO reviews (course_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, rev.CourseID, rev.UserID, rev.Rating, rev.Comment)
	return row.Scan(&rev.ID, &rev.CreatedAt)
}

func (r *CourseRepository) ListReviews(ctx context.Context, courseID string) ([]*entity.Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, course_id, user_id, rating, comment, created_at
		FROM reviews
		WHERE course_id = $1
		ORDER BY created_at DESC
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Review
	for rows.Next() {
		rev := &entity.Review{}
		if err := rows.Scan(&rev.ID, &rev.CourseID, &rev.UserID, &rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

func (r *CourseRepository) DeleteReview(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.CourseRepository = (*CourseRepository)(nil)
