package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnhub/learnhub-backend/internal/domain/entity"
	"github.com/learnhub/learnhub-backend/internal/domain/repository"
)

type InstructorRequestRepository struct {
	pool *pgxpool.Pool
}

func NewInstructorRequestRepository(pool *pgxpool.Pool) *InstructorRequestRepository {
	return &InstructorRequestRepository{pool: pool}
}

func (r *InstructorRequestRepository) Create(ctx context.Context, req *entity.InstructorRequest) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO instructor_requests (user_id, status)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, req.UserID, req.Status)
	return row.Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

func (r *InstructorRequestRepository) GetByUser(ctx context.Context, userID string) (*entity.InstructorRequest, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `
		SELECT id, user_id, status, created_at, updated_at
		FROM instructor_requests
		WHERE user_id = $1
	`, userID))
}

func (r *InstructorRequestRepository) GetByID(ctx context.Context, id string) (*entity.InstructorRequest, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `
		SELECT id, user_id, status, created_at, updated_at
		FROM instructor_requests
		WHERE id = $1
	`, id))
}

func (r *InstructorRequestRepository) ListPending(ctx context.Context) ([]*entity.InstructorRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, status, created_at, updated_at
		FROM instructor_requests
		WHERE status = $1
		ORDER BY created_at
	`, entity.InstructorRequestPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.InstructorRequest
	for rows.Next() {
		req, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *InstructorRequestRepository) MarkApproved(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE instructor_requests
		SET status = $1, updated_at = now()
		WHERE id = $2
	`, entity.InstructorRequestApproved, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *InstructorRequestRepository) scanOne(row pgx.Row) (*entity.InstructorRequest, error) {
	req := &entity.InstructorRequest{}
	if err := row.Scan(&req.ID, &req.UserID, &req.Status, &req.CreatedAt, &req.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

var _ repository.InstructorRequestRepository = (*InstructorRequestRepository)(nil)
