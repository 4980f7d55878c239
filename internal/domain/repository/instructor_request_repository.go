package repository

import (
	"context"

	"github.com/learnhub/learnhub-backend/internal/domain/entity"
)

// InstructorRequestRepository persists instructor-access requests.
type InstructorRequestRepository interface {
	Create(ctx context.Context, r *entity.InstructorRequest) error
	GetByUser(ctx context.Context, userID string) (*entity.InstructorRequest, error)
	GetByID(ctx context.Context, id string) (*entity.InstructorRequest, error)
	ListPending(ctx context.Context) ([]*entity.InstructorRequest, error)
	MarkApproved(ctx context.Context, id string) error
}
