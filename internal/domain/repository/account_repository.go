package repository

import (
	"context"
	"time"

	"github.com/learnhub/learnhub-backend/internal/domain/entity"
)

// AccountRepository defines persistence for accounts and the two
// course-reference sets hanging off them (enrolled, saved).
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	Update(ctx context.Context, a *entity.Account) error

	// ReissueCode overwrites the pending registration code and its expiry;
	// the previous code is implicitly invalidated.
	ReissueCode(ctx context.Context, id, code string, expiresAt time.Time) error

	// MarkVerified flips is_verified and clears the code and expiry in a
	// single statement. Verification is a one-shot transition.
	MarkVerified(ctx context.Context, id string) error

	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateRole(ctx context.Context, id string, role entity.Role) error
	ListByRole(ctx context.Context, role entity.Role) ([]*entity.Account, error)

	EnrolledCourseIDs(ctx context.Context, userID string) ([]string, error)
	IsEnrolled(ctx context.Context, userID, courseID string) (bool, error)

	SavedCourseIDs(ctx context.Context, userID string) ([]string, error)
	SaveCourse(ctx context.Context, userID, courseID string) error
	UnsaveCourse(ctx context.Context, userID, courseID string) error
	IsSaved(ctx context.Context, userID, courseID string) (bool, error)
}
