package repository

import (
	"context"

	"github.com/learnhub/learnhub-backend/internal/domain/entity"
)

// EnrollmentRepository owns the payment ledger and the account<->course
// access grants. GrantAccess and RecordPayment are idempotent: replaying a
// confirmed payment must not duplicate ledger rows or memberships.
type EnrollmentRepository interface {
	// GrantAccess adds the account to the course's enrolled set and the
	// course to the account's enrolled set with add-if-absent semantics.
	GrantAccess(ctx context.Context, userID, courseID string) error

	// RecordPayment writes the ledger row and applies the access grant in
	// one transaction. A record with the same (user, course, order) key is
	// a no-op beyond the first.
	RecordPayment(ctx context.Context, rec *entity.EnrollmentRecord) error

	ListAll(ctx context.Context) ([]*entity.LedgerEntry, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]*entity.LedgerEntry, error)
	ListByCourse(ctx context.Context, courseID string) ([]*entity.LedgerEntry, error)
}
