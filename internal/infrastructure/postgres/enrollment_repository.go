package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnhub/learnhub-backend/internal/domain/entity"
	"github.com/learnhub/learnhub-backend/internal/domain/repository"
)

type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// GrantAccess inserts the membership with add-if-absent semantics. The
// single join row represents both the account's enrolled set and the
// course's enrolled set, so the two directions cannot drift apart.
func (r *EnrollmentRepository) GrantAccess(ctx context.Context, userID, courseID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO course_enrollments (user_id, course_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, course_id) DO NOTHING
	`, userID, courseID)
	return err
}

// RecordPayment writes the ledger row and the access grant in one
// transaction. The unique key on (user_id, course_id, order_id) makes a
// replayed confirmation a no-op; the membership insert is idempotent on its
// own, so concurrent duplicate webhook deliveries are safe.
func (r *EnrollmentRepository) RecordPayment(ctx context.Context, rec *entity.EnrollmentRecord) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO payments (user_id, course_id, order_id, payment_id, amount_paid, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id, course_id, order_id) DO NOTHING
			RETURNING id, created_at
		`, rec.UserID, rec.CourseID, rec.OrderID, rec.PaymentID, rec.AmountPaid, rec.Status)
		if err := row.Scan(&rec.ID, &rec.CreatedAt); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO course_enrollments (user_id, course_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, course_id) DO NOTHING
		`, rec.UserID, rec.CourseID)
		return err
	})
}

const ledgerSelect = `
	SELECT p.id, u.name, u.email, c.title, p.order_id, p.amount_paid, p.created_at
	FROM payments p
	JOIN users u ON u.id = p.user_id
	JOIN courses c ON c.id = p.course_id
`

func (r *EnrollmentRepository) ListAll(ctx context.Context) ([]*entity.LedgerEntry, error) {
	return r.queryLedger(ctx, ledgerSelect+` ORDER BY p.created_at DESC`)
}

func (r *EnrollmentRepository) ListByInstructor(ctx context.Context, instructorID string) ([]*entity.LedgerEntry, error) {
	return r.queryLedger(ctx, ledgerSelect+` WHERE c.instructor_id = $1 ORDER BY p.created_at DESC`, instructorID)
}

func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID string) ([]*entity.LedgerEntry, error) {
	return r.queryLedger(ctx, ledgerSelect+` WHERE p.course_id = $1 ORDER BY p.created_at DESC`, courseID)
}

func (r *EnrollmentRepository) queryLedger(ctx context.Context, query string, args ...any) ([]*entity.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.LedgerEntry
	for rows.Next() {
		e := &entity.LedgerEntry{}
		if err := rows.Scan(&e.ID, &e.StudentName, &e.StudentEmail, &e.CourseTitle, &e.OrderID, &e.AmountPaid, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

var _ repository.EnrollmentRepository = (*EnrollmentRepository)(nil)
