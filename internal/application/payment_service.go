package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/learnhub/learnhub-backend/internal/apperr"
	"github.com/learnhub/learnhub-backend/internal/domain/entity"
	repo "github.com/learnhub/learnhub-backend/internal/domain/repository"
	"github.com/learnhub/learnhub-backend/internal/infrastructure/razorpay"
)

// PaymentService implements the payment confirmation protocol: gateway
// order creation, signed-callback verification, and the idempotent grant
// that links an account to a course.
type PaymentService struct {
	Enrollments repo.EnrollmentRepository
	Courses     repo.CourseRepository
	Gateway     *razorpay.Client
	Secret      []byte
	Logger      *logrus.Logger
}

func NewPaymentService(enrollments repo.EnrollmentRepository, courses repo.CourseRepository, gateway *razorpay.Client, secret string, logger *logrus.Logger) *PaymentService {
	return &PaymentService{
		Enrollments: enrollments,
		Courses:     courses,
		Gateway:     gateway,
		Secret:      []byte(secret),
		Logger:      logger,
	}
}

// CreateOrder opens a gateway order for the given amount in minor units.
func (s *PaymentService) CreateOrder(ctx context.Context, amountMinor int64, currency string) (*razorpay.Order, error) {
	if amountMinor <= 0 {
		return nil, apperr.New(apperr.KindValidation, "amount must be positive")
	}
	if currency == "" {
		currency = "INR"
	}
	receipt := fmt.Sprintf("order_rcptid_%d", time.Now().UnixMilli())
	order, err := s.Gateway.CreateOrder(ctx, amountMinor, currency, receipt)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "payment initiation failed", err)
	}
	return order, nil
}

type ConfirmPaymentInput struct {
	UserID    string
	CourseID  string
	OrderID   string
	PaymentID string
	Signature string
}

// ConfirmPayment verifies the gateway's signed callback and, on a match,
// applies the access grant. Nothing is persisted on a signature mismatch.
// Replaying the same confirmation is safe: the grant is a set union.
func (s *PaymentService) ConfirmPayment(ctx context.Context, in ConfirmPaymentInput) error {
	if !razorpay.VerifySignature(in.OrderID, in.PaymentID, in.Signature, s.Secret) {
		return apperr.New(apperr.KindSignatureMismatch, "invalid payment signature")
	}
	if _, err := s.Courses.GetByID(ctx, in.CourseID); err != nil {
		return s.mapRepoErr(err)
	}
	if err := s.Enrollments.GrantAccess(ctx, in.UserID, in.CourseID); err != nil {
		return apperr.Wrap(apperr.KindInternal, "enrollment update failed", err)
	}
	return nil
}

type RecordPaymentInput struct {
	UserID          string
	CourseID        string
	OrderID         string
	PaymentID       string
	AmountPaidMinor int64
}

// RecordPayment writes the immutable ledger row (amount normalized from
// minor units) and applies the grant, atomically. (user, course, order) is
// the dedup key, so a retried confirmation produces no second row.
func (s *PaymentService) RecordPayment(ctx context.Context, in RecordPaymentInput) (*entity.EnrollmentRecord, error) {
	if in.AmountPaidMinor <= 0 {
		return nil, apperr.New(apperr.KindValidation, "amount must be positive")
	}
	if _, err := s.Courses.GetByID(ctx, in.CourseID); err != nil {
		return nil, s.mapRepoErr(err)
	}
	rec := &entity.EnrollmentRecord{
		UserID:     in.UserID,
		CourseID:   in.CourseID,
		OrderID:    in.OrderID,
		PaymentID:  in.PaymentID,
		AmountPaid: float64(in.AmountPaidMinor) / 100,
		Status:     entity.PaymentStatusSuccess,
	}
	if err := s.Enrollments.RecordPayment(ctx, rec); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "payment recording failed", err)
	}
	return rec, nil
}

// Ledger queries. Rows come back as persisted; callers needing a specific
// order sort on CreatedAt.

func (s *PaymentService) AllEnrollments(ctx context.Context) ([]*entity.LedgerEntry, error) {
	list, err := s.Enrollments.ListAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return list, nil
}

func (s *PaymentService) InstructorEnrollments(ctx context.Context, instructorID string) ([]*entity.LedgerEntry, error) {
	list, err := s.Enrollments.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return list, nil
}

func (s *PaymentService) CourseEnrollments(ctx context.Context, courseID string) ([]*entity.LedgerEntry, error) {
	if _, err := s.Courses.GetByID(ctx, courseID); err != nil {
		return nil, s.mapRepoErr(err)
	}
	list, err := s.Enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return list, nil
}

func (s *PaymentService) mapRepoErr(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.New(apperr.KindNotFound, "course not found")
	}
	return apperr.Internal(err)
}
