package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/learnhub-backend/internal/apperr"
	"github.com/learnhub/learnhub-backend/internal/domain/entity"
	"github.com/learnhub/learnhub-backend/internal/infrastructure/razorpay"
)

type fakeEnrollmentRepo struct {
	grants  map[string]bool // userID|courseID
	records map[string]*entity.EnrollmentRecord
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{
		grants:  map[string]bool{},
		records: map[string]*entity.EnrollmentRecord{},
	}
}

func (f *fakeEnrollmentRepo) GrantAccess(_ context.Context, userID, courseID string) error {
	f.grants[userID+"|"+courseID] = true
	return nil
}

func (f *fakeEnrollmentRepo) RecordPayment(_ context.Context, rec *entity.EnrollmentRecord) error {
	key := rec.UserID + "|" + rec.CourseID + "|" + rec.OrderID
	if _, ok := f.records[key]; !ok {
		f.records[key] = rec
	}
	f.grants[rec.UserID+"|"+rec.CourseID] = true
	return nil
}

func (f *fakeEnrollmentRepo) ListAll(context.Context) ([]*entity.LedgerEntry, error) {
	return nil, nil
}
func (f *fakeEnrollmentRepo) ListByInstructor(context.Context, string) ([]*entity.LedgerEntry, error) {
	return nil, nil
}
func (f *fakeEnrollmentRepo) ListByCourse(context.Context, string) ([]*entity.LedgerEntry, error) {
	return nil, nil
}

const paymentSecret = "testsecret"

func newPaymentFixture(t *testing.T) (*PaymentService, *fakeEnrollmentRepo, *fakeCourseRepo) {
	t.Helper()
	enrollments := newFakeEnrollmentRepo()
	courses := newFakeCourseRepo()
	courses.add(&entity.Course{ID: "go-101", Title: "Go 101", PriceMinor: 5000, Currency: "INR", InstructorID: "inst-1"})
	svc := NewPaymentService(enrollments, courses, nil, paymentSecret, nil)
	return svc, enrollments, courses
}

func signedConfirmInput() ConfirmPaymentInput {
	in := ConfirmPaymentInput{
		UserID:    "user-1",
		CourseID:  "go-101",
		OrderID:   "order_abc",
		PaymentID: "pay_xyz",
	}
	in.Signature = razorpay.Signature(in.OrderID, in.PaymentID, []byte(paymentSecret))
	return in
}

func TestConfirmPaymentGrantsAccess(t *testing.T) {
	svc, enrollments, _ := newPaymentFixture(t)

	require.NoError(t, svc.ConfirmPayment(context.Background(), signedConfirmInput()))
	assert.True(t, enrollments.grants["user-1|go-101"])
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	svc, enrollments, _ := newPaymentFixture(t)
	ctx := context.Background()

	in := signedConfirmInput()
	require.NoError(t, svc.ConfirmPayment(ctx, in))
	require.NoError(t, svc.ConfirmPayment(ctx, in))
	assert.Len(t, enrollments.grants, 1)
}

func TestConfirmPaymentRejectsBadSignature(t *testing.T) {
	svc, enrollments, _ := newPaymentFixture(t)

	in := signedConfirmInput()
	in.Signature = "deadbeef"
	err := svc.ConfirmPayment(context.Background(), in)
	assert.True(t, apperr.IsKind(err, apperr.KindSignatureMismatch))
	assert.Empty(t, enrollments.grants, "nothing may be persisted on a mismatch")
}

func TestConfirmPaymentTamperedOrder(t *testing.T) {
	svc, enrollments, _ := newPaymentFixture(t)

	// signature computed over a different order id
	in := signedConfirmInput()
	in.OrderID = "order_other"
	err := svc.ConfirmPayment(context.Background(), in)
	assert.True(t, apperr.IsKind(err, apperr.KindSignatureMismatch))
	assert.Empty(t, enrollments.grants)
}

func TestConfirmPaymentUnknownCourse(t *testing.T) {
	svc, enrollments, _ := newPaymentFixture(t)

	in := ConfirmPaymentInput{
		UserID:    "user-1",
		CourseID:  "missing",
		OrderID:   "order_abc",
		PaymentID: "pay_xyz",
	}
	in.Signature = razorpay.Signature(in.OrderID, in.PaymentID, []byte(paymentSecret))

	err := svc.ConfirmPayment(context.Background(), in)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.Empty(t, enrollments.grants)
}

func TestRecordPaymentNormalizesAmount(t *testing.T) {
	svc, enrollments, _ := newPaymentFixture(t)

	rec, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		UserID:          "user-1",
		CourseID:        "go-101",
		OrderID:         "order_abc",
		PaymentID:       "pay_xyz",
		AmountPaidMinor: 5000,
	})
	require.NoError(t, err)
	assert.Equal(t, 50.00, rec.AmountPaid)
	assert.Equal(t, entity.PaymentStatusSuccess, rec.Status)
	assert.True(t, enrollments.grants["user-1|go-101"])
}

func TestRecordPaymentDedupsOnOrderKey(t *testing.T) {
	svc, enrollments, _ := newPaymentFixture(t)
	ctx := context.Background()

	in := RecordPaymentInput{
		UserID:          "user-1",
		CourseID:        "go-101",
		OrderID:         "order_abc",
		PaymentID:       "pay_xyz",
		AmountPaidMinor: 5000,
	}
	_, err := svc.RecordPayment(ctx, in)
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, in)
	require.NoError(t, err)

	assert.Len(t, enrollments.records, 1)
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	svc, _, _ := newPaymentFixture(t)

	_, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		UserID:   "user-1",
		CourseID: "go-101",
		OrderID:  "order_abc",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCreateOrderValidatesAmount(t *testing.T) {
	svc, _, _ := newPaymentFixture(t)

	_, err := svc.CreateOrder(context.Background(), 0, "INR")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}
