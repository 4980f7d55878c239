package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/learnhub/learnhub-backend/internal/apperr"
	"github.com/learnhub/learnhub-backend/internal/domain/entity"
	repo "github.com/learnhub/learnhub-backend/internal/domain/repository"
	"github.com/learnhub/learnhub-backend/pkg/helpers"
	"github.com/learnhub/learnhub-backend/pkg/mailer"
)

// codeTTL is how long a one-time code stays valid, for both the
// registration and the password-reset flow.
const codeTTL = 10 * time.Minute

// AccountService owns the account lifecycle: registration with email
// verification, login, password reset, roles, and the profile surface.
type AccountService struct {
	Accounts  repo.AccountRepository
	Requests  repo.InstructorRequestRepository
	Courses   repo.CourseRepository
	Codes     CodeStore
	Notifier  Notifier
	JWT       *helpers.JWTManager
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger

	// GenCode and Now are swappable for deterministic tests.
	GenCode func() (string, error)
	Now     func() time.Time
}

func NewAccountService(
	accounts repo.AccountRepository,
	requests repo.InstructorRequestRepository,
	courses repo.CourseRepository,
	codes CodeStore,
	notifier Notifier,
	jwt *helpers.JWTManager,
	gcs *storage.Client,
	gcsBucket string,
	logger *logrus.Logger,
) *AccountService {
	return &AccountService{
		Accounts:  accounts,
		Requests:  requests,
		Courses:   courses,
		Codes:     codes,
		Notifier:  notifier,
		JWT:       jwt,
		GCS:       gcs,
		GCSBucket: gcsBucket,
		Logger:    logger,
		GenCode:   helpers.GenOTPCode,
		Now:       time.Now,
	}
}

// Register creates an unverified account and emails it a 6-digit code.
// The code and its hash are never part of the return value.
func (s *AccountService) Register(ctx context.Context, email, name, password string) error {
	existing, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return apperr.Internal(err)
	}
	if existing != nil {
		if existing.IsVerified {
			return apperr.New(apperr.KindConflict, "email already exists")
		}
		return apperr.New(apperr.KindConflict, "account already registered, please verify the emailed code")
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return apperr.Internal(err)
	}
	code, err := s.GenCode()
	if err != nil {
		return apperr.Internal(err)
	}
	expires := s.Now().Add(codeTTL)

	a := &entity.Account{
		Email:        email,
		Name:         name,
		Password:     hash,
		IsVerified:   false,
		Role:         entity.RoleStudent,
		OTPCode:      &code,
		OTPExpiresAt: &expires,
	}
	if err := s.Accounts.Create(ctx, a); err != nil {
		return apperr.Internal(err)
	}
	if err := s.Notifier.SendCode(ctx, email, name, code, mailer.PurposeVerify); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to send verification code", err)
	}
	return nil
}

// ResendCode replaces the pending registration code with a fresh one and
// emails it. The previous code stops working immediately.
func (s *AccountService) ResendCode(ctx context.Context, email string) error {
	a, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		return s.mapRepoErr(err, "account not found")
	}
	if a.IsVerified {
		return apperr.New(apperr.KindConflict, "account already verified")
	}
	code, err := s.GenCode()
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.Accounts.ReissueCode(ctx, a.ID, code, s.Now().Add(codeTTL)); err != nil {
		return s.mapRepoErr(err, "account not found")
	}
	if err := s.Notifier.SendCode(ctx, email, a.Name, code, mailer.PurposeVerify); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to send verification code", err)
	}
	return nil
}

// ConfirmCode consumes the registration code and flips the account to
// verified. Verification is a one-shot transition: a second confirm with
// the same code fails with InvalidCode because the code was cleared.
func (s *AccountService) ConfirmCode(ctx context.Context, email, submitted string) error {
	a, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		return s.mapRepoErr(err, "account not found")
	}
	if !a.HasPendingCode() || *a.OTPCode != submitted {
		return apperr.New(apperr.KindInvalidCode, "invalid code")
	}
	if !s.Now().Before(*a.OTPExpiresAt) {
		return apperr.New(apperr.KindExpired, "code expired, request a new one")
	}
	if err := s.Accounts.MarkVerified(ctx, a.ID); err != nil {
		return s.mapRepoErr(err, "account not found")
	}
	return nil
}

// errInvalidCredentials is shared across the three login failure paths so
// a caller cannot tell which factor failed.
var errInvalidCredentials = apperr.New(apperr.KindInvalidCredentials, "invalid credentials or unverified email")

// Authenticate checks email/password against a verified account.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*entity.Account, error) {
	a, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, apperr.Internal(err)
	}
	if !a.IsVerified {
		return nil, errInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(a.Password, password) {
		return nil, errInvalidCredentials
	}
	return a, nil
}

// Login authenticates and issues a session token with a fixed expiry.
func (s *AccountService) Login(ctx context.Context, email, password string) (*entity.Account, string, time.Time, error) {
	a, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	token, exp, err := s.JWT.GenerateToken(a.ID, a.Role.String())
	if err != nil {
		return nil, "", time.Time{}, apperr.Internal(err)
	}
	return a, token, exp, nil
}

// RequestPasswordReset issues a reset code into the purpose-scoped store.
// Issuing again overwrites the previous code.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	a, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		return s.mapRepoErr(err, "email not registered")
	}
	code, err := s.GenCode()
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.Codes.Set(ctx, helpers.KeyResetCode(email), code, codeTTL); err != nil {
		return apperr.Internal(err)
	}
	if err := s.Notifier.SendCode(ctx, email, a.Name, code, mailer.PurposeReset); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to send reset code", err)
	}
	return nil
}

// ResetPassword consumes the reset code and replaces the password hash.
// The store entry is deleted after single use.
func (s *AccountService) ResetPassword(ctx context.Context, email, submitted, newPassword string) error {
	key := helpers.KeyResetCode(email)
	stored, ok, err := s.Codes.Get(ctx, key)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.New(apperr.KindExpired, "code expired or not found")
	}
	if stored != submitted {
		return apperr.New(apperr.KindInvalidCode, "invalid code")
	}
	a, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		return s.mapRepoErr(err, "account not found")
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.Accounts.UpdatePassword(ctx, a.ID, hash); err != nil {
		return s.mapRepoErr(err, "account not found")
	}
	if err := s.Codes.Del(ctx, key); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// ChangeRole overwrites the account role. The value must be a known role;
// the transition itself is not validated (last write wins).
func (s *AccountService) ChangeRole(ctx context.Context, accountID string, role string) error {
	r := entity.Role(role)
	if !r.Valid() {
		return apperr.New(apperr.KindValidation, "unknown role")
	}
	if err := s.Accounts.UpdateRole(ctx, accountID, r); err != nil {
		return s.mapRepoErr(err, "account not found")
	}
	return nil
}

func (s *AccountService) GetProfile(ctx context.Context, id string) (*entity.Account, error) {
	a, err := s.Accounts.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoErr(err, "account not found")
	}
	return a, nil
}

type UpdateProfileInput struct {
	Name        string
	OldPassword string
	NewPassword string
}

// UpdateProfile changes the display name and, when both password fields are
// supplied, rotates the password after checking the old one.
func (s *AccountService) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*entity.Account, error) {
	a, err := s.Accounts.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoErr(err, "account not found")
	}
	if in.Name != "" {
		a.Name = in.Name
	}
	if in.OldPassword != "" && in.NewPassword != "" {
		if !helpers.CompareHashAndPassword(a.Password, in.OldPassword) {
			return nil, apperr.New(apperr.KindInvalidCredentials, "old password is incorrect")
		}
		hash, err := helpers.HashPassword(in.NewPassword)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		a.Password = hash
	}
	if err := s.Accounts.Update(ctx, a); err != nil {
		return nil, s.mapRepoErr(err, "account not found")
	}
	return a, nil
}

// UploadAvatar stores the image on the media host and saves the URL.
func (s *AccountService) UploadAvatar(ctx context.Context, id string, r io.Reader, filename, contentType string) (string, error) {
	a, err := s.Accounts.GetByID(ctx, id)
	if err != nil {
		return "", s.mapRepoErr(err, "account not found")
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", apperr.New(apperr.KindInternal, "media storage not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", id, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "avatar upload failed", err)
	}
	a.AvatarURL = url
	if err := s.Accounts.Update(ctx, a); err != nil {
		return "", s.mapRepoErr(err, "account not found")
	}
	return url, nil
}

// MyCourses lists the courses the account is enrolled in.
func (s *AccountService) MyCourses(ctx context.Context, userID string) ([]*entity.Course, error) {
	ids, err := s.Accounts.EnrolledCourseIDs(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	courses, err := s.Courses.ListByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return courses, nil
}

// ToggleSavedCourse flips the course's membership in the saved set and
// reports the new state.
func (s *AccountService) ToggleSavedCourse(ctx context.Context, userID, courseID string) (bool, error) {
	if _, err := s.Courses.GetByID(ctx, courseID); err != nil {
		return false, s.mapRepoErr(err, "course not found")
	}
	saved, err := s.Accounts.IsSaved(ctx, userID, courseID)
	if err != nil {
		return false, apperr.Internal(err)
	}
	if saved {
		if err := s.Accounts.UnsaveCourse(ctx, userID, courseID); err != nil {
			return false, apperr.Internal(err)
		}
		return false, nil
	}
	if err := s.Accounts.SaveCourse(ctx, userID, courseID); err != nil {
		return false, apperr.Internal(err)
	}
	return true, nil
}

func (s *AccountService) SavedCourses(ctx context.Context, userID string) ([]*entity.Course, error) {
	ids, err := s.Accounts.SavedCourseIDs(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	courses, err := s.Courses.ListByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return courses, nil
}

// RequestInstructorAccess records a student's request for instructor
// access. Only students can request; duplicates conflict.
func (s *AccountService) RequestInstructorAccess(ctx context.Context, userID string) (*entity.InstructorRequest, error) {
	a, err := s.Accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, s.mapRepoErr(err, "account not found")
	}
	if a.Role != entity.RoleStudent {
		return nil, apperr.New(apperr.KindValidation, "only students can request instructor access")
	}
	if _, err := s.Requests.GetByUser(ctx, userID); err == nil {
		return nil, apperr.New(apperr.KindConflict, "request already submitted")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, apperr.Internal(err)
	}
	req := &entity.InstructorRequest{UserID: userID, Status: entity.InstructorRequestPending}
	if err := s.Requests.Create(ctx, req); err != nil {
		return nil, apperr.Internal(err)
	}
	return req, nil
}

func (s *AccountService) PendingInstructorRequests(ctx context.Context) ([]*entity.InstructorRequest, error) {
	reqs, err := s.Requests.ListPending(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return reqs, nil
}

// ApproveInstructorRequest marks the request approved and promotes the
// requesting account to instructor.
func (s *AccountService) ApproveInstructorRequest(ctx context.Context, requestID string) error {
	req, err := s.Requests.GetByID(ctx, requestID)
	if err != nil {
		return s.mapRepoErr(err, "request not found")
	}
	if req.Status == entity.InstructorRequestApproved {
		return apperr.New(apperr.KindConflict, "request already approved")
	}
	if err := s.Requests.MarkApproved(ctx, req.ID); err != nil {
		return s.mapRepoErr(err, "request not found")
	}
	if err := s.Accounts.UpdateRole(ctx, req.UserID, entity.RoleInstructor); err != nil {
		return s.mapRepoErr(err, "account not found")
	}
	return nil
}

func (s *AccountService) ListInstructors(ctx context.Context) ([]*entity.Account, error) {
	list, err := s.Accounts.ListByRole(ctx, entity.RoleInstructor)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return list, nil
}

func (s *AccountService) mapRepoErr(err error, notFoundMsg string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.New(apperr.KindNotFound, notFoundMsg)
	}
	return apperr.Internal(err)
}
