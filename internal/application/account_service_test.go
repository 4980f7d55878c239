package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/learnhub-backend/internal/apperr"
	"github.com/learnhub/learnhub-backend/internal/domain/entity"
	repo "github.com/learnhub/learnhub-backend/internal/domain/repository"
	"github.com/learnhub/learnhub-backend/pkg/helpers"
)

// --- fakes ---

type fakeAccountRepo struct {
	byEmail  map[string]*entity.Account
	enrolled map[string]bool // userID|courseID
	saved    map[string]bool
	nextID   int

	getByEmailErr error // injected storage failure
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		byEmail:  map[string]*entity.Account{},
		enrolled: map[string]bool{},
		saved:    map[string]bool{},
	}
}

func (f *fakeAccountRepo) Create(_ context.Context, a *entity.Account) error {
	f.nextID++
	a.ID = fmt.Sprintf("acc-%d", f.nextID)
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	f.byEmail[a.Email] = a
	return nil
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id string) (*entity.Account, error) {
	for _, a := range f.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	if f.getByEmailErr != nil {
		return nil, f.getByEmailErr
	}
	a, ok := f.byEmail[email]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return a, nil
}

func (f *fakeAccountRepo) Update(_ context.Context, a *entity.Account) error {
	if _, ok := f.byEmail[a.Email]; !ok {
		return repo.ErrNotFound
	}
	f.byEmail[a.Email] = a
	return nil
}

func (f *fakeAccountRepo) ReissueCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	a.OTPCode = &code
	a.OTPExpiresAt = &expiresAt
	return nil
}

func (f *fakeAccountRepo) MarkVerified(ctx context.Context, id string) error {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	a.IsVerified = true
	a.OTPCode = nil
	a.OTPExpiresAt = nil
	return nil
}

func (f *fakeAccountRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	a.Password = hash
	return nil
}

func (f *fakeAccountRepo) UpdateRole(ctx context.Context, id string, role entity.Role) error {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	a.Role = role
	return nil
}

func (f *fakeAccountRepo) ListByRole(_ context.Context, role entity.Role) ([]*entity.Account, error) {
	var out []*entity.Account
	for _, a := range f.byEmail {
		if a.Role == role {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAccountRepo) EnrolledCourseIDs(_ context.Context, userID string) ([]string, error) {
	return keysFor(f.enrolled, userID), nil
}

func (f *fakeAccountRepo) IsEnrolled(_ context.Context, userID, courseID string) (bool, error) {
	return f.enrolled[userID+"|"+courseID], nil
}

func (f *fakeAccountRepo) SavedCourseIDs(_ context.Context, userID string) ([]string, error) {
	return keysFor(f.saved, userID), nil
}

func (f *fakeAccountRepo) SaveCourse(_ context.Context, userID, courseID string) error {
	f.saved[userID+"|"+courseID] = true
	return nil
}

func (f *fakeAccountRepo) UnsaveCourse(_ context.Context, userID, courseID string) error {
	delete(f.saved, userID+"|"+courseID)
	return nil
}

func (f *fakeAccountRepo) IsSaved(_ context.Context, userID, courseID string) (bool, error) {
	return f.saved[userID+"|"+courseID], nil
}

func keysFor(set map[string]bool, userID string) []string {
	var ids []string
	for k, ok := range set {
		if !ok {
			continue
		}
		if u, c, found := strings.Cut(k, "|"); found && u == userID {
			ids = append(ids, c)
		}
	}
	return ids
}

type fakeRequestRepo struct {
	byUser map[string]*entity.InstructorRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{byUser: map[string]*entity.InstructorRequest{}}
}

func (f *fakeRequestRepo) Create(_ context.Context, r *entity.InstructorRequest) error {
	r.ID = "req-" + r.UserID
	f.byUser[r.UserID] = r
	return nil
}

func (f *fakeRequestRepo) GetByUser(_ context.Context, userID string) (*entity.InstructorRequest, error) {
	r, ok := f.byUser[userID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return r, nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id string) (*entity.InstructorRequest, error) {
	for _, r := range f.byUser {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeRequestRepo) ListPending(context.Context) ([]*entity.InstructorRequest, error) {
	var out []*entity.InstructorRequest
	for _, r := range f.byUser {
		if r.Status == entity.InstructorRequestPending {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) MarkApproved(ctx context.Context, id string) error {
	r, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	r.Status = entity.InstructorRequestApproved
	return nil
}

type fakeCourseRepo struct {
	byID     map[string]*entity.Course
	byTitle  map[string]*entity.Course
	lectures map[string]*entity.Lecture
	reviews  map[string]*entity.Review
	students map[string][]string // courseID -> enrolled student IDs
	nextID   int
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{
		byID:     map[string]*entity.Course{},
		byTitle:  map[string]*entity.Course{},
		lectures: map[string]*entity.Lecture{},
		reviews:  map[string]*entity.Review{},
		students: map[string][]string{},
	}
}

func (f *fakeCourseRepo) add(c *entity.Course) {
	f.byID[c.ID] = c
	f.byTitle[c.Title] = c
}

func (f *fakeCourseRepo) Create(_ context.Context, c *entity.Course) error {
	if c.ID == "" {
		c.ID = "course-" + c.Title
	}
	f.add(c)
	return nil
}

func (f *fakeCourseRepo) GetByID(_ context.Context, id string) (*entity.Course, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return c, nil
}

func (f *fakeCourseRepo) GetByTitle(_ context.Context, title string) (*entity.Course, error) {
	c, ok := f.byTitle[title]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return c, nil
}

func (f *fakeCourseRepo) List(context.Context) ([]*entity.Course, error) { return nil, nil }
func (f *fakeCourseRepo) ListByInstructor(context.Context, string) ([]*entity.Course, error) {
	return nil, nil
}

func (f *fakeCourseRepo) ListByIDs(_ context.Context, ids []string) ([]*entity.Course, error) {
	var out []*entity.Course
	for _, id := range ids {
		if c, ok := f.byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) Update(_ context.Context, c *entity.Course) error {
	if _, ok := f.byID[c.ID]; !ok {
		return repo.ErrNotFound
	}
	f.add(c)
	return nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id string) error {
	c, ok := f.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	delete(f.byTitle, c.Title)
	delete(f.byID, id)
	return nil
}

func (f *fakeCourseRepo) EnrolledStudentIDs(_ context.Context, courseID string) ([]string, error) {
	return f.students[courseID], nil
}
func (f *fakeCourseRepo) CreateLecture(_ context.Context, l *entity.Lecture) error {
	f.nextID++
	l.ID = fmt.Sprintf("lec-%d", f.nextID)
	f.lectures[l.ID] = l
	return nil
}

func (f *fakeCourseRepo) GetLecture(_ context.Context, id string) (*entity.Lecture, error) {
	l, ok := f.lectures[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return l, nil
}

func (f *fakeCourseRepo) UpdateLecture(_ context.Context, l *entity.Lecture) error {
	if _, ok := f.lectures[l.ID]; !ok {
		return repo.ErrNotFound
	}
	f.lectures[l.ID] = l
	return nil
}

func (f *fakeCourseRepo) DeleteLecture(_ context.Context, id string) error {
	if _, ok := f.lectures[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.lectures, id)
	return nil
}

func (f *fakeCourseRepo) ListLectures(_ context.Context, courseID string) ([]*entity.Lecture, error) {
	var out []*entity.Lecture
	for _, l := range f.lectures {
		if l.CourseID == courseID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) CreateReview(_ context.Context, rev *entity.Review) error {
	f.nextID++
	rev.ID = fmt.Sprintf("rev-%d", f.nextID)
	f.reviews[rev.ID] = rev
	return nil
}

func (f *fakeCourseRepo) ListReviews(_ context.Context, courseID string) ([]*entity.Review, error) {
	var out []*entity.Review
	for _, rev := range f.reviews {
		if rev.CourseID == courseID {
			out = append(out, rev)
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) DeleteReview(_ context.Context, id string) error {
	if _, ok := f.reviews[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.reviews, id)
	return nil
}

type fakeCodeStore struct {
	entries map[string]string
}

func newFakeCodeStore() *fakeCodeStore { return &fakeCodeStore{entries: map[string]string{}} }

func (f *fakeCodeStore) Set(_ context.Context, key, code string, _ time.Duration) error {
	f.entries[key] = code
	return nil
}

func (f *fakeCodeStore) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := f.entries[key]
	return v, ok, nil
}

func (f *fakeCodeStore) Del(_ context.Context, key string) error {
	delete(f.entries, key)
	return nil
}

type sentCode struct {
	To      string
	Code    string
	Purpose string
}

type fakeNotifier struct {
	sent []sentCode
}

func (f *fakeNotifier) SendCode(_ context.Context, to, _, code, purpose string) error {
	f.sent = append(f.sent, sentCode{To: to, Code: code, Purpose: purpose})
	return nil
}

// --- setup ---

type accountFixture struct {
	svc      *AccountService
	accounts *fakeAccountRepo
	requests *fakeRequestRepo
	courses  *fakeCourseRepo
	codes    *fakeCodeStore
	notifier *fakeNotifier
	now      time.Time
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()
	f := &accountFixture{
		accounts: newFakeAccountRepo(),
		requests: newFakeRequestRepo(),
		courses:  newFakeCourseRepo(),
		codes:    newFakeCodeStore(),
		notifier: &fakeNotifier{},
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewAccountService(
		f.accounts, f.requests, f.courses, f.codes, f.notifier,
		helpers.NewJWTManager("testsecret", 168*time.Hour),
		nil, "", nil,
	)
	f.svc.GenCode = func() (string, error) { return "123456", nil }
	f.svc.Now = func() time.Time { return f.now }
	return f
}

// --- registration and verification ---

func TestRegisterAndConfirm(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, "alice@example.com", "Alice", "password123"))

	a, err := f.accounts.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, a.IsVerified)
	assert.Equal(t, entity.RoleStudent, a.Role)
	require.NotNil(t, a.OTPCode)
	assert.Equal(t, "123456", *a.OTPCode)
	assert.NotEqual(t, "password123", a.Password, "password must be stored hashed")

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "verify", f.notifier.sent[0].Purpose)

	require.NoError(t, f.svc.ConfirmCode(ctx, "alice@example.com", "123456"))
	a, _ = f.accounts.GetByEmail(ctx, "alice@example.com")
	assert.True(t, a.IsVerified)
	assert.Nil(t, a.OTPCode)
	assert.Nil(t, a.OTPExpiresAt)
}

func TestConfirmIsOneShot(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, "bob@example.com", "Bob", "password123"))
	require.NoError(t, f.svc.ConfirmCode(ctx, "bob@example.com", "123456"))

	err := f.svc.ConfirmCode(ctx, "bob@example.com", "123456")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidCode))
}

func TestConfirmWrongCode(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, "bob@example.com", "Bob", "password123"))
	err := f.svc.ConfirmCode(ctx, "bob@example.com", "654321")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidCode))
}

func TestConfirmExpiredCode(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, "bob@example.com", "Bob", "password123"))
	f.now = f.now.Add(11 * time.Minute)

	err := f.svc.ConfirmCode(ctx, "bob@example.com", "123456")
	assert.True(t, apperr.IsKind(err, apperr.KindExpired))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, "carol@example.com", "Carol", "password123"))

	// still unverified
	err := f.svc.Register(ctx, "carol@example.com", "Carol", "password123")
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// verified
	require.NoError(t, f.svc.ConfirmCode(ctx, "carol@example.com", "123456"))
	err = f.svc.Register(ctx, "carol@example.com", "Carol", "password123")
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestResendCodeReplacesPrevious(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, "dave@example.com", "Dave", "password123"))

	f.svc.GenCode = func() (string, error) { return "999999", nil }
	require.NoError(t, f.svc.ResendCode(ctx, "dave@example.com"))

	err := f.svc.ConfirmCode(ctx, "dave@example.com", "123456")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidCode), "old code must stop working")
	require.NoError(t, f.svc.ConfirmCode(ctx, "dave@example.com", "999999"))
}

// --- login ---

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, "eve@example.com", "Eve", "password123"))

	// unknown email
	_, errUnknown := f.svc.Authenticate(ctx, "nobody@example.com", "password123")
	// unverified account
	_, errUnverified := f.svc.Authenticate(ctx, "eve@example.com", "password123")

	require.NoError(t, f.svc.ConfirmCode(ctx, "eve@example.com", "123456"))
	// wrong password
	_, errWrongPwd := f.svc.Authenticate(ctx, "eve@example.com", "wrongpassword")

	assert.Equal(t, errUnknown, errUnverified)
	assert.Equal(t, errUnverified, errWrongPwd)
	assert.True(t, apperr.IsKind(errUnknown, apperr.KindInvalidCredentials))
}

func TestAuthenticateSurfacesStorageFailure(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	f.accounts.getByEmailErr = errors.New("connection refused")

	_, err := f.svc.Authenticate(ctx, "eve@example.com", "password123")
	assert.True(t, apperr.IsKind(err, apperr.KindInternal), "storage failures are not credential failures")
	assert.False(t, apperr.IsKind(err, apperr.KindInvalidCredentials))
}

func TestLoginIssuesToken(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, "frank@example.com", "Frank", "password123"))
	require.NoError(t, f.svc.ConfirmCode(ctx, "frank@example.com", "123456"))

	a, token, exp, err := f.svc.Login(ctx, "frank@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))

	claims, err := f.svc.JWT.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, a.ID, claims.UserID)
	assert.Equal(t, entity.RoleStudent.String(), claims.Role)
}

// --- password reset ---

func TestPasswordResetFlow(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, "grace@example.com", "Grace", "password123"))
	require.NoError(t, f.svc.ConfirmCode(ctx, "grace@example.com", "123456"))

	require.NoError(t, f.svc.RequestPasswordReset(ctx, "grace@example.com"))
	require.Len(t, f.notifier.sent, 2)
	assert.Equal(t, "reset", f.notifier.sent[1].Purpose)

	require.NoError(t, f.svc.ResetPassword(ctx, "grace@example.com", "123456", "newpassword1"))

	_, _, _, err := f.svc.Login(ctx, "grace@example.com", "newpassword1")
	require.NoError(t, err)
	_, _, _, err = f.svc.Login(ctx, "grace@example.com", "password123")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidCredentials))
}

func TestResetCodeSingleUse(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, "heidi@example.com", "Heidi", "password123"))
	require.NoError(t, f.svc.ConfirmCode(ctx, "heidi@example.com", "123456"))
	require.NoError(t, f.svc.RequestPasswordReset(ctx, "heidi@example.com"))
	require.NoError(t, f.svc.ResetPassword(ctx, "heidi@example.com", "123456", "newpassword1"))

	err := f.svc.ResetPassword(ctx, "heidi@example.com", "123456", "otherpassword")
	assert.True(t, apperr.IsKind(err, apperr.KindExpired))
}

func TestResetWrongCodeKeepsEntry(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, "ivan@example.com", "Ivan", "password123"))
	require.NoError(t, f.svc.ConfirmCode(ctx, "ivan@example.com", "123456"))
	require.NoError(t, f.svc.RequestPasswordReset(ctx, "ivan@example.com"))

	err := f.svc.ResetPassword(ctx, "ivan@example.com", "000000", "newpassword1")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidCode))

	// the right code still works afterwards
	require.NoError(t, f.svc.ResetPassword(ctx, "ivan@example.com", "123456", "newpassword1"))
}

func TestResetForUnknownEmail(t *testing.T) {
	f := newAccountFixture(t)
	err := f.svc.RequestPasswordReset(context.Background(), "ghost@example.com")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

// --- roles ---

func TestChangeRoleValidatesValueOnly(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, "judy@example.com", "Judy", "password123"))
	a, _ := f.accounts.GetByEmail(ctx, "judy@example.com")

	require.NoError(t, f.svc.ChangeRole(ctx, a.ID, "admin"))
	a, _ = f.accounts.GetByEmail(ctx, "judy@example.com")
	assert.Equal(t, entity.RoleAdmin, a.Role)

	// any valid value overwrites, regardless of the current role
	require.NoError(t, f.svc.ChangeRole(ctx, a.ID, "student"))
	a, _ = f.accounts.GetByEmail(ctx, "judy@example.com")
	assert.Equal(t, entity.RoleStudent, a.Role)

	err := f.svc.ChangeRole(ctx, a.ID, "superuser")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

// --- instructor requests ---

func TestInstructorRequestApproval(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, "ken@example.com", "Ken", "password123"))
	a, _ := f.accounts.GetByEmail(ctx, "ken@example.com")

	req, err := f.svc.RequestInstructorAccess(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InstructorRequestPending, req.Status)

	// duplicate request conflicts
	_, err = f.svc.RequestInstructorAccess(ctx, a.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	require.NoError(t, f.svc.ApproveInstructorRequest(ctx, req.ID))
	a, _ = f.accounts.GetByEmail(ctx, "ken@example.com")
	assert.Equal(t, entity.RoleInstructor, a.Role)

	// re-approval conflicts
	err = f.svc.ApproveInstructorRequest(ctx, req.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestInstructorRequestStudentsOnly(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, "lena@example.com", "Lena", "password123"))
	a, _ := f.accounts.GetByEmail(ctx, "lena@example.com")
	require.NoError(t, f.svc.ChangeRole(ctx, a.ID, "instructor"))

	_, err := f.svc.RequestInstructorAccess(ctx, a.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}
