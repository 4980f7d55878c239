package entity

import "time"

// Course is a purchasable unit owned by one instructor.
// PriceMinor is the price in the currency's minor unit (paise for INR).
type Course struct {
	ID           string
	Title        string
	Description  string
	Category     string
	PriceMinor   int64
	Currency     string
	ImageURL     string
	InstructorID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Lecture is a single video unit inside a course. Preview-free lectures are
// visible without enrollment.
type Lecture struct {
	ID            string
	CourseID      string
	Title         string
	VideoURL      string
	IsPreviewFree bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Review is a student's rating and comment on a course.
type Review struct {
	ID        string
	CourseID  string
	UserID    string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// InstructorRequest records a student asking for instructor access.
// Approval promotes the account role; the request row is the audit trail.
type InstructorRequest struct {
	ID        string
	UserID    string
	Status    string // pending | approved
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	InstructorRequestPending  = "pending"
	InstructorRequestApproved = "approved"
)
