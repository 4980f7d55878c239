package entity

import "time"

// PaymentStatusSuccess is the only status ever written to the ledger;
// failed or unverified attempts are rejected before a row exists.
const PaymentStatusSuccess = "Success"

// EnrollmentRecord is one confirmed payment that granted course access.
// Rows are immutable once created; (UserID, CourseID, OrderID) is the
// natural dedup key, so a replayed confirmation never produces a second row.
type EnrollmentRecord struct {
	ID         string
	UserID     string
	CourseID   string
	OrderID    string
	PaymentID  string
	AmountPaid float64 // normalized major unit, minor units / 100
	Status     string
	CreatedAt  time.Time
}

// LedgerEntry is the read model for ledger listings, joined against the
// account and course for display.
type LedgerEntry struct {
	ID           string
	StudentName  string
	StudentEmail string
	CourseTitle  string
	OrderID      string
	AmountPaid   float64
	CreatedAt    time.Time
}
