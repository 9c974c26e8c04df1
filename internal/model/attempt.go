package model

import "time"

type AttemptStatus string

const (
	AttemptPending    AttemptStatus = "pending"
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptExpired    AttemptStatus = "expired"
)

// Attempt is the ledger row for one student's single engagement with one
// test. The (test_id, student_id) pair is unique; concurrent admission calls
// resolve through that constraint, never through read-then-write checks.
//
// No soft delete here: a partial unique index over a deleted_at column would
// reopen the duplicate-row race the constraint exists to close. Attempts go
// away only when their test is hard-deleted.
type Attempt struct {
	ID        uint          `gorm:"primarykey" json:"id"`
	TestID    uint          `json:"test_id" gorm:"not null;uniqueIndex:idx_attempt_test_student"`
	StudentID uint          `json:"student_id" gorm:"not null;uniqueIndex:idx_attempt_test_student"`
	Test      Test          `json:"test,omitempty" gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE"`
	DomainID  uint          `json:"domain_id" gorm:"not null"`
	Section   string        `json:"section" gorm:"not null;size:64"`
	StartTime time.Time     `json:"start_time"`
	DueTime   time.Time     `json:"due_time"`
	EndTime   *time.Time    `json:"end_time,omitempty"`
	Score     *float64      `json:"score,omitempty"`
	Status    AttemptStatus `json:"status" gorm:"not null;default:'pending';index"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Terminal reports whether the attempt has reached a final state.
func (a *Attempt) Terminal() bool {
	return a.Status == AttemptCompleted || a.Status == AttemptExpired
}
