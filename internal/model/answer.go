package model

import "time"

// Answer is one student's submission for one question within a section. The
// four-column unique index makes a re-submission before the deadline a full
// replace instead of a duplicate row.
//
// ExamStartTime/ExamEndTime are snapshots copied at submission time so the
// record freezes the deadline the student actually operated under, even if
// the owning attempt is later touched.
type Answer struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	StudentID     uint       `json:"student_id" gorm:"not null;uniqueIndex:idx_answer_submission"`
	QuestionID    uint       `json:"question_id" gorm:"not null;uniqueIndex:idx_answer_submission"`
	DomainID      uint       `json:"domain_id" gorm:"not null;uniqueIndex:idx_answer_submission"`
	Section       string     `json:"section" gorm:"not null;size:64;uniqueIndex:idx_answer_submission"`
	AttemptID     *uint      `json:"attempt_id,omitempty" gorm:"index"`
	Question      Question   `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	AnswerText    string     `json:"answer_text" gorm:"type:text;not null"`
	ImageURL      *string    `json:"image_url,omitempty"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	ExamStartTime time.Time  `json:"exam_start_time"`
	ExamEndTime   time.Time  `json:"exam_end_time"`
	Mark          *float64   `json:"mark,omitempty"` // staff-only, set-if-null then edit-if-set
	IsSubmitted   bool       `json:"is_submitted" gorm:"not null;default:true"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
