package dto

import (
	"time"

	"github.com/lshigami/Margays/internal/model"
)

type DomainResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type QuestionResponse struct {
	ID       uint    `json:"id"`
	DomainID uint    `json:"domain_id"`
	Section  string  `json:"section"`
	Prompt   string  `json:"prompt"`
	MaxMark  float64 `json:"max_mark"`
}

type TestResponse struct {
	ID               uint               `json:"id"`
	Title            string             `json:"title"`
	Description      string             `json:"description,omitempty"`
	Domains          []DomainResponse   `json:"domains,omitempty"`
	StartDate        time.Time          `json:"start_date"`
	EndDate          time.Time          `json:"end_date"`
	DurationMinutes  int                `json:"duration_minutes"`
	Sections         []string           `json:"sections"`
	EligibleStudents []uint             `json:"eligible_students,omitempty"`
	Status           model.TestStatus   `json:"status"` // derived for the request's instant
	CreatedAt        time.Time          `json:"created_at"`
}

type TestSummaryResponse struct {
	ID        uint             `json:"id"`
	Title     string           `json:"title"`
	StartDate time.Time        `json:"start_date"`
	EndDate   time.Time        `json:"end_date"`
	Status    model.TestStatus `json:"status"`
}

// AttemptWindowResponse is what a student receives on admission: the exam
// clock plus the question set for the chosen domain and section.
type AttemptWindowResponse struct {
	AttemptID uint               `json:"attempt_id"`
	TestID    uint               `json:"test_id"`
	DomainID  uint               `json:"domain_id"`
	Section   string             `json:"section"`
	StartTime time.Time          `json:"start_time"`
	DueTime   time.Time          `json:"due_time"`
	Questions []QuestionResponse `json:"questions"`
}

type AttemptResponse struct {
	ID        uint                `json:"id"`
	TestID    uint                `json:"test_id"`
	StudentID uint                `json:"student_id"`
	DomainID  uint                `json:"domain_id"`
	Section   string              `json:"section"`
	StartTime time.Time           `json:"start_time"`
	DueTime   time.Time           `json:"due_time"`
	EndTime   *time.Time          `json:"end_time,omitempty"`
	Score     *float64            `json:"score,omitempty"`
	Status    model.AttemptStatus `json:"status"`
}

type AnswerResponse struct {
	ID            uint      `json:"id"`
	QuestionID    uint      `json:"question_id"`
	DomainID      uint      `json:"domain_id"`
	Section       string    `json:"section"`
	AnswerText    string    `json:"answer_text"`
	ImageURL      *string   `json:"image_url,omitempty"`
	SubmittedAt   time.Time `json:"submitted_at"`
	ExamStartTime time.Time `json:"exam_start_time"`
	ExamEndTime   time.Time `json:"exam_end_time"`
	Mark          *float64  `json:"mark,omitempty"`
}

// AttemptBucket is the student-facing classification of an attempt, computed
// from the ledger status and the owning test's derived status.
type AttemptBucket string

const (
	BucketUpcoming  AttemptBucket = "upcoming"
	BucketActive    AttemptBucket = "active"
	BucketCompleted AttemptBucket = "completed"
)

type ProjectedAttempt struct {
	Attempt    AttemptResponse  `json:"attempt"`
	TestTitle  string           `json:"test_title"`
	TestStatus model.TestStatus `json:"test_status"`
	Bucket     AttemptBucket    `json:"bucket"`
}

type AttemptHistoryResponse struct {
	Upcoming  []ProjectedAttempt `json:"upcoming"`
	Active    []ProjectedAttempt `json:"active"`
	Completed []ProjectedAttempt `json:"completed"`
}

type TotalScoreResponse struct {
	StudentID uint    `json:"student_id"`
	DomainID  uint    `json:"domain_id"`
	TestID    *uint   `json:"test_id,omitempty"`
	Total     float64 `json:"total"`
}

type MarkSuggestionResponse struct {
	AnswerID  uint    `json:"answer_id"`
	Suggested float64 `json:"suggested_mark"`
	Rationale string  `json:"rationale"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
