package dto

import "time"

// CreateTestRequest carries the admin payload for opening a new assessment
// window. Validation beyond binding tags happens in the service factory.
type CreateTestRequest struct {
	Title            string    `json:"title" binding:"required"`
	Description      string    `json:"description"`
	DomainIDs        []uint    `json:"domain_ids" binding:"required,min=1"`
	StartDate        time.Time `json:"start_date" binding:"required"`
	EndDate          time.Time `json:"end_date" binding:"required"`
	DurationMinutes  int       `json:"duration_minutes"` // 0 = configured default
	Sections         []string  `json:"sections" binding:"required,min=1"`
	EligibleStudents []uint    `json:"eligible_students"` // empty = open to all
}

type StartAttemptRequest struct {
	DomainID uint   `json:"domain_id" binding:"required"`
	Section  string `json:"section" binding:"required"`
}

type SubmitAnswerRequest struct {
	QuestionID    uint      `json:"question_id" binding:"required"`
	DomainID      uint      `json:"domain_id" binding:"required"`
	Section       string    `json:"section" binding:"required"`
	ExamStartTime time.Time `json:"exam_start_time" binding:"required"`
	AnswerText    string    `json:"answer_text" binding:"required"`
	ImageURL      *string   `json:"image_url"`
}

type MarkRequest struct {
	Mark float64 `json:"mark" binding:"min=0"`
}

type ComputeTotalRequest struct {
	StudentID uint  `json:"student_id" binding:"required"`
	DomainID  uint  `json:"domain_id" binding:"required"`
	TestID    *uint `json:"test_id"`
}
