package service

import (
	"errors"
	"testing"
	"time"

	"github.com/lshigami/Margays/internal/dto"
	"github.com/lshigami/Margays/internal/model"
)

func submitReq(q *model.Question, examStart time.Time, text string) dto.SubmitAnswerRequest {
	return dto.SubmitAnswerRequest{
		QuestionID:    q.ID,
		DomainID:      q.DomainID,
		Section:       q.Section,
		ExamStartTime: examStart,
		AnswerText:    text,
	}
}

func TestSubmitAnswerWithinDeadline(t *testing.T) {
	db := newTestDB(t)
	domain, test, questions := seedExam(t, db, base)
	admission, submission, _, _ := newServices(db)

	window, err := admission.StartAttempt(1, test.ID, domain.ID, "A", base)
	if err != nil {
		t.Fatalf("StartAttempt() error = %v", err)
	}

	answer, err := submission.SubmitAnswer(1, submitReq(&questions[0], window.StartTime, "x = 5"), base.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}
	if answer.AnswerText != "x = 5" {
		t.Errorf("AnswerText = %q", answer.AnswerText)
	}
	if want := window.StartTime.Add(60 * time.Minute); !answer.ExamEndTime.Equal(want) {
		t.Errorf("ExamEndTime = %v, want %v", answer.ExamEndTime, want)
	}

	var stored model.Answer
	if err := db.First(&stored, answer.ID).Error; err != nil {
		t.Fatalf("load answer: %v", err)
	}
	if stored.AttemptID == nil || *stored.AttemptID != window.AttemptID {
		t.Errorf("AttemptID = %v, want %d", stored.AttemptID, window.AttemptID)
	}
}

func TestSubmitAnswerRejections(t *testing.T) {
	db := newTestDB(t)
	_, _, questions := seedExam(t, db, base)
	_, submission, _, _ := newServices(db)

	tests := []struct {
		name    string
		req     dto.SubmitAnswerRequest
		now     time.Time
		wantErr error
	}{
		{
			name:    "past deadline",
			req:     submitReq(&questions[0], base, "late"),
			now:     base.Add(61 * time.Minute),
			wantErr: model.ErrExamExpired,
		},
		{
			name:    "blank text",
			req:     submitReq(&questions[0], base, "   "),
			now:     base,
			wantErr: model.ErrValidation,
		},
		{
			name: "unknown question",
			req: dto.SubmitAnswerRequest{
				QuestionID: 9999, DomainID: questions[0].DomainID, Section: "A",
				ExamStartTime: base, AnswerText: "answer",
			},
			now:     base,
			wantErr: model.ErrNotFound,
		},
		{
			name: "section mismatch",
			req: dto.SubmitAnswerRequest{
				QuestionID: questions[0].ID, DomainID: questions[0].DomainID, Section: "B",
				ExamStartTime: base, AnswerText: "answer",
			},
			now:     base,
			wantErr: model.ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := submission.SubmitAnswer(1, tt.req, tt.now)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SubmitAnswer() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	var count int64
	db.Model(&model.Answer{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected submissions wrote %d answer rows", count)
	}
}

func TestSubmitAnswerOverwritesNotDuplicates(t *testing.T) {
	db := newTestDB(t)
	_, _, questions := seedExam(t, db, base)
	_, submission, _, _ := newServices(db)

	if _, err := submission.SubmitAnswer(1, submitReq(&questions[0], base, "first"), base.Add(5*time.Minute)); err != nil {
		t.Fatalf("first SubmitAnswer() error = %v", err)
	}
	if _, err := submission.SubmitAnswer(1, submitReq(&questions[0], base, "second"), base.Add(10*time.Minute)); err != nil {
		t.Fatalf("second SubmitAnswer() error = %v", err)
	}

	var answers []model.Answer
	if err := db.Find(&answers).Error; err != nil {
		t.Fatalf("load answers: %v", err)
	}
	if len(answers) != 1 {
		t.Fatalf("answer rows = %d, want 1", len(answers))
	}
	if answers[0].AnswerText != "second" {
		t.Errorf("AnswerText = %q, want replaced content", answers[0].AnswerText)
	}
	if !answers[0].SubmittedAt.Equal(base.Add(10 * time.Minute)) {
		t.Errorf("SubmittedAt = %v, want replacement time", answers[0].SubmittedAt)
	}
}

func TestFinishAttempt(t *testing.T) {
	db := newTestDB(t)
	domain, test, _ := seedExam(t, db, base)
	admission, submission, _, _ := newServices(db)

	if _, err := submission.FinishAttempt(1, test.ID, base); !errors.Is(err, model.ErrNotStarted) {
		t.Errorf("FinishAttempt(no attempt) error = %v, want ErrNotStarted", err)
	}

	if _, err := admission.StartAttempt(1, test.ID, domain.ID, "A", base); err != nil {
		t.Fatalf("StartAttempt() error = %v", err)
	}

	finishedAt := base.Add(30 * time.Minute)
	attempt, err := submission.FinishAttempt(1, test.ID, finishedAt)
	if err != nil {
		t.Fatalf("FinishAttempt() error = %v", err)
	}
	if attempt.Status != model.AttemptCompleted {
		t.Errorf("Status = %v, want completed", attempt.Status)
	}
	if attempt.EndTime == nil || !attempt.EndTime.Equal(finishedAt) {
		t.Errorf("EndTime = %v, want %v", attempt.EndTime, finishedAt)
	}

	if _, err := submission.FinishAttempt(1, test.ID, finishedAt.Add(time.Minute)); !errors.Is(err, model.ErrAlreadyCompleted) {
		t.Errorf("second FinishAttempt() error = %v, want ErrAlreadyCompleted", err)
	}
}

// The full exam-day walkthrough: a one-hour clock inside a test window that
// closes at T+3h.
func TestExamClockScenario(t *testing.T) {
	db := newTestDB(t)
	T := base

	domain := &model.Domain{Name: "History"}
	mustCreate(t, db, domain)
	question := &model.Question{DomainID: domain.ID, Section: "A", Prompt: "Describe the treaty.", MaxMark: 10}
	mustCreate(t, db, question)
	test := &model.Test{
		Title:           "Finals",
		Domains:         []model.Domain{*domain},
		StartDate:       T.Add(time.Hour),
		EndDate:         T.Add(3 * time.Hour),
		DurationMinutes: 60,
		Sections:        mustSections("A"),
	}
	mustCreate(t, db, test)

	admission, submission, _, _ := newServices(db)

	// Admission at T+2h: due time lands exactly on the hour clock, T+3h.
	window, err := admission.StartAttempt(1, test.ID, domain.ID, "A", T.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("StartAttempt() error = %v", err)
	}
	if want := T.Add(3 * time.Hour); !window.DueTime.Equal(want) {
		t.Fatalf("DueTime = %v, want %v", window.DueTime, want)
	}

	if _, err := submission.SubmitAnswer(1, submitReq(question, window.StartTime, "Signed in 1648."), T.Add(2*time.Hour+50*time.Minute)); err != nil {
		t.Errorf("SubmitAnswer(T+2h50m) error = %v", err)
	}
	if _, err := submission.SubmitAnswer(1, submitReq(question, window.StartTime, "too late"), T.Add(3*time.Hour+10*time.Minute)); !errors.Is(err, model.ErrExamExpired) {
		t.Errorf("SubmitAnswer(T+3h10m) error = %v, want ErrExamExpired", err)
	}

	attempt, err := submission.FinishAttempt(1, test.ID, T.Add(3*time.Hour+10*time.Minute))
	if err != nil {
		t.Fatalf("FinishAttempt() error = %v", err)
	}
	if attempt.Status != model.AttemptExpired {
		t.Errorf("Status = %v, want expired", attempt.Status)
	}
}
