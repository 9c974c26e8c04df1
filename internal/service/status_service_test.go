package service

import (
	"testing"
	"time"

	"github.com/lshigami/Margays/internal/dto"
	"github.com/lshigami/Margays/internal/model"
)

func TestBucket(t *testing.T) {
	tests := []struct {
		name       string
		attempt    model.AttemptStatus
		testStatus model.TestStatus
		want       dto.AttemptBucket
	}{
		{name: "pending upcoming", attempt: model.AttemptPending, testStatus: model.TestUpcoming, want: dto.BucketUpcoming},
		{name: "in-progress active", attempt: model.AttemptInProgress, testStatus: model.TestActive, want: dto.BucketActive},
		{name: "completed active", attempt: model.AttemptCompleted, testStatus: model.TestActive, want: dto.BucketCompleted},
		{name: "expired upcoming", attempt: model.AttemptExpired, testStatus: model.TestUpcoming, want: dto.BucketCompleted},
		{name: "pending finished", attempt: model.AttemptPending, testStatus: model.TestFinished, want: dto.BucketCompleted},
		{name: "in-progress finished", attempt: model.AttemptInProgress, testStatus: model.TestFinished, want: dto.BucketCompleted},
		// The student never started the clock while the window opened:
		// the attempt stays actionable until the window closes.
		{name: "pending active", attempt: model.AttemptPending, testStatus: model.TestActive, want: dto.BucketActive},
		{name: "in-progress upcoming", attempt: model.AttemptInProgress, testStatus: model.TestUpcoming, want: dto.BucketUpcoming},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempt := &model.Attempt{Status: tt.attempt}
			if got := bucket(attempt, tt.testStatus); got != tt.want {
				t.Errorf("bucket(%v, %v) = %v, want %v", tt.attempt, tt.testStatus, got, tt.want)
			}
		})
	}
}

func TestProjectAttempts(t *testing.T) {
	db := newTestDB(t)
	domain, activeTest, _ := seedExam(t, db, base)

	futureTest := &model.Test{
		Title:           "Next week",
		Domains:         []model.Domain{*domain},
		StartDate:       base.Add(7 * 24 * time.Hour),
		EndDate:         base.Add(8 * 24 * time.Hour),
		DurationMinutes: 60,
		Sections:        mustSections("A"),
	}
	mustCreate(t, db, futureTest)

	pastTest := &model.Test{
		Title:           "Last week",
		Domains:         []model.Domain{*domain},
		StartDate:       base.Add(-8 * 24 * time.Hour),
		EndDate:         base.Add(-7 * 24 * time.Hour),
		DurationMinutes: 60,
		Sections:        mustSections("A"),
	}
	mustCreate(t, db, pastTest)

	attempts := []model.Attempt{
		{TestID: activeTest.ID, StudentID: 1, DomainID: domain.ID, Section: "A", StartTime: base, DueTime: base.Add(time.Hour), Status: model.AttemptInProgress},
		{TestID: futureTest.ID, StudentID: 1, DomainID: domain.ID, Section: "A", Status: model.AttemptPending},
		{TestID: pastTest.ID, StudentID: 1, DomainID: domain.ID, Section: "A", Status: model.AttemptInProgress},
	}
	for i := range attempts {
		mustCreate(t, db, &attempts[i])
	}

	_, _, _, status := newServices(db)
	history, err := status.ProjectAttempts(1, base)
	if err != nil {
		t.Fatalf("ProjectAttempts() error = %v", err)
	}

	if len(history.Active) != 1 || history.Active[0].Attempt.TestID != activeTest.ID {
		t.Errorf("Active bucket = %+v, want the in-progress attempt on the open test", history.Active)
	}
	if len(history.Upcoming) != 1 || history.Upcoming[0].Attempt.TestID != futureTest.ID {
		t.Errorf("Upcoming bucket = %+v, want the pending attempt on the future test", history.Upcoming)
	}
	// The abandoned in-progress attempt is reclassified once its test
	// window has passed.
	if len(history.Completed) != 1 || history.Completed[0].Attempt.TestID != pastTest.ID {
		t.Errorf("Completed bucket = %+v, want the abandoned attempt on the past test", history.Completed)
	}
	if history.Completed[0].TestStatus != model.TestFinished {
		t.Errorf("TestStatus = %v, want finished", history.Completed[0].TestStatus)
	}
}

func TestProjectTest(t *testing.T) {
	db := newTestDB(t)
	_, test, _ := seedExam(t, db, base)
	_, _, _, status := newServices(db)

	summary, err := status.ProjectTest(test.ID, base)
	if err != nil {
		t.Fatalf("ProjectTest() error = %v", err)
	}
	if summary.Status != model.TestActive {
		t.Errorf("Status = %v, want active", summary.Status)
	}

	late, err := status.ProjectTest(test.ID, base.Add(6*time.Hour))
	if err != nil {
		t.Fatalf("ProjectTest() error = %v", err)
	}
	if late.Status != model.TestFinished {
		t.Errorf("Status = %v, want finished", late.Status)
	}
}
