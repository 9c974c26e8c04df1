package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Margays/internal/dto"
	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// StatusService combines the schedule authority with the attempt ledger to
// produce the views students and staff see.
type StatusService interface {
	ProjectTest(testID uint, now time.Time) (*dto.TestSummaryResponse, error)
	ProjectAttempts(studentID uint, now time.Time) (*dto.AttemptHistoryResponse, error)
}

type statusService struct {
	testRepo    repository.TestRepository
	attemptRepo repository.AttemptRepository
	schedule    ScheduleService
}

func NewStatusService(testRepo repository.TestRepository, attemptRepo repository.AttemptRepository, schedule ScheduleService) StatusService {
	return &statusService{testRepo: testRepo, attemptRepo: attemptRepo, schedule: schedule}
}

func (s *statusService) ProjectTest(testID uint, now time.Time) (*dto.TestSummaryResponse, error) {
	test, err := s.testRepo.FindByID(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("test %d: %w", testID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("loading test %d: %w", testID, err)
	}
	return &dto.TestSummaryResponse{
		ID:        test.ID,
		Title:     test.Title,
		StartDate: test.StartDate,
		EndDate:   test.EndDate,
		Status:    s.schedule.DeriveStatus(test, now),
	}, nil
}

// bucket classifies one attempt against its test's derived status.
//
// Policy for the ambiguous pending/active combination (student admitted a
// ledger row but never started the clock while the window opened): the
// attempt stays actionable, so it buckets active while the window is open
// and completed once the test finishes. An attempt is never upcoming once
// its test window has opened.
func bucket(attempt *model.Attempt, testStatus model.TestStatus) dto.AttemptBucket {
	switch {
	case attempt.Terminal() || testStatus == model.TestFinished:
		return dto.BucketCompleted
	case attempt.Status == model.AttemptInProgress && testStatus == model.TestActive:
		return dto.BucketActive
	case attempt.Status == model.AttemptPending && testStatus == model.TestUpcoming:
		return dto.BucketUpcoming
	case attempt.Status == model.AttemptPending && testStatus == model.TestActive:
		return dto.BucketActive
	case testStatus == model.TestUpcoming:
		// In-progress against a not-yet-open window only happens after a
		// date edit; surface it as upcoming to match the test.
		return dto.BucketUpcoming
	default:
		return dto.BucketActive
	}
}

func (s *statusService) ProjectAttempts(studentID uint, now time.Time) (*dto.AttemptHistoryResponse, error) {
	attempts, err := s.attemptRepo.FindAllByStudent(studentID)
	if err != nil {
		log.Error().Err(err).Uint("studentID", studentID).Msg("ProjectAttempts: failed to load attempts")
		return nil, fmt.Errorf("loading attempts: %w", err)
	}

	resp := &dto.AttemptHistoryResponse{
		Upcoming:  []dto.ProjectedAttempt{},
		Active:    []dto.ProjectedAttempt{},
		Completed: []dto.ProjectedAttempt{},
	}
	for i := range attempts {
		attempt := &attempts[i]
		testStatus := s.schedule.DeriveStatus(&attempt.Test, now)

		var ar dto.AttemptResponse
		if err := copier.Copy(&ar, attempt); err != nil {
			log.Error().Err(err).Uint("attemptID", attempt.ID).Msg("ProjectAttempts: copy failed, skipping attempt")
			continue
		}
		projected := dto.ProjectedAttempt{
			Attempt:    ar,
			TestTitle:  attempt.Test.Title,
			TestStatus: testStatus,
			Bucket:     bucket(attempt, testStatus),
		}
		switch projected.Bucket {
		case dto.BucketUpcoming:
			resp.Upcoming = append(resp.Upcoming, projected)
		case dto.BucketActive:
			resp.Active = append(resp.Active, projected)
		default:
			resp.Completed = append(resp.Completed, projected)
		}
	}
	return resp, nil
}
