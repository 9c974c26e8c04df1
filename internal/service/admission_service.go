package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/Margays/internal/dto"
	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AdmissionService decides whether a student may start or resume an attempt
// and allocates the exam window.
type AdmissionService interface {
	StartAttempt(studentID, testID, domainID uint, section string, now time.Time) (*dto.AttemptWindowResponse, error)
}

type admissionService struct {
	testRepo    repository.TestRepository
	domainRepo  repository.DomainRepository
	attemptRepo repository.AttemptRepository
	schedule    ScheduleService
}

func NewAdmissionService(
	testRepo repository.TestRepository,
	domainRepo repository.DomainRepository,
	attemptRepo repository.AttemptRepository,
	schedule ScheduleService,
) AdmissionService {
	return &admissionService{
		testRepo:    testRepo,
		domainRepo:  domainRepo,
		attemptRepo: attemptRepo,
		schedule:    schedule,
	}
}

// StartAttempt admits the student into the test, creating the ledger row on
// first entry and returning the existing window unchanged on re-entry. Two
// near-simultaneous calls race through the (test, student) uniqueness
// constraint: the losing writer reads the winner's row back instead of
// erroring, so both callers receive the same window.
func (s *admissionService) StartAttempt(studentID, testID, domainID uint, section string, now time.Time) (*dto.AttemptWindowResponse, error) {
	test, err := s.testRepo.FindByIDWithDomains(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("test %d: %w", testID, model.ErrNotFound)
		}
		log.Error().Err(err).Uint("testID", testID).Msg("StartAttempt: failed to load test")
		return nil, fmt.Errorf("loading test %d: %w", testID, err)
	}

	if s.schedule.DeriveStatus(test, now) != model.TestActive {
		return nil, model.ErrNotActive
	}
	if !test.HasDomain(domainID) {
		return nil, model.ErrDomainNotInTest
	}
	if !test.HasSection(section) {
		return nil, model.ErrInvalidSection
	}
	if !test.IsEligible(studentID) {
		return nil, model.ErrNotEligible
	}

	attempt := &model.Attempt{
		TestID:    testID,
		StudentID: studentID,
		DomainID:  domainID,
		Section:   section,
		StartTime: now,
		DueTime:   now.Add(test.Duration()),
		Status:    model.AttemptInProgress,
	}

	created, err := s.attemptRepo.CreateIfAbsent(attempt)
	if err != nil {
		log.Error().Err(err).Uint("testID", testID).Uint("studentID", studentID).Msg("StartAttempt: attempt insert failed")
		return nil, fmt.Errorf("creating attempt: %w", err)
	}
	if !created {
		existing, err := s.attemptRepo.FindByTestAndStudent(testID, studentID)
		if err != nil {
			log.Error().Err(err).Uint("testID", testID).Uint("studentID", studentID).Msg("StartAttempt: failed to read back existing attempt")
			return nil, fmt.Errorf("loading existing attempt: %w", err)
		}
		if existing.Terminal() {
			return nil, model.ErrAlreadyCompleted
		}
		if now.After(existing.DueTime) {
			// Stale window: flip it terminally expired rather than
			// handing the student a dead clock.
			if _, expErr := s.attemptRepo.ExpireIfDue(existing.ID, now); expErr != nil {
				log.Error().Err(expErr).Uint("attemptID", existing.ID).Msg("StartAttempt: lazy expiry update failed")
			}
			return nil, model.ErrExamExpired
		}
		// Idempotent re-entry: the recorded window and domain/section
		// win over whatever the client sent this time.
		attempt = existing
	}

	questions, err := s.domainRepo.FindQuestions(attempt.DomainID, attempt.Section)
	if err != nil {
		log.Error().Err(err).Uint("domainID", attempt.DomainID).Str("section", attempt.Section).Msg("StartAttempt: failed to load question set")
		return nil, fmt.Errorf("loading questions: %w", err)
	}

	resp := &dto.AttemptWindowResponse{
		AttemptID: attempt.ID,
		TestID:    attempt.TestID,
		DomainID:  attempt.DomainID,
		Section:   attempt.Section,
		StartTime: attempt.StartTime,
		DueTime:   attempt.DueTime,
		Questions: make([]dto.QuestionResponse, 0, len(questions)),
	}
	for _, q := range questions {
		resp.Questions = append(resp.Questions, dto.QuestionResponse{
			ID:       q.ID,
			DomainID: q.DomainID,
			Section:  q.Section,
			Prompt:   q.Prompt,
			MaxMark:  q.MaxMark,
		})
	}
	return resp, nil
}
