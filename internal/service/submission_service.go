package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Margays/config"
	"github.com/lshigami/Margays/internal/dto"
	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SubmissionService gates every answer write against the exam clock and owns
// the explicit terminal transition of an attempt.
type SubmissionService interface {
	SubmitAnswer(studentID uint, req dto.SubmitAnswerRequest, now time.Time) (*dto.AnswerResponse, error)
	FinishAttempt(studentID, testID uint, now time.Time) (*dto.AttemptResponse, error)
}

type submissionService struct {
	domainRepo   repository.DomainRepository
	attemptRepo  repository.AttemptRepository
	answerRepo   repository.AnswerRepository
	examDuration time.Duration
}

func NewSubmissionService(
	cfg *config.Config,
	domainRepo repository.DomainRepository,
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
) SubmissionService {
	return &submissionService{
		domainRepo:   domainRepo,
		attemptRepo:  attemptRepo,
		answerRepo:   answerRepo,
		examDuration: time.Duration(cfg.Exam.DefaultDurationMinutes) * time.Minute,
	}
}

// SubmitAnswer recomputes the deadline from the client's exam-start snapshot
// plus the fixed exam duration, independent of the attempt ledger. The caller
// must have obtained that start time from a prior successful admission. A
// re-submission before the deadline fully replaces the earlier answer for the
// same (student, question, domain, section) key.
func (s *submissionService) SubmitAnswer(studentID uint, req dto.SubmitAnswerRequest, now time.Time) (*dto.AnswerResponse, error) {
	answerText := strings.TrimSpace(req.AnswerText)
	if answerText == "" {
		return nil, fmt.Errorf("answer text must not be empty: %w", model.ErrValidation)
	}

	examEndTime := req.ExamStartTime.Add(s.examDuration)
	if now.After(examEndTime) {
		return nil, model.ErrExamExpired
	}

	question, err := s.domainRepo.FindQuestion(req.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question %d: %w", req.QuestionID, model.ErrNotFound)
		}
		log.Error().Err(err).Uint("questionID", req.QuestionID).Msg("SubmitAnswer: failed to load question")
		return nil, fmt.Errorf("loading question %d: %w", req.QuestionID, err)
	}
	if question.DomainID != req.DomainID || question.Section != req.Section {
		return nil, fmt.Errorf("question %d does not belong to domain %d section %q: %w",
			req.QuestionID, req.DomainID, req.Section, model.ErrValidation)
	}

	answer := &model.Answer{
		StudentID:     studentID,
		QuestionID:    req.QuestionID,
		DomainID:      req.DomainID,
		Section:       req.Section,
		AnswerText:    answerText,
		ImageURL:      req.ImageURL,
		SubmittedAt:   now,
		ExamStartTime: req.ExamStartTime,
		ExamEndTime:   examEndTime,
		IsSubmitted:   true,
	}

	// Best-effort attempt linkage; the gate itself never consults the
	// ledger for the deadline.
	if attempt, err := s.attemptRepo.FindActiveByStudentAndDomain(studentID, req.DomainID); err == nil {
		answer.AttemptID = &attempt.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn().Err(err).Uint("studentID", studentID).Uint("domainID", req.DomainID).Msg("SubmitAnswer: attempt lookup failed, answer stays unlinked")
	}

	if err := s.answerRepo.Upsert(answer); err != nil {
		log.Error().Err(err).Uint("studentID", studentID).Uint("questionID", req.QuestionID).Msg("SubmitAnswer: upsert failed")
		return nil, fmt.Errorf("saving answer: %w", err)
	}

	var resp dto.AnswerResponse
	if err := copier.Copy(&resp, answer); err != nil {
		return nil, fmt.Errorf("preparing answer response: %w", err)
	}
	return &resp, nil
}

// FinishAttempt is the sole terminal-state writer besides lazy expiry. It
// records endTime = now and classifies the outcome by the recorded due time.
func (s *submissionService) FinishAttempt(studentID, testID uint, now time.Time) (*dto.AttemptResponse, error) {
	attempt, err := s.attemptRepo.FindByTestAndStudent(testID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotStarted
		}
		log.Error().Err(err).Uint("testID", testID).Uint("studentID", studentID).Msg("FinishAttempt: failed to load attempt")
		return nil, fmt.Errorf("loading attempt: %w", err)
	}

	status := model.AttemptCompleted
	if now.After(attempt.DueTime) {
		status = model.AttemptExpired
	}

	finished, err := s.attemptRepo.Finish(attempt.ID, status, now)
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attempt.ID).Msg("FinishAttempt: terminal update failed")
		return nil, fmt.Errorf("finishing attempt: %w", err)
	}
	if !finished {
		// Lost to a concurrent finish or lazy expiry.
		return nil, model.ErrAlreadyCompleted
	}

	attempt.Status = status
	attempt.EndTime = &now

	var resp dto.AttemptResponse
	if err := copier.Copy(&resp, attempt); err != nil {
		return nil, fmt.Errorf("preparing attempt response: %w", err)
	}
	return &resp, nil
}
