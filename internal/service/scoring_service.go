package service

import (
	"errors"
	"fmt"

	"github.com/lshigami/Margays/internal/dto"
	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ScoringService owns mark writes. Creating a mark and correcting one are
// deliberately separate operations backed by opposite conditional updates so
// a first-score and a correction can never race onto the same null mark.
type ScoringService interface {
	AddMark(answerID uint, mark float64) (*dto.AnswerResponse, error)
	EditMark(answerID uint, mark float64) (*dto.AnswerResponse, error)
	ComputeTotal(studentID, domainID uint, testID *uint) (*dto.TotalScoreResponse, error)
}

type scoringService struct {
	answerRepo  repository.AnswerRepository
	attemptRepo repository.AttemptRepository
}

func NewScoringService(answerRepo repository.AnswerRepository, attemptRepo repository.AttemptRepository) ScoringService {
	return &scoringService{answerRepo: answerRepo, attemptRepo: attemptRepo}
}

func (s *scoringService) loadAnswer(answerID uint) (*model.Answer, error) {
	answer, err := s.answerRepo.FindByIDWithQuestion(answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("answer %d: %w", answerID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("loading answer %d: %w", answerID, err)
	}
	return answer, nil
}

func (s *scoringService) validateMark(answer *model.Answer, mark float64) error {
	if mark < 0 {
		return fmt.Errorf("mark must not be negative: %w", model.ErrValidation)
	}
	if answer.Question.ID != 0 && mark > answer.Question.MaxMark {
		return fmt.Errorf("mark %.2f exceeds question max %.2f: %w", mark, answer.Question.MaxMark, model.ErrValidation)
	}
	return nil
}

func (s *scoringService) AddMark(answerID uint, mark float64) (*dto.AnswerResponse, error) {
	answer, err := s.loadAnswer(answerID)
	if err != nil {
		return nil, err
	}
	if err := s.validateMark(answer, mark); err != nil {
		return nil, err
	}

	updated, err := s.answerRepo.SetMarkIfAbsent(answerID, mark)
	if err != nil {
		log.Error().Err(err).Uint("answerID", answerID).Msg("AddMark: conditional update failed")
		return nil, fmt.Errorf("adding mark: %w", err)
	}
	if !updated {
		return nil, model.ErrMarkAlreadyExists
	}
	return s.answerResponse(answer, mark)
}

func (s *scoringService) EditMark(answerID uint, mark float64) (*dto.AnswerResponse, error) {
	answer, err := s.loadAnswer(answerID)
	if err != nil {
		return nil, err
	}
	if err := s.validateMark(answer, mark); err != nil {
		return nil, err
	}

	updated, err := s.answerRepo.SetMarkIfPresent(answerID, mark)
	if err != nil {
		log.Error().Err(err).Uint("answerID", answerID).Msg("EditMark: conditional update failed")
		return nil, fmt.Errorf("editing mark: %w", err)
	}
	if !updated {
		return nil, model.ErrNoExistingMark
	}
	return s.answerResponse(answer, mark)
}

func (s *scoringService) answerResponse(answer *model.Answer, mark float64) (*dto.AnswerResponse, error) {
	return &dto.AnswerResponse{
		ID:            answer.ID,
		QuestionID:    answer.QuestionID,
		DomainID:      answer.DomainID,
		Section:       answer.Section,
		AnswerText:    answer.AnswerText,
		ImageURL:      answer.ImageURL,
		SubmittedAt:   answer.SubmittedAt,
		ExamStartTime: answer.ExamStartTime,
		ExamEndTime:   answer.ExamEndTime,
		Mark:          &mark,
	}, nil
}

// ComputeTotal sums marks (unset counts as zero) over the student's answers
// in the domain. With a test id it narrows the sum to that attempt's answers
// and persists the total onto the attempt.
func (s *scoringService) ComputeTotal(studentID, domainID uint, testID *uint) (*dto.TotalScoreResponse, error) {
	var attempt *model.Attempt
	var attemptID *uint
	if testID != nil {
		found, err := s.attemptRepo.FindByTestAndStudent(*testID, studentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, model.ErrNotStarted
			}
			return nil, fmt.Errorf("loading attempt: %w", err)
		}
		attempt = found
		attemptID = &found.ID
	}

	total, err := s.answerRepo.SumMarks(studentID, domainID, attemptID)
	if err != nil {
		log.Error().Err(err).Uint("studentID", studentID).Uint("domainID", domainID).Msg("ComputeTotal: sum failed")
		return nil, fmt.Errorf("summing marks: %w", err)
	}

	if attempt != nil {
		if _, err := s.attemptRepo.SetScore(attempt.ID, total); err != nil {
			log.Error().Err(err).Uint("attemptID", attempt.ID).Msg("ComputeTotal: persisting score failed")
			return nil, fmt.Errorf("persisting total: %w", err)
		}
	}

	return &dto.TotalScoreResponse{
		StudentID: studentID,
		DomainID:  domainID,
		TestID:    testID,
		Total:     total,
	}, nil
}
