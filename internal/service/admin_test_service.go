package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lshigami/Margays/config"
	"github.com/lshigami/Margays/internal/dto"
	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AdminTestService interface {
	CreateTest(req dto.CreateTestRequest, now time.Time) (*dto.TestResponse, error)
	ListTests(now time.Time) ([]dto.TestSummaryResponse, error)
	GetTest(testID uint, now time.Time) (*dto.TestResponse, error)
}

type adminTestService struct {
	testRepo        repository.TestRepository
	domainRepo      repository.DomainRepository
	schedule        ScheduleService
	defaultDuration int
}

func NewAdminTestService(
	cfg *config.Config,
	testRepo repository.TestRepository,
	domainRepo repository.DomainRepository,
	schedule ScheduleService,
) AdminTestService {
	return &adminTestService{
		testRepo:        testRepo,
		domainRepo:      domainRepo,
		schedule:        schedule,
		defaultDuration: cfg.Exam.DefaultDurationMinutes,
	}
}

// validateNewTest is the factory-level validation that replaces any implicit
// pre-save hook: it runs before a persistence call is made and nothing is
// written when it fails.
func validateNewTest(req *dto.CreateTestRequest, now time.Time) error {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return fmt.Errorf("title must not be blank: %w", model.ErrValidation)
	}
	if len(req.DomainIDs) == 0 {
		return fmt.Errorf("a test needs at least one domain: %w", model.ErrValidation)
	}
	if len(req.Sections) == 0 {
		return fmt.Errorf("a test needs at least one section: %w", model.ErrValidation)
	}
	if !req.EndDate.After(req.StartDate) {
		return fmt.Errorf("end date must be after start date: %w", model.ErrValidation)
	}
	if req.StartDate.Before(now) {
		return fmt.Errorf("start date must not be in the past: %w", model.ErrValidation)
	}
	if req.DurationMinutes < 0 {
		return fmt.Errorf("duration must be positive: %w", model.ErrValidation)
	}
	return nil
}

func (s *adminTestService) CreateTest(req dto.CreateTestRequest, now time.Time) (*dto.TestResponse, error) {
	if err := validateNewTest(&req, now); err != nil {
		return nil, err
	}

	exists, err := s.testRepo.TitleExists(req.Title)
	if err != nil {
		return nil, fmt.Errorf("checking title: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("a test titled %q already exists: %w", req.Title, model.ErrValidation)
	}

	domains, err := s.domainRepo.FindByIDs(req.DomainIDs)
	if err != nil {
		return nil, fmt.Errorf("loading domains: %w", err)
	}
	if len(domains) != len(req.DomainIDs) {
		return nil, fmt.Errorf("one or more domains do not exist: %w", model.ErrNotFound)
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = s.defaultDuration
	}

	test := &model.Test{
		Title:            req.Title,
		Description:      req.Description,
		Domains:          domains,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		DurationMinutes:  duration,
		Sections:         datatypes.NewJSONSlice(req.Sections),
		EligibleStudents: datatypes.NewJSONSlice(req.EligibleStudents),
		Status:           model.TestUpcoming,
	}

	if err := s.testRepo.Create(test); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("CreateTest: insert failed")
		return nil, fmt.Errorf("creating test: %w", err)
	}
	return s.testResponse(test, now), nil
}

func (s *adminTestService) ListTests(now time.Time) ([]dto.TestSummaryResponse, error) {
	tests, err := s.testRepo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("ListTests: query failed")
		return nil, fmt.Errorf("listing tests: %w", err)
	}
	summaries := make([]dto.TestSummaryResponse, 0, len(tests))
	for i := range tests {
		summaries = append(summaries, dto.TestSummaryResponse{
			ID:        tests[i].ID,
			Title:     tests[i].Title,
			StartDate: tests[i].StartDate,
			EndDate:   tests[i].EndDate,
			Status:    s.schedule.DeriveStatus(&tests[i], now),
		})
	}
	return summaries, nil
}

func (s *adminTestService) GetTest(testID uint, now time.Time) (*dto.TestResponse, error) {
	test, err := s.testRepo.FindByIDWithDomains(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("test %d: %w", testID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("loading test %d: %w", testID, err)
	}
	return s.testResponse(test, now), nil
}

func (s *adminTestService) testResponse(test *model.Test, now time.Time) *dto.TestResponse {
	resp := &dto.TestResponse{
		ID:               test.ID,
		Title:            test.Title,
		Description:      test.Description,
		StartDate:        test.StartDate,
		EndDate:          test.EndDate,
		DurationMinutes:  test.DurationMinutes,
		Sections:         test.Sections,
		EligibleStudents: test.EligibleStudents,
		Status:           s.schedule.DeriveStatus(test, now),
		CreatedAt:        test.CreatedAt,
	}
	for _, d := range test.Domains {
		resp.Domains = append(resp.Domains, dto.DomainResponse{ID: d.ID, Name: d.Name})
	}
	return resp
}
