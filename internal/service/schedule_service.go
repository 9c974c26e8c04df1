package service

import (
	"time"

	"github.com/lshigami/Margays/internal/model"
)

// ScheduleService is the single authority for mapping a test's configured
// window to a status. It is pure: callers sample "now" once per logical
// operation and thread it through every check so one request observes one
// consistent instant.
type ScheduleService interface {
	DeriveStatus(test *model.Test, now time.Time) model.TestStatus
}

type scheduleService struct{}

func NewScheduleService() ScheduleService {
	return &scheduleService{}
}

func (s *scheduleService) DeriveStatus(test *model.Test, now time.Time) model.TestStatus {
	switch {
	case now.Before(test.StartDate):
		return model.TestUpcoming
	case now.After(test.EndDate):
		return model.TestFinished
	default:
		return model.TestActive
	}
}
