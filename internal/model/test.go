package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TestStatus is always derived from the window dates; the persisted Status
// column is advisory only.
type TestStatus string

const (
	TestUpcoming TestStatus = "upcoming"
	TestActive   TestStatus = "active"
	TestFinished TestStatus = "finished"
)

type Test struct {
	ID               uint                        `gorm:"primarykey" json:"id"`
	Title            string                      `json:"title" gorm:"not null;uniqueIndex"`
	Description      string                      `json:"description,omitempty"`
	Domains          []Domain                    `json:"domains,omitempty" gorm:"many2many:test_domains;"`
	StartDate        time.Time                   `json:"start_date" gorm:"not null;index"`
	EndDate          time.Time                   `json:"end_date" gorm:"not null;index"`
	DurationMinutes  int                         `json:"duration_minutes" gorm:"not null;default:60"`
	Sections         datatypes.JSONSlice[string] `json:"sections"`
	EligibleStudents datatypes.JSONSlice[uint]   `json:"eligible_students"` // empty = open to all
	Status           TestStatus                  `json:"status" gorm:"default:'upcoming'"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
	DeletedAt        gorm.DeletedAt              `gorm:"index" json:"-"`
}

// Duration returns the per-attempt exam clock length.
func (t *Test) Duration() time.Duration {
	return time.Duration(t.DurationMinutes) * time.Minute
}

// HasDomain reports whether the given domain belongs to the test. Domains
// must be preloaded.
func (t *Test) HasDomain(domainID uint) bool {
	for _, d := range t.Domains {
		if d.ID == domainID {
			return true
		}
	}
	return false
}

func (t *Test) HasSection(section string) bool {
	for _, s := range t.Sections {
		if s == section {
			return true
		}
	}
	return false
}

// IsEligible reports whether the student may sit the test. An empty
// eligible-student list means the test is open to everyone.
func (t *Test) IsEligible(studentID uint) bool {
	if len(t.EligibleStudents) == 0 {
		return true
	}
	for _, id := range t.EligibleStudents {
		if id == studentID {
			return true
		}
	}
	return false
}
