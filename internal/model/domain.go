package model

import (
	"time"

	"gorm.io/gorm"
)

// Domain is a read-mostly subject area owned by the question store; the exam
// engine reads domain membership and question sets but never mutates them.
type Domain struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `json:"name" gorm:"not null;uniqueIndex"`
	Questions []Question     `json:"questions,omitempty" gorm:"foreignKey:DomainID"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
