package model

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	DomainID  uint           `json:"domain_id" gorm:"not null;index"`
	Section   string         `json:"section" gorm:"not null;size:64;index"`
	Prompt    string         `json:"prompt" gorm:"type:text;not null"`
	MaxMark   float64        `json:"max_mark" gorm:"not null;default:1"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
