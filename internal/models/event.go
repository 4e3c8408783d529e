package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EventStatusActive    = "active"
	EventStatusCancelled = "cancelled"
)

type Event struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	CollegeID   string    `json:"college_id" gorm:"size:36;not null"`
	College     College   `json:"-" gorm:"foreignKey:CollegeID"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	EventType   string    `json:"event_type" gorm:"not null"`
	StartTime   time.Time `json:"start_time" gorm:"not null"`
	EndTime     time.Time `json:"end_time" gorm:"not null"`
	Capacity    int       `json:"capacity" gorm:"not null"`
	Status      string    `json:"status" gorm:"default:active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = EventStatusActive
	}
	return nil
}
