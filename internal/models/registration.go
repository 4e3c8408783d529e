package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Registration struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	StudentID    string    `json:"student_id" gorm:"size:36;not null;uniqueIndex:idx_registration_student_event"`
	EventID      string    `json:"event_id" gorm:"size:36;not null;uniqueIndex:idx_registration_student_event"`
	Student      Student   `json:"-" gorm:"foreignKey:StudentID"`
	Event        Event     `json:"-" gorm:"foreignKey:EventID"`
	RegisteredAt time.Time `json:"registered_at"`
}

func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.RegisteredAt.IsZero() {
		r.RegisteredAt = time.Now().UTC()
	}
	return nil
}
