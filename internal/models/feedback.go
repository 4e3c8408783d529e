package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Feedback struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	StudentID   string    `json:"student_id" gorm:"size:36;not null;uniqueIndex:idx_feedback_student_event"`
	EventID     string    `json:"event_id" gorm:"size:36;not null;uniqueIndex:idx_feedback_student_event"`
	Student     Student   `json:"-" gorm:"foreignKey:StudentID"`
	Event       Event     `json:"-" gorm:"foreignKey:EventID"`
	Rating      int       `json:"rating" gorm:"not null"`
	Comment     string    `json:"comment"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.SubmittedAt.IsZero() {
		f.SubmittedAt = time.Now().UTC()
	}
	return nil
}
