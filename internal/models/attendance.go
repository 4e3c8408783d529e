package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CheckInMethodManual    = "manual"
	CheckInMethodQRCode    = "qr_code"
	CheckInMethodMobileApp = "mobile_app"
)

type Attendance struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	StudentID   string    `json:"student_id" gorm:"size:36;not null;uniqueIndex:idx_attendance_student_event"`
	EventID     string    `json:"event_id" gorm:"size:36;not null;uniqueIndex:idx_attendance_student_event"`
	Student     Student   `json:"-" gorm:"foreignKey:StudentID"`
	Event       Event     `json:"-" gorm:"foreignKey:EventID"`
	CheckedInAt time.Time `json:"checked_in_at"`
	Method      string    `json:"method" gorm:"default:manual"`
}

func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CheckedInAt.IsZero() {
		a.CheckedInAt = time.Now().UTC()
	}
	return nil
}
