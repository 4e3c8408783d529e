package participation

import (
	"context"
	"errors"
	"log"

	"github.com/campuspulse/campus-events-api/internal/models"
	"github.com/campuspulse/campus-events-api/internal/notifier"
	"gorm.io/gorm"
)

// Service enforces the per-(student, event) lifecycle:
// Unregistered -> Registered -> Attended -> FeedbackGiven. Each operation
// runs its precondition checks and its insert in one transaction; the
// composite unique indexes are the backstop against concurrent duplicates.
type Service struct {
	db       *gorm.DB
	notifier notifier.Notifier
}

func NewService(db *gorm.DB, n notifier.Notifier) *Service {
	return &Service{db: db, notifier: n}
}

// Register admits a student to an active event of their own college,
// subject to the event's capacity.
func (s *Service) Register(ctx context.Context, eventID, studentID string) (*models.Registration, error) {
	var registration models.Registration
	var filled bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, "id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		var student models.Student
		if err := tx.First(&student, "id = ?", studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotFound
			}
			return err
		}

		if event.Status != models.EventStatusActive {
			return ErrEventCancelled
		}
		if student.CollegeID != event.CollegeID {
			return ErrCollegeMismatch
		}

		var existing int64
		if err := tx.Model(&models.Registration{}).
			Where("student_id = ? AND event_id = ?", studentID, eventID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyRegistered
		}

		var count int64
		if err := tx.Model(&models.Registration{}).
			Where("event_id = ?", eventID).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(event.Capacity) {
			return ErrEventFull
		}

		registration = models.Registration{StudentID: studentID, EventID: eventID}
		if err := tx.Create(&registration).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyRegistered
			}
			return err
		}

		filled = count+1 == int64(event.Capacity)
		if filled {
			registration.Event = event
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if filled && s.notifier != nil {
		if err := s.notifier.EventFull(registration.Event); err != nil {
			log.Printf("Failed to announce full event %s: %v", eventID, err)
		}
	}

	return &registration, nil
}

// CheckIn records attendance for a registered student. An empty method
// defaults to manual.
func (s *Service) CheckIn(ctx context.Context, eventID, studentID, method string) (*models.Attendance, error) {
	if method == "" {
		method = models.CheckInMethodManual
	}
	switch method {
	case models.CheckInMethodManual, models.CheckInMethodQRCode, models.CheckInMethodMobileApp:
	default:
		return nil, ErrInvalidCheckInMethod
	}

	var attendance models.Attendance
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := firstExists(tx, &models.Event{}, eventID, ErrEventNotFound); err != nil {
			return err
		}
		if err := firstExists(tx, &models.Student{}, studentID, ErrStudentNotFound); err != nil {
			return err
		}

		var registered int64
		if err := tx.Model(&models.Registration{}).
			Where("student_id = ? AND event_id = ?", studentID, eventID).
			Count(&registered).Error; err != nil {
			return err
		}
		if registered == 0 {
			return ErrNotRegistered
		}

		var existing int64
		if err := tx.Model(&models.Attendance{}).
			Where("student_id = ? AND event_id = ?", studentID, eventID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyCheckedIn
		}

		attendance = models.Attendance{StudentID: studentID, EventID: eventID, Method: method}
		if err := tx.Create(&attendance).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyCheckedIn
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &attendance, nil
}

// SubmitFeedback records a rating and optional comment for an attended event.
func (s *Service) SubmitFeedback(ctx context.Context, eventID, studentID string, rating int, comment string) (*models.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	var feedback models.Feedback
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := firstExists(tx, &models.Event{}, eventID, ErrEventNotFound); err != nil {
			return err
		}
		if err := firstExists(tx, &models.Student{}, studentID, ErrStudentNotFound); err != nil {
			return err
		}

		var attended int64
		if err := tx.Model(&models.Attendance{}).
			Where("student_id = ? AND event_id = ?", studentID, eventID).
			Count(&attended).Error; err != nil {
			return err
		}
		if attended == 0 {
			return ErrNotAttended
		}

		var existing int64
		if err := tx.Model(&models.Feedback{}).
			Where("student_id = ? AND event_id = ?", studentID, eventID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrFeedbackExists
		}

		feedback = models.Feedback{StudentID: studentID, EventID: eventID, Rating: rating, Comment: comment}
		if err := tx.Create(&feedback).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrFeedbackExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &feedback, nil
}

func firstExists(tx *gorm.DB, model any, id string, notFound error) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFound
	}
	return nil
}
