package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/campuspulse/campus-events-api/internal/auth"
	"github.com/campuspulse/campus-events-api/internal/models"
	"github.com/campuspulse/campus-events-api/internal/notifier"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type EventHandler struct {
	db          *gorm.DB
	notifier    notifier.Notifier
	authHandler *auth.AuthHandler
}

func NewEventHandler(db *gorm.DB, n notifier.Notifier, authHandler *auth.AuthHandler) *EventHandler {
	return &EventHandler{db: db, notifier: n, authHandler: authHandler}
}

type CreateEventInput struct {
	auth.AuthInput
	Body struct {
		CollegeID   string    `json:"college_id" required:"true" doc:"College hosting the event"`
		Title       string    `json:"title" required:"true" minLength:"1"`
		Description string    `json:"description,omitempty"`
		EventType   string    `json:"event_type" required:"true" minLength:"1" doc:"e.g. Workshop, Seminar, Fest"`
		StartTime   time.Time `json:"start_time" required:"true"`
		EndTime     time.Time `json:"end_time" required:"true"`
		Capacity    int       `json:"capacity" required:"true" minimum:"1"`
	}
}

type EventOutput struct {
	Body models.Event
}

func (h *EventHandler) HandleCreate(ctx context.Context, input *CreateEventInput) (*EventOutput, error) {
	if err := h.authHandler.Authorize(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if !input.Body.EndTime.After(input.Body.StartTime) {
		return nil, huma.Error422UnprocessableEntity("End time must be after start time")
	}

	var collegeCount int64
	if err := h.db.WithContext(ctx).Model(&models.College{}).
		Where("id = ?", input.Body.CollegeID).
		Count(&collegeCount).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to look up college")
	}
	if collegeCount == 0 {
		return nil, huma.Error404NotFound("College not found")
	}

	event := models.Event{
		CollegeID:   input.Body.CollegeID,
		Title:       input.Body.Title,
		Description: input.Body.Description,
		EventType:   input.Body.EventType,
		StartTime:   input.Body.StartTime,
		EndTime:     input.Body.EndTime,
		Capacity:    input.Body.Capacity,
		Status:      models.EventStatusActive,
	}
	if err := h.db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create event")
	}

	if h.notifier != nil {
		if err := h.notifier.EventPublished(event); err != nil {
			log.Printf("Failed to announce event %s: %v", event.ID, err)
		}
	}

	return &EventOutput{Body: event}, nil
}

type ListEventsInput struct {
	CollegeID string `query:"college_id" doc:"Filter by college"`
	EventType string `query:"event_type" doc:"Filter by event type"`
	Status    string `query:"status" doc:"Filter by status (active or cancelled)"`
}

type ListEventsOutput struct {
	Body []models.Event
}

func (h *EventHandler) HandleList(ctx context.Context, input *ListEventsInput) (*ListEventsOutput, error) {
	q := h.db.WithContext(ctx).Model(&models.Event{})
	if input.CollegeID != "" {
		q = q.Where("college_id = ?", input.CollegeID)
	}
	if input.EventType != "" {
		q = q.Where("event_type = ?", input.EventType)
	}
	if input.Status != "" {
		q = q.Where("status = ?", input.Status)
	}

	events := []models.Event{}
	if err := q.Find(&events).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list events")
	}

	return &ListEventsOutput{Body: events}, nil
}

type GetEventInput struct {
	ID string `path:"id"`
}

func (h *EventHandler) HandleGet(ctx context.Context, input *GetEventInput) (*EventOutput, error) {
	var event models.Event
	if err := h.db.WithContext(ctx).First(&event, "id = ?", input.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Event not found")
		}
		return nil, huma.Error500InternalServerError("Failed to load event")
	}

	return &EventOutput{Body: event}, nil
}

type CancelEventInput struct {
	auth.AuthInput
	ID string `path:"id"`
}

// HandleCancel flips the event to cancelled. Registrations and their child
// records are kept; cancellation is a status transition, not a delete.
func (h *EventHandler) HandleCancel(ctx context.Context, input *CancelEventInput) (*EventOutput, error) {
	if err := h.authHandler.Authorize(ctx, input.Authorization); err != nil {
		return nil, err
	}

	var event models.Event
	if err := h.db.WithContext(ctx).First(&event, "id = ?", input.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Event not found")
		}
		return nil, huma.Error500InternalServerError("Failed to load event")
	}
	if event.Status == models.EventStatusCancelled {
		return nil, huma.Error409Conflict("Event is already cancelled")
	}

	if err := h.db.WithContext(ctx).Model(&event).
		Update("status", models.EventStatusCancelled).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to cancel event")
	}
	event.Status = models.EventStatusCancelled

	if h.notifier != nil {
		if err := h.notifier.EventCancelled(event); err != nil {
			log.Printf("Failed to announce cancellation of event %s: %v", event.ID, err)
		}
	}

	return &EventOutput{Body: event}, nil
}
