package handlers

import (
	"context"

	"github.com/campuspulse/campus-events-api/internal/models"
	"github.com/campuspulse/campus-events-api/internal/participation"
	"github.com/danielgtaylor/huma/v2"
)

type ParticipationHandler struct {
	service *participation.Service
}

func NewParticipationHandler(service *participation.Service) *ParticipationHandler {
	return &ParticipationHandler{service: service}
}

// mapLifecycleError converts the core's error taxonomy into HTTP status
// codes. Anything unclassified is an internal store failure.
func mapLifecycleError(err error) error {
	switch {
	case participation.IsNotFound(err):
		return huma.Error404NotFound(err.Error())
	case participation.IsForbidden(err):
		return huma.Error403Forbidden(err.Error())
	case participation.IsConflict(err):
		return huma.Error409Conflict(err.Error())
	case participation.IsCapacityExceeded(err):
		return huma.Error409Conflict(err.Error())
	case participation.IsValidation(err):
		return huma.Error422UnprocessableEntity(err.Error())
	default:
		return huma.Error500InternalServerError("Failed to process request")
	}
}

type RegisterInput struct {
	EventID string `path:"id"`
	Body    struct {
		StudentID string `json:"student_id" required:"true"`
	}
}

type RegisterOutput struct {
	Body models.Registration
}

func (h *ParticipationHandler) HandleRegister(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	registration, err := h.service.Register(ctx, input.EventID, input.Body.StudentID)
	if err != nil {
		return nil, mapLifecycleError(err)
	}

	return &RegisterOutput{Body: *registration}, nil
}

type CheckInInput struct {
	EventID string `path:"id"`
	Body    struct {
		StudentID string `json:"student_id" required:"true"`
		Method    string `json:"method,omitempty" enum:"manual,qr_code,mobile_app" doc:"Defaults to manual"`
	}
}

type CheckInOutput struct {
	Body models.Attendance
}

func (h *ParticipationHandler) HandleCheckIn(ctx context.Context, input *CheckInInput) (*CheckInOutput, error) {
	attendance, err := h.service.CheckIn(ctx, input.EventID, input.Body.StudentID, input.Body.Method)
	if err != nil {
		return nil, mapLifecycleError(err)
	}

	return &CheckInOutput{Body: *attendance}, nil
}

type FeedbackInput struct {
	EventID string `path:"id"`
	Body    struct {
		StudentID string `json:"student_id" required:"true"`
		Rating    int    `json:"rating" required:"true" minimum:"1" maximum:"5"`
		Comment   string `json:"comment,omitempty"`
	}
}

type FeedbackOutput struct {
	Body models.Feedback
}

func (h *ParticipationHandler) HandleFeedback(ctx context.Context, input *FeedbackInput) (*FeedbackOutput, error) {
	feedback, err := h.service.SubmitFeedback(ctx, input.EventID, input.Body.StudentID, input.Body.Rating, input.Body.Comment)
	if err != nil {
		return nil, mapLifecycleError(err)
	}

	return &FeedbackOutput{Body: *feedback}, nil
}
