package handlers

import (
	"context"

	"github.com/campuspulse/campus-events-api/internal/reports"
	"github.com/danielgtaylor/huma/v2"
)

type ReportHandler struct {
	service *reports.Service
}

func NewReportHandler(service *reports.Service) *ReportHandler {
	return &ReportHandler{service: service}
}

type EventPopularityInput struct {
	EventType string `query:"event_type" doc:"Filter by event type"`
	CollegeID string `query:"college_id" doc:"Filter by college"`
}

type EventPopularityOutput struct {
	Body []reports.EventPopularityRow
}

func (h *ReportHandler) HandleEventPopularity(ctx context.Context, input *EventPopularityInput) (*EventPopularityOutput, error) {
	rows, err := h.service.EventPopularity(ctx, input.EventType, input.CollegeID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to build popularity report")
	}

	return &EventPopularityOutput{Body: rows}, nil
}

type EventAttendanceInput struct {
	ID string `path:"id"`
}

type EventAttendanceOutput struct {
	Body reports.EventAttendanceReport
}

func (h *ReportHandler) HandleEventAttendance(ctx context.Context, input *EventAttendanceInput) (*EventAttendanceOutput, error) {
	report, err := h.service.EventAttendance(ctx, input.ID)
	if err != nil {
		return nil, mapLifecycleError(err)
	}

	return &EventAttendanceOutput{Body: *report}, nil
}

type StudentSummaryInput struct {
	ID string `path:"id"`
}

type StudentSummaryOutput struct {
	Body reports.StudentSummaryReport
}

func (h *ReportHandler) HandleStudentSummary(ctx context.Context, input *StudentSummaryInput) (*StudentSummaryOutput, error) {
	report, err := h.service.StudentSummary(ctx, input.ID)
	if err != nil {
		return nil, mapLifecycleError(err)
	}

	return &StudentSummaryOutput{Body: *report}, nil
}

type TopActiveStudentsInput struct {
	Limit     int    `query:"limit" minimum:"1" doc:"Rows to return, default 3"`
	CollegeID string `query:"college_id" doc:"Filter by college"`
}

type TopActiveStudentsOutput struct {
	Body []reports.ActiveStudentRow
}

func (h *ReportHandler) HandleTopActiveStudents(ctx context.Context, input *TopActiveStudentsInput) (*TopActiveStudentsOutput, error) {
	rows, err := h.service.TopActiveStudents(ctx, input.Limit, input.CollegeID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to rank students")
	}

	return &TopActiveStudentsOutput{Body: rows}, nil
}

type EventTypeStatsOutput struct {
	Body []reports.EventTypeStatsRow
}

func (h *ReportHandler) HandleEventTypeStats(ctx context.Context, input *struct{}) (*EventTypeStatsOutput, error) {
	rows, err := h.service.EventTypeStats(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to build event type report")
	}

	return &EventTypeStatsOutput{Body: rows}, nil
}
