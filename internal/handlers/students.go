package handlers

import (
	"context"
	"errors"

	"github.com/campuspulse/campus-events-api/internal/auth"
	"github.com/campuspulse/campus-events-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type StudentHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewStudentHandler(db *gorm.DB, authHandler *auth.AuthHandler) *StudentHandler {
	return &StudentHandler{db: db, authHandler: authHandler}
}

type CreateStudentInput struct {
	auth.AuthInput
	Body struct {
		CollegeID string `json:"college_id" required:"true" doc:"College the student belongs to"`
		Name      string `json:"name" required:"true" minLength:"1"`
		Email     string `json:"email" required:"true" format:"email"`
	}
}

type CreateStudentOutput struct {
	Body models.Student
}

func (h *StudentHandler) HandleCreate(ctx context.Context, input *CreateStudentInput) (*CreateStudentOutput, error) {
	if err := h.authHandler.Authorize(ctx, input.Authorization); err != nil {
		return nil, err
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

	student := models.Student{
		CollegeID: input.Body.CollegeID,
		Name:      input.Body.Name,
		Email:     input.Body.Email,
	}
	if err := h.db.WithContext(ctx).Create(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, huma.Error409Conflict("Student with this email already exists")
		}
		return nil, huma.Error500InternalServerError("Failed to create student")
	}

	return &CreateStudentOutput{Body: student}, nil
}

type ListStudentsInput struct {
	CollegeID string `query:"college_id" doc:"Filter by college"`
	Email     string `query:"email" doc:"Look up a single student by email"`
}

type ListStudentsOutput struct {
	Body []models.Student
}

func (h *StudentHandler) HandleList(ctx context.Context, input *ListStudentsInput) (*ListStudentsOutput, error) {
	q := h.db.WithContext(ctx).Model(&models.Student{})
	if input.CollegeID != "" {
		q = q.Where("college_id = ?", input.CollegeID)
	}
	if input.Email != "" {
		q = q.Where("email = ?", input.Email)
	}

	students := []models.Student{}
	if err := q.Find(&students).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list students")
	}
	if input.Email != "" && len(students) == 0 {
		return nil, huma.Error404NotFound("Student not found")
	}

	return &ListStudentsOutput{Body: students}, nil
}
