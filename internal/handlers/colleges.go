package handlers

import (
	"context"

	"github.com/campuspulse/campus-events-api/internal/auth"
	"github.com/campuspulse/campus-events-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type CollegeHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewCollegeHandler(db *gorm.DB, authHandler *auth.AuthHandler) *CollegeHandler {
	return &CollegeHandler{db: db, authHandler: authHandler}
}

type CreateCollegeInput struct {
	auth.AuthInput
	Body struct {
		Name string `json:"name" required:"true" minLength:"1" doc:"College name"`
	}
}

type CreateCollegeOutput struct {
	Body models.College
}

func (h *CollegeHandler) HandleCreate(ctx context.Context, input *CreateCollegeInput) (*CreateCollegeOutput, error) {
	if err := h.authHandler.Authorize(ctx, input.Authorization); err != nil {
		return nil, err
	}

	college := models.College{Name: input.Body.Name}
	if err := h.db.WithContext(ctx).Create(&college).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create college")
	}

	return &CreateCollegeOutput{Body: college}, nil
}

type ListCollegesOutput struct {
	Body []models.College
}

func (h *CollegeHandler) HandleList(ctx context.Context, input *struct{}) (*ListCollegesOutput, error) {
	colleges := []models.College{}
	if err := h.db.WithContext(ctx).Find(&colleges).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list colleges")
	}

	return &ListCollegesOutput{Body: colleges}, nil
}
