package services

import (
	"context"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var applicationStatuses = map[string]bool{
	models.ApplicationPending:   true,
	models.ApplicationReviewed:  true,
	models.ApplicationInterview: true,
	models.ApplicationHired:     true,
	models.ApplicationRejected:  true,
}

// JobService manages the careers section: applications, open positions and
// the extra fields shown on the application form
type JobService interface {
	ListApplications(ctx context.Context) ([]models.JobApplication, error)
	CreateApplication(ctx context.Context, input models.JobApplicationInput) (uint, error)
	UpdateApplicationStatus(ctx context.Context, id uint, status string) error
	DeleteApplication(ctx context.Context, id uint) error

	ListPositions(ctx context.Context) ([]models.JobPosition, error)
	ListPublicPositions(ctx context.Context) ([]models.PublicJobPosition, error)
	CreatePosition(ctx context.Context, input models.JobPositionInput) (uint, error)
	SetPositionActive(ctx context.Context, id uint, active bool) error
	DeletePosition(ctx context.Context, id uint) error

	ListFields(ctx context.Context) ([]models.ApplicationField, error)
	CreateField(ctx context.Context, input models.ApplicationFieldInput) (uint, error)
	DeleteField(ctx context.Context, id uint) error
}

type jobService struct {
	db *gorm.DB
}

func NewJobService(db *gorm.DB) JobService {
	return &jobService{db: db}
}

func (s *jobService) ListApplications(ctx context.Context) ([]models.JobApplication, error) {
	applications := []models.JobApplication{}
	if err := s.db.WithContext(ctx).Order("submitted_at DESC, id DESC").Find(&applications).Error; err != nil {
		return nil, translateError("list applications", err)
	}
	return applications, nil
}

func (s *jobService) CreateApplication(ctx context.Context, input models.JobApplicationInput) (uint, error) {
	application := models.JobApplication{
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		Position:    input.Position,
		Experience:  input.Experience,
		CoverLetter: input.CoverLetter,
		ResumeURL:   input.ResumeURL,
		Status:      models.ApplicationPending,
	}
	if err := s.db.WithContext(ctx).Create(&application).Error; err != nil {
		return 0, translateError("create application", err)
	}
	log.WithFields(log.Fields{
		"application_id": application.ID,
		"position":       application.Position,
	}).Info("Job application received")
	return application.ID, nil
}

func (s *jobService) UpdateApplicationStatus(ctx context.Context, id uint, status string) error {
	if !applicationStatuses[status] {
		return invalidField("status", "oneof=pending reviewed interview hired rejected")
	}
	result := s.db.WithContext(ctx).Model(&models.JobApplication{}).Where("id = ?", id).Update("status", status)
	return affected("update application", result)
}

func (s *jobService) DeleteApplication(ctx context.Context, id uint) error {
	return affected("delete application", s.db.WithContext(ctx).Delete(&models.JobApplication{}, id))
}

func (s *jobService) ListPositions(ctx context.Context) ([]models.JobPosition, error) {
	positions := []models.JobPosition{}
	if err := s.db.WithContext(ctx).Order("display_order, id").Find(&positions).Error; err != nil {
		return nil, translateError("list positions", err)
	}
	return positions, nil
}

func (s *jobService) ListPublicPositions(ctx context.Context) ([]models.PublicJobPosition, error) {
	positions := []models.PublicJobPosition{}
	err := s.db.WithContext(ctx).
		Model(&models.JobPosition{}).
		Select("id, name, description").
		Where("is_active = ?", true).
		Order("display_order, id").
		Scan(&positions).Error
	if err != nil {
		return nil, translateError("list public positions", err)
	}
	return positions, nil
}

func (s *jobService) CreatePosition(ctx context.Context, input models.JobPositionInput) (uint, error) {
	position := models.JobPosition{
		Name:         input.Name,
		Description:  input.Description,
		DisplayOrder: intOr(input.DisplayOrder, 0),
		IsActive:     flagOr(input.IsActive, true),
	}
	if err := s.db.WithContext(ctx).Create(&position).Error; err != nil {
		return 0, translateError("create position", err)
	}
	return position.ID, nil
}

func (s *jobService) SetPositionActive(ctx context.Context, id uint, active bool) error {
	result := s.db.WithContext(ctx).Model(&models.JobPosition{}).Where("id = ?", id).Update("is_active", active)
	return affected("update position", result)
}

func (s *jobService) DeletePosition(ctx context.Context, id uint) error {
	return affected("delete position", s.db.WithContext(ctx).Delete(&models.JobPosition{}, id))
}

func (s *jobService) ListFields(ctx context.Context) ([]models.ApplicationField, error) {
	fields := []models.ApplicationField{}
	if err := s.db.WithContext(ctx).Order("display_order, id").Find(&fields).Error; err != nil {
		return nil, translateError("list application fields", err)
	}
	return fields, nil
}

func (s *jobService) CreateField(ctx context.Context, input models.ApplicationFieldInput) (uint, error) {
	fieldType := input.FieldType
	if fieldType == "" {
		fieldType = "text"
	}
	if fieldType == "select" && (input.Options == nil || *input.Options == "") {
		return 0, invalidField("options", "required for select fields")
	}
	field := models.ApplicationField{
		FieldName:    input.FieldName,
		FieldType:    fieldType,
		Required:     flagOr(input.Required, false),
		Options:      input.Options,
		DisplayOrder: intOr(input.DisplayOrder, 0),
	}
	if err := s.db.WithContext(ctx).Create(&field).Error; err != nil {
		return 0, translateError("create application field", err)
	}
	return field.ID, nil
}

func (s *jobService) DeleteField(ctx context.Context, id uint) error {
	return affected("delete application field", s.db.WithContext(ctx).Delete(&models.ApplicationField{}, id))
}
