package services

import (
	"context"
	"errors"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"gorm.io/gorm"
)

// singletonID is the primary key of the site settings and about rows
const singletonID = 1

// SettingsService serves the editable site content: settings, navigation,
// business hours, the about section and the footer
type SettingsService interface {
	GetSiteSettings(ctx context.Context) (*models.SiteSettings, error)
	UpdateSiteSettings(ctx context.Context, input models.SiteSettingsInput) error
	ListNavigation(ctx context.Context) ([]models.NavigationLink, error)
	ListBusinessHours(ctx context.Context) ([]models.BusinessHours, error)
	UpdateBusinessHours(ctx context.Context, id uint, input models.BusinessHoursInput) error
	GetAbout(ctx context.Context) (*models.AboutContent, error)
	UpdateAbout(ctx context.Context, input models.AboutInput) error
	ListFooterColumns(ctx context.Context) ([]models.FooterColumn, error)
}

type settingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) SettingsService {
	return &settingsService{db: db}
}

func (s *settingsService) GetSiteSettings(ctx context.Context) (*models.SiteSettings, error) {
	var settings models.SiteSettings
	err := s.db.WithContext(ctx).Take(&settings, singletonID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translateError("load site settings", err)
	}
	if settings.HeroImages == nil {
		settings.HeroImages = []string{}
	}
	return &settings, nil
}

func (s *settingsService) UpdateSiteSettings(ctx context.Context, input models.SiteSettingsInput) error {
	heroImages := input.HeroImages
	if heroImages == nil {
		heroImages = []string{}
	}
	settings := models.SiteSettings{
		ID:           singletonID,
		BusinessName: input.BusinessName,
		Tagline:      input.Tagline,
		LogoURL:      input.LogoURL,
		Phone:        input.Phone,
		Email:        input.Email,
		Address:      input.Address,
		HeroImages:   heroImages,
	}
	// Save upserts, so a database seeded before the row existed still works
	if err := s.db.WithContext(ctx).Save(&settings).Error; err != nil {
		return translateError("update site settings", err)
	}
	return nil
}

func (s *settingsService) ListNavigation(ctx context.Context) ([]models.NavigationLink, error) {
	links := []models.NavigationLink{}
	if err := s.db.WithContext(ctx).Order("display_order, id").Find(&links).Error; err != nil {
		return nil, translateError("list navigation", err)
	}
	return links, nil
}

func (s *settingsService) ListBusinessHours(ctx context.Context) ([]models.BusinessHours, error) {
	hours := []models.BusinessHours{}
	if err := s.db.WithContext(ctx).Order("id").Find(&hours).Error; err != nil {
		return nil, translateError("list business hours", err)
	}
	return hours, nil
}

func (s *settingsService) UpdateBusinessHours(ctx context.Context, id uint, input models.BusinessHoursInput) error {
	closed := flagOr(input.IsClosed, false)
	if !closed && (input.OpeningTime == "" || input.ClosingTime == "") {
		return invalidField("opening_time", "required unless is_closed")
	}
	result := s.db.WithContext(ctx).Model(&models.BusinessHours{}).Where("id = ?", id).Updates(map[string]interface{}{
		"opening_time": input.OpeningTime,
		"closing_time": input.ClosingTime,
		"is_closed":    closed,
	})
	return affected("update business hours", result)
}

func (s *settingsService) GetAbout(ctx context.Context) (*models.AboutContent, error) {
	var about models.AboutContent
	err := s.db.WithContext(ctx).Take(&about, singletonID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translateError("load about content", err)
	}
	return &about, nil
}

func (s *settingsService) UpdateAbout(ctx context.Context, input models.AboutInput) error {
	about := models.AboutContent{
		ID:          singletonID,
		Header:      input.Header,
		Paragraph:   input.Paragraph,
		Phone:       input.Phone,
		Email:       input.Email,
		Address:     input.Address,
		MapEmbedURL: input.MapEmbedURL,
	}
	if err := s.db.WithContext(ctx).Save(&about).Error; err != nil {
		return translateError("update about content", err)
	}
	return nil
}

func (s *settingsService) ListFooterColumns(ctx context.Context) ([]models.FooterColumn, error) {
	columns := []models.FooterColumn{}
	err := s.db.WithContext(ctx).
		Preload("Links", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order, id")
		}).
		Order("display_order, id").
		Find(&columns).Error
	if err != nil {
		return nil, translateError("list footer columns", err)
	}
	for i := range columns {
		if columns[i].Links == nil {
			columns[i].Links = []models.FooterLink{}
		}
	}
	return columns, nil
}
