package services

import (
	"context"
	"strings"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"gorm.io/gorm"
)

// NewsletterService manages newsletter subscriptions
type NewsletterService interface {
	ListSubscribers(ctx context.Context) ([]models.NewsletterSubscriber, error)
	// Subscribe adds an address, or reactivates one that unsubscribed.
	// An address that is already active yields ErrConflict.
	Subscribe(ctx context.Context, input models.SubscribeInput) (uint, error)
	// Unsubscribe deactivates the address. Unknown addresses are not an error
	// so the endpoint cannot be used to probe the list.
	Unsubscribe(ctx context.Context, email string) error
	DeleteSubscriber(ctx context.Context, id uint) error
}

type newsletterService struct {
	db *gorm.DB
}

func NewNewsletterService(db *gorm.DB) NewsletterService {
	return &newsletterService{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *newsletterService) ListSubscribers(ctx context.Context) ([]models.NewsletterSubscriber, error) {
	subscribers := []models.NewsletterSubscriber{}
	if err := s.db.WithContext(ctx).Order("subscribed_at DESC, id DESC").Find(&subscribers).Error; err != nil {
		return nil, translateError("list subscribers", err)
	}
	return subscribers, nil
}

func (s *newsletterService) Subscribe(ctx context.Context, input models.SubscribeInput) (uint, error) {
	db := s.db.WithContext(ctx)
	email := normalizeEmail(input.Email)

	result := db.Model(&models.NewsletterSubscriber{}).
		Where("email = ? AND is_active = ?", email, false).
		Updates(map[string]interface{}{"is_active": true, "name": input.Name})
	if result.Error != nil {
		return 0, translateError("reactivate subscriber", result.Error)
	}
	if result.RowsAffected > 0 {
		var existing models.NewsletterSubscriber
		if err := db.Where("email = ?", email).Take(&existing).Error; err != nil {
			return 0, translateError("load subscriber", err)
		}
		return existing.ID, nil
	}

	subscriber := models.NewsletterSubscriber{Email: email, Name: input.Name, IsActive: true}
	if err := db.Create(&subscriber).Error; err != nil {
		return 0, translateError("create subscriber", err)
	}
	return subscriber.ID, nil
}

func (s *newsletterService) Unsubscribe(ctx context.Context, email string) error {
	err := s.db.WithContext(ctx).Model(&models.NewsletterSubscriber{}).
		Where("email = ?", normalizeEmail(email)).
		Update("is_active", false).Error
	return translateError("unsubscribe", err)
}

func (s *newsletterService) DeleteSubscriber(ctx context.Context, id uint) error {
	return affected("delete subscriber", s.db.WithContext(ctx).Delete(&models.NewsletterSubscriber{}, id))
}
