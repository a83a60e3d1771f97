package services

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Inbox paging bounds
const (
	DefaultPerPage = 25
	MinPerPage     = 10
	MaxPerPage     = 100
)

// ContactService stores messages from the public contact form
type ContactService interface {
	// ListMessages returns one page of the inbox, newest first
	ListMessages(ctx context.Context, page, perPage int) (*models.ContactPage, error)
	// CreateMessage sanitizes and validates input before storing it
	CreateMessage(ctx context.Context, input models.ContactInput) (uint, error)
	SetRead(ctx context.Context, id uint, read bool) error
	DeleteMessage(ctx context.Context, id uint) error
}

type contactService struct {
	db       *gorm.DB
	validate *validator.Validate
}

func NewContactService(db *gorm.DB) ContactService {
	return &contactService{db: db, validate: validator.New()}
}

// ClampPage normalizes paging parameters: page is at least 1, perPage falls
// back to DefaultPerPage when unset and is clamped to [MinPerPage, MaxPerPage]
func ClampPage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage < MinPerPage {
		perPage = MinPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

func (s *contactService) ListMessages(ctx context.Context, page, perPage int) (*models.ContactPage, error) {
	page, perPage = ClampPage(page, perPage)
	db := s.db.WithContext(ctx)

	result := &models.ContactPage{Page: page, PerPage: perPage, Messages: []models.ContactMessage{}}
	if err := db.Model(&models.ContactMessage{}).Count(&result.Total).Error; err != nil {
		return nil, translateError("count messages", err)
	}
	err := db.Order("submitted_at DESC, id DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&result.Messages).Error
	if err != nil {
		return nil, translateError("list messages", err)
	}
	return result, nil
}

// sanitize strips control characters and surrounding whitespace
func sanitize(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s))
}

func (s *contactService) CreateMessage(ctx context.Context, input models.ContactInput) (uint, error) {
	msg := models.ContactMessage{
		Name:    sanitize(input.Name),
		Email:   sanitize(input.Email),
		Phone:   sanitize(input.Phone),
		Subject: sanitize(input.Subject),
		Message: sanitize(input.Message),
	}

	fields := map[string]string{}
	check := func(field, value, rule string) {
		if err := s.validate.Var(value, rule); err != nil {
			if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
				fields[field] = verrs[0].Tag()
				return
			}
			fields[field] = "invalid"
		}
	}
	check("name", msg.Name, "required")
	check("email", msg.Email, "required,email,max=255")
	check("message", msg.Message, "required")
	if utf8.RuneCountInString(msg.Name) > 100 {
		fields["name"] = "max"
	}
	if utf8.RuneCountInString(msg.Message) > 2000 {
		fields["message"] = "max"
	}
	if utf8.RuneCountInString(msg.Subject) > 255 {
		fields["subject"] = "max"
	}
	if utf8.RuneCountInString(msg.Phone) > 50 {
		fields["phone"] = "max"
	}
	if len(fields) > 0 {
		return 0, &ValidationError{Fields: fields}
	}

	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return 0, translateError("create message", err)
	}
	log.WithField("message_id", msg.ID).Info("Contact message received")
	return msg.ID, nil
}

func (s *contactService) SetRead(ctx context.Context, id uint, read bool) error {
	result := s.db.WithContext(ctx).Model(&models.ContactMessage{}).Where("id = ?", id).Update("is_read", read)
	return affected("update message", result)
}

func (s *contactService) DeleteMessage(ctx context.Context, id uint) error {
	return affected("delete message", s.db.WithContext(ctx).Delete(&models.ContactMessage{}, id))
}
