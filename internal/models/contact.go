package models

import "time"

// ContactMessage is a message left through the public contact form
type ContactMessage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Email       string    `gorm:"size:255;not null;index" json:"email"`
	Phone       string    `gorm:"size:50" json:"phone"`
	Subject     string    `gorm:"size:255" json:"subject"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	IsRead      bool      `gorm:"not null" json:"is_read"`
	SubmittedAt time.Time `gorm:"autoCreateTime;index" json:"submitted_at"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}

// ContactInput is the raw contact form; it is sanitized before validation
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ContactPage is one page of the admin inbox
type ContactPage struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PerPage  int              `json:"per_page"`
	Messages []ContactMessage `json:"messages"`
}

// NewsletterSubscriber is an email address signed up for the newsletter
type NewsletterSubscriber struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Name         string    `gorm:"size:100" json:"name"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	SubscribedAt time.Time `gorm:"autoCreateTime;index" json:"subscribed_at"`
}

func (NewsletterSubscriber) TableName() string {
	return "newsletter_subscribers"
}

// SubscribeInput is the newsletter sign-up form
type SubscribeInput struct {
	Email string `json:"email" binding:"required,email,max=255"`
	Name  string `json:"name" binding:"max=100"`
}

// UnsubscribeInput identifies the address to deactivate
type UnsubscribeInput struct {
	Email string `json:"email" binding:"required,email"`
}
