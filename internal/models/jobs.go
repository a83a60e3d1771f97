package models

import "time"

// Job application statuses
const (
	ApplicationPending   = "pending"
	ApplicationReviewed  = "reviewed"
	ApplicationInterview = "interview"
	ApplicationHired     = "hired"
	ApplicationRejected  = "rejected"
)

// JobApplication is submitted by candidates from the public jobs section
type JobApplication struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Email       string    `gorm:"size:255;not null" json:"email"`
	Phone       string    `gorm:"size:50" json:"phone"`
	Position    string    `gorm:"size:100;not null" json:"position"`
	Experience  string    `gorm:"type:text" json:"experience"`
	CoverLetter string    `gorm:"type:text" json:"cover_letter"`
	ResumeURL   string    `gorm:"size:500" json:"resume_url"`
	Status      string    `gorm:"size:20;not null" json:"status"`
	SubmittedAt time.Time `gorm:"autoCreateTime;index" json:"submitted_at"`
}

func (JobApplication) TableName() string {
	return "job_applications"
}

// JobApplicationInput is the public application form
type JobApplicationInput struct {
	Name        string `json:"name" binding:"required,notblank,max=100"`
	Email       string `json:"email" binding:"required,email,max=255"`
	Phone       string `json:"phone" binding:"max=50"`
	Position    string `json:"position" binding:"required,max=100"`
	Experience  string `json:"experience" binding:"max=5000"`
	CoverLetter string `json:"cover_letter" binding:"max=5000"`
	ResumeURL   string `json:"resume_url" binding:"omitempty,max=500"`
}

// JobPosition is an opening that can be toggled on the public site
type JobPosition struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	DisplayOrder int       `gorm:"not null" json:"display_order"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (JobPosition) TableName() string {
	return "job_positions"
}

// JobPositionInput creates a position
type JobPositionInput struct {
	Name         string `json:"name" binding:"required,notblank,max=100"`
	Description  string `json:"description" binding:"max=2000"`
	DisplayOrder *int   `json:"display_order"`
	IsActive     *Flag  `json:"is_active"`
}

// PublicJobPosition is the subset of a position exposed publicly
type PublicJobPosition struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ApplicationField is an extra, admin-defined field on the application form
type ApplicationField struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FieldName    string    `gorm:"size:100;not null" json:"field_name"`
	FieldType    string    `gorm:"size:20;not null" json:"field_type"`
	Required     bool      `gorm:"not null" json:"required"`
	Options      *string   `gorm:"type:text" json:"options"`
	DisplayOrder int       `gorm:"not null" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

func (ApplicationField) TableName() string {
	return "application_fields"
}

// ApplicationFieldInput creates an application field
type ApplicationFieldInput struct {
	FieldName    string  `json:"field_name" binding:"required,notblank,max=100"`
	FieldType    string  `json:"field_type" binding:"omitempty,oneof=text textarea email tel number select checkbox date"`
	Required     *Flag   `json:"required"`
	Options      *string `json:"options"`
	DisplayOrder *int    `json:"display_order"`
}
