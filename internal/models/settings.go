package models

import "time"

// SiteSettings is the single row of site-wide configuration (id = 1)
type SiteSettings struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	BusinessName string    `gorm:"size:100" json:"business_name"`
	Tagline      string    `gorm:"size:255" json:"tagline"`
	LogoURL      string    `gorm:"size:500" json:"logo_url"`
	Phone        string    `gorm:"size:50" json:"phone"`
	Email        string    `gorm:"size:255" json:"email"`
	Address      string    `gorm:"size:255" json:"address"`
	HeroImages   []string  `gorm:"type:text;serializer:json" json:"hero_images"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (SiteSettings) TableName() string {
	return "site_settings"
}

// SiteSettingsInput replaces the site settings
type SiteSettingsInput struct {
	BusinessName string   `json:"business_name" binding:"max=100"`
	Tagline      string   `json:"tagline" binding:"max=255"`
	LogoURL      string   `json:"logo_url" binding:"max=500"`
	Phone        string   `json:"phone" binding:"max=50"`
	Email        string   `json:"email" binding:"omitempty,email,max=255"`
	Address      string   `json:"address" binding:"max=255"`
	HeroImages   []string `json:"hero_images" binding:"max=20,dive,max=500"`
}

// NavigationLink is an entry of the public navigation bar
type NavigationLink struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Label        string `gorm:"size:50;not null" json:"label"`
	URL          string `gorm:"size:255;not null" json:"url"`
	DisplayOrder int    `gorm:"not null" json:"display_order"`
}

func (NavigationLink) TableName() string {
	return "navigation_links"
}

// BusinessHours holds the opening hours of one weekday
type BusinessHours struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	DayOfWeek   string `gorm:"size:10;not null" json:"day_of_week"`
	OpeningTime string `gorm:"size:5" json:"opening_time"`
	ClosingTime string `gorm:"size:5" json:"closing_time"`
	IsClosed    bool   `gorm:"not null" json:"is_closed"`
}

func (BusinessHours) TableName() string {
	return "business_hours"
}

// BusinessHoursInput updates the hours of one weekday
type BusinessHoursInput struct {
	OpeningTime string `json:"opening_time" binding:"omitempty,hhmm"`
	ClosingTime string `json:"closing_time" binding:"omitempty,hhmm"`
	IsClosed    *Flag  `json:"is_closed"`
}

// AboutContent is the single row backing the about section (id = 1)
type AboutContent struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Header      string `gorm:"size:255" json:"header"`
	Paragraph   string `gorm:"type:text" json:"paragraph"`
	Phone       string `gorm:"size:50" json:"phone"`
	Email       string `gorm:"size:255" json:"email"`
	Address     string `gorm:"size:255" json:"address"`
	MapEmbedURL string `gorm:"size:1000" json:"map_embed_url"`
}

func (AboutContent) TableName() string {
	return "about_content"
}

// AboutInput replaces the about content
type AboutInput struct {
	Header      string `json:"header" binding:"max=255"`
	Paragraph   string `json:"paragraph" binding:"max=10000"`
	Phone       string `json:"phone" binding:"max=50"`
	Email       string `json:"email" binding:"omitempty,email,max=255"`
	Address     string `json:"address" binding:"max=255"`
	MapEmbedURL string `json:"map_embed_url" binding:"omitempty,url,max=1000"`
}

// FooterColumn is a titled group of footer links
type FooterColumn struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	ColumnTitle  string       `gorm:"size:100;not null" json:"column_title"`
	DisplayOrder int          `gorm:"not null" json:"display_order"`
	Links        []FooterLink `gorm:"foreignKey:ColumnID;constraint:OnDelete:CASCADE" json:"links"`
}

func (FooterColumn) TableName() string {
	return "footer_columns"
}

// FooterLink is a link inside a footer column
type FooterLink struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	ColumnID     uint   `gorm:"not null;index" json:"-"`
	Label        string `gorm:"size:100;not null" json:"label"`
	URL          string `gorm:"size:255;not null" json:"url"`
	DisplayOrder int    `gorm:"not null" json:"display_order"`
}

func (FooterLink) TableName() string {
	return "footer_links"
}
