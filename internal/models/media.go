package models

import "time"

// MediaAsset is an uploaded file tracked in the media library
type MediaAsset struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FileURL    string    `gorm:"size:500;not null" json:"file_url"`
	FileName   string    `gorm:"size:255" json:"file_name"`
	StorageKey string    `gorm:"size:255" json:"-"`
	FileType   string    `gorm:"size:100" json:"file_type"`
	FileSize   int64     `json:"file_size"`
	Title      string    `gorm:"size:255" json:"title"`
	AltText    string    `gorm:"size:255" json:"alt_text"`
	Category   string    `gorm:"size:50;index" json:"category"`
	UploadedAt time.Time `gorm:"autoCreateTime;index" json:"uploaded_at"`
}

func (MediaAsset) TableName() string {
	return "media_library"
}
