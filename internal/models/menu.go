package models

import (
	"time"
)

// MenuCategory groups menu items on the public site
type MenuCategory struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	Name           string      `gorm:"size:100;not null" json:"name"`
	Description    string      `gorm:"type:text" json:"description"`
	ImageURL       string      `gorm:"size:500" json:"image_url"`
	GalleryImageID *uint       `json:"gallery_image_id"`
	GalleryImage   *MediaAsset `gorm:"foreignKey:GalleryImageID;constraint:OnDelete:SET NULL" json:"-"`
	DisplayOrder   int         `gorm:"not null;index" json:"display_order"`
	IsActive       bool        `gorm:"not null" json:"is_active"`
	Items          []MenuItem  `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func (MenuCategory) TableName() string {
	return "menu_categories"
}

// MenuItem belongs to exactly one MenuCategory
type MenuItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CategoryID   uint      `gorm:"not null;index" json:"category_id"`
	Name         string    `gorm:"size:150;not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	Price        Price     `gorm:"type:decimal(10,2)" json:"price"`
	ImageURL     string    `gorm:"size:500" json:"image_url"`
	DisplayOrder int       `gorm:"not null;index" json:"display_order"`
	IsAvailable  bool      `gorm:"not null" json:"is_available"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}

// CategoryView is the public shape of an active category with its available items
type CategoryView struct {
	ID              uint       `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	ImageURL        string     `json:"image_url"`
	GalleryImageURL *string    `json:"gallery_image_url"`
	DisplayOrder    int        `json:"display_order"`
	Items           []ItemView `json:"items"`
}

// ItemView is the public shape of a menu item
type ItemView struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Price        Price  `json:"price"`
	ImageURL     string `json:"image_url"`
	DisplayOrder int    `json:"display_order"`
}

// AdminCategoryView adds the editing fields hidden from the public menu
type AdminCategoryView struct {
	ID              uint            `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	ImageURL        string          `json:"image_url"`
	GalleryImageID  *uint           `json:"gallery_image_id"`
	GalleryImageURL *string         `json:"gallery_image_url"`
	DisplayOrder    int             `json:"display_order"`
	IsActive        bool            `json:"is_active"`
	Items           []AdminItemView `json:"items"`
}

// AdminItemView adds the editing fields hidden from the public menu
type AdminItemView struct {
	ID           uint   `json:"id"`
	CategoryID   uint   `json:"category_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Price        Price  `json:"price"`
	ImageURL     string `json:"image_url"`
	DisplayOrder int    `json:"display_order"`
	IsAvailable  bool   `json:"is_available"`
}

// CategoryInput is the body of category create (POST) and full update (PUT).
// On update every omitted field is written as its zero value.
type CategoryInput struct {
	Name           string `json:"name" binding:"required,notblank,max=100"`
	Description    string `json:"description" binding:"max=2000"`
	ImageURL       string `json:"image_url" binding:"max=500"`
	GalleryImageID *uint  `json:"gallery_image_id"`
	DisplayOrder   *int   `json:"display_order"`
	IsActive       *Flag  `json:"is_active"`
}

// CategoryPatch changes only the fields that are present.
// A gallery_image_id of 0 clears the gallery image.
type CategoryPatch struct {
	Name           *string `json:"name" binding:"omitempty,notblank,max=100"`
	Description    *string `json:"description" binding:"omitempty,max=2000"`
	ImageURL       *string `json:"image_url" binding:"omitempty,max=500"`
	GalleryImageID *uint   `json:"gallery_image_id"`
	DisplayOrder   *int    `json:"display_order"`
	IsActive       *Flag   `json:"is_active"`
}

// ItemInput is the body of item create (POST) and full update (PUT).
// category_id is required on create; on update a zero value keeps the
// item in its current category.
type ItemInput struct {
	CategoryID   uint   `json:"category_id"`
	Name         string `json:"name" binding:"required,notblank,max=150"`
	Description  string `json:"description" binding:"max=2000"`
	Price        Price  `json:"price"`
	ImageURL     string `json:"image_url" binding:"max=500"`
	DisplayOrder *int   `json:"display_order"`
	IsAvailable  *Flag  `json:"is_available"`
}

// ItemPatch changes only the fields that are present.
// A price of "" clears the price.
type ItemPatch struct {
	CategoryID   *uint   `json:"category_id" binding:"omitempty,min=1"`
	Name         *string `json:"name" binding:"omitempty,notblank,max=150"`
	Description  *string `json:"description" binding:"omitempty,max=2000"`
	Price        *Price  `json:"price"`
	ImageURL     *string `json:"image_url" binding:"omitempty,max=500"`
	DisplayOrder *int    `json:"display_order"`
	IsAvailable  *Flag   `json:"is_available"`
}
