package database

import (
	"errors"
	"fmt"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"gorm.io/gorm"
)

// Models lists every table owned by the API, parents before children
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.OAuthClient{},
		&models.OAuthToken{},
		&models.MediaAsset{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.Reservation{},
		&models.JobApplication{},
		&models.JobPosition{},
		&models.ApplicationField{},
		&models.ContactMessage{},
		&models.NewsletterSubscriber{},
		&models.SiteSettings{},
		&models.NavigationLink{},
		&models.BusinessHours{},
		&models.AboutContent{},
		&models.FooterColumn{},
		&models.FooterLink{},
	}
}

// Weekdays in the order business hours are listed
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Migrate creates or updates the schema and seeds the singleton rows
func Migrate(db *gorm.DB) error {
	log.Info("Running database migrations")
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := Seed(db); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	log.Info("Database migrations completed")
	return nil
}

// Seed inserts the rows the public site expects to exist. It only fills
// empty tables, so running it again never overwrites edited content.
func Seed(db *gorm.DB) error {
	if err := seedOnce(db, &models.SiteSettings{ID: 1, BusinessName: "Thunder Road", HeroImages: []string{}}); err != nil {
		return err
	}
	if err := seedOnce(db, &models.AboutContent{ID: 1, Header: "About Thunder Road"}); err != nil {
		return err
	}

	var count int64
	if err := db.Model(&models.BusinessHours{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		hours := make([]models.BusinessHours, 0, len(Weekdays))
		for _, day := range Weekdays {
			hours = append(hours, models.BusinessHours{DayOfWeek: day, OpeningTime: "11:00", ClosingTime: "22:00"})
		}
		if err := db.Create(&hours).Error; err != nil {
			return err
		}
		log.WithField("rows", len(hours)).Info("Seeded business hours")
	}

	if err := db.Model(&models.NavigationLink{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		links := []models.NavigationLink{
			{Label: "Home", URL: "#home", DisplayOrder: 0},
			{Label: "Menu", URL: "#menu", DisplayOrder: 1},
			{Label: "About", URL: "#about", DisplayOrder: 2},
			{Label: "Reservations", URL: "#reservations", DisplayOrder: 3},
			{Label: "Careers", URL: "#jobs", DisplayOrder: 4},
		}
		if err := db.Create(&links).Error; err != nil {
			return err
		}
		log.WithField("rows", len(links)).Info("Seeded navigation links")
	}
	return nil
}

// seedOnce inserts the singleton row unless id 1 already exists
func seedOnce[T any](db *gorm.DB, row *T) error {
	var existing T
	err := db.Take(&existing, 1).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(row).Error
}
