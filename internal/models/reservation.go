package models

import "time"

// Reservation statuses
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
	ReservationCompleted = "completed"
)

// Reservation is a table booking made from the public site
type Reservation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:100;not null" json:"name"`
	Email           string    `gorm:"size:255;not null" json:"email"`
	Phone           string    `gorm:"size:50" json:"phone"`
	ReservationDate string    `gorm:"size:10;not null;index" json:"reservation_date"`
	ReservationTime string    `gorm:"size:5;not null" json:"reservation_time"`
	NumberOfGuests  int       `gorm:"not null" json:"number_of_guests"`
	SpecialRequests string    `gorm:"type:text" json:"special_requests"`
	Status          string    `gorm:"size:20;not null" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func (Reservation) TableName() string {
	return "reservations"
}

// ReservationInput is the public booking request
type ReservationInput struct {
	Name            string `json:"name" binding:"required,max=100"`
	Email           string `json:"email" binding:"required,email,max=255"`
	Phone           string `json:"phone" binding:"max=50"`
	ReservationDate string `json:"reservation_date" binding:"required,datetime=2006-01-02"`
	ReservationTime string `json:"reservation_time" binding:"required,hhmm"`
	NumberOfGuests  int    `json:"number_of_guests" binding:"required,min=1,max=50"`
	SpecialRequests string `json:"special_requests" binding:"max=2000"`
}

// StatusInput updates the workflow status of a reservation or job application
type StatusInput struct {
	Status string `json:"status" binding:"required"`
}
