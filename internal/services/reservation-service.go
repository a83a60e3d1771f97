package services

import (
	"context"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var reservationStatuses = map[string]bool{
	models.ReservationPending:   true,
	models.ReservationConfirmed: true,
	models.ReservationCancelled: true,
	models.ReservationCompleted: true,
}

// ReservationService manages table bookings
type ReservationService interface {
	// ListReservations returns bookings, latest date and time first
	ListReservations(ctx context.Context) ([]models.Reservation, error)
	// CreateReservation stores a pending booking and returns its id
	CreateReservation(ctx context.Context, input models.ReservationInput) (uint, error)
	// UpdateStatus moves a booking through its workflow
	UpdateStatus(ctx context.Context, id uint, status string) error
	DeleteReservation(ctx context.Context, id uint) error
}

type reservationService struct {
	db *gorm.DB
}

func NewReservationService(db *gorm.DB) ReservationService {
	return &reservationService{db: db}
}

func (s *reservationService) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	reservations := []models.Reservation{}
	err := s.db.WithContext(ctx).
		Order("reservation_date DESC, reservation_time DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, translateError("list reservations", err)
	}
	return reservations, nil
}

func (s *reservationService) CreateReservation(ctx context.Context, input models.ReservationInput) (uint, error) {
	reservation := models.Reservation{
		Name:            input.Name,
		Email:           input.Email,
		Phone:           input.Phone,
		ReservationDate: input.ReservationDate,
		ReservationTime: input.ReservationTime,
		NumberOfGuests:  input.NumberOfGuests,
		SpecialRequests: input.SpecialRequests,
		Status:          models.ReservationPending,
	}
	if err := s.db.WithContext(ctx).Create(&reservation).Error; err != nil {
		return 0, translateError("create reservation", err)
	}
	log.WithFields(log.Fields{
		"reservation_id": reservation.ID,
		"date":           reservation.ReservationDate,
		"guests":         reservation.NumberOfGuests,
	}).Info("Reservation created")
	return reservation.ID, nil
}

func (s *reservationService) UpdateStatus(ctx context.Context, id uint, status string) error {
	if !reservationStatuses[status] {
		return invalidField("status", "oneof=pending confirmed cancelled completed")
	}
	result := s.db.WithContext(ctx).Model(&models.Reservation{}).Where("id = ?", id).Update("status", status)
	return affected("update reservation", result)
}

func (s *reservationService) DeleteReservation(ctx context.Context, id uint) error {
	return affected("delete reservation", s.db.WithContext(ctx).Delete(&models.Reservation{}, id))
}
