package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"github.com/franciscosanchezn/thunder-road-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ReservationController handles table bookings
type ReservationController interface {
	ListReservations(c *gin.Context)
	CreateReservation(c *gin.Context)
	UpdateReservationStatus(c *gin.Context)
	DeleteReservation(c *gin.Context)
}

type reservationController struct {
	service services.ReservationService
}

func NewReservationController(service services.ReservationService) ReservationController {
	return &reservationController{service: service}
}

// ListReservations godoc
// @Summary List reservations
// @Description Latest reservation date and time first
// @Tags reservations
// @Produce json
// @Success 200 {array} models.Reservation
// @Failure 401 {object} models.APIError
// @Security BearerAuth
// @Router /api/reservations [get]
func (r *reservationController) ListReservations(c *gin.Context) {
	reservations, err := r.service.ListReservations(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Reservation not found")
		return
	}
	c.JSON(http.StatusOK, reservations)
}

// CreateReservation godoc
// @Summary Book a table
// @Tags reservations
// @Accept json
// @Produce json
// @Param reservation body models.ReservationInput true "Booking"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.APIError
// @Router /api/reservations [post]
func (r *reservationController) CreateReservation(c *gin.Context) {
	var input models.ReservationInput
	if !bindJSON(c, &input) {
		return
	}
	id, err := r.service.CreateReservation(c.Request.Context(), input)
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Reservation not found")
		return
	}
	respondCreated(c, id, "Reservation created successfully")
}

// UpdateReservationStatus godoc
// @Summary Change the status of a reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path int true "Reservation ID"
// @Param status body models.StatusInput true "pending, confirmed, cancelled or completed"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/reservations/{id} [put]
func (r *reservationController) UpdateReservationStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input models.StatusInput
	if !bindJSON(c, &input) {
		return
	}
	if err := r.service.UpdateStatus(c.Request.Context(), id, input.Status); err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Reservation not found")
		return
	}
	respondMessage(c, http.StatusOK, "Reservation updated")
}

// DeleteReservation godoc
// @Summary Delete a reservation
// @Tags reservations
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/reservations/{id} [delete]
func (r *reservationController) DeleteReservation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := r.service.DeleteReservation(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Reservation not found")
		return
	}
	respondMessage(c, http.StatusOK, "Reservation deleted")
}
