package controllers

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"github.com/franciscosanchezn/thunder-road-api/internal/services"
	"github.com/gin-gonic/gin"
)

// NewsletterController handles newsletter sign-ups
type NewsletterController interface {
	ListSubscribers(c *gin.Context)
	Subscribe(c *gin.Context)
	Unsubscribe(c *gin.Context)
	DeleteSubscriber(c *gin.Context)
}

type newsletterController struct {
	service services.NewsletterService
}

func NewNewsletterController(service services.NewsletterService) NewsletterController {
	return &newsletterController{service: service}
}

// ListSubscribers godoc
// @Summary List newsletter subscribers
// @Tags newsletter
// @Produce json
// @Success 200 {array} models.NewsletterSubscriber
// @Security BearerAuth
// @Router /api/newsletter/subscribers [get]
func (n *newsletterController) ListSubscribers(c *gin.Context) {
	subscribers, err := n.service.ListSubscribers(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Subscriber not found")
		return
	}
	c.JSON(http.StatusOK, subscribers)
}

// Subscribe godoc
// @Summary Subscribe to the newsletter
// @Tags newsletter
// @Accept json
// @Produce json
// @Param subscriber body models.SubscribeInput true "Subscriber"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.APIError "Invalid or already subscribed email"
// @Router /api/newsletter/subscribe [post]
func (n *newsletterController) Subscribe(c *gin.Context) {
	var input models.SubscribeInput
	if !bindJSON(c, &input) {
		return
	}
	id, err := n.service.Subscribe(c.Request.Context(), input)
	if errors.Is(err, services.ErrConflict) {
		respondError(c, http.StatusBadRequest, models.ErrConflict, "Email already subscribed")
		return
	}
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Subscriber not found")
		return
	}
	respondCreated(c, id, "Successfully subscribed to newsletter")
}

// Unsubscribe godoc
// @Summary Unsubscribe from the newsletter
// @Tags newsletter
// @Accept json
// @Produce json
// @Param body body models.UnsubscribeInput true "Email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Router /api/newsletter/unsubscribe [post]
func (n *newsletterController) Unsubscribe(c *gin.Context) {
	var input models.UnsubscribeInput
	if !bindJSON(c, &input) {
		return
	}
	if err := n.service.Unsubscribe(c.Request.Context(), input.Email); err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Subscriber not found")
		return
	}
	respondMessage(c, http.StatusOK, "Successfully unsubscribed")
}

// DeleteSubscriber godoc
// @Summary Delete a subscriber
// @Tags newsletter
// @Param id path int true "Subscriber ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/newsletter/subscribers/{id} [delete]
func (n *newsletterController) DeleteSubscriber(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := n.service.DeleteSubscriber(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Subscriber not found")
		return
	}
	respondMessage(c, http.StatusOK, "Subscriber deleted")
}
