package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"github.com/franciscosanchezn/thunder-road-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ContactController handles the contact form and the admin inbox
type ContactController interface {
	ListMessages(c *gin.Context)
	CreateMessage(c *gin.Context)
	MarkMessage(c *gin.Context)
	DeleteMessage(c *gin.Context)
}

type contactController struct {
	service services.ContactService
}

func NewContactController(service services.ContactService) ContactController {
	return &contactController{service: service}
}

type readInput struct {
	IsRead *models.Flag `json:"is_read" binding:"required"`
}

// ListMessages godoc
// @Summary List contact messages
// @Description Newest first. per_page is clamped to 10..100.
// @Tags contact
// @Produce json
// @Param page query int false "Page, starting at 1"
// @Param per_page query int false "Page size" default(25)
// @Success 200 {object} models.ContactPage
// @Security BearerAuth
// @Router /api/contact/messages [get]
func (ct *contactController) ListMessages(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", services.DefaultPerPage)
	result, err := ct.service.ListMessages(c.Request.Context(), page, perPage)
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Message not found")
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateMessage godoc
// @Summary Send a contact message
// @Description Control characters are stripped before validation. Limited per client IP.
// @Tags contact
// @Accept json
// @Produce json
// @Param message body models.ContactInput true "Message"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.APIError
// @Failure 429 {object} models.APIError
// @Router /api/contact [post]
func (ct *contactController) CreateMessage(c *gin.Context) {
	var input models.ContactInput
	if !bindJSON(c, &input) {
		return
	}
	id, err := ct.service.CreateMessage(c.Request.Context(), input)
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Message not found")
		return
	}
	respondCreated(c, id, "Message sent successfully")
}

// MarkMessage godoc
// @Summary Mark a message read or unread
// @Tags contact
// @Accept json
// @Produce json
// @Param id path int true "Message ID"
// @Param body body readInput true "Read flag"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/contact/messages/{id} [put]
func (ct *contactController) MarkMessage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input readInput
	if !bindJSON(c, &input) {
		return
	}
	if err := ct.service.SetRead(c.Request.Context(), id, input.IsRead.Bool()); err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Message not found")
		return
	}
	respondMessage(c, http.StatusOK, "Message updated")
}

// DeleteMessage godoc
// @Summary Delete a contact message
// @Tags contact
// @Param id path int true "Message ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/contact/messages/{id} [delete]
func (ct *contactController) DeleteMessage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ct.service.DeleteMessage(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Message not found")
		return
	}
	respondMessage(c, http.StatusOK, "Message deleted")
}
