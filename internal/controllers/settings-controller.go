package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"github.com/franciscosanchezn/thunder-road-api/internal/services"
	"github.com/gin-gonic/gin"
)

// SettingsController serves the site-wide content blocks
type SettingsController interface {
	GetSiteSettings(c *gin.Context)
	UpdateSiteSettings(c *gin.Context)
	ListNavigation(c *gin.Context)
	ListBusinessHours(c *gin.Context)
	UpdateBusinessHours(c *gin.Context)
	GetAbout(c *gin.Context)
	UpdateAbout(c *gin.Context)
	ListFooterColumns(c *gin.Context)
}

type settingsController struct {
	service services.SettingsService
}

func NewSettingsController(service services.SettingsService) SettingsController {
	return &settingsController{service: service}
}

// GetSiteSettings godoc
// @Summary Get site settings
// @Tags settings
// @Produce json
// @Success 200 {object} models.SiteSettings
// @Router /api/site-settings [get]
func (s *settingsController) GetSiteSettings(c *gin.Context) {
	settings, err := s.service.GetSiteSettings(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Settings not found")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSiteSettings godoc
// @Summary Replace site settings
// @Tags settings
// @Accept json
// @Produce json
// @Param settings body models.SiteSettingsInput true "Settings"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/site-settings [put]
func (s *settingsController) UpdateSiteSettings(c *gin.Context) {
	var input models.SiteSettingsInput
	if !bindJSON(c, &input) {
		return
	}
	if err := s.service.UpdateSiteSettings(c.Request.Context(), input); err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Settings not found")
		return
	}
	respondMessage(c, http.StatusOK, "Settings updated")
}

// ListNavigation godoc
// @Summary List navigation links
// @Tags settings
// @Produce json
// @Success 200 {array} models.NavigationLink
// @Router /api/navigation [get]
func (s *settingsController) ListNavigation(c *gin.Context) {
	links, err := s.service.ListNavigation(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Navigation not found")
		return
	}
	c.JSON(http.StatusOK, links)
}

// ListBusinessHours godoc
// @Summary List opening hours
// @Tags settings
// @Produce json
// @Success 200 {array} models.BusinessHours
// @Router /api/business-hours [get]
func (s *settingsController) ListBusinessHours(c *gin.Context) {
	hours, err := s.service.ListBusinessHours(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Business hours not found")
		return
	}
	c.JSON(http.StatusOK, hours)
}

// UpdateBusinessHours godoc
// @Summary Update the hours of one weekday
// @Tags settings
// @Accept json
// @Produce json
// @Param id path int true "Business hours ID"
// @Param hours body models.BusinessHoursInput true "Hours (HH:MM)"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/business-hours/{id} [put]
func (s *settingsController) UpdateBusinessHours(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input models.BusinessHoursInput
	if !bindJSON(c, &input) {
		return
	}
	if err := s.service.UpdateBusinessHours(c.Request.Context(), id, input); err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Business hours not found")
		return
	}
	respondMessage(c, http.StatusOK, "Business hours updated")
}

// GetAbout godoc
// @Summary Get the about section
// @Tags settings
// @Produce json
// @Success 200 {object} models.AboutContent
// @Router /api/about [get]
func (s *settingsController) GetAbout(c *gin.Context) {
	about, err := s.service.GetAbout(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "About content not found")
		return
	}
	c.JSON(http.StatusOK, about)
}

// UpdateAbout godoc
// @Summary Replace the about section
// @Tags settings
// @Accept json
// @Produce json
// @Param about body models.AboutInput true "About content"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/about [put]
func (s *settingsController) UpdateAbout(c *gin.Context) {
	var input models.AboutInput
	if !bindJSON(c, &input) {
		return
	}
	if err := s.service.UpdateAbout(c.Request.Context(), input); err != nil {
		handleServiceError(c, err, models.ErrNotFound, "About content not found")
		return
	}
	respondMessage(c, http.StatusOK, "About content updated")
}

// ListFooterColumns godoc
// @Summary List footer columns with their links
// @Tags settings
// @Produce json
// @Success 200 {array} models.FooterColumn
// @Router /api/footer-columns [get]
func (s *settingsController) ListFooterColumns(c *gin.Context) {
	columns, err := s.service.ListFooterColumns(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Footer not found")
		return
	}
	c.JSON(http.StatusOK, columns)
}
