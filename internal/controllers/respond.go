package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"github.com/franciscosanchezn/thunder-road-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

// respondError writes the standard error envelope and stops the chain
func respondError(c *gin.Context, status int, code, message string, details ...map[string]interface{}) {
	c.AbortWithStatusJSON(status, models.NewAPIError(code, message, details...))
}

// respondMessage writes {"message": ...}
func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// respondCreated writes {"id": ..., "message": ...} with 201
func respondCreated(c *gin.Context, id interface{}, message string) {
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": message})
}

// bindJSON decodes the body into obj and runs binding validation.
// It writes the 400 response itself and reports whether to continue.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			respondError(c, http.StatusBadRequest, models.ErrValidationFailed, "Validation failed", validationDetails(verrs))
			return false
		}
		respondError(c, http.StatusBadRequest, models.ErrBadRequest, "Invalid request body",
			map[string]interface{}{"cause": err.Error()})
		return false
	}
	return true
}

// parseID reads the :id path parameter as a positive integer
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, models.ErrBadRequest, "Invalid id format")
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an integer query parameter, falling back when absent or malformed
func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// handleServiceError maps service errors onto HTTP responses.
// notFoundCode and notFoundMessage describe the addressed resource.
func handleServiceError(c *gin.Context, err error, notFoundCode, notFoundMessage string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		details := make(map[string]interface{}, len(verr.Fields))
		for field, reason := range verr.Fields {
			details[field] = reason
		}
		respondError(c, http.StatusBadRequest, models.ErrValidationFailed, "Validation failed", details)
	case errors.Is(err, services.ErrNotFound):
		respondError(c, http.StatusNotFound, notFoundCode, notFoundMessage)
	case errors.Is(err, services.ErrConflict):
		respondError(c, http.StatusConflict, models.ErrConflict, "Resource already exists")
	case errors.Is(err, services.ErrInvalidReference):
		respondError(c, http.StatusBadRequest, models.ErrInvalidReference, "Referenced resource does not exist")
	case errors.Is(err, context.DeadlineExceeded):
		log.WithError(err).WithField("path", c.Request.URL.Path).Warn("Request timed out")
		respondError(c, http.StatusGatewayTimeout, models.ErrRequestTimeout, "The request took too long to complete")
	default:
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		respondError(c, http.StatusInternalServerError, models.ErrInternalServer, "Internal server error",
			map[string]interface{}{"cause": err.Error()})
	}
}
