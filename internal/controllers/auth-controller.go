package controllers

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/thunder-road-api/internal/auth"
	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"github.com/franciscosanchezn/thunder-road-api/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type AuthController struct {
	userService services.UserService
	issuer      *auth.TokenIssuer
}

func NewAuthController(userService services.UserService, issuer *auth.TokenIssuer) *AuthController {
	return &AuthController{
		userService: userService,
		issuer:      issuer,
	}
}

// Login godoc
// @Summary Admin login
// @Description Exchanges email and password for a Bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginInput true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.APIError
// @Failure 401 {object} map[string]interface{}
// @Router /api/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := ac.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		log.WithField("email", req.Email).Warn("Failed login attempt")
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}
	if err != nil {
		handleServiceError(c, err, models.ErrUnauthorized, "Invalid credentials")
		return
	}

	tokenString, err := ac.issuer.Issue(user)
	if err != nil {
		log.WithError(err).Error("Token generation failed")
		respondError(c, http.StatusInternalServerError, models.ErrInternalServer, "Token generation failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"access_token": tokenString,
		"token_type":   "Bearer",
		"expires_in":   int64(ac.issuer.TTL().Seconds()),
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}
