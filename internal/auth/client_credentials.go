package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/go-oauth2/oauth2/v4"
	oauth2errors "github.com/go-oauth2/oauth2/v4/errors"
	log "github.com/sirupsen/logrus"
)

// HandleToken handles the token endpoint for API clients
// @Summary Token Endpoint
// @Description Obtain an access token with the client_credentials grant. Credentials may be sent as form fields or with HTTP Basic auth.
// @Tags OAuth2
// @Accept application/x-www-form-urlencoded
// @Produce json
// @Param grant_type formData string true "Must be client_credentials"
// @Param client_id formData string false "Client ID"
// @Param client_secret formData string false "Client Secret"
// @Param scope formData string false "Space-separated subset of the client's scopes"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.OAuth2Error
// @Failure 401 {object} models.OAuth2Error
// @Router /oauth/token [post]
func (o *OAuthService) HandleToken(c *gin.Context) {
	if grantType := c.PostForm("grant_type"); grantType != string(oauth2.ClientCredentials) {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrUnsupportedGrantType,
			"Only the client_credentials grant is supported"))
		return
	}
	o.handleClientCredentials(c)
}

func (o *OAuthService) handleClientCredentials(c *gin.Context) {
	clientID, clientSecret, ok := c.Request.BasicAuth()
	if !ok {
		clientID = c.PostForm("client_id")
		clientSecret = c.PostForm("client_secret")
	}
	if clientID == "" || clientSecret == "" {
		c.JSON(http.StatusUnauthorized, models.NewOAuth2Error(models.ErrInvalidClient, "Client credentials are required"))
		return
	}

	ctx := c.Request.Context()
	info, err := o.clients.GetByID(ctx, clientID)
	if err != nil {
		o.respondTokenError(c, clientID, err)
		return
	}

	scope, ok := grantedScope(info.(*models.OAuthClient).Scopes, c.PostForm("scope"))
	if !ok {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidScope,
			"Requested scope exceeds the scopes granted to this client"))
		return
	}

	// the manager verifies the secret against the stored bcrypt hash
	ti, err := o.server.Manager.GenerateAccessToken(ctx, oauth2.ClientCredentials, &oauth2.TokenGenerateRequest{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scope:        scope,
		Request:      c.Request,
	})
	if err != nil {
		o.respondTokenError(c, clientID, err)
		return
	}

	log.WithField("client_id", clientID).Info("Issued client access token")
	c.JSON(http.StatusOK, gin.H{
		"access_token": ti.GetAccess(),
		"token_type":   "Bearer",
		"expires_in":   int64(ti.GetAccessExpiresIn().Seconds()),
		"scope":        ti.GetScope(),
	})
}

func (o *OAuthService) respondTokenError(c *gin.Context, clientID string, err error) {
	if errors.Is(err, oauth2errors.ErrInvalidClient) {
		log.WithField("client_id", clientID).Warn("Rejected client credentials")
		c.JSON(http.StatusUnauthorized, models.NewOAuth2Error(models.ErrInvalidClient, "Client authentication failed"))
		return
	}
	log.WithError(err).WithField("client_id", clientID).Error("Token generation failed")
	c.JSON(http.StatusInternalServerError, models.NewOAuth2Error("server_error", "Token generation failed"))
}

// grantedScope narrows the client's scopes to the requested ones. An empty
// request grants everything the client has.
func grantedScope(allowed, requested string) (string, bool) {
	if strings.TrimSpace(requested) == "" {
		return allowed, true
	}
	granted := make(map[string]bool)
	for _, s := range strings.Fields(allowed) {
		granted[s] = true
	}
	for _, s := range strings.Fields(requested) {
		if !granted[s] {
			return "", false
		}
	}
	return strings.Join(strings.Fields(requested), " "), true
}
