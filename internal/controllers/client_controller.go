package controllers

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"github.com/franciscosanchezn/thunder-road-api/internal/services"
	"github.com/gin-gonic/gin"
)

type ClientController struct {
	clientService services.ClientService
	userService   services.UserService
}

func NewClientController(clientService services.ClientService, userService services.UserService) *ClientController {
	return &ClientController{clientService: clientService, userService: userService}
}

type createClientRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	Domain     string `json:"domain" binding:"omitempty,max=255"`
	Scopes     string `json:"scopes" binding:"max=255"`
	OwnerEmail string `json:"owner_email" binding:"omitempty,email"`
}

// CreateClient godoc
// @Summary Create an API client
// @Description Registers a client for the client_credentials grant. The secret is only returned here. Tokens carry the owner's role; the owner defaults to the caller.
// @Tags clients
// @Accept json
// @Produce json
// @Param client body createClientRequest true "Client details"
// @Success 201 {object} map[string]interface{} "Client created with client_id and client_secret"
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/clients [post]
func (cc *ClientController) CreateClient(c *gin.Context) {
	var req createClientRequest
	if !bindJSON(c, &req) {
		return
	}

	ownerID := c.GetUint("userID")
	if req.OwnerEmail != "" {
		owner, err := cc.userService.GetUserByEmail(c.Request.Context(), req.OwnerEmail)
		if errors.Is(err, services.ErrNotFound) {
			respondError(c, http.StatusBadRequest, models.ErrValidationFailed, "Validation failed",
				map[string]interface{}{"owner_email": "unknown user"})
			return
		}
		if err != nil {
			handleServiceError(c, err, models.ErrNotFound, "Client not found")
			return
		}
		ownerID = owner.ID
	}

	client, secret, err := cc.clientService.CreateClient(c.Request.Context(), services.NewClient{
		Name:    req.Name,
		Domain:  req.Domain,
		Scopes:  req.Scopes,
		OwnerID: ownerID,
	})
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Client not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"client_id":     client.ID,
		"client_secret": secret,
		"name":          client.Name,
		"scopes":        client.Scopes,
		"user_id":       client.UserID,
	})
}

// ListClients godoc
// @Summary List API clients
// @Tags clients
// @Produce json
// @Success 200 {array} models.OAuthClient
// @Security BearerAuth
// @Router /api/clients [get]
func (cc *ClientController) ListClients(c *gin.Context) {
	clients, err := cc.clientService.ListClients(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Client not found")
		return
	}
	c.JSON(http.StatusOK, clients)
}

// DeleteClient godoc
// @Summary Revoke an API client
// @Tags clients
// @Param id path string true "Client ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/clients/{id} [delete]
func (cc *ClientController) DeleteClient(c *gin.Context) {
	if err := cc.clientService.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Client not found")
		return
	}
	respondMessage(c, http.StatusOK, "Client deleted")
}
