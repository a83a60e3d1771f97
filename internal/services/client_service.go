package services

import (
	"context"
	"errors"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewClient describes an API client to register
type NewClient struct {
	Name    string
	Domain  string
	Scopes  string
	OwnerID uint
}

type ClientService interface {
	// CreateClient registers a client and returns it with the plain secret,
	// which is never retrievable again
	CreateClient(ctx context.Context, input NewClient) (*models.OAuthClient, string, error)
	ListClients(ctx context.Context) ([]models.OAuthClient, error)
	GetClientsByUserID(ctx context.Context, userID uint) ([]models.OAuthClient, error)
	GetClientByID(ctx context.Context, id string) (*models.OAuthClient, error)
	DeleteClient(ctx context.Context, clientID string) error
}

type clientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) ClientService {
	return &clientService{db: db}
}

func (s *clientService) CreateClient(ctx context.Context, input NewClient) (*models.OAuthClient, string, error) {
	if input.OwnerID == 0 {
		return nil, "", invalidField("owner", "required")
	}
	var owner models.User
	if err := s.db.WithContext(ctx).First(&owner, input.OwnerID).Error; err != nil {
		if err = translateError("load owner", err); errors.Is(err, ErrNotFound) {
			return nil, "", invalidField("owner", "unknown user")
		}
		return nil, "", err
	}

	secret := uuid.NewString()
	hashedSecret, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	client := &models.OAuthClient{
		ID:     uuid.NewString(),
		Secret: string(hashedSecret),
		Name:   input.Name,
		Domain: input.Domain,
		Scopes: input.Scopes,
		UserID: owner.ID,
	}
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, "", translateError("create client", err)
	}
	return client, secret, nil
}

func (s *clientService) ListClients(ctx context.Context) ([]models.OAuthClient, error) {
	clients := []models.OAuthClient{}
	if err := s.db.WithContext(ctx).Order("created_at").Find(&clients).Error; err != nil {
		return nil, translateError("list clients", err)
	}
	return clients, nil
}

func (s *clientService) GetClientsByUserID(ctx context.Context, userID uint) ([]models.OAuthClient, error) {
	clients := []models.OAuthClient{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&clients).Error; err != nil {
		return nil, translateError("list clients", err)
	}
	return clients, nil
}

func (s *clientService) GetClientByID(ctx context.Context, id string) (*models.OAuthClient, error) {
	var client models.OAuthClient
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&client).Error; err != nil {
		return nil, translateError("load client", err)
	}
	return &client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, clientID string) error {
	result := s.db.WithContext(ctx).Where("id = ?", clientID).Delete(&models.OAuthClient{})
	return affected("delete client", result)
}
