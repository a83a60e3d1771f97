package services

import (
	"context"
	"errors"
	"strings"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Roles
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown email or a
// wrong password alike
var ErrInvalidCredentials = errors.New("invalid credentials")

type UserService interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	// EnsureAdmin creates the admin account unless the email is already taken
	EnsureAdmin(ctx context.Context, email, name, password string) (*models.User, bool, error)
}

type userService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) UserService {
	return &userService{db: db}
}

func (s *userService) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	if user.Role == "" {
		user.Role = RoleStaff
	}
	if user.Password != "" {
		if err := user.HashPassword(); err != nil {
			return err
		}
	}
	if user.PasswordHash == "" {
		return invalidField("password", "required")
	}
	return translateError("create user", s.db.WithContext(ctx).Create(user).Error)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		return nil, translateError("load user", err)
	}
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateError("load user", err)
	}
	return &user, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) EnsureAdmin(ctx context.Context, email, name, password string) (*models.User, bool, error) {
	existing, err := s.GetUserByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	user := &models.User{Email: email, Name: name, Role: RoleAdmin, Password: password}
	if err := s.CreateUser(ctx, user); err != nil {
		return nil, false, err
	}
	log.WithField("user_id", user.ID).Info("Admin user created")
	return user, true, nil
}
