package auth

import (
	"time"

	"github.com/franciscosanchezn/thunder-road-api/internal/services"
	"github.com/go-oauth2/oauth2/v4/manage"
	"github.com/go-oauth2/oauth2/v4/server"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// ClientTokenTTL is the lifetime of tokens issued to API clients
const ClientTokenTTL = 2 * time.Hour

type OAuthService struct {
	server  *server.Server
	clients *GormClientStore
	tokens  *GormTokenStore
}

func NewOAuthService(db *gorm.DB, jwtSecret string, users services.UserService) *OAuthService {
	manager := manage.NewDefaultManager()
	manager.SetClientTokenCfg(&manage.Config{AccessTokenExp: ClientTokenTTL})

	// JWT access tokens carrying the owner's uid and role
	manager.MapAccessGenerate(NewCustomJWTAccessGenerate([]byte(jwtSecret), jwt.SigningMethodHS512, users))

	tokenStore := NewGormTokenStore(db)
	manager.MustTokenStorage(tokenStore, nil)

	clientStore := NewGormClientStore(db)
	manager.MapClientStorage(clientStore)

	srv := server.NewDefaultServer(manager)
	srv.SetAllowGetAccessRequest(false)
	srv.SetClientInfoHandler(server.ClientFormHandler)

	return &OAuthService{
		server:  srv,
		clients: clientStore,
		tokens:  tokenStore,
	}
}

func (o *OAuthService) GetServer() *server.Server {
	return o.server
}

// Tokens exposes the token store, used for housekeeping
func (o *OAuthService) Tokens() *GormTokenStore {
	return o.tokens
}
