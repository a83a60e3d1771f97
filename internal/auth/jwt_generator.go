package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"github.com/franciscosanchezn/thunder-road-api/internal/services"
	"github.com/go-oauth2/oauth2/v4"
	"github.com/golang-jwt/jwt/v5"
)

// CustomJWTAccessGenerate generates JWT access tokens for API clients. The
// token carries the uid and role of the user owning the client, so client
// tokens pass the same role checks as admin login tokens.
type CustomJWTAccessGenerate struct {
	SignedKey    []byte
	SignedMethod jwt.SigningMethod
	Users        services.UserService
}

// NewCustomJWTAccessGenerate creates a new custom JWT access token generator
func NewCustomJWTAccessGenerate(key []byte, method jwt.SigningMethod, users services.UserService) *CustomJWTAccessGenerate {
	return &CustomJWTAccessGenerate{
		SignedKey:    key,
		SignedMethod: method,
		Users:        users,
	}
}

// Token is called by the OAuth2 manager to generate access tokens
func (g *CustomJWTAccessGenerate) Token(ctx context.Context, data *oauth2.GenerateBasic, isGenRefresh bool) (string, string, error) {
	createdAt := data.TokenInfo.GetAccessCreateAt()
	claims := jwt.MapClaims{
		"aud": data.Client.GetID(),
		"iat": createdAt.Unix(),
		"exp": createdAt.Add(data.TokenInfo.GetAccessExpiresIn()).Unix(),
	}

	// client_credentials has no user in the request; the owner stands in
	userID := data.UserID
	if userID == "" {
		userID = data.Client.GetUserID()
	}
	if userID == "" {
		return "", "", fmt.Errorf("cannot generate token: client %s has no owner", data.Client.GetID())
	}
	claims["uid"] = userID

	role, err := g.ownerRole(ctx, userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch user role: %w", err)
	}
	claims["role"] = role

	if scope := data.TokenInfo.GetScope(); scope != "" {
		claims["scope"] = scope
	}

	access, err := jwt.NewWithClaims(g.SignedMethod, claims).SignedString(g.SignedKey)
	if err != nil {
		return "", "", err
	}

	refresh := ""
	if isGenRefresh {
		refreshClaims := jwt.MapClaims{
			"id":  access,
			"exp": data.TokenInfo.GetRefreshCreateAt().Add(data.TokenInfo.GetRefreshExpiresIn()).Unix(),
		}
		refresh, err = jwt.NewWithClaims(g.SignedMethod, refreshClaims).SignedString(g.SignedKey)
		if err != nil {
			return "", "", err
		}
	}

	return access, refresh, nil
}

func (g *CustomJWTAccessGenerate) ownerRole(ctx context.Context, userIDStr string) (string, error) {
	userID, err := strconv.ParseUint(userIDStr, 10, 32)
	if err != nil {
		return "", fmt.Errorf("invalid user ID format: %w", err)
	}
	user, err := g.Users.GetUserByID(ctx, uint(userID))
	if err != nil {
		return "", fmt.Errorf("user %d: %w", userID, err)
	}
	if user.Role == "" {
		return services.RoleStaff, nil
	}
	return user.Role, nil
}

// TokenIssuer signs the tokens handed out by the admin login
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// DefaultTokenTTL is the lifetime of a login token
const DefaultTokenTTL = 24 * time.Hour

// NewTokenIssuer creates an issuer signing with HS256. A non-positive ttl
// falls back to DefaultTokenTTL.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL reports how long issued tokens stay valid
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue returns a signed token for user
func (i *TokenIssuer) Issue(user *models.User) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"uid":  strconv.FormatUint(uint64(user.ID), 10),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(i.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}
