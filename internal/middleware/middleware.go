package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/franciscosanchezn/thunder-road-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by the auth middleware
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextClientID = "clientID"
	ContextAuthType = "auth_type"
)

// Legacy development credentials for the admin UI
const (
	devAuthHeader = "X-Admin-Auth"
	devAuthCookie = "admin"
)

// BearerAuth validates HMAC-signed JWT access tokens, issued either by the
// admin login or by the OAuth2 token endpoint, and stores the caller's
// identity in the Gin context
func BearerAuth(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, jwtSecret) {
			return
		}
		c.Next()
	}
}

// AdminAuth guards the back-office routes: a Bearer token with the admin
// role. With devAuth enabled the old development stub (X-Admin-Auth: admin
// header or admin=true cookie) is accepted as well.
func AdminAuth(jwtSecret []byte, devAuth bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if devAuth && hasDevCredentials(c) {
			c.Set(ContextUserRole, services.RoleAdmin)
			c.Set(ContextAuthType, "dev")
			c.Next()
			return
		}
		if !authenticate(c, jwtSecret) || !authorizeRole(c, services.RoleAdmin) {
			return
		}
		c.Next()
	}
}

// authenticate checks the Bearer token and aborts with 401 when it is
// missing or invalid
func authenticate(c *gin.Context, jwtSecret []byte) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		respondWithOAuth2Error(c, http.StatusUnauthorized, "authorization_required",
			"Missing Authorization header. A valid Bearer token is required.")
		return false
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_request",
			"Authorization header must use Bearer scheme. Format: 'Bearer <token>'")
		return false
	}

	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if tokenString == "" {
		respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_token", "Bearer token is empty")
		return false
	}

	claims, err := parseAndValidateJWT(tokenString, jwtSecret)
	if err != nil {
		respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_token", err.Error())
		return false
	}

	if err := extractAndSetClaims(c, claims); err != nil {
		respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_token", err.Error())
		return false
	}
	return true
}

func hasDevCredentials(c *gin.Context) bool {
	if c.GetHeader(devAuthHeader) == "admin" {
		return true
	}
	cookie, err := c.Cookie(devAuthCookie)
	return err == nil && cookie == "true"
}

// respondWithOAuth2Error responds with RFC 6750 compliant error format
func respondWithOAuth2Error(c *gin.Context, status int, errorCode, description string) {
	c.Header("WWW-Authenticate", fmt.Sprintf(`Bearer error=%q`, errorCode))
	c.AbortWithStatusJSON(status, gin.H{
		"error":             errorCode,
		"error_description": description,
	})
}

// tokenParser only accepts HMAC signatures, which rules out alg=none and
// asymmetric keys, and requires an exp claim. nbf is checked by the parser.
var tokenParser = jwt.NewParser(
	jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
	jwt.WithExpirationRequired(),
)

// maxClockSkew bounds how far in the future an iat claim may lie
const maxClockSkew = time.Minute

// parseAndValidateJWT verifies the signature and the time based claims
func parseAndValidateJWT(tokenString string, jwtSecret []byte) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := tokenParser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token rejected: %w", err)
	}

	iat, err := claims.GetIssuedAt()
	if err != nil {
		return nil, fmt.Errorf("invalid iat claim: %w", err)
	}
	if iat != nil && iat.After(time.Now().Add(maxClockSkew)) {
		return nil, fmt.Errorf("token issued in the future")
	}
	return claims, nil
}

// extractAndSetClaims copies uid, role, audience and scope into the Gin context
func extractAndSetClaims(c *gin.Context, claims jwt.MapClaims) error {
	userID, err := extractUserID(claims)
	if err != nil {
		return err
	}
	if userID == 0 {
		return fmt.Errorf("invalid user identifier: cannot be zero")
	}
	c.Set(ContextUserID, userID)

	// client tokens carry the client id as audience
	if aud, ok := claims["aud"].(string); ok && aud != "" {
		c.Set(ContextClientID, aud)
	} else if audArray, ok := claims["aud"].([]interface{}); ok && len(audArray) > 0 {
		if firstAud, ok := audArray[0].(string); ok && firstAud != "" {
			c.Set(ContextClientID, firstAud)
		}
	}

	role, err := extractRole(claims)
	if err != nil {
		return err
	}
	c.Set(ContextUserRole, role)

	if scope, ok := claims["scope"].(string); ok && scope != "" {
		c.Set("scopes", scope)
	}

	if _, ok := c.Get(ContextClientID); ok {
		c.Set(ContextAuthType, "oauth2")
	} else {
		c.Set(ContextAuthType, "jwt")
	}

	return nil
}

// extractUserID reads the "uid" claim, either a numeric string or a JSON number
func extractUserID(claims jwt.MapClaims) (uint, error) {
	if uid, ok := claims["uid"].(string); ok && uid != "" {
		parsedID, err := strconv.ParseUint(uid, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid uid claim format: must be a numeric string, got: %s", uid)
		}
		return uint(parsedID), nil
	}

	if uid, ok := claims["uid"].(float64); ok {
		if uid <= 0 {
			return 0, fmt.Errorf("invalid uid claim: must be positive, got: %f", uid)
		}
		return uint(uid), nil
	}

	return 0, fmt.Errorf("token missing required 'uid' claim. This token is not valid for this API")
}

// extractRole reads the "role" claim. There is no default role.
func extractRole(claims jwt.MapClaims) (string, error) {
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return "", fmt.Errorf("token missing required 'role' claim. Tokens must explicitly specify user roles")
	}

	switch role {
	case services.RoleAdmin, services.RoleStaff:
		return role, nil
	default:
		return "", fmt.Errorf("invalid role '%s'. Allowed roles: %s, %s", role, services.RoleAdmin, services.RoleStaff)
	}
}
