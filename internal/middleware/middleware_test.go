package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("middleware-test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func validClaims(role string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"uid":  "3",
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	}
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func adminRouter(devAuth bool) *gin.Engine {
	router := gin.New()
	router.GET("/admin", AdminAuth(testSecret, devAuth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"uid":  c.GetUint(ContextUserID),
			"role": c.GetString(ContextUserRole),
			"type": c.GetString(ContextAuthType),
		})
	})
	return router
}

func TestAdminAuthAcceptsAdminToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, validClaims("admin")))

	w := serve(adminRouter(false), req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":3,"role":"admin","type":"jwt"}`, w.Body.String())
}

func TestAdminAuthRejects(t *testing.T) {
	expired := validClaims("admin")
	expired["exp"] = time.Now().Add(-time.Minute).Unix()
	noUID := validClaims("admin")
	delete(noUID, "uid")
	noExp := validClaims("admin")
	delete(noExp, "exp")

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"basic scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, jwt.SigningMethodHS256, expired), http.StatusUnauthorized},
		{"missing uid", "Bearer " + signToken(t, jwt.SigningMethodHS256, noUID), http.StatusUnauthorized},
		{"missing exp", "Bearer " + signToken(t, jwt.SigningMethodHS256, noExp), http.StatusUnauthorized},
		{"unknown role", "Bearer " + signToken(t, jwt.SigningMethodHS256, validClaims("root")), http.StatusUnauthorized},
		{"staff role", "Bearer " + signToken(t, jwt.SigningMethodHS256, validClaims("staff")), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(adminRouter(false), req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAdminAuthRejectsNoneAlgorithm(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims("admin")).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, serve(adminRouter(false), req).Code)
}

func TestDevAuthOnlyWhenEnabled(t *testing.T) {
	header := httptest.NewRequest(http.MethodGet, "/admin", nil)
	header.Header.Set("X-Admin-Auth", "admin")
	assert.Equal(t, http.StatusUnauthorized, serve(adminRouter(false), header).Code)

	header = httptest.NewRequest(http.MethodGet, "/admin", nil)
	header.Header.Set("X-Admin-Auth", "admin")
	w := serve(adminRouter(true), header)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"dev"`)

	cookie := httptest.NewRequest(http.MethodGet, "/admin", nil)
	cookie.AddCookie(&http.Cookie{Name: "admin", Value: "true"})
	assert.Equal(t, http.StatusOK, serve(adminRouter(true), cookie).Code)

	wrong := httptest.NewRequest(http.MethodGet, "/admin", nil)
	wrong.Header.Set("X-Admin-Auth", "yes")
	assert.Equal(t, http.StatusUnauthorized, serve(adminRouter(true), wrong).Code)
}

func TestBearerAuthAcceptsClientToken(t *testing.T) {
	claims := validClaims("admin")
	claims["aud"] = "client-1"
	claims["scope"] = "menu:write"
	router := gin.New()
	router.GET("/me", BearerAuth(testSecret), RequireRole("admin"), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextClientID)+" "+c.GetString(ContextAuthType))
	})
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS512, claims))

	w := serve(router, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "client-1 oauth2", w.Body.String())
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	router := gin.New()
	router.GET("/x", RequireRole("admin"), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, serve(router, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
}

func TestRateLimiterPerIP(t *testing.T) {
	limiter := NewIPRateLimiter(2, time.Hour)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	ok, _ := limiter.Allow("1.1.1.1")
	assert.True(t, ok)
	ok, _ = limiter.Allow("1.1.1.1")
	assert.True(t, ok)
	ok, wait := limiter.Allow("1.1.1.1")
	assert.False(t, ok)
	assert.Equal(t, 30*time.Minute, wait)

	ok, _ = limiter.Allow("2.2.2.2")
	assert.True(t, ok, "buckets are per IP")

	now = now.Add(30 * time.Minute)
	ok, _ = limiter.Allow("1.1.1.1")
	assert.True(t, ok, "a token refills after window/limit")
}

func TestRateLimiterSweepsIdleVisitors(t *testing.T) {
	limiter := NewIPRateLimiter(1, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.Allow("1.1.1.1")
	now = now.Add(2 * time.Minute)
	limiter.Allow("2.2.2.2")

	assert.Len(t, limiter.visitors, 1)
}

func TestRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.POST("/contact", RateLimit(NewIPRateLimiter(1, time.Hour)), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	first := serve(router, httptest.NewRequest(http.MethodPost, "/contact", nil))
	second := serve(router, httptest.NewRequest(http.MethodPost, "/contact", nil))

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "3600", second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), "TOO_MANY_REQUESTS")
}

func TestRequestTimeoutSetsDeadline(t *testing.T) {
	router := gin.New()
	router.GET("/slow", RequestTimeout(10*time.Millisecond), func(c *gin.Context) {
		<-c.Request.Context().Done()
		if errors.Is(c.Request.Context().Err(), context.DeadlineExceeded) {
			c.Status(http.StatusGatewayTimeout)
			return
		}
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusGatewayTimeout, serve(router, httptest.NewRequest(http.MethodGet, "/slow", nil)).Code)
}

func TestSecurityHeadersAndLogger(t *testing.T) {
	router := gin.New()
	router.Use(RequestLogger(), SecurityHeaders())
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
