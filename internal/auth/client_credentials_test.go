package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenRouter(f *oauthFixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/oauth/token", f.oauth.HandleToken)
	return router
}

func postToken(router *gin.Engine, form url.Values, basicUser, basicPass string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/oauth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if basicUser != "" {
		req.SetBasicAuth(basicUser, basicPass)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestClientCredentialsFlow(t *testing.T) {
	f := newOAuthFixture(t)
	client, secret := f.newClient(t, "menu:read menu:write")
	router := tokenRouter(f)

	w := postToken(router, url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {client.ID},
		"client_secret": {secret},
		"scope":         {"menu:read"},
	}, "", "")

	require.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Bearer", response["token_type"])
	assert.Equal(t, "menu:read", response["scope"])
	assert.Equal(t, float64(ClientTokenTTL.Seconds()), response["expires_in"])

	claims := parseClaims(t, response["access_token"].(string))
	assert.Equal(t, "admin", claims["role"])
}

func TestClientCredentialsBasicAuth(t *testing.T) {
	f := newOAuthFixture(t)
	client, secret := f.newClient(t, "")

	w := postToken(tokenRouter(f), url.Values{"grant_type": {"client_credentials"}}, client.ID, secret)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClientCredentialsErrors(t *testing.T) {
	f := newOAuthFixture(t)
	client, secret := f.newClient(t, "menu:read")
	router := tokenRouter(f)

	tests := []struct {
		name   string
		form   url.Values
		status int
		code   string
	}{
		{
			name:   "wrong secret",
			form:   url.Values{"grant_type": {"client_credentials"}, "client_id": {client.ID}, "client_secret": {"wrong"}},
			status: http.StatusUnauthorized,
			code:   "invalid_client",
		},
		{
			name:   "unknown client",
			form:   url.Values{"grant_type": {"client_credentials"}, "client_id": {"nope"}, "client_secret": {secret}},
			status: http.StatusUnauthorized,
			code:   "invalid_client",
		},
		{
			name:   "missing credentials",
			form:   url.Values{"grant_type": {"client_credentials"}},
			status: http.StatusUnauthorized,
			code:   "invalid_client",
		},
		{
			name:   "unsupported grant",
			form:   url.Values{"grant_type": {"password"}, "client_id": {client.ID}, "client_secret": {secret}},
			status: http.StatusBadRequest,
			code:   "unsupported_grant_type",
		},
		{
			name:   "scope escalation",
			form:   url.Values{"grant_type": {"client_credentials"}, "client_id": {client.ID}, "client_secret": {secret}, "scope": {"menu:write"}},
			status: http.StatusBadRequest,
			code:   "invalid_scope",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postToken(router, tt.form, "", "")
			assert.Equal(t, tt.status, w.Code)
			var response map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.code, response["error"])
		})
	}
}
