package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/franciscosanchezn/thunder-road-api/internal/config"
	"github.com/franciscosanchezn/thunder-road-api/internal/services"
	"github.com/franciscosanchezn/thunder-road-api/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

type apiFixture struct {
	db     *gorm.DB
	conf   *config.Config
	router *gin.Engine
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Environment:       "test",
		FrontendURL:       "http://localhost:3000",
		JWTSecret:         "router-test-secret",
		AdminDevAuth:      true,
		RequestTimeout:    5 * time.Second,
		MenuCacheTTL:      5 * time.Second,
		UploadDir:         t.TempDir(),
		MaxUploadBytes:    1 << 20,
		ContactRateLimit:  2,
		ContactRateWindow: time.Hour,
	}
}

func newAPIFixture(t *testing.T, mutate ...func(*config.Config)) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	conf := testConfig(t)
	for _, m := range mutate {
		m(conf)
	}
	db := testutil.NewTestDB(t)
	router, err := NewRouter(conf, db)
	require.NoError(t, err)
	return &apiFixture{db: db, conf: conf, router: router}
}

// do sends a JSON request. Admin requests use the development header.
func (f *apiFixture) do(t *testing.T, method, path string, body interface{}, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("X-Admin-Auth", "admin")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type menuCategory struct {
	ID           uint              `json:"id"`
	Name         string            `json:"name"`
	Description  *string           `json:"description"`
	DisplayOrder int               `json:"display_order"`
	Items        []json.RawMessage `json:"items"`
}

func (f *apiFixture) publicMenu(t *testing.T) []menuCategory {
	t.Helper()
	w := f.do(t, http.MethodGet, "/api/menu", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var menu []menuCategory
	decode(t, w, &menu)
	return menu
}

func findCategory(menu []menuCategory, name string) *menuCategory {
	for i := range menu {
		if menu[i].Name == name {
			return &menu[i]
		}
	}
	return nil
}

func TestMenuCategoryLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	name := "int-test-1700000000000"

	w := f.do(t, http.MethodPost, "/api/menu/categories", map[string]interface{}{
		"name":          name,
		"description":   "Integration test category",
		"display_order": 999,
		"is_active":     1,
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID      uint   `json:"id"`
		Message string `json:"message"`
	}
	decode(t, w, &created)
	require.NotZero(t, created.ID)

	// prime the cache so the update has to invalidate it
	require.NotNil(t, findCategory(f.publicMenu(t), name))

	w = f.do(t, http.MethodPut, fmt.Sprintf("/api/menu/categories/%d", created.ID), map[string]interface{}{
		"name":          name,
		"description":   "Updated",
		"display_order": 1000,
		"is_active":     1,
	}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	category := findCategory(f.publicMenu(t), name)
	require.NotNil(t, category)
	assert.Equal(t, 1000, category.DisplayOrder)
	require.NotNil(t, category.Description)
	assert.Equal(t, "Updated", *category.Description)
	assert.NotNil(t, category.Items)
	assert.Empty(t, category.Items)

	w = f.do(t, http.MethodDelete, fmt.Sprintf("/api/menu/categories/%d", created.ID), nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Nil(t, findCategory(f.publicMenu(t), name))
}

func TestMenuItemsAndAvailability(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/menu/categories", map[string]interface{}{"name": "Burgers"}, true)
	require.Equal(t, http.StatusCreated, w.Code)
	var category struct {
		ID uint `json:"id"`
	}
	decode(t, w, &category)

	w = f.do(t, http.MethodPost, "/api/menu/items", map[string]interface{}{
		"category_id": category.ID,
		"name":        "Thunder Burger",
		"price":       "12.50",
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var item struct {
		ID uint `json:"id"`
	}
	decode(t, w, &item)

	w = f.do(t, http.MethodGet, "/api/menu", nil, false)
	assert.Contains(t, w.Body.String(), `"price":12.5`)

	w = f.do(t, http.MethodPatch, fmt.Sprintf("/api/menu/items/%d", item.ID), map[string]interface{}{"is_available": false}, true)
	require.Equal(t, http.StatusOK, w.Code)

	menu := f.publicMenu(t)
	burgers := findCategory(menu, "Burgers")
	require.NotNil(t, burgers, "a category whose items are all unavailable is still listed")
	assert.Empty(t, burgers.Items)

	w = f.do(t, http.MethodGet, "/api/menu/admin", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_available":false`)
}

func TestMenuWriteErrors(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPut, "/api/menu/categories/9999", map[string]interface{}{"name": "Ghost"}, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "CATEGORY_NOT_FOUND")

	w = f.do(t, http.MethodDelete, "/api/menu/items/9999", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ITEM_NOT_FOUND")

	w = f.do(t, http.MethodPost, "/api/menu/categories", map[string]interface{}{"description": "no name"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var apiErr struct {
		Code    string                 `json:"code"`
		Details map[string]interface{} `json:"details"`
	}
	decode(t, w, &apiErr)
	assert.Equal(t, "VALIDATION_FAILED", apiErr.Code)
	assert.Equal(t, "required", apiErr.Details["name"])

	w = f.do(t, http.MethodPost, "/api/menu/categories", map[string]interface{}{"name": "   "}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	apiErr.Details = nil
	decode(t, w, &apiErr)
	assert.Equal(t, "VALIDATION_FAILED", apiErr.Code)
	assert.Equal(t, "notblank", apiErr.Details["name"])

	w = f.do(t, http.MethodPost, "/api/menu/categories", map[string]interface{}{"name": "Priced"}, true)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID uint `json:"id"`
	}
	decode(t, w, &created)
	w = f.do(t, http.MethodPost, "/api/menu/items", map[string]interface{}{"category_id": created.ID, "name": "Gold", "price": 1e9}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_FAILED")

	w = f.do(t, http.MethodPost, "/api/menu/items", map[string]interface{}{"category_id": 9999, "name": "Orphan"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_REFERENCE")

	w = f.do(t, http.MethodDelete, "/api/menu/categories/abc", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	f := newAPIFixture(t, func(c *config.Config) { c.AdminDevAuth = false })

	w := f.do(t, http.MethodPost, "/api/menu/categories", map[string]interface{}{"name": "Sneaky"}, true)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, http.MethodGet, "/api/reservations", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginTokenOpensAdminRoutes(t *testing.T) {
	f := newAPIFixture(t, func(c *config.Config) { c.AdminDevAuth = false })
	_, _, err := services.NewUserService(f.db).EnsureAdmin(context.Background(), "admin@thunderroad.test", "Admin", "s3cret")
	require.NoError(t, err)

	w := f.do(t, http.MethodPost, "/api/login", map[string]string{"email": "admin@thunderroad.test", "password": "wrong"}, false)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid credentials"}`, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/login", map[string]string{"email": "admin@thunderroad.test", "password": "s3cret"}, false)
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Success     bool   `json:"success"`
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		User        struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	decode(t, w, &login)
	assert.True(t, login.Success)
	assert.Equal(t, "Bearer", login.TokenType)
	assert.Equal(t, "admin", login.User.Role)

	req := httptest.NewRequest(http.MethodGet, "/api/menu/admin", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReservationFlow(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/reservations", map[string]interface{}{
		"name":             "Ada",
		"email":            "ada@example.com",
		"reservation_date": "2024-07-04",
		"reservation_time": "25:00",
		"number_of_guests": 4,
	}, false)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"reservation_time":"hhmm"`)

	w = f.do(t, http.MethodPost, "/api/reservations", map[string]interface{}{
		"name":             "Ada",
		"email":            "ada@example.com",
		"reservation_date": "2024-07-04",
		"reservation_time": "19:30",
		"number_of_guests": 4,
	}, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID uint `json:"id"`
	}
	decode(t, w, &created)

	w = f.do(t, http.MethodPut, fmt.Sprintf("/api/reservations/%d", created.ID), map[string]string{"status": "seated"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPut, fmt.Sprintf("/api/reservations/%d", created.ID), map[string]string{"status": "confirmed"}, true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/api/reservations", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"confirmed"`)
}

func TestNewsletterDuplicate(t *testing.T) {
	f := newAPIFixture(t)
	body := map[string]string{"email": "fan@example.com"}

	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/newsletter/subscribe", body, false).Code)

	w := f.do(t, http.MethodPost, "/api/newsletter/subscribe", body, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email already subscribed")

	w = f.do(t, http.MethodPost, "/api/newsletter/unsubscribe", body, false)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestContactRateLimit(t *testing.T) {
	f := newAPIFixture(t)
	body := map[string]string{"name": "Ada", "email": "ada@example.com", "message": "Hello\x07 there"}

	for i := 0; i < f.conf.ContactRateLimit; i++ {
		require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/contact", body, false).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, f.do(t, http.MethodPost, "/api/contact", body, false).Code)

	w := f.do(t, http.MethodGet, "/api/contact/messages?per_page=500", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Total    int64 `json:"total"`
		PerPage  int   `json:"per_page"`
		Messages []struct {
			Message string `json:"message"`
		} `json:"messages"`
	}
	decode(t, w, &page)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, services.MaxPerPage, page.PerPage)
	assert.Equal(t, "Hello there", page.Messages[0].Message)
}

func TestContactRateLimitIgnoresForwardedFor(t *testing.T) {
	f := newAPIFixture(t)
	body, err := json.Marshal(map[string]string{"name": "Ada", "email": "ada@example.com", "message": "Hello"})
	require.NoError(t, err)

	accepted := 0
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		req.RemoteAddr = "203.0.113.7:40000"
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)
		if w.Code == http.StatusCreated {
			accepted++
		} else {
			assert.Equal(t, http.StatusTooManyRequests, w.Code)
		}
	}

	assert.Equal(t, f.conf.ContactRateLimit, accepted)
}

func TestContactRateLimitHonorsTrustedProxy(t *testing.T) {
	f := newAPIFixture(t, func(c *config.Config) { c.TrustedProxies = []string{"203.0.113.7"} })
	body, err := json.Marshal(map[string]string{"name": "Ada", "email": "ada@example.com", "message": "Hello"})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		req.RemoteAddr = "203.0.113.7:40000"
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code, "clients behind a trusted proxy are limited separately")
	}
}

func TestNewRouterRejectsInvalidTrustedProxies(t *testing.T) {
	conf := testConfig(t)
	conf.TrustedProxies = []string{"not-an-ip"}

	_, err := NewRouter(conf, testutil.NewTestDB(t))

	assert.ErrorContains(t, err, "TRUSTED_PROXIES")
}

func uploadRequest(t *testing.T, field, fileName string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("category", "gallery"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/media/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Admin-Auth", "admin")
	return req
}

func TestMediaUpload(t *testing.T) {
	f := newAPIFixture(t)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, uploadRequest(t, "file", "logo.png", pngHeader))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var uploaded struct {
		ID      uint   `json:"id"`
		FileURL string `json:"file_url"`
	}
	decode(t, w, &uploaded)
	assert.True(t, strings.HasPrefix(uploaded.FileURL, "/uploads/"))

	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, uploaded.FileURL, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pngHeader, w.Body.Bytes())

	w = f.do(t, http.MethodGet, "/api/media?category=gallery", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Total-Count"))

	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, uploadRequest(t, "file", "script.png", []byte("#!/bin/sh\nrm -rf /\n")))
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, uploadRequest(t, "attachment", "logo.png", pngHeader))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodDelete, fmt.Sprintf("/api/media/%d", uploaded.ID), nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMediaUploadTooLarge(t *testing.T) {
	f := newAPIFixture(t, func(c *config.Config) { c.MaxUploadBytes = 16 })

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, uploadRequest(t, "file", "logo.png", pngHeader))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "PAYLOAD_TOO_LARGE")
}

func TestSettingsAndHealth(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/api/health", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"OK"`)

	w = f.do(t, http.MethodPut, "/api/site-settings", map[string]interface{}{
		"business_name": "Thunder Road",
		"hero_images":   []string{"/uploads/a.jpg", "/uploads/b.jpg"},
	}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/site-settings", nil, false)
	assert.Contains(t, w.Body.String(), `"hero_images":["/uploads/a.jpg","/uploads/b.jpg"]`)

	w = f.do(t, http.MethodGet, "/api/business-hours", nil, false)
	var hours []struct {
		ID        uint   `json:"id"`
		DayOfWeek string `json:"day_of_week"`
	}
	decode(t, w, &hours)
	require.Len(t, hours, 7)
	assert.Equal(t, "Monday", hours[0].DayOfWeek)

	w = f.do(t, http.MethodPut, fmt.Sprintf("/api/business-hours/%d", hours[0].ID), map[string]interface{}{
		"opening_time": "9:00",
		"closing_time": "17:00",
	}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/api/footer-columns", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestCORSAllowsFrontend(t *testing.T) {
	f := newAPIFixture(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/menu", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
