package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"github.com/franciscosanchezn/thunder-road-api/internal/services"
	"github.com/gin-gonic/gin"
)

// MenuController handles HTTP requests for the public menu and the menu editor
type MenuController interface {
	// GetMenu returns the public menu tree
	GetMenu(c *gin.Context)
	// GetAdminMenu returns the full menu tree including hidden entries
	GetAdminMenu(c *gin.Context)
	ListCategories(c *gin.Context)
	ListCategoryItems(c *gin.Context)
	CreateCategory(c *gin.Context)
	UpdateCategory(c *gin.Context)
	PatchCategory(c *gin.Context)
	DeleteCategory(c *gin.Context)
	CreateItem(c *gin.Context)
	UpdateItem(c *gin.Context)
	PatchItem(c *gin.Context)
	DeleteItem(c *gin.Context)
}

type menuController struct {
	service services.MenuService
}

// NewMenuController creates a new instance of MenuController
func NewMenuController(service services.MenuService) MenuController {
	return &menuController{service: service}
}

// GetMenu godoc
// @Summary Get the public menu
// @Description Active categories with their available items, ordered for display. Served from a short-lived cache.
// @Tags menu
// @Produce json
// @Success 200 {array} models.CategoryView
// @Failure 500 {object} models.APIError
// @Router /api/menu [get]
func (m *menuController) GetMenu(c *gin.Context) {
	payload, err := m.service.PublicMenuJSON(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Menu not found")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// GetAdminMenu godoc
// @Summary Get the full menu
// @Description Every category and item including inactive and unavailable ones. Never cached.
// @Tags menu
// @Produce json
// @Success 200 {array} models.AdminCategoryView
// @Failure 401 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/menu/admin [get]
func (m *menuController) GetAdminMenu(c *gin.Context) {
	menu, err := m.service.AdminMenu(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Menu not found")
		return
	}
	c.JSON(http.StatusOK, menu)
}

// ListCategories godoc
// @Summary List menu categories
// @Tags menu
// @Produce json
// @Success 200 {array} models.MenuCategory
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/menu/categories [get]
func (m *menuController) ListCategories(c *gin.Context) {
	categories, err := m.service.ListCategories(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, models.ErrCategoryNotFound, "Category not found")
		return
	}
	c.JSON(http.StatusOK, categories)
}

// ListCategoryItems godoc
// @Summary List the items of a category
// @Tags menu
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {array} models.MenuItem
// @Failure 400 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/menu/categories/{id}/items [get]
func (m *menuController) ListCategoryItems(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	items, err := m.service.ListItemsByCategory(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, models.ErrCategoryNotFound, "Category not found")
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateCategory godoc
// @Summary Create a menu category
// @Description display_order defaults to 0 and is_active to true
// @Tags menu
// @Accept json
// @Produce json
// @Param category body models.CategoryInput true "Category"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/menu/categories [post]
func (m *menuController) CreateCategory(c *gin.Context) {
	var input models.CategoryInput
	if !bindJSON(c, &input) {
		return
	}
	id, err := m.service.CreateCategory(c.Request.Context(), input)
	if err != nil {
		handleServiceError(c, err, models.ErrCategoryNotFound, "Category not found")
		return
	}
	respondCreated(c, id, "Category created")
}

// UpdateCategory godoc
// @Summary Replace a menu category
// @Description Full replacement: omitted fields are reset
// @Tags menu
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param category body models.CategoryInput true "Category"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/menu/categories/{id} [put]
func (m *menuController) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input models.CategoryInput
	if !bindJSON(c, &input) {
		return
	}
	if err := m.service.UpdateCategory(c.Request.Context(), id, input); err != nil {
		handleServiceError(c, err, models.ErrCategoryNotFound, "Category not found")
		return
	}
	respondMessage(c, http.StatusOK, "Category updated")
}

// PatchCategory godoc
// @Summary Partially update a menu category
// @Description Only the fields present in the body change. gallery_image_id 0 clears the image.
// @Tags menu
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param category body models.CategoryPatch true "Fields to change"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/menu/categories/{id} [patch]
func (m *menuController) PatchCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var patch models.CategoryPatch
	if !bindJSON(c, &patch) {
		return
	}
	if err := m.service.PatchCategory(c.Request.Context(), id, patch); err != nil {
		handleServiceError(c, err, models.ErrCategoryNotFound, "Category not found")
		return
	}
	respondMessage(c, http.StatusOK, "Category updated")
}

// DeleteCategory godoc
// @Summary Delete a menu category and its items
// @Tags menu
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/menu/categories/{id} [delete]
func (m *menuController) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := m.service.DeleteCategory(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, models.ErrCategoryNotFound, "Category not found")
		return
	}
	respondMessage(c, http.StatusOK, "Category deleted")
}

// CreateItem godoc
// @Summary Create a menu item
// @Description display_order defaults to 0 and is_available to true. price accepts a number, a numeric string or null.
// @Tags menu
// @Accept json
// @Produce json
// @Param item body models.ItemInput true "Item"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/menu/items [post]
func (m *menuController) CreateItem(c *gin.Context) {
	var input models.ItemInput
	if !bindJSON(c, &input) {
		return
	}
	id, err := m.service.CreateItem(c.Request.Context(), input)
	if err != nil {
		handleServiceError(c, err, models.ErrItemNotFound, "Item not found")
		return
	}
	respondCreated(c, id, "Item created")
}

// UpdateItem godoc
// @Summary Replace a menu item
// @Description Full replacement. A category_id of 0 keeps the current category.
// @Tags menu
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param item body models.ItemInput true "Item"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/menu/items/{id} [put]
func (m *menuController) UpdateItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input models.ItemInput
	if !bindJSON(c, &input) {
		return
	}
	if err := m.service.UpdateItem(c.Request.Context(), id, input); err != nil {
		handleServiceError(c, err, models.ErrItemNotFound, "Item not found")
		return
	}
	respondMessage(c, http.StatusOK, "Item updated")
}

// PatchItem godoc
// @Summary Partially update a menu item
// @Tags menu
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param item body models.ItemPatch true "Fields to change"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/menu/items/{id} [patch]
func (m *menuController) PatchItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var patch models.ItemPatch
	if !bindJSON(c, &patch) {
		return
	}
	if err := m.service.PatchItem(c.Request.Context(), id, patch); err != nil {
		handleServiceError(c, err, models.ErrItemNotFound, "Item not found")
		return
	}
	respondMessage(c, http.StatusOK, "Item updated")
}

// DeleteItem godoc
// @Summary Delete a menu item
// @Tags menu
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/menu/items/{id} [delete]
func (m *menuController) DeleteItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := m.service.DeleteItem(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, models.ErrItemNotFound, "Item not found")
		return
	}
	respondMessage(c, http.StatusOK, "Item deleted")
}
