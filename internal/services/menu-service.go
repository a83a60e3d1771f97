package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/franciscosanchezn/thunder-road-api/internal/menucache"
	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MenuService provides the public menu and the admin menu editor
type MenuService interface {
	// PublicMenuJSON returns the serialized public menu, from cache when fresh
	PublicMenuJSON(ctx context.Context) ([]byte, error)
	// AdminMenu returns every category and item, bypassing the cache
	AdminMenu(ctx context.Context) ([]models.AdminCategoryView, error)
	// ListCategories returns flat category rows ordered by display order
	ListCategories(ctx context.Context) ([]models.MenuCategory, error)
	// ListItemsByCategory returns flat item rows of one category
	ListItemsByCategory(ctx context.Context, categoryID uint) ([]models.MenuItem, error)

	CreateCategory(ctx context.Context, input models.CategoryInput) (uint, error)
	UpdateCategory(ctx context.Context, id uint, input models.CategoryInput) error
	PatchCategory(ctx context.Context, id uint, patch models.CategoryPatch) error
	DeleteCategory(ctx context.Context, id uint) error

	CreateItem(ctx context.Context, input models.ItemInput) (uint, error)
	UpdateItem(ctx context.Context, id uint, input models.ItemInput) error
	PatchItem(ctx context.Context, id uint, patch models.ItemPatch) error
	DeleteItem(ctx context.Context, id uint) error
}

type menuService struct {
	db    *gorm.DB
	cache *menucache.Cache
	ttl   time.Duration
}

// NewMenuService creates a MenuService. Every successful write invalidates cache.
func NewMenuService(db *gorm.DB, cache *menucache.Cache, ttl time.Duration) MenuService {
	if ttl <= 0 {
		ttl = menucache.DefaultTTL
	}
	return &menuService{db: db, cache: cache, ttl: ttl}
}

// menuRow is one row of the category/item join; item columns are NULL for
// categories without (visible) items
type menuRow struct {
	CategoryID           uint
	CategoryName         string
	CategoryDescription  string
	CategoryImageURL     string
	GalleryImageID       *uint
	GalleryImageURL      *string
	CategoryDisplayOrder int
	IsActive             bool
	ItemID               *uint
	ItemName             string
	ItemDescription      string
	ItemPrice            models.Price
	ItemImageURL         string
	ItemDisplayOrder     int
	IsAvailable          *bool
}

const menuSelect = `SELECT
	c.id AS category_id,
	c.name AS category_name,
	COALESCE(c.description, '') AS category_description,
	COALESCE(c.image_url, '') AS category_image_url,
	c.gallery_image_id AS gallery_image_id,
	m.file_url AS gallery_image_url,
	c.display_order AS category_display_order,
	c.is_active AS is_active,
	i.id AS item_id,
	COALESCE(i.name, '') AS item_name,
	COALESCE(i.description, '') AS item_description,
	i.price AS item_price,
	COALESCE(i.image_url, '') AS item_image_url,
	COALESCE(i.display_order, 0) AS item_display_order,
	i.is_available AS is_available
FROM menu_categories c
LEFT JOIN media_library m ON m.id = c.gallery_image_id
LEFT JOIN menu_items i ON i.category_id = c.id`

const menuOrder = ` ORDER BY c.display_order, c.id, i.display_order, i.id`

// The availability filter sits in the join condition: filtering in WHERE
// would drop active categories whose items are all unavailable.
const publicMenuQuery = menuSelect +
	` AND (i.is_available = ? OR i.is_available IS NULL)` +
	` WHERE c.is_active = ?` + menuOrder

const adminMenuQuery = menuSelect + menuOrder

func (s *menuService) PublicMenuJSON(ctx context.Context) ([]byte, error) {
	payload, generation, ok := s.cache.Lookup()
	if ok {
		log.Debug("Public menu served from cache")
		return payload, nil
	}
	log.Debug("Public menu cache miss, querying store")

	var rows []menuRow
	if err := s.db.WithContext(ctx).Raw(publicMenuQuery, true, true).Scan(&rows).Error; err != nil {
		log.WithError(err).Error("Failed to query public menu")
		return nil, fmt.Errorf("query public menu: %w", err)
	}

	payload, err := json.Marshal(groupPublicMenu(rows))
	if err != nil {
		return nil, fmt.Errorf("encode public menu: %w", err)
	}
	if !s.cache.SetIfCurrent(generation, payload, s.ttl) {
		log.Debug("Menu changed while building payload, not caching it")
	}
	return payload, nil
}

func (s *menuService) AdminMenu(ctx context.Context) ([]models.AdminCategoryView, error) {
	var rows []menuRow
	if err := s.db.WithContext(ctx).Raw(adminMenuQuery).Scan(&rows).Error; err != nil {
		log.WithError(err).Error("Failed to query admin menu")
		return nil, fmt.Errorf("query admin menu: %w", err)
	}
	return groupAdminMenu(rows), nil
}

// groupPublicMenu folds the joined rows into categories in first-seen order
func groupPublicMenu(rows []menuRow) []models.CategoryView {
	menu := make([]models.CategoryView, 0)
	index := make(map[uint]int)
	for _, r := range rows {
		pos, seen := index[r.CategoryID]
		if !seen {
			menu = append(menu, models.CategoryView{
				ID:              r.CategoryID,
				Name:            r.CategoryName,
				Description:     r.CategoryDescription,
				ImageURL:        r.CategoryImageURL,
				GalleryImageURL: r.GalleryImageURL,
				DisplayOrder:    r.CategoryDisplayOrder,
				Items:           []models.ItemView{},
			})
			pos = len(menu) - 1
			index[r.CategoryID] = pos
		}
		if r.ItemID == nil {
			continue
		}
		menu[pos].Items = append(menu[pos].Items, models.ItemView{
			ID:           *r.ItemID,
			Name:         r.ItemName,
			Description:  r.ItemDescription,
			Price:        r.ItemPrice,
			ImageURL:     r.ItemImageURL,
			DisplayOrder: r.ItemDisplayOrder,
		})
	}
	return menu
}

func groupAdminMenu(rows []menuRow) []models.AdminCategoryView {
	menu := make([]models.AdminCategoryView, 0)
	index := make(map[uint]int)
	for _, r := range rows {
		pos, seen := index[r.CategoryID]
		if !seen {
			menu = append(menu, models.AdminCategoryView{
				ID:              r.CategoryID,
				Name:            r.CategoryName,
				Description:     r.CategoryDescription,
				ImageURL:        r.CategoryImageURL,
				GalleryImageID:  r.GalleryImageID,
				GalleryImageURL: r.GalleryImageURL,
				DisplayOrder:    r.CategoryDisplayOrder,
				IsActive:        r.IsActive,
				Items:           []models.AdminItemView{},
			})
			pos = len(menu) - 1
			index[r.CategoryID] = pos
		}
		if r.ItemID == nil {
			continue
		}
		menu[pos].Items = append(menu[pos].Items, models.AdminItemView{
			ID:           *r.ItemID,
			CategoryID:   r.CategoryID,
			Name:         r.ItemName,
			Description:  r.ItemDescription,
			Price:        r.ItemPrice,
			ImageURL:     r.ItemImageURL,
			DisplayOrder: r.ItemDisplayOrder,
			IsAvailable:  r.IsAvailable != nil && *r.IsAvailable,
		})
	}
	return menu
}

func (s *menuService) ListCategories(ctx context.Context) ([]models.MenuCategory, error) {
	categories := []models.MenuCategory{}
	if err := s.db.WithContext(ctx).Order("display_order, id").Find(&categories).Error; err != nil {
		return nil, translateError("list categories", err)
	}
	return categories, nil
}

func (s *menuService) ListItemsByCategory(ctx context.Context, categoryID uint) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	err := s.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("display_order, id").
		Find(&items).Error
	if err != nil {
		return nil, translateError("list items", err)
	}
	return items, nil
}

func (s *menuService) CreateCategory(ctx context.Context, input models.CategoryInput) (uint, error) {
	category := models.MenuCategory{
		Name:           input.Name,
		Description:    input.Description,
		ImageURL:       input.ImageURL,
		GalleryImageID: nonZero(input.GalleryImageID),
		DisplayOrder:   intOr(input.DisplayOrder, 0),
		IsActive:       flagOr(input.IsActive, true),
	}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return 0, s.writeFailed("create category", err)
	}
	s.cache.Invalidate()
	log.WithField("category_id", category.ID).Info("Menu category created")
	return category.ID, nil
}

func (s *menuService) UpdateCategory(ctx context.Context, id uint, input models.CategoryInput) error {
	result := s.db.WithContext(ctx).Model(&models.MenuCategory{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":             input.Name,
		"description":      input.Description,
		"image_url":        input.ImageURL,
		"gallery_image_id": nonZero(input.GalleryImageID),
		"display_order":    intOr(input.DisplayOrder, 0),
		"is_active":        flagOr(input.IsActive, false),
	})
	return s.finishWrite("update category", id, result)
}

func (s *menuService) PatchCategory(ctx context.Context, id uint, patch models.CategoryPatch) error {
	changes := map[string]interface{}{}
	if patch.Name != nil {
		changes["name"] = *patch.Name
	}
	if patch.Description != nil {
		changes["description"] = *patch.Description
	}
	if patch.ImageURL != nil {
		changes["image_url"] = *patch.ImageURL
	}
	if patch.GalleryImageID != nil {
		changes["gallery_image_id"] = nonZero(patch.GalleryImageID)
	}
	if patch.DisplayOrder != nil {
		changes["display_order"] = *patch.DisplayOrder
	}
	if patch.IsActive != nil {
		changes["is_active"] = patch.IsActive.Bool()
	}
	if len(changes) == 0 {
		return invalidField("body", "at least one field is required")
	}
	result := s.db.WithContext(ctx).Model(&models.MenuCategory{}).Where("id = ?", id).Updates(changes)
	return s.finishWrite("patch category", id, result)
}

func (s *menuService) DeleteCategory(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.MenuCategory{}, id)
	return s.finishWrite("delete category", id, result)
}

func (s *menuService) CreateItem(ctx context.Context, input models.ItemInput) (uint, error) {
	if input.CategoryID == 0 {
		return 0, invalidField("category_id", "required")
	}
	if err := validatePrice(input.Price); err != nil {
		return 0, err
	}
	item := models.MenuItem{
		CategoryID:   input.CategoryID,
		Name:         input.Name,
		Description:  input.Description,
		Price:        input.Price,
		ImageURL:     input.ImageURL,
		DisplayOrder: intOr(input.DisplayOrder, 0),
		IsAvailable:  flagOr(input.IsAvailable, true),
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return 0, s.writeFailed("create item", err)
	}
	s.cache.Invalidate()
	log.WithFields(log.Fields{"item_id": item.ID, "category_id": item.CategoryID}).Info("Menu item created")
	return item.ID, nil
}

func (s *menuService) UpdateItem(ctx context.Context, id uint, input models.ItemInput) error {
	if err := validatePrice(input.Price); err != nil {
		return err
	}
	changes := map[string]interface{}{
		"name":          input.Name,
		"description":   input.Description,
		"price":         input.Price,
		"image_url":     input.ImageURL,
		"display_order": intOr(input.DisplayOrder, 0),
		"is_available":  flagOr(input.IsAvailable, false),
	}
	if input.CategoryID != 0 {
		changes["category_id"] = input.CategoryID
	}
	result := s.db.WithContext(ctx).Model(&models.MenuItem{}).Where("id = ?", id).Updates(changes)
	return s.finishWrite("update item", id, result)
}

func (s *menuService) PatchItem(ctx context.Context, id uint, patch models.ItemPatch) error {
	changes := map[string]interface{}{}
	if patch.CategoryID != nil {
		changes["category_id"] = *patch.CategoryID
	}
	if patch.Name != nil {
		changes["name"] = *patch.Name
	}
	if patch.Description != nil {
		changes["description"] = *patch.Description
	}
	if patch.Price != nil {
		if err := validatePrice(*patch.Price); err != nil {
			return err
		}
		changes["price"] = *patch.Price
	}
	if patch.ImageURL != nil {
		changes["image_url"] = *patch.ImageURL
	}
	if patch.DisplayOrder != nil {
		changes["display_order"] = *patch.DisplayOrder
	}
	if patch.IsAvailable != nil {
		changes["is_available"] = patch.IsAvailable.Bool()
	}
	if len(changes) == 0 {
		return invalidField("body", "at least one field is required")
	}
	result := s.db.WithContext(ctx).Model(&models.MenuItem{}).Where("id = ?", id).Updates(changes)
	return s.finishWrite("patch item", id, result)
}

func (s *menuService) DeleteItem(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.MenuItem{}, id)
	return s.finishWrite("delete item", id, result)
}

// finishWrite invalidates the cache only when the statement changed a row
func (s *menuService) finishWrite(op string, id uint, result *gorm.DB) error {
	if err := affected(op, result); err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.WithError(err).WithField("id", id).Errorf("Failed to %s", op)
		}
		return err
	}
	s.cache.Invalidate()
	log.WithField("id", id).Infof("Menu %s done", op)
	return nil
}

func (s *menuService) writeFailed(op string, err error) error {
	err = translateError(op, err)
	log.WithError(err).Errorf("Failed to %s", op)
	return err
}

// MaxPrice is the largest amount a decimal(10,2) price column holds.
const MaxPrice = 99999999.99

func validatePrice(p models.Price) error {
	if !p.Valid {
		return nil
	}
	if p.Amount < 0 || math.IsNaN(p.Amount) || math.IsInf(p.Amount, 0) {
		return invalidField("price", "must be a non-negative number")
	}
	if p.Amount > MaxPrice {
		return invalidField("price", "must not exceed 99999999.99")
	}
	return nil
}

// nonZero maps an absent or zero id onto NULL
func nonZero(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func flagOr(f *models.Flag, fallback bool) bool {
	if f == nil {
		return fallback
	}
	return f.Bool()
}
