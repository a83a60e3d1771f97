package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/franciscosanchezn/thunder-road-api/internal/menucache"
	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"github.com/franciscosanchezn/thunder-road-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type menuFixture struct {
	db      *gorm.DB
	cache   *menucache.Cache
	now     time.Time
	service MenuService
}

func newMenuFixture(t *testing.T) *menuFixture {
	t.Helper()
	f := &menuFixture{
		db:  testutil.NewTestDB(t),
		now: time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC),
	}
	f.cache = menucache.New(menucache.WithClock(func() time.Time { return f.now }))
	f.service = NewMenuService(f.db, f.cache, menucache.DefaultTTL)
	return f
}

func (f *menuFixture) publicMenu(t *testing.T) []map[string]interface{} {
	t.Helper()
	payload, err := f.service.PublicMenuJSON(context.Background())
	require.NoError(t, err)
	var menu []map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &menu))
	return menu
}

func (f *menuFixture) category(t *testing.T, name string, order int, active bool) uint {
	t.Helper()
	id, err := f.service.CreateCategory(context.Background(), models.CategoryInput{
		Name:         name,
		DisplayOrder: &order,
		IsActive:     models.FlagPtr(active),
	})
	require.NoError(t, err)
	return id
}

func (f *menuFixture) item(t *testing.T, categoryID uint, name string, order int, available bool, price models.Price) uint {
	t.Helper()
	id, err := f.service.CreateItem(context.Background(), models.ItemInput{
		CategoryID:   categoryID,
		Name:         name,
		Price:        price,
		DisplayOrder: &order,
		IsAvailable:  models.FlagPtr(available),
	})
	require.NoError(t, err)
	return id
}

func TestPublicMenuFiltersInactiveAndUnavailable(t *testing.T) {
	f := newMenuFixture(t)
	mains := f.category(t, "Mains", 1, true)
	f.category(t, "Secret", 0, false)
	f.item(t, mains, "Burger", 1, true, models.NewPrice(11))
	f.item(t, mains, "Sold out", 0, false, models.NewPrice(9))

	menu := f.publicMenu(t)

	require.Len(t, menu, 1)
	assert.Equal(t, "Mains", menu[0]["name"])
	items := menu[0]["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "Burger", items[0].(map[string]interface{})["name"])
	assert.NotContains(t, menu[0], "is_active")
	assert.NotContains(t, items[0], "is_available")
}

func TestPublicMenuKeepsEmptyCategories(t *testing.T) {
	f := newMenuFixture(t)
	f.category(t, "Empty", 0, true)
	allGone := f.category(t, "All sold out", 1, true)
	f.item(t, allGone, "Pie", 0, false, models.Price{})

	payload, err := f.service.PublicMenuJSON(context.Background())
	require.NoError(t, err)

	assert.JSONEq(t, `[
		{"id": 1, "name": "Empty", "description": "", "image_url": "", "gallery_image_url": null, "display_order": 0, "items": []},
		{"id": 2, "name": "All sold out", "description": "", "image_url": "", "gallery_image_url": null, "display_order": 1, "items": []}
	]`, string(payload))
}

func TestPublicMenuEmptyStoreIsEmptyArray(t *testing.T) {
	f := newMenuFixture(t)

	payload, err := f.service.PublicMenuJSON(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(payload))
}

func TestPublicMenuOrdering(t *testing.T) {
	f := newMenuFixture(t)
	drinks := f.category(t, "Drinks", 2, true)
	starters := f.category(t, "Starters", 1, true)
	f.item(t, starters, "Wings", 2, true, models.NewPrice(8))
	f.item(t, starters, "Nachos", 1, true, models.NewPrice(7))
	f.item(t, drinks, "Cola", 0, true, models.NewPrice(2))

	menu := f.publicMenu(t)

	require.Len(t, menu, 2)
	assert.Equal(t, "Starters", menu[0]["name"])
	assert.Equal(t, "Drinks", menu[1]["name"])
	items := menu[0]["items"].([]interface{})
	assert.Equal(t, "Nachos", items[0].(map[string]interface{})["name"])
	assert.Equal(t, "Wings", items[1].(map[string]interface{})["name"])
}

func TestPublicMenuPriceIsNumberOrNull(t *testing.T) {
	f := newMenuFixture(t)
	mains := f.category(t, "Mains", 0, true)
	price, err := models.ParsePrice("12.50")
	require.NoError(t, err)
	f.item(t, mains, "Steak", 0, true, price)
	f.item(t, mains, "Market fish", 1, true, models.Price{})

	menu := f.publicMenu(t)

	items := menu[0]["items"].([]interface{})
	assert.Equal(t, 12.5, items[0].(map[string]interface{})["price"])
	assert.Nil(t, items[1].(map[string]interface{})["price"])
	assert.Contains(t, items[1], "price")
}

func TestPublicMenuGalleryImageURL(t *testing.T) {
	f := newMenuFixture(t)
	asset := models.MediaAsset{FileURL: "/uploads/1700000000000-abc.jpg", FileName: "burger.jpg"}
	require.NoError(t, f.db.Create(&asset).Error)
	order := 0
	_, err := f.service.CreateCategory(context.Background(), models.CategoryInput{
		Name:           "Burgers",
		GalleryImageID: &asset.ID,
		DisplayOrder:   &order,
	})
	require.NoError(t, err)

	menu := f.publicMenu(t)

	assert.Equal(t, "/uploads/1700000000000-abc.jpg", menu[0]["gallery_image_url"])
}

func TestPublicMenuServedFromCacheWithinTTL(t *testing.T) {
	f := newMenuFixture(t)
	mains := f.category(t, "Mains", 0, true)
	f.item(t, mains, "Burger", 0, true, models.NewPrice(10))

	first, err := f.service.PublicMenuJSON(context.Background())
	require.NoError(t, err)

	// a change behind the service's back stays invisible until the TTL passes
	require.NoError(t, f.db.Model(&models.MenuItem{}).Where("name = ?", "Burger").Update("name", "Changed").Error)
	f.now = f.now.Add(menucache.DefaultTTL - time.Millisecond)

	second, err := f.service.PublicMenuJSON(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	f.now = f.now.Add(time.Millisecond)
	third, err := f.service.PublicMenuJSON(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(third), "Changed")
}

func TestWritesInvalidateImmediately(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()
	mains := f.category(t, "Mains", 0, true)
	burger := f.item(t, mains, "Burger", 0, true, models.NewPrice(10))
	f.publicMenu(t)

	writes := []struct {
		name  string
		write func() error
	}{
		{"update category", func() error {
			return f.service.UpdateCategory(ctx, mains, models.CategoryInput{Name: "Mains 2", IsActive: models.FlagPtr(true)})
		}},
		{"patch category", func() error {
			name := "Mains 3"
			return f.service.PatchCategory(ctx, mains, models.CategoryPatch{Name: &name})
		}},
		{"update item", func() error {
			return f.service.UpdateItem(ctx, burger, models.ItemInput{Name: "Burger 2", IsAvailable: models.FlagPtr(true)})
		}},
		{"patch item", func() error {
			p := models.NewPrice(11)
			return f.service.PatchItem(ctx, burger, models.ItemPatch{Price: &p})
		}},
		{"create item", func() error {
			_, err := f.service.CreateItem(ctx, models.ItemInput{CategoryID: mains, Name: "Fries"})
			return err
		}},
		{"delete item", func() error { return f.service.DeleteItem(ctx, burger) }},
		{"create category", func() error {
			_, err := f.service.CreateCategory(ctx, models.CategoryInput{Name: "Drinks"})
			return err
		}},
		{"delete category", func() error { return f.service.DeleteCategory(ctx, mains) }},
	}

	for _, w := range writes {
		t.Run(w.name, func(t *testing.T) {
			f.publicMenu(t)
			_, cached := f.cache.Get()
			require.True(t, cached)

			require.NoError(t, w.write())

			_, cached = f.cache.Get()
			assert.False(t, cached)
		})
	}
}

func TestReadAfterWriteSeesWrite(t *testing.T) {
	f := newMenuFixture(t)
	mains := f.category(t, "Mains", 0, true)
	f.publicMenu(t)

	name := "Renamed"
	require.NoError(t, f.service.PatchCategory(context.Background(), mains, models.CategoryPatch{Name: &name}))

	menu := f.publicMenu(t)
	assert.Equal(t, "Renamed", menu[0]["name"])
}

func TestFailedWritesKeepCache(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()
	mains := f.category(t, "Mains", 0, true)
	f.publicMenu(t)
	generation := f.cache.Generation()

	err := f.service.UpdateCategory(ctx, 999, models.CategoryInput{Name: "Ghost"})
	assert.ErrorIs(t, err, ErrNotFound)

	err = f.service.DeleteItem(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.service.CreateItem(ctx, models.ItemInput{CategoryID: 999, Name: "Orphan"})
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = f.service.CreateItem(ctx, models.ItemInput{CategoryID: mains, Name: "Negative", Price: models.NewPrice(-1)})
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Fields, "price")

	_, cached := f.cache.Get()
	assert.True(t, cached)
	assert.Equal(t, generation, f.cache.Generation())
}

func TestCreateDefaults(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()

	catID, err := f.service.CreateCategory(ctx, models.CategoryInput{Name: "Defaults"})
	require.NoError(t, err)
	itemID, err := f.service.CreateItem(ctx, models.ItemInput{CategoryID: catID, Name: "Plain"})
	require.NoError(t, err)

	var category models.MenuCategory
	require.NoError(t, f.db.First(&category, catID).Error)
	assert.Equal(t, 0, category.DisplayOrder)
	assert.True(t, category.IsActive)
	assert.Nil(t, category.GalleryImageID)

	var item models.MenuItem
	require.NoError(t, f.db.First(&item, itemID).Error)
	assert.True(t, item.IsAvailable)
	assert.False(t, item.Price.Valid)
}

func TestUpdateIsFullReplacement(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()
	order := 4
	id, err := f.service.CreateCategory(ctx, models.CategoryInput{
		Name:         "Full",
		Description:  "described",
		DisplayOrder: &order,
		IsActive:     models.FlagPtr(true),
	})
	require.NoError(t, err)

	require.NoError(t, f.service.UpdateCategory(ctx, id, models.CategoryInput{Name: "Bare"}))

	var category models.MenuCategory
	require.NoError(t, f.db.First(&category, id).Error)
	assert.Equal(t, "Bare", category.Name)
	assert.Empty(t, category.Description)
	assert.Equal(t, 0, category.DisplayOrder)
	assert.False(t, category.IsActive)
}

func TestPatchChangesOnlyPresentFields(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()
	mains := f.category(t, "Mains", 3, true)
	burger := f.item(t, mains, "Burger", 2, true, models.NewPrice(10))

	require.NoError(t, f.service.PatchItem(ctx, burger, models.ItemPatch{IsAvailable: models.FlagPtr(false)}))

	var item models.MenuItem
	require.NoError(t, f.db.First(&item, burger).Error)
	assert.Equal(t, "Burger", item.Name)
	assert.Equal(t, 2, item.DisplayOrder)
	assert.Equal(t, models.NewPrice(10), item.Price)
	assert.False(t, item.IsAvailable)

	err := f.service.PatchItem(ctx, burger, models.ItemPatch{})
	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestPriceMustFitColumn(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()
	mains := f.category(t, "Mains", 0, true)

	_, err := f.service.CreateItem(ctx, models.ItemInput{CategoryID: mains, Name: "Gold", Price: models.NewPrice(1e9)})
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Fields, "price")

	id, err := f.service.CreateItem(ctx, models.ItemInput{CategoryID: mains, Name: "Top", Price: models.NewPrice(MaxPrice)})
	require.NoError(t, err)

	err = f.service.UpdateItem(ctx, id, models.ItemInput{Name: "Top", Price: models.NewPrice(MaxPrice + 1)})
	require.True(t, errors.As(err, &validationErr))

	tooMuch := models.NewPrice(1e12)
	err = f.service.PatchItem(ctx, id, models.ItemPatch{Price: &tooMuch})
	require.True(t, errors.As(err, &validationErr))

	var item models.MenuItem
	require.NoError(t, f.db.First(&item, id).Error)
	assert.Equal(t, models.NewPrice(MaxPrice), item.Price)
}

func TestDeleteCategoryCascadesItems(t *testing.T) {
	f := newMenuFixture(t)
	mains := f.category(t, "Mains", 0, true)
	f.item(t, mains, "Burger", 0, true, models.NewPrice(10))

	require.NoError(t, f.service.DeleteCategory(context.Background(), mains))

	var count int64
	require.NoError(t, f.db.Model(&models.MenuItem{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAdminMenuIncludesEverything(t *testing.T) {
	f := newMenuFixture(t)
	hidden := f.category(t, "Hidden", 0, false)
	f.item(t, hidden, "Off", 0, false, models.Price{})
	f.publicMenu(t)

	menu, err := f.service.AdminMenu(context.Background())
	require.NoError(t, err)

	require.Len(t, menu, 1)
	assert.False(t, menu[0].IsActive)
	require.Len(t, menu[0].Items, 1)
	assert.False(t, menu[0].Items[0].IsAvailable)
	assert.Equal(t, hidden, menu[0].Items[0].CategoryID)

	out, err := json.Marshal(menu)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"gallery_image_id":null`)
}

func TestFlatLists(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()
	second := f.category(t, "Second", 2, true)
	f.category(t, "First", 1, false)
	f.item(t, second, "B", 1, true, models.Price{})
	f.item(t, second, "A", 0, false, models.Price{})

	categories, err := f.service.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "First", categories[0].Name)

	items, err := f.service.ListItemsByCategory(ctx, second)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Name)

	none, err := f.service.ListItemsByCategory(ctx, 999)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestStoreFailureLeavesCacheUntouched(t *testing.T) {
	f := newMenuFixture(t)
	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = f.service.PublicMenuJSON(context.Background())
	assert.Error(t, err)

	_, cached := f.cache.Get()
	assert.False(t, cached)
}
