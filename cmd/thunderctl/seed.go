package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"github.com/franciscosanchezn/thunder-road-api/internal/services"
	"gopkg.in/yaml.v3"
)

// MenuFile is the YAML layout accepted by seed-menu.
type MenuFile struct {
	Categories []SeedCategory `yaml:"categories"`
}

// SeedCategory is one category of a menu file.
type SeedCategory struct {
	Name         string     `yaml:"name"`
	Description  string     `yaml:"description,omitempty"`
	ImageURL     string     `yaml:"image_url,omitempty"`
	DisplayOrder *int       `yaml:"display_order,omitempty"`
	IsActive     *bool      `yaml:"is_active,omitempty"`
	Items        []SeedItem `yaml:"items,omitempty"`
}

// SeedItem is one item of a menu file. A missing price is stored as null.
type SeedItem struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description,omitempty"`
	Price        *float64 `yaml:"price,omitempty"`
	ImageURL     string   `yaml:"image_url,omitempty"`
	DisplayOrder *int     `yaml:"display_order,omitempty"`
	IsAvailable  *bool    `yaml:"is_available,omitempty"`
}

// SeedResult counts what SeedMenu wrote.
type SeedResult struct {
	Categories int
	Items      int
	Skipped    int
}

// LoadMenuFile reads and parses a YAML menu file.
func LoadMenuFile(path string) (*MenuFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed-menu: reading %s: %w", path, err)
	}
	return ParseMenuYAML(data)
}

// ParseMenuYAML parses a menu file, rejecting unknown keys and nameless entries.
func ParseMenuYAML(data []byte) (*MenuFile, error) {
	var file MenuFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("seed-menu: parsing YAML: %w", err)
	}
	for i, c := range file.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("seed-menu: category %d has no name", i+1)
		}
		for j, item := range c.Items {
			if strings.TrimSpace(item.Name) == "" {
				return nil, fmt.Errorf("seed-menu: item %d of %q has no name", j+1, c.Name)
			}
		}
	}
	return &file, nil
}

// SeedMenu creates the categories of menu and their items through svc.
// Categories whose name already exists are skipped with their items, so a
// file can be applied twice.
func SeedMenu(ctx context.Context, svc services.MenuService, menu *MenuFile) (SeedResult, error) {
	var result SeedResult

	existing, err := svc.ListCategories(ctx)
	if err != nil {
		return result, err
	}
	known := make(map[string]bool, len(existing))
	for _, c := range existing {
		known[strings.ToLower(c.Name)] = true
	}

	for _, c := range menu.Categories {
		if known[strings.ToLower(c.Name)] {
			result.Skipped++
			continue
		}
		categoryID, err := svc.CreateCategory(ctx, models.CategoryInput{
			Name:         c.Name,
			Description:  c.Description,
			ImageURL:     c.ImageURL,
			DisplayOrder: c.DisplayOrder,
			IsActive:     optionalFlag(c.IsActive),
		})
		if err != nil {
			return result, fmt.Errorf("category %q: %w", c.Name, err)
		}
		known[strings.ToLower(c.Name)] = true
		result.Categories++

		for _, item := range c.Items {
			input := models.ItemInput{
				CategoryID:   categoryID,
				Name:         item.Name,
				Description:  item.Description,
				ImageURL:     item.ImageURL,
				DisplayOrder: item.DisplayOrder,
				IsAvailable:  optionalFlag(item.IsAvailable),
			}
			if item.Price != nil {
				input.Price = models.NewPrice(*item.Price)
			}
			if _, err := svc.CreateItem(ctx, input); err != nil {
				return result, fmt.Errorf("item %q of %q: %w", item.Name, c.Name, err)
			}
			result.Items++
		}
	}
	return result, nil
}

func optionalFlag(b *bool) *models.Flag {
	if b == nil {
		return nil
	}
	return models.FlagPtr(*b)
}
