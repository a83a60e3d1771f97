package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/franciscosanchezn/thunder-road-api/internal/menucache"
	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"github.com/franciscosanchezn/thunder-road-api/internal/storage"
	"github.com/gabriel-vasile/mimetype"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Media listing bounds
const (
	DefaultMediaLimit = 48
	MaxMediaLimit     = 200
)

// UploadsPrefix is the URL path uploaded files are served from
const UploadsPrefix = "/uploads/"

// ErrUnsupportedMediaType is returned for uploads whose content is not an
// accepted image or video format
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// AllowedMediaTypes lists the content types accepted for upload
var AllowedMediaTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "video/mp4"}

// MediaUpload describes one uploaded file
type MediaUpload struct {
	FileName string
	Size     int64
	Title    string
	AltText  string
	Category string
	Content  io.ReadSeeker
}

// MediaService manages the media library
type MediaService interface {
	// ListMedia returns one page of assets, newest first, and the total count
	ListMedia(ctx context.Context, category string, limit, offset int) ([]models.MediaAsset, int64, error)
	// Upload sniffs the content type, stores the file and records it
	Upload(ctx context.Context, upload MediaUpload) (*models.MediaAsset, error)
	// DeleteMedia removes the record, then the stored file
	DeleteMedia(ctx context.Context, id uint) error
}

type mediaService struct {
	db    *gorm.DB
	files storage.FileStore
	cache *menucache.Cache
}

// NewMediaService creates a MediaService. Deleting an asset clears the gallery
// image of categories using it, so the menu cache is invalidated as well.
func NewMediaService(db *gorm.DB, files storage.FileStore, cache *menucache.Cache) MediaService {
	return &mediaService{db: db, files: files, cache: cache}
}

func clampMediaWindow(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultMediaLimit
	}
	if limit > MaxMediaLimit {
		limit = MaxMediaLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *mediaService) ListMedia(ctx context.Context, category string, limit, offset int) ([]models.MediaAsset, int64, error) {
	limit, offset = clampMediaWindow(limit, offset)

	scoped := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&models.MediaAsset{})
		if category != "" {
			query = query.Where("category = ?", category)
		}
		return query
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, translateError("count media", err)
	}

	assets := []models.MediaAsset{}
	err := scoped().Order("uploaded_at DESC, id DESC").Limit(limit).Offset(offset).Find(&assets).Error
	if err != nil {
		return nil, 0, translateError("list media", err)
	}
	return assets, total, nil
}

func (s *mediaService) Upload(ctx context.Context, upload MediaUpload) (*models.MediaAsset, error) {
	mtype, err := mimetype.DetectReader(upload.Content)
	if err != nil {
		return nil, fmt.Errorf("detect media type: %w", err)
	}
	if !mimetype.EqualsAny(mtype.String(), AllowedMediaTypes...) {
		log.WithFields(log.Fields{
			"file_name": upload.FileName,
			"detected":  mtype.String(),
		}).Warn("Rejected upload with unsupported content type")
		return nil, ErrUnsupportedMediaType
	}
	if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	key, err := s.files.Save(ctx, mtype.Extension(), upload.Content)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	asset := models.MediaAsset{
		FileURL:    UploadsPrefix + key,
		FileName:   path.Base(upload.FileName),
		StorageKey: key,
		FileType:   mtype.String(),
		FileSize:   upload.Size,
		Title:      upload.Title,
		AltText:    upload.AltText,
		Category:   upload.Category,
	}
	if err := s.db.WithContext(ctx).Create(&asset).Error; err != nil {
		if derr := s.files.Delete(ctx, key); derr != nil {
			log.WithError(derr).WithField("storage_key", key).Error("Failed to remove orphaned upload")
		}
		return nil, translateError("record upload", err)
	}
	log.WithFields(log.Fields{
		"media_id":  asset.ID,
		"file_type": asset.FileType,
		"file_size": asset.FileSize,
	}).Info("Media uploaded")
	return &asset, nil
}

func (s *mediaService) DeleteMedia(ctx context.Context, id uint) error {
	db := s.db.WithContext(ctx)
	var asset models.MediaAsset
	if err := db.Take(&asset, id).Error; err != nil {
		return translateError("load media", err)
	}
	if err := affected("delete media", db.Delete(&models.MediaAsset{}, id)); err != nil {
		return err
	}
	s.cache.Invalidate()

	if asset.StorageKey != "" {
		if err := s.files.Delete(ctx, asset.StorageKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
			log.WithError(err).WithField("storage_key", asset.StorageKey).Warn("Media record deleted but file removal failed")
		}
	}
	return nil
}
