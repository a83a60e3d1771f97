package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"github.com/franciscosanchezn/thunder-road-api/internal/services"
	"github.com/gin-gonic/gin"
)

// multipartOverhead leaves room for the form fields and boundaries around the file
const multipartOverhead = 64 << 10

// MediaController handles the media library
type MediaController interface {
	ListMedia(c *gin.Context)
	UploadMedia(c *gin.Context)
	DeleteMedia(c *gin.Context)
}

type mediaController struct {
	service  services.MediaService
	maxBytes int64
}

// NewMediaController creates a MediaController that rejects files larger than maxBytes
func NewMediaController(service services.MediaService, maxBytes int64) MediaController {
	return &mediaController{service: service, maxBytes: maxBytes}
}

// ListMedia godoc
// @Summary List media assets
// @Description Newest first. The total number of matching assets is returned in X-Total-Count.
// @Tags media
// @Produce json
// @Param category query string false "Category filter"
// @Param limit query int false "Page size, at most 200" default(48)
// @Param offset query int false "Offset"
// @Success 200 {array} models.MediaAsset
// @Header 200 {integer} X-Total-Count "Total matching assets"
// @Router /api/media [get]
func (m *mediaController) ListMedia(c *gin.Context) {
	limit := queryInt(c, "limit", services.DefaultMediaLimit)
	offset := queryInt(c, "offset", 0)
	assets, total, err := m.service.ListMedia(c.Request.Context(), c.Query("category"), limit, offset)
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Media not found")
		return
	}
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, assets)
}

// UploadMedia godoc
// @Summary Upload a file to the media library
// @Description JPEG, PNG, GIF, WebP or MP4, detected from the file content
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File"
// @Param title formData string false "Title"
// @Param alt_text formData string false "Alternative text"
// @Param category formData string false "Category"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.APIError
// @Failure 413 {object} models.APIError
// @Failure 415 {object} models.APIError
// @Security BearerAuth
// @Router /api/media/upload [post]
func (m *mediaController) UploadMedia(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, m.maxBytes+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			m.rejectTooLarge(c)
			return
		}
		respondError(c, http.StatusBadRequest, models.ErrBadRequest, "No file uploaded",
			map[string]interface{}{"cause": err.Error()})
		return
	}
	if header.Size > m.maxBytes {
		m.rejectTooLarge(c)
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, models.ErrBadRequest, "Could not read uploaded file",
			map[string]interface{}{"cause": err.Error()})
		return
	}
	defer file.Close()

	asset, err := m.service.Upload(c.Request.Context(), services.MediaUpload{
		FileName: header.Filename,
		Size:     header.Size,
		Title:    c.PostForm("title"),
		AltText:  c.PostForm("alt_text"),
		Category: c.PostForm("category"),
		Content:  file,
	})
	if errors.Is(err, services.ErrUnsupportedMediaType) {
		respondError(c, http.StatusUnsupportedMediaType, models.ErrUnsupportedUpload,
			"Only JPEG, PNG, GIF, WebP and MP4 files are allowed")
		return
	}
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Media not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       asset.ID,
		"file_url": asset.FileURL,
		"message":  "File uploaded successfully",
	})
}

func (m *mediaController) rejectTooLarge(c *gin.Context) {
	respondError(c, http.StatusRequestEntityTooLarge, models.ErrPayloadTooLarge, "File too large",
		map[string]interface{}{"max_bytes": m.maxBytes})
}

// DeleteMedia godoc
// @Summary Delete a media asset
// @Description Removes the record, then the stored file. Categories using it as gallery image are cleared.
// @Tags media
// @Param id path int true "Media ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/media/{id} [delete]
func (m *mediaController) DeleteMedia(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := m.service.DeleteMedia(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Media not found")
		return
	}
	respondMessage(c, http.StatusOK, "Media deleted")
}
