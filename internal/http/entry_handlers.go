package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tazhibayda/family-gallery/internal/domain"
	"github.com/tazhibayda/family-gallery/internal/serr"
	"github.com/tazhibayda/family-gallery/internal/service"
)

type batchResp struct {
	Entries []domain.Entry       `json:"entries"`
	Results []service.ItemResult `json:"results"`
}

// ListEntries godoc
// @Summary Entries of a gallery in capture order
// @Tags entries
// @Produce json
// @Param galleryId path string true "gallery id"
// @Success 200 {array} domain.Entry
// @Failure 403 {object} messageResp
// @Failure 404 {object} messageResp
// @Router /api/entries/gallery/{galleryId} [get]
func (h *Handler) ListEntries(c *gin.Context) {
	es, err := h.Entries.List(c.Request.Context(), viewer(c), c.Param("galleryId"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, es)
}

// UploadEntries godoc
// @Summary Upload several images into a gallery
// @Description Each file is handled on its own; non-image files are reported and skipped.
// @Tags entries
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param galleryId formData string true "gallery id"
// @Param title formData string false "title"
// @Param description formData string false "description"
// @Param images formData file true "images"
// @Success 201 {object} batchResp
// @Failure 400 {object} messageResp
// @Router /api/entries [post]
func (h *Handler) UploadEntries(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUpload*maxBatchFiles+maxJSONBody)
	form, err := parseForm(c)
	if err != nil {
		writeErr(c, err)
		return
	}
	fhs := form.File["images"]
	if len(fhs) == 0 {
		writeErr(c, serr.New(serr.Validation, "at least one image is required"))
		return
	}
	if len(fhs) > maxBatchFiles {
		writeErr(c, serr.New(serr.Validation, "too many files, at most %d", maxBatchFiles))
		return
	}
	ups := make([]service.Upload, 0, len(fhs))
	for _, fh := range fhs {
		ups = append(ups, fileUpload(fh))
	}
	in := service.EntryInput{
		GalleryID:   formValue(form, "galleryId"),
		Title:       formValue(form, "title"),
		Description: formValue(form, "description"),
	}
	entries, results, err := h.Entries.Upload(c.Request.Context(), in, ups)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, batchResp{Entries: entries, Results: results})
}

// CreateEntry godoc
// @Summary Upload one image with an optional capture date
// @Tags entries
// @Accept mpfd
// @Produce json
// @Param galleryId formData string true "gallery id"
// @Param title formData string false "title"
// @Param description formData string false "description"
// @Param dateTaken formData string false "RFC 3339 or YYYY-MM-DD; overrides EXIF"
// @Param image formData file true "image"
// @Success 201 {object} domain.Entry
// @Failure 400 {object} messageResp
// @Router /api/entries/admin [post]
func (h *Handler) CreateEntry(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUpload+maxJSONBody)
	form, err := parseForm(c)
	if err != nil {
		writeErr(c, err)
		return
	}
	fhs := form.File["image"]
	if len(fhs) == 0 {
		writeErr(c, serr.New(serr.Validation, "image file is required"))
		return
	}
	taken, err := parseDate(formValue(form, "dateTaken"))
	if err != nil {
		writeErr(c, err)
		return
	}
	up := fileUpload(fhs[0])
	e, err := h.Entries.CreateOne(c.Request.Context(), service.EntryInput{
		GalleryID:   formValue(form, "galleryId"),
		Title:       formValue(form, "title"),
		Description: formValue(form, "description"),
		DateTaken:   taken,
	}, &up)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// ImportEntries godoc
// @Summary Import picked Google Photos items into a gallery
// @Tags entries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.ImportRequest true "items to import"
// @Success 201 {object} service.ImportResult
// @Failure 400 {object} messageResp
// @Router /api/entries/import-google [post]
func (h *Handler) ImportEntries(c *gin.Context) {
	var in service.ImportRequest
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 4*maxJSONBody)
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, messageResp{Message: "invalid json"})
		return
	}
	res, err := h.Entries.Import(c.Request.Context(), in)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// DeleteEntry godoc
// @Summary Delete an entry and its file
// @Tags entries
// @Produce json
// @Param id path string true "entry id"
// @Success 200 {object} messageResp
// @Failure 404 {object} messageResp
// @Router /api/entries/{id} [delete]
func (h *Handler) DeleteEntry(c *gin.Context) {
	if err := h.Entries.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResp{Message: "Entry deleted"})
}
