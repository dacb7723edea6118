package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tazhibayda/family-gallery/internal/serr"
	"github.com/tazhibayda/family-gallery/internal/service"
)

type galleryReq struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Story        string   `json:"story"`
	CoverImage   string   `json:"coverImage"`
	IsFamilyOnly flexBool `json:"isFamilyOnly"`
	Tags         flexTags `json:"tags"`
	Year         int      `json:"year"`
	Month        int      `json:"month"`
}

func (g galleryReq) input() service.GalleryInput {
	return service.GalleryInput{
		Name:         g.Name,
		Description:  g.Description,
		Story:        g.Story,
		CoverImage:   g.CoverImage,
		IsFamilyOnly: bool(g.IsFamilyOnly),
		Tags:         g.Tags,
		Year:         g.Year,
		Month:        g.Month,
	}
}

type galleryPatchReq struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Story       *string   `json:"story"`
	Tags        *flexTags `json:"tags"`
	Year        *int      `json:"year"`
	Month       *int      `json:"month"`
}

func (h *Handler) bindGallery(c *gin.Context, dst any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxJSONBody)
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, messageResp{Message: "invalid json"})
		return false
	}
	return true
}

// ListGalleries godoc
// @Summary Galleries visible to the caller, newest first
// @Tags galleries
// @Produce json
// @Success 200 {array} domain.Gallery
// @Router /api/galleries [get]
func (h *Handler) ListGalleries(c *gin.Context) {
	gs, err := h.Galleries.List(c.Request.Context(), viewer(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gs)
}

// GetGallery godoc
// @Summary One gallery by id or name
// @Tags galleries
// @Produce json
// @Param id path string true "gallery id or name"
// @Success 200 {object} domain.Gallery
// @Failure 403 {object} messageResp
// @Failure 404 {object} messageResp
// @Router /api/galleries/{id} [get]
func (h *Handler) GetGallery(c *gin.Context) {
	g, err := h.Galleries.Get(c.Request.Context(), viewer(c), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// CreateFamilyGallery godoc
// @Summary Create a family-only gallery
// @Tags galleries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body galleryReq true "gallery"
// @Success 201 {object} domain.Gallery
// @Failure 400 {object} messageResp
// @Failure 403 {object} messageResp
// @Router /api/galleries [post]
func (h *Handler) CreateFamilyGallery(c *gin.Context) {
	var in galleryReq
	if !h.bindGallery(c, &in) {
		return
	}
	g, err := h.Galleries.CreateForFamily(c.Request.Context(), in.input())
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// CreateAdminGallery godoc
// @Summary Create a gallery with explicit visibility
// @Tags galleries
// @Accept json
// @Produce json
// @Param payload body galleryReq true "gallery"
// @Success 201 {object} domain.Gallery
// @Failure 400 {object} messageResp
// @Router /api/galleries/admin [post]
func (h *Handler) CreateAdminGallery(c *gin.Context) {
	var in galleryReq
	if !h.bindGallery(c, &in) {
		return
	}
	g, err := h.Galleries.CreateForAdmin(c.Request.Context(), in.input())
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// UpdateGallery godoc
// @Summary Partially update a gallery
// @Description Only provided fields change. Visibility cannot be changed here.
// @Tags galleries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "gallery id"
// @Param payload body galleryPatchReq true "fields to change"
// @Success 200 {object} domain.Gallery
// @Failure 400 {object} messageResp
// @Failure 404 {object} messageResp
// @Router /api/galleries/{id} [put]
func (h *Handler) UpdateGallery(c *gin.Context) {
	var in galleryPatchReq
	if !h.bindGallery(c, &in) {
		return
	}
	up := service.GalleryUpdate{
		Name:        in.Name,
		Description: in.Description,
		Story:       in.Story,
		Year:        in.Year,
		Month:       in.Month,
	}
	if in.Tags != nil {
		tags := []string(*in.Tags)
		up.Tags = &tags
	}
	g, err := h.Galleries.Update(c.Request.Context(), c.Param("id"), up)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// SetGalleryCover godoc
// @Summary Replace the gallery cover image
// @Tags galleries
// @Accept mpfd
// @Produce json
// @Param id path string true "gallery id"
// @Param image formData file true "cover image"
// @Success 200 {object} domain.Gallery
// @Failure 400 {object} messageResp
// @Failure 404 {object} messageResp
// @Router /api/galleries/{id}/cover [post]
func (h *Handler) SetGalleryCover(c *gin.Context) {
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
	up := fileUpload(fhs[0])
	g, err := h.Galleries.SetCover(c.Request.Context(), c.Param("id"), &up)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// DeleteGallery godoc
// @Summary Delete a gallery with its entries and files
// @Tags galleries
// @Produce json
// @Param id path string true "gallery id"
// @Success 200 {object} messageResp
// @Failure 404 {object} messageResp
// @Router /api/galleries/{id} [delete]
func (h *Handler) DeleteGallery(c *gin.Context) {
	if err := h.Galleries.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResp{Message: "Gallery deleted"})
}
