package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type tagReq struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ListTags godoc
// @Summary All tags by name
// @Tags tags
// @Produce json
// @Success 200 {array} domain.Tag
// @Router /api/tags [get]
func (h *Handler) ListTags(c *gin.Context) {
	ts, err := h.Tags.List(c.Request.Context())
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ts)
}

// CreateTag godoc
// @Summary Create a tag
// @Tags tags
// @Accept json
// @Produce json
// @Param payload body tagReq true "tag"
// @Success 201 {object} domain.Tag
// @Failure 400 {object} messageResp
// @Router /api/tags [post]
func (h *Handler) CreateTag(c *gin.Context) {
	var in tagReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, messageResp{Message: "invalid json"})
		return
	}
	t, err := h.Tags.Create(c.Request.Context(), in.Name, in.Slug)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// DeleteTag godoc
// @Summary Delete a tag
// @Description Posts and galleries keep the id; it is dropped when they are read.
// @Tags tags
// @Produce json
// @Param id path string true "tag id"
// @Success 200 {object} messageResp
// @Failure 404 {object} messageResp
// @Router /api/tags/{id} [delete]
func (h *Handler) DeleteTag(c *gin.Context) {
	if err := h.Tags.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResp{Message: "Tag deleted"})
}
