package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListPosts godoc
// @Summary Published posts, newest first
// @Tags posts
// @Produce json
// @Param page query int false "page, from 1"
// @Param limit query int false "page size, at most 100"
// @Success 200 {object} domain.PostPage
// @Router /api/posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	p, err := h.Posts.ListPublished(c.Request.Context(), page, limit)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListAllPosts godoc
// @Summary All posts including drafts
// @Tags posts
// @Produce json
// @Success 200 {array} domain.Post
// @Router /api/posts/admin [get]
func (h *Handler) ListAllPosts(c *gin.Context) {
	ps, err := h.Posts.ListAll(c.Request.Context())
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

// GetPost godoc
// @Summary One post; drafts only for the admin
// @Tags posts
// @Produce json
// @Param id path string true "post id"
// @Success 200 {object} domain.Post
// @Failure 404 {object} messageResp
// @Router /api/posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	p, err := h.Posts.Get(c.Request.Context(), viewer(c), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreatePost godoc
// @Summary Create a post
// @Description Accepts JSON or a form. A form may include a coverImage file.
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Param payload body postReq true "post"
// @Success 201 {object} domain.Post
// @Failure 400 {object} messageResp
// @Router /api/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	in, cover, err := h.bindPost(c)
	if err != nil {
		writeErr(c, err)
		return
	}
	p, err := h.Posts.Create(c.Request.Context(), in.input(), cover)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdatePost godoc
// @Summary Partially update a post
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Param id path string true "post id"
// @Param payload body postReq true "fields to change"
// @Success 200 {object} domain.Post
// @Failure 400 {object} messageResp
// @Failure 404 {object} messageResp
// @Router /api/posts/{id} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	in, cover, err := h.bindPost(c)
	if err != nil {
		writeErr(c, err)
		return
	}
	p, err := h.Posts.Update(c.Request.Context(), c.Param("id"), in.update(), cover)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeletePost godoc
// @Summary Delete a post and its cover
// @Tags posts
// @Produce json
// @Param id path string true "post id"
// @Success 200 {object} messageResp
// @Failure 404 {object} messageResp
// @Router /api/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.Posts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResp{Message: "Post deleted"})
}

