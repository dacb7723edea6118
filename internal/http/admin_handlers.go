package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tazhibayda/family-gallery/internal/log"
	"go.uber.org/zap"
)

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// AdminLogin godoc
// @Summary Admin login
// @Tags admin
// @Accept json
// @Produce json
// @Param payload body loginReq true "credentials"
// @Success 200 {object} loginResp
// @Failure 400 {object} messageResp
// @Failure 401 {object} messageResp
// @Failure 429 {object} messageResp
// @Router /api/admin/login [post]
func (h *Handler) AdminLogin(c *gin.Context) {
	var in loginReq
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxJSONBody)
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, messageResp{Message: "invalid json"})
		return
	}
	u, err := h.Admins.Login(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		writeErr(c, err)
		return
	}
	if err := h.Sessions.Start(c.Request.Context(), c.Writer, u.ID.Hex()); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResp{Message: "Logged in", Username: u.Username})
}

// AdminLogout godoc
// @Summary Admin logout
// @Tags admin
// @Produce json
// @Success 200 {object} messageResp
// @Router /api/admin/logout [post]
func (h *Handler) AdminLogout(c *gin.Context) {
	if err := h.Sessions.Destroy(c.Request.Context(), c.Writer, c.Request); err != nil {
		log.WithDD(c.Request.Context(), log.L()).Warn("destroy session", zap.Error(err))
	}
	c.JSON(http.StatusOK, messageResp{Message: "Logged out"})
}

// AdminMe godoc
// @Summary Current admin
// @Tags admin
// @Produce json
// @Success 200 {object} domain.AdminUser
// @Failure 401 {object} messageResp
// @Router /api/admin/me [get]
func (h *Handler) AdminMe(c *gin.Context) {
	u, err := h.Admins.Me(c.Request.Context(), viewer(c).AdminID.Hex())
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// ListFamilyUsers godoc
// @Summary Family users, newest first
// @Tags admin
// @Produce json
// @Success 200 {array} domain.FamilyUser
// @Router /api/admin/users [get]
func (h *Handler) ListFamilyUsers(c *gin.Context) {
	users, err := h.Family.List(c.Request.Context())
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

type statusReq struct {
	Status string `json:"status"`
}

// SetFamilyStatus godoc
// @Summary Approve, block or reset a family user
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "family user id"
// @Param payload body statusReq true "new status"
// @Success 200 {object} domain.FamilyUser
// @Failure 400 {object} messageResp
// @Failure 404 {object} messageResp
// @Router /api/admin/users/{id}/status [put]
func (h *Handler) SetFamilyStatus(c *gin.Context) {
	var in statusReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, messageResp{Message: "invalid json"})
		return
	}
	u, err := h.Family.SetStatus(c.Request.Context(), c.Param("id"), in.Status)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// FamilyMe godoc
// @Summary The calling family member
// @Description Verifies the bearer identity token and creates a pending record on first contact.
// @Tags family
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.FamilyUser
// @Failure 401 {object} messageResp
// @Router /api/family/me [get]
func (h *Handler) FamilyMe(c *gin.Context) {
	c.JSON(http.StatusOK, viewer(c).Family)
}
