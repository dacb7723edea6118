package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tazhibayda/family-gallery/internal/identity"
	"github.com/tazhibayda/family-gallery/internal/log"
	"github.com/tazhibayda/family-gallery/internal/serr"
	"github.com/tazhibayda/family-gallery/internal/service"
	"github.com/tazhibayda/family-gallery/internal/session"
	"go.uber.org/zap"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Admins    *service.AdminService
	Family    *service.FamilyService
	Galleries *service.GalleryService
	Entries   *service.EntryService
	Posts     *service.PostService
	Tags      *service.TagService
	Sessions  *session.Manager
	Identity  identity.Verifier
	DB        Pinger
	// MaxUpload is the per-file limit; request bodies are capped at a multiple of it.
	MaxUpload int64
}

type messageResp struct {
	Message string `json:"message"`
}

// writeErr logs err and answers with its kind's status. Internal details never reach the client.
func writeErr(c *gin.Context, err error) {
	kind := serr.KindOf(err)
	l := log.WithDD(c.Request.Context(), log.L(),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString(headerRequestID)),
	)
	if kind == serr.Internal {
		l.Error("request failed", zap.Error(err))
	} else {
		l.Debug("request rejected", zap.String("kind", kind.String()), zap.Error(err))
	}
	c.AbortWithStatusJSON(kind.Status(), messageResp{Message: serr.Message(err)})
}

// Healthz godoc
// @Summary Liveness and database check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	if h.DB != nil {
		if err := h.DB.Ping(c.Request.Context()); err != nil {
			log.L().Warn("health: db ping", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
