package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tazhibayda/family-gallery/internal/domain"
	"github.com/tazhibayda/family-gallery/internal/log"
	"github.com/tazhibayda/family-gallery/internal/session"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const ctxViewer = "viewer"

// viewer returns the identity the gates attached; anonymous when none ran.
func viewer(c *gin.Context) domain.Viewer {
	if v, ok := c.Get(ctxViewer); ok {
		return v.(domain.Viewer)
	}
	return domain.Viewer{}
}

func setViewer(c *gin.Context, v domain.Viewer) { c.Set(ctxViewer, v) }

func bearer(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if len(h) < len("Bearer ") || !strings.EqualFold(h[:len("Bearer ")], "bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(h[len("Bearer "):])
	return tok, tok != ""
}

func (h *Handler) adminID(c *gin.Context) (primitive.ObjectID, error) {
	raw, err := h.Sessions.Resolve(c.Request.Context(), c.Request)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, session.ErrNotFound
	}
	return id, nil
}

// RequireAdmin passes requests carrying a live admin session.
func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := h.adminID(c)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				log.WithDD(c.Request.Context(), log.L()).Error("session lookup", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
			return
		}
		v := viewer(c)
		v.AdminID = id
		setViewer(c, v)
		c.Next()
	}
}

// RequireFamily verifies the bearer identity token and then ensures the family user record.
func (h *Handler) RequireFamily() gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}
		ext, err := h.Identity.Verify(c.Request.Context(), tok)
		if err != nil {
			log.WithDD(c.Request.Context(), log.L()).Debug("identity rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}
		u, err := h.Family.Ensure(c.Request.Context(), *ext)
		if err != nil {
			writeErr(c, err)
			return
		}
		v := viewer(c)
		v.Family = u
		setViewer(c, v)
		c.Next()
	}
}

// RequireApproved must follow RequireFamily. Pending and blocked users get the same answer.
func (h *Handler) RequireApproved() gin.HandlerFunc {
	return func(c *gin.Context) {
		v := viewer(c)
		if v.Family == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
			return
		}
		if !v.IsApprovedFamily() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "family access not approved"})
			return
		}
		c.Next()
	}
}

// OptionalViewer attaches whatever identity the request proves and never rejects it.
// Unknown family identities are not created here.
func (h *Handler) OptionalViewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		var v domain.Viewer
		if id, err := h.adminID(c); err == nil {
			v.AdminID = id
		}
		if tok, ok := bearer(c); ok {
			if ext, err := h.Identity.Verify(c.Request.Context(), tok); err == nil {
				if u, err := h.Family.Lookup(c.Request.Context(), ext.ExternalID); err == nil {
					v.Family = u
				}
			}
		}
		setViewer(c, v)
		c.Next()
	}
}
