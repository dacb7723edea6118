package http

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/tazhibayda/family-gallery/internal/log"
	"github.com/tazhibayda/family-gallery/internal/metrics"
	"go.uber.org/zap"
)

type RouterConfig struct {
	ServiceName     string
	CORSOrigins     []string
	LoginRatePerMin int
	// TrustedProxies may set X-Forwarded-For. Nil trusts no one, so the peer address keys the rate limit.
	TrustedProxies []string
	// UploadDir is served under UploadPrefix when set (local storage only).
	UploadDir    string
	UploadPrefix string
}

func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.L().Warn("invalid trusted proxies, trusting none", zap.Strings("proxies", cfg.TrustedProxies), zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(Recover())
	r.Use(RequestID())
	r.Use(Trace(cfg.ServiceName))
	r.Use(Logger())
	r.Use(CORS(cfg.CORSOrigins))
	r.Use(metrics.Middleware())

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if cfg.UploadDir != "" && cfg.UploadPrefix != "" {
		r.Static(cfg.UploadPrefix, cfg.UploadDir)
	}

	admin := h.RequireAdmin()
	family := h.RequireFamily()
	approved := h.RequireApproved()
	soft := h.OptionalViewer()
	rl := NewRateLimiter(cfg.LoginRatePerMin)

	api := r.Group("/api")
	{
		a := api.Group("/admin")
		a.POST("/login", RateLimit(rl), h.AdminLogin)
		a.POST("/logout", h.AdminLogout)
		a.GET("/me", admin, h.AdminMe)
		a.GET("/users", admin, h.ListFamilyUsers)
		a.PUT("/users/:id/status", admin, h.SetFamilyStatus)

		api.GET("/family/me", family, h.FamilyMe)

		g := api.Group("/galleries")
		g.GET("", soft, h.ListGalleries)
		g.POST("", family, approved, h.CreateFamilyGallery)
		g.POST("/admin", admin, h.CreateAdminGallery)
		g.GET("/:id", soft, h.GetGallery)
		g.PUT("/:id", family, approved, h.UpdateGallery)
		g.POST("/:id/cover", admin, h.SetGalleryCover)
		g.DELETE("/:id", admin, h.DeleteGallery)

		e := api.Group("/entries")
		e.GET("/gallery/:galleryId", soft, h.ListEntries)
		e.POST("", family, approved, h.UploadEntries)
		e.POST("/admin", admin, h.CreateEntry)
		e.POST("/import-google", family, approved, h.ImportEntries)
		e.DELETE("/:id", admin, h.DeleteEntry)

		p := api.Group("/posts")
		p.GET("", h.ListPosts)
		p.GET("/admin", admin, h.ListAllPosts)
		p.GET("/:id", soft, h.GetPost)
		p.POST("", admin, h.CreatePost)
		p.PUT("/:id", admin, h.UpdatePost)
		p.DELETE("/:id", admin, h.DeletePost)

		t := api.Group("/tags")
		t.GET("", h.ListTags)
		t.POST("", admin, h.CreateTag)
		t.DELETE("/:id", admin, h.DeleteTag)
	}
	return r
}
