package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_CountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/tags/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("/api/tags/:id", "GET", "418"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tags/abc", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(RequestsTotal.WithLabelValues("/api/tags/:id", "GET", "418")))
	assert.Equal(t, float64(0), testutil.ToFloat64(InFlight))
}
