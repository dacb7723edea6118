package http

import (
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tazhibayda/family-gallery/internal/log"
	"github.com/tazhibayda/family-gallery/internal/service"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/ext"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

const headerRequestID = "X-Request-ID"

// RequestID reuses the caller's X-Request-ID or mints one, echoes it back and
// makes it available to services through the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerRequestID))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(headerRequestID, id)
		c.Header(headerRequestID, id)
		c.Request = c.Request.WithContext(service.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// Trace opens one Datadog span per request. Without a running tracer the spans are no-ops.
func Trace(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sp, ctx := tracer.StartSpanFromContext(c.Request.Context(), "http.request",
			tracer.ServiceName(serviceName),
			tracer.SpanType(ext.SpanTypeWeb),
			tracer.Tag(ext.HTTPMethod, c.Request.Method),
		)
		c.Request = c.Request.WithContext(ctx)
		c.Next()

		sp.SetTag(ext.ResourceName, c.Request.Method+" "+c.FullPath())
		sp.SetTag(ext.HTTPCode, c.Writer.Status())
		if c.Writer.Status() >= http.StatusInternalServerError {
			sp.SetTag(ext.Error, true)
		}
		sp.Finish()
	}
}

// Recover turns a panic into a 500 and logs the stack.
func Recover() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		log.WithDD(c.Request.Context(), log.L()).Error("panic",
			zap.Any("panic", rec),
			zap.String("request_id", c.GetString(headerRequestID)),
			zap.Stack("stack"),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, messageResp{Message: "internal error"})
	})
}

// Logger writes one line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		l := log.WithDD(c.Request.Context(), log.L())
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", ClientIP(c)),
			zap.String("request_id", c.GetString(headerRequestID)),
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			l.Error("http", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			l.Warn("http", fields...)
		default:
			l.Info("http", fields...)
		}
	}
}

// CORS allows credentialed requests from the configured origins ("*" allows any).
func CORS(origins []string) gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := allowed[origin]; ok || allowAll {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
				h.Set("Access-Control-Expose-Headers", "X-Request-ID")
				h.Set("Access-Control-Max-Age", "3600")
				h.Add("Vary", "Origin")
			}
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
	lastGC   time.Time
}

func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		lastGC:   time.Now(),
	}
}

func (rl *RateLimiter) Allow(ip string) bool {
	now := time.Now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastGC) > time.Minute {
		for k, v := range rl.visitors {
			if now.Sub(v.seen) > 10*time.Minute {
				delete(rl.visitors, k)
			}
		}
		rl.lastGC = now
	}
	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{lim: rate.NewLimiter(rl.rate, rl.burst)}
		rl.visitors[ip] = v
	}
	v.seen = now
	return v.lim.Allow()
}

func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(ClientIP(c)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "too many requests"})
			return
		}
		c.Next()
	}
}

func ClientIP(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	host, _, err := net.SplitHostPort(ip)
	if err == nil && host != "" {
		return host
	}
	return ip
}
