package middleware

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"ordersvc/api/response"
	"ordersvc/config"
	"ordersvc/infrastructure/persistence"
	apperrors "ordersvc/pkg/errors"
	"ordersvc/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// RequestIDHeader Request ID header
	RequestIDHeader = "X-Request-ID"

	maxRequestIDLength = 128
)

// RequestIDMiddleware accepts the caller's X-Request-ID when it is printable
// and short, otherwise it mints a UUIDv7. The id is stored on the gin
// context, echoed in the response and attached to the request context.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if !validRequestID(requestID) {
			requestID = newRequestID()
		}

		c.Set(response.RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		// services and repositories only see context.Context
		c.Request = c.Request.WithContext(persistence.ContextWithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

func newRequestID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// LoggingMiddleware writes one access log line per request through the
// request-scoped logger. Paths in skipPaths (health probes) are not logged
// unless they fail.
func LoggingMiddleware(skipPaths ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		if status < http.StatusBadRequest && slices.Contains(skipPaths, c.Request.URL.Path) {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		if raw := c.Request.URL.RawQuery; raw != "" {
			fields = append(fields, zap.String("query", raw))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		log := logger.FromContext(c.Request.Context())
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("HTTP Request", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("HTTP Request", fields...)
		default:
			log.Info("HTTP Request", fields...)
		}
	}
}

// RecoveryMiddleware turns a handler panic into the standard INTERNAL_ERROR
// envelope. The panic value is logged, never returned to the client.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			// the client went away mid-response, nothing to report
			if err, ok := recovered.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(recovered)
			}
			if c.Writer.Written() {
				logger.FromContext(c.Request.Context()).Error("Panic recovered after response was written",
					zap.Any("error", recovered),
					zap.String("path", c.Request.URL.Path))
				c.Abort()
				return
			}
			response.HandleAppError(c, apperrors.Wrap(
				fmt.Errorf("panic: %v", recovered), apperrors.CodeInternal, "Panic recovered"))
		}()

		c.Next()
	}
}

// CORSMiddleware answers preflight requests and echoes allowed origins.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	wildcard := slices.Contains(cfg.AllowOrigins, "*")
	methods := strings.Join(cfg.AllowMethods, ", ")
	headers := strings.Join(cfg.AllowHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if !wildcard {
			c.Header("Vary", "Origin")
		}

		if origin != "" && (wildcard || slices.Contains(cfg.AllowOrigins, origin)) {
			c.Header("Access-Control-Allow-Origin", origin)
			if cfg.AllowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", methods)
			c.Header("Access-Control-Allow-Headers", headers)
			c.Header("Access-Control-Max-Age", maxAge)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RateLimiter keeps one token bucket per client IP. Buckets idle for longer
// than idleTTL are dropped on the next sweep.
type RateLimiter struct {
	limiters  sync.Map
	rate      rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep atomic.Int64
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

const defaultLimiterIdleTTL = 10 * time.Minute

// NewRateLimiter Create rate limiter
func NewRateLimiter(r float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		rate:    rate.Limit(r),
		burst:   burst,
		idleTTL: defaultLimiterIdleTTL,
	}
	rl.lastSweep.Store(time.Now().UnixNano())
	return rl
}

// Allow reports whether ip may issue another request now.
func (rl *RateLimiter) Allow(ip string, now time.Time) bool {
	rl.sweep(now)
	return rl.getLimiter(ip, now).AllowN(now, 1)
}

// RetryAfter is the whole number of seconds until one token refills.
func (rl *RateLimiter) RetryAfter() int {
	if rl.rate <= 0 {
		return 1
	}
	return int(math.Ceil(1 / float64(rl.rate)))
}

func (rl *RateLimiter) getLimiter(ip string, now time.Time) *rate.Limiter {
	v, ok := rl.limiters.Load(ip)
	if !ok {
		v, _ = rl.limiters.LoadOrStore(ip, &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)})
	}
	cl := v.(*clientLimiter)
	cl.lastSeen.Store(now.UnixNano())
	return cl.limiter
}

func (rl *RateLimiter) sweep(now time.Time) {
	last := rl.lastSweep.Load()
	if now.UnixNano()-last < int64(rl.idleTTL) || !rl.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	cutoff := now.Add(-rl.idleTTL).UnixNano()
	rl.limiters.Range(func(key, value any) bool {
		if value.(*clientLimiter).lastSeen.Load() < cutoff {
			rl.limiters.Delete(key)
		}
		return true
	})
}

func (rl *RateLimiter) size() int {
	n := 0
	rl.limiters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// RateLimitMiddleware rejects clients over their budget with 429 and a
// Retry-After header.
func RateLimitMiddleware(cfg *config.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	limiter := NewRateLimiter(cfg.Rate, cfg.Burst)
	retryAfter := strconv.Itoa(limiter.RetryAfter())

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.Allow(ip, time.Now()) {
			logger.FromContext(c.Request.Context()).Debug("Rate limit exceeded", zap.String("client_ip", ip))

			c.Header("Retry-After", retryAfter)
			response.HandleAppError(c, apperrors.TooManyRequests("too many requests, please try again later"))
			return
		}

		c.Next()
	}
}
