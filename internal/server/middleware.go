package server

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	httperr "github.com/aevon-lab/project-tally/internal/core/errors"
	"github.com/aevon-lab/project-tally/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// RequestIDHeader is echoed back on every response.
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
)

// RequestID reuses the caller's X-Request-ID or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog logs one line per request after the handler ran.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(requestIDKey),
			"client_ip", c.ClientIP(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			slog.Warn("[HTTP] Request completed", attrs...)
			return
		}
		slog.Info("[HTTP] Request completed", attrs...)
	}
}

// limiterIdleTTL is how long a client's bucket survives without requests.
// A forgotten client starts again with a full bucket.
const limiterIdleTTL = 3 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter keeps one token bucket per client IP and forgets idle clients.
type ipLimiter struct {
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

func newIPLimiter(rps float64, burst int, idleTTL time.Duration, now func() time.Time) *ipLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &ipLimiter{
		rps:       rate.Limit(rps),
		burst:     burst,
		idleTTL:   idleTTL,
		now:       now,
		visitors:  make(map[string]*visitor),
		lastSweep: now(),
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) >= l.idleTTL {
				delete(l.visitors, key)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (l *ipLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// RateLimit applies a token bucket per client IP.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	return newIPLimiter(rps, burst, limiterIdleTTL, time.Now).middleware()
}

func (l *ipLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err != nil {
			ip = c.Request.RemoteAddr
		}

		if !l.allow(ip) {
			metrics.RateLimited.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httperr.ErrorResponse{
				Message:   "Rate limit exceeded",
				ErrorType: httperr.HttpRateLimitedError,
			})
			return
		}
		c.Next()
	}
}
