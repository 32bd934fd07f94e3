package http

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tazhibayda/tasks-service/internal/domain"
	"github.com/tazhibayda/tasks-service/internal/metrics"
	"github.com/tazhibayda/tasks-service/internal/repo"
)

const currentUserKey = "currentUser"

// RequireSession is the authorization gate: no valid session → 401 before
// the handler or any collaborator write is reached.
func (h *Handler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := h.currentUser(c)
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(currentUserKey, u)
		c.Next()
	}
}

func userFrom(c *gin.Context) *domain.CurrentUser {
	v, _ := c.Get(currentUserKey)
	u, _ := v.(*domain.CurrentUser)
	return u
}

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("X-Request-ID", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func requestID(c *gin.Context) string { return c.GetString("X-Request-ID") }

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.InFlight.Inc()
		c.Next()
		metrics.InFlight.Dec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.ReqDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// RateLimit guards session issuance per client IP. Fails open on a Redis
// outage: losing the limiter must not lock out sign-in.
func RateLimit(rds *repo.Redis, perMin int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rds == nil || perMin <= 0 {
			c.Next()
			return
		}
		key := "rl:session:" + ClientIP(c)
		ok, err := rds.Allow(c.Request.Context(), key, perMin, time.Minute)
		if err == nil && !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

func ClientIP(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		return "unknown"
	}
	host, _, err := net.SplitHostPort(ip)
	if err == nil && host != "" {
		return host
	}
	return ip
}
