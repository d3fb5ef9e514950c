package httpserver

import (
	"context"
	"net/http"
	"time"

	"foodtruck-ordering/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sessionHeader = "X-Session-Token"
	sessionCookie = "cart_session"

	actorKey   = "actor"
	sessionKey = "session"

	maxSessionTokenLen = 128
)

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("http request", fields...)
		default:
			logger.Info("http request", fields...)
		}
	}
}

// requestTimeout bounds the request context so no handler blocks forever.
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// actorMiddleware resolves the bearer token. allowQuery also accepts
// ?access_token= for clients that cannot set headers (websockets).
func actorMiddleware(resolver actorResolver, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" && allowQuery {
			if tok := c.Query("access_token"); tok != "" {
				header = "Bearer " + tok
			}
		}
		actor, err := resolver.Resolve(header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials", "code": "unauthorized"})
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

func requireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !actorFrom(c).IsStaff() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "staff only", "code": "forbidden"})
			return
		}
		c.Next()
	}
}

// sessionMiddleware finds the cart session token or mints one. The token
// is echoed in both the header and the cookie.
func sessionMiddleware(ttl time.Duration) gin.HandlerFunc {
	maxAge := int(ttl.Seconds())
	return func(c *gin.Context) {
		token := c.GetHeader(sessionHeader)
		if token == "" {
			token, _ = c.Cookie(sessionCookie)
		}
		if token == "" || len(token) > maxSessionTokenLen {
			token = uuid.NewString()
		}
		c.Set(sessionKey, token)
		c.Header(sessionHeader, token)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, token, maxAge, "/", "", c.Request.TLS != nil, true)
		c.Next()
	}
}

func actorFrom(c *gin.Context) domain.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(domain.Actor); ok {
			return a
		}
	}
	return domain.Anonymous
}

func sessionFrom(c *gin.Context) string {
	return c.GetString(sessionKey)
}
