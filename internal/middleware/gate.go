package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/sdshc/tracker-backend/internal/logger"
)

// AccessGate is the tracker's static shared-secret check. It is a usage
// gate, not an authentication system: one key shared by the program staff,
// configured either in plain text or as a bcrypt hash.
type AccessGate struct {
	log       *logger.Logger
	accessKey string
}

func NewAccessGate(log *logger.Logger, accessKey string) *AccessGate {
	return &AccessGate{log: log.With("middleware", "AccessGate"), accessKey: accessKey}
}

func (g *AccessGate) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		if g.accessKey == "" {
			// Gate disabled; local single-user setups run open.
			c.Next()
			return
		}
		provided := extractKey(c)
		if provided == "" || !g.matches(provided) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid access key"})
			return
		}
		c.Next()
	}
}

func (g *AccessGate) matches(provided string) bool {
	if strings.HasPrefix(g.accessKey, "$2a$") || strings.HasPrefix(g.accessKey, "$2b$") || strings.HasPrefix(g.accessKey, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(g.accessKey), []byte(provided)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(g.accessKey), []byte(provided)) == 1
}

func extractKey(c *gin.Context) string {
	if key := c.GetHeader("X-Access-Key"); key != "" {
		return key
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
