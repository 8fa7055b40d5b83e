package http

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowMethods  = "GET, POST, OPTIONS"
	corsAllowHeaders  = "Content-Type"
	corsExposeHeaders = "Retry-After"
	corsMaxAge        = "600"
)

// corsMiddleware admits the configured dashboard origins. Every route is a JSON
// GET or POST without credentials, so Content-Type is the only request header
// allowed. Retry-After is exposed so clients can back off after a 429.
func corsMiddleware(allowed []string) gin.HandlerFunc {
	wildcard := len(allowed) == 0 || slices.Contains(allowed, "*")
	return func(c *gin.Context) {
		headers := c.Writer.Header()
		origin := c.GetHeader("Origin")
		if wildcard {
			headers.Set("Access-Control-Allow-Origin", "*")
		} else {
			// The echoed origin differs per request.
			headers.Add("Vary", "Origin")
			headers.Set("Access-Control-Allow-Origin", matchOrigin(origin, allowed))
		}
		headers.Set("Access-Control-Expose-Headers", corsExposeHeaders)

		if c.Request.Method != http.MethodOptions {
			c.Next()
			return
		}
		headers.Set("Access-Control-Allow-Methods", corsAllowMethods)
		headers.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		headers.Set("Access-Control-Max-Age", corsMaxAge)
		c.AbortWithStatus(http.StatusNoContent)
	}
}

func matchOrigin(origin string, allowed []string) string {
	if origin != "" {
		for _, candidate := range allowed {
			if strings.EqualFold(candidate, origin) {
				return origin
			}
		}
	}
	return allowed[0]
}
