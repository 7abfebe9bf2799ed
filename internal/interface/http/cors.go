package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowMethods = "GET, POST, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization"
	corsMaxAge       = "600"
)

// corsMiddleware lets browser front-ends on the allowed origins call the API.
// An empty list or a "*" entry allows any origin.
func corsMiddleware(allowed []string) gin.HandlerFunc {
	allowAny := len(allowed) == 0
	origins := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			allowAny = true
			continue
		}
		origins[strings.ToLower(strings.TrimRight(origin, "/"))] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		headers := c.Writer.Header()
		switch {
		case allowAny:
			headers.Set("Access-Control-Allow-Origin", "*")
		case origin != "":
			headers.Add("Vary", "Origin")
			if _, ok := origins[strings.ToLower(origin)]; ok {
				headers.Set("Access-Control-Allow-Origin", origin)
			}
		}

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
