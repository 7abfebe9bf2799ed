package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/run-reporter/internal/domain/session"
)

// authMiddleware resolves the bearer token into a session and stores it on the context.
func authMiddleware(svc session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing or malformed bearer token", nil))
			return
		}
		sess, err := svc.Resolve(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, fromDomainError(err))
			return
		}
		setSession(c, sess)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
