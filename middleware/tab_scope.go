package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
)

// TabSessionHeader carries the browser tab's session id; drafts are scoped to it.
const TabSessionHeader = "X-Tab-Session"

const scopeKey = "tabScope"

var validScope = regexp.MustCompile(`^[A-Za-z0-9_-]{8,128}$`)

// tabQueryParam carries the id where headers cannot be set (browser websockets).
const tabQueryParam = "tab"

// TabScope requires a tab session id on every planner request.
func TabScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := c.GetHeader(TabSessionHeader)
		if scope == "" {
			scope = c.Query(tabQueryParam)
		}
		if !validScope.MatchString(scope) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing or malformed " + TabSessionHeader + " header"})
			return
		}
		c.Set(scopeKey, scope)
		c.Next()
	}
}

// ScopeFrom returns the tab scope set by TabScope.
func ScopeFrom(c *gin.Context) string {
	return c.GetString(scopeKey)
}
