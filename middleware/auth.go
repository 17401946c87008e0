package middleware

import (
	"strings"

	"saubio/models"
	"saubio/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const principalKey = "principal"

// OptionalAuth resolves a bearer token into a Principal when one is present.
// Guests pass through with an empty Principal; an invalid token is treated as a guest.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var p models.Principal
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			parsed, err := utils.ParsePrincipal(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				zap.L().Debug("ignoring invalid bearer token", zap.Error(err))
			} else {
				p = parsed
			}
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

// PrincipalFrom returns the caller resolved by OptionalAuth.
func PrincipalFrom(c *gin.Context) models.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(models.Principal); ok {
			return p
		}
	}
	return models.Principal{}
}
