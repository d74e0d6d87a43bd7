package middleware

import (
	"course_market_backend/internal/util"
	"course_market_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenVerifier 令牌校验，由 AuthService 实现
type TokenVerifier interface {
	VerifyToken(token string) (*util.Claims, error)
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// AuthMiddleware 缺少令牌返回 401，令牌无效或过期返回 403
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := verifier.VerifyToken(tokenString)
		if err != nil {
			logger.Log.Debug("Token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString(util.RequestIDKey)),
				zap.Error(err),
			)
			util.HandleError(c, err)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}
