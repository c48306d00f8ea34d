package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"quiz_backend/internal/util"
	"quiz_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*util.Claims, error)
}

func tokenFromRequest(c *gin.Context, cookieName string) string {
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

func authenticate(c *gin.Context, auth Authenticator, cookieName string) *util.Claims {
	tokenString := tokenFromRequest(c, cookieName)
	if tokenString == "" {
		return nil
	}
	claims, err := auth.Authenticate(c.Request.Context(), tokenString)
	if err != nil {
		logger.Log.Debug("session rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
		return nil
	}
	c.Set(util.ContextUserKey, claims)
	return claims
}

// AuthMiddleware 用于 /api，未登录返回 401
func AuthMiddleware(auth Authenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticate(c, auth, cookieName) == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginRequired 用于页面，未登录跳转到登录页并带上 next
func LoginRequired(auth Authenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticate(c, auth, cookieName) == nil {
			target := util.LoginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth 已登录时把用户放进上下文，否则直接放行
func OptionalAuth(auth Authenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, auth, cookieName)
		c.Next()
	}
}
