package controller

import (
	"net/http"
	"net/url"
	"strings"

	"quiz_backend/internal/config"
	"quiz_backend/internal/model"
	"quiz_backend/internal/util"
	"quiz_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const flashCookie = "quiz_flash"

// pageData 补齐所有页面都会用到的字段
func pageData(c *gin.Context, h gin.H) gin.H {
	if h == nil {
		h = gin.H{}
	}
	h["User"] = util.GetUserFromContext(c)
	if _, ok := h["Errors"]; !ok {
		h["Errors"] = model.FormErrors{}
	}
	return h
}

func renderPage(c *gin.Context, status int, name string, h gin.H) {
	c.HTML(status, name, pageData(c, h))
}

func renderNotFound(c *gin.Context) {
	renderPage(c, http.StatusNotFound, "404.html", nil)
}

func renderServerError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	renderPage(c, http.StatusInternalServerError, "500.html", nil)
}

func setFlash(c *gin.Context, msg string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, url.QueryEscape(msg), 60, "/", "", false, true)
}

// popFlash 读取一次性消息并清除
func popFlash(c *gin.Context) string {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return ""
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	msg, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return msg
}

func setSessionCookie(c *gin.Context, cfg *config.SessionConfig, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, token, int(cfg.TTL.Seconds()), "/", "", cfg.Secure, true)
}

func clearSessionCookie(c *gin.Context, cfg *config.SessionConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, "", -1, "/", "", cfg.Secure, true)
}

// NotFound 未匹配路由：/api 下返回 JSON，其余返回页面
func NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		util.NotFound(c)
		return
	}
	renderNotFound(c)
}

// HomePage 首页
func HomePage(ctx *gin.Context) {
	renderPage(ctx, http.StatusOK, "home.html", nil)
}
