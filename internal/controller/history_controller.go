package controller

import (
	"net/http"

	"quiz_backend/internal/service"
	"quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HistoryController struct {
	HistoryService *service.HistoryService
}

func NewHistoryController(historyService *service.HistoryService) *HistoryController {
	return &HistoryController{HistoryService: historyService}
}

// GetHistory godoc
// @Summary 测验历史
// @Description 当前用户的全部测验结果（新的在前）与统计，没有记录时统计值为 null
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.History} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /history [get]
func (c *HistoryController) GetHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	history, err := c.HistoryService.GetHistory(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, history)
}

func (c *HistoryController) HistoryPage(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	history, err := c.HistoryService.GetHistory(ctx.Request.Context(), claims.UserID)
	if err != nil {
		renderServerError(ctx, err)
		return
	}
	renderPage(ctx, http.StatusOK, "history.html", gin.H{
		"Results": history.Results,
		"Stats":   history.Stats,
	})
}
