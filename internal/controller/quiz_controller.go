package controller

import (
	"errors"
	"fmt"
	"net/http"

	"quiz_backend/internal/model"
	"quiz_backend/internal/service"
	"quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const msgQuizExpired = "Your quiz session has expired. Please answer the new set of questions."

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// SubmitQuizRequest 提交的答案，键为 question_<id>，值为 "1".."4"
// swagger:model SubmitQuizRequest
type SubmitQuizRequest struct {
	Answers map[string]string `json:"answers"`
}

// ResultResponse 单次测验结果
type ResultResponse struct {
	*model.QuizResult
	Percentage float64 `json:"percentage"`
	Feedback   string  `json:"feedback"`
}

func newResultResponse(r *model.QuizResult) ResultResponse {
	return ResultResponse{
		QuizResult: r,
		Percentage: r.Percentage(),
		Feedback:   r.Feedback().Message(),
	}
}

// StartQuiz godoc
// @Summary 开始测验
// @Description 随机抽取 5 道题并固定到当前会话，重复调用会替换题目
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "available=false 表示题目不足"
// @Failure 401 {object} util.Response "未授权"
// @Router /quiz [get]
func (c *QuizController) StartQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	form, err := c.QuizService.StartQuiz(ctx.Request.Context(), claims.SessionID())
	if errors.Is(err, util.ErrNotEnoughQuestions) {
		util.Success(ctx, gin.H{"available": false})
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"available": true, "form": form})
}

// SubmitQuiz godoc
// @Summary 提交答案
// @Description 只按会话中固定的题目评分，全部作答后保存结果
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SubmitQuizRequest true "答案"
// @Success 201 {object} util.Response{data=ResultResponse} "评分结果"
// @Failure 400 {object} util.Response "有题目未作答"
// @Failure 409 {object} util.Response "没有进行中的测验"
// @Router /quiz [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	result, err := c.QuizService.SubmitAnswers(ctx.Request.Context(), claims.UserID, claims.SessionID(), req.Answers)
	if err != nil {
		var verr *service.QuizValidationError
		switch {
		case errors.As(err, &verr):
			util.ValidationError(ctx, model.MsgAnswerAll, verr.Errors)
		case errors.Is(err, util.ErrNoActiveQuiz):
			util.Error(ctx, http.StatusConflict, "no active quiz, start a new one")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, newResultResponse(result))
}

// GetResult godoc
// @Summary 查看测验结果
// @Description 只能查看自己的结果，其它情况一律返回 404
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "结果 ID"
// @Success 200 {object} util.Response{data=ResultResponse} "成功"
// @Failure 404 {object} util.Response "不存在"
// @Router /quiz/results/{id} [get]
func (c *QuizController) GetResult(ctx *gin.Context) {
	result, err := c.lookupResult(ctx)
	if errors.Is(err, util.ErrResultNotFound) {
		util.NotFound(ctx)
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, newResultResponse(result))
}

func (c *QuizController) lookupResult(ctx *gin.Context) (*model.QuizResult, error) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		return nil, util.ErrResultNotFound
	}
	claims := util.GetUserFromContext(ctx)
	return c.QuizService.GetResult(ctx.Request.Context(), claims.UserID, id)
}

func (c *QuizController) QuizPage(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	form, err := c.QuizService.StartQuiz(ctx.Request.Context(), claims.SessionID())
	if errors.Is(err, util.ErrNotEnoughQuestions) {
		renderPage(ctx, http.StatusOK, "not_enough_questions.html", nil)
		return
	}
	if err != nil {
		renderServerError(ctx, err)
		return
	}
	renderPage(ctx, http.StatusOK, "quiz.html", gin.H{
		"Topic":   c.QuizService.Topic,
		"Form":    form,
		"Message": popFlash(ctx),
	})
}

func (c *QuizController) QuizSubmit(ctx *gin.Context) {
	if err := ctx.Request.ParseForm(); err != nil {
		renderServerError(ctx, err)
		return
	}
	answers := make(map[string]string, len(ctx.Request.PostForm))
	for key := range ctx.Request.PostForm {
		answers[key] = ctx.Request.PostForm.Get(key)
	}

	claims := util.GetUserFromContext(ctx)
	result, err := c.QuizService.SubmitAnswers(ctx.Request.Context(), claims.UserID, claims.SessionID(), answers)
	if err != nil {
		var verr *service.QuizValidationError
		switch {
		case errors.As(err, &verr):
			renderPage(ctx, http.StatusOK, "quiz.html", gin.H{
				"Topic":  c.QuizService.Topic,
				"Form":   verr.Form,
				"Errors": verr.Errors,
			})
		case errors.Is(err, util.ErrNoActiveQuiz):
			setFlash(ctx, msgQuizExpired)
			ctx.Redirect(http.StatusFound, util.QuizPath)
		default:
			renderServerError(ctx, err)
		}
		return
	}
	ctx.Redirect(http.StatusFound, fmt.Sprintf("/quiz/results/%d/", result.ID))
}

func (c *QuizController) ResultPage(ctx *gin.Context) {
	result, err := c.lookupResult(ctx)
	if errors.Is(err, util.ErrResultNotFound) {
		renderNotFound(ctx)
		return
	}
	if err != nil {
		renderServerError(ctx, err)
		return
	}
	renderPage(ctx, http.StatusOK, "results.html", gin.H{"Result": result})
}
