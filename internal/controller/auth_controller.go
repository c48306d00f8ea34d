package controller

import (
	"errors"
	"net/http"

	"quiz_backend/internal/config"
	"quiz_backend/internal/model"
	"quiz_backend/internal/service"
	"quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	Session     *config.SessionConfig
}

func NewAuthController(authService *service.AuthService, session *config.SessionConfig) *AuthController {
	return &AuthController{
		AuthService: authService,
		Session:     session,
	}
}

// Register godoc
// @Summary 注册新用户
// @Description 注册成功后直接登录并返回会话令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body model.SignupForm true "注册信息"
// @Success 201 {object} util.Response{data=service.Session} "创建成功"
// @Failure 400 {object} util.Response "表单校验失败"
// @Failure 409 {object} util.Response "用户名已存在"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var form model.SignupForm
	if err := ctx.ShouldBindJSON(&form); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sess, err := c.AuthService.Register(ctx.Request.Context(), &form)
	if err != nil {
		var ferr *service.FormValidationError
		switch {
		case errors.Is(err, util.ErrUsernameTaken):
			util.Error(ctx, http.StatusConflict, formMessage(err))
		case errors.As(err, &ferr):
			util.ValidationError(ctx, "invalid form", ferr.Errors)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	setSessionCookie(ctx, c.Session, sess.Token)
	util.Created(ctx, sess)
}

// Login godoc
// @Summary 用户登录
// @Description 验证用户名和密码并返回会话令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body model.LoginForm true "登录凭据"
// @Success 200 {object} util.Response{data=service.Session} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "用户名或密码错误"
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var form model.LoginForm
	if err := ctx.ShouldBindJSON(&form); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sess, err := c.AuthService.Login(ctx.Request.Context(), &form)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Error(ctx, http.StatusUnauthorized, formMessage(err))
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	setSessionCookie(ctx, c.Session, sess.Token)
	util.Success(ctx, sess)
}

// Logout godoc
// @Summary 退出登录
// @Description 注销当前会话，未提交的测验一并丢弃
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.AuthService.Logout(ctx.Request.Context(), claims.SessionID()); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	clearSessionCookie(ctx, c.Session)
	util.Success(ctx, nil)
}

// formMessage 取表单级错误信息
func formMessage(err error) string {
	var ferr *service.FormValidationError
	if errors.As(err, &ferr) {
		if msg, ok := ferr.Errors[""]; ok {
			return msg
		}
		for _, msg := range ferr.Errors {
			return msg
		}
	}
	return err.Error()
}

func (c *AuthController) SignupPage(ctx *gin.Context) {
	renderPage(ctx, http.StatusOK, "signup.html", gin.H{"Form": &model.SignupForm{}})
}

func (c *AuthController) SignupSubmit(ctx *gin.Context) {
	var form model.SignupForm
	_ = ctx.ShouldBind(&form)

	sess, err := c.AuthService.Register(ctx.Request.Context(), &form)
	if err != nil {
		var ferr *service.FormValidationError
		if errors.As(err, &ferr) {
			renderPage(ctx, http.StatusOK, "signup.html", gin.H{"Form": &form, "Errors": ferr.Errors})
			return
		}
		renderServerError(ctx, err)
		return
	}

	setSessionCookie(ctx, c.Session, sess.Token)
	ctx.Redirect(http.StatusFound, util.QuizPath)
}

func (c *AuthController) LoginPage(ctx *gin.Context) {
	renderPage(ctx, http.StatusOK, "login.html", gin.H{
		"Form": &model.LoginForm{},
		"Next": util.SafeNext(ctx.Query("next"), ""),
	})
}

func (c *AuthController) LoginSubmit(ctx *gin.Context) {
	var form model.LoginForm
	_ = ctx.ShouldBind(&form)
	next := util.SafeNext(ctx.PostForm("next"), util.QuizPath)

	sess, err := c.AuthService.Login(ctx.Request.Context(), &form)
	if err != nil {
		var ferr *service.FormValidationError
		if errors.As(err, &ferr) {
			form.Password = ""
			renderPage(ctx, http.StatusOK, "login.html", gin.H{
				"Form":   &form,
				"Errors": ferr.Errors,
				"Next":   util.SafeNext(ctx.PostForm("next"), ""),
			})
			return
		}
		renderServerError(ctx, err)
		return
	}

	setSessionCookie(ctx, c.Session, sess.Token)
	ctx.Redirect(http.StatusFound, next)
}

func (c *AuthController) LogoutPage(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.AuthService.Logout(ctx.Request.Context(), claims.SessionID()); err != nil {
		renderServerError(ctx, err)
		return
	}
	clearSessionCookie(ctx, c.Session)
	ctx.Redirect(http.StatusFound, "/")
}
