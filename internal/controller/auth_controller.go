package controller

import (
	"errors"

	"docqa_backend/internal/service"
	"docqa_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Register godoc
// @Summary 注册新用户
// @Description 注册后进入管理员审批队列，审批通过才可登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterRequest true "用户注册信息"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.Register(&req); err != nil {
		switch {
		case errors.Is(err, util.ErrEmailRegistered):
			util.Error(ctx, 409, "该邮箱已被注册")
		case errors.Is(err, util.ErrRequestExists):
			util.Error(ctx, 409, "注册申请已存在")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"status": "pending approval"})
}

// Verify godoc
// @Summary 邮箱验证
// @Description 校验审批邮件中的一次性令牌并激活账号
// @Tags 认证
// @Produce  json
// @Param   token query string true "验证令牌"
// @Success 200 {object} util.Response "验证成功"
// @Failure 400 {object} util.Response "令牌无效或已过期"
// @Router /api/verify [get]
func (c *AuthController) Verify(ctx *gin.Context) {
	token := ctx.Query("token")
	if token == "" {
		util.BadRequest(ctx, "missing token")
		return
	}

	if err := c.AuthService.Verify(token); err != nil {
		util.Error(ctx, 400, "验证令牌无效或已过期")
		return
	}

	util.Success(ctx, gin.H{"verified": true})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 用户登录
// @Description 验证用户身份并返回JWT令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "用户登录凭据"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Failure 403 {object} util.Response "账号未通过审批"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, err := c.AuthService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrNotVerified) {
			util.Error(ctx, 403, "账号尚未通过管理员审批")
			return
		}
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, gin.H{"token": token})
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword godoc
// @Summary 找回密码
// @Description 向注册邮箱发送重置密码链接，无论邮箱是否存在都返回成功
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body ForgotPasswordRequest true "注册邮箱"
// @Success 200 {object} util.Response "已发送"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/forgot-password [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ForgotPassword(req.Email); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"sent": true})
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// ResetPassword godoc
// @Summary 重置密码
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body ResetPasswordRequest true "重置令牌和新密码"
// @Success 200 {object} util.Response "重置成功"
// @Failure 400 {object} util.Response "令牌无效或已过期"
// @Router /api/reset-password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ResetPassword(req.Token, req.Password); err != nil {
		util.Error(ctx, 400, "重置令牌无效或已过期")
		return
	}

	util.Success(ctx, gin.H{"reset": true})
}
