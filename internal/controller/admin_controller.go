package controller

import (
	"errors"
	"strconv"

	"docqa_backend/internal/service"
	"docqa_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	AdminService     *service.AdminService
	StatisticService *service.StatisticService
}

func NewAdminController(adminService *service.AdminService, statisticService *service.StatisticService) *AdminController {
	return &AdminController{
		AdminService:     adminService,
		StatisticService: statisticService,
	}
}

// PendingRequests godoc
// @Summary 待审批的注册申请
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.AdminRequest} "成功"
// @Router /api/admin/requests [get]
func (c *AdminController) PendingRequests(ctx *gin.Context) {
	requests, err := c.AdminService.PendingRequests()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, requests)
}

// AcceptRequest godoc
// @Summary 批准注册申请
// @Description 给申请人发送验证邮件并标记申请已通过
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "申请ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "申请不存在"
// @Router /api/admin/requests/{id}/accept [post]
func (c *AdminController) AcceptRequest(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid request id")
		return
	}

	if err := c.AdminService.AcceptRequest(uint(id)); err != nil {
		if errors.Is(err, util.ErrRequestNotFound) {
			util.NotFound(ctx, "申请不存在")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"accepted": true})
}

// RejectRequest godoc
// @Summary 拒绝注册申请
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "申请ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "申请不存在"
// @Router /api/admin/requests/{id}/reject [post]
func (c *AdminController) RejectRequest(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid request id")
		return
	}

	if err := c.AdminService.RejectRequest(uint(id)); err != nil {
		if errors.Is(err, util.ErrRequestNotFound) {
			util.NotFound(ctx, "申请不存在")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"rejected": true})
}

// Feedbacks godoc
// @Summary 反馈列表
// @Description 默认只返回未读反馈，viewed=true 时返回全部
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   viewed query bool false "包含已读"
// @Success 200 {object} util.Response{data=[]model.Feedback} "成功"
// @Router /api/admin/feedbacks [get]
func (c *AdminController) Feedbacks(ctx *gin.Context) {
	includeViewed := ctx.Query("viewed") == "true"
	feedbacks, err := c.AdminService.Feedbacks(includeViewed)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, feedbacks)
}

// MarkFeedbackViewed godoc
// @Summary 标记反馈已读
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "反馈ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/feedbacks/{id}/viewed [post]
func (c *AdminController) MarkFeedbackViewed(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid feedback id")
		return
	}

	if err := c.AdminService.MarkFeedbackViewed(uint(id)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"viewed": true})
}

// Tokens godoc
// @Summary 令牌开销统计
// @Description 按操作类型汇总微服务消耗的令牌数，operation 取 answer_lookup、quiz_generation 或 both
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   operation query string false "操作类型，默认 both"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/admin/tokens [get]
func (c *AdminController) Tokens(ctx *gin.Context) {
	operation := ctx.DefaultQuery("operation", "both")
	total, err := c.StatisticService.TokensByOperation(operation)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"operation": operation, "tokens": total})
}
