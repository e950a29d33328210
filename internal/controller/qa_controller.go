package controller

import (
	"errors"

	"docqa_backend/internal/service"
	"docqa_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// QAController 问答与测验入口，代理大模型微服务并落统计
type QAController struct {
	QAService       *service.QAService
	QuizService     *service.QuizService
	FeedbackService *service.FeedbackService
}

func NewQAController(qa *service.QAService, quiz *service.QuizService, feedback *service.FeedbackService) *QAController {
	return &QAController{
		QAService:       qa,
		QuizService:     quiz,
		FeedbackService: feedback,
	}
}

type AnswerRequest struct {
	Filename string `json:"filename" binding:"required"`
	Question string `json:"question" binding:"required"`
}

// GetAnswer godoc
// @Summary 文档问答
// @Description 针对指定文档提问，返回大模型生成的答案
// @Tags 问答
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body AnswerRequest true "文档名和问题"
// @Success 200 {object} util.Response{data=service.AnswerReply} "成功"
// @Failure 404 {object} util.Response "文档不存在"
// @Failure 502 {object} util.Response "上游微服务异常"
// @Router /api/get_answer [post]
func (c *QAController) GetAnswer(ctx *gin.Context) {
	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	reply, err := c.QAService.GetAnswer(user.UserID, req.Filename, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrDocumentNotFound):
			util.NotFound(ctx, "文档不存在")
		case errors.Is(err, util.ErrUpstream):
			util.Error(ctx, 502, "问答服务暂时不可用")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, reply)
}

type QuizRequest struct {
	Filename string `json:"filename" binding:"required"`
}

// GetQuiz godoc
// @Summary 生成测验
// @Description 基于指定文档生成单选测验，正确答案不随响应下发
// @Tags 问答
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body QuizRequest true "文档名"
// @Success 200 {object} util.Response{data=service.QuizReply} "成功"
// @Failure 404 {object} util.Response "文档不存在"
// @Failure 502 {object} util.Response "上游微服务异常"
// @Router /api/get_test [post]
func (c *QAController) GetQuiz(ctx *gin.Context) {
	var req QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	reply, err := c.QuizService.GetQuiz(user.UserID, req.Filename)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrDocumentNotFound):
			util.NotFound(ctx, "文档不存在")
		case errors.Is(err, util.ErrUpstream):
			util.Error(ctx, 502, "测验服务暂时不可用")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, reply)
}

type CheckQuizRequest struct {
	RequestID uint   `json:"request_id" binding:"required"`
	Answer    string `json:"answer" binding:"required"`
}

// CheckQuiz godoc
// @Summary 核对测验答案
// @Description 判分并计入竞赛积分，每道题只能作答一次
// @Tags 问答
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CheckQuizRequest true "测验ID和所选选项"
// @Success 200 {object} util.Response{data=service.CheckReply} "返回正确答案"
// @Failure 404 {object} util.Response "测验不存在"
// @Failure 409 {object} util.Response "该题已作答"
// @Router /api/check_test [post]
func (c *QAController) CheckQuiz(ctx *gin.Context) {
	var req CheckQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	reply, err := c.QuizService.CheckQuiz(user.UserID, req.RequestID, req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuestionAnswered):
			util.Error(ctx, 409, "该题已作答")
		case errors.Is(err, util.ErrInteractionNotFound):
			util.NotFound(ctx, "测验不存在")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, reply)
}

type FeedbackRequest struct {
	Value     string `json:"value" binding:"required"`
	Comment   string `json:"comment"`
	RequestID uint   `json:"request_id" binding:"required"`
}

// SendFeedback godoc
// @Summary 提交反馈
// @Description 对某次问答或测验提交评价，竞赛文档的反馈会计入积分榜计数
// @Tags 问答
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body FeedbackRequest true "评价内容"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 404 {object} util.Response "关联记录不存在"
// @Router /api/send_feedback [post]
func (c *QAController) SendFeedback(ctx *gin.Context) {
	var req FeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	fb, err := c.FeedbackService.Record(user.UserID, req.Value, req.Comment, req.RequestID)
	if err != nil {
		if errors.Is(err, util.ErrInteractionNotFound) {
			util.NotFound(ctx, "关联记录不存在")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"id": fb.ID})
}
