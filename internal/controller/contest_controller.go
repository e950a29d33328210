package controller

import (
	"errors"

	"docqa_backend/internal/service"
	"docqa_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContestController struct {
	ContestService *service.ContestService
}

func NewContestController(contestService *service.ContestService) *ContestController {
	return &ContestController{ContestService: contestService}
}

// Leaderboard godoc
// @Summary 竞赛排行榜
// @Description 按积分降序返回指定竞赛文档的完整排行榜，密集名次
// @Tags 竞赛
// @Produce  json
// @Security ApiKeyAuth
// @Param   doc_name query string true "竞赛文档名"
// @Success 200 {object} util.Response{data=[]service.RankedEntry} "成功"
// @Failure 404 {object} util.Response "文档不存在或不在竞赛中"
// @Router /api/leaderboard [get]
func (c *ContestController) Leaderboard(ctx *gin.Context) {
	docName := ctx.Query("doc_name")
	if docName == "" {
		util.BadRequest(ctx, "missing doc_name")
		return
	}

	rows, err := c.ContestService.Leaderboard(docName)
	if err != nil {
		if errors.Is(err, util.ErrDocumentNotFound) {
			util.NotFound(ctx, "文档不存在或不在竞赛中")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, rows)
}

// MyLeaderboard godoc
// @Summary 个人视角排行榜
// @Description 返回前三名，若当前用户不在前三则额外附上自己的名次
// @Tags 竞赛
// @Produce  json
// @Security ApiKeyAuth
// @Param   doc_name query string true "竞赛文档名"
// @Success 200 {object} util.Response{data=[]service.RankedEntry} "成功"
// @Failure 404 {object} util.Response "文档不存在或不在竞赛中"
// @Router /api/my_leaderboard [get]
func (c *ContestController) MyLeaderboard(ctx *gin.Context) {
	docName := ctx.Query("doc_name")
	if docName == "" {
		util.BadRequest(ctx, "missing doc_name")
		return
	}

	user := util.GetUserFromContext(ctx)
	rows, err := c.ContestService.MyLeaderboard(docName, user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrDocumentNotFound) {
			util.NotFound(ctx, "文档不存在或不在竞赛中")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, rows)
}
