package controller

import (
	"errors"

	"docqa_backend/internal/model"
	"docqa_backend/internal/service"
	"docqa_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DocumentController struct {
	DocumentService *service.DocumentService
}

func NewDocumentController(documentService *service.DocumentService) *DocumentController {
	return &DocumentController{DocumentService: documentService}
}

// Upload godoc
// @Summary 上传文档
// @Description 上传 zip 或 txt 文档，交给微服务建索引后归档
// @Tags 文档
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   name formData string true "文档名"
// @Param   description formData string false "文档描述"
// @Param   file formData file true "文档文件"
// @Success 201 {object} util.Response "创建成功"
// @Failure 400 {object} util.Response "文档名或扩展名不合法"
// @Failure 409 {object} util.Response "文档名已存在"
// @Failure 502 {object} util.Response "上游微服务异常"
// @Router /api/docks/upload [post]
func (c *DocumentController) Upload(ctx *gin.Context) {
	name := ctx.PostForm("name")
	description := ctx.PostForm("description")
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}

	user := util.GetUserFromContext(ctx)
	if err := c.DocumentService.Upload(user.UserID, name, description, file); err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidDocumentName):
			util.BadRequest(ctx, "文档名不合法")
		case errors.Is(err, util.ErrBadExtension):
			util.BadRequest(ctx, "仅支持 zip 或 txt 文件")
		case errors.Is(err, util.ErrDocumentExists):
			util.Error(ctx, 409, "文档名已存在")
		case errors.Is(err, util.ErrUpstream):
			util.Error(ctx, 502, "文档处理服务暂时不可用")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"name": name})
}

// MyDocs godoc
// @Summary 我可见的文档
// @Description 本人上传的文档加上所有竞赛文档
// @Tags 文档
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Document} "成功"
// @Router /api/docks/my [get]
func (c *DocumentController) MyDocs(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	docs, err := c.DocumentService.MyDocs(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, docs)
}

// AllDocs godoc
// @Summary 全部文档
// @Tags 文档
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Document} "成功"
// @Router /api/docks/all [get]
func (c *DocumentController) AllDocs(ctx *gin.Context) {
	docs, err := c.DocumentService.AllDocs()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, docs)
}

// Change godoc
// @Summary 修改文档
// @Description 改名或改描述，仅文档所有者或管理员可操作
// @Tags 文档
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ChangeDocRequest true "修改内容"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "文档不存在"
// @Failure 409 {object} util.Response "新文档名已存在"
// @Router /api/docks/change [post]
func (c *DocumentController) Change(ctx *gin.Context) {
	var req service.ChangeDocRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	err := c.DocumentService.Change(user.UserID, user.Role == model.Admin, &req)
	if err != nil {
		c.writeDocError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"changed": true})
}

// AddData godoc
// @Summary 追加文档内容
// @Description 向已有文档追加 txt 内容并增量建索引
// @Tags 文档
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   doc_name formData string true "文档名"
// @Param   file formData file true "txt 文件"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "文档不存在"
// @Router /api/docks/add_data [post]
func (c *DocumentController) AddData(ctx *gin.Context) {
	docName := ctx.PostForm("doc_name")
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}

	user := util.GetUserFromContext(ctx)
	err = c.DocumentService.AddData(user.UserID, user.Role == model.Admin, docName, file)
	if err != nil {
		if errors.Is(err, util.ErrBadExtension) {
			util.BadRequest(ctx, "仅支持 txt 文件")
			return
		}
		c.writeDocError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"added": true})
}

// Delete godoc
// @Summary 删除文档
// @Tags 文档
// @Produce  json
// @Security ApiKeyAuth
// @Param   doc_name query string true "文档名"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "文档不存在"
// @Router /api/docks/delete [delete]
func (c *DocumentController) Delete(ctx *gin.Context) {
	docName := ctx.Query("doc_name")
	if docName == "" {
		util.BadRequest(ctx, "missing doc_name")
		return
	}

	user := util.GetUserFromContext(ctx)
	err := c.DocumentService.Delete(user.UserID, user.Role == model.Admin, docName)
	if err != nil {
		c.writeDocError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}

func (c *DocumentController) writeDocError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrDocumentNotFound):
		util.NotFound(ctx, "文档不存在")
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrDocumentExists):
		util.Error(ctx, 409, "文档名已存在")
	case errors.Is(err, util.ErrInvalidDocumentName):
		util.BadRequest(ctx, "文档名不合法")
	case errors.Is(err, util.ErrUpstream):
		util.Error(ctx, 502, "文档处理服务暂时不可用")
	default:
		util.LogInternalError(ctx, err)
	}
}
