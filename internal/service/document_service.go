package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"docqa_backend/internal/model"
	"docqa_backend/internal/repository"
	"docqa_backend/internal/util"
	"docqa_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var docNamePattern = regexp.MustCompile(`^[\p{L}\p{N}_\- ]+$`)

// DocumentService 文档上传与管理：文件先进临时目录转发给微服务，
// 成功后归档到 StorageProvider 并登记元数据
type DocumentService struct {
	docRepo *repository.DocumentRepository
	llm     *LLMService
	storage StorageProvider
	tempDir string
}

func NewDocumentService(docRepo *repository.DocumentRepository, llm *LLMService, storage StorageProvider) *DocumentService {
	return &DocumentService{
		docRepo: docRepo,
		llm:     llm,
		storage: storage,
		tempDir: os.TempDir(),
	}
}

func validDocName(name string) bool {
	return name != "" && len(name) <= 100 && docNamePattern.MatchString(name)
}

func fileExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

// saveTemp 把上传内容写到临时文件，返回路径；调用方负责清理
func (s *DocumentService) saveTemp(name string, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(s.tempDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// Upload 新文档入库：仅 zip/txt，名称唯一，微服务建索引成功后落元数据
func (s *DocumentService) Upload(userID uint, name, description string, file *multipart.FileHeader) error {
	if !validDocName(name) {
		return util.ErrInvalidDocumentName
	}

	ext := fileExtension(file.Filename)
	if ext != "zip" && ext != "txt" {
		return util.ErrBadExtension
	}

	exists, err := s.docRepo.Exists(name)
	if err != nil {
		return err
	}
	if exists {
		return util.ErrDocumentExists
	}

	tempName := fmt.Sprintf("%s.%s", name, ext)
	tempPath, err := s.saveTemp(tempName, file)
	if err != nil {
		return err
	}
	defer func() {
		if err := os.Remove(tempPath); err != nil {
			logger.Log.Warn("temp file cleanup failed", zap.String("path", tempPath), zap.Error(err))
		}
	}()
	logger.Log.Debug("new file saved", zap.String("path", tempPath))

	res, err := s.llm.ProcessDoc(tempPath)
	if err != nil {
		return err
	}
	if res.Result != "success" {
		return util.ErrUpstream
	}

	// 原件归档，失败不阻塞登记
	if f, err := os.Open(tempPath); err == nil {
		info, _ := f.Stat()
		if _, err := s.storage.Upload(context.Background(), tempName, f, info.Size(), "application/octet-stream"); err != nil {
			logger.Log.Warn("document archive failed", zap.String("doc", name), zap.Error(err))
		}
		f.Close()
	}

	return s.docRepo.Create(&model.Document{
		Name:           name,
		Type:           ext,
		Description:    description,
		ChunkSize:      res.Info.ChunkSize,
		EmbeddingModel: res.Info.EmbeddingModel,
		UserID:         userID,
	})
}

// MyDocs 本人的文档加竞赛文档
func (s *DocumentService) MyDocs(userID uint) ([]model.Document, error) {
	return s.docRepo.FindVisible(userID)
}

func (s *DocumentService) AllDocs() ([]model.Document, error) {
	return s.docRepo.FindAll()
}

type ChangeDocRequest struct {
	CurrentName string `json:"current_name" binding:"required"`
	NewName     string `json:"new_name"`
	Description string `json:"description"`
}

// Change 改名或改描述，仅所有者或管理员
func (s *DocumentService) Change(userID uint, isAdmin bool, req *ChangeDocRequest) error {
	doc, err := s.docRepo.FindByName(req.CurrentName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrDocumentNotFound
		}
		return err
	}

	if !isAdmin && doc.UserID != userID {
		return util.ErrPermissionDenied
	}

	values := map[string]interface{}{}
	if req.NewName != "" && req.NewName != doc.Name {
		if !validDocName(req.NewName) {
			return util.ErrInvalidDocumentName
		}
		if err := s.llm.RenameDoc(doc.Name, req.NewName); err != nil {
			return err
		}
		values["name"] = req.NewName
	}
	if req.Description != "" && req.Description != doc.Description {
		values["description"] = req.Description
	}

	if len(values) == 0 {
		return nil
	}
	return s.docRepo.UpdateByName(req.CurrentName, values)
}

// AddData 向已有文档追加数据，仅 txt
func (s *DocumentService) AddData(userID uint, isAdmin bool, docName string, file *multipart.FileHeader) error {
	doc, err := s.docRepo.FindByName(docName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrDocumentNotFound
		}
		return err
	}

	if !isAdmin && doc.UserID != userID {
		return util.ErrPermissionDenied
	}

	if fileExtension(file.Filename) != "txt" {
		return util.ErrBadExtension
	}

	tempName := fmt.Sprintf("%s.txt", docName)
	tempPath, err := s.saveTemp(tempName, file)
	if err != nil {
		return err
	}
	defer os.Remove(tempPath)
	logger.Log.Debug("add data file saved", zap.String("path", tempPath))

	return s.llm.AddData(tempPath)
}

// Delete 删除文档：先删本地行再通知微服务清索引
func (s *DocumentService) Delete(userID uint, isAdmin bool, docName string) error {
	doc, err := s.docRepo.FindByName(docName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrDocumentNotFound
		}
		return err
	}

	if !isAdmin && doc.UserID != userID {
		return util.ErrPermissionDenied
	}

	if err := s.docRepo.DeleteByName(docName); err != nil {
		return err
	}

	if err := s.llm.DeleteDoc(docName); err != nil {
		logger.Log.Error("LLM doc delete failed", zap.String("doc", docName), zap.Error(err))
	}
	if doc.Type != "" {
		archived := fmt.Sprintf("%s.%s", docName, doc.Type)
		if err := s.storage.Delete(context.Background(), archived); err != nil {
			logger.Log.Warn("document archive delete failed", zap.String("doc", docName), zap.Error(err))
		}
	}
	return nil
}
