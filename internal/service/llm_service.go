package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"docqa_backend/internal/config"
	"docqa_backend/internal/util"
	"docqa_backend/pkg/monitoring"
)

// LLMService 对接 gigachat 微服务的 HTTP 客户端。
// 调用失败或超时直接向上返回错误，调用方不得落库任何记录。
type LLMService struct {
	config config.LLMConfig
	client *http.Client
}

func NewLLMService(cfg config.LLMConfig) *LLMService {
	return &LLMService{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// AnswerResult /process_questions 的响应
type AnswerResult struct {
	Result          string  `json:"result"`
	PromptPath      string  `json:"prompt_path"`
	Tokens          int     `json:"tokens"`
	EmbeddingTokens int     `json:"embedding_tokens"`
	TotalTime       float64 `json:"total_time"`
	GigachatTime    float64 `json:"gigachat_time"`
	Metrics         []int   `json:"metrics"`
	FromCache       bool    `json:"from_cache"`
}

// QuizPayload 微服务生成的测验，字段名保持上游的固定契约
type QuizPayload struct {
	Question           string `json:"question"`
	Option1            string `json:"1 option"`
	Option2            string `json:"2 option"`
	Option3            string `json:"3 option"`
	Option4            string `json:"4 option"`
	RightAnswer        string `json:"right answer"`
	GenerationAttempts int    `json:"generation_attemps"`
}

// QuizResult /process_data 的响应
type QuizResult struct {
	Result       QuizPayload `json:"result"`
	PromptPath   string      `json:"prompt_path"`
	Tokens       int         `json:"tokens"`
	TotalTime    float64     `json:"total_time"`
	GigachatTime float64     `json:"gigachat_time"`
}

// UploadResult /process_doc 的响应
type UploadResult struct {
	Result string `json:"result"`
	Info   struct {
		ChunkSize      int    `json:"chunk_size"`
		EmbeddingModel string `json:"embedding_model"`
	} `json:"info"`
}

func (s *LLMService) post(endpoint string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := s.client.Post(s.config.BaseURL+"/"+endpoint, "application/json", bytes.NewReader(body))
	monitoring.LLMRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		monitoring.LLMRequestCounter.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%w: %v", util.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		monitoring.LLMRequestCounter.WithLabelValues(endpoint, "error").Inc()
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d: %s", util.ErrUpstream, resp.StatusCode, string(raw))
	}

	monitoring.LLMRequestCounter.WithLabelValues(endpoint, "ok").Inc()
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", util.ErrUpstream, err)
	}
	return nil
}

// ProcessQuestions 问答查询
func (s *LLMService) ProcessQuestions(filename, question string) (*AnswerResult, error) {
	var result AnswerResult
	err := s.post("process_questions", map[string]string{
		"filename": filename,
		"question": question,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ProcessData 测验生成
func (s *LLMService) ProcessData(filename string) (*QuizResult, error) {
	var result QuizResult
	err := s.post("process_data", map[string]string{"filename": filename}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *LLMService) postFile(endpoint, localPath string) (*UploadResult, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := s.client.Post(s.config.BaseURL+"/"+endpoint, writer.FormDataContentType(), &buf)
	monitoring.LLMRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		monitoring.LLMRequestCounter.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("%w: %v", util.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		monitoring.LLMRequestCounter.WithLabelValues(endpoint, "error").Inc()
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", util.ErrUpstream, resp.StatusCode, string(raw))
	}

	monitoring.LLMRequestCounter.WithLabelValues(endpoint, "ok").Inc()
	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", util.ErrUpstream, err)
	}
	return &result, nil
}

// DeleteDoc 通知微服务删除文档索引
func (s *LLMService) DeleteDoc(docName string) error {
	return s.post("process_delete_doc", map[string]string{"doc_name": docName}, nil)
}

// RenameDoc 通知微服务重命名文档索引
func (s *LLMService) RenameDoc(oldName, newName string) error {
	return s.post("process_change_doc_name", map[string]string{
		"current_name": oldName,
		"new_name":     newName,
	}, nil)
}

// ProcessDoc 上传文档内容给微服务建立索引
func (s *LLMService) ProcessDoc(localPath string) (*UploadResult, error) {
	return s.postFile("process_doc", localPath)
}

// AddData 向已有文档追加内容
func (s *LLMService) AddData(localPath string) error {
	_, err := s.postFile("process_add_data", localPath)
	return err
}
