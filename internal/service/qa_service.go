package service

import (
	"docqa_backend/internal/repository"
	"docqa_backend/internal/util"
)

// QAService 问答查询：校验文档存在，代理微服务，落统计
type QAService struct {
	docRepo   *repository.DocumentRepository
	llm       *LLMService
	statistic *StatisticService
}

func NewQAService(docRepo *repository.DocumentRepository, llm *LLMService, statistic *StatisticService) *QAService {
	return &QAService{
		docRepo:   docRepo,
		llm:       llm,
		statistic: statistic,
	}
}

type AnswerReply struct {
	Result    string `json:"result"`
	RequestID uint   `json:"request_id"`
}

func (s *QAService) GetAnswer(userID uint, filename, question string) (*AnswerReply, error) {
	exists, err := s.docRepo.Exists(filename)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, util.ErrDocumentNotFound
	}

	res, err := s.llm.ProcessQuestions(filename, question)
	if err != nil {
		// 上游失败不落任何记录
		return nil, err
	}

	requestID, err := s.statistic.RecordAnswerLookup(userID, filename, question, res)
	if err != nil {
		return nil, err
	}

	return &AnswerReply{
		Result:    res.Result,
		RequestID: requestID,
	}, nil
}
