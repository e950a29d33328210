package service

import (
	"errors"

	"docqa_backend/internal/model"
	"docqa_backend/internal/repository"
	"docqa_backend/internal/util"
	"docqa_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FeedbackService 反馈写入，并在父交互属于竞赛文档时累加台账计数
type FeedbackService struct {
	feedbackRepo *repository.FeedbackRepository
	statRepo     *repository.StatisticRepository
	contestRepo  *repository.ContestRepository
	docRepo      *repository.DocumentRepository
}

func NewFeedbackService(
	feedbackRepo *repository.FeedbackRepository,
	statRepo *repository.StatisticRepository,
	contestRepo *repository.ContestRepository,
	docRepo *repository.DocumentRepository,
) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		statRepo:     statRepo,
		contestRepo:  contestRepo,
		docRepo:      docRepo,
	}
}

func (s *FeedbackService) Record(userID uint, value, comment string, requestID uint) (*model.Feedback, error) {
	rec, err := s.statRepo.FindRecordByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInteractionNotFound
		}
		return nil, err
	}

	fb := &model.Feedback{
		Value:       value,
		UserComment: comment,
		RequestID:   requestID,
	}
	if err := s.feedbackRepo.Create(fb); err != nil {
		return nil, err
	}

	s.bumpContestCounter(userID, rec)
	return fb, nil
}

// bumpContestCounter 非竞赛文档或台账行不存在时静默跳过，
// 反馈事件不允许创建台账行
func (s *FeedbackService) bumpContestCounter(userID uint, rec *model.InteractionRecord) {
	if rec.DocName == "" {
		return
	}
	inContest, err := s.docRepo.IsContestDoc(rec.DocName)
	if err != nil {
		logger.Log.Error("contest doc check failed", zap.String("doc", rec.DocName), zap.Error(err))
		return
	}
	if !inContest {
		return
	}

	var column string
	switch rec.Operation {
	case model.OperationQuizGeneration:
		column = "test_feedbacks"
	case model.OperationAnswerLookup:
		column = "answer_question_feedbacks"
	default:
		return
	}

	if err := s.contestRepo.IncrementFeedback(userID, rec.DocName, column); err != nil {
		logger.Log.Error("feedback counter update failed",
			zap.Uint("user_id", userID),
			zap.String("doc", rec.DocName),
			zap.Error(err))
	}
}
