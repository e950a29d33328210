package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"docqa_backend/internal/config"
	"docqa_backend/internal/model"
	"docqa_backend/internal/repository"
	"docqa_backend/internal/util"
	"docqa_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatisticService 每次 LLM 调用记一条 InteractionRecord 加一条明细。
// 阈值通知是旁路副作用，失败不回滚落库。
type StatisticService struct {
	statRepo *repository.StatisticRepository
	rdb      *redis.Client
	notifier *NotificationService
	cfg      *config.Config
	loc      *time.Location
}

func NewStatisticService(
	statRepo *repository.StatisticRepository,
	rdb *redis.Client,
	notifier *NotificationService,
	cfg *config.Config,
	loc *time.Location,
) *StatisticService {
	return &StatisticService{
		statRepo: statRepo,
		rdb:      rdb,
		notifier: notifier,
		cfg:      cfg,
		loc:      loc,
	}
}

// Now 部署时区的裸本地时间，系统内所有时间比较的统一基准
func (s *StatisticService) Now() time.Time {
	return util.NaiveLocal(time.Now(), s.loc)
}

// RecordAnswerLookup 记录一次问答查询及其明细，返回记录 id
func (s *StatisticService) RecordAnswerLookup(userID uint, docName, question string, res *AnswerResult) (uint, error) {
	rec := &model.InteractionRecord{
		UserID:          userID,
		Timestamp:       s.Now(),
		Operation:       model.OperationAnswerLookup,
		DocName:         docName,
		PromptPath:      res.PromptPath,
		Tokens:          res.Tokens,
		EmbeddingTokens: res.EmbeddingTokens,
		TotalTime:       res.TotalTime,
		GigachatTime:    res.GigachatTime,
		FromCache:       res.FromCache,
	}
	if err := s.statRepo.CreateRecord(rec); err != nil {
		return 0, err
	}

	if res.Metrics != nil {
		detail := &model.AnswerDetail{
			RequestID: rec.ID,
			Question:  question,
			Answer:    res.Result,
			Metrics:   res.Metrics,
		}
		if err := s.statRepo.CreateAnswerDetail(detail); err != nil {
			// 明细撞唯一索引说明已存在，主记录仍然有效
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				logger.Log.Warn("duplicate answer detail ignored", zap.Uint("request_id", rec.ID))
			} else {
				return 0, err
			}
		}
	}

	s.afterRecord(rec, DestinyQATimeLimit)
	return rec.ID, nil
}

// RecordQuizGeneration 记录一次测验生成及其明细，返回记录 id
func (s *StatisticService) RecordQuizGeneration(userID uint, docName string, res *QuizResult) (uint, error) {
	rec := &model.InteractionRecord{
		UserID:       userID,
		Timestamp:    s.Now(),
		Operation:    model.OperationQuizGeneration,
		DocName:      docName,
		PromptPath:   res.PromptPath,
		Tokens:       res.Tokens,
		TotalTime:    res.TotalTime,
		GigachatTime: res.GigachatTime,
	}
	if err := s.statRepo.CreateRecord(rec); err != nil {
		return 0, err
	}

	detail := &model.QuizDetail{
		RequestID:          rec.ID,
		Question:           res.Result.Question,
		Option1:            res.Result.Option1,
		Option2:            res.Result.Option2,
		Option3:            res.Result.Option3,
		Option4:            res.Result.Option4,
		RightAnswer:        res.Result.RightAnswer,
		GenerationAttempts: res.Result.GenerationAttempts,
	}
	if err := s.statRepo.CreateQuizDetail(detail); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Log.Warn("duplicate quiz detail ignored", zap.Uint("request_id", rec.ID))
		} else {
			return 0, err
		}
	}

	s.afterRecord(rec, DestinyTestTimeLimit)
	return rec.ID, nil
}

// afterRecord 阈值检查，任何失败只记日志
func (s *StatisticService) afterRecord(rec *model.InteractionRecord, timeLimitDestiny string) {
	if rec.TotalTime > s.cfg.Limits.TimeLimit.Seconds() {
		s.notifier.Submit(timeLimitDestiny, map[string]string{
			"request_id": strconv.FormatUint(uint64(rec.ID), 10),
			"doc_name":   rec.DocName,
			"total_time": strconv.FormatFloat(rec.TotalTime, 'f', 3, 64),
		})
	}

	s.checkTokenBudget(rec)
}

// checkTokenBudget 红线按天滚动，恰好跨过阈值的那次调用触发一封通知
func (s *StatisticService) checkTokenBudget(rec *model.InteractionRecord) {
	limit := s.cfg.Limits.DailyTokenLimit
	if limit <= 0 {
		return
	}

	spent := int64(rec.Tokens + rec.EmbeddingTokens)
	key := fmt.Sprintf("daily_tokens:%d:%s", rec.UserID, rec.Timestamp.Format("2006-01-02"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	total, err := s.rdb.IncrBy(ctx, key, spent).Result()
	if err != nil {
		// Redis 不可用时退回数据库按当天累计，当前记录已落库
		logger.Log.Warn("token counter unavailable, using database sum",
			zap.Uint("user_id", rec.UserID), zap.Error(err))
		day := rec.Timestamp
		since := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		if total, err = s.statRepo.SumUserTokensSince(rec.UserID, since); err != nil {
			logger.Log.Error("token usage query failed", zap.Uint("user_id", rec.UserID), zap.Error(err))
			return
		}
	} else {
		s.rdb.Expire(ctx, key, 48*time.Hour)
	}

	if total >= limit && total-spent < limit {
		s.notifier.Submit(DestinyTokenLimit, map[string]string{
			"user_id": strconv.FormatUint(uint64(rec.UserID), 10),
			"tokens":  strconv.FormatInt(total, 10),
		})
	}
}

// TokensByOperation 管理端 token 用量统计，operation 取
// answer_lookup / quiz_generation / both
func (s *StatisticService) TokensByOperation(operation string) (int64, error) {
	switch operation {
	case model.OperationAnswerLookup, model.OperationQuizGeneration:
		return s.statRepo.SumTokens(operation)
	case "both":
		return s.statRepo.SumTokens("")
	default:
		return 0, fmt.Errorf("unexpected operation: %s", operation)
	}
}
