package service

import (
	"context"
	"encoding/json"
	"time"

	"docqa_backend/internal/config"
	"docqa_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// 通知种类，与邮件模板一一对应
const (
	DestinyApproval      = "approval"
	DestinyAccept        = "accept"
	DestinyReject        = "reject"
	DestinyForgot        = "forgot"
	DestinyAdminApproval = "admin_approval"
	DestinyQATimeLimit   = "qa_time_limit"
	DestinyTestTimeLimit = "test_time_limit"
	DestinyTokenLimit    = "token_limit"
)

const emailQueueKey = "email_tasks"

// EmailTask 投递到 Redis 队列的任务体
type EmailTask struct {
	ID      string            `json:"id"`
	Destiny string            `json:"destiny"`
	Params  map[string]string `json:"params"`
}

// NotificationService 旁路通知：请求侧只入队，worker 负责渲染和 SMTP 发送。
// 入队或发送失败一律只记日志，绝不影响父请求。
type NotificationService struct {
	rdb    *redis.Client
	cfg    *config.Config
	dialer *gomail.Dialer
	stop   chan struct{}
}

func NewNotificationService(rdb *redis.Client, cfg *config.Config) *NotificationService {
	return &NotificationService{
		rdb:    rdb,
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password),
		stop:   make(chan struct{}),
	}
}

// Submit 发后即忘，调用方观察不到任何投递结果
func (s *NotificationService) Submit(destiny string, params map[string]string) {
	task := EmailTask{
		ID:      uuid.New().String(),
		Destiny: destiny,
		Params:  params,
	}
	payload, err := json.Marshal(task)
	if err != nil {
		logger.Log.Error("marshal email task failed", zap.String("destiny", destiny), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.rdb.LPush(ctx, emailQueueKey, payload).Err(); err != nil {
		logger.Log.Error("enqueue email task failed",
			zap.String("destiny", destiny),
			zap.String("task_id", task.ID),
			zap.Error(err))
	}
}

// RunWorker 阻塞消费队列，随 App 启动在独立 goroutine 中运行
func (s *NotificationService) RunWorker() {
	ctx := context.Background()
	for {
		select {
		case <-s.stop:
			return
		default:
		}

		result, err := s.rdb.BRPop(ctx, 5*time.Second, emailQueueKey).Result()
		if err != nil {
			if err != redis.Nil {
				logger.Log.Error("email queue pop failed", zap.Error(err))
				time.Sleep(time.Second)
			}
			continue
		}

		var task EmailTask
		if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
			logger.Log.Error("bad email task payload", zap.Error(err))
			continue
		}
		s.process(task)
	}
}

func (s *NotificationService) Stop() {
	close(s.stop)
}

func (s *NotificationService) process(task EmailTask) {
	msg, err := s.buildEmail(task.Destiny, task.Params)
	if err != nil {
		logger.Log.Error("render email failed",
			zap.String("destiny", task.Destiny),
			zap.String("task_id", task.ID),
			zap.Error(err))
		return
	}

	if err := s.dialer.DialAndSend(msg); err != nil {
		logger.Log.Error("send email failed",
			zap.String("destiny", task.Destiny),
			zap.String("task_id", task.ID),
			zap.Error(err))
		return
	}
	logger.Log.Info("email sent",
		zap.String("destiny", task.Destiny),
		zap.String("task_id", task.ID))
}
