package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"docqa_backend/internal/config"
	"docqa_backend/internal/model"
	"docqa_backend/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newStatisticEnv(t *testing.T, db *gorm.DB, cfg *config.Config) (*StatisticService, *redis.Client) {
	t.Helper()
	rdb := newTestRedis(t)
	notifier := NewNotificationService(rdb, cfg)
	svc := NewStatisticService(repository.NewStatisticRepository(db), rdb, notifier, cfg, time.UTC)
	return svc, rdb
}

func queuedDestinies(t *testing.T, rdb *redis.Client) []string {
	t.Helper()
	raw, err := rdb.LRange(context.Background(), emailQueueKey, 0, -1).Result()
	require.NoError(t, err)

	destinies := make([]string, 0, len(raw))
	for _, item := range raw {
		var task EmailTask
		require.NoError(t, json.Unmarshal([]byte(item), &task))
		destinies = append(destinies, task.Destiny)
	}
	return destinies
}

func TestRecordAnswerLookupPersistsRecordAndDetail(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newStatisticEnv(t, db, newTestConfig())

	id, err := svc.RecordAnswerLookup(1, "handbook", "What is an index?", &AnswerResult{
		Result:          "An index is a data structure.",
		PromptPath:      "prompts/qa.txt",
		Tokens:          100,
		EmbeddingTokens: 10,
		TotalTime:       2.0,
		Metrics:         []int{1, 2},
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	var rec model.InteractionRecord
	require.NoError(t, db.First(&rec, id).Error)
	assert.Equal(t, model.OperationAnswerLookup, rec.Operation)
	assert.Equal(t, 100, rec.Tokens)

	var detail model.AnswerDetail
	require.NoError(t, db.Where("request_id = ?", id).First(&detail).Error)
	assert.Equal(t, "What is an index?", detail.Question)
}

func TestRecordAnswerLookupSkipsDetailWithoutMetrics(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newStatisticEnv(t, db, newTestConfig())

	// 缓存命中时上游不回 metrics，明细不落库
	id, err := svc.RecordAnswerLookup(1, "handbook", "q", &AnswerResult{
		Result:    "cached",
		Tokens:    0,
		FromCache: true,
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.AnswerDetail{}).Where("request_id = ?", id).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestTimeLimitNotification(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	svc, rdb := newStatisticEnv(t, db, cfg)

	_, err := svc.RecordAnswerLookup(1, "handbook", "q", &AnswerResult{
		Result: "slow", TotalTime: 20.0, Metrics: []int{1},
	})
	require.NoError(t, err)
	assert.Contains(t, queuedDestinies(t, rdb), DestinyQATimeLimit)

	require.NoError(t, rdb.Del(context.Background(), emailQueueKey).Err())

	_, err = svc.RecordAnswerLookup(1, "handbook", "q2", &AnswerResult{
		Result: "fast", TotalTime: 1.0, Metrics: []int{1},
	})
	require.NoError(t, err)
	assert.Empty(t, queuedDestinies(t, rdb))
}

func TestTokenLimitNotifiedExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	cfg.Limits.DailyTokenLimit = 100
	svc, rdb := newStatisticEnv(t, db, cfg)

	_, err := svc.RecordAnswerLookup(1, "handbook", "q1", &AnswerResult{Result: "a", Tokens: 60, Metrics: []int{1}})
	require.NoError(t, err)
	assert.Empty(t, queuedDestinies(t, rdb))

	// 这一次恰好跨过红线
	_, err = svc.RecordAnswerLookup(1, "handbook", "q2", &AnswerResult{Result: "a", Tokens: 60, Metrics: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, []string{DestinyTokenLimit}, queuedDestinies(t, rdb))

	// 已经越线之后不再重复通知
	_, err = svc.RecordAnswerLookup(1, "handbook", "q3", &AnswerResult{Result: "a", Tokens: 60, Metrics: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, []string{DestinyTokenLimit}, queuedDestinies(t, rdb))
}

func TestTokenLimitFallsBackToDatabaseSum(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	cfg.Limits.DailyTokenLimit = 100

	queueRdb := newTestRedis(t)
	notifier := NewNotificationService(queueRdb, cfg)
	// 计数器连向不可达的 Redis，用量退回数据库按当天累计
	deadRdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { deadRdb.Close() })
	svc := NewStatisticService(repository.NewStatisticRepository(db), deadRdb, notifier, cfg, time.UTC)

	_, err := svc.RecordAnswerLookup(1, "handbook", "q1", &AnswerResult{Result: "a", Tokens: 60, Metrics: []int{1}})
	require.NoError(t, err)
	assert.Empty(t, queuedDestinies(t, queueRdb))

	_, err = svc.RecordAnswerLookup(1, "handbook", "q2", &AnswerResult{Result: "a", Tokens: 60, Metrics: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, []string{DestinyTokenLimit}, queuedDestinies(t, queueRdb))

	_, err = svc.RecordAnswerLookup(1, "handbook", "q3", &AnswerResult{Result: "a", Tokens: 60, Metrics: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, []string{DestinyTokenLimit}, queuedDestinies(t, queueRdb))
}

func TestTokensByOperation(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newStatisticEnv(t, db, newTestConfig())

	_, err := svc.RecordAnswerLookup(1, "handbook", "q", &AnswerResult{Result: "a", Tokens: 100, Metrics: []int{1}})
	require.NoError(t, err)
	_, err = svc.RecordQuizGeneration(1, "handbook", &QuizResult{
		Result: QuizPayload{Question: "q", Option1: "a", Option2: "b", Option3: "c", Option4: "d", RightAnswer: "a"},
		Tokens: 40,
	})
	require.NoError(t, err)

	total, err := svc.TokensByOperation(model.OperationAnswerLookup)
	require.NoError(t, err)
	assert.EqualValues(t, 100, total)

	total, err = svc.TokensByOperation("both")
	require.NoError(t, err)
	assert.EqualValues(t, 140, total)

	_, err = svc.TokensByOperation("bogus")
	assert.Error(t, err)
}
