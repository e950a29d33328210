package service

import (
	"path/filepath"
	"testing"
	"time"

	"docqa_backend/internal/config"
	"docqa_backend/internal/model"
	"docqa_backend/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Document{},
		&model.InteractionRecord{},
		&model.QuizDetail{},
		&model.AnswerDetail{},
		&model.Feedback{},
		&model.ContestEntry{},
		&model.AdminRequest{},
	))

	// users 表的 enum 列类型是 MySQL 方言，sqlite 下手工建表
	require.NoError(t, db.Exec(`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME,
		updated_at DATETIME,
		name TEXT,
		surname TEXT,
		email TEXT UNIQUE,
		password TEXT,
		role TEXT,
		verified BOOLEAN,
		active BOOLEAN
	)`).Error)

	return db
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func newTestConfig() *config.Config {
	return &config.Config{
		Limits: config.LimitsConfig{
			DailyTokenLimit: 63000,
			TimeLimit:       15 * time.Second,
			PartialCredit:   0.5,
		},
	}
}

func newTestStatistic(t *testing.T, db *gorm.DB, cfg *config.Config) *StatisticService {
	t.Helper()
	rdb := newTestRedis(t)
	notifier := NewNotificationService(rdb, cfg)
	return NewStatisticService(repository.NewStatisticRepository(db), rdb, notifier, cfg, time.UTC)
}
