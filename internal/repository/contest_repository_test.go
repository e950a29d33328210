package repository

import (
	"path/filepath"
	"sync"
	"testing"

	"docqa_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// busy_timeout 让并发写入等锁而不是直接报错
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")+"?_busy_timeout=5000"), &gorm.Config{
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

func createTestUser(t *testing.T, db *gorm.DB, name, surname string) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Surname:  surname,
		Email:    name + "." + surname + "@example.com",
		Password: "x",
		Role:     model.Member,
		Verified: true,
		Active:   true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestUpsertScoreInsertsThenIncrements(t *testing.T) {
	db := newTestDB(t)
	repo := NewContestRepository(db)

	require.NoError(t, repo.UpsertScore(1, "handbook", 1, false))

	entry, err := repo.FindEntry(1, "handbook")
	require.NoError(t, err)
	assert.Equal(t, 1, entry.TotalTests)
	assert.Equal(t, 1.0, entry.Points)
	assert.Equal(t, 0, entry.CheatTests)

	require.NoError(t, repo.UpsertScore(1, "handbook", 0.5, true))
	require.NoError(t, repo.UpsertScore(1, "handbook", 0, false))

	entry, err = repo.FindEntry(1, "handbook")
	require.NoError(t, err)
	assert.Equal(t, 3, entry.TotalTests)
	assert.Equal(t, 1.5, entry.Points)
	assert.Equal(t, 1, entry.CheatTests)
}

func TestUpsertScoreSeparatesDocsAndUsers(t *testing.T) {
	db := newTestDB(t)
	repo := NewContestRepository(db)

	require.NoError(t, repo.UpsertScore(1, "handbook", 1, false))
	require.NoError(t, repo.UpsertScore(1, "manual", 1, false))
	require.NoError(t, repo.UpsertScore(2, "handbook", 0.5, true))

	var count int64
	require.NoError(t, db.Model(&model.ContestEntry{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestUpsertScoreConcurrentSubmissions(t *testing.T) {
	db := newTestDB(t)
	repo := NewContestRepository(db)

	// 两个首提并发：一方插入成功，另一方撞唯一索引后回退为相对更新
	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.UpsertScore(1, "handbook", 1, false)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	entry, err := repo.FindEntry(1, "handbook")
	require.NoError(t, err)
	assert.Equal(t, 2, entry.TotalTests)
	assert.Equal(t, 2.0, entry.Points)
}

func TestIncrementFeedbackDoesNotCreateRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewContestRepository(db)

	// 没有台账行时计数是无行可更的空操作
	require.NoError(t, repo.IncrementFeedback(1, "handbook", "test_feedbacks"))

	var count int64
	require.NoError(t, db.Model(&model.ContestEntry{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	require.NoError(t, repo.UpsertScore(1, "handbook", 1, false))
	require.NoError(t, repo.IncrementFeedback(1, "handbook", "test_feedbacks"))
	require.NoError(t, repo.IncrementFeedback(1, "handbook", "answer_question_feedbacks"))

	entry, err := repo.FindEntry(1, "handbook")
	require.NoError(t, err)
	assert.Equal(t, 1, entry.TestFeedbacks)
	assert.Equal(t, 1, entry.AnswerQuestionFeedbacks)
}

func TestLeaderboardRowsOrderedAndStable(t *testing.T) {
	db := newTestDB(t)
	repo := NewContestRepository(db)

	u1 := createTestUser(t, db, "Anna", "Petrova")
	u2 := createTestUser(t, db, "Boris", "Ivanov")
	u3 := createTestUser(t, db, "Vera", "Smirnova")

	require.NoError(t, repo.UpsertScore(u1.ID, "handbook", 1, false))
	require.NoError(t, repo.UpsertScore(u2.ID, "handbook", 1, false)) // 同分，先插入者在前
	require.NoError(t, repo.UpsertScore(u3.ID, "handbook", 0.5, true))
	require.NoError(t, repo.UpsertScore(u3.ID, "handbook", 1, false))

	rows, err := repo.LeaderboardRows("handbook")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, u3.ID, rows[0].UserID)
	assert.Equal(t, 1.5, rows[0].Points)
	assert.Equal(t, 2, rows[0].TotalTests)
	assert.Equal(t, "Vera", rows[0].Name)

	// 1 分并列：主键序稳定
	assert.Equal(t, u1.ID, rows[1].UserID)
	assert.Equal(t, u2.ID, rows[2].UserID)

	// 重复调用结果可复现
	again, err := repo.LeaderboardRows("handbook")
	require.NoError(t, err)
	assert.Equal(t, rows, again)
}
