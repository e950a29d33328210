package service

import (
	"testing"
	"time"

	"docqa_backend/internal/model"
	"docqa_backend/internal/repository"
	"docqa_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFeedbackEnv(t *testing.T, db *gorm.DB) *FeedbackService {
	t.Helper()
	return NewFeedbackService(
		repository.NewFeedbackRepository(db),
		repository.NewStatisticRepository(db),
		repository.NewContestRepository(db),
		repository.NewDocumentRepository(db),
	)
}

func seedRecord(t *testing.T, db *gorm.DB, userID uint, doc, operation string) uint {
	t.Helper()
	rec := &model.InteractionRecord{
		UserID:    userID,
		Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Operation: operation,
		DocName:   doc,
		Tokens:    10,
	}
	require.NoError(t, repository.NewStatisticRepository(db).CreateRecord(rec))
	return rec.ID
}

func TestFeedbackOnContestQuizIncrementsCounter(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackEnv(t, db)
	seedContestDoc(t, db, "handbook")

	contestRepo := repository.NewContestRepository(db)
	require.NoError(t, contestRepo.UpsertScore(1, "handbook", 1, false))

	id := seedRecord(t, db, 1, "handbook", model.OperationQuizGeneration)
	fb, err := svc.Record(1, "like", "great quiz", id)
	require.NoError(t, err)
	assert.NotZero(t, fb.ID)

	entry, err := contestRepo.FindEntry(1, "handbook")
	require.NoError(t, err)
	assert.Equal(t, 1, entry.TestFeedbacks)
	assert.Equal(t, 0, entry.AnswerQuestionFeedbacks)
}

func TestFeedbackOnContestAnswerIncrementsOtherCounter(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackEnv(t, db)
	seedContestDoc(t, db, "handbook")

	contestRepo := repository.NewContestRepository(db)
	require.NoError(t, contestRepo.UpsertScore(1, "handbook", 1, false))

	id := seedRecord(t, db, 1, "handbook", model.OperationAnswerLookup)
	_, err := svc.Record(1, "dislike", "", id)
	require.NoError(t, err)

	entry, err := contestRepo.FindEntry(1, "handbook")
	require.NoError(t, err)
	assert.Equal(t, 0, entry.TestFeedbacks)
	assert.Equal(t, 1, entry.AnswerQuestionFeedbacks)
}

func TestFeedbackOnNonContestDocSkipsCounter(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackEnv(t, db)
	require.NoError(t, db.Create(&model.Document{Name: "private", Type: "txt", InContest: false}).Error)

	id := seedRecord(t, db, 1, "private", model.OperationQuizGeneration)
	_, err := svc.Record(1, "like", "", id)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.ContestEntry{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestFeedbackWithoutLedgerRowDoesNotCreateOne(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackEnv(t, db)
	seedContestDoc(t, db, "handbook")

	// 竞赛文档但该用户还没有台账行：反馈不得创建台账
	id := seedRecord(t, db, 1, "handbook", model.OperationQuizGeneration)
	fb, err := svc.Record(1, "like", "", id)
	require.NoError(t, err)
	assert.NotZero(t, fb.ID)

	var count int64
	require.NoError(t, db.Model(&model.ContestEntry{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestFeedbackUnknownInteraction(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackEnv(t, db)

	_, err := svc.Record(1, "like", "", 9999)
	assert.ErrorIs(t, err, util.ErrInteractionNotFound)
}
