package repository

import (
	"time"

	"docqa_backend/internal/model"

	"gorm.io/gorm"
)

type StatisticRepository struct {
	DB *gorm.DB
}

func NewStatisticRepository(db *gorm.DB) *StatisticRepository {
	return &StatisticRepository{DB: db}
}

func (r *StatisticRepository) CreateRecord(rec *model.InteractionRecord) error {
	return r.DB.Create(rec).Error
}

func (r *StatisticRepository) CreateQuizDetail(detail *model.QuizDetail) error {
	return r.DB.Create(detail).Error
}

func (r *StatisticRepository) CreateAnswerDetail(detail *model.AnswerDetail) error {
	return r.DB.Create(detail).Error
}

func (r *StatisticRepository) FindRecordByID(id uint) (*model.InteractionRecord, error) {
	var rec model.InteractionRecord
	err := r.DB.First(&rec, id).Error
	return &rec, err
}

// FindUnansweredQuiz 仅返回未作答的测验，重复提交走 ErrRecordNotFound
func (r *StatisticRepository) FindUnansweredQuiz(requestID uint) (*model.QuizDetail, error) {
	var detail model.QuizDetail
	err := r.DB.Where("request_id = ? AND answered_at IS NULL", requestID).
		First(&detail).Error
	return &detail, err
}

func (r *StatisticRepository) MarkQuizAnswered(requestID uint, answeredAt time.Time) error {
	return r.DB.Model(&model.QuizDetail{}).
		Where("request_id = ?", requestID).
		Update("answered_at", answeredAt).
		Error
}

// LookupQuestionsBetween 同一用户对同一文档在 (from, to) 开区间内
// 发出的所有问答查询的问题文本，作弊检测窗口查询。
func (r *StatisticRepository) LookupQuestionsBetween(userID uint, docName string, from, to time.Time) ([]string, error) {
	var questions []string
	err := r.DB.Model(&model.AnswerDetail{}).
		Joins("JOIN interaction_records ON interaction_records.id = answer_details.request_id").
		Where("interaction_records.user_id = ?", userID).
		Where("interaction_records.doc_name = ?", docName).
		Where("interaction_records.operation = ?", model.OperationAnswerLookup).
		Where("interaction_records.timestamp > ? AND interaction_records.timestamp < ?", from, to).
		Pluck("answer_details.question", &questions).Error
	return questions, err
}

// SumTokens 按操作类型统计 token 用量，operation 为空串时统计全部
func (r *StatisticRepository) SumTokens(operation string) (int64, error) {
	var total int64
	q := r.DB.Model(&model.InteractionRecord{}).Select("COALESCE(SUM(tokens), 0)")
	if operation != "" {
		q = q.Where("operation = ?", operation)
	}
	err := q.Scan(&total).Error
	return total, err
}

// SumUserTokensSince 某用户从 since 起累计消耗的 token（含 embedding）
func (r *StatisticRepository) SumUserTokensSince(userID uint, since time.Time) (int64, error) {
	var total int64
	err := r.DB.Model(&model.InteractionRecord{}).
		Select("COALESCE(SUM(tokens + embedding_tokens), 0)").
		Where("user_id = ? AND timestamp >= ?", userID, since).
		Scan(&total).Error
	return total, err
}
