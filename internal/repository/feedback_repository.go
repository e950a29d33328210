package repository

import (
	"docqa_backend/internal/model"

	"gorm.io/gorm"
)

type FeedbackRepository struct {
	DB *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{DB: db}
}

func (r *FeedbackRepository) Create(fb *model.Feedback) error {
	return r.DB.Create(fb).Error
}

func (r *FeedbackRepository) FindAll(includeViewed bool) ([]model.Feedback, error) {
	var items []model.Feedback
	q := r.DB.Order("id DESC")
	if !includeViewed {
		q = q.Where("viewed = ?", false)
	}
	err := q.Find(&items).Error
	return items, err
}

func (r *FeedbackRepository) SetViewed(id uint) error {
	return r.DB.Model(&model.Feedback{}).
		Where("id = ?", id).
		Update("viewed", true).
		Error
}
