package repository

import (
	"docqa_backend/internal/model"

	"gorm.io/gorm"
)

type DocumentRepository struct {
	DB *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	return r.DB.Create(doc).Error
}

func (r *DocumentRepository) FindByName(name string) (*model.Document, error) {
	var doc model.Document
	err := r.DB.Where("name = ?", name).First(&doc).Error
	return &doc, err
}

func (r *DocumentRepository) Exists(name string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Document{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

// IsContestDoc 竞赛文档判定，排行榜和反馈计数都以此为准
func (r *DocumentRepository) IsContestDoc(name string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Document{}).
		Where("name = ? AND in_contest = ?", name, true).
		Count(&count).Error
	return count > 0, err
}

// FindVisible 本人上传的文档加上竞赛文档
func (r *DocumentRepository) FindVisible(userID uint) ([]model.Document, error) {
	var docs []model.Document
	err := r.DB.Where("user_id = ? OR in_contest = ?", userID, true).Find(&docs).Error
	return docs, err
}

func (r *DocumentRepository) FindAll() ([]model.Document, error) {
	var docs []model.Document
	err := r.DB.Find(&docs).Error
	return docs, err
}

func (r *DocumentRepository) UpdateByName(name string, values map[string]interface{}) error {
	return r.DB.Model(&model.Document{}).
		Where("name = ?", name).
		Updates(values).
		Error
}

func (r *DocumentRepository) DeleteByName(name string) error {
	return r.DB.Where("name = ?", name).Delete(&model.Document{}).Error
}
