package repository

import (
	"docqa_backend/internal/model"

	"gorm.io/gorm"
)

type AdminRequestRepository struct {
	DB *gorm.DB
}

func NewAdminRequestRepository(db *gorm.DB) *AdminRequestRepository {
	return &AdminRequestRepository{DB: db}
}

func (r *AdminRequestRepository) Create(req *model.AdminRequest) error {
	return r.DB.Create(req).Error
}

func (r *AdminRequestRepository) FindPending() ([]model.AdminRequest, error) {
	var items []model.AdminRequest
	err := r.DB.Where("status = ?", model.RequestPending).Find(&items).Error
	return items, err
}

func (r *AdminRequestRepository) FindByID(id uint) (*model.AdminRequest, error) {
	var req model.AdminRequest
	err := r.DB.First(&req, id).Error
	return &req, err
}

func (r *AdminRequestRepository) SetStatus(id uint, status string) error {
	return r.DB.Model(&model.AdminRequest{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}
