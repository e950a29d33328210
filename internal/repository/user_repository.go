package repository

import (
	"docqa_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) SetVerified(id uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", id).
		Update("verified", true).
		Error
}

func (r *UserRepository) UpdatePassword(id uint, hashed string) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", id).
		Update("password", hashed).
		Error
}
