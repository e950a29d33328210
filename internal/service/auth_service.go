package service

import (
	"errors"
	"time"

	"docqa_backend/internal/config"
	"docqa_backend/internal/model"
	"docqa_backend/internal/repository"
	"docqa_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService 注册走管理员审批流：注册即建申请单并通知双方，
// 批准后用户凭邮件里的令牌完成验证，验证过的账户才能登录
type AuthService struct {
	userRepo    *repository.UserRepository
	requestRepo *repository.AdminRequestRepository
	notifier    *NotificationService
	cfg         *config.Config
}

func NewAuthService(
	userRepo *repository.UserRepository,
	requestRepo *repository.AdminRequestRepository,
	notifier *NotificationService,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		requestRepo: requestRepo,
		notifier:    notifier,
		cfg:         cfg,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (s *AuthService) Register(req *RegisterRequest) error {
	_, err := s.userRepo.FindByEmail(req.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &model.User{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: string(hashed),
		Role:     model.Member,
		Active:   true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return err
	}

	adminReq := &model.AdminRequest{
		UserID: user.ID,
		Status: model.RequestPending,
		Info: model.AdminRequestInfo{
			Name:    user.Name,
			Surname: user.Surname,
			Email:   user.Email,
		},
	}
	if err := s.requestRepo.Create(adminReq); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return util.ErrRequestExists
		}
		return err
	}

	s.notifier.Submit(DestinyApproval, map[string]string{
		"name":       user.Name,
		"user_email": user.Email,
	})
	s.notifier.Submit(DestinyAdminApproval, map[string]string{
		"name":       user.Name,
		"surname":    user.Surname,
		"user_email": user.Email,
	})
	return nil
}

// Verify 用批准邮件里的令牌激活账户
func (s *AuthService) Verify(token string) error {
	userID, err := util.ParseVerifyJWT(token, s.cfg.JWT.Secret)
	if err != nil {
		return util.ErrInvalidCredentials
	}
	return s.userRepo.SetVerified(userID)
}

func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return "", util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", util.ErrInvalidCredentials
	}
	if !user.Verified {
		return "", util.ErrNotVerified
	}
	if !user.Active {
		return "", util.ErrInvalidCredentials
	}

	return util.GenerateJWT(user, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
}

// ForgotPassword 存在该邮箱就发重置邮件；不存在也不报错，避免探测
func (s *AuthService) ForgotPassword(email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token, err := util.GenerateVerifyJWT(user.ID, user.Email, s.cfg.JWT.Secret, time.Hour)
	if err != nil {
		return err
	}

	s.notifier.Submit(DestinyForgot, map[string]string{
		"name":       user.Name,
		"user_email": user.Email,
		"token":      token,
	})
	return nil
}

func (s *AuthService) ResetPassword(token, newPassword string) error {
	userID, err := util.ParseVerifyJWT(token, s.cfg.JWT.Secret)
	if err != nil {
		return util.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(userID, string(hashed))
}
