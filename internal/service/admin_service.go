package service

import (
	"errors"
	"time"

	"docqa_backend/internal/config"
	"docqa_backend/internal/model"
	"docqa_backend/internal/repository"
	"docqa_backend/internal/util"

	"gorm.io/gorm"
)

// AdminService 管理端：注册审批、反馈审阅、token 用量
type AdminService struct {
	requestRepo  *repository.AdminRequestRepository
	feedbackRepo *repository.FeedbackRepository
	notifier     *NotificationService
	cfg          *config.Config
}

func NewAdminService(
	requestRepo *repository.AdminRequestRepository,
	feedbackRepo *repository.FeedbackRepository,
	notifier *NotificationService,
	cfg *config.Config,
) *AdminService {
	return &AdminService{
		requestRepo:  requestRepo,
		feedbackRepo: feedbackRepo,
		notifier:     notifier,
		cfg:          cfg,
	}
}

func (s *AdminService) PendingRequests() ([]model.AdminRequest, error) {
	return s.requestRepo.FindPending()
}

// AcceptRequest 批准注册：发验证令牌邮件并更新申请状态
func (s *AdminService) AcceptRequest(requestID uint) error {
	req, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrRequestNotFound
		}
		return err
	}

	token, err := util.GenerateVerifyJWT(req.UserID, req.Info.Email, s.cfg.JWT.Secret, 24*time.Hour)
	if err != nil {
		return err
	}

	s.notifier.Submit(DestinyAccept, map[string]string{
		"name":       req.Info.Name,
		"user_email": req.Info.Email,
		"token":      token,
	})

	return s.requestRepo.SetStatus(requestID, model.RequestAccepted)
}

func (s *AdminService) RejectRequest(requestID uint) error {
	req, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrRequestNotFound
		}
		return err
	}

	s.notifier.Submit(DestinyReject, map[string]string{
		"name":       req.Info.Name,
		"user_email": req.Info.Email,
	})

	return s.requestRepo.SetStatus(requestID, model.RequestRejected)
}

func (s *AdminService) Feedbacks(includeViewed bool) ([]model.Feedback, error) {
	return s.feedbackRepo.FindAll(includeViewed)
}

func (s *AdminService) MarkFeedbackViewed(feedbackID uint) error {
	return s.feedbackRepo.SetViewed(feedbackID)
}
