package service

import (
	"context"
	"fmt"

	"github.com/langchou/autoprime/internal/api/backend"
	"github.com/langchou/autoprime/internal/models"
)

// UserService 用户个人中心
type UserService struct {
	api *backend.Client
}

// NewUserService 创建用户服务
func NewUserService(api *backend.Client) *UserService {
	return &UserService{api: api}
}

// Profile 当前用户资料
func (s *UserService) Profile(ctx context.Context) (*models.Profile, error) {
	profile := &models.Profile{}
	if err := s.api.Get(ctx, "/api/user/profile", profile); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile 修改资料
func (s *UserService) UpdateProfile(ctx context.Context, req *models.ProfileRequest) (*models.Profile, error) {
	profile := &models.Profile{}
	if err := s.api.Put(ctx, "/api/user/profile", req, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

// Payments 支付记录
func (s *UserService) Payments(ctx context.Context) ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.api.Get(ctx, "/api/user/payments", &payments); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}
