package service

import (
	"context"
	"fmt"

	"github.com/langchou/autoprime/internal/api/backend"
	"github.com/langchou/autoprime/internal/models"
)

// AdminService 管理后台
type AdminService struct {
	api *backend.Client
}

// NewAdminService 创建管理服务
func NewAdminService(api *backend.Client) *AdminService {
	return &AdminService{api: api}
}

// Stats 平台统计
func (s *AdminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	stats := &models.AdminStats{}
	if err := s.api.Get(ctx, "/api/admin/dashboard/stats", stats); err != nil {
		return nil, fmt.Errorf("admin stats: %w", err)
	}
	return stats, nil
}

// Users 用户列表，role 为空表示全部
func (s *AdminService) Users(ctx context.Context, role models.Role) ([]models.User, error) {
	path := "/api/admin/users"
	if role != "" {
		path += "?role=" + string(role)
	}
	var users []models.User
	if err := s.api.Get(ctx, path, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
