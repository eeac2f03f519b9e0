package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/langchou/autoprime/internal/api/backend"
	"github.com/langchou/autoprime/internal/models"
)

// SessionRepository 登录态持久化
type SessionRepository interface {
	SignIn(ctx context.Context, token string, user *models.User) error
	Clear(ctx context.Context) error
}

// AuthService 登录、注册、退出
type AuthService struct {
	api      *backend.Client
	sessions SessionRepository
	logger   *zap.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(api *backend.Client, sessions SessionRepository, logger *zap.Logger) *AuthService {
	return &AuthService{api: api, sessions: sessions, logger: logger}
}

// Login 登录并保存会话
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	resp := &models.AuthResponse{}
	if err := s.api.Post(ctx, "/api/auth/login", req, resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return s.signIn(ctx, resp)
}

// Register 注册，后端返回 token 时直接登录
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	resp := &models.AuthResponse{}
	if err := s.api.Post(ctx, "/api/auth/register", req, resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if resp.Token == "" {
		return nil, nil
	}
	return s.signIn(ctx, resp)
}

func (s *AuthService) signIn(ctx context.Context, resp *models.AuthResponse) (*models.User, error) {
	if resp.Token == "" {
		return nil, fmt.Errorf("login: empty token in response")
	}
	user := resp.User
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if err := s.sessions.SignIn(ctx, resp.Token, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword 修改密码，成功后会话保持不变
func (s *AuthService) ChangePassword(ctx context.Context, req *models.PasswordChangeRequest) error {
	if err := s.api.Post(ctx, "/api/auth/change-password", req, nil); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// Logout 通知后端后清除本地会话，后端失败不影响退出
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.api.Post(ctx, "/api/auth/logout", nil, nil); err != nil {
		s.logger.Debug("Backend logout failed", zap.Error(err))
	}
	return s.sessions.Clear(ctx)
}
