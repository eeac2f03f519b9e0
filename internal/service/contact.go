package service

import (
	"context"
	"fmt"

	"github.com/langchou/autoprime/internal/api/backend"
	"github.com/langchou/autoprime/internal/models"
)

// ContactService 联系表单
type ContactService struct {
	api *backend.Client
}

// NewContactService 创建联系服务
func NewContactService(api *backend.Client) *ContactService {
	return &ContactService{api: api}
}

// Submit 提交留言
func (s *ContactService) Submit(ctx context.Context, msg *models.ContactMessage) error {
	if err := s.api.Post(ctx, "/api/contact", msg, nil); err != nil {
		return fmt.Errorf("submit contact message: %w", err)
	}
	return nil
}

// Subscribe 订阅邮件
func (s *ContactService) Subscribe(ctx context.Context, email string) error {
	if err := s.api.Post(ctx, "/api/newsletter/subscribe", &models.NewsletterRequest{Email: email}, nil); err != nil {
		return fmt.Errorf("subscribe newsletter: %w", err)
	}
	return nil
}

// Unsubscribe 退订邮件
func (s *ContactService) Unsubscribe(ctx context.Context, email string) error {
	if err := s.api.Post(ctx, "/api/newsletter/unsubscribe", &models.NewsletterRequest{Email: email}, nil); err != nil {
		return fmt.Errorf("unsubscribe newsletter: %w", err)
	}
	return nil
}
