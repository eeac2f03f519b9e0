package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/langchou/autoprime/internal/api/backend"
	"github.com/langchou/autoprime/internal/models"
)

// BookingService 预订相关接口
type BookingService struct {
	api *backend.Client
}

// NewBookingService 创建预订服务
func NewBookingService(api *backend.Client) *BookingService {
	return &BookingService{api: api}
}

// Create 创建预订
func (s *BookingService) Create(ctx context.Context, req *models.BookingRequest) (*models.Booking, error) {
	booking := &models.Booking{}
	if err := s.api.Post(ctx, "/api/bookings", req, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return booking, nil
}

// Get 预订详情
func (s *BookingService) Get(ctx context.Context, id int64) (*models.Booking, error) {
	booking := &models.Booking{}
	if err := s.api.Get(ctx, fmt.Sprintf("/api/bookings/%d", id), booking); err != nil {
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}
	return booking, nil
}

// List 当前用户的全部预订，status 为空表示不过滤
func (s *BookingService) List(ctx context.Context, status string) ([]models.Booking, error) {
	path := "/api/bookings"
	if status != "" {
		path += "?status=" + status
	}
	var bookings []models.Booking
	if err := s.api.Get(ctx, path, &bookings); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// Upcoming 即将开始的预订
func (s *BookingService) Upcoming(ctx context.Context, limit int) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.api.Get(ctx, fmt.Sprintf("/api/bookings/upcoming?limit=%d", limit), &bookings); err != nil {
		return nil, fmt.Errorf("list upcoming bookings: %w", err)
	}
	return bookings, nil
}

// Cancel 取消预订
func (s *BookingService) Cancel(ctx context.Context, id int64, reason string) error {
	body := map[string]string{"reason": reason}
	if err := s.api.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/bookings/%d", id), body, nil); err != nil {
		return fmt.Errorf("cancel booking %d: %w", id, err)
	}
	return nil
}

// UpdateStatus 房东确认或完成预订
func (s *BookingService) UpdateStatus(ctx context.Context, id int64, status string) (*models.Booking, error) {
	booking := &models.Booking{}
	body := &models.StatusUpdate{Status: status}
	if err := s.api.Do(ctx, http.MethodPatch, fmt.Sprintf("/api/bookings/%d/status", id), body, booking); err != nil {
		return nil, fmt.Errorf("update booking %d status: %w", id, err)
	}
	return booking, nil
}
