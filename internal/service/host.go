package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/langchou/autoprime/internal/api/backend"
	"github.com/langchou/autoprime/internal/models"
	"github.com/langchou/autoprime/internal/pricing"
)

// ErrInvalidAmount 提现金额必须为正数
var ErrInvalidAmount = errors.New("amount must be positive")

// HostService 房东后台
type HostService struct {
	api *backend.Client
}

// NewHostService 创建房东服务
func NewHostService(api *backend.Client) *HostService {
	return &HostService{api: api}
}

// Stats 仪表盘统计
func (s *HostService) Stats(ctx context.Context) (*models.HostStats, error) {
	stats := &models.HostStats{}
	if err := s.api.Get(ctx, "/api/host/dashboard/stats", stats); err != nil {
		return nil, fmt.Errorf("host stats: %w", err)
	}
	return stats, nil
}

// Cars 房东名下车辆
func (s *HostService) Cars(ctx context.Context) ([]models.Car, error) {
	var cars []models.Car
	if err := s.api.Get(ctx, "/api/host/cars", &cars); err != nil {
		return nil, fmt.Errorf("host cars: %w", err)
	}
	return cars, nil
}

// AddCar 新增车辆，金额在发送前校验
func (s *HostService) AddCar(ctx context.Context, req *models.CarRequest) (*models.Car, error) {
	rate, err := pricing.ParseRate(req.PricePerDay)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"name":         req.Name,
		"type":         req.Type,
		"transmission": req.Transmission,
		"seats":        req.Seats,
		"pricePerDay":  rate,
		"fuel":         req.Fuel,
		"location":     req.Location,
		"description":  req.Description,
		"features":     req.Features,
		"images":       req.Images,
	}
	if req.WeekendExtra != "" {
		extra, err := pricing.ParseRate(req.WeekendExtra)
		if err != nil {
			return nil, err
		}
		body["weekendExtra"] = extra
	}

	car := &models.Car{}
	if err := s.api.Post(ctx, "/api/host/cars", body, car); err != nil {
		return nil, fmt.Errorf("add car: %w", err)
	}
	return car, nil
}

// DeleteCar 删除车辆
func (s *HostService) DeleteCar(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/api/host/cars/%d", id), nil); err != nil {
		return fmt.Errorf("delete car %d: %w", id, err)
	}
	return nil
}

// Bookings 房东车辆的预订
func (s *HostService) Bookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.api.Get(ctx, "/api/host/bookings", &bookings); err != nil {
		return nil, fmt.Errorf("host bookings: %w", err)
	}
	return bookings, nil
}

// Earnings 指定周期的收入，period 为 week、month 或 year
func (s *HostService) Earnings(ctx context.Context, period string) (*models.Earnings, error) {
	earnings := &models.Earnings{}
	path := "/api/host/earnings?period=" + url.QueryEscape(period)
	if err := s.api.Get(ctx, path, earnings); err != nil {
		return nil, fmt.Errorf("host earnings: %w", err)
	}
	return earnings, nil
}

// Payouts 提现记录
func (s *HostService) Payouts(ctx context.Context) ([]models.Payout, error) {
	var payouts []models.Payout
	if err := s.api.Get(ctx, "/api/host/payouts", &payouts); err != nil {
		return nil, fmt.Errorf("host payouts: %w", err)
	}
	return payouts, nil
}

// RequestPayout 申请提现
func (s *HostService) RequestPayout(ctx context.Context, amount decimal.Decimal) (*models.Payout, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	payout := &models.Payout{}
	if err := s.api.Post(ctx, "/api/host/payouts/request", map[string]any{"amount": amount}, payout); err != nil {
		return nil, fmt.Errorf("request payout: %w", err)
	}
	return payout, nil
}
