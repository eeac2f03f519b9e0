package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/langchou/autoprime/internal/api/backend"
	"github.com/langchou/autoprime/internal/models"
	"github.com/langchou/autoprime/internal/pricing"
)

// CarsPerPage 车辆列表每页数量
const CarsPerPage = 9

// CarService 车辆相关接口
type CarService struct {
	api *backend.Client
}

// NewCarService 创建车辆服务
func NewCarService(api *backend.Client) *CarService {
	return &CarService{api: api}
}

// List 按条件分页查询车辆
func (s *CarService) List(ctx context.Context, f models.CarFilter) (*models.CarPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = CarsPerPage
	}

	q := url.Values{}
	setIf(q, "type", f.Type)
	setIf(q, "transmission", f.Transmission)
	setIf(q, "fuel", f.Fuel)
	setIf(q, "q", f.Query)
	setIf(q, "minPrice", f.MinPrice)
	setIf(q, "maxPrice", f.MaxPrice)
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("limit", strconv.Itoa(f.Limit))

	page := &models.CarPage{}
	if err := s.api.Get(ctx, "/api/cars?"+q.Encode(), page); err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	if page.Page == 0 {
		page.Page = f.Page
	}
	if page.TotalPages == 0 && page.Total > 0 {
		page.TotalPages = (page.Total + f.Limit - 1) / f.Limit
	}
	return page, nil
}

// Get 车辆详情
func (s *CarService) Get(ctx context.Context, id int64) (*models.Car, error) {
	car := &models.Car{}
	if err := s.api.Get(ctx, fmt.Sprintf("/api/cars/%d", id), car); err != nil {
		return nil, fmt.Errorf("get car %d: %w", id, err)
	}
	return car, nil
}

// Search 关键字搜索
func (s *CarService) Search(ctx context.Context, query string) ([]models.Car, error) {
	var cars []models.Car
	if err := s.api.Get(ctx, "/api/cars/search?q="+url.QueryEscape(query), &cars); err != nil {
		return nil, fmt.Errorf("search cars: %w", err)
	}
	return cars, nil
}

// Featured 首页推荐车辆
func (s *CarService) Featured(ctx context.Context, limit int) ([]models.Car, error) {
	var cars []models.Car
	if err := s.api.Get(ctx, fmt.Sprintf("/api/cars/featured?limit=%d", limit), &cars); err != nil {
		return nil, fmt.Errorf("featured cars: %w", err)
	}
	return cars, nil
}

// Availability 查询日期区间内是否可租
func (s *CarService) Availability(ctx context.Context, id int64, start, end time.Time) (*models.Availability, error) {
	q := url.Values{}
	q.Set("startDate", start.Format(pricing.DateLayout))
	q.Set("endDate", end.Format(pricing.DateLayout))

	a := &models.Availability{}
	if err := s.api.Get(ctx, fmt.Sprintf("/api/cars/%d/availability?%s", id, q.Encode()), a); err != nil {
		return nil, fmt.Errorf("check availability of car %d: %w", id, err)
	}
	return a, nil
}

// Reviews 车辆评价
func (s *CarService) Reviews(ctx context.Context, id int64) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.api.Get(ctx, fmt.Sprintf("/api/cars/%d/reviews", id), &reviews); err != nil {
		return nil, fmt.Errorf("list reviews of car %d: %w", id, err)
	}
	return reviews, nil
}

// AddReview 发表评价
func (s *CarService) AddReview(ctx context.Context, id int64, rating int, comment string) (*models.Review, error) {
	body := map[string]any{"rating": rating, "comment": comment}
	review := &models.Review{}
	if err := s.api.Post(ctx, fmt.Sprintf("/api/cars/%d/reviews", id), body, review); err != nil {
		return nil, fmt.Errorf("add review to car %d: %w", id, err)
	}
	return review, nil
}

// Wishlist 当前用户收藏的车辆
func (s *CarService) Wishlist(ctx context.Context) ([]models.Car, error) {
	var cars []models.Car
	if err := s.api.Get(ctx, "/api/user/wishlist", &cars); err != nil {
		return nil, fmt.Errorf("get wishlist: %w", err)
	}
	return cars, nil
}

// AddToWishlist 收藏
func (s *CarService) AddToWishlist(ctx context.Context, carID int64) error {
	if err := s.api.Post(ctx, "/api/wishlist", map[string]int64{"carId": carID}, nil); err != nil {
		return fmt.Errorf("add car %d to wishlist: %w", carID, err)
	}
	return nil
}

// RemoveFromWishlist 取消收藏
func (s *CarService) RemoveFromWishlist(ctx context.Context, carID int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/api/wishlist/%d", carID), nil); err != nil {
		return fmt.Errorf("remove car %d from wishlist: %w", carID, err)
	}
	return nil
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
