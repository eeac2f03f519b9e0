package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// 车辆状态
const (
	CarStatusAvailable   = "AVAILABLE"
	CarStatusBooked      = "BOOKED"
	CarStatusMaintenance = "MAINTENANCE"
)

// Car 车辆信息（由后端提供，客户端只读）
type Car struct {
	ID             int64            `json:"id"`
	Name           string           `json:"name"`
	Type           string           `json:"type"`
	Transmission   string           `json:"transmission"`
	Seats          int              `json:"seats"`
	PricePerDay    decimal.Decimal  `json:"pricePerDay"`
	WeekendExtra   *decimal.Decimal `json:"weekendExtra,omitempty"`
	Fuel           string           `json:"fuel,omitempty"`
	Location       string           `json:"location,omitempty"`
	Status         string           `json:"status,omitempty"`
	Rating         *float64         `json:"rating,omitempty"`
	TotalTrips     *int             `json:"totalTrips,omitempty"`
	KmLimit        *int             `json:"kmLimit,omitempty"`
	Description    string           `json:"description,omitempty"`
	Images         []string         `json:"images"`
	Features       []string         `json:"features"`
	SafetyFeatures []string         `json:"safetyFeatures"`
	CreatedAt      time.Time        `json:"createdAt,omitempty"`
}

// CoverImage 返回第一张图片
func (c Car) CoverImage() string {
	if len(c.Images) == 0 {
		return "/assets/images/cars/default.jpg"
	}
	return c.Images[0]
}

// Available 车辆是否可预订
func (c Car) Available() bool {
	return c.Status == "" || c.Status == CarStatusAvailable
}

// CarFilter 列表过滤条件
type CarFilter struct {
	Type         string `form:"type"`
	Transmission string `form:"transmission"`
	Fuel         string `form:"fuel"`
	Query        string `form:"q"`
	MinPrice     string `form:"minPrice"`
	MaxPrice     string `form:"maxPrice"`
	Page         int    `form:"page"`
	Limit        int    `form:"limit"`
}

// CarPage 分页的车辆列表
type CarPage struct {
	Cars       []Car `json:"cars"`
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	Total      int   `json:"total"`
}

// CarRequest 房东新增车辆请求
type CarRequest struct {
	Name         string   `json:"name" form:"name" binding:"required"`
	Type         string   `json:"type" form:"type" binding:"required"`
	Transmission string   `json:"transmission" form:"transmission" binding:"required"`
	Seats        int      `json:"seats" form:"seats" binding:"required,min=2,max=9"`
	PricePerDay  string   `json:"pricePerDay" form:"pricePerDay" binding:"required"`
	WeekendExtra string   `json:"weekendExtra,omitempty" form:"weekendExtra"`
	Fuel         string   `json:"fuel" form:"fuel"`
	Location     string   `json:"location" form:"location"`
	Description  string   `json:"description" form:"description"`
	Features     []string `json:"features" form:"features"`
	Images       []string `json:"images" form:"images"`
}

// Review 车辆评价
type Review struct {
	ID        int64     `json:"id"`
	CarID     int64     `json:"carId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// Availability 可用性查询结果
type Availability struct {
	Available bool   `json:"available"`
	Message   string `json:"message,omitempty"`
}
