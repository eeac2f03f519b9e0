package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// 预订状态
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
	BookingCompleted = "COMPLETED"
)

// 支付状态
const (
	PaymentPending  = "PENDING"
	PaymentSuccess  = "SUCCESS"
	PaymentFailed   = "FAILED"
	PaymentRefunded = "REFUNDED"
)

// Booking 预订
type Booking struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"userId,omitempty"`
	CarID         int64           `json:"carId"`
	CarName       string          `json:"carName,omitempty"`
	CarImage      string          `json:"carImage,omitempty"`
	StartDate     string          `json:"startDate"`
	EndDate       string          `json:"endDate"`
	PickupTime    string          `json:"pickupTime,omitempty"`
	DropTime      string          `json:"dropTime,omitempty"`
	FullName      string          `json:"fullName,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	Email         string          `json:"email,omitempty"`
	Address       string          `json:"address,omitempty"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"paymentStatus,omitempty"`
	CreatedAt     time.Time       `json:"createdAt,omitempty"`
}

// Reference 预订编号，如 AP-2025-00042
func (b Booking) Reference() string {
	year := b.CreatedAt.Year()
	if b.CreatedAt.IsZero() {
		year = time.Now().Year()
	}
	return fmt.Sprintf("AP-%d-%05d", year, b.ID)
}

// BookingRequest 创建预订请求
type BookingRequest struct {
	CarID      int64           `json:"carId" form:"carId" binding:"required"`
	StartDate  string          `json:"pickupDate" form:"pickupDate" binding:"required"`
	EndDate    string          `json:"dropDate" form:"dropDate" binding:"required"`
	PickupTime string          `json:"pickupTime" form:"pickupTime" binding:"required"`
	DropTime   string          `json:"dropTime" form:"dropTime" binding:"required"`
	FullName   string          `json:"fullName" form:"fullName" binding:"required"`
	Phone      string          `json:"phone" form:"phone" binding:"required,phone"`
	Email      string          `json:"email" form:"email" binding:"required,email"`
	Address    string          `json:"address" form:"address"`
	TotalPrice decimal.Decimal `json:"totalPrice" form:"-"`
}

// StatusUpdate 更新预订状态
type StatusUpdate struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}
