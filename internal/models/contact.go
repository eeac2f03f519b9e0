package models

import "github.com/shopspring/decimal"

// ContactMessage 联系表单
type ContactMessage struct {
	Name    string `json:"name" form:"name" binding:"required"`
	Email   string `json:"email" form:"email" binding:"required,email"`
	Phone   string `json:"phone,omitempty" form:"phone" binding:"omitempty,phone"`
	Subject string `json:"subject" form:"subject" binding:"required"`
	Message string `json:"message" form:"message" binding:"required,min=10"`
}

// NewsletterRequest 订阅或退订邮件
type NewsletterRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

// HostStats 房东仪表盘统计
type HostStats struct {
	TotalCars       int             `json:"totalCars"`
	ActiveBookings  int             `json:"activeBookings"`
	TotalBookings   int             `json:"totalBookings"`
	TotalEarnings   decimal.Decimal `json:"totalEarnings"`
	MonthlyEarnings decimal.Decimal `json:"monthlyEarnings"`
}

// AdminStats 管理员仪表盘统计
type AdminStats struct {
	TotalUsers    int             `json:"totalUsers"`
	TotalHosts    int             `json:"totalHosts"`
	TotalCars     int             `json:"totalCars"`
	TotalBookings int             `json:"totalBookings"`
	Revenue       decimal.Decimal `json:"revenue"`
}
