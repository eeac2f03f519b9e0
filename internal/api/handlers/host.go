package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/langchou/autoprime/internal/api/backend"
	"github.com/langchou/autoprime/internal/models"
	"github.com/langchou/autoprime/internal/pages"
	"github.com/langchou/autoprime/internal/pricing"
	"github.com/langchou/autoprime/internal/validate"
)

// HostDashboardView 房东仪表盘
type HostDashboardView struct {
	Stats *models.HostStats
	Rows  []BookingRow
}

// ManageCarsView 房东车辆管理
type ManageCarsView struct {
	Cars []models.Car
}

// AddCarView 新增车辆表单
type AddCarView struct {
	Types         []string
	Transmissions []string
	Fuels         []string
}

func (h *Handler) initHostDashboard(ctx context.Context, req *pages.Request) (any, error) {
	v := &HostDashboardView{}

	stats, err := h.svc.Host.Stats(ctx)
	if err != nil {
		return v, err
	}
	v.Stats = stats

	bookings, err := h.svc.Host.Bookings(ctx)
	if err != nil {
		return v, err
	}
	v.Rows = rows(bookings, hostRow)
	return v, nil
}

func (h *Handler) initManageCars(ctx context.Context, req *pages.Request) (any, error) {
	v := &ManageCarsView{}
	cars, err := h.svc.Host.Cars(ctx)
	if err != nil {
		return v, err
	}
	v.Cars = cars
	return v, nil
}

func (h *Handler) initAddCar(ctx context.Context, req *pages.Request) (any, error) {
	return &AddCarView{
		Types:         carTypes,
		Transmissions: transmissions,
		Fuels:         fuelTypes,
	}, nil
}

// AddCar 房东新增车辆
// POST /actions/host/cars
func (h *Handler) AddCar(c *gin.Context) {
	ctx := c.Request.Context()
	sess, ok := h.requireRole(c, models.RoleHost)
	if !ok {
		return
	}
	const back = "/host/add-car.html"

	var req models.CarRequest
	if err := c.ShouldBind(&req); err != nil {
		h.failBack(c, validate.Message(err), back)
		return
	}

	car, err := h.svc.Host.AddCar(ctx, &req)
	if errors.Is(err, pricing.ErrInvalidRate) {
		h.failBack(c, "Please enter a valid daily price", back)
		return
	}
	if err != nil {
		if h.handleAuthError(c, err) {
			return
		}
		h.logger.Error("Failed to add car", zap.Int64("host_id", sess.User.ID), zap.Error(err))
		h.failBack(c, backend.Message(err, "Unable to add your car"), back)
		return
	}

	h.logger.Info("Car added", zap.Int64("car_id", car.ID), zap.Int64("host_id", sess.User.ID))
	h.sessions.PushFlash(ctx, models.NoticeSuccess, fmt.Sprintf("%s is now listed", car.Name))
	c.Redirect(http.StatusSeeOther, "/host/manage-cars.html")
}

// DeleteCar 房东删除车辆
// POST /actions/host/cars/:id/delete
func (h *Handler) DeleteCar(c *gin.Context) {
	ctx := c.Request.Context()
	if _, ok := h.requireRole(c, models.RoleHost); !ok {
		return
	}
	const back = "/host/manage-cars.html"

	id, ok := paramID(c, "id")
	if !ok {
		h.failBack(c, "Invalid car", back)
		return
	}
	if err := h.svc.Host.DeleteCar(ctx, id); err != nil {
		if h.handleAuthError(c, err) {
			return
		}
		h.logger.Error("Failed to delete car", zap.Int64("car_id", id), zap.Error(err))
		h.failBack(c, backend.Message(err, "Unable to remove this car"), back)
		return
	}

	h.sessions.PushFlash(ctx, models.NoticeSuccess, "Car removed")
	c.Redirect(http.StatusSeeOther, back)
}

const earningsURL = "/host/earnings.html"

// earningsPeriods 收入页的统计周期
var earningsPeriods = []string{"week", "month", "year"}

// EarningsView 收入与提现
type EarningsView struct {
	Earnings *models.Earnings
	Payouts  []models.Payout
	Period   string
	Periods  []string
}

func (h *Handler) initEarnings(ctx context.Context, req *pages.Request) (any, error) {
	v := &EarningsView{Period: "month", Periods: earningsPeriods}
	for _, p := range earningsPeriods {
		if req.Query.Get("period") == p {
			v.Period = p
		}
	}

	earnings, err := h.svc.Host.Earnings(ctx, v.Period)
	if err != nil {
		return v, err
	}
	v.Earnings = earnings

	payouts, err := h.svc.Host.Payouts(ctx)
	if err != nil {
		return v, err
	}
	v.Payouts = payouts
	return v, nil
}

// RequestPayout 房东申请提现
// POST /actions/host/payouts
func (h *Handler) RequestPayout(c *gin.Context) {
	ctx := c.Request.Context()
	sess, ok := h.requireRole(c, models.RoleHost)
	if !ok {
		return
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(c.PostForm("amount")))
	if err != nil || !amount.IsPositive() {
		h.failBack(c, "Please enter a valid amount", earningsURL)
		return
	}

	if _, err := h.svc.Host.RequestPayout(ctx, amount); err != nil {
		if h.handleAuthError(c, err) {
			return
		}
		h.logger.Error("Failed to request payout", zap.Int64("host_id", sess.User.ID), zap.Error(err))
		h.failBack(c, backend.Message(err, "Error requesting payout"), earningsURL)
		return
	}

	h.logger.Info("Payout requested", zap.Int64("host_id", sess.User.ID), zap.String("amount", amount.StringFixed(2)))
	h.sessions.PushFlash(ctx, models.NoticeSuccess, "Payout requested successfully")
	c.Redirect(http.StatusSeeOther, earningsURL)
}
