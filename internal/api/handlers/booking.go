package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/autoprime/internal/api/backend"
	"github.com/langchou/autoprime/internal/guard"
	"github.com/langchou/autoprime/internal/models"
	"github.com/langchou/autoprime/internal/pages"
	"github.com/langchou/autoprime/internal/pricing"
	"github.com/langchou/autoprime/internal/state"
	"github.com/langchou/autoprime/internal/validate"
	"github.com/langchou/autoprime/pkg/ws"
)

// BookingView 预订表单页
type BookingView struct {
	Car        *models.Car
	PickupDate string
	DropDate   string
	Today      string
	Quote      pricing.View
	User       *models.User
}

// BookingConfirmView 预订确认页
type BookingConfirmView struct {
	Row BookingRow
}

// BookingRow 预订列表行，附带当前可执行的操作
type BookingRow struct {
	Booking     *models.Booking
	CanCancel   bool
	CanConfirm  bool
	CanComplete bool
}

func userRow(b *models.Booking) BookingRow {
	m := state.ForBooking(b)
	return BookingRow{Booking: b, CanCancel: m.CanCancel()}
}

func hostRow(b *models.Booking) BookingRow {
	m := state.ForBooking(b)
	return BookingRow{Booking: b, CanConfirm: m.CanConfirm(), CanComplete: m.CanComplete()}
}

func rows(bookings []models.Booking, row func(*models.Booking) BookingRow) []BookingRow {
	out := make([]BookingRow, 0, len(bookings))
	for i := range bookings {
		out = append(out, row(&bookings[i]))
	}
	return out
}

func today() string {
	return time.Now().Format(pricing.DateLayout)
}

func (h *Handler) initBooking(ctx context.Context, req *pages.Request) (any, error) {
	id, ok := queryID(req.Query, "carId")
	if !ok {
		return nil, pages.NotFound("No car selected", "Choose a car before booking.")
	}

	car, err := h.svc.Cars.Get(ctx, id)
	if backend.IsStatus(err, http.StatusNotFound) {
		return nil, pages.NotFound("Car not found", "This car is no longer available for booking.")
	}
	if err != nil {
		return nil, err
	}

	v := &BookingView{
		Car:        car,
		PickupDate: req.Query.Get("pickupDate"),
		DropDate:   req.Query.Get("dropDate"),
		Today:      today(),
		User:       req.Session.User,
	}
	v.Quote = quoteFor(car, v.PickupDate, v.DropDate)
	return v, nil
}

func (h *Handler) initBookingConfirm(ctx context.Context, req *pages.Request) (any, error) {
	id, ok := queryID(req.Query, "bookingId")
	if !ok {
		return nil, pages.NotFound("Booking not found", "We couldn't find that booking.")
	}

	b, err := h.svc.Bookings.Get(ctx, id)
	if backend.IsStatus(err, http.StatusNotFound) {
		return nil, pages.NotFound("Booking not found", "We couldn't find that booking.")
	}
	if err != nil {
		return nil, err
	}
	return &BookingConfirmView{Row: userRow(b)}, nil
}

// CreateBooking 提交预订
// POST /actions/bookings
func (h *Handler) CreateBooking(c *gin.Context) {
	ctx := c.Request.Context()
	sess, ok := h.requireSession(c)
	if !ok {
		return
	}

	var req models.BookingRequest
	if err := c.ShouldBind(&req); err != nil {
		h.failBack(c, validate.Message(err), bookingURL(req.CarID, req.StartDate, req.EndDate))
		return
	}
	back := bookingURL(req.CarID, req.StartDate, req.EndDate)

	start, end, err := pricing.ParseRange(req.StartDate, req.EndDate)
	if err != nil {
		h.failBack(c, quoteMessage(err), back)
		return
	}
	if r := validate.CheckDateRange(start, end, time.Now()); !r.Valid {
		h.failBack(c, r.Message, back)
		return
	}

	car, err := h.svc.Cars.Get(ctx, req.CarID)
	if err != nil {
		if h.handleAuthError(c, err) {
			return
		}
		h.logger.Error("Failed to load car for booking", zap.Int64("car_id", req.CarID), zap.Error(err))
		h.failBack(c, backend.Message(err, "Unable to load this car. Please try again."), back)
		return
	}
	breakdown, err := quote(car, req.StartDate, req.EndDate)
	if err != nil {
		h.failBack(c, quoteMessage(err), back)
		return
	}
	req.TotalPrice = breakdown.Total

	booking, err := h.svc.Bookings.Create(ctx, &req)
	if err != nil {
		if h.handleAuthError(c, err) {
			return
		}
		h.logger.Error("Failed to create booking", zap.Int64("car_id", req.CarID), zap.Error(err))
		h.failBack(c, backend.Message(err, "Booking failed. Please try again."), back)
		return
	}

	h.logger.Info("Booking created", zap.Int64("booking_id", booking.ID), zap.Int64("user_id", sess.User.ID))
	h.sessions.PushFlash(ctx, models.NoticeSuccess, "Booking received! Reference "+booking.Reference())
	h.notify(sess.User.ID, models.NoticeInfo, fmt.Sprintf("Booking %s is %s", booking.Reference(), booking.Status))
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/booking-confirm.html?bookingId=%d", booking.ID))
}

// CancelBooking 用户取消预订
// POST /actions/bookings/:id/cancel
func (h *Handler) CancelBooking(c *gin.Context) {
	ctx := c.Request.Context()
	sess, ok := h.requireSession(c)
	if !ok {
		return
	}
	back := guard.SafeRedirect(c.PostForm("next"), "/user/my-bookings.html")

	id, ok := paramID(c, "id")
	if !ok {
		h.failBack(c, "Invalid booking", back)
		return
	}

	b, err := h.svc.Bookings.Get(ctx, id)
	if err != nil {
		if h.handleAuthError(c, err) {
			return
		}
		h.failBack(c, backend.Message(err, "Booking not found"), back)
		return
	}

	m := state.NewMachine(b.ID, b.Status, func(bookingID int64, from, to string) {
		h.notify(sess.User.ID, models.NoticeInfo, fmt.Sprintf("Booking %s is now %s", b.Reference(), to))
	})
	if !m.CanCancel() {
		h.failBack(c, "This booking can no longer be cancelled", back)
		return
	}

	if err := h.svc.Bookings.Cancel(ctx, id, c.PostForm("reason")); err != nil {
		if h.handleAuthError(c, err) {
			return
		}
		h.logger.Error("Failed to cancel booking", zap.Int64("booking_id", id), zap.Error(err))
		h.failBack(c, backend.Message(err, "Cancellation failed. Please try again."), back)
		return
	}
	if err := m.Trigger(ctx, state.EventCancel); err != nil {
		h.logger.Warn("Booking state out of sync", zap.Int64("booking_id", id), zap.Error(err))
	}

	h.sessions.PushFlash(ctx, models.NoticeSuccess, "Booking cancelled")
	c.Redirect(http.StatusSeeOther, back)
}

// UpdateBookingStatus 房东确认或完成预订
// POST /actions/bookings/:id/status
func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	ctx := c.Request.Context()
	if _, ok := h.requireRole(c, models.RoleHost); !ok {
		return
	}
	back := guard.SafeRedirect(c.PostForm("next"), "/host/dashboard.html")

	id, ok := paramID(c, "id")
	if !ok {
		h.failBack(c, "Invalid booking", back)
		return
	}
	target := c.PostForm("status")
	event, ok := state.EventFor(target)
	if !ok {
		h.failBack(c, "Unknown booking status", back)
		return
	}

	b, err := h.svc.Bookings.Get(ctx, id)
	if err != nil {
		if h.handleAuthError(c, err) {
			return
		}
		h.failBack(c, backend.Message(err, "Booking not found"), back)
		return
	}

	m := state.NewMachine(b.ID, b.Status, func(bookingID int64, from, to string) {
		if b.UserID != 0 {
			h.notify(b.UserID, models.NoticeInfo, fmt.Sprintf("Your booking %s is now %s", b.Reference(), to))
		}
	})
	if !m.CanTransition(event) {
		h.failBack(c, fmt.Sprintf("A %s booking cannot be marked %s", b.Status, target), back)
		return
	}

	if _, err := h.svc.Bookings.UpdateStatus(ctx, id, target); err != nil {
		if h.handleAuthError(c, err) {
			return
		}
		h.logger.Error("Failed to update booking status", zap.Int64("booking_id", id), zap.Error(err))
		h.failBack(c, backend.Message(err, "Update failed. Please try again."), back)
		return
	}
	if err := m.Trigger(ctx, event); err != nil {
		h.logger.Warn("Booking state out of sync", zap.Int64("booking_id", id), zap.Error(err))
	}

	h.sessions.PushFlash(ctx, models.NoticeSuccess, fmt.Sprintf("Booking %s marked %s", b.Reference(), target))
	c.Redirect(http.StatusSeeOther, back)
}

// notify 推送实时提示
func (h *Handler) notify(userID int64, kind, message string) {
	if h.wsHub == nil {
		return
	}
	h.wsHub.Notify(userID, ws.MsgTypeNotice, models.Notice{Kind: kind, Message: message})
}

// requireSession 表单操作需要登录，未登录时跳转登录页
func (h *Handler) requireSession(c *gin.Context) (*models.Session, bool) {
	return h.requireRole(c, "")
}

func (h *Handler) requireRole(c *gin.Context, role models.Role) (*models.Session, bool) {
	sess := h.loadSession(c)
	d := guard.Check(sess, role)
	if d.Allow {
		return sess, true
	}

	ctx := c.Request.Context()
	if d.Reason == guard.ReasonNoSession {
		if ref := refererPath(c); ref != "" {
			h.sessions.RememberDestination(ctx, sess, ref)
		}
		h.sessions.PushFlash(ctx, models.NoticeInfo, "Please login to continue")
	} else {
		h.sessions.PushFlash(ctx, models.NoticeWarning, "You don't have permission to do that")
	}
	c.Redirect(http.StatusSeeOther, d.Redirect)
	return nil, false
}

// handleAuthError 后端 401 时清除会话，返回 true 表示已处理
func (h *Handler) handleAuthError(c *gin.Context, err error) bool {
	if !backend.IsStatus(err, http.StatusUnauthorized) {
		return false
	}
	h.expireSession(c)
	return true
}

// failBack 提示错误并返回表单页
func (h *Handler) failBack(c *gin.Context, message, back string) {
	h.sessions.PushFlash(c.Request.Context(), models.NoticeError, message)
	c.Redirect(http.StatusSeeOther, back)
}

// refererPath 同站 Referer 的路径部分
func refererPath(c *gin.Context) string {
	u, err := url.Parse(c.Request.Referer())
	if err != nil || (u.Host != "" && u.Host != c.Request.Host) {
		return ""
	}
	return guard.SafeRedirect(u.RequestURI(), "")
}
