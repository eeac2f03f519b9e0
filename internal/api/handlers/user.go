package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/autoprime/internal/api/backend"
	"github.com/langchou/autoprime/internal/guard"
	"github.com/langchou/autoprime/internal/models"
	"github.com/langchou/autoprime/internal/pages"
)

// upcomingLimit 仪表盘展示的即将开始的预订数
const upcomingLimit = 5

// bookingStatuses 我的预订页的状态筛选
var bookingStatuses = []string{
	models.BookingPending,
	models.BookingConfirmed,
	models.BookingCompleted,
	models.BookingCancelled,
}

// UserDashboardView 用户仪表盘
type UserDashboardView struct {
	User      *models.User
	Upcoming  []BookingRow
	Total     int
	Active    int
	Completed int
}

// MyBookingsView 我的预订
type MyBookingsView struct {
	Rows     []BookingRow
	Status   string
	Statuses []string
}

// WishlistView 收藏列表
type WishlistView struct {
	Cars []models.Car
}

func (h *Handler) initUserDashboard(ctx context.Context, req *pages.Request) (any, error) {
	v := &UserDashboardView{User: req.Session.User}

	upcoming, err := h.svc.Bookings.Upcoming(ctx, upcomingLimit)
	if err != nil {
		return v, err
	}
	v.Upcoming = rows(upcoming, userRow)

	all, err := h.svc.Bookings.List(ctx, "")
	if err != nil {
		return v, err
	}
	v.Total = len(all)
	for _, b := range all {
		switch b.Status {
		case models.BookingPending, models.BookingConfirmed:
			v.Active++
		case models.BookingCompleted:
			v.Completed++
		}
	}
	return v, nil
}

func (h *Handler) initMyBookings(ctx context.Context, req *pages.Request) (any, error) {
	v := &MyBookingsView{Statuses: bookingStatuses}
	for _, s := range bookingStatuses {
		if req.Query.Get("status") == s {
			v.Status = s
		}
	}

	bookings, err := h.svc.Bookings.List(ctx, v.Status)
	if err != nil {
		return v, err
	}
	v.Rows = rows(bookings, userRow)
	return v, nil
}

func (h *Handler) initWishlist(ctx context.Context, req *pages.Request) (any, error) {
	v := &WishlistView{}
	cars, err := h.svc.Cars.Wishlist(ctx)
	if err != nil {
		return v, err
	}
	v.Cars = cars
	return v, nil
}

// Wishlist 收藏或取消收藏
// POST /actions/wishlist/:carId  op=add|remove
func (h *Handler) Wishlist(c *gin.Context) {
	ctx := c.Request.Context()
	if _, ok := h.requireSession(c); !ok {
		return
	}
	back := guard.SafeRedirect(c.PostForm("next"), "/user/wishlist.html")

	carID, ok := paramID(c, "carId")
	if !ok {
		h.failBack(c, "Invalid car", back)
		return
	}

	var (
		err  error
		done string
	)
	switch c.PostForm("op") {
	case "remove":
		err = h.svc.Cars.RemoveFromWishlist(ctx, carID)
		done = "Removed from your wishlist"
	default:
		err = h.svc.Cars.AddToWishlist(ctx, carID)
		done = "Added to your wishlist"
	}
	if err != nil {
		if h.handleAuthError(c, err) {
			return
		}
		h.logger.Error("Failed to update wishlist", zap.Int64("car_id", carID), zap.Error(err))
		h.failBack(c, backend.Message(err, "Unable to update your wishlist"), back)
		return
	}

	h.sessions.PushFlash(ctx, models.NoticeSuccess, done)
	c.Redirect(http.StatusSeeOther, back)
}

// AddReview 提交评价
// POST /actions/cars/:id/reviews
func (h *Handler) AddReview(c *gin.Context) {
	ctx := c.Request.Context()
	if _, ok := h.requireSession(c); !ok {
		return
	}

	carID, ok := paramID(c, "id")
	if !ok {
		h.failBack(c, "Invalid car", "/cars.html")
		return
	}
	back := carDetailsURL(carID)

	var form struct {
		Rating  int    `form:"rating" binding:"required,min=1,max=5"`
		Comment string `form:"comment" binding:"required,min=3"`
	}
	if err := c.ShouldBind(&form); err != nil {
		h.failBack(c, "Please add a rating between 1 and 5 and a short comment", back)
		return
	}

	if _, err := h.svc.Cars.AddReview(ctx, carID, form.Rating, form.Comment); err != nil {
		if h.handleAuthError(c, err) {
			return
		}
		h.logger.Error("Failed to add review", zap.Int64("car_id", carID), zap.Error(err))
		h.failBack(c, backend.Message(err, "Unable to post your review"), back)
		return
	}

	h.sessions.PushFlash(ctx, models.NoticeSuccess, "Thanks for your review!")
	c.Redirect(http.StatusSeeOther, back)
}
