package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/langchou/autoprime/internal/api/backend"
	"github.com/langchou/autoprime/internal/models"
	"github.com/langchou/autoprime/internal/pages"
	"github.com/langchou/autoprime/internal/validate"
)

const (
	profileURL  = "/user/profile.html"
	paymentsURL = "/user/payments.html"
)

// ProfileView 个人资料页
type ProfileView struct {
	Profile *models.Profile
}

// PaymentsView 支付记录
type PaymentsView struct {
	Payments []models.Payment
	// TotalPaid 成功支付的合计
	TotalPaid decimal.Decimal
}

func (h *Handler) initProfile(ctx context.Context, req *pages.Request) (any, error) {
	v := &ProfileView{}
	profile, err := h.svc.User.Profile(ctx)
	if err != nil {
		// 后端不可用时用会话里的信息填表
		if u := req.Session.User; u != nil {
			v.Profile = &models.Profile{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
		}
		return v, err
	}
	v.Profile = profile
	return v, nil
}

func (h *Handler) initPayments(ctx context.Context, req *pages.Request) (any, error) {
	v := &PaymentsView{}
	payments, err := h.svc.User.Payments(ctx)
	if err != nil {
		return v, err
	}
	v.Payments = payments
	for _, p := range payments {
		if p.Status == models.PaymentSuccess {
			v.TotalPaid = v.TotalPaid.Add(p.Amount)
		}
	}
	return v, nil
}

// UpdateProfile 修改个人资料
// POST /actions/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	ctx := c.Request.Context()
	if _, ok := h.requireRole(c, models.RoleUser); !ok {
		return
	}

	var req models.ProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		msg := validate.Message(err)
		if r := validate.First(
			validate.CheckRequired(req.Name, "Name"),
			validate.CheckPhone(req.Phone),
		); !r.Valid {
			msg = r.Message
		}
		h.failBack(c, msg, profileURL)
		return
	}

	profile, err := h.svc.User.UpdateProfile(ctx, &req)
	if err != nil {
		if h.handleAuthError(c, err) {
			return
		}
		h.logger.Error("Failed to update profile", zap.Error(err))
		h.failBack(c, backend.Message(err, "Error updating profile"), profileURL)
		return
	}

	// 同步会话中的用户信息，页头立即显示新名字
	if err := h.sessions.Update(ctx, func(s *models.Session) {
		if s.User == nil {
			return
		}
		s.User.Name = req.Name
		s.User.Phone = req.Phone
		if profile.Name != "" {
			s.User.Name = profile.Name
		}
	}); err != nil {
		h.logger.Warn("Failed to refresh session user", zap.Error(err))
	}

	h.sessions.PushFlash(ctx, models.NoticeSuccess, "Profile updated successfully")
	c.Redirect(http.StatusSeeOther, profileURL)
}

// ChangePassword 修改密码
// POST /actions/password
func (h *Handler) ChangePassword(c *gin.Context) {
	ctx := c.Request.Context()
	if _, ok := h.requireRole(c, models.RoleUser); !ok {
		return
	}

	var req models.PasswordChangeRequest
	if err := c.ShouldBind(&req); err != nil {
		msg := validate.Message(err)
		if r := validate.First(
			validate.CheckRequired(req.CurrentPassword, "Current password"),
			validate.CheckPassword(req.NewPassword),
			validate.CheckConfirmPassword(req.NewPassword, req.ConfirmPassword),
		); !r.Valid {
			msg = r.Message
		}
		h.failBack(c, msg, profileURL)
		return
	}

	if err := h.svc.Auth.ChangePassword(ctx, &req); err != nil {
		if h.handleAuthError(c, err) {
			return
		}
		h.logger.Info("Password change rejected", zap.Error(err))
		h.failBack(c, backend.Message(err, "Error changing password"), profileURL)
		return
	}

	h.sessions.PushFlash(ctx, models.NoticeSuccess, "Password changed successfully")
	c.Redirect(http.StatusSeeOther, profileURL)
}
