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
	"github.com/langchou/autoprime/internal/validate"
)

// RegisterView 注册页
type RegisterView struct {
	Roles []models.Role
}

func (h *Handler) initLogin(ctx context.Context, req *pages.Request) (any, error) {
	if dest, ok := guard.GuestOnly(req.Session); ok {
		return nil, pages.RedirectTo(dest)
	}
	return nil, nil
}

func (h *Handler) initRegister(ctx context.Context, req *pages.Request) (any, error) {
	if dest, ok := guard.GuestOnly(req.Session); ok {
		return nil, pages.RedirectTo(dest)
	}
	return &RegisterView{Roles: []models.Role{models.RoleUser, models.RoleHost}}, nil
}

// Login 登录
// POST /actions/login
func (h *Handler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.failBack(c, validate.Message(err), guard.LoginURL)
		return
	}

	user, err := h.svc.Auth.Login(ctx, &req)
	if err != nil {
		msg := "Login failed. Please try again."
		if backend.IsStatus(err, http.StatusUnauthorized) {
			msg = "Invalid email or password"
		}
		h.logger.Info("Login failed", zap.String("email", req.Email), zap.Error(err))
		h.failBack(c, backend.Message(err, msg), guard.LoginURL)
		return
	}

	dest := guard.AfterLogin(user.Role, h.sessions.TakeDestination(ctx))
	h.logger.Info("User logged in", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	h.sessions.PushFlash(ctx, models.NoticeSuccess, "Welcome back, "+user.FirstName()+"!")
	c.Redirect(http.StatusSeeOther, dest)
}

// Register 注册
// POST /actions/register
func (h *Handler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	const back = "/register.html"

	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		msg := validate.Message(err)
		if r := validate.First(
			validate.CheckRequired(req.Name, "Full name"),
			validate.CheckEmail(req.Email),
			validate.CheckPhone(req.Phone),
			validate.CheckPassword(req.Password),
			validate.CheckConfirmPassword(req.Password, req.ConfirmPassword),
		); !r.Valid {
			msg = r.Message
		}
		h.failBack(c, msg, back)
		return
	}
	switch req.Role {
	case "", models.RoleUser, models.RoleHost:
	default:
		h.failBack(c, "Please choose a valid account type", back)
		return
	}

	user, err := h.svc.Auth.Register(ctx, &req)
	if err != nil {
		msg := "Registration failed. Please try again."
		if backend.IsStatus(err, http.StatusConflict) {
			msg = "An account with this email already exists"
		}
		h.logger.Info("Registration failed", zap.String("email", req.Email), zap.Error(err))
		h.failBack(c, backend.Message(err, msg), back)
		return
	}

	if user == nil {
		h.sessions.PushFlash(ctx, models.NoticeSuccess, "Account created. Please login.")
		c.Redirect(http.StatusSeeOther, guard.LoginURL)
		return
	}
	h.logger.Info("User registered", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	h.sessions.PushFlash(ctx, models.NoticeSuccess, "Welcome to Auto Prime, "+user.FirstName()+"!")
	c.Redirect(http.StatusSeeOther, guard.DashboardURL(user.Role))
}

// Logout 退出登录
// POST /actions/logout
func (h *Handler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.svc.Auth.Logout(ctx); err != nil {
		h.logger.Error("Failed to clear session", zap.Error(err))
	}
	h.sessions.PushFlash(ctx, models.NoticeInfo, "You have been logged out")
	c.Redirect(http.StatusSeeOther, "/")
}
