package handlers

import (
	"context"

	"github.com/langchou/autoprime/internal/models"
	"github.com/langchou/autoprime/internal/pages"
)

// AdminDashboardView 管理员仪表盘
type AdminDashboardView struct {
	Stats *models.AdminStats
}

// AdminUsersView 用户列表
type AdminUsersView struct {
	Users []models.User
	Role  models.Role
	Roles []models.Role
}

func (h *Handler) initAdminDashboard(ctx context.Context, req *pages.Request) (any, error) {
	v := &AdminDashboardView{}
	stats, err := h.svc.Admin.Stats(ctx)
	if err != nil {
		return v, err
	}
	v.Stats = stats
	return v, nil
}

func (h *Handler) initAdminUsers(ctx context.Context, req *pages.Request) (any, error) {
	v := &AdminUsersView{Roles: []models.Role{models.RoleUser, models.RoleHost, models.RoleAdmin}}
	for _, r := range v.Roles {
		if string(r) == req.Query.Get("role") {
			v.Role = r
		}
	}

	users, err := h.svc.Admin.Users(ctx, v.Role)
	if err != nil {
		return v, err
	}
	v.Users = users
	return v, nil
}
