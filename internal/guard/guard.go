// Package guard 页面访问控制
package guard

import "github.com/langchou/autoprime/internal/models"

// LoginURL 未通过校验时的跳转地址
const LoginURL = "/login.html"

// Decision 守卫结果
type Decision struct {
	Allow    bool
	Redirect string
	Reason   string
}

// 拒绝原因
const (
	ReasonNoSession    = "no_session"
	ReasonRoleMismatch = "role_mismatch"
)

// Check 校验当前会话能否访问需要登录的页面
//
// required 为空表示只需登录。未登录时无论 required 为何都跳转登录页。
func Check(s *models.Session, required models.Role) Decision {
	if !s.Authenticated() {
		return Decision{Redirect: LoginURL, Reason: ReasonNoSession}
	}
	if required != "" && s.Role() != required {
		return Decision{Redirect: LoginURL, Reason: ReasonRoleMismatch}
	}
	return Decision{Allow: true}
}

// DashboardURL 各角色的首页
func DashboardURL(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return "/admin/dashboard.html"
	case models.RoleHost:
		return "/host/dashboard.html"
	default:
		return "/user/dashboard.html"
	}
}

// GuestOnly 已登录用户访问登录/注册页时返回其首页地址
func GuestOnly(s *models.Session) (string, bool) {
	if !s.Authenticated() {
		return "", false
	}
	return DashboardURL(s.Role()), true
}

// AfterLogin 登录成功后的跳转地址：优先回到之前被拦截的页面
func AfterLogin(role models.Role, remembered string) string {
	if safeLocal(remembered) {
		return remembered
	}
	return DashboardURL(role)
}

// SafeRedirect p 为站内路径时返回 p，否则返回 fallback
func SafeRedirect(p, fallback string) string {
	if safeLocal(p) {
		return p
	}
	return fallback
}

// safeLocal 只接受站内路径，避免开放重定向
func safeLocal(p string) bool {
	if len(p) < 2 || p[0] != '/' {
		return false
	}
	return p[1] != '/' && p[1] != '\\' && p != LoginURL
}
