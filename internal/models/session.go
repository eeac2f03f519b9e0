package models

// 提示类型
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
	NoticeWarning = "warning"
	NoticeInfo    = "info"
)

// Notice 页面提示（toast）
type Notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Session 持久化在单个 key 下的会话数据
type Session struct {
	Token              string   `json:"token,omitempty"`
	User               *User    `json:"user,omitempty"`
	Flash              []Notice `json:"flash,omitempty"`
	RedirectAfterLogin string   `json:"redirect_after_login,omitempty"`
}

// Authenticated 是否已登录
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != "" && s.User != nil
}

// Role 当前角色，未登录时为空
func (s *Session) Role() Role {
	if !s.Authenticated() {
		return ""
	}
	return s.User.Role
}
