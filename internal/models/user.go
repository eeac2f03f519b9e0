package models

// Role 用户角色
type Role string

const (
	RoleUser  Role = "USER"
	RoleHost  Role = "HOST"
	RoleAdmin Role = "ADMIN"
)

// User 用户信息
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  Role   `json:"role"`
}

// FirstName 用于页头展示
func (u *User) FirstName() string {
	for i, r := range u.Name {
		if r == ' ' {
			return u.Name[:i]
		}
	}
	return u.Name
}

// LoginRequest 登录表单
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RegisterRequest 注册表单
type RegisterRequest struct {
	Name            string `json:"name" form:"name" binding:"required,min=2"`
	Email           string `json:"email" form:"email" binding:"required,email"`
	Phone           string `json:"phone" form:"phone" binding:"required,phone"`
	Password        string `json:"password" form:"password" binding:"required,strongpwd"`
	ConfirmPassword string `json:"-" form:"confirmPassword" binding:"required,eqfield=Password"`
	Role            Role   `json:"role" form:"role"`
}

// AuthResponse 后端登录/注册响应
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Profile 个人资料
type Profile struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Avatar  string `json:"avatar,omitempty"`
}

// ProfileRequest 资料修改表单，邮箱不可修改
type ProfileRequest struct {
	Name    string `json:"name" form:"name" binding:"required,min=2"`
	Phone   string `json:"phone" form:"phone" binding:"required,phone"`
	Address string `json:"address,omitempty" form:"address" binding:"max=200"`
}

// PasswordChangeRequest 修改密码表单
type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword" form:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" form:"newPassword" binding:"required,strongpwd"`
	ConfirmPassword string `json:"-" form:"confirmNewPassword" binding:"required,eqfield=NewPassword"`
}
