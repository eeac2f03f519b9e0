// Package session 浏览器会话：每个浏览器一个 key，保存 token、用户信息、提示消息和登录后跳转地址
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/langchou/autoprime/internal/models"
	"github.com/langchou/autoprime/internal/repository"
)

const (
	// CookieName 会话 ID cookie
	CookieName = "autoprime_sid"
	keyPrefix  = "autoprime:session:"
)

type ctxKey struct{}

// WithID 将会话 ID 放入 context
func WithID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, ctxKey{}, sid)
}

// ID 从 context 取会话 ID
func ID(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(ctxKey{}).(string)
	return sid, ok && sid != ""
}

// Options 会话配置
type Options struct {
	// MaxAge cookie 有效期，0 表示浏览器会话
	MaxAge time.Duration
	Secure bool
}

// Manager 会话读写
//
// 同一浏览器的并发请求各自读改写整个会话，后写覆盖先写。
type Manager struct {
	store  repository.Store
	logger *zap.Logger
	opts   Options
	now    func() time.Time
}

// NewManager 创建会话管理器
func NewManager(store repository.Store, logger *zap.Logger, opts Options) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
		opts:   opts,
		now:    time.Now,
	}
}

// Middleware 读取或下发会话 cookie，并把会话 ID 写入请求 context
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(CookieName)
		if err != nil || uuid.Validate(sid) != nil {
			sid = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CookieName, sid, int(m.opts.MaxAge.Seconds()), "/", "", m.opts.Secure, true)
		}
		c.Request = c.Request.WithContext(WithID(c.Request.Context(), sid))
		c.Next()
	}
}

func key(sid string) string {
	return keyPrefix + sid
}

// Load 读取当前会话，不存在时返回空会话
//
// 已过期的 JWT 视为未登录，并立即清除登录信息。
func (m *Manager) Load(ctx context.Context) (*models.Session, error) {
	sid, ok := ID(ctx)
	if !ok {
		return &models.Session{}, nil
	}

	data, err := m.store.Get(ctx, key(sid))
	if errors.Is(err, repository.ErrNotFound) {
		return &models.Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	s := &models.Session{}
	if err := json.Unmarshal(data, s); err != nil {
		m.logger.Warn("Discarding corrupt session", zap.String("sid", sid), zap.Error(err))
		return &models.Session{}, nil
	}

	if s.Token != "" && m.expired(s.Token) {
		m.logger.Info("Session token expired", zap.String("sid", sid))
		s.Token = ""
		s.User = nil
		if err := m.Save(ctx, s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// expired 仅检查 exp 声明，不校验签名；非 JWT 的 token 视为未过期
func (m *Manager) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !m.now().Before(exp.Time)
}

// Save 写入整个会话
func (m *Manager) Save(ctx context.Context, s *models.Session) error {
	sid, ok := ID(ctx)
	if !ok {
		return nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := m.store.Set(ctx, key(sid), data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear 删除会话
func (m *Manager) Clear(ctx context.Context) error {
	sid, ok := ID(ctx)
	if !ok {
		return nil
	}
	if err := m.store.Delete(ctx, key(sid)); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Update 读改写
func (m *Manager) Update(ctx context.Context, fn func(s *models.Session)) error {
	s, err := m.Load(ctx)
	if err != nil {
		return err
	}
	fn(s)
	return m.Save(ctx, s)
}

// Token 当前 bearer token，未登录返回空字符串
func (m *Manager) Token(ctx context.Context) string {
	s, err := m.Load(ctx)
	if err != nil {
		m.logger.Warn("Failed to load session for token", zap.Error(err))
		return ""
	}
	return s.Token
}

// SignIn 保存登录结果，保留未读的提示和跳转地址
func (m *Manager) SignIn(ctx context.Context, token string, user *models.User) error {
	return m.Update(ctx, func(s *models.Session) {
		s.Token = token
		s.User = user
	})
}

// PushFlash 追加一条提示，下次渲染页面时展示
func (m *Manager) PushFlash(ctx context.Context, kind, message string) {
	err := m.Update(ctx, func(s *models.Session) {
		s.Flash = append(s.Flash, models.Notice{Kind: kind, Message: message})
	})
	if err != nil {
		m.logger.Warn("Failed to push flash", zap.Error(err))
	}
}

// PopFlash 取出并清空提示
func (m *Manager) PopFlash(ctx context.Context, s *models.Session) []models.Notice {
	if len(s.Flash) == 0 {
		return nil
	}
	flash := s.Flash
	s.Flash = nil
	if err := m.Save(ctx, s); err != nil {
		m.logger.Warn("Failed to clear flash", zap.Error(err))
	}
	return flash
}

// RememberDestination 记录被拦截的页面，登录后跳回
func (m *Manager) RememberDestination(ctx context.Context, s *models.Session, dest string) {
	s.RedirectAfterLogin = dest
	if err := m.Save(ctx, s); err != nil {
		m.logger.Warn("Failed to remember destination", zap.Error(err))
	}
}

// TakeDestination 取出并清空登录后跳转地址
func (m *Manager) TakeDestination(ctx context.Context) string {
	var dest string
	err := m.Update(ctx, func(s *models.Session) {
		dest = s.RedirectAfterLogin
		s.RedirectAfterLogin = ""
	})
	if err != nil {
		m.logger.Warn("Failed to take destination", zap.Error(err))
	}
	return dest
}
