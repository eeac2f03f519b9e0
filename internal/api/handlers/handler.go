package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/langchou/autoprime/internal/pages"
	"github.com/langchou/autoprime/internal/service"
	"github.com/langchou/autoprime/internal/session"
	"github.com/langchou/autoprime/internal/validate"
	"github.com/langchou/autoprime/internal/view"
	"github.com/langchou/autoprime/pkg/ws"
)

// Services 页面控制器依赖的后端服务
type Services struct {
	Cars     *service.CarService
	Bookings *service.BookingService
	Auth     *service.AuthService
	Contact  *service.ContactService
	Host     *service.HostService
	Admin    *service.AdminService
	User     *service.UserService
}

// Options HTTP 层配置
type Options struct {
	AssetsDir       string
	CORSOrigins     []string
	RateLimitPerMin int
}

// Handler HTTP 处理器
type Handler struct {
	logger   *zap.Logger
	sessions *session.Manager
	svc      Services
	renderer *view.Renderer
	boot     *pages.Bootstrap
	wsHub    *ws.Hub
	opts     Options
	upgrader websocket.Upgrader
}

// NewHandler 创建处理器并构建页面路由表
func NewHandler(
	logger *zap.Logger,
	sessions *session.Manager,
	svc Services,
	renderer *view.Renderer,
	partials pages.PartialLoader,
	wsHub *ws.Hub,
	opts Options,
) (*Handler, error) {
	h := &Handler{
		logger:   logger,
		sessions: sessions,
		svc:      svc,
		renderer: renderer,
		wsHub:    wsHub,
		opts:     opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	registry, err := pages.NewRegistry(h.routes()...)
	if err != nil {
		return nil, err
	}
	for _, key := range registry.Keys() {
		rt, _ := registry.Lookup(key)
		if !renderer.Has(rt.Page.Template()) {
			logger.Warn("Page has no template", zap.String("page", key), zap.String("template", rt.Page.Template()))
		}
	}
	h.boot = pages.NewBootstrap(registry, partials, logger)
	return h, nil
}

// RegisterValidators 为表单绑定注册自定义校验
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return validate.Register(v)
}

// HealthCheck 健康检查
func (h *Handler) HealthCheck(c *gin.Context) {
	clients := 0
	if h.wsHub != nil {
		clients = h.wsHub.ClientCount()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"pages":      len(h.boot.Registry().Keys()),
		"ws_clients": clients,
	})
}

// paramID 解析路径参数中的 ID
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// queryID 解析查询参数中的 ID，缺失或非法时返回 false
func queryID(values map[string][]string, name string) (int64, bool) {
	v := values[name]
	if len(v) == 0 {
		return 0, false
	}
	id, err := strconv.ParseInt(v[0], 10, 64)
	return id, err == nil && id > 0
}
