package pages

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/langchou/autoprime/internal/guard"
	"github.com/langchou/autoprime/pkg/metrics"
)

// 页头页脚片段名
const (
	PartialHeader = "header"
	PartialFooter = "footer"
)

// PartialLoader 读取静态 HTML 片段
type PartialLoader interface {
	Load(ctx context.Context, name string) (string, error)
}

// RedirectError 页面初始化要求跳转
type RedirectError struct {
	To string
}

func (e *RedirectError) Error() string { return "redirect to " + e.To }

// RedirectTo 在 Init 中返回以跳转到其他页面
func RedirectTo(to string) error {
	return &RedirectError{To: to}
}

// NotFoundError 页面所需的资源不存在，渲染为提示卡片
type NotFoundError struct {
	Title   string
	Message string
}

func (e *NotFoundError) Error() string { return "not found: " + e.Title }

// NotFound 在 Init 中返回以显示“未找到”卡片
func NotFound(title, message string) error {
	return &NotFoundError{Title: title, Message: message}
}

// Frame 一次页面分发的结果
type Frame struct {
	Key    string
	Mapped bool
	Route  Route
	Header template.HTML
	Footer template.HTML
	// Decision 访问控制结果，Allow 为 false 时 Redirect 为跳转地址
	Decision guard.Decision
	// Redirect 页面初始化要求的跳转
	Redirect string
	NotFound *NotFoundError
	Data     any
	Err      error
}

// Template 模板名，未映射时为空
func (f *Frame) Template() string {
	if !f.Mapped {
		return ""
	}
	return f.Route.Page.Template()
}

// Blocked 被访问控制拦截
func (f *Frame) Blocked() bool {
	return f.Mapped && f.Route.RequireAuth && !f.Decision.Allow
}

// Bootstrap 页面启动流程
type Bootstrap struct {
	registry *Registry
	partials PartialLoader
	logger   *zap.Logger
}

// NewBootstrap 创建启动流程
func NewBootstrap(registry *Registry, partials PartialLoader, logger *zap.Logger) *Bootstrap {
	return &Bootstrap{registry: registry, partials: partials, logger: logger}
}

// Registry 路由表
func (b *Bootstrap) Registry() *Registry {
	return b.registry
}

// Run 按顺序执行：加载页头、加载页脚、访问控制、页面初始化
//
// 未映射的 key 不做任何事；片段加载失败和初始化错误（包括 panic）只记录日志，不中断流程。
func (b *Bootstrap) Run(ctx context.Context, req *Request) *Frame {
	req.Key = Key(req.Key)
	frame := &Frame{Key: req.Key, Decision: guard.Decision{Allow: true}}

	frame.Header = b.loadPartial(ctx, PartialHeader)
	frame.Footer = b.loadPartial(ctx, PartialFooter)

	route, ok := b.registry.Lookup(req.Key)
	if !ok {
		metrics.RecordDispatch("unmapped", metrics.OutcomeUnmapped)
		return frame
	}
	frame.Mapped = true
	frame.Route = route

	if route.RequireAuth {
		frame.Decision = guard.Check(req.Session, route.Role)
		if !frame.Decision.Allow {
			b.logger.Debug("Page access denied",
				zap.String("page", req.Key),
				zap.String("reason", frame.Decision.Reason),
			)
			metrics.RecordDispatch(req.Key, metrics.OutcomeRedirected)
			return frame
		}
	}

	init, ok := route.Page.(Initializer)
	if !ok {
		metrics.RecordDispatch(req.Key, metrics.OutcomeRendered)
		return frame
	}

	data, err := b.safeInit(ctx, init, req)
	var redirect *RedirectError
	var panicked *PanicError
	var missing *NotFoundError
	switch {
	case errors.As(err, &redirect):
		frame.Redirect = redirect.To
		metrics.RecordDispatch(req.Key, metrics.OutcomeRedirected)
	case errors.As(err, &missing):
		frame.NotFound = missing
		metrics.RecordDispatch(req.Key, metrics.OutcomeNotFound)
	case errors.As(err, &panicked):
		frame.Err = err
		metrics.RecordDispatch(req.Key, metrics.OutcomePanic)
	case err != nil:
		frame.Err = err
		b.logger.Error("Page init failed", zap.String("page", req.Key), zap.Error(err))
		metrics.RecordDispatch(req.Key, metrics.OutcomeInitError)
	default:
		metrics.RecordDispatch(req.Key, metrics.OutcomeRendered)
	}
	frame.Data = data
	return frame
}

// PanicError 页面初始化 panic
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprintf("page init panic: %v", e.Value) }

func (b *Bootstrap) safeInit(ctx context.Context, init Initializer, req *Request) (data any, err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Page init panic",
				zap.String("page", req.Key),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			data, err = nil, &PanicError{Value: r}
		}
	}()
	return init.Init(ctx, req)
}

func (b *Bootstrap) loadPartial(ctx context.Context, name string) template.HTML {
	if b.partials == nil {
		return ""
	}
	html, err := b.partials.Load(ctx, name)
	if err != nil {
		b.logger.Warn("Failed to load partial", zap.String("partial", name), zap.Error(err))
		return ""
	}
	// 片段来自本地可信文件
	return template.HTML(html)
}
