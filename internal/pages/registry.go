// Package pages 页面路由：按页面路径查找控制器，执行页头页脚加载、访问控制和页面初始化
package pages

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/langchou/autoprime/internal/models"
)

// IndexKey 根路径对应的页面
const IndexKey = "index.html"

// Page 页面，Template 为模板名
type Page interface {
	Template() string
}

// Initializer 需要加载数据的页面实现此接口，返回值作为模板数据
type Initializer interface {
	Init(ctx context.Context, req *Request) (any, error)
}

// Request 一次页面访问
type Request struct {
	Key     string
	Path    string
	Query   url.Values
	Session *models.Session
}

// Static 无需初始化的静态页面
type Static string

func (s Static) Template() string { return string(s) }

// Controller 带初始化函数的页面
type Controller struct {
	Name string
	Fn   func(ctx context.Context, req *Request) (any, error)
}

// Func 创建带初始化函数的页面
func Func(name string, fn func(ctx context.Context, req *Request) (any, error)) *Controller {
	return &Controller{Name: name, Fn: fn}
}

func (c *Controller) Template() string { return c.Name }

func (c *Controller) Init(ctx context.Context, req *Request) (any, error) {
	return c.Fn(ctx, req)
}

// Route 页面路径到页面的映射，Role 为空表示任意已登录用户
type Route struct {
	Key         string
	Page        Page
	RequireAuth bool
	Role        models.Role
}

// Registry 启动时构建的静态路由表
type Registry struct {
	routes map[string]Route
}

// NewRegistry 创建路由表，key 重复时报错
func NewRegistry(routes ...Route) (*Registry, error) {
	r := &Registry{routes: make(map[string]Route, len(routes))}
	for _, rt := range routes {
		key := Key(rt.Key)
		if _, dup := r.routes[key]; dup {
			return nil, fmt.Errorf("duplicate page key %q", key)
		}
		if rt.Page == nil {
			return nil, fmt.Errorf("page key %q has no page", key)
		}
		if rt.Role != "" {
			rt.RequireAuth = true
		}
		rt.Key = key
		r.routes[key] = rt
	}
	return r, nil
}

// Lookup 查找页面
func (r *Registry) Lookup(key string) (Route, bool) {
	rt, ok := r.routes[Key(key)]
	return rt, ok
}

// Keys 所有页面路径，已排序
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.routes))
	for k := range r.routes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Key 将 URL 路径转换为页面 key：去掉开头的 /，空路径和目录指向 index.html
func Key(path string) string {
	key := strings.TrimLeft(path, "/")
	switch {
	case key == "":
		return IndexKey
	case strings.HasSuffix(key, "/"):
		return key + IndexKey
	}
	return key
}
