// Package view 页面模板渲染
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/langchou/autoprime/internal/models"
	"github.com/langchou/autoprime/internal/pages"
)

//go:embed templates
var templateFS embed.FS

// 特殊页面模板
const (
	TemplateNotFound = "404"
	TemplateError    = "error"
)

// Layout 所有页面共享的外层数据，页面自身数据放在 Data
type Layout struct {
	Title    string
	Key      string
	User     *models.User
	Header   template.HTML
	Footer   template.HTML
	Notices  []models.Notice
	NotFound *pages.NotFoundError
	// Error 页面初始化失败时的提示
	Error string
	Data  any
}

// SignedIn 页头是否显示用户菜单
func (l *Layout) SignedIn() bool {
	return l.User != nil
}

// Renderer 预编译的页面模板集合
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer 编译 templates/pages 下的全部页面，每个页面与 layout 组合
func NewRenderer() (*Renderer, error) {
	return newRenderer(templateFS)
}

func newRenderer(fsys fs.FS) (*Renderer, error) {
	files, err := fs.Glob(fsys, "templates/pages/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("list page templates: %w", err)
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		name := strings.TrimSuffix(file[strings.LastIndex(file, "/")+1:], ".tmpl")
		t, err := template.New("layout.tmpl").Funcs(Funcs()).ParseFS(fsys,
			"templates/layout.tmpl",
			"templates/components.tmpl",
			file,
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// Has 是否存在页面模板
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Render 渲染页面
func (r *Renderer) Render(w io.Writer, name string, data *Layout) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout.tmpl", data)
}
