package view

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
)

//go:embed partials/*.html
var partialFS embed.FS

// Partials 从目录读取页头页脚片段，dir 为空时使用内置片段
type Partials struct {
	fsys fs.FS
}

// NewPartials 创建片段加载器
func NewPartials(dir string) *Partials {
	if dir == "" {
		sub, _ := fs.Sub(partialFS, "partials")
		return &Partials{fsys: sub}
	}
	return &Partials{fsys: os.DirFS(dir)}
}

// NewPartialsFS 使用指定文件系统
func NewPartialsFS(fsys fs.FS) *Partials {
	return &Partials{fsys: fsys}
}

// Load 按名称读取 <name>.html，原样返回文本
func (p *Partials) Load(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(p.fsys, name+".html")
	if err != nil {
		return "", fmt.Errorf("read partial %s: %w", name, err)
	}
	return string(data), nil
}
