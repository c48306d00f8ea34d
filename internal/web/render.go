// Package web 页面模板，随程序打包
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"quiz_backend/internal/model"
	"quiz_backend/internal/util"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templateFS embed.FS

const layout = "templates/base.html"

var funcs = template.FuncMap{
	"percent": func(r *model.QuizResult) string {
		return fmt.Sprintf("%.1f", r.Percentage())
	},
	"feedback": func(r *model.QuizResult) string {
		return r.Feedback().Message()
	},
	"date": func(r model.QuizResult) string {
		return r.DateTaken.Format(util.TimeFormat)
	},
	"avg": func(v *float64) string {
		if v == nil {
			return "–"
		}
		return fmt.Sprintf("%.2f", *v)
	},
	"num": func(v *int) string {
		if v == nil {
			return "–"
		}
		return fmt.Sprint(*v)
	},
	"checked": func(selected, value string) bool {
		return selected != "" && selected == value
	},
}

// Renderer 每个页面单独与 base 布局组合，实现 gin 的 HTMLRender
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		if page == layout {
			continue
		}
		name := strings.TrimPrefix(page, "templates/")
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, layout, page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

func (r *Renderer) Instance(name string, data interface{}) render.Render {
	t, ok := r.templates[name]
	if !ok {
		panic("web: unknown template " + name)
	}
	return render.HTML{Template: t, Name: "base", Data: data}
}
