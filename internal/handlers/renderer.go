package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"coffebless/internal/order"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templateFS embed.FS

// Ortak layout ile render edilen sayfalar.
var pages = []string{"checkout.html", "admin_login.html", "admin.html"}

// TemplateFuncs, her sayfada kullanılabilir.
var TemplateFuncs = template.FuncMap{
	"clp": func(v int64) string { return "$" + order.FormatCLP(v) },
	"optclp": func(v *int64) string {
		if v == nil {
			return ""
		}
		return "$" + order.FormatCLP(*v)
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"upper": strings.ToUpper,
}

// HTMLRenderer, her sayfa için ayrı template setlerini yönetir.
type HTMLRenderer struct {
	Templates map[string]*template.Template
}

// LoadTemplates, gömülü layout'u her sayfa için ayrı ayrıştırır; böylece blok
// isimleri sayfalar arasında çakışmaz.
func LoadTemplates() (*HTMLRenderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New("layout.html").Funcs(TemplateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		templates[page] = t
	}
	return &HTMLRenderer{Templates: templates}, nil
}

// Instance, render işlemini gerçekleştirir.
func (r *HTMLRenderer) Instance(name string, data any) render.Render {
	return render.HTML{
		Template: r.Templates[name],
		Name:     "layout.html",
		Data:     data,
	}
}
