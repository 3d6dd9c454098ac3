package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/vasiliy-maslov/lunch-order/internal/order"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const orderTemplate = "order.html.tmpl"

// OrderMail is everything the restaurant e-mail shows.
type OrderMail struct {
	Caller      string
	Hour        string
	PhoneNumber string
	Orders      []order.Record
}

type TemplateRenderer struct {
	tmpl *template.Template
}

func NewTemplateRenderer() (*TemplateRenderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("render: failed to parse templates: %w", err)
	}
	return &TemplateRenderer{tmpl: tmpl}, nil
}

func (r *TemplateRenderer) RenderOrder(data OrderMail) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, orderTemplate, data); err != nil {
		return "", fmt.Errorf("render: failed to execute %s: %w", orderTemplate, err)
	}
	return buf.String(), nil
}
