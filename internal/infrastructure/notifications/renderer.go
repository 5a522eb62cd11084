package notifications

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed templates/*
var templateFS embed.FS

// Renderer turns a template name plus data into the HTML and plain-text bodies.
type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

func NewRenderer() (*Renderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse html templates: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}
	return &Renderer{html: html, text: text}, nil
}

// Render executes the named template. The plain-text body is empty when the
// template has no .txt variant.
func (r *Renderer) Render(name string, data map[string]any) (html, text string, err error) {
	var hb bytes.Buffer
	if err := r.html.ExecuteTemplate(&hb, name+".html", data); err != nil {
		return "", "", fmt.Errorf("render %s: %w", name, err)
	}

	if t := r.text.Lookup(name + ".txt"); t != nil {
		var tb bytes.Buffer
		if err := t.Execute(&tb, data); err != nil {
			return "", "", fmt.Errorf("render %s text: %w", name, err)
		}
		text = tb.String()
	}
	return hb.String(), text, nil
}
