package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pageNames = []string{
	"home",
	"project",
	"settings",
	"new",
	"signin",
	"signup",
	"notfound",
}

type templateSet struct {
	pages map[string]*template.Template
}

// loadTemplates parses each page together with the shared layout. Pages only
// define the "content" block.
func loadTemplates() (*templateSet, error) {
	set := &templateSet{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.ParseFS(templateFS, "templates/layout.html.tmpl", "templates/"+name+".html.tmpl")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		set.pages[name] = t
	}
	return set, nil
}

func (s *templateSet) render(w io.Writer, page string, data any) error {
	t, ok := s.pages[page]
	if !ok {
		return fmt.Errorf("unknown page template %q", page)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
