// Package web holds the HTML templates of both applications.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"strings"

	html "github.com/gofiber/template/html/v2"
)

//go:embed templates
var templates embed.FS

// Views returns a template engine over templates/<app>.
func Views(app string) (*html.Engine, error) {
	sub, err := fs.Sub(templates, "templates/"+app)
	if err != nil {
		return nil, fmt.Errorf("views %s: %w", app, err)
	}
	if _, err := fs.Stat(sub, "layouts/main.html"); err != nil {
		return nil, fmt.Errorf("views %s: %w", app, err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("lower", strings.ToLower)
	engine.AddFunc("pathescape", url.PathEscape)
	return engine, nil
}
