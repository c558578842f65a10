package views

import (
	"embed"
	"html/template"
)

//go:embed templates/*.tmpl
var files embed.FS

const Dashboard = "dashboard.tmpl"

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(files, "templates/*.tmpl"))
}
