// Package web holds the page templates and browser assets, embedded into the
// binary so the server does not depend on its working directory.
package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html static/*
var files embed.FS

// ParseTemplates parses every page template with the helper funcs.
func ParseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"toJSON": func(v any) template.JS {
			b, err := json.Marshal(v)
			if err != nil {
				return template.JS("null")
			}
			return template.JS(b)
		},
	}
	return template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
}

// Static returns the browser assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
