// Package web embeds the HTML templates rendered by the fiber views engine.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templates embed.FS

// Templates exposes the templates directory as the root of an http.FileSystem.
func Templates() http.FileSystem {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
