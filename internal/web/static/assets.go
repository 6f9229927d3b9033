// Package static embeds the browser UI: a single page that posts a question
// to the search endpoint and renders the answer with its sources.
package static

import (
	"embed"
	"net/http"
)

//go:embed index.html app.js style.css
var assetsFS embed.FS

// Handler serves the embedded assets. index.html answers the root path.
func Handler() http.Handler {
	return http.FileServerFS(assetsFS)
}
