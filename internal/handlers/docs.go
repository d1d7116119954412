package handlers

import (
	"html/template"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// apiDocJSONPath is where the merged OpenAPI document is served.
const apiDocJSONPath = "/api-docs-json"

// APIDocJSON handles GET /api-docs-json
func (s *Server) APIDocJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.APIDoc)
}

// SwaggerUI serves the interactive explorer under /api-docs/*, reading
// the document from /api-docs-json.
func SwaggerUI() http.HandlerFunc {
	return httpSwagger.Handler(httpSwagger.URL(apiDocJSONPath))
}

var redocPage = template.Must(template.New("redoc").Parse(`<!DOCTYPE html>
<html>
  <head>
    <title>{{.Title}}</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>body { margin: 0; padding: 0; }</style>
  </head>
  <body>
    <redoc spec-url="{{.SpecURL}}" theme='{"colors":{"primary":{"main":"#6EC5AB"}},"typography":{"fontSize":"15px","lineHeight":"1.5","code":{"code":"#87E8C7","backgroundColor":"#4D4D4E"}},"menu":{"backgroundColor":"#ffffff"}}'></redoc>
    <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
  </body>
</html>
`))

// Redoc handles GET /api-docs-redoc
func Redoc(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = redocPage.Execute(w, struct {
		Title   string
		SpecURL string
	}{Title: "API Docs", SpecURL: apiDocJSONPath})
}
