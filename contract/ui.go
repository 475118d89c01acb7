package contract

import (
	"bytes"
	"html/template"
)

var pageTemplate = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <noscript>
    <ul>
    {{- range .URLs}}
      <li><a href="{{.URL}}">{{.Name}}</a></li>
    {{- end}}
    </ul>
  </noscript>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-standalone-preset.js"></script>
  <script>
    window.onload = function () {
      window.ui = SwaggerUIBundle({
        urls: {{.URLs}},
        dom_id: "#swagger-ui",
        presets: [SwaggerUIBundle.presets.apis, SwaggerUIStandalonePreset],
        layout: "StandaloneLayout"
      });
    };
  </script>
</body>
</html>
`))

type pageURL struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func renderPage(docs Docs, groups []string) ([]byte, error) {
	urls := make([]pageURL, 0, len(groups))
	for _, name := range groups {
		urls = append(urls, pageURL{Name: name, URL: docs.descriptionPath(name, "json")})
	}

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		Title string
		URLs  []pageURL
	}{docs.Title, urls})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
