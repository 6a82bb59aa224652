package report

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/deusflow/railnews/internal/logger"
	"github.com/deusflow/railnews/internal/news"
	"github.com/deusflow/railnews/internal/sentiment"
)

const dashboardHTML = `<html>
<head>
    <meta charset="UTF-8">
    <title>Новостная панель</title>
    <style>
        body { font-family: Arial, sans-serif; }
        h1 { color: #333; }
        ul { list-style-type: none; padding: 0; }
        li { margin: 10px 0; }
        a { text-decoration: none; color: #1a0dab; }
        a:hover { text-decoration: underline; }
    </style>
</head>
<body>
    <h1>Новостная панель</h1>
    <ul>
{{- range .}}
        <li><a href="{{.Link}}" style="color:{{color .Sentiment}}">{{.Title}}</a> - {{.Published}} (Настроение: {{.Sentiment}}, Субъективность: {{printf "%.2f" .Subjectivity}})</li>
{{- end}}
    </ul>
</body>
</html>
`

var dashboardTmpl = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"color": sentimentColor,
}).Parse(dashboardHTML))

func sentimentColor(l sentiment.Label) string {
	switch l {
	case sentiment.Positive:
		return "green"
	case sentiment.Negative:
		return "red"
	default:
		return "gray"
	}
}

// RenderDashboard builds the static page: one list item per article, the
// link colored by sentiment.
func RenderDashboard(articles []*news.Article) (string, error) {
	logger.Info("rendering dashboard", "articles", len(articles))

	var b strings.Builder
	if err := dashboardTmpl.Execute(&b, articles); err != nil {
		return "", fmt.Errorf("failed to render dashboard: %w", err)
	}
	return b.String(), nil
}
