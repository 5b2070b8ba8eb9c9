package render

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/lincommit/linc/internal/bump"
	"github.com/lincommit/linc/internal/changelog"
	"github.com/lincommit/linc/internal/report"
)

type markdownRenderer struct{}

var reportTemplate = template.Must(template.New("report").Parse(`# linc check

**Verdict:** {{ .Summary.Verdict }}
**Checked:** {{ .Summary.Total }} | **Valid:** {{ .Summary.Valid }} | **Invalid:** {{ .Summary.Invalid }} | **Fixable:** {{ .Summary.Fixable }}
{{ range .Results }}{{ if not .Valid }}
---

### {{ if .Ref }}{{ .Ref }}{{ else }}message{{ end }}
{{ if .Subject }}> {{ .Subject }}
{{ end }}
**{{ .Field }}:** {{ .Reason }}
{{ if .Suggestions }}Did you mean: {{ range $i, $s := .Suggestions }}{{ if $i }}, {{ end }}{{ $s }}{{ end }}?
{{ end }}{{ end }}{{ end }}`))

var planTemplate = template.Must(template.New("plan").Parse(`# Version bump

**Current:** {{ .CurrentVersion }}
**New:** {{ .NewVersion }}
**Increment:** {{ .Increment }}
{{ if .TagName }}**Tag:** {{ .TagName }}
{{ end }}
| Commit | Subject | Increment | Source |
|--------|---------|-----------|--------|
{{ range .Changes }}| {{ .Hash }} | {{ .Subject }} | {{ .Increment }} | {{ .Source }} |
{{ end }}`))

var changelogTemplate = template.Must(template.New("changelog").Parse(`## {{ .Title }}
{{ range .Sections }}
### {{ .Title }}
{{ range .Entries }}
- [{{ .IssueID }}] {{ .Text }}{{ end }}
{{ end }}`))

func (r *markdownRenderer) Report(rep *report.Report) ([]byte, error) {
	return execute(reportTemplate, rep)
}

func (r *markdownRenderer) Plan(p *bump.Plan) ([]byte, error) {
	return execute(planTemplate, p)
}

func (r *markdownRenderer) Changelog(c *changelog.Changelog) ([]byte, error) {
	return execute(changelogTemplate, c)
}

func execute(t *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}
