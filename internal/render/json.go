package render

import (
	"encoding/json"

	"github.com/lincommit/linc/internal/bump"
	"github.com/lincommit/linc/internal/changelog"
	"github.com/lincommit/linc/internal/report"
)

type jsonRenderer struct{}

func (r *jsonRenderer) Report(rep *report.Report) ([]byte, error) {
	return json.MarshalIndent(rep, "", "  ")
}

func (r *jsonRenderer) Plan(p *bump.Plan) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

func (r *jsonRenderer) Changelog(c *changelog.Changelog) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
