// Package render formats check reports, bump plans, and changelogs for
// output in the supported formats.
package render

import (
	"fmt"

	"github.com/lincommit/linc/internal/bump"
	"github.com/lincommit/linc/internal/changelog"
	"github.com/lincommit/linc/internal/report"
)

// Renderer formats the tool's artifacts into bytes for output.
type Renderer interface {
	Report(r *report.Report) ([]byte, error)
	Plan(p *bump.Plan) ([]byte, error)
	Changelog(c *changelog.Changelog) ([]byte, error)
}

// NewRenderer returns a Renderer for the given format string.
// Supported formats: "text" (default), "json", "md".
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case "text":
		return &textRenderer{}, nil
	case "json":
		return &jsonRenderer{}, nil
	case "md":
		return &markdownRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q: supported formats are text, json, md", format)
	}
}
