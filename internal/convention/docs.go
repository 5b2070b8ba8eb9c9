package convention

// Static help surfaces shown by the CLI.

// ExampleText shows example commit messages in the convention.
const ExampleText = "ENG-1234 Fixed authentication bug in login flow\n" +
	"OPS-567 Added monitoring dashboard for API endpoints\n" +
	"BUG-890 Changed database schema to support multi-tenancy\n" +
	"\n" +
	"With manual bump:\n" +
	"ENG-999 Updated config handling\n" +
	"\n" +
	"This change requires a major version bump due to config format changes.\n" +
	"[bump:major]"

// SchemaText shows the expected commit format.
const SchemaText = "<ISSUE-ID> <Verb> <description>\n" +
	"\n" +
	"[optional body]\n" +
	"\n" +
	"[bump:major|minor|patch|none] (optional)"

// InfoText describes the convention rules.
const InfoText = "Linear-style commit format:\n" +
	"\n" +
	"Format: <ISSUE-ID> <Past-tense-verb> <description>\n" +
	"Example: ENG-1234 Fixed authentication bug\n" +
	"\n" +
	"Issue ID format: 2+ uppercase letters, dash, number (e.g., ENG-123)\n" +
	"\n" +
	"Version bumping:\n" +
	"- Major (breaking): Changed\n" +
	"- Minor (features): Added, Created, Enhanced, Implemented\n" +
	"- Patch (fixes): Fixed, Updated, Improved, etc.\n" +
	"\n" +
	"Manual bump override: Add [bump:major], [bump:minor], [bump:patch],\n" +
	"or [bump:none] to the commit body to override automatic detection."
