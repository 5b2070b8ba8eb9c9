// Package prompt implements the interactive commit wizard: issue ID,
// verb selection, description, and optional body, producing a draft for
// message.Build.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lincommit/linc/internal/convention"
	"github.com/lincommit/linc/internal/message"
)

// ErrAborted is returned when the user cancels the wizard.
var ErrAborted = errors.New("commit aborted")

// step is the wizard's current question.
type step int

const (
	stepIssueID step = iota
	stepVerb
	stepDescription
	stepBody
	stepDone
)

// Prompt texts shown for each step.
const (
	issuePrompt       = "Linear issue ID (e.g., ENG-123):"
	verbPrompt        = "Select the type of change:"
	descriptionPrompt = "Brief description of the change:"
	bodyPrompt        = "Detailed description (optional). Press Enter to skip:"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#6BCB77")).
			MarginBottom(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD479"))
)

// verbItem adapts a convention.Choice for the list widget.
type verbItem struct {
	choice  convention.Choice
	section string
}

func (i verbItem) Title() string       { return i.choice.Verb }
func (i verbItem) Description() string { return i.choice.Description + " · " + i.section }
func (i verbItem) FilterValue() string { return i.choice.Verb }

// verbItems flattens the catalog groups into list items, keeping the
// MAJOR, MINOR, PATCH, NONE section order.
func verbItems(catalog *convention.Catalog) []list.Item {
	var items []list.Item
	for _, group := range catalog.Groups() {
		label := strings.Trim(group.Section, "─ ")
		for _, choice := range group.Choices {
			items = append(items, verbItem{choice: choice, section: label})
		}
	}
	return items
}

// Wizard is the bubbletea model walking through the commit questions.
type Wizard struct {
	grammar *message.Grammar

	step    step
	issue   textinput.Model
	verbs   list.Model
	desc    textinput.Model
	body    textarea.Model
	errMsg  string
	draft   message.Draft
	aborted bool
	width   int
	height  int
}

// New returns a wizard bound to the grammar.
func New(g *message.Grammar) *Wizard {
	issue := textinput.New()
	issue.Placeholder = "ENG-123"
	issue.Prompt = "│ "
	issue.CharLimit = 64
	issue.Width = 40
	issue.Focus()

	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)
	delegate.SetSpacing(0)
	verbs := list.New(verbItems(g.Catalog()), delegate, 0, 0)
	verbs.Title = verbPrompt
	verbs.SetShowStatusBar(false)
	verbs.SetFilteringEnabled(true)

	desc := textinput.New()
	desc.Placeholder = "what changed, in past tense"
	desc.Prompt = "│ "
	desc.CharLimit = 200
	desc.Width = 60

	body := textarea.New()
	body.Placeholder = "longer explanation, wrapped as you like"
	body.CharLimit = 2000
	body.SetWidth(70)
	body.SetHeight(6)

	return &Wizard{
		grammar: g,
		issue:   issue,
		verbs:   verbs,
		desc:    desc,
		body:    body,
	}
}

// Init implements tea.Model.
func (w *Wizard) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		listHeight := msg.Height - 6
		if listHeight < 5 {
			listHeight = 5
		}
		w.verbs.SetSize(msg.Width-4, listHeight)
		w.body.SetWidth(min(msg.Width-4, 100))
		return w, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			w.aborted = true
			return w, tea.Quit
		}
		return w.updateStep(msg)
	}

	return w.updateActiveWidget(msg)
}

// updateStep handles a key for the current step and advances on accept.
func (w *Wizard) updateStep(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch w.step {
	case stepIssueID:
		if msg.String() == "enter" {
			id := strings.ToUpper(strings.TrimSpace(w.issue.Value()))
			if !w.grammar.MatchIssueID(id) {
				w.errMsg = fmt.Sprintf("Invalid issue ID format: '%s'", w.issue.Value())
				return w, nil
			}
			w.draft.IssueID = id
			w.errMsg = ""
			w.step = stepVerb
			return w, nil
		}

	case stepVerb:
		// While the filter is being typed, keys belong to the list.
		if msg.String() == "enter" && w.verbs.FilterState() != list.Filtering {
			if item, ok := w.verbs.SelectedItem().(verbItem); ok {
				w.draft.Verb = item.choice.Verb
				w.errMsg = ""
				w.step = stepDescription
				w.desc.Focus()
				return w, textinput.Blink
			}
			return w, nil
		}

	case stepDescription:
		if msg.String() == "enter" {
			desc := strings.TrimSpace(w.desc.Value())
			if len(desc) < message.MinDescriptionLength {
				w.errMsg = fmt.Sprintf("Description too short (minimum %d characters)", message.MinDescriptionLength)
				return w, nil
			}
			w.draft.Description = desc
			w.errMsg = ""
			w.step = stepBody
			w.body.Focus()
			return w, textarea.Blink
		}

	case stepBody:
		switch msg.String() {
		case "esc":
			w.draft.Body = ""
			w.step = stepDone
			return w, tea.Quit
		case "ctrl+d":
			w.draft.Body = strings.TrimSpace(w.body.Value())
			w.step = stepDone
			return w, tea.Quit
		case "enter":
			// Enter on an empty body skips the step, matching the
			// prompt text; otherwise it inserts a newline.
			if strings.TrimSpace(w.body.Value()) == "" {
				w.draft.Body = ""
				w.step = stepDone
				return w, tea.Quit
			}
		}
	}

	return w.updateActiveWidget(msg)
}

// updateActiveWidget routes msg to the widget owning the current step.
func (w *Wizard) updateActiveWidget(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch w.step {
	case stepIssueID:
		w.issue, cmd = w.issue.Update(msg)
	case stepVerb:
		w.verbs, cmd = w.verbs.Update(msg)
	case stepDescription:
		w.desc, cmd = w.desc.Update(msg)
	case stepBody:
		w.body, cmd = w.body.Update(msg)
	}
	return w, cmd
}

// View implements tea.Model.
func (w *Wizard) View() string {
	if w.step == stepDone {
		return ""
	}

	var b strings.Builder

	if w.draft.IssueID != "" {
		b.WriteString(summaryStyle.Render(w.composedSoFar()))
		b.WriteString("\n\n")
	}

	switch w.step {
	case stepIssueID:
		b.WriteString(titleStyle.Render(issuePrompt))
		b.WriteString("\n")
		b.WriteString(w.issue.View())
		b.WriteString(helpStyle.Render("\nenter to confirm, ctrl+c to abort"))
	case stepVerb:
		b.WriteString(w.verbs.View())
		b.WriteString(helpStyle.Render("\nenter to select, / to filter, ctrl+c to abort"))
	case stepDescription:
		b.WriteString(titleStyle.Render(descriptionPrompt))
		b.WriteString("\n")
		b.WriteString(w.desc.View())
		b.WriteString(helpStyle.Render("\nenter to confirm, ctrl+c to abort"))
	case stepBody:
		b.WriteString(titleStyle.Render(bodyPrompt))
		b.WriteString("\n")
		b.WriteString(w.body.View())
		b.WriteString(helpStyle.Render("\nctrl+d to finish, esc to skip, ctrl+c to abort"))
	}

	if w.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("⚠ " + w.errMsg))
	}

	return b.String()
}

// composedSoFar shows the accepted parts above the active question.
func (w *Wizard) composedSoFar() string {
	parts := []string{w.draft.IssueID}
	if w.draft.Verb != "" {
		parts = append(parts, w.draft.Verb)
	}
	if w.draft.Description != "" {
		parts = append(parts, w.draft.Description)
	}
	return strings.Join(parts, " ")
}

// Draft returns the collected answers and whether the wizard finished.
func (w *Wizard) Draft() (message.Draft, bool) {
	return w.draft, w.step == stepDone && !w.aborted
}

// Run walks the user through the wizard and returns the completed draft.
// Cancellation returns ErrAborted.
func Run(g *message.Grammar) (message.Draft, error) {
	model, err := tea.NewProgram(New(g)).Run()
	if err != nil {
		return message.Draft{}, fmt.Errorf("running commit wizard: %w", err)
	}

	w, ok := model.(*Wizard)
	if !ok {
		return message.Draft{}, fmt.Errorf("unexpected wizard model type %T", model)
	}
	draft, done := w.Draft()
	if !done {
		return message.Draft{}, ErrAborted
	}
	return draft, nil
}
