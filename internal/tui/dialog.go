package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tosifAN/sunrise-2024/internal/models"
)

// Add-task dialog fields, in tab order.
const (
	fieldTitle = iota
	fieldDescription
	fieldPersona
	fieldGroup
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Description", "Persona", "Group"}

// addForm is the add-task dialog.
type addForm struct {
	inputs []textinput.Model
	focus  int
	err    string
}

func newAddForm(styles Styles) addForm {
	placeholders := [fieldCount]string{"New Task", "What needs doing", "Who does it", "1"}

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Prompt = "❯ "
		ti.PromptStyle = styles.InputPrompt
		ti.CharLimit = 200
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[fieldGroup].CharLimit = 6

	f := addForm{inputs: inputs}
	f.inputs[fieldTitle].Focus()
	return f
}

// onLastField reports whether enter should submit rather than advance.
func (f addForm) onLastField() bool {
	return f.focus == fieldCount-1
}

func (f *addForm) setFocus(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (i + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

func (f *addForm) next() tea.Cmd { return f.setFocus(f.focus + 1) }
func (f *addForm) prev() tea.Cmd { return f.setFocus(f.focus - 1) }

// update forwards msg to the focused input.
func (f *addForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// request builds the create payload. The group must be a whole number; the
// other fields are sent as typed.
func (f addForm) request() (*models.CreateTaskRequest, error) {
	raw := strings.TrimSpace(f.inputs[fieldGroup].Value())
	group, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("group must be a whole number, got %q", raw)
	}
	return &models.CreateTaskRequest{
		Title:       f.inputs[fieldTitle].Value(),
		Description: f.inputs[fieldDescription].Value(),
		Persona:     f.inputs[fieldPersona].Value(),
		Group:       group,
	}, nil
}

func (f *addForm) setWidth(width int) {
	for i := range f.inputs {
		f.inputs[i].Width = width
	}
}

func (f addForm) view(styles Styles) string {
	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Add Task"))
	b.WriteString("\n")
	for i, in := range f.inputs {
		b.WriteString("\n")
		b.WriteString(styles.Label.Render(fieldLabels[i]))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.Error.Render(f.err))
		b.WriteString("\n")
	}
	return b.String()
}
