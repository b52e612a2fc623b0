package wizards

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// field is a labeled text input.
type field struct {
	label string
	input textinput.Model
}

func newField(label, placeholder, value string) field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 40
	ti.SetValue(value)
	return field{label: label, input: ti}
}

func newPasswordField(label string) field {
	f := newField(label, "", "")
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

// fieldSet is a vertical list of fields with one focused field.
type fieldSet struct {
	fields []field
	focus  int
}

func newFieldSet(fields ...field) fieldSet {
	return fieldSet{fields: fields}
}

// start focuses the first field.
func (s *fieldSet) start() tea.Cmd {
	s.focus = 0
	for i := range s.fields {
		s.fields[i].input.Blur()
	}
	return s.fields[0].input.Focus()
}

// next moves the focus down. It reports false on the last field.
func (s *fieldSet) next() (tea.Cmd, bool) {
	if s.focus >= len(s.fields)-1 {
		return nil, false
	}
	s.fields[s.focus].input.Blur()
	s.focus++
	return s.fields[s.focus].input.Focus(), true
}

func (s *fieldSet) prev() tea.Cmd {
	if s.focus == 0 {
		return nil
	}
	s.fields[s.focus].input.Blur()
	s.focus--
	return s.fields[s.focus].input.Focus()
}

// update forwards msg to the focused field.
func (s *fieldSet) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.fields[s.focus].input, cmd = s.fields[s.focus].input.Update(msg)
	return cmd
}

func (s fieldSet) value(i int) string {
	return strings.TrimSpace(s.fields[i].input.Value())
}

func (s fieldSet) view(st wizardStyles) string {
	var b strings.Builder
	for i, f := range s.fields {
		label := st.Unselected
		if i == s.focus {
			label = st.Selected
		}
		b.WriteString(label.Render(f.label))
		b.WriteString("\n")
		b.WriteString(f.input.View())
		b.WriteString("\n\n")
	}
	return b.String()
}
