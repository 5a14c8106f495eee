package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/waabox/catalogdeck/internal/i18n"
)

// Field is one labelled text input.
type Field struct {
	Label  i18n.Key
	Value  string
	Secret bool
}

// FormModel is an immutable set of text fields with one focused field.
type FormModel struct {
	fields []Field
	focus  int
}

// NewFormModel creates a form focused on its first field.
func NewFormModel(fields ...Field) FormModel {
	return FormModel{fields: fields}
}

// Focus returns the focused field index.
func (f FormModel) Focus() int {
	return f.focus
}

// Value returns the text of field i.
func (f FormModel) Value(i int) string {
	if i < 0 || i >= len(f.fields) {
		return ""
	}
	return f.fields[i].Value
}

// WithValue returns a copy with field i set to v.
func (f FormModel) WithValue(i int, v string) FormModel {
	if i < 0 || i >= len(f.fields) {
		return f
	}
	fields := append([]Field(nil), f.fields...)
	fields[i].Value = v
	f.fields = fields
	return f
}

// Update applies an editing key. Keys it does not use are ignored.
func (f FormModel) Update(msg tea.KeyMsg) FormModel {
	if len(f.fields) == 0 {
		return f
	}
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		f.focus = (f.focus + 1) % len(f.fields)
	case tea.KeyShiftTab, tea.KeyUp:
		f.focus = (f.focus + len(f.fields) - 1) % len(f.fields)
	case tea.KeyBackspace:
		v := []rune(f.fields[f.focus].Value)
		if len(v) > 0 {
			f = f.WithValue(f.focus, string(v[:len(v)-1]))
		}
	case tea.KeySpace:
		f = f.WithValue(f.focus, f.fields[f.focus].Value+" ")
	case tea.KeyRunes:
		f = f.WithValue(f.focus, f.fields[f.focus].Value+string(msg.Runes))
	}
	return f
}

// View renders the fields, masking secret ones.
func (f FormModel) View(t func(i18n.Key) string) string {
	var sb strings.Builder
	for i, fld := range f.fields {
		prefix := "  "
		if i == f.focus {
			prefix = "> "
		}
		v := fld.Value
		if fld.Secret {
			v = strings.Repeat("•", len([]rune(v)))
		}
		sb.WriteString(fmt.Sprintf("%s%-18s %s\n", prefix, t(fld.Label)+":", v))
	}
	return sb.String()
}
