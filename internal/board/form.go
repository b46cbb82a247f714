package board

import (
	"strings"

	"github.com/iliyamo/skate-pins/internal/model"
)

// Result is the outcome of a creation form: Submitted or Cancelled.
type Result interface {
	result()
}

// Submitted carries the values of a saved form.
type Submitted struct {
	Type        model.PinType
	Title       string
	Description string
}

// Cancelled means the user dismissed the form.
type Cancelled struct{}

func (Submitted) result() {}
func (Cancelled) result() {}

// Form is the state of a creation form.  While the title still holds the
// value last auto-filled from the type, changing the type refills it with
// the new type's label; once the user edits the title it is left alone.
type Form struct {
	typ          model.PinType
	title        string
	description  string
	lastAutoFill string
}

// NewForm returns a form with typ selected and the title auto-filled.
func NewForm(typ model.PinType) *Form {
	f := &Form{}
	f.SelectType(typ)
	return f
}

// SelectType changes the type and refills the title if it was not edited.
func (f *Form) SelectType(typ model.PinType) {
	f.typ = typ
	if f.title != f.lastAutoFill {
		return
	}
	f.title = typ.Label()
	f.lastAutoFill = f.title
}

// SetTitle records a manual title edit.
func (f *Form) SetTitle(title string) { f.title = title }

// SetDescription records the description field.
func (f *Form) SetDescription(desc string) { f.description = desc }

func (f *Form) Type() model.PinType { return f.typ }
func (f *Form) Title() string { return f.title }
func (f *Form) Description() string { return f.description }

// TitleEdited reports whether the title diverged from the auto-filled value.
func (f *Form) TitleEdited() bool { return f.title != f.lastAutoFill }

// Submit returns the form values with surrounding whitespace removed.
func (f *Form) Submit() Result {
	return Submitted{
		Type:        f.typ,
		Title:       strings.TrimSpace(f.title),
		Description: strings.TrimSpace(f.description),
	}
}

// Cancel returns the cancellation result.
func (f *Form) Cancel() Result { return Cancelled{} }
