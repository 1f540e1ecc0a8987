package contact

import "context"

// Editor holds the single "currently editing" slot of a registration form.
// Selecting another contact while editing silently replaces the slot.
type Editor struct {
	svc  *Service
	id   string
	form Form
}

// NewEditor returns an editor with an empty form.
func NewEditor(svc *Service) *Editor {
	return &Editor{svc: svc}
}

// Begin copies the contact into the form and remembers its id. It reports
// false, leaving the editor untouched, when the id is unknown.
func (e *Editor) Begin(id string) (Form, bool) {
	c, ok := e.svc.Get(id)
	if !ok {
		return Form{}, false
	}
	e.id = id
	e.form = Form{Name: c.Name, Email: c.Email, Phone: c.Phone}
	return e.form, true
}

// Editing returns the id being edited.
func (e *Editor) Editing() (string, bool) {
	return e.id, e.id != ""
}

// Form returns the current form contents.
func (e *Editor) Form() Form { return e.form }

// Submit saves f, replacing the edited contact when editing, and resets the
// editor on success. On validation failure the slot and form are kept.
func (e *Editor) Submit(ctx context.Context, f Form) (Contact, error) {
	c, err := e.svc.Save(ctx, e.id, f)
	if err != nil && c.ID == "" {
		e.form = f
		return Contact{}, err
	}
	e.Cancel()
	return c, err
}

// Cancel clears the slot and the form without touching the registry.
func (e *Editor) Cancel() {
	e.id = ""
	e.form = Form{}
}
