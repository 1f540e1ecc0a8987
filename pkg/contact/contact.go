// Package contact implements the customer registration list.
package contact

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"stockcount/pkg/kv"
	"stockcount/pkg/record"
)

const (
	// StorageKey is the document key the registry persists under.
	StorageKey = "cadastro_clientes_v1"
	// FilePrefix prefixes exported file names.
	FilePrefix = "clientes"
)

// Contact is a registered customer. ID is stable across edits.
type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
	Phone string `json:"telefone"`
}

// Schema keys contacts by ID and sorts/exports them by name.
var Schema = record.Schema[Contact]{
	Key:     func(c Contact) string { return c.ID },
	Label:   func(c Contact) string { return c.Name },
	Columns: []string{"Nome", "Email", "Telefone"},
	Fields:  func(c Contact) []string { return []string{c.Name, c.Email, c.Phone} },
}

var (
	// ErrNameRequired is returned when the name is blank.
	ErrNameRequired = errors.New("informe o nome")
	// ErrInvalidEmail is returned when a non-empty email is malformed.
	ErrInvalidEmail = errors.New("informe um email válido")
)

// ValidationError reports which input rejected an action.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Form holds raw user input for one contact.
type Form struct {
	Name  string `json:"nome"`
	Email string `json:"email"`
	Phone string `json:"telefone"`
}

// Normalize trims the name, lower-cases the email and collapses whitespace
// in the phone number.
func Normalize(f Form) Form {
	return Form{
		Name:  strings.TrimSpace(f.Name),
		Email: strings.ToLower(strings.TrimSpace(f.Email)),
		Phone: strings.Join(strings.Fields(f.Phone), " "),
	}
}

// Validate normalizes f and checks the required name and the email shape.
func Validate(f Form) (Form, error) {
	f = Normalize(f)
	if f.Name == "" {
		return Form{}, &ValidationError{Field: "nome", Err: ErrNameRequired}
	}
	if f.Email != "" && !emailPattern.MatchString(f.Email) {
		return Form{}, &ValidationError{Field: "email", Err: ErrInvalidEmail}
	}
	return f, nil
}

// Service validates input before it reaches the registry store.
type Service struct {
	store *record.Store[Contact]
	newID record.IDGenerator
}

// Open loads the registry from storage. A nil newID uses random UUIDs.
func Open(ctx context.Context, storage kv.Storage, newID record.IDGenerator) *Service {
	if newID == nil {
		newID = record.UUIDGenerator
	}
	return &Service{
		store: record.Open(ctx, storage, StorageKey, Schema),
		newID: newID,
	}
}

// Store exposes the underlying record store.
func (s *Service) Store() *record.Store[Contact] { return s.store }

// Save validates f and stores it. An empty id creates a contact with a
// fresh id; any other id replaces that contact or, if unknown, creates one
// keeping the given id.
func (s *Service) Save(ctx context.Context, id string, f Form) (Contact, error) {
	f, err := Validate(f)
	if err != nil {
		return Contact{}, err
	}
	if id == "" {
		id = s.newID()
	}
	c := Contact{ID: id, Name: f.Name, Email: f.Email, Phone: f.Phone}
	return c, s.store.Upsert(ctx, c)
}

// Remove deletes the contact with id.
func (s *Service) Remove(ctx context.Context, id string) error {
	return s.store.Remove(ctx, id)
}

// Clear removes every contact.
func (s *Service) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// Get returns the contact with id.
func (s *Service) Get(id string) (Contact, bool) {
	return s.store.Get(id)
}

// Contacts returns the registry in display order.
func (s *Service) Contacts() []Contact {
	return s.store.Sorted()
}

// ExportRows returns the CSV rows, header included.
func (s *Service) ExportRows() []string {
	return s.store.ExportRows()
}
