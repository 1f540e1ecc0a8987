// Package count implements the EAN + quantity counting list.
package count

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"stockcount/pkg/kv"
	"stockcount/pkg/record"
)

const (
	// StorageKey is the document key the counting list persists under.
	StorageKey = "contagem_ean_qtd_v1"
	// FilePrefix prefixes exported file names.
	FilePrefix = "contagem"
)

// Item is one counted product. Quantity is the last value set for the EAN.
type Item struct {
	EAN string `json:"ean"`
	Qty int    `json:"qtd"`
}

// Schema keys, sorts and exports items by EAN.
var Schema = record.Schema[Item]{
	Key:     func(it Item) string { return it.EAN },
	Label:   func(it Item) string { return it.EAN },
	Columns: []string{"EAN", "QTD"},
	Fields:  func(it Item) []string { return []string{it.EAN, strconv.Itoa(it.Qty)} },
}

var (
	// ErrEmptyEAN is returned when the identifier is empty after normalization.
	ErrEmptyEAN = errors.New("informe o EAN (ou leia pela câmera)")
	// ErrInvalidQty is returned for non-numeric or negative quantities.
	ErrInvalidQty = errors.New("informe uma QTD válida (0 ou maior)")
)

// ValidationError reports which input rejected an action.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// Normalizer turns raw input or a decoded barcode payload into an EAN.
type Normalizer func(string) string

// NormalizeEAN trims the input and removes all whitespace.
func NormalizeEAN(v string) string {
	return strings.Join(strings.Fields(v), "")
}

// DigitsOnly keeps only the decimal digits of the input.
func DigitsOnly(v string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, v)
}

// maxQty is the largest integer a float64 represents exactly.
const maxQty = 1 << 53

// ParseQty parses a non-negative quantity. Fractions are floored and blank
// input counts as zero.
func ParseQty(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n < 0 || n > maxQty {
		return 0, ErrInvalidQty
	}
	return int(math.Floor(n)), nil
}

// Validate normalizes and checks raw input, returning the item to upsert.
func Validate(normalize Normalizer, rawEAN, rawQty string) (Item, error) {
	ean := normalize(rawEAN)
	if ean == "" {
		return Item{}, &ValidationError{Field: "ean", Err: ErrEmptyEAN}
	}
	qty, err := ParseQty(rawQty)
	if err != nil {
		return Item{}, &ValidationError{Field: "qtd", Err: err}
	}
	return Item{EAN: ean, Qty: qty}, nil
}

// Service validates input before it reaches the counting list store.
type Service struct {
	store     *record.Store[Item]
	normalize Normalizer
}

// Option configures a Service.
type Option func(*Service)

// WithNormalizer replaces NormalizeEAN.
func WithNormalizer(n Normalizer) Option {
	return func(s *Service) { s.normalize = n }
}

// Open loads the counting list from storage.
func Open(ctx context.Context, storage kv.Storage, opts ...Option) *Service {
	s := &Service{
		store:     record.Open(ctx, storage, StorageKey, Schema),
		normalize: NormalizeEAN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store exposes the underlying record store.
func (s *Service) Store() *record.Store[Item] { return s.store }

// Normalize applies the configured EAN normalization.
func (s *Service) Normalize(raw string) string { return s.normalize(raw) }

// Set validates the input and sets the quantity for the EAN, replacing any
// previous quantity.
func (s *Service) Set(ctx context.Context, rawEAN, rawQty string) (Item, error) {
	it, err := Validate(s.normalize, rawEAN, rawQty)
	if err != nil {
		return Item{}, err
	}
	return it, s.store.Upsert(ctx, it)
}

// Remove deletes the EAN from the list.
func (s *Service) Remove(ctx context.Context, rawEAN string) error {
	return s.store.Remove(ctx, s.normalize(rawEAN))
}

// Clear empties the list.
func (s *Service) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// Get returns the item for the EAN.
func (s *Service) Get(rawEAN string) (Item, bool) {
	return s.store.Get(s.normalize(rawEAN))
}

// Items returns the list in display order.
func (s *Service) Items() []Item {
	return s.store.Sorted()
}

// ExportRows returns the CSV rows, header included.
func (s *Service) ExportRows() []string {
	return s.store.ExportRows()
}
