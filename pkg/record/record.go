// Package record implements the record store: an ordered collection of
// uniquely keyed records kept in sync with a kv.Storage document.
package record

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"stockcount/pkg/kv"
)

// Delimiter separates and terminates every exported field.
const Delimiter = ";"

// SortLanguage is the collation used for display and export order.
var SortLanguage = language.BrazilianPortuguese

// Schema describes how a record shape is keyed, sorted and exported.
type Schema[T any] struct {
	// Key returns the unique business key of a record.
	Key func(T) string
	// Label returns the human-facing sort key used for display and export.
	Label func(T) string
	// Columns are the export header names.
	Columns []string
	// Fields returns the export values of a record, in Columns order.
	Fields func(T) []string
}

// Op identifies the operation that produced a Change.
type Op int

const (
	OpLoad Op = iota
	OpUpsert
	OpRemove
	OpClear
)

func (o Op) String() string {
	switch o {
	case OpLoad:
		return "load"
	case OpUpsert:
		return "upsert"
	case OpRemove:
		return "remove"
	case OpClear:
		return "clear"
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Change is delivered to observers after every operation that touches the
// collection. Records is a snapshot in storage order.
type Change[T any] struct {
	Op      Op
	Key     string
	Records []T
	// Err is the persistence error of the operation, if any.
	Err error
}

// Store owns the in-memory collection for one storage key.
type Store[T any] struct {
	mu        sync.RWMutex
	storage   kv.Storage
	key       string
	schema    Schema[T]
	items     []T
	observers map[int]func(Change[T])
	nextObs   int
}

// New returns an empty store. Call Load to read the persisted collection.
func New[T any](storage kv.Storage, key string, schema Schema[T]) *Store[T] {
	return &Store[T]{
		storage:   storage,
		key:       key,
		schema:    schema,
		items:     []T{},
		observers: make(map[int]func(Change[T])),
	}
}

// Open returns a store loaded from storage.
func Open[T any](ctx context.Context, storage kv.Storage, key string, schema Schema[T]) *Store[T] {
	s := New(storage, key, schema)
	s.Load(ctx)
	return s
}

// StorageKey returns the document key the store persists under.
func (s *Store[T]) StorageKey() string { return s.key }

// Load replaces the collection with the persisted document. A missing,
// unreadable or malformed document yields an empty collection, as does one
// holding an empty or repeated key.
func (s *Store[T]) Load(ctx context.Context) []T {
	items := s.read(ctx)
	s.mu.Lock()
	s.items = items
	snap := slices.Clone(items)
	obs := s.observerList()
	s.mu.Unlock()
	notify(obs, Change[T]{Op: OpLoad, Records: snap})
	return slices.Clone(snap)
}

func (s *Store[T]) read(ctx context.Context) []T {
	raw, err := s.storage.Get(ctx, s.key)
	if err != nil || raw == "" {
		return []T{}
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil || items == nil {
		return []T{}
	}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		k := s.schema.Key(it)
		if _, dup := seen[k]; dup || k == "" {
			return []T{}
		}
		seen[k] = struct{}{}
	}
	return items
}

// Upsert replaces the record with the same key in place, or appends it.
func (s *Store[T]) Upsert(ctx context.Context, rec T) error {
	key := s.schema.Key(rec)
	s.mu.Lock()
	if i := s.indexLocked(key); i >= 0 {
		s.items[i] = rec
	} else {
		s.items = append(s.items, rec)
	}
	return s.commitLocked(ctx, OpUpsert, key)
}

// Remove deletes the record with key. Removing an absent key is not an error.
func (s *Store[T]) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	s.items = slices.DeleteFunc(s.items, func(r T) bool { return s.schema.Key(r) == key })
	return s.commitLocked(ctx, OpRemove, key)
}

// Clear empties the collection. Callers obtain confirmation beforehand.
func (s *Store[T]) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.items = []T{}
	return s.commitLocked(ctx, OpClear, "")
}

// commitLocked persists the collection, releases the lock and notifies
// observers. The in-memory state is kept even when the write fails.
func (s *Store[T]) commitLocked(ctx context.Context, op Op, key string) error {
	snap := slices.Clone(s.items)
	obs := s.observerList()
	err := s.persist(ctx, snap)
	s.mu.Unlock()
	notify(obs, Change[T]{Op: op, Key: key, Records: snap, Err: err})
	return err
}

func (s *Store[T]) persist(ctx context.Context, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("record: encode %s: %w", s.key, err)
	}
	if err := s.storage.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("record: persist %s: %w", s.key, err)
	}
	return nil
}

func (s *Store[T]) indexLocked(key string) int {
	return slices.IndexFunc(s.items, func(r T) bool { return s.schema.Key(r) == key })
}

// Get returns the record with key.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(key); i >= 0 {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

// Len returns the number of records.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// List returns the records in storage order.
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Sorted returns the records in display order: ascending by label under
// SortLanguage collation, so case and accents do not split the list.
func (s *Store[T]) Sorted() []T {
	out := s.List()
	c := collate.New(SortLanguage)
	slices.SortStableFunc(out, func(a, b T) int {
		return c.CompareString(s.schema.Label(a), s.schema.Label(b))
	})
	return out
}

// ExportRows returns the header row followed by one row per record in
// display order. Every field, the last one included, ends with Delimiter.
func (s *Store[T]) ExportRows() []string {
	sorted := s.Sorted()
	rows := make([]string, 0, len(sorted)+1)
	rows = append(rows, Row(s.schema.Columns))
	for _, r := range sorted {
		rows = append(rows, Row(s.schema.Fields(r)))
	}
	return rows
}

// Row joins fields with a trailing delimiter on every field.
func Row(fields []string) string {
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(f)
		b.WriteString(Delimiter)
	}
	return b.String()
}

// Subscribe registers fn for change notifications and returns a function
// that unregisters it. fn runs synchronously after the operation completes.
func (s *Store[T]) Subscribe(fn func(Change[T])) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

func (s *Store[T]) observerList() []func(Change[T]) {
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]func(Change[T]), 0, len(ids))
	for _, id := range ids {
		out = append(out, s.observers[id])
	}
	return out
}

func notify[T any](obs []func(Change[T]), c Change[T]) {
	for _, fn := range obs {
		fn(c)
	}
}
