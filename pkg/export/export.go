// Package export turns exported rows into CSV documents and delivers them.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ContentType is the media type of exported documents.
const ContentType = "text/csv;charset=utf-8"

// FileName returns "<prefix>_<YYYY-MM-DD>.csv" for the UTC date of now.
func FileName(prefix string, now time.Time) string {
	return prefix + "_" + now.UTC().Format(time.DateOnly) + ".csv"
}

// Document joins rows with "\n". There is no trailing newline.
func Document(rows []string) []byte {
	return []byte(strings.Join(rows, "\n"))
}

// Sink stores a finished export under name.
type Sink interface {
	Put(ctx context.Context, name string, body []byte) error
}

// DirSink writes exports into a local directory.
type DirSink struct {
	Dir string
}

// Put writes body to Dir/name, creating Dir if needed.
func (s DirSink) Put(ctx context.Context, name string, body []byte) error {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export: create dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}

// Write builds the document for rows, stores it under the dated file name
// and returns that name.
func Write(ctx context.Context, sink Sink, prefix string, rows []string, now time.Time) (string, error) {
	name := FileName(prefix, now)
	if err := sink.Put(ctx, name, Document(rows)); err != nil {
		return "", err
	}
	return name, nil
}
