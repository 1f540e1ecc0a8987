package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"stockcount/pkg/config"
	"stockcount/pkg/count"
	"stockcount/pkg/kv"
	"stockcount/pkg/kv/memory"
	"stockcount/pkg/logger"
	"stockcount/pkg/record"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCountCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "count.db")
	base := []string{"--backend", "sqlite", "--db", db}
	run := func(stdin string, args ...string) string {
		t.Helper()
		out, err := runCLI(t, stdin, append(args, base...)...)
		if err != nil {
			t.Fatalf("stockcount %v: %v\n%s", args, err, out)
		}
		return out
	}

	run("", "count", "add", "222", "4")
	run("", "count", "add", "111", "1")
	run("", "count", "add", "222", "7")
	out := run("", "count", "ls")
	if !strings.Contains(out, "111") || !strings.Contains(out, "7") || strings.Index(out, "111") > strings.Index(out, "222") {
		t.Fatalf("unexpected listing:\n%s", out)
	}

	dir := t.TempDir()
	out = run("", "count", "export", "--out", dir)
	name := strings.TrimSpace(out)
	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(name)))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if string(data) != "EAN;QTD;\n111;1;\n222;7;" {
		t.Fatalf("unexpected export %q", data)
	}

	run("n\n", "count", "clear")
	if out := run("", "count", "ls"); !strings.Contains(out, "222") {
		t.Fatalf("declined clear removed items:\n%s", out)
	}
	run("", "count", "clear", "--yes")
	if out := run("", "count", "ls"); !strings.Contains(out, "Nenhum item") {
		t.Fatalf("expected empty list:\n%s", out)
	}
}

func TestCountAddRejectsInvalid(t *testing.T) {
	db := filepath.Join(t.TempDir(), "count.db")
	if _, err := runCLI(t, "", "count", "add", "789", "-3", "--db", db); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestFailingCommandClosesStorage(t *testing.T) {
	db := filepath.Join(t.TempDir(), "count.db")
	a := &app{now: time.Now, newID: record.Sequence("c")}
	cmd := a.rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"count", "add", "789", "-3", "--db", db})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected validation error")
	}
	if a.close != nil {
		t.Fatal("storage left open after failing command")
	}
	if _, err := a.storage.Get(context.Background(), count.StorageKey); err == nil || errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected closed database, got %v", err)
	}
}

func TestContactCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "contacts.db")
	out, err := runCLI(t, "", "contact", "add", "--name", "Ana", "--email", "ANA@X.COM", "--db", db)
	if err != nil {
		t.Fatalf("contact add: %v\n%s", err, out)
	}
	id := strings.TrimSpace(out)
	if id == "" {
		t.Fatal("expected contact id")
	}
	if out, err := runCLI(t, "", "contact", "edit", id, "--phone", "11   5555", "--db", db); err != nil {
		t.Fatalf("edit: %v\n%s", err, out)
	}
	out, err = runCLI(t, "", "contact", "ls", "--db", db)
	if err != nil {
		t.Fatalf("ls: %v", err)
	}
	if !strings.Contains(out, "ana@x.com") || !strings.Contains(out, "11 5555") {
		t.Fatalf("unexpected listing:\n%s", out)
	}
	if _, err := runCLI(t, "", "contact", "edit", "missing", "--name", "X", "--db", db); err == nil {
		t.Fatal("expected error editing unknown contact")
	}
	if _, err := runCLI(t, "", "contact", "add", "--email", "x@y.z", "--db", db); err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestScanLoop(t *testing.T) {
	a := &app{
		cfg:     config.Config{Scan: config.Scan{Interval: time.Millisecond}},
		log:     logger.Discard(),
		storage: memory.New(),
		now:     time.Now,
		newID:   record.Sequence("c"),
	}
	in := strings.NewReader(" 7891000100103\n5\n\n789\nabc\n7891000100103\n2\n")
	var out bytes.Buffer
	if err := a.scanLoop(context.Background(), in, &out); err != nil {
		t.Fatalf("scan: %v", err)
	}
	items := count.Open(context.Background(), a.storage).Items()
	want := []count.Item{{EAN: "7891000100103", Qty: 2}}
	if len(items) != 1 || items[0] != want[0] {
		t.Fatalf("expected %v, got %v\n%s", want, items, out.String())
	}
	if !strings.Contains(out.String(), "QTD válida") {
		t.Fatalf("expected validation message in output:\n%s", out.String())
	}
}
