package contact

import (
	"context"
	"errors"
	"testing"

	"stockcount/pkg/kv/memory"
	"stockcount/pkg/record"
)

func TestEditorSubmitReplaces(t *testing.T) {
	ctx := context.Background()
	svc := Open(ctx, memory.New(), record.Sequence("c"))
	c, _ := svc.Save(ctx, "", Form{Name: "Ana"})

	ed := NewEditor(svc)
	form, ok := ed.Begin(c.ID)
	if !ok || form.Name != "Ana" {
		t.Fatalf("begin: %v %+v", ok, form)
	}
	form.Email = "ANA@X.COM"
	saved, err := ed.Submit(ctx, form)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if saved.ID != c.ID || saved.Email != "ana@x.com" {
		t.Fatalf("unexpected saved contact %+v", saved)
	}
	if _, editing := ed.Editing(); editing {
		t.Fatal("editor should reset after submit")
	}
	if n := len(svc.Contacts()); n != 1 {
		t.Fatalf("expected 1 contact, got %d", n)
	}
}

func TestEditorCancel(t *testing.T) {
	ctx := context.Background()
	svc := Open(ctx, memory.New(), record.Sequence("c"))
	c, _ := svc.Save(ctx, "", Form{Name: "Ana"})
	ed := NewEditor(svc)
	ed.Begin(c.ID)
	ed.Cancel()
	if _, editing := ed.Editing(); editing {
		t.Fatal("expected no edit slot after cancel")
	}
	if ed.Form() != (Form{}) {
		t.Fatalf("expected empty form, got %+v", ed.Form())
	}
	got, _ := svc.Get(c.ID)
	if got.Name != "Ana" {
		t.Fatalf("cancel mutated registry: %+v", got)
	}

	created, err := ed.Submit(ctx, Form{Name: "Bia"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if created.ID != "c2" {
		t.Fatalf("expected new contact c2, got %s", created.ID)
	}
}

func TestEditorLastSelectedWins(t *testing.T) {
	ctx := context.Background()
	svc := Open(ctx, memory.New(), record.Sequence("c"))
	a, _ := svc.Save(ctx, "", Form{Name: "Ana"})
	b, _ := svc.Save(ctx, "", Form{Name: "Bia"})
	ed := NewEditor(svc)
	ed.Begin(a.ID)
	ed.Begin(b.ID)
	if id, _ := ed.Editing(); id != b.ID {
		t.Fatalf("expected editing %s, got %s", b.ID, id)
	}
	if _, ok := ed.Begin("unknown"); ok {
		t.Fatal("expected unknown id to be rejected")
	}
	if id, _ := ed.Editing(); id != b.ID {
		t.Fatalf("unknown id replaced the slot")
	}
}

func TestEditorSubmitInvalidKeepsSlot(t *testing.T) {
	ctx := context.Background()
	svc := Open(ctx, memory.New(), record.Sequence("c"))
	a, _ := svc.Save(ctx, "", Form{Name: "Ana"})
	ed := NewEditor(svc)
	ed.Begin(a.ID)
	if _, err := ed.Submit(ctx, Form{Name: ""}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if id, ok := ed.Editing(); !ok || id != a.ID {
		t.Fatalf("slot lost after invalid submit")
	}
	got, _ := svc.Get(a.ID)
	if got.Name != "Ana" {
		t.Fatalf("invalid submit mutated registry")
	}
}
