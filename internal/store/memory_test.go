package store

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestMemoryStore_UpsertAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	params := UpsertParams{
		Name:        "signup",
		Description: "Account creation",
		Engine:      "^1.0",
		Fields: []Field{
			{Name: "email", Rules: "required#email"},
			{Name: "terms", Rules: "required", Role: "checkbox"},
		},
	}
	if err := store.UpsertForm(ctx, params); err != nil {
		t.Fatalf("UpsertForm failed: %v", err)
	}

	form, err := store.GetForm(ctx, "signup")
	if err != nil {
		t.Fatalf("GetForm failed: %v", err)
	}
	if form.Name != "signup" {
		t.Errorf("Expected name 'signup', got '%s'", form.Name)
	}
	if form.Engine != "^1.0" {
		t.Errorf("Expected engine '^1.0', got '%s'", form.Engine)
	}
	if len(form.Fields) != 2 {
		t.Fatalf("Expected 2 fields, got %d", len(form.Fields))
	}
	if form.UpdatedAt.IsZero() {
		t.Error("Expected UpdatedAt to be set")
	}
	if got := form.Params(); got.Name != params.Name || len(got.Fields) != 2 {
		t.Errorf("Params() = %+v", got)
	}
}

func TestMemoryStore_UpsertReplaces(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.UpsertForm(ctx, UpsertParams{Name: "f", Fields: []Field{{Name: "a", Rules: "required"}}})
	_ = store.UpsertForm(ctx, UpsertParams{Name: "f", Description: "v2"})

	form, err := store.GetForm(ctx, "f")
	if err != nil {
		t.Fatalf("GetForm failed: %v", err)
	}
	if form.Description != "v2" {
		t.Errorf("Expected description 'v2', got %q", form.Description)
	}
	if form.Fields == nil || len(form.Fields) != 0 {
		t.Errorf("Expected empty non-nil fields, got %#v", form.Fields)
	}
}

func TestMemoryStore_ListFormsSorted(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, name := range []string{"payment", "contact", "signup"} {
		if err := store.UpsertForm(ctx, UpsertParams{Name: name}); err != nil {
			t.Fatalf("UpsertForm failed: %v", err)
		}
	}

	forms, err := store.ListForms(ctx)
	if err != nil {
		t.Fatalf("ListForms failed: %v", err)
	}
	want := []string{"contact", "payment", "signup"}
	if len(forms) != len(want) {
		t.Fatalf("Expected %d forms, got %d", len(want), len(forms))
	}
	for i, name := range want {
		if forms[i].Name != name {
			t.Errorf("forms[%d] = %q, want %q", i, forms[i].Name, name)
		}
	}
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.GetForm(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.UpsertForm(ctx, UpsertParams{Name: "contact"})
	if err := store.DeleteForm(ctx, "contact"); err != nil {
		t.Fatalf("DeleteForm failed: %v", err)
	}
	if _, err := store.GetForm(ctx, "contact"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected form to be deleted, got %v", err)
	}

	// Idempotent
	if err := store.DeleteForm(ctx, "contact"); err != nil {
		t.Errorf("Second DeleteForm failed: %v", err)
	}
}

func TestMemoryStore_ReturnedFormIsACopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	_ = store.UpsertForm(ctx, UpsertParams{Name: "f", Fields: []Field{{Name: "a", Rules: "required"}}})

	form, _ := store.GetForm(ctx, "f")
	form.Fields[0].Rules = "email"

	again, _ := store.GetForm(ctx, "f")
	if again.Fields[0].Rules != "required" {
		t.Errorf("store was modified through a returned form: %q", again.Fields[0].Rules)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.UpsertForm(ctx, UpsertParams{Name: "shared", Fields: []Field{{Name: "x", Rules: "required"}}})
		}()
		go func() {
			defer wg.Done()
			_, _ = store.ListForms(ctx)
		}()
	}
	wg.Wait()

	if _, err := store.GetForm(ctx, "shared"); err != nil {
		t.Fatalf("GetForm failed: %v", err)
	}
}
