package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/clockwise/attendance-tracker/internal/core/ports"
)

type record struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestStore_GetAbsent(t *testing.T) {
	s := NewStore()
	var got []record
	found, err := s.Get(context.Background(), "users", &got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatalf("expected key to be absent")
	}
	if got != nil {
		t.Fatalf("dst must be untouched, got %+v", got)
	}
}

func TestStore_SetReplacesWholesale(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if err := s.Set(ctx, "users", []record{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "users", []record{{ID: 3, Name: "c"}}); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got []record
	if _, err := s.Get(ctx, "users", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("expected wholesale replacement, got %+v", got)
	}
}

func TestStore_ValuesAreNotAliased(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	in := []record{{ID: 1, Name: "a"}}
	_ = s.Set(ctx, "users", in)
	in[0].Name = "mutated"

	var got []record
	_, _ = s.Get(ctx, "users", &got)
	if got[0].Name != "a" {
		t.Fatalf("stored value changed through caller slice: %+v", got)
	}
}

func TestStore_Delete(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_ = s.Set(ctx, "users", []record{})
	if err := s.Delete(ctx, "users"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var got []record
	if found, _ := s.Get(ctx, "users", &got); found {
		t.Fatalf("expected key removed")
	}
}

func TestStore_UpdateCommitsAllWrites(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.Update(ctx, []string{"users", "sequences"}, func(tx ports.KVTx) error {
		if err := tx.Set("users", []record{{ID: 1}}); err != nil {
			return err
		}
		// Reads see the transaction's own pending writes.
		var pending []record
		found, err := tx.Get("users", &pending)
		if err != nil || !found || len(pending) != 1 {
			t.Fatalf("pending write not visible: found=%v err=%v %+v", found, err, pending)
		}
		return tx.Set("sequences", map[string]int{"users": 1})
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	var seq map[string]int
	if found, _ := s.Get(ctx, "sequences", &seq); !found || seq["users"] != 1 {
		t.Fatalf("expected sequences committed, got %v", seq)
	}
}

func TestStore_UpdateRollsBackOnError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_ = s.Set(ctx, "users", []record{{ID: 1}})

	boom := errors.New("boom")
	err := s.Update(ctx, []string{"users", "employees"}, func(tx ports.KVTx) error {
		_ = tx.Set("users", []record{{ID: 1}, {ID: 2}})
		_ = tx.Set("employees", []record{{ID: 1}})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var users []record
	_, _ = s.Get(ctx, "users", &users)
	if len(users) != 1 {
		t.Fatalf("users changed after failed transaction: %+v", users)
	}
	var employees []record
	if found, _ := s.Get(ctx, "employees", &employees); found {
		t.Fatalf("employees written by failed transaction")
	}
}

func TestStore_UpdateRejectsUndeclaredKeys(t *testing.T) {
	s := NewStore()
	err := s.Update(context.Background(), []string{"users"}, func(tx ports.KVTx) error {
		return tx.Set("attendance", []record{})
	})
	if err == nil {
		t.Fatalf("expected error for undeclared key")
	}
}

func TestStore_UpdateHonoursCancelledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Update(ctx, []string{"users"}, func(tx ports.KVTx) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if called {
		t.Fatalf("fn must not run on a cancelled context")
	}
}
