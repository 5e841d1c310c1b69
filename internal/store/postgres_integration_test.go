//go:build integration

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/simmr/simmr/internal/model"
	"github.com/simmr/simmr/internal/testutil"
)

func newTestPostgres(t *testing.T, ctx context.Context) *Postgres {
	t.Helper()

	databaseURL := testutil.RequireEnv(t, "TEST_DATABASE_URL")

	backend, err := NewPostgres(ctx, databaseURL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(backend.Close)

	unlock, err := testutil.AcquireDBLock(ctx, backend.Pool())
	if err != nil {
		t.Fatalf("advisory lock: %v", err)
	}
	t.Cleanup(func() { _ = unlock() })

	if err := testutil.ResetSchema(ctx, backend.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}
	return backend
}

func TestPostgres_RoundTripAndReplacement(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	backend := newTestPostgres(t, ctx)

	err := backend.Update(ctx, func(tx Tx) error {
		replaced, err := Users.Put(tx, 0, &model.User{ID: 0, Name: "alice", Email: "a@x"})
		if err != nil {
			return err
		}
		if replaced {
			t.Error("first Put reported replacement")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	err = backend.Update(ctx, func(tx Tx) error {
		replaced, err := Users.Put(tx, 0, &model.User{ID: 0, Name: "alice2", Email: "a@x"})
		if err != nil {
			return err
		}
		if !replaced {
			t.Error("overwrite did not report replacement")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	err = backend.View(ctx, func(tx Tx) error {
		user, ok, err := Users.Get(tx, 0)
		if err != nil {
			return err
		}
		if !ok || user.Name != "alice2" {
			t.Errorf("got %+v ok=%v, want alice2", user, ok)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestPostgres_RollbackDiscardsWritesAndIdentity(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	backend := newTestPostgres(t, ctx)

	boom := errors.New("boom")
	err := backend.Update(ctx, func(tx Tx) error {
		if _, err := tx.NextID(); err != nil {
			return err
		}
		if _, err := Recipes.Put(tx, 1, &model.Recipe{ID: 1, Title: "ghost"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	var id uint64
	err = backend.Update(ctx, func(tx Tx) error {
		var err error
		id, err = tx.NextID()
		return err
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if id != 0 {
		t.Errorf("NextID after rollback = %d, want 0", id)
	}

	_ = backend.View(ctx, func(tx Tx) error {
		if _, ok, _ := Recipes.Get(tx, 1); ok {
			t.Error("rolled-back record is visible")
		}
		return nil
	})
}

func TestPostgres_AscendOrdered(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	backend := newTestPostgres(t, ctx)

	err := backend.Update(ctx, func(tx Tx) error {
		for _, id := range []uint64{4, 2, 7} {
			if _, err := Recipes.Put(tx, id, &model.Recipe{ID: id, Title: "r"}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	var order []uint64
	err = backend.View(ctx, func(tx Tx) error {
		return tx.Ascend(KindRecipes, func(id uint64, _ []byte) error {
			order = append(order, id)
			return nil
		})
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}

	want := []uint64{2, 4, 7}
	for i := range want {
		if i >= len(order) || order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}
