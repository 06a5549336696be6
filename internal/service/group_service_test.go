package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mmynk/divvy/internal/models"
	"github.com/mmynk/divvy/internal/storage"
	"github.com/mmynk/divvy/internal/storage/sqlite"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "divvy-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func createUser(t *testing.T, store storage.Store, email, username string) *models.User {
	t.Helper()
	user := models.NewUser(email, username, "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", email, err)
	}
	return user
}

func TestCreateGroupEnrollsAdmin(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	admin := createUser(t, store, "u1@example.com", "u1")

	group, err := svc.Create(ctx, "Trip", admin.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if group.MemberCount != 1 {
		t.Errorf("member count: expected 1, got %d", group.MemberCount)
	}

	members, err := svc.Members(ctx, group.ID)
	if err != nil {
		t.Fatalf("Members failed: %v", err)
	}
	if len(members) != 1 || members[0].ID != admin.ID {
		t.Errorf("expected admin enrolled exactly once, got %+v", members)
	}
}

func TestCreateGroupValidation(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "  ", 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty name: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(ctx, "Trip", 0); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("missing actor: expected ErrUnauthorized, got %v", err)
	}
}

func TestInvite(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	admin := createUser(t, store, "admin@example.com", "admin")
	guest := createUser(t, store, "guest@example.com", "guest")
	outsider := createUser(t, store, "outsider@example.com", "outsider")

	group, err := svc.Create(ctx, "Trip", admin.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("admin can invite", func(t *testing.T) {
		if err := svc.Invite(ctx, group.ID, guest.ID, admin.ID); err != nil {
			t.Fatalf("Invite failed: %v", err)
		}
	})

	t.Run("duplicate invite conflicts", func(t *testing.T) {
		err := svc.Invite(ctx, group.ID, guest.ID, admin.ID)
		if !errors.Is(err, ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("non-admin cannot invite", func(t *testing.T) {
		err := svc.Invite(ctx, group.ID, outsider.ID, guest.ID)
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("unknown user 404s", func(t *testing.T) {
		err := svc.Invite(ctx, group.ID, 999999, admin.ID)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("unknown group 404s", func(t *testing.T) {
		err := svc.Invite(ctx, 999999, guest.ID, admin.ID)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestConcurrentInvites(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	admin := createUser(t, store, "admin@example.com", "admin")
	guest := createUser(t, store, "guest@example.com", "guest")

	group, err := svc.Create(ctx, "Trip", admin.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// N concurrent invites of the same user must leave exactly one
	// active membership; losers see ErrConflict or a store error, never
	// a second membership.
	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.Invite(ctx, group.ID, guest.ID, admin.ID)
		}()
	}
	wg.Wait()

	members, err := svc.Members(ctx, group.ID)
	if err != nil {
		t.Fatalf("Members failed: %v", err)
	}
	count := 0
	for _, m := range members {
		if m.ID == guest.ID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one active membership for guest, got %d", count)
	}
}

func TestRemoveMembers(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	admin := createUser(t, store, "admin@example.com", "admin")
	guest := createUser(t, store, "guest@example.com", "guest")

	group, err := svc.Create(ctx, "Trip", admin.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := svc.Invite(ctx, group.ID, guest.ID, admin.ID); err != nil {
		t.Fatalf("Invite failed: %v", err)
	}

	t.Run("empty member list is invalid", func(t *testing.T) {
		err := svc.RemoveMembers(ctx, group.ID, nil, admin.ID)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		err := svc.RemoveMembers(ctx, group.ID, []int64{admin.ID}, guest.ID)
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("admin removal excludes member", func(t *testing.T) {
		if err := svc.RemoveMembers(ctx, group.ID, []int64{guest.ID}, admin.ID); err != nil {
			t.Fatalf("RemoveMembers failed: %v", err)
		}

		members, err := svc.Members(ctx, group.ID)
		if err != nil {
			t.Fatalf("Members failed: %v", err)
		}
		for _, m := range members {
			if m.ID == guest.ID {
				t.Errorf("removed member still listed: %+v", m)
			}
		}
	})

	t.Run("re-removal is a no-op", func(t *testing.T) {
		if err := svc.RemoveMembers(ctx, group.ID, []int64{guest.ID}, admin.ID); err != nil {
			t.Fatalf("repeat RemoveMembers failed: %v", err)
		}
		members, err := svc.Members(ctx, group.ID)
		if err != nil {
			t.Fatalf("Members failed: %v", err)
		}
		if len(members) != 1 {
			t.Errorf("expected 1 member after repeat removal, got %d", len(members))
		}
	})
}

func TestDeleteGroup(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	admin := createUser(t, store, "admin@example.com", "admin")
	guest := createUser(t, store, "guest@example.com", "guest")

	group, err := svc.Create(ctx, "Trip", admin.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := svc.Invite(ctx, group.ID, guest.ID, admin.ID); err != nil {
		t.Fatalf("Invite failed: %v", err)
	}

	t.Run("non-admin is forbidden and memberships survive", func(t *testing.T) {
		err := svc.Delete(ctx, group.ID, guest.ID)
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}

		members, err := svc.Members(ctx, group.ID)
		if err != nil {
			t.Fatalf("Members failed: %v", err)
		}
		if len(members) != 2 {
			t.Errorf("expected 2 members after denied delete, got %d", len(members))
		}
	})

	t.Run("admin delete removes group and memberships", func(t *testing.T) {
		if err := svc.Delete(ctx, group.ID, admin.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		if _, err := svc.Members(ctx, group.ID); err != nil {
			t.Fatalf("Members failed: %v", err)
		}
		members, _ := svc.Members(ctx, group.ID)
		if len(members) != 0 {
			t.Errorf("expected no members after delete, got %d", len(members))
		}

		err := svc.Delete(ctx, group.ID, admin.ID)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for deleted group, got %v", err)
		}
	})
}

func TestListGroupsScopedToActor(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	u1 := createUser(t, store, "u1@example.com", "u1")
	u2 := createUser(t, store, "u2@example.com", "u2")

	mine, err := svc.Create(ctx, "Mine", u1.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(ctx, "Theirs", u2.ID); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	groups, err := svc.List(ctx, u1.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(groups) != 1 || groups[0].ID != mine.ID {
		t.Errorf("expected only u1's group, got %+v", groups)
	}
	if groups[0].MemberCount != 1 {
		t.Errorf("member count: expected 1, got %d", groups[0].MemberCount)
	}
}
