package store

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/revalya/revalya/internal/session/domain"
)

func testSession(t *testing.T, node *snowflake.Node, tokenHash string, expiresAt time.Time) *domain.Session {
	t.Helper()
	now := time.Now().UTC()
	return &domain.Session{
		ID:         node.Generate(),
		TokenHash:  tokenHash,
		UserID:     node.Generate(),
		TenantID:   uuid.New(),
		Role:       "member",
		ExpiresAt:  expiresAt,
		CreatedAt:  now,
		LastSeenAt: now,
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	store := NewMemoryStore()
	ctx := context.Background()

	session := testSession(t, node, "hash-1", time.Now().UTC().Add(time.Hour))
	if err := store.Put(ctx, session); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := store.Get(ctx, "hash-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil || got.ID != session.ID {
		t.Fatalf("expected stored session back, got %+v", got)
	}

	// The store hands out copies, not aliases.
	got.Role = "owner"
	again, err := store.Get(ctx, "hash-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if again.Role != "member" {
		t.Fatal("expected mutation of a returned session not to leak into the store")
	}

	seenAt := time.Now().UTC().Add(time.Minute)
	if err := store.Touch(ctx, "hash-1", seenAt); err != nil {
		t.Fatalf("touch failed: %v", err)
	}
	touched, _ := store.Get(ctx, "hash-1")
	if !touched.LastSeenAt.Equal(seenAt) {
		t.Fatalf("expected last_seen_at %v, got %v", seenAt, touched.LastSeenAt)
	}

	if err := store.Delete(ctx, "hash-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	gone, err := store.Get(ctx, "hash-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if gone != nil {
		t.Fatal("expected deleted session to be gone")
	}
}

func TestMemoryStoreDeleteExpired(t *testing.T) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	if err := store.Put(ctx, testSession(t, node, "live", now.Add(time.Hour))); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := store.Put(ctx, testSession(t, node, "dead", now.Add(-time.Hour))); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	removed, err := store.DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("delete expired failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}

	if live, _ := store.Get(ctx, "live"); live == nil {
		t.Fatal("expected the live session to survive")
	}
	if dead, _ := store.Get(ctx, "dead"); dead != nil {
		t.Fatal("expected the expired session to be pruned")
	}
}
