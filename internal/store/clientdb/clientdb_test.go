package clientdb

import (
	"context"
	"testing"
	"time"
)

func TestSessionPersistence(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()

	if _, _, ok, err := db.LoadSession(ctx); err != nil || ok {
		t.Fatalf("expected no stored session, got ok=%v err=%v", ok, err)
	}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := db.SaveSession(ctx, "session_id", "tok-1", now); err != nil {
		t.Fatal(err)
	}
	// saving again overwrites the single row
	if err := db.SaveSession(ctx, "session_id", "tok-2", now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	name, value, ok, err := db.LoadSession(ctx)
	if err != nil || !ok {
		t.Fatalf("expected stored session, got ok=%v err=%v", ok, err)
	}
	if name != "session_id" || value != "tok-2" {
		t.Fatalf("expected latest cookie, got %s=%s", name, value)
	}
	if err := db.ClearSession(ctx); err != nil {
		t.Fatal(err)
	}
	if _, _, ok, _ := db.LoadSession(ctx); ok {
		t.Fatal("expected session cleared")
	}
}

func TestActionHistory(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	_ = db.PutAction(ctx, base, "like", "1")
	_ = db.PutAction(ctx, base.Add(5*time.Minute), "post", "2")
	_ = db.PutAction(ctx, base.Add(2*time.Hour), "like", "3")

	all, err := db.LoadActionsRange(ctx, base, base.Add(3*time.Hour), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(all))
	}
	likes, err := db.LoadActionsRange(ctx, base, base.Add(time.Hour), "like")
	if err != nil {
		t.Fatal(err)
	}
	if len(likes) != 1 || likes[0].Target != "1" {
		t.Fatalf("expected one like in window, got %+v", likes)
	}
	n, err := db.CountActionsWithin(ctx, base, base.Add(3*time.Hour), "like")
	if err != nil || n != 2 {
		t.Fatalf("expected 2 likes counted, got %d err=%v", n, err)
	}
}
