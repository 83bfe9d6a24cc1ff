package session

import (
	"testing"
	"time"

	"github.com/Sma1lboy/ArcticAI/internal/agent"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	sess := New("first task")
	sess.Append(
		agent.UserMessage("do the thing"),
		agent.AssistantMessage("the thing is done"),
	)
	if err := store.Save(sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(sess.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Title != "first task" {
		t.Errorf("Title = %q", loaded.Title)
	}
	if len(loaded.History) != 2 {
		t.Fatalf("History len = %d, want 2", len(loaded.History))
	}
	if loaded.History[1].Role != agent.RoleAssistant || loaded.History[1].Content != "the thing is done" {
		t.Errorf("History[1] = %+v", loaded.History[1])
	}
}

func TestLoadMissingSession(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := store.Load("nope"); err == nil {
		t.Error("expected error for missing session")
	}
}

func TestListSortsNewestFirst(t *testing.T) {
	store := NewStore(t.TempDir())

	old := New("old")
	old.UpdatedAt = time.Now().Add(-time.Hour)
	recent := New("recent")

	if err := store.Save(old); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(recent); err != nil {
		t.Fatalf("Save: %v", err)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("List len = %d, want 2", len(metas))
	}
	if metas[0].Title != "recent" || metas[1].Title != "old" {
		t.Errorf("order = [%q, %q], want newest first", metas[0].Title, metas[1].Title)
	}
}

func TestListMissingDirIsEmpty(t *testing.T) {
	store := NewStore(t.TempDir() + "/does-not-exist")
	metas, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 0 {
		t.Errorf("List len = %d, want 0", len(metas))
	}
}

func TestAppendBumpsUpdatedAt(t *testing.T) {
	sess := New("t")
	before := sess.UpdatedAt
	time.Sleep(time.Millisecond)
	sess.Append(agent.UserMessage("hi"))
	if !sess.UpdatedAt.After(before) {
		t.Error("UpdatedAt not bumped by Append")
	}
}
