package history

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	rec, err := NewRecorder(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	t.Cleanup(func() { rec.Close() })
	return rec
}

func TestRecordRunLifecycle(t *testing.T) {
	ctx := context.Background()
	rec := newTestRecorder(t)

	if err := rec.StartRun(ctx, "run-1", "arctic", "do something"); err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if err := rec.RecordStep(ctx, "run-1", 1, "thinking about it"); err != nil {
		t.Fatalf("RecordStep: %v", err)
	}
	if err := rec.RecordToolCall(ctx, "run-1", 1, "echo", `{"message":"hi"}`, "hi"); err != nil {
		t.Fatalf("RecordToolCall: %v", err)
	}
	if err := rec.EndRun(ctx, "run-1", "finished", "all done"); err != nil {
		t.Fatalf("EndRun: %v", err)
	}

	runs, err := rec.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	got := runs[0]
	if got.RunID != "run-1" || got.AgentName != "arctic" || got.State != "finished" || got.Result != "all done" {
		t.Errorf("run = %+v", got)
	}
	if got.EndedAt == 0 {
		t.Error("EndedAt not set")
	}
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	rec := newTestRecorder(t)

	for _, id := range []string{"run-a", "run-b", "run-c"} {
		if err := rec.StartRun(ctx, id, "arctic", "req"); err != nil {
			t.Fatalf("StartRun: %v", err)
		}
	}

	runs, err := rec.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("got %d runs, want limit 2", len(runs))
	}
}

func TestRecentRunsEmpty(t *testing.T) {
	rec := newTestRecorder(t)
	runs, err := rec.RecentRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("got %d runs, want 0", len(runs))
	}
}
