package offers

import (
	"sync"
	"testing"
	"time"
)

type commitRecorder struct {
	mu      sync.Mutex
	commits []TextFilters
}

func (r *commitRecorder) record(t TextFilters) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commits = append(r.commits, t)
}

func (r *commitRecorder) all() []TextFilters {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TextFilters, len(r.commits))
	copy(out, r.commits)
	return out
}

func TestDebouncer_CoalescesRapidEdits(t *testing.T) {
	rec := &commitRecorder{}
	d := NewDebouncer(80*time.Millisecond, rec.record)
	defer d.Stop()

	// Five edits in quick succession must produce exactly one commit with
	// the final value, after the quiet period.
	for _, v := range []string{"1", "12", "125", "1250", "12500"} {
		d.Edit(TextFilters{MinPrice: v})
		time.Sleep(10 * time.Millisecond)
	}

	if got := rec.all(); len(got) != 0 {
		t.Fatalf("commit fired before quiet period: %v", got)
	}

	time.Sleep(150 * time.Millisecond)

	got := rec.all()
	if len(got) != 1 {
		t.Fatalf("expected exactly one commit, got %d", len(got))
	}
	if got[0].MinPrice != "12500" {
		t.Fatalf("expected final value 12500, got %q", got[0].MinPrice)
	}
}

func TestDebouncer_EditBackToCommittedCancels(t *testing.T) {
	rec := &commitRecorder{}
	d := NewDebouncer(50*time.Millisecond, rec.record)
	defer d.Stop()

	d.Edit(TextFilters{Source: "ebay"})
	d.Edit(TextFilters{}) // reverted before the timer fired

	time.Sleep(120 * time.Millisecond)

	if got := rec.all(); len(got) != 0 {
		t.Fatalf("expected no commit after revert, got %v", got)
	}
}

func TestDebouncer_Flush(t *testing.T) {
	rec := &commitRecorder{}
	d := NewDebouncer(time.Hour, rec.record)
	defer d.Stop()

	d.Edit(TextFilters{MaxPrice: "99"})
	d.Flush()

	got := rec.all()
	if len(got) != 1 || got[0].MaxPrice != "99" {
		t.Fatalf("expected immediate commit on flush, got %v", got)
	}
}

func TestDebouncer_SetCommittedDropsPending(t *testing.T) {
	rec := &commitRecorder{}
	d := NewDebouncer(40*time.Millisecond, rec.record)
	defer d.Stop()

	d.Edit(TextFilters{MinRating: "4"})
	d.SetCommitted(TextFilters{})

	time.Sleep(100 * time.Millisecond)

	if got := rec.all(); len(got) != 0 {
		t.Fatalf("expected pending edit dropped, got %v", got)
	}
}
