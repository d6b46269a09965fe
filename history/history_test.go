package history

import (
	"testing"

	"github.com/modular-tools/typeface"
	"github.com/modular-tools/typeface/shape"
)

// stamp returns a typeface whose 'A' glyph encodes n in its first cells.
func stamp(t *testing.T, n int) *typeface.Typeface {
	t.Helper()
	tf := typeface.New(typeface.DefaultMetrics())
	kinds := shape.Kinds()
	for i := 0; i < 4; i++ {
		k := kinds[n%len(kinds)]
		n /= len(kinds)
		if _, err := tf.SetCell('A', 0, i, typeface.NewCell(k, 0, typeface.DefaultColor)); err != nil {
			t.Fatal(err)
		}
	}
	return tf
}

func TestUndoAfterNCommits(t *testing.T) {
	for n := 2; n <= DefaultLimit; n++ {
		h := New(DefaultLimit)
		for i := 1; i <= n; i++ {
			h.Commit(stamp(t, i))
		}
		got, ok := h.Undo()
		if !ok {
			t.Fatalf("n=%d: Undo() = false", n)
		}
		if !got.Equal(stamp(t, n-1)) {
			t.Errorf("n=%d: Undo() did not restore commit %d", n, n-1)
		}
	}
}

func TestUndoAtStart(t *testing.T) {
	h := New(5)
	if _, ok := h.Undo(); ok {
		t.Error("Undo() on empty history = true")
	}
	h.Commit(stamp(t, 1))
	if _, ok := h.Undo(); ok {
		t.Error("Undo() with a single snapshot = true")
	}
	if h.Index() != 0 {
		t.Errorf("Index() = %d, want 0", h.Index())
	}
}

func TestCommitBeyondLimit(t *testing.T) {
	const limit = 5
	h := New(limit)
	for i := 1; i <= 3*limit; i++ {
		h.Commit(stamp(t, i))
		if h.Len() > limit {
			t.Fatalf("Len() = %d after %d commits, want <= %d", h.Len(), i, limit)
		}
		if h.Index() != h.Len()-1 {
			t.Fatalf("Index() = %d, want %d", h.Index(), h.Len()-1)
		}
	}
	// The window holds commits 11..15, so undo reaches back to 11 only.
	var last *typeface.Typeface
	steps := 0
	for {
		tf, ok := h.Undo()
		if !ok {
			break
		}
		last = tf
		steps++
	}
	if steps != limit-1 {
		t.Errorf("undo steps = %d, want %d", steps, limit-1)
	}
	if !last.Equal(stamp(t, 2*limit+1)) {
		t.Error("oldest reachable snapshot is not the oldest kept commit")
	}
}

func TestCommitDiscardsRedo(t *testing.T) {
	h := New(10)
	for i := 1; i <= 4; i++ {
		h.Commit(stamp(t, i))
	}
	h.Undo()
	h.Undo()
	if !h.CanRedo() {
		t.Fatal("CanRedo() = false after undo")
	}
	h.Commit(stamp(t, 9))
	if h.CanRedo() {
		t.Error("CanRedo() = true after a new commit")
	}
	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3", h.Len())
	}
	got, _ := h.Undo()
	if !got.Equal(stamp(t, 2)) {
		t.Error("Undo() after branching did not return commit 2")
	}
}

func TestRedo(t *testing.T) {
	h := New(10)
	h.Commit(stamp(t, 1))
	h.Commit(stamp(t, 2))
	if _, ok := h.Redo(); ok {
		t.Error("Redo() at the newest snapshot = true")
	}
	h.Undo()
	got, ok := h.Redo()
	if !ok || !got.Equal(stamp(t, 2)) {
		t.Error("Redo() did not return commit 2")
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	h := New(10)
	tf := stamp(t, 1)
	h.Commit(tf)
	h.Commit(stamp(t, 2))

	if err := tf.Clear('A'); err != nil {
		t.Fatal(err)
	}
	got, _ := h.Undo()
	if !got.Equal(stamp(t, 1)) {
		t.Error("mutating the committed typeface changed the snapshot")
	}
	if err := got.Clear('A'); err != nil {
		t.Fatal(err)
	}
	h.Redo()
	again, _ := h.Undo()
	if !again.Equal(stamp(t, 1)) {
		t.Error("mutating an undo result changed the snapshot")
	}
}

func TestReset(t *testing.T) {
	h := New(10)
	for i := 1; i <= 4; i++ {
		h.Commit(stamp(t, i))
	}
	h.Reset(stamp(t, 7))
	if h.Len() != 1 || h.Index() != 0 {
		t.Errorf("after Reset Len() = %d Index() = %d, want 1 0", h.Len(), h.Index())
	}
	if h.CanUndo() {
		t.Error("CanUndo() = true after Reset")
	}
}
