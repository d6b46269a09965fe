package persist

import (
	"context"
	"io"

	"github.com/modular-tools/typeface"
)

// Task is a single-shot background decode. The typeface it produces is not
// visible to anyone until Wait returns it, so callers keep mutating their
// live typeface only after joining the task.
type Task struct {
	done chan struct{}
	tf   *typeface.Typeface
	err  error
}

// Load starts decoding r in the background.
func Load(ctx context.Context, r io.Reader) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		data, err := io.ReadAll(r)
		if err != nil {
			t.err = err
			return
		}
		if err := ctx.Err(); err != nil {
			t.err = err
			return
		}
		t.tf, t.err = Unmarshal(data)
	}()
	return t
}

// Done is closed once the decode has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the decode finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) (*typeface.Typeface, error) {
	select {
	case <-t.done:
		return t.tf, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
