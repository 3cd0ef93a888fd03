package export

import (
	"context"

	"github.com/stclair/pdf-figures-mcp/internal/session"
)

// Task is a batch export running in the background. While it runs the
// session's selection state is read-only: mutations and further exports
// queue until the task releases the export lock.
type Task struct {
	done    chan struct{}
	results []ItemResult
}

// Start snapshots the session under its export lock and exports every
// selection on a background goroutine. The caller decides sequencing: Wait
// for the results, or poll Done.
func (e *Exporter) Start(ctx context.Context, sess *session.Session, dir string) *Task {
	t := &Task{done: make(chan struct{})}

	items := sess.BeginExport()
	go func() {
		defer close(t.done)
		defer sess.EndExport()
		t.results = e.ExportAll(ctx, items, dir)
	}()
	return t
}

// Done is closed when the task has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task finishes and returns the per-item results.
func (t *Task) Wait() []ItemResult {
	<-t.done
	return t.results
}
