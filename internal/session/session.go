// Package session owns the ordered collection of selections for one loaded
// document and glues the coordinate and naming engines together: a selection
// is never observable with a valid rectangle but no name, or vice versa.
//
// All state mutation runs on one control path guarded by a RWMutex. Exports
// hold the read side for their whole duration (see BeginExport), so deletes,
// renames, and further exports queue behind an in-flight batch.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/stclair/pdf-figures-mcp/internal/geometry"
	"github.com/stclair/pdf-figures-mcp/internal/naming"
)

// ErrDuplicateName reports a rename to a name already used by another
// selection in this session. The rename is not applied and the pattern is
// not updated.
var ErrDuplicateName = errors.New("selection name already in use")

// ErrNotFound reports an unknown selection id.
var ErrNotFound = errors.New("selection not found")

// ErrNoSelections reports an undo on an empty session.
var ErrNoSelections = errors.New("no selections to undo")

// PageSizer supplies page geometry for rectangle validation. Implemented by
// pdfdoc.Document.
type PageSizer interface {
	PageCount() int
	PageSize(page int) (w, h float64, err error)
}

// Selection is one user-drawn crop region. Rect is stored normalized and
// clamped, in document units.
type Selection struct {
	ID           int           `json:"id"`
	Page         int           `json:"page"`
	Rect         geometry.Rect `json:"rect"`
	Name         string        `json:"name"`
	CreatedOrder int           `json:"created_order"`
	Renamed      bool          `json:"renamed"`
}

// Session owns the selections for the active document.
type Session struct {
	mu         sync.RWMutex
	doc        PageSizer
	namer      *naming.Namer
	selections []*Selection
	nextID     int
	nextOrder  int
}

// New creates an empty session for the given document. stem is the
// document's base filename without extension, used for default names.
func New(doc PageSizer, stem string) *Session {
	return &Session{
		doc:       doc,
		namer:     naming.New(stem),
		nextID:    1,
		nextOrder: 1,
	}
}

// Create validates and clamps the rectangle against the page bounds, assigns
// the next name, and appends the selection, atomically with respect to
// every other session operation. Degenerate rectangles are rejected without
// consuming a name.
func (s *Session) Create(page int, docRect geometry.Rect) (Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if page < 0 || page >= s.doc.PageCount() {
		return Selection{}, fmt.Errorf("page %d out of range [0,%d)", page, s.doc.PageCount())
	}
	w, h, err := s.doc.PageSize(page)
	if err != nil {
		return Selection{}, err
	}
	rect, err := docRect.Validate(w, h)
	if err != nil {
		return Selection{}, err
	}

	sel := &Selection{
		ID:           s.nextID,
		Page:         page,
		Rect:         rect,
		Name:         s.namer.Next(),
		CreatedOrder: s.nextOrder,
	}
	s.nextID++
	s.nextOrder++
	s.selections = append(s.selections, sel)
	return *sel, nil
}

// Rename changes a selection's name. The name must be filename-safe and
// unique within the session; only then does the naming engine observe the
// rename (and possibly learn the pattern from it).
func (s *Session) Rename(id int, name string) (Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := naming.ValidateName(name); err != nil {
		return Selection{}, err
	}
	target := s.find(id)
	if target == nil {
		return Selection{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	for _, sel := range s.selections {
		if sel.ID != id && sel.Name == name {
			return Selection{}, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
	}

	target.Name = name
	target.Renamed = true
	s.namer.ObserveRename(name)
	return *target, nil
}

// Delete removes a selection. Names already issued stay consumed.
func (s *Session) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sel := range s.selections {
		if sel.ID == id {
			s.selections = append(s.selections[:i], s.selections[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// UndoLast removes and returns the most recently created selection (highest
// CreatedOrder).
func (s *Session) UndoLast() (Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.selections) == 0 {
		return Selection{}, ErrNoSelections
	}
	last := 0
	for i, sel := range s.selections {
		if sel.CreatedOrder > s.selections[last].CreatedOrder {
			last = i
		}
	}
	removed := *s.selections[last]
	s.selections = append(s.selections[:last], s.selections[last+1:]...)
	return removed, nil
}

// Get returns a copy of the selection with the given id.
func (s *Session) Get(id int) (Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sel := s.find(id); sel != nil {
		return *sel, nil
	}
	return Selection{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// Snapshot returns a copy of all selections in creation order, for list
// rendering in the UI.
func (s *Session) Snapshot() []Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// ListForExport returns the selections in the order they will be exported
// (ascending CreatedOrder).
func (s *Session) ListForExport() []Selection {
	return s.Snapshot()
}

// BeginExport takes the read lock for the duration of a batch export and
// returns the items to export. Selection state is read-only until EndExport:
// mutations and further exports wait behind the in-flight batch.
func (s *Session) BeginExport() []Selection {
	s.mu.RLock()
	return s.copyLocked()
}

// EndExport releases the lock taken by BeginExport.
func (s *Session) EndExport() {
	s.mu.RUnlock()
}

// ResetNaming returns the naming engine to the Unlearned state for all
// future selections. Existing names are untouched.
func (s *Session) ResetNaming() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.namer.Reset()
}

// NamingStatus reports the naming state, the active pattern (if learned),
// and the name the next selection would receive.
func (s *Session) NamingStatus() (state naming.State, pattern naming.Pattern, learned bool, nextName string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pattern, learned = s.namer.Pattern()
	return s.namer.State(), pattern, learned, s.namer.Peek()
}

// find returns the selection with the given id, or nil. Callers hold mu.
func (s *Session) find(id int) *Selection {
	for _, sel := range s.selections {
		if sel.ID == id {
			return sel
		}
	}
	return nil
}

// copyLocked snapshots the selection list. Selections are appended in
// creation order and deletes preserve order, so no sort is needed. Callers
// hold mu.
func (s *Session) copyLocked() []Selection {
	out := make([]Selection, len(s.selections))
	for i, sel := range s.selections {
		out[i] = *sel
	}
	return out
}
