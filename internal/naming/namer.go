package naming

import "fmt"

// State identifies the phase of the pattern-learning machine.
type State int

const (
	// StateUnlearned means no pattern has been observed yet; defaults of
	// the form "<stem>_Q0001" are issued.
	StateUnlearned State = iota

	// StateLearned means a pattern was derived from a user rename and all
	// new selections follow it.
	StateLearned
)

// String returns the state name for logs and status output.
func (s State) String() string {
	switch s {
	case StateUnlearned:
		return "unlearned"
	case StateLearned:
		return "learned"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Namer issues selection names for one session. It is not safe for
// concurrent use; the owning session serializes access.
type Namer struct {
	stem    string
	state   State
	pattern Pattern
	next    int // next pattern counter while Learned
	seq     int // next default sequence number while Unlearned
}

// New returns an Unlearned Namer for a document with the given filename
// stem.
func New(stem string) *Namer {
	return &Namer{stem: stem, seq: 1, next: 1}
}

// State returns the current learning state.
func (n *Namer) State() State { return n.state }

// Pattern returns the active pattern and whether one has been learned.
func (n *Namer) Pattern() (Pattern, bool) {
	return n.pattern, n.state == StateLearned
}

// Peek returns the name the next selection would receive without advancing
// any counter. Used for previews.
func (n *Namer) Peek() string {
	if n.state == StateLearned {
		return n.pattern.Format(n.next)
	}
	return fmt.Sprintf("%s_Q%04d", n.stem, n.seq)
}

// Next issues the next name and advances the counter. Callers must invoke
// it only after the selection has passed validation: failed or degenerate
// creations must not consume a number.
func (n *Namer) Next() string {
	name := n.Peek()
	if n.state == StateLearned {
		n.next++
	} else {
		n.seq++
	}
	return name
}

// ObserveRename feeds a successful user rename into the state machine.
//
// While Unlearned, the rename is parsed into a pattern and the machine moves
// to Learned, continuing from the parsed number. A name with no digit run
// learns a width-0 pattern that appends a bare counter.
//
// While Learned, the first pattern is sticky: the rename only bumps the
// counter forward, and only when the new name is structurally consistent
// with the learned pattern (same prefix, suffix, and digit width).
func (n *Namer) ObserveRename(name string) {
	p, num, ok := ParseName(name)

	if n.state == StateUnlearned {
		if ok {
			n.pattern = p
			n.next = num + 1
		} else {
			n.pattern = Pattern{Prefix: name}
			n.next = 1
		}
		n.state = StateLearned
		return
	}

	if ok && p == n.pattern && num+1 > n.next {
		n.next = num + 1
	}
}

// Reset returns the machine to Unlearned for all future selections.
// Existing names are untouched and the default sequence keeps counting
// forward so already-issued defaults are never reissued.
func (n *Namer) Reset() {
	n.state = StateUnlearned
	n.pattern = Pattern{}
	n.next = 1
}
