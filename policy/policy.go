// Package policy provides the reorder policies a drag controller can run.
//
// The set is closed: swap on drop, live swap, insert with shift, and none.
// All four are values of one Policy type and dispatch on their Kind.
package policy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/xqrs/dragview/drag"
)

// ErrUnknownKind is returned by ParseKind for names it does not recognize.
var ErrUnknownKind = errors.New("unknown reorder policy")

// Kind selects the reorder behavior.
type Kind int

const (
	// None never mutates the collection; drag visuals still work.
	None Kind = iota
	// SwapOnDrop swaps the dragged item with the one under the drop point,
	// and deletes it when dropped outside the list.
	SwapOnDrop
	// SwapLive swaps as soon as the hover cell is over another item.
	SwapLive
	// InsertShift moves the dragged item to the drop position and shifts
	// the items in between.
	InsertShift
)

var kindNames = map[Kind]string{
	None:        "none",
	SwapOnDrop:  "swap-on-drop",
	SwapLive:    "swap-live",
	InsertShift: "insert-shift",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds returns every kind in display order.
func Kinds() []Kind {
	return []Kind{SwapOnDrop, SwapLive, InsertShift, None}
}

// ParseKind returns the kind with the given name. Matching ignores case, and
// underscores may stand in for dashes.
func ParseKind(name string) (Kind, error) {
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Outcome describes the last mutation a policy applied.
type Outcome struct {
	Op   string
	From drag.Position
	To   drag.Position
}

// Policy is a reorder policy of a fixed Kind.
type Policy struct {
	kind     Kind
	last     Outcome
	onChange func(Outcome)
}

var _ drag.Policy = (*Policy)(nil)

// New returns a policy of the given kind.
func New(kind Kind) *Policy {
	return &Policy{kind: kind}
}

// Kind returns the policy's kind.
func (p *Policy) Kind() Kind {
	return p.kind
}

// Last returns the most recent mutation, with an empty Op if there was none.
func (p *Policy) Last() Outcome {
	return p.last
}

// SetChangedFunc sets a handler called after every applied mutation.
func (p *Policy) SetChangedFunc(handler func(Outcome)) *Policy {
	p.onChange = handler
	return p
}

// OnArmed is called when a drag starts.
func (p *Policy) OnArmed(stage *drag.Stage, id uuid.UUID) {
	switch p.kind {
	case None, SwapOnDrop, SwapLive, InsertShift:
	}
}

// OnLiveMove is called after every hover cell movement.
func (p *Policy) OnLiveMove(stage *drag.Stage, req drag.Request) {
	switch p.kind {
	case SwapLive:
		p.swapLive(stage, req)
	case None, SwapOnDrop, InsertShift:
	}
}

// OnDrop is called once when the hover cell is released.
func (p *Policy) OnDrop(stage *drag.Stage, req drag.Request) {
	switch p.kind {
	case SwapOnDrop:
		p.swapOnDrop(stage, req)
	case InsertShift:
		p.insertShift(stage, req)
	case None, SwapLive:
	}
}

// OnRowAvailabilityChanged is called when the dragged item's row scrolls out
// of or back into the viewport.
func (p *Policy) OnRowAvailabilityChanged(stage *drag.Stage, id uuid.UUID, available bool) {
	switch p.kind {
	case None, SwapOnDrop, SwapLive, InsertShift:
	}
}

func (p *Policy) swapOnDrop(stage *drag.Stage, req drag.Request) {
	if !req.CurrentPosition.Valid() {
		from := req.OriginalPosition
		if !inRange(stage, from) {
			return
		}
		stage.Animator.Shift(from, drag.Position(stage.Items.Len()-1), -1)
		if stage.Items.Remove(int(from)) {
			p.applied(stage, Outcome{Op: "delete", From: from, To: drag.InvalidPosition})
		}
		return
	}
	if req.CurrentPosition == req.OriginalPosition {
		return
	}
	p.swap(stage, req.OriginalPosition, req.CurrentPosition)
}

func (p *Policy) swapLive(stage *drag.Stage, req drag.Request) {
	if !req.CurrentPosition.Valid() {
		return
	}
	from := drag.Position(stage.Items.IndexOf(req.ID))
	if !from.Valid() || from == req.CurrentPosition {
		return
	}
	p.swap(stage, from, req.CurrentPosition)
}

func (p *Policy) swap(stage *drag.Stage, a, b drag.Position) {
	if !inRange(stage, a, b) {
		return
	}
	stage.Animator.Swap(a, b)
	if stage.Items.Swap(int(a), int(b)) {
		p.applied(stage, Outcome{Op: "swap", From: a, To: b})
	}
}

func (p *Policy) insertShift(stage *drag.Stage, req drag.Request) {
	from, to := req.OriginalPosition, req.CurrentPosition
	if !to.Valid() || from == to || !inRange(stage, from, to) {
		return
	}
	if from <= to {
		stage.Animator.Shift(from, to-1, -1)
	} else {
		stage.Animator.Shift(to+1, from, 1)
	}
	if stage.Items.Move(int(from), int(to)) {
		p.applied(stage, Outcome{Op: "move", From: from, To: to})
	}
}

// inRange reports whether every position indexes the collection. Positions
// outside it make the whole operation a no-op; the drag state and the
// collection size can diverge, and that is logged rather than treated as a
// failure.
func inRange(stage *drag.Stage, positions ...drag.Position) bool {
	n := stage.Items.Len()
	for _, pos := range positions {
		if pos < 0 || int(pos) >= n {
			stage.Logger.Debug("position out of range, ignoring", "position", pos, "len", n)
			return false
		}
	}
	return true
}

func (p *Policy) applied(stage *drag.Stage, outcome Outcome) {
	stage.Logger.Debug("collection reordered", "policy", p.kind, "op", outcome.Op, "from", outcome.From, "to", outcome.To)
	p.last = outcome
	stage.Refresh()
	if p.onChange != nil {
		p.onChange(outcome)
	}
}
