package drag

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	viewport *fakeViewport
	animator *fakeAnimator
	policy   *fakePolicy
	observer *fakeObserver
	c        *Controller
	now      time.Time
}

func newFixture(t *testing.T, n, height int) *fixture {
	t.Helper()
	f := &fixture{
		viewport: newFakeViewport(n, height),
		animator: &fakeAnimator{},
		policy:   &fakePolicy{},
		observer: &fakeObserver{},
		now:      time.Unix(1000, 0),
	}
	f.c = NewController(f.viewport, fakeCollection{n: n}, f.animator,
		WithObserver(f.observer),
		WithClock(func() time.Time { return f.now }),
	)
	f.c.SetPolicy(f.policy)
	return f
}

// begin starts a drag on pos and latches the primary pointer on the row's
// first cell.
func (f *fixture) begin(t *testing.T, pos int) {
	t.Helper()
	require.True(t, f.c.BeginDrag(f.viewport.ids[pos]))
	bounds := f.viewport.RowForID(f.viewport.ids[pos]).Bounds()
	f.c.Move(0, bounds.X, bounds.Y)
}

func TestBeginDragArmsAndHidesRow(t *testing.T) {
	f := newFixture(t, 10, 5)
	id := f.viewport.ids[2]

	require.True(t, f.c.BeginDrag(id))

	assert.Equal(t, Armed, f.c.State())
	assert.True(t, f.c.Active())
	assert.True(t, f.viewport.slotOf(id).hidden)

	s := f.c.Session()
	assert.Equal(t, id, s.ID)
	assert.Equal(t, Position(2), s.OriginalPosition)
	assert.Equal(t, Rect{X: 0, Y: 2, Width: rowWidth, Height: 1}, s.OriginalBounds)
	assert.Equal(t, s.OriginalBounds, s.HoverBounds)
	assert.False(t, s.PointerSet)
	assert.Equal(t, NoPointer, s.PointerID)
	assert.Equal(t, id.String(), s.Proxy)

	assert.Equal(t, []uuid.UUID{id}, f.policy.armed)
	assert.Equal(t, 1, f.observer.started)
}

func TestBeginDragFailsWithoutRenderedRow(t *testing.T) {
	f := newFixture(t, 10, 5)

	assert.False(t, f.c.BeginDrag(f.viewport.ids[8]))
	assert.Equal(t, Idle, f.c.State())
	assert.Empty(t, f.policy.armed)
}

func TestBeginDragRejectedWhileActive(t *testing.T) {
	f := newFixture(t, 10, 5)
	f.begin(t, 1)
	f.c.Move(0, 0, 3)
	before := f.c.Session()

	assert.False(t, f.c.BeginDrag(f.viewport.ids[3]))

	assert.Equal(t, before, f.c.Session())
	assert.Equal(t, Dragging, f.c.State())
	assert.False(t, f.viewport.slotOf(f.viewport.ids[3]).hidden)
}

func TestMoveLatchesFirstPointer(t *testing.T) {
	f := newFixture(t, 10, 5)
	require.True(t, f.c.BeginDrag(f.viewport.ids[1]))

	f.c.Move(2, 4, 1)
	assert.Equal(t, Dragging, f.c.State())
	assert.Equal(t, PointerID(2), f.c.Session().PointerID)
	assert.Equal(t, Rect{X: 0, Y: 1, Width: rowWidth, Height: 1}, f.c.Session().HoverBounds)

	// Another contact is ignored.
	f.c.Move(0, 4, 4)
	assert.Equal(t, 1, f.c.Session().HoverBounds.Y)

	f.c.Move(2, 5, 3)
	assert.Equal(t, Rect{X: 1, Y: 3, Width: rowWidth, Height: 1}, f.c.Session().HoverBounds)
}

func TestMoveEmitsResolvedLiveMove(t *testing.T) {
	f := newFixture(t, 10, 5)
	f.begin(t, 1)
	f.c.Move(0, 0, 3)

	require.NotEmpty(t, f.policy.live)
	req := f.policy.live[len(f.policy.live)-1]
	assert.Equal(t, f.viewport.ids[1], req.ID)
	assert.Equal(t, Position(3), req.CurrentPosition)
	assert.Equal(t, Position(1), req.OriginalPosition)
	assert.Equal(t, Rect{X: 0, Y: 1, Width: rowWidth, Height: 1}, req.OriginalBounds)
	assert.Equal(t, Rect{X: 0, Y: 3, Width: rowWidth, Height: 1}, req.HoverBounds)
}

func TestMoveOutsideResolvesInvalid(t *testing.T) {
	f := newFixture(t, 10, 5)
	f.begin(t, 1)
	f.c.Move(0, 40, 1)

	req := f.policy.live[len(f.policy.live)-1]
	assert.Equal(t, InvalidPosition, req.CurrentPosition)
	assert.Empty(t, f.policy.drops)
}

func TestHiddenDraggedRowStillResolves(t *testing.T) {
	f := newFixture(t, 10, 5)
	f.begin(t, 2)

	req := f.policy.live[len(f.policy.live)-1]
	assert.Equal(t, Position(2), req.CurrentPosition)
}

func TestEdgeAutoScrollIssuedOnceUntilIdle(t *testing.T) {
	f := newFixture(t, 20, 5)
	f.viewport.scrollTo(f.c, 5)
	f.begin(t, 7) // y == 2
	require.Empty(t, f.viewport.scrolls)

	f.c.Move(0, 0, 0)
	assert.Equal(t, []int{-1}, f.viewport.scrolls)
	assert.True(t, f.c.AutoScrolling())
	assert.Equal(t, []int{-1}, f.observer.scrolled)

	// Still at the edge but the scroll has not settled.
	f.c.Move(0, 0, -1)
	f.c.Move(0, 0, 0)
	assert.Equal(t, []int{-1}, f.viewport.scrolls)

	f.viewport.scrollTo(f.c, 4)
	f.c.ScrollIdle()
	assert.Equal(t, []int{-1, -1}, f.viewport.scrolls)

	// Away from the edge the scroll stops once idle.
	f.c.Move(0, 0, 2)
	f.viewport.scrollTo(f.c, 3)
	f.c.ScrollIdle()
	assert.Equal(t, []int{-1, -1}, f.viewport.scrolls)
	assert.False(t, f.c.AutoScrolling())
}

func TestEdgeAutoScrollUsesAmountAndDirection(t *testing.T) {
	f := newFixture(t, 20, 5)
	f.c = NewController(f.viewport, fakeCollection{n: 20}, f.animator, WithAutoScrollAmount(3))
	f.begin(t, 2)

	f.c.Move(0, 0, 4)
	assert.Equal(t, []int{3}, f.viewport.scrolls)
}

func TestNoAutoScrollAtContentStart(t *testing.T) {
	f := newFixture(t, 20, 5)
	f.begin(t, 1)

	f.c.Move(0, 0, 0)
	assert.Empty(t, f.viewport.scrolls)
	assert.False(t, f.c.AutoScrolling())
}

func TestReleaseDropsAndSettles(t *testing.T) {
	f := newFixture(t, 10, 5)
	f.begin(t, 2)
	f.c.Move(0, 3, 0)
	f.now = f.now.Add(2 * time.Second)

	f.c.Release(0)

	require.Len(t, f.policy.drops, 1)
	drop := f.policy.drops[0]
	assert.Equal(t, Position(0), drop.CurrentPosition)
	assert.Equal(t, Position(2), drop.OriginalPosition)
	assert.Equal(t, Releasing, f.c.State())
	assert.False(t, f.c.Tracking())
	assert.Equal(t, 1, f.observer.dropped)
	assert.Equal(t, 2*time.Second, f.observer.elapsed)

	require.Len(t, f.animator.moves, 1)
	move := f.animator.moves[0]
	assert.Equal(t, f.viewport.ids[2], move.id)
	assert.Equal(t, 3, move.x)
	assert.Equal(t, 0, move.y)

	// Input is detached while releasing.
	f.c.Move(0, 0, 4)
	f.c.Release(0)
	assert.Len(t, f.policy.drops, 1)
	assert.True(t, f.viewport.slotOf(f.viewport.ids[2]).hidden)

	refreshes := f.viewport.refreshes
	move.done()
	assert.Equal(t, Idle, f.c.State())
	assert.False(t, f.viewport.slotOf(f.viewport.ids[2]).hidden)
	assert.Equal(t, refreshes+1, f.viewport.refreshes)
	assert.Equal(t, InvalidPosition, f.c.Session().OriginalPosition)
}

func TestReleaseIgnoresOtherPointer(t *testing.T) {
	f := newFixture(t, 10, 5)
	f.begin(t, 2)

	f.c.Release(1)
	assert.Equal(t, Dragging, f.c.State())
	assert.Empty(t, f.policy.drops)
}

func TestCancelSkipsDrop(t *testing.T) {
	f := newFixture(t, 10, 5)
	f.begin(t, 2)
	f.c.Move(0, 0, 4)

	f.c.Cancel()

	assert.Equal(t, Idle, f.c.State())
	assert.Empty(t, f.policy.drops)
	assert.Equal(t, 1, f.animator.cancels)
	assert.Equal(t, 1, f.observer.cancelled)
	assert.False(t, f.viewport.slotOf(f.viewport.ids[2]).hidden)

	// A new drag can start right away.
	assert.True(t, f.c.BeginDrag(f.viewport.ids[3]))
}

func TestCancelWhileReleasingSnapsAnimation(t *testing.T) {
	f := newFixture(t, 10, 5)
	f.begin(t, 2)
	f.c.Release(0)
	require.Equal(t, Releasing, f.c.State())
	refreshes := f.viewport.refreshes

	f.c.Cancel()

	assert.Equal(t, Idle, f.c.State())
	assert.Empty(t, f.animator.moves)
	assert.False(t, f.viewport.slotOf(f.viewport.ids[2]).hidden)

	// The drop was the terminal event; the session is reset once.
	assert.Equal(t, 1, f.observer.dropped)
	assert.Zero(t, f.observer.cancelled)
	assert.Equal(t, refreshes+1, f.viewport.refreshes)

	f.c.Cancel()
	assert.Zero(t, f.observer.cancelled)
}

func TestRowsLaidOutReconcilesRecycledRows(t *testing.T) {
	f := newFixture(t, 20, 5)
	id := f.viewport.ids[1]
	f.begin(t, 1)
	oldSlot := f.viewport.slotOf(id)
	require.True(t, oldSlot.hidden)

	// Position 1 leaves the window; its slot now shows position 7.
	f.viewport.scrollTo(f.c, 3)
	assert.False(t, oldSlot.hidden)
	assert.Equal(t, []availability{{id: id, available: false}}, f.policy.available)
	for _, slot := range f.viewport.slots {
		assert.False(t, slot.hidden)
	}

	// The same range again changes nothing.
	f.viewport.scrollTo(f.c, 3)
	assert.Len(t, f.policy.available, 1)

	f.viewport.scrollTo(f.c, 0)
	assert.True(t, f.viewport.slotOf(id).hidden)
	assert.Equal(t, availability{id: id, available: true}, f.policy.available[1])
}

func TestRowsLaidOutReemitsLiveMoveOnRangeChange(t *testing.T) {
	f := newFixture(t, 20, 5)
	f.begin(t, 2)
	moves := len(f.policy.live)

	f.viewport.scrollTo(f.c, 1)

	require.Len(t, f.policy.live, moves+1)
	assert.Equal(t, Position(3), f.policy.live[moves].CurrentPosition)
}

func TestRowsLaidOutIdleIsNoop(t *testing.T) {
	f := newFixture(t, 20, 5)
	f.viewport.scrollTo(f.c, 4)

	assert.Empty(t, f.policy.live)
	assert.Empty(t, f.policy.available)
}

func TestNilPolicyStillDrags(t *testing.T) {
	f := newFixture(t, 10, 5)
	f.c.SetPolicy(nil)
	f.begin(t, 2)
	f.c.Move(0, 0, 0)
	f.c.Release(0)

	assert.Equal(t, Releasing, f.c.State())
	assert.Empty(t, f.policy.drops)
}
