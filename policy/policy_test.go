package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xqrs/dragview/collection"
	"github.com/xqrs/dragview/drag"
)

type recorder struct {
	shifts [][3]int
	swaps  [][2]drag.Position
}

func (r *recorder) Shift(start, end drag.Position, amount int) {
	r.shifts = append(r.shifts, [3]int{int(start), int(end), amount})
}
func (r *recorder) Swap(a, b drag.Position)            { r.swaps = append(r.swaps, [2]drag.Position{a, b}) }
func (r *recorder) MoveTo(uuid.UUID, int, int, func()) {}
func (r *recorder) Cancel()                            {}
func (r *recorder) empty() bool                        { return len(r.shifts) == 0 && len(r.swaps) == 0 }

// refreshCounter is a viewport that only counts refreshes.
type refreshCounter struct {
	drag.Viewport
	refreshes int
}

func (v *refreshCounter) Refresh() { v.refreshes++ }

type harness struct {
	items    *collection.List[string]
	animator *recorder
	viewport *refreshCounter
	stage    *drag.Stage
}

func newHarness(values ...string) *harness {
	h := &harness{
		items:    collection.New(values...),
		animator: &recorder{},
		viewport: &refreshCounter{},
	}
	h.stage = drag.NewStage(h.items, h.animator, h.viewport, nil)
	return h
}

func (h *harness) request(from, to drag.Position) drag.Request {
	return drag.Request{
		ID:               h.items.ID(int(from)),
		OriginalPosition: from,
		CurrentPosition:  to,
	}
}

func abcd() *harness {
	return newHarness("A", "B", "C", "D")
}

func TestDropScenario(t *testing.T) {
	tests := []struct {
		kind  Kind
		want  []string
		shift [][3]int
		swap  [][2]drag.Position
	}{
		{kind: InsertShift, want: []string{"C", "A", "B", "D"}, shift: [][3]int{{1, 2, 1}}},
		{kind: SwapOnDrop, want: []string{"C", "B", "A", "D"}, swap: [][2]drag.Position{{2, 0}}},
		{kind: SwapLive, want: []string{"A", "B", "C", "D"}},
		{kind: None, want: []string{"A", "B", "C", "D"}},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			h := abcd()
			New(tt.kind).OnDrop(h.stage, h.request(2, 0))

			assert.Equal(t, tt.want, h.items.Values())
			assert.Equal(t, tt.shift, h.animator.shifts)
			assert.Equal(t, tt.swap, h.animator.swaps)
		})
	}
}

func TestDropInPlaceIsIdempotent(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			h := abcd()
			p := New(kind)
			p.OnLiveMove(h.stage, h.request(1, 1))
			p.OnDrop(h.stage, h.request(1, 1))

			assert.Equal(t, []string{"A", "B", "C", "D"}, h.items.Values())
			assert.True(t, h.animator.empty())
			assert.Zero(t, h.viewport.refreshes)
			assert.Empty(t, p.Last().Op)
		})
	}
}

func TestLiveMovesDoNotMutateDropPolicies(t *testing.T) {
	for _, kind := range []Kind{SwapOnDrop, InsertShift, None} {
		t.Run(kind.String(), func(t *testing.T) {
			h := abcd()
			p := New(kind)
			for _, to := range []drag.Position{0, 3, drag.InvalidPosition, 1} {
				p.OnLiveMove(h.stage, h.request(2, to))
			}

			assert.Equal(t, []string{"A", "B", "C", "D"}, h.items.Values())
			assert.True(t, h.animator.empty())
		})
	}
}

func TestSwapRoundTrip(t *testing.T) {
	h := abcd()
	p := New(SwapOnDrop)

	p.OnDrop(h.stage, h.request(1, 3))
	require.Equal(t, []string{"A", "D", "C", "B"}, h.items.Values())
	p.OnDrop(h.stage, h.request(1, 3))

	assert.Equal(t, []string{"A", "B", "C", "D"}, h.items.Values())
	assert.Equal(t, 2, h.viewport.refreshes)
}

func TestSwapOnDropOutsideDeletes(t *testing.T) {
	for k := range 4 {
		h := abcd()
		want := append([]string{}, h.items.Values()...)
		want = append(want[:k], want[k+1:]...)
		id := h.items.ID(k)

		p := New(SwapOnDrop)
		p.OnDrop(h.stage, h.request(drag.Position(k), drag.InvalidPosition))

		assert.Equal(t, want, h.items.Values(), "k=%d", k)
		assert.Equal(t, -1, h.items.IndexOf(id))
		assert.Equal(t, [][3]int{{k, 3, -1}}, h.animator.shifts)
		assert.Equal(t, Outcome{Op: "delete", From: drag.Position(k), To: drag.InvalidPosition}, p.Last())
	}
}

func TestInsertShiftDropOutsideIsIgnored(t *testing.T) {
	h := abcd()
	New(InsertShift).OnDrop(h.stage, h.request(1, drag.InvalidPosition))

	assert.Equal(t, []string{"A", "B", "C", "D"}, h.items.Values())
	assert.True(t, h.animator.empty())
}

func TestSwapLiveFollowsHover(t *testing.T) {
	h := abcd()
	p := New(SwapLive)
	id := h.items.ID(1) // B

	move := func(to drag.Position) {
		p.OnLiveMove(h.stage, drag.Request{ID: id, OriginalPosition: 1, CurrentPosition: to})
	}

	move(2)
	assert.Equal(t, []string{"A", "C", "B", "D"}, h.items.Values())
	move(3)
	assert.Equal(t, []string{"A", "C", "D", "B"}, h.items.Values())
	move(3)
	move(drag.InvalidPosition)
	assert.Equal(t, []string{"A", "C", "D", "B"}, h.items.Values())
	move(0)
	assert.Equal(t, []string{"B", "C", "D", "A"}, h.items.Values())

	assert.Equal(t, [][2]drag.Position{{1, 2}, {2, 3}, {3, 0}}, h.animator.swaps)

	// The drop itself changes nothing more.
	p.OnDrop(h.stage, drag.Request{ID: id, OriginalPosition: 1, CurrentPosition: 0})
	assert.Equal(t, []string{"B", "C", "D", "A"}, h.items.Values())
}

func TestSwapLiveMatchesReplayedSwaps(t *testing.T) {
	h := newHarness("0", "1", "2", "3", "4", "5", "6", "7")
	replay := collection.New(h.items.Values()...)
	p := New(SwapLive)
	id := h.items.ID(4)

	last := 4
	for _, to := range []int{5, 7, 7, 2, 0, 3, 3, 6} {
		p.OnLiveMove(h.stage, drag.Request{ID: id, OriginalPosition: 4, CurrentPosition: drag.Position(to)})
		if to != last {
			replay.Swap(last, to)
			last = to
		}
	}
	assert.Equal(t, replay.Values(), h.items.Values())
}

func TestInsertShiftMoveFiveToOne(t *testing.T) {
	h := newHarness("0", "1", "2", "3", "4", "5", "6", "7", "8", "9")
	New(InsertShift).OnDrop(h.stage, h.request(5, 1))

	assert.Equal(t, []string{"0", "5", "1", "2", "3", "4", "6", "7", "8", "9"}, h.items.Values())
	assert.Equal(t, [][3]int{{2, 5, 1}}, h.animator.shifts)
}

func TestInsertShiftMoveForward(t *testing.T) {
	h := newHarness("0", "1", "2", "3", "4", "5")
	New(InsertShift).OnDrop(h.stage, h.request(1, 4))

	assert.Equal(t, []string{"0", "2", "3", "4", "1", "5"}, h.items.Values())
	assert.Equal(t, [][3]int{{1, 3, -1}}, h.animator.shifts)
}

func TestOutOfRangeIsNoop(t *testing.T) {
	for _, kind := range []Kind{SwapOnDrop, InsertShift} {
		t.Run(kind.String(), func(t *testing.T) {
			h := abcd()
			p := New(kind)
			p.OnDrop(h.stage, drag.Request{OriginalPosition: 7, CurrentPosition: 1})
			p.OnDrop(h.stage, drag.Request{OriginalPosition: 1, CurrentPosition: 9})

			assert.Equal(t, []string{"A", "B", "C", "D"}, h.items.Values())
			assert.True(t, h.animator.empty())
			assert.Zero(t, h.viewport.refreshes)
		})
	}

	h := abcd()
	New(SwapOnDrop).OnDrop(h.stage, drag.Request{OriginalPosition: 4, CurrentPosition: drag.InvalidPosition})
	assert.Equal(t, 4, h.items.Len())
	assert.True(t, h.animator.empty())
}

func TestChangedFuncReportsMutation(t *testing.T) {
	h := abcd()
	var got []Outcome
	p := New(InsertShift).SetChangedFunc(func(o Outcome) { got = append(got, o) })

	p.OnDrop(h.stage, h.request(0, 3))

	want := Outcome{Op: "move", From: 0, To: 3}
	assert.Equal(t, []Outcome{want}, got)
	assert.Equal(t, want, p.Last())
	assert.Equal(t, 1, h.viewport.refreshes)
}

func TestParseKind(t *testing.T) {
	for _, kind := range Kinds() {
		got, err := ParseKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}

	got, err := ParseKind(" Swap_Live ")
	require.NoError(t, err)
	assert.Equal(t, SwapLive, got)

	_, err = ParseKind("shuffle")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
