package drag

import (
	"log/slog"

	"github.com/google/uuid"
)

// Policy decides what a drag does to the backing collection. Exactly one
// policy is active on a Controller at a time and only the active one is handed
// the Stage.
type Policy interface {
	OnArmed(stage *Stage, id uuid.UUID)
	OnLiveMove(stage *Stage, req Request)
	OnDrop(stage *Stage, req Request)
	OnRowAvailabilityChanged(stage *Stage, id uuid.UUID, available bool)
}

// Stage is the mutation handle a Policy works through: the backing
// collection, the animator, and the viewport refresh. The Controller owns it
// and lends it to the active policy for the duration of a callback.
type Stage struct {
	Items    Collection
	Animator Animator
	Logger   *slog.Logger

	viewport Viewport
}

// Refresh tells the viewport the collection changed so it re-renders.
func (s *Stage) Refresh() {
	if s.viewport != nil {
		s.viewport.Refresh()
	}
}

// NewStage returns a stage over items. viewport may be nil when no rendering
// is attached.
func NewStage(items Collection, animator Animator, viewport Viewport, logger *slog.Logger) *Stage {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stage{
		Items:    items,
		Animator: animator,
		Logger:   logger,
		viewport: viewport,
	}
}
