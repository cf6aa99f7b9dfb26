package dragview

import (
	"slices"
	"time"
)

// FrameInterval is the time between two frames while a primitive animates.
var FrameInterval = time.Second / 60

// frameScheduler ticks while at least one registered source is animating.
type frameScheduler struct {
	sources []Animated
	ticker  *time.Ticker
}

// add registers source and starts ticking if needed. Registering the same
// source twice is a no-op.
func (f *frameScheduler) add(source Animated) {
	if source == nil || slices.Contains(f.sources, source) {
		return
	}
	f.sources = append(f.sources, source)
	if f.ticker == nil {
		f.ticker = time.NewTicker(FrameInterval)
	}
}

// prune drops sources that settled and stops the ticker once none are left.
func (f *frameScheduler) prune() {
	f.sources = slices.DeleteFunc(f.sources, func(s Animated) bool {
		return !s.Animating()
	})
	if len(f.sources) == 0 {
		f.stop()
	}
}

// C returns the tick channel, or nil while idle.
func (f *frameScheduler) C() <-chan time.Time {
	if f.ticker == nil {
		return nil
	}
	return f.ticker.C
}

func (f *frameScheduler) stop() {
	if f.ticker != nil {
		f.ticker.Stop()
		f.ticker = nil
	}
}
