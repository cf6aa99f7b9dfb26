// Package metrics exports drag interaction counters to Prometheus.
package metrics

import (
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/xqrs/dragview/drag"
)

const namespace = "dragview"

// Drop outcomes.
const (
	DropInList  = "in_list"
	DropOutside = "outside"
)

// Collector records drag lifecycle events. It implements drag.Observer.
type Collector struct {
	// DragsStarted counts drags that armed.
	DragsStarted prometheus.Counter
	// DragsDropped counts released drags by whether they ended over a row.
	DragsDropped *prometheus.CounterVec
	// DragsCancelled counts drags discarded without a drop.
	DragsCancelled prometheus.Counter
	// LiveMoves counts hover position updates.
	LiveMoves prometheus.Counter
	// AutoScrolls counts edge scrolls per direction.
	AutoScrolls *prometheus.CounterVec
	// Reorders counts collection mutations per operation.
	Reorders *prometheus.CounterVec
	// DragDuration tracks how long drags last until drop or cancel.
	DragDuration prometheus.Histogram
}

var _ drag.Observer = (*Collector)(nil)

// New registers the collectors with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Collector{
		DragsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drags_started_total",
			Help:      "Total number of drags started",
		}),
		DragsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drags_dropped_total",
			Help:      "Total number of drags released",
		}, []string{"outcome"}),
		DragsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drags_cancelled_total",
			Help:      "Total number of drags cancelled",
		}),
		LiveMoves: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_moves_total",
			Help:      "Total number of hover position updates",
		}),
		AutoScrolls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "autoscrolls_total",
			Help:      "Total number of edge scrolls",
		}, []string{"direction"}),
		Reorders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reorders_total",
			Help:      "Total number of collection mutations",
		}, []string{"op"}),
		DragDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "drag_duration_seconds",
			Help:      "Drag duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
	}
}

func (c *Collector) DragStarted(uuid.UUID) {
	c.DragsStarted.Inc()
}

func (c *Collector) DragMoved(drag.Request) {
	c.LiveMoves.Inc()
}

func (c *Collector) DragDropped(req drag.Request, elapsed time.Duration) {
	outcome := DropInList
	if !req.CurrentPosition.Valid() {
		outcome = DropOutside
	}
	c.DragsDropped.WithLabelValues(outcome).Inc()
	c.DragDuration.Observe(elapsed.Seconds())
}

func (c *Collector) DragCancelled(elapsed time.Duration) {
	c.DragsCancelled.Inc()
	c.DragDuration.Observe(elapsed.Seconds())
}

func (c *Collector) AutoScrolled(direction int) {
	label := "down"
	if direction < 0 {
		label = "up"
	}
	c.AutoScrolls.WithLabelValues(label).Inc()
}

// Reordered counts a collection mutation. It fits policy.Policy's changed
// handler.
func (c *Collector) Reordered(op string) {
	c.Reorders.WithLabelValues(op).Inc()
}
