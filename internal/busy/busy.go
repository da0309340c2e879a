// Package busy implements the process-wide loading indicator as a reference
// count, so overlapping requests cannot clear each other's state.
package busy

import (
	"sync"
	"sync/atomic"
)

// Gauge receives the in-flight count on every change.
type Gauge interface {
	Set(float64)
}

type Indicator struct {
	count atomic.Int64
	gauge Gauge
}

func New(gauge Gauge) *Indicator {
	return &Indicator{gauge: gauge}
}

// Begin marks the start of an operation. The returned func marks its end;
// calling it more than once has no further effect.
func (i *Indicator) Begin() func() {
	i.publish(i.count.Add(1))
	var once sync.Once
	return func() {
		once.Do(func() {
			i.publish(i.count.Add(-1))
		})
	}
}

// Busy reports whether any operation is outstanding.
func (i *Indicator) Busy() bool {
	return i.count.Load() > 0
}

// InFlight returns the number of outstanding operations.
func (i *Indicator) InFlight() int64 {
	return i.count.Load()
}

func (i *Indicator) publish(n int64) {
	if i.gauge != nil {
		i.gauge.Set(float64(n))
	}
}
