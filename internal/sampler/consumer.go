package sampler

import (
	"time"

	"sysdash/internal/snapshot"
	"sysdash/internal/window"
)

// Update is what the loop publishes after a successful tick. It is never
// modified after publication.
type Update struct {
	Snapshot snapshot.SystemSnapshot `json:"snapshot"`
	Windows  map[string][]float64    `json:"windows"`
	Series   []window.Series         `json:"series"`
	Capacity int                     `json:"capacity"`
	Tick     uint64                  `json:"tick"`
	At       time.Time               `json:"at"`
}

// Consumer receives every publication. Both methods are called from the loop
// goroutine and must not block for long.
type Consumer interface {
	OnUpdate(Update)
	OnError(error)
}

// ConsumerFuncs adapts a pair of functions to Consumer. Nil fields are skipped.
type ConsumerFuncs struct {
	Update func(Update)
	Error  func(error)
}

func (f ConsumerFuncs) OnUpdate(u Update) {
	if f.Update != nil {
		f.Update(u)
	}
}

func (f ConsumerFuncs) OnError(err error) {
	if f.Error != nil {
		f.Error(err)
	}
}
