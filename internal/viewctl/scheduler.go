package viewctl

import (
	"sync"
	"time"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs callbacks after a delay or on a fixed interval.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Every(d time.Duration, f func()) Timer
}

// Viewport is the surface the controller reads geometry from and asks to
// scroll. Implementations decide how Smooth easing is rendered.
type Viewport interface {
	ScrollY() float64
	// SectionRect returns false when the section has no anchor.
	SectionRect(id string) (Rect, bool)
	// ScrollIntoView returns false when the section has no anchor.
	ScrollIntoView(id string, b Behavior) bool
	ScrollTo(y float64, b Behavior)
}

// WallClock schedules on the runtime timer heap.
type WallClock struct{}

func (WallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (WallClock) Every(d time.Duration, f func()) Timer {
	t := &ticker{t: time.NewTicker(d), done: make(chan struct{})}
	go func() {
		for {
			select {
			case <-t.t.C:
				f()
			case <-t.done:
				return
			}
		}
	}()
	return t
}

type ticker struct {
	t    *time.Ticker
	done chan struct{}
	once sync.Once
}

func (t *ticker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.t.Stop()
		close(t.done)
		stopped = true
	})
	return stopped
}
