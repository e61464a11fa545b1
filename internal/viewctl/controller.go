package viewctl

import "sync"

// Controller serialises every event against one State. Handlers run to
// completion under mu, so timer callbacks and viewport events never
// interleave.
type Controller struct {
	opts  Options
	vp    Viewport
	sched Scheduler

	mu          sync.Mutex
	state       State
	initialized bool
	closed      bool
	splash      Timer
	rotate      Timer
	unlisten    []func()
	subs        map[int]chan State
	nextSub     int
}

// New validates opts and returns a controller whose active section is the
// first configured section.
func New(opts Options, vp Viewport, sched Scheduler) (*Controller, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}
	if sched == nil {
		sched = WallClock{}
	}
	sections := make([]string, len(opts.Sections))
	copy(sections, opts.Sections)
	opts.Sections = sections

	return &Controller{
		opts:  opts,
		vp:    vp,
		sched: sched,
		state: State{ActiveSection: sections[0], Phase: Loading},
		subs:  make(map[int]chan State),
	}, nil
}

// Options returns the effective options.
func (c *Controller) Options() Options {
	return c.opts
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Initialize shows the splash, schedules its dismissal and starts the role
// rotator. Only the first call has any effect.
func (c *Controller) Initialize() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized || c.closed {
		return
	}
	c.initialized = true
	c.state.Phase = Loading
	c.splash = c.sched.AfterFunc(c.opts.SplashDelay, c.splashDone)
	c.rotate = c.sched.Every(c.opts.RotateInterval, c.tick)
	c.publish()
}

func (c *Controller) splashDone() {
	c.update(func(s State) State { return ApplySplashDone(s) })
}

func (c *Controller) tick() {
	c.update(func(s State) State { return ApplyTick(s, c.opts.RoleCount) })
}

// OnScroll recomputes the scroll-derived flags from the viewport.
func (c *Controller) OnScroll() {
	if c.vp == nil {
		return
	}
	c.update(func(s State) State { return ApplyScroll(s, c.opts, c.vp) })
}

// OnPointerMove records the pointer position for the cursor follower.
func (c *Controller) OnPointerMove(x, y float64) {
	c.update(func(s State) State { return ApplyPointer(s, Point{X: x, Y: y}) })
}

// NavigateToSection asks the viewport to bring the section's anchor into
// view. Unknown ids and missing anchors are ignored.
func (c *Controller) NavigateToSection(id string) {
	if !c.live() || !c.opts.HasSection(id) || c.vp == nil {
		return
	}
	c.vp.ScrollIntoView(id, c.opts.Behavior)
}

// ScrollToTop asks the viewport to return to the origin.
func (c *Controller) ScrollToTop() {
	if !c.live() || c.vp == nil {
		return
	}
	c.vp.ScrollTo(0, c.opts.Behavior)
}

// Bind registers listener removal hooks that Teardown runs.
func (c *Controller) Bind(unlisten ...func()) {
	c.mu.Lock()
	if !c.closed {
		c.unlisten = append(c.unlisten, unlisten...)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	for _, f := range unlisten {
		f()
	}
}

// Subscribe returns a channel that receives the latest state after every
// change. Slow readers only ever see the most recent value.
func (c *Controller) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan State, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.state
	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
}

// Teardown stops both timers, removes bound listeners and closes
// subscriptions. Later events are dropped.
func (c *Controller) Teardown() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.splash != nil {
		c.splash.Stop()
	}
	if c.rotate != nil {
		c.rotate.Stop()
	}
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
	unlisten := c.unlisten
	c.unlisten = nil
	c.mu.Unlock()

	for _, f := range unlisten {
		f()
	}
}

// Closed reports whether Teardown has run.
func (c *Controller) Closed() bool {
	return !c.live()
}

func (c *Controller) live() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

func (c *Controller) update(f func(State) State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	next := f(c.state)
	if next == c.state {
		return
	}
	c.state = next
	c.publish()
}

// publish must be called with mu held.
func (c *Controller) publish() {
	for _, ch := range c.subs {
		select {
		case ch <- c.state:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- c.state
		}
	}
}
