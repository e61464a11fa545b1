// Package viewctl keeps the portfolio's transient interaction state in step
// with viewport signals.
//
// A Controller owns one State and is the only writer to it. Renderers (the
// HTTP page binding and the terminal UI) feed it scroll, pointer and timer
// events and read snapshots back. The reducers in this file are pure so that
// each transition can be exercised without a Controller.
package viewctl

// Phase is the loading splash state. Loading is initial, Ready is terminal.
type Phase int

const (
	Loading Phase = iota
	Ready
)

func (p Phase) String() string {
	if p == Ready {
		return "ready"
	}
	return "loading"
}

// Rect is a section's vertical extent in viewport coordinates.
type Rect struct {
	Top    float64
	Bottom float64
}

// Point is a raw viewport coordinate.
type Point struct {
	X float64
	Y float64
}

// State is the interaction state shared with renderers.
type State struct {
	ActiveSection    string
	Phase            Phase
	ScrollTopVisible bool
	RoleIndex        int
	Cursor           Point
	ScrollY          float64
}

// LoadingVisible reports whether the splash overlay should be drawn.
func (s State) LoadingVisible() bool {
	return s.Phase == Loading
}

// ApplyScroll derives the scroll-dependent flags from the viewport.
//
// The first section, in list order, that straddles the active line wins.
// When none does the previous ActiveSection is kept.
func ApplyScroll(s State, o Options, vp Viewport) State {
	y := vp.ScrollY()
	s.ScrollY = y
	s.ScrollTopVisible = y > o.ScrollTopThreshold

	for _, id := range o.Sections {
		r, ok := vp.SectionRect(id)
		if !ok {
			continue
		}
		if r.Top <= o.ActiveLine && r.Bottom >= o.ActiveLine {
			s.ActiveSection = id
			break
		}
	}
	return s
}

// ApplyPointer records the pointer position. No bounds are enforced.
func ApplyPointer(s State, p Point) State {
	s.Cursor = p
	return s
}

// ApplyTick advances the rotating role label modulo n.
func ApplyTick(s State, n int) State {
	if n <= 0 {
		return s
	}
	s.RoleIndex = (s.RoleIndex + 1) % n
	return s
}

// ApplySplashDone moves Loading to Ready. Ready stays Ready.
func ApplySplashDone(s State) State {
	s.Phase = Ready
	return s
}
