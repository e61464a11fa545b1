package viewctl

import (
	"errors"
	"fmt"
	"time"
)

// Default timings and thresholds.
const (
	DefaultSplashDelay        = 2500 * time.Millisecond
	DefaultRotateInterval     = 3 * time.Second
	DefaultScrollTopThreshold = 400
	DefaultActiveLine         = 100
)

var (
	ErrNoSections   = errors.New("viewctl: no sections")
	ErrInvalidRoles = errors.New("viewctl: role count must be at least 1")
)

// Behavior selects how the viewport moves when asked to scroll.
type Behavior int

const (
	Smooth Behavior = iota
	Instant
)

// Options is the fixed configuration of a Controller.
type Options struct {
	// Sections is the ordered, enumerated set of section identifiers.
	Sections []string
	// RoleCount is the length of the rotating role label list.
	RoleCount int

	SplashDelay        time.Duration
	RotateInterval     time.Duration
	ScrollTopThreshold float64
	ActiveLine         float64
	Behavior           Behavior
}

// withDefaults fills zero values.
func (o Options) withDefaults() Options {
	if o.SplashDelay == 0 {
		o.SplashDelay = DefaultSplashDelay
	}
	if o.RotateInterval == 0 {
		o.RotateInterval = DefaultRotateInterval
	}
	if o.ScrollTopThreshold == 0 {
		o.ScrollTopThreshold = DefaultScrollTopThreshold
	}
	if o.ActiveLine == 0 {
		o.ActiveLine = DefaultActiveLine
	}
	return o
}

// Normalize fills defaults and validates the result.
func (o Options) Normalize() (Options, error) {
	o = o.withDefaults()
	return o, o.validate()
}

func (o Options) validate() error {
	if len(o.Sections) == 0 {
		return ErrNoSections
	}
	seen := make(map[string]struct{}, len(o.Sections))
	for _, id := range o.Sections {
		if id == "" {
			return fmt.Errorf("viewctl: empty section id")
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("viewctl: duplicate section id %q", id)
		}
		seen[id] = struct{}{}
	}
	if o.RoleCount < 1 {
		return ErrInvalidRoles
	}
	if o.SplashDelay < 0 || o.RotateInterval <= 0 {
		return fmt.Errorf("viewctl: timer durations must be positive")
	}
	return nil
}

// HasSection reports whether id is one of the configured sections.
func (o Options) HasSection(id string) bool {
	for _, s := range o.Sections {
		if s == id {
			return true
		}
	}
	return false
}
