// Package gesture turns raw touch samples into pointer commands.
package gesture

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Profile names shipped with the recognizer.
const (
	ProfileStandard  = "standard"
	ProfileImmediate = "immediate"
)

// Profile holds the thresholds that shape gesture interpretation.
type Profile struct {
	Name string `yaml:"name"`
	// TapInterval is the maximum gap between two stroke starts that counts as a repeated tap.
	TapInterval time.Duration `yaml:"tap_interval"`
	// HoldDelay is how long a stationary double-tap must be held to start a drag.
	HoldDelay time.Duration `yaml:"hold_delay"`
	// TapConfirm is the grace window before a single tap commits to a left click.
	TapConfirm time.Duration `yaml:"tap_confirm"`
	// TapMaxDuration is the longest stroke that still counts as a tap.
	TapMaxDuration time.Duration `yaml:"tap_max_duration"`
	// MoveThreshold is the distance from the stroke origin, in device pixels, that marks a stroke as moved.
	MoveThreshold float64 `yaml:"move_threshold"`
	// ScrollThreshold is the vertical travel on the scroll strip that produces one tick.
	ScrollThreshold float64 `yaml:"scroll_threshold"`
	// ScrollTicks is the scroll amount emitted per tick.
	ScrollTicks int `yaml:"scroll_ticks"`
	// Sensitivity is the initial pointer multiplier for new sessions.
	Sensitivity float64 `yaml:"sensitivity"`
	// ImmediateTap clicks at stroke end without a grace window and disables double-tap right click.
	ImmediateTap bool `yaml:"immediate_tap"`
}

// Standard returns the default double-tap-aware profile.
func Standard() Profile {
	return Profile{
		Name:            ProfileStandard,
		TapInterval:     300 * time.Millisecond,
		HoldDelay:       200 * time.Millisecond,
		TapConfirm:      250 * time.Millisecond,
		TapMaxDuration:  300 * time.Millisecond,
		MoveThreshold:   5,
		ScrollThreshold: 10,
		ScrollTicks:     3,
		Sensitivity:     2.0,
	}
}

// Immediate returns a profile where taps click right away.
func Immediate() Profile {
	p := Standard()
	p.Name = ProfileImmediate
	p.ImmediateTap = true
	return p
}

// Builtin returns the shipped profiles keyed by name.
func Builtin() map[string]Profile {
	return map[string]Profile{
		ProfileStandard:  Standard(),
		ProfileImmediate: Immediate(),
	}
}

// Names returns the sorted keys of a profile set.
func Names(set map[string]Profile) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Validate reports the first threshold that is out of range.
func (p Profile) Validate() error {
	switch {
	case p.TapInterval <= 0:
		return fmt.Errorf("profile %q: tap_interval must be > 0", p.Name)
	case p.HoldDelay <= 0:
		return fmt.Errorf("profile %q: hold_delay must be > 0", p.Name)
	case p.TapConfirm <= 0:
		return fmt.Errorf("profile %q: tap_confirm must be > 0", p.Name)
	case p.TapMaxDuration <= 0:
		return fmt.Errorf("profile %q: tap_max_duration must be > 0", p.Name)
	case p.MoveThreshold < 0:
		return fmt.Errorf("profile %q: move_threshold must be >= 0", p.Name)
	case p.ScrollThreshold <= 0:
		return fmt.Errorf("profile %q: scroll_threshold must be > 0", p.Name)
	case p.ScrollTicks <= 0:
		return fmt.Errorf("profile %q: scroll_ticks must be > 0", p.Name)
	case !validSensitivity(p.Sensitivity):
		return fmt.Errorf("profile %q: sensitivity must be > 0", p.Name)
	}
	return nil
}

// validSensitivity reports whether v is a usable multiplier.
func validSensitivity(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
