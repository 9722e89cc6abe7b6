package stability

import (
	"math"
	"time"
)

// Window is a transition window relative to sunrise (SA) and sunset (SU).
type Window int

const (
	WindowNone Window = iota
	WindowSA1ToSA2
	WindowSA2ToSA3
	WindowSU2ToSU1
	WindowSU1ToSU
	WindowSUToSU1
)

var windowLabels = [...]string{
	WindowNone:     "",
	WindowSA1ToSA2: "SA+1..SA+2",
	WindowSA2ToSA3: "SA+2..SA+3",
	WindowSU2ToSU1: "SU-2..SU-1",
	WindowSU1ToSU:  "SU-1..SU",
	WindowSUToSU1:  "SU..SU+1",
}

func (w Window) String() string {
	if w < 0 || int(w) >= len(windowLabels) {
		return ""
	}
	return windowLabels[w]
}

// TransitionWindow assigns the transition window for offsets (in hours) from
// sunrise and sunset. Predicates are tested in a fixed order and a later match
// replaces an earlier one.
func TransitionWindow(dsa, dsu float64) Window {
	w := WindowNone
	if dsa >= 0 && dsa < 1 {
		w = WindowSA1ToSA2
	}
	if dsa >= 1 && dsa < 2 {
		w = WindowSA1ToSA2
	}
	if dsa >= 2 && dsa < 3 {
		w = WindowSA2ToSA3
	}
	if dsu >= -2 && dsu < -1 {
		w = WindowSU2ToSU1
	}
	if dsu >= -1 && dsu < 0 {
		w = WindowSU1ToSU
	}
	if dsu >= 0 && dsu < 1 {
		w = WindowSUToSU1
	}
	return w
}

// ResolveTransition returns the corrected class for an observation in window w.
// When the (night, day, window) triple has no table entry the base class is
// returned unchanged. wind and cloud are NaN when undefined.
func ResolveTransition(night, day Class, w Window, base Class, month time.Month, wind, cloud float64) Class {
	if w == WindowNone {
		return base
	}
	e, ok := transitionTable[transitionKey{night, day, w}]
	if !ok {
		return base
	}
	if e.alt == ClassUndefined {
		return e.def
	}
	switch e.guard {
	case guardA:
		if month >= time.March && month <= time.November && wind >= 1.3 {
			return e.alt
		}
	case guardB:
		if isWinter(month) && wind < 1.3 && cloud <= 6 {
			return e.alt
		}
	}
	return e.def
}

func isWinter(m time.Month) bool {
	return m == time.December || m == time.January || m == time.February
}

// hoursBetween returns (a - b) in fractional hours.
func hoursBetween(a, b time.Time) float64 {
	if a.IsZero() || b.IsZero() {
		return math.NaN()
	}
	return a.Sub(b).Hours()
}
