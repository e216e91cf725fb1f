// Package progression tracks experience and level advancement.
package progression

import (
	"github.com/cory-johannsen/pokerus/internal/game/bounded"
)

const (
	// MinLevel is the lowest legal level.
	MinLevel uint8 = 1
	// MaxLevel is the highest legal level.
	MaxLevel uint8 = 100
)

// Level is a combatant level within [MinLevel, MaxLevel].
type Level struct {
	value bounded.Ranged
}

// NewLevel constructs a Level.
//
// Precondition: MinLevel <= v <= MaxLevel; panics otherwise.
func NewLevel(v uint8) Level {
	return Level{value: bounded.NewRanged(v, MinLevel, MaxLevel)}
}

// ParseLevel is the non-panicking form of NewLevel for content values.
func ParseLevel(v int) (Level, bool) {
	if v < 0 || v > int(MaxLevel) {
		return Level{}, false
	}
	r, ok := bounded.TryRanged(uint8(v), MinLevel, MaxLevel)
	return Level{value: r}, ok
}

// Value returns the numeric level.
func (l Level) Value() uint8 { return l.value.Value() }

// NotAtMax reports whether the level can still increase.
func (l Level) NotAtMax() bool { return l.value.BelowMax() }

// Next returns the following level.
//
// Postcondition: ok is false at MaxLevel.
func (l Level) Next() (Level, bool) {
	r, ok := l.value.Add(1)
	if !ok {
		return l, false
	}
	return Level{value: r}, true
}

// Threshold is the experience window of the current level.
//
// Invariant: Current <= Next for well-formed content.
type Threshold struct {
	Current uint32
	Next    uint32
}

// Difference returns the width of the window.
func (t Threshold) Difference() uint32 {
	return t.Next - t.Current
}

// Experience is accumulated experience measured against a threshold window.
type Experience struct {
	Value     uint32
	Threshold Threshold
}

// InWindow reports whether Value lies within [Current, Next].
func (e Experience) InWindow() bool {
	return e.Threshold.Current <= e.Value && e.Value <= e.Threshold.Next
}

// Progress returns the experience earned since the current threshold.
//
// Postcondition: ok is false when Value lies outside the threshold window.
func (e Experience) Progress() (uint32, bool) {
	if !e.InWindow() {
		return 0, false
	}
	return e.Value - e.Threshold.Current, true
}

// Remainder returns the experience still needed to reach the next threshold.
//
// Postcondition: ok is false when Value lies outside the threshold window.
func (e Experience) Remainder() (uint32, bool) {
	if !e.InWindow() {
		return 0, false
	}
	return e.Threshold.Next - e.Value, true
}

// AsPercentage expresses Progress as a fraction of the window.
//
// Postcondition: ok is false when the ratio falls outside [0, 1], which
// indicates corrupt threshold bookkeeping; the value is never clamped.
func (e Experience) AsPercentage() (bounded.BoundedPercentage[float32], bool) {
	ratio := float32(int64(e.Value)-int64(e.Threshold.Current)) / float32(int64(e.Threshold.Next)-int64(e.Threshold.Current))
	return bounded.Of(ratio).Bound()
}

// AtNextThreshold reports whether Value equals the next threshold exactly.
func (e Experience) AtNextThreshold() bool {
	return e.Value == e.Threshold.Next
}

// Gain returns e with n more experience, saturating at the next threshold so
// a level-up is never skipped.
func (e Experience) Gain(n uint32) Experience {
	remaining := uint32(0)
	if e.Threshold.Next > e.Value {
		remaining = e.Threshold.Next - e.Value
	}
	if n > remaining {
		n = remaining
	}
	e.Value += n
	return e
}

// CanLevelUp reports whether lvl may advance given exp.
//
// Postcondition: true iff lvl is below MaxLevel and exp sits exactly at its next threshold.
func CanLevelUp(lvl Level, exp Experience) bool {
	return lvl.NotAtMax() && exp.AtNextThreshold()
}

// LevelUp advances lvl and rolls the threshold window forward to end at next.
//
// Precondition: next > exp.Threshold.Next.
// Postcondition: ok is false and the inputs are returned unchanged when
// CanLevelUp is false or next does not extend the window.
func LevelUp(lvl Level, exp Experience, next uint32) (Level, Experience, bool) {
	if !CanLevelUp(lvl, exp) || next <= exp.Threshold.Next {
		return lvl, exp, false
	}
	nl, ok := lvl.Next()
	if !ok {
		return lvl, exp, false
	}
	exp.Threshold = Threshold{Current: exp.Threshold.Next, Next: next}
	return nl, exp, true
}
