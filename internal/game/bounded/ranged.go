package bounded

import "fmt"

// Ranged is a byte guaranteed to lie within the inclusive range [Min, Max].
// The bounds travel with the value so arithmetic can be checked against them.
//
// Invariant: Min < Max and Min <= Value <= Max.
type Ranged struct {
	value uint8
	min   uint8
	max   uint8
}

// NewRanged constructs a Ranged value.
//
// Precondition: min < max and min <= value <= max. A violation is a programming
// or content defect, so NewRanged panics rather than clamping.
func NewRanged(value, lo, hi uint8) Ranged {
	if lo >= hi {
		panic(fmt.Sprintf("bounded: NewRanged precondition violated: min %d must be lower than max %d", lo, hi))
	}
	if value < lo {
		panic(fmt.Sprintf("bounded: NewRanged precondition violated: value %d is lower than min %d", value, lo))
	}
	if value > hi {
		panic(fmt.Sprintf("bounded: NewRanged precondition violated: value %d is greater than max %d", value, hi))
	}
	return Ranged{value: value, min: lo, max: hi}
}

// TryRanged is the non-panicking form of NewRanged for values read at runtime.
//
// Postcondition: ok is false when NewRanged would panic.
func TryRanged(value, lo, hi uint8) (r Ranged, ok bool) {
	if lo >= hi || value < lo || value > hi {
		return Ranged{}, false
	}
	return Ranged{value: value, min: lo, max: hi}, true
}

// Value returns the wrapped byte.
func (r Ranged) Value() uint8 { return r.value }

// Min returns the inclusive lower bound.
func (r Ranged) Min() uint8 { return r.min }

// Max returns the inclusive upper bound.
func (r Ranged) Max() uint8 { return r.max }

// AboveMin reports whether the value is strictly greater than Min.
func (r Ranged) AboveMin() bool { return r.value > r.min }

// AtLeastMin reports whether the value is greater than or equal to Min.
func (r Ranged) AtLeastMin() bool { return r.value >= r.min }

// BelowMax reports whether the value is strictly lower than Max.
func (r Ranged) BelowMax() bool { return r.value < r.max }

// AtMostMax reports whether the value is lower than or equal to Max.
func (r Ranged) AtMostMax() bool { return r.value <= r.max }

// Add returns r + n within the same bounds.
//
// Postcondition: ok is false when the sum exceeds Max.
func (r Ranged) Add(n uint8) (Ranged, bool) {
	sum := uint16(r.value) + uint16(n)
	if sum > uint16(r.max) {
		return Ranged{}, false
	}
	return Ranged{value: uint8(sum), min: r.min, max: r.max}, true
}

// Sub returns r - n within the same bounds.
//
// Postcondition: ok is false when the difference falls below Min.
func (r Ranged) Sub(n uint8) (Ranged, bool) {
	diff := int16(r.value) - int16(n)
	if diff < int16(r.min) {
		return Ranged{}, false
	}
	return Ranged{value: uint8(diff), min: r.min, max: r.max}, true
}

func (r Ranged) String() string {
	return fmt.Sprintf("%d [%d..=%d]", r.value, r.min, r.max)
}
