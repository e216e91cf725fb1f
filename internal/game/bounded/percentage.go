// Package bounded provides numeric primitives whose legal range is enforced
// at construction: unbounded and bounded percentages, and ranged bytes.
package bounded

import "math"

// Scalar is the set of units a Percentage may be expressed in.
//
// Floats use the full scale [0, 1]; uint8 uses [0, 255], which is how move
// accuracy is encoded.
type Scalar interface {
	float32 | float64 | uint8
}

// Origin returns the lower end of T's full scale.
//
// Postcondition: Returns 0 for every Scalar.
func Origin[T Scalar]() T {
	return 0
}

// Unity returns the upper end of T's full scale.
//
// Postcondition: Returns 1 for float units and math.MaxUint8 for uint8.
func Unity[T Scalar]() T {
	var zero T
	if _, ok := any(zero).(uint8); ok {
		return T(math.MaxUint8)
	}
	return 1
}

// InFullScale reports whether v lies within [Origin, Unity].
// NaN is never in range.
func InFullScale[T Scalar](v T) bool {
	return v >= Origin[T]() && v <= Unity[T]()
}

// Percentage wraps a scalar multiplier. It carries no range invariant; values
// above unity (e.g. 2.0 for super-effective) are legal.
type Percentage[T Scalar] struct {
	value T
}

// Of wraps v as a Percentage.
func Of[T Scalar](v T) Percentage[T] {
	return Percentage[T]{value: v}
}

// Value returns the wrapped scalar.
func (p Percentage[T]) Value() T { return p.value }

// Add returns p + other.
func (p Percentage[T]) Add(other Percentage[T]) Percentage[T] {
	return Percentage[T]{value: p.value + other.value}
}

// Mul returns p * other.
func (p Percentage[T]) Mul(other Percentage[T]) Percentage[T] {
	return Percentage[T]{value: p.value * other.value}
}

// Bound attempts to narrow p into a BoundedPercentage.
//
// Postcondition: ok is true iff Origin <= p.Value() <= Unity.
func (p Percentage[T]) Bound() (BoundedPercentage[T], bool) {
	return NewBoundedPercentage(p.value)
}

// BoundedPercentage is a Percentage guaranteed to lie within its unit's full
// scale. The zero value is Origin, which is in range.
//
// Invariant: Origin <= Value() <= Unity.
type BoundedPercentage[T Scalar] struct {
	value T
}

// NewBoundedPercentage constructs a BoundedPercentage from a raw scalar.
//
// Postcondition: ok is false and the result is the zero value when v is out of range.
func NewBoundedPercentage[T Scalar](v T) (BoundedPercentage[T], bool) {
	if !InFullScale(v) {
		return BoundedPercentage[T]{}, false
	}
	return BoundedPercentage[T]{value: v}, true
}

// Value returns the wrapped scalar.
func (b BoundedPercentage[T]) Value() T { return b.value }

// Percentage widens b back into an unbounded Percentage.
func (b BoundedPercentage[T]) Percentage() Percentage[T] {
	return Percentage[T]{value: b.value}
}
