// Package matchup resolves elemental affinity matchups into effectiveness
// multipliers, including immunity.
package matchup

// Outcome is the result of an effectiveness check: either Affected with a
// payload, or Unaffected. The zero value is Unaffected.
//
// Unaffected is absorbing under AndThen.
type Outcome[T any] struct {
	value    T
	affected bool
}

// Affected wraps v as an affected outcome.
func Affected[T any](v T) Outcome[T] {
	return Outcome[T]{value: v, affected: true}
}

// Unaffected returns the immune outcome.
func Unaffected[T any]() Outcome[T] {
	return Outcome[T]{}
}

// FromOptional converts a comma-ok pair: ok maps to Affected, !ok to Unaffected.
func FromOptional[T any](v T, ok bool) Outcome[T] {
	if !ok {
		return Unaffected[T]()
	}
	return Affected(v)
}

// Get returns the payload and whether the outcome is Affected.
func (o Outcome[T]) Get() (T, bool) {
	return o.value, o.affected
}

// IsAffected reports whether o carries a payload.
func (o Outcome[T]) IsAffected() bool { return o.affected }

// Or returns o if it is Affected, otherwise other.
func (o Outcome[T]) Or(other Outcome[T]) Outcome[T] {
	if o.affected {
		return o
	}
	return other
}

// Map transforms the payload of an Affected outcome, leaving Unaffected untouched.
func Map[T, U any](o Outcome[T], f func(T) U) Outcome[U] {
	if !o.affected {
		return Unaffected[U]()
	}
	return Affected(f(o.value))
}

// AndThen chains o into f. The chain collapses to Unaffected if either o or
// the outcome returned by f is Unaffected; f is not called when o is Unaffected.
func AndThen[T, U any](o Outcome[T], f func(T) Outcome[U]) Outcome[U] {
	if !o.affected {
		return Unaffected[U]()
	}
	return f(o.value)
}
