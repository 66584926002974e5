// Package variant picks which model of a union describes a value.
//
// Resolve walks the Set in declaration order and returns the first model the
// value validates against. There is no scoring: when several variants accept
// the value, the one declared first wins, so a union of PlaneItem and CarItem
// returns PlaneItem for any value that carries every PlaneItem field.
// When nothing matches, the returned *NoMatchError lists every attempt and
// unwraps to ErrNoMatchingVariant.
package variant
