// Package clock provides a tiny time abstraction.
//
// Use cases depend on Clocker instead of calling time.Now directly, so tests
// can pin timestamps with Fixed.
package clock
