package event

import (
	"fmt"
	"time"
)

type lifetimeKind uint8

const (
	kindDefault lifetimeKind = iota
	kindForever
	kindFinite
)

// Lifetime describes how long an Event stays in its feed.
// The zero value is Default.
type Lifetime struct {
	d    time.Duration
	kind lifetimeKind
}

// Default returns a Lifetime that is replaced by the owning renderer's base lifetime on Add.
func Default() Lifetime {
	return Lifetime{kind: kindDefault}
}

// Forever returns a Lifetime that never expires.
func Forever() Lifetime {
	return Lifetime{kind: kindForever}
}

// For returns a finite Lifetime. Non-positive durations never expire.
func For(d time.Duration) Lifetime {
	if d <= 0 {
		return Forever()
	}

	return Lifetime{kind: kindFinite, d: d}
}

// Millis converts a configuration value in milliseconds into a Lifetime.
func Millis(ms int64) Lifetime {
	return For(time.Duration(ms) * time.Millisecond)
}

// IsDefault reports whether the lifetime is still unresolved.
func (l Lifetime) IsDefault() bool { return l.kind == kindDefault }

// IsForever reports whether the lifetime never expires.
func (l Lifetime) IsForever() bool { return l.kind == kindForever }

// Duration returns the finite lifetime, or 0 for Default and Forever.
func (l Lifetime) Duration() time.Duration {
	if l.kind != kindFinite {
		return 0
	}

	return l.d
}

// Expired reports whether an event of the given age has outlived l.
// Only finite lifetimes expire.
func (l Lifetime) Expired(age time.Duration) bool {
	return l.kind == kindFinite && age > l.d
}

func (l Lifetime) String() string {
	switch l.kind {
	case kindDefault:
		return "default"
	case kindForever:
		return "forever"
	default:
		return fmt.Sprint(l.d)
	}
}
