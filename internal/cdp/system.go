package cdp

import (
	"errors"
	"fmt"
)

// System identifies one of the external Customer Data Platforms a lead can be
// delivered to. The set is closed; adding a platform means adding a constant
// here and its config block in internal/config.
type System string

const (
	SalesManago    System = "SalesManago"
	Murapol        System = "Murapol"
	DomDevelopment System = "DomDevelopment"
)

// ErrUnknownSystem is returned for system names outside the closed set.
var ErrUnknownSystem = errors.New("unknown CDP system")

// AllSystems returns every known CDP system in a stable order.
func AllSystems() []System {
	return []System{SalesManago, Murapol, DomDevelopment}
}

// ParseSystem validates a raw system name against the closed set.
func ParseSystem(name string) (System, error) {
	switch System(name) {
	case SalesManago, Murapol, DomDevelopment:
		return System(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSystem, name)
	}
}
