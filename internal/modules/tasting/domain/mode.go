package domain

import "fmt"

type Mode string

const (
	ModeCafe     Mode = "cafe"
	ModeHomeCafe Mode = "homecafe"
	ModePro      Mode = "pro"
)

var Modes = []Mode{ModeCafe, ModeHomeCafe, ModePro}

func (m Mode) Validate() error {
	switch m {
	case ModeCafe, ModeHomeCafe, ModePro:
		return nil
	case "":
		return ErrMissingMode
	default:
		return fmt.Errorf("%w: %q", ErrCorruptedMode, string(m))
	}
}

// UsesBrewSettings reports whether the mode records a home or lab recipe.
func (m Mode) UsesBrewSettings() bool {
	return m == ModeHomeCafe || m == ModePro
}
