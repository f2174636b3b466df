package id

import "github.com/google/uuid"

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// UUID issues random (v4) UUID strings, the same shape the tastings table uses as primary key.
type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}
