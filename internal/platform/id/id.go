package id

import "github.com/google/uuid"

// Generator creates opaque identifiers (device ids, IPC socket names,
// history rows).
type Generator interface {
	New() string
}

type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}
