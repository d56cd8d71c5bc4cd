// Package id generates request identifiers.
package id

import "github.com/google/uuid"

// Generator creates time-ordered UUID request ids.
type Generator struct{}

// NewRequestID returns a UUIDv7 string, falling back to a random v4 if the v7 source fails.
func (Generator) NewRequestID() string {
	if v7, err := uuid.NewV7(); err == nil {
		return v7.String()
	}
	return uuid.NewString()
}
