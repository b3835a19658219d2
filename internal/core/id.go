package core

import "github.com/google/uuid"

// NewID returns a random identifier for an analysis run.
func NewID() string {
	return uuid.NewString()
}
