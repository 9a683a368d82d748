package utils

import "github.com/google/uuid"

// IDGenerator produces unique string ids.
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator produces time-ordered UUIDv7 strings.
type UUIDGenerator struct {
}

// NewUUIDGenerator returns a UUIDGenerator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a UUIDv7, falling back to a random UUIDv4.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
