// Package caseid mints human-readable case identifiers.
package caseid

import (
	"fmt"
	"math/rand"
)

// Prefix is the constant identifier prefix.
const Prefix = "CS-"

const (
	low  = 100000
	high = 999999
)

// Generator mints identifiers of the form "CS-" followed by six digits drawn
// uniformly from [100000, 999999]. Generation itself never checks the store
// for collisions; the store rejects duplicate appends and the submit path
// retries, which keeps the one-record-per-id invariant without a registry
// inside the generator.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator backed by the given source. A nil source falls
// back to the shared global source.
func New(src rand.Source) *Generator {
	if src == nil {
		return &Generator{}
	}
	return &Generator{rng: rand.New(src)}
}

// Next returns a fresh identifier. It always succeeds.
func (g *Generator) Next() string {
	var n int
	if g.rng != nil {
		n = low + g.rng.Intn(high-low+1)
	} else {
		n = low + rand.Intn(high-low+1)
	}
	return fmt.Sprintf("%s%06d", Prefix, n)
}
