// Package identity generates the opaque identifiers pieces carry for
// completion tracking. Identifiers must be unique within a run only.
package identity

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Generator produces identifiers with a readable prefix.
type Generator interface {
	New(prefix string) string
}

// shortLen is how many hex characters of a UUID end up in an identifier.
const shortLen = 8

type uuidGenerator struct {
	mu     sync.Mutex
	source io.Reader
}

// NewUUID returns a Generator backed by random version 4 UUIDs.
func NewUUID() Generator {
	return &uuidGenerator{}
}

// NewSeeded returns a Generator that yields the same identifier sequence for
// the same seed.
func NewSeeded(seed int64) Generator {
	//nolint:gosec // identifiers, not secrets
	return &uuidGenerator{source: rand.New(rand.NewSource(seed))}
}

func (g *uuidGenerator) New(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var id uuid.UUID
	if g.source == nil {
		id = uuid.New()
	} else {
		var err error
		id, err = uuid.NewRandomFromReader(g.source)
		if err != nil {
			// math/rand readers never fail.
			panic(fmt.Sprintf("identity: seeded reader: %v", err))
		}
	}

	short := strings.ReplaceAll(id.String(), "-", "")[:shortLen]
	return join(prefix, short)
}

type sequence struct {
	mu sync.Mutex
	n  int
}

// NewSequence returns a Generator that appends 1, 2, 3, and so on.
func NewSequence() Generator {
	return &sequence{}
}

func (s *sequence) New(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return join(prefix, fmt.Sprint(s.n))
}

func join(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}
	return prefix + "-" + suffix
}
