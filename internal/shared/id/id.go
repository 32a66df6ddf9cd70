// Package id provides ID generation for engines, intents and traces.
//
// IDs are prefixed ULIDs:
//   - Lexicographic sortability: intents and spans order by creation time
//   - Prefixed types: eng_*, int_*, span_* read clearly in logs
//   - Type safety: separate types prevent mixing engine and intent IDs
//
// Focusable IDs are chosen by the host and are never generated here.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// EngineID identifies one engine instance (one mounted view)
type EngineID string

// IntentID identifies a router intent
type IntentID string

// SpanID identifies a traced engine command
type SpanID string

const (
	EnginePrefix = "eng"
	IntentPrefix = "int"
	SpanPrefix   = "span"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
	now       func() time.Time
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the shared generator
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator with monotonic entropy seeded from crypto/rand.
// Monotonic entropy keeps IDs minted within the same millisecond ordered.
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source and clock.
// Tests use it for deterministic IDs.
func NewGeneratorWithEntropy(entropy io.Reader, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{entropy: entropy, now: now}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewEngineID generates a new engine ID
func NewEngineID() EngineID {
	return EngineID(Default().GenerateWithPrefix(EnginePrefix))
}

// NewIntentID generates a new intent ID
func NewIntentID() IntentID {
	return IntentID(Default().GenerateWithPrefix(IntentPrefix))
}

// NewSpanID generates a new span ID
func NewSpanID() SpanID {
	return SpanID(Default().GenerateWithPrefix(SpanPrefix))
}

func (id EngineID) String() string { return string(id) }
func (id IntentID) String() string { return string(id) }
func (id SpanID) String() string   { return string(id) }

// IsValid checks if an ID string is a valid ULID
func IsValid(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}
