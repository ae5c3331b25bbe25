package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator issues identifiers for new entities. Implementations must never repeat an id.
type IDGenerator interface {
	NewID(prefix string) string
}

// Prefixes used for each entity kind.
const (
	PrefixSWC         = "swc"
	PrefixPort        = "port"
	PrefixInterface   = "if"
	PrefixDataElement = "de"
	PrefixOperation   = "op"
	PrefixDataType    = "dt"
	PrefixRunnable    = "run"
	PrefixAccessPoint = "ap"
	PrefixComposition = "ecu"
	PrefixInstance    = "inst"
	PrefixConnector   = "conn"
	PrefixProposal    = "prop"
	PrefixProject     = "swcproj"
)

// UUIDGenerator is the default generator.
type UUIDGenerator struct{}

// NewID generates a new uuid-based ID with a prefix.
// Format: "prefix_hexstring" (e.g., "swc_4f1c0e1a9b2d4c6e8f0a1b2c3d4e5f60")
func (UUIDGenerator) NewID(prefix string) string {
	return NewID(prefix)
}

func NewID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, strings.ReplaceAll(uuid.New().String(), "-", ""))
}

// Sequence hands out "prefix_1", "prefix_2", ... per prefix. Used where ids must be reproducible.
type Sequence struct {
	mu   sync.Mutex
	next map[string]int
}

func NewSequence() *Sequence {
	return &Sequence{next: map[string]int{}}
}

func (s *Sequence) NewID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next[prefix]++
	return fmt.Sprintf("%s_%d", prefix, s.next[prefix])
}

// NewTextID generates a new human-readable numeric ID with a prefix (used for projects).
// Format: "prefix-12345-6789" (e.g., "swcproj-12345-6789")
func NewTextID(prefix string) (string, error) {
	a, err := randInt(10000, 99999)
	if err != nil {
		return "", err
	}
	b, err := randInt(1000, 9999)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%05d-%04d", prefix, a, b), nil
}

func randInt(min, max int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return 0, err
	}
	return min + n.Int64(), nil
}
