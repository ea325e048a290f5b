package core

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

// ClientIDGenerator defines the interface for generating client IDs.
type ClientIDGenerator interface {
	GenerateClientID() (string, error)
}

// clientIDPattern matches generated IDs: CL-<millis>-<6 alphanumerics>.
var clientIDPattern = regexp.MustCompile(`^CL-\d+-[a-z0-9]{6}$`)

const idSuffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
const idSuffixLength = 6

// timestampIDGenerator implements ClientIDGenerator with a millisecond
// timestamp plus a short random suffix. Collisions are not checked here;
// the importer's duplicate probe catches them before any write.
type timestampIDGenerator struct {
	now func() time.Time
}

// NewClientIDGenerator creates a ClientIDGenerator producing IDs of the form
// CL-<unix-millis>-<random>.
func NewClientIDGenerator() ClientIDGenerator {
	return &timestampIDGenerator{now: time.Now}
}

func (g *timestampIDGenerator) GenerateClientID() (string, error) {
	suffix := make([]byte, idSuffixLength)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(idSuffixAlphabet))))
		if err != nil {
			return "", fmt.Errorf("generating client ID suffix: %w", err)
		}
		suffix[i] = idSuffixAlphabet[n.Int64()]
	}
	return fmt.Sprintf("CL-%d-%s", g.now().UnixMilli(), suffix), nil
}

// IsGeneratedClientID reports whether id has the generated CL-<millis>-<random>
// shape. Imported records may carry arbitrary caller-chosen IDs, which are
// accepted as-is; this only identifies IDs this system minted.
func IsGeneratedClientID(id string) bool {
	return clientIDPattern.MatchString(id)
}
