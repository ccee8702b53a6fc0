package signaling

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/BioHazard786/peerlink/internal/config"
)

const keyAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// KeyGenerator produces room join keys. Keys are not unique; rooms are
// identified by their host, so a repeated key only makes guessing easier.
type KeyGenerator interface {
	Generate() string
}

// NewKeyGenerator returns the generator for a configured key style.
func NewKeyGenerator(style string, length int) (KeyGenerator, error) {
	if length <= 0 {
		return nil, fmt.Errorf("key length must be positive, got %d", length)
	}
	switch style {
	case config.KeyStyleAlnum, "":
		return AlnumKeys{Length: length}, nil
	case config.KeyStyleWords:
		return WordKeys{Count: length}, nil
	default:
		return nil, fmt.Errorf("unknown key style %q", style)
	}
}

// AlnumKeys generates lowercase base-36 keys, e.g. "k3x9".
type AlnumKeys struct {
	Length int
}

func (g AlnumKeys) Generate() string {
	var b strings.Builder
	b.Grow(g.Length)
	for i := 0; i < g.Length; i++ {
		b.WriteByte(keyAlphabet[randomIndex(len(keyAlphabet))])
	}
	return b.String()
}

// WordKeys generates hyphenated word keys, e.g. "maple-comet-reed-frost".
type WordKeys struct {
	Count int
}

func (g WordKeys) Generate() string {
	words := make([]string, g.Count)
	for i := range words {
		words[i] = keyWords[randomIndex(len(keyWords))]
	}
	return strings.Join(words, "-")
}

// randomIndex returns a cryptographically secure random index for a slice of given length.
func randomIndex(max int) int {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(fmt.Sprintf("failed to generate random index: %v", err))
	}
	return int(n.Int64())
}
