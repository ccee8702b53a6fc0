package signaling

import (
	"strings"
	"testing"

	"github.com/tj/assert"
)

func TestAlnumKeys(t *testing.T) {
	g := AlnumKeys{Length: 4}
	for i := 0; i < 200; i++ {
		key := g.Generate()
		assert.Len(t, key, 4)
		for _, r := range key {
			assert.True(t, strings.ContainsRune(keyAlphabet, r), "unexpected rune %q in %q", r, key)
		}
	}
}

func TestWordKeys(t *testing.T) {
	key := WordKeys{Count: 3}.Generate()
	words := strings.Split(key, "-")
	assert.Len(t, words, 3)
	for _, w := range words {
		assert.Contains(t, keyWords, w)
	}
}

func TestNewKeyGenerator(t *testing.T) {
	g, err := NewKeyGenerator("alnum", 6)
	assert.NoError(t, err)
	assert.Len(t, g.Generate(), 6)

	g, err = NewKeyGenerator("words", 2)
	assert.NoError(t, err)
	assert.Len(t, strings.Split(g.Generate(), "-"), 2)

	_, err = NewKeyGenerator("emoji", 4)
	assert.Error(t, err)

	_, err = NewKeyGenerator("alnum", 0)
	assert.Error(t, err)
}
