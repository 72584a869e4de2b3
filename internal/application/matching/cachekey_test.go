package matching

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKey(t *testing.T) {
	a := []byte("reaction;R1;A = B;;;;\n")
	b := []byte("reaction;X1;B = A;;;;\n")

	key := CacheKey(a, b, Options{})
	assert.True(t, strings.HasPrefix(key, "match:"))
	assert.Len(t, key, len("match:")+64)

	assert.Equal(t, key, CacheKey(a, b, Options{Workers: 8}))
	assert.NotEqual(t, key, CacheKey(b, a, Options{}))
	assert.NotEqual(t, key, CacheKey(a, b, Options{BooleanOnly: true}))
	assert.NotEqual(t, key, CacheKey(a, b, Options{SingleCompartment: true}))
	assert.NotEqual(t,
		CacheKey(a, b, Options{BooleanOnly: true}),
		CacheKey(a, b, Options{SingleCompartment: true}))
	// Boundary between the two models is part of the key.
	assert.NotEqual(t, CacheKey([]byte("ab"), []byte("c"), Options{}), CacheKey([]byte("a"), []byte("bc"), Options{}))
}
