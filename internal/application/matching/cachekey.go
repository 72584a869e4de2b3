package matching

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// CacheKeyPrefix starts every key returned by CacheKey.
const CacheKeyPrefix = "match:"

// CacheKey identifies the result of comparing model1 with model2 under opts.
// Workers does not change the result and is left out.
func CacheKey(model1, model2 []byte, opts Options) string {
	h := sha256.New()
	var n [8]byte
	for _, m := range [][]byte{model1, model2} {
		binary.BigEndian.PutUint64(n[:], uint64(len(m)))
		h.Write(n[:])
		h.Write(m)
	}
	var flags byte
	if opts.SingleCompartment {
		flags |= 1
	}
	if opts.BooleanOnly {
		flags |= 2
	}
	h.Write([]byte{flags})
	return CacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}
