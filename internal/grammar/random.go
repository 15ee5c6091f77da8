package grammar

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// NewRand returns the deterministic stream used for one generation run.
func NewRand(seed int64) *rand.Rand {
	// #nosec G404 -- reproducible trees need a seeded, non-cryptographic PRNG
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}
