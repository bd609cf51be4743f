package graph

import "github.com/minio/highwayhash"

// hashKey is a fixed 32-byte key; content fingerprints only need to be
// stable within a single run, not cryptographically keyed per-deployment.
var hashKey = []byte("MyceliumDuplicateContentKey0123!")

// ContentHash fingerprints file bytes for the duplicate-content diagnostic
// (structure phase, logged only, never part of the output schema),
// adapted from the teacher's inspector/graph/hash.go.
func ContentHash(data []byte) (uint64, error) {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return 0, err
	}
	if _, err := h.Write(data); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
