package compare

import (
	"slices"
)

// Set groups a container's hashed children into buckets keyed by partial
// hash. Full is the set's aggregate hash; two sets with equal aggregates
// hold exactly the same statements.
type Set struct {
	Full    Digest
	buckets map[Digest]*Subset
}

// emptySetDigest is the aggregate of a container with no children, so an
// empty set still has a defined hash distinct from any real aggregate.
var emptySetDigest = hashRaw([]byte("<empty-set>"))

func newSet() *Set {
	return &Set{buckets: make(map[Digest]*Subset)}
}

func (s *Set) add(n *Node) {
	sub := s.buckets[n.Partial]
	if sub == nil {
		sub = newSubset(n.AST.Flavor)
		s.buckets[n.Partial] = sub
	}
	sub.add(n)
}

// finalize seals every bucket and computes the aggregate hash from the
// sorted bucket hashes.
func (s *Set) finalize() {
	if len(s.buckets) == 0 {
		s.Full = emptySetDigest
		return
	}
	hashes := make([]Digest, 0, len(s.buckets))
	for _, sub := range s.buckets {
		sub.finalize()
		hashes = append(hashes, sub.Full)
	}
	slices.SortFunc(hashes, func(d1, d2 Digest) int {
		return compareDigests(&d1, &d2)
	})
	data := make([]byte, 0, len(hashes)*DigestSize)
	for _, d := range hashes {
		data = append(data, d[:]...)
	}
	s.Full = hashRaw(data)
}

// sortedKeys returns the bucket keys in digest order so every walk over
// the set is deterministic.
func (s *Set) sortedKeys() []Digest {
	keys := make([]Digest, 0, len(s.buckets))
	for key := range s.buckets {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(d1, d2 Digest) int {
		return compareDigests(&d1, &d2)
	})
	return keys
}

func compareSets(left, right *Set, sink Sink) {
	if left.Full == right.Full {
		return
	}
	for _, key := range left.sortedKeys() {
		compareSubsets(left.buckets[key], right.buckets[key], sink)
	}
	for _, key := range right.sortedKeys() {
		if _, ok := left.buckets[key]; ok {
			continue
		}
		compareSubsets(nil, right.buckets[key], sink)
	}
}

// setSim accumulates bucket similarities. A right bucket that has a left
// counterpart was already counted on the left pass.
func setSim(left, right *Set) Sim {
	var sim Sim
	for _, key := range left.sortedKeys() {
		sim.add(subsetSim(left.buckets[key], right.buckets[key]))
	}
	for _, key := range right.sortedKeys() {
		if _, ok := left.buckets[key]; ok {
			continue
		}
		sim.add(subsetSim(nil, right.buckets[key]))
	}
	return sim
}
