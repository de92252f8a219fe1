package compare

import (
	"slices"

	"github.com/odvcencio/cildiff/pkg/cil"
)

// Subset is one bucket of a Set: the statements sharing a partial hash,
// deduplicated and keyed by full hash.
type Subset struct {
	Flavor cil.Flavor
	Full   Digest
	items  map[Digest]*Node
}

func newSubset(flavor cil.Flavor) *Subset {
	return &Subset{Flavor: flavor, items: make(map[Digest]*Node)}
}

// add inserts a node; an exact duplicate collapses silently.
func (s *Subset) add(n *Node) {
	s.items[n.Full] = n
}

// finalize computes the bucket hash. A single-member bucket takes its
// member's hash directly so a statement hashes the same whether or not it
// shares its bucket.
func (s *Subset) finalize() {
	if len(s.items) == 1 {
		for _, n := range s.items {
			s.Full = n.Full
		}
		return
	}
	hashes := s.sortedKeys()
	data := make([]byte, 0, len(hashes)*DigestSize)
	for _, d := range hashes {
		data = append(data, d[:]...)
	}
	s.Full = hashRaw(data)
}

func (s *Subset) sortedKeys() []Digest {
	keys := make([]Digest, 0, len(s.items))
	for key := range s.items {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(d1, d2 Digest) int {
		return compareDigests(&d1, &d2)
	})
	return keys
}

// matchPolicy selects how the two sides of a bucket pair up.
type matchPolicy int

const (
	// matchFlat reports members missing from the other side as-is.
	matchFlat matchPolicy = iota
	// matchSingle descends into the pair when each side holds exactly one
	// member, for containers whose bucket key pins their identity.
	matchSingle
	// matchSimilarity ranks cross pairs by content overlap and descends
	// into the best matches, for containers that may have been renamed.
	matchSimilarity
)

func policyFor(flavor cil.Flavor) matchPolicy {
	switch flavor {
	case cil.FlavorRoot, cil.FlavorSrcInfo, cil.FlavorBlock, cil.FlavorMacro,
		cil.FlavorClass, cil.FlavorCommon, cil.FlavorClassmap,
		cil.FlavorBooleanif, cil.FlavorTunableif, cil.FlavorCondBlock:
		return matchSingle
	case cil.FlavorOptional, cil.FlavorIn:
		return matchSimilarity
	}
	return matchFlat
}

func compareSubsets(left, right *Subset, sink Sink) {
	if left != nil && right != nil && left.Full == right.Full {
		return
	}
	if left == nil {
		appendAll(right, SideRight, sink)
		return
	}
	if right == nil {
		appendAll(left, SideLeft, sink)
		return
	}
	switch policyFor(left.Flavor) {
	case matchSingle:
		compareSingle(left, right, sink)
	case matchSimilarity:
		compareSimilarity(left, right, sink)
	default:
		compareFlat(left, right, sink)
	}
}

func appendAll(s *Subset, side Side, sink Sink) {
	for _, key := range s.sortedKeys() {
		sink.AppendDiff(side, s.items[key], "")
	}
}

// compareFlat reports every member absent from the other side. Members with
// equal full hashes cancel out.
func compareFlat(left, right *Subset, sink Sink) {
	for _, key := range left.sortedKeys() {
		if _, ok := right.items[key]; !ok {
			sink.AppendDiff(SideLeft, left.items[key], "")
		}
	}
	for _, key := range right.sortedKeys() {
		if _, ok := left.items[key]; !ok {
			sink.AppendDiff(SideRight, right.items[key], "")
		}
	}
}

// compareSingle descends into the container pair when the bucket holds one
// member per side; any other shape falls back to flat reporting.
func compareSingle(left, right *Subset, sink Sink) {
	if len(left.items) == 1 && len(right.items) == 1 {
		var l, r *Node
		for _, n := range left.items {
			l = n
		}
		for _, n := range right.items {
			r = n
		}
		Compare(l, r, sink.AppendChild(l, r))
		return
	}
	compareFlat(left, right, sink)
}

type simPair struct {
	rate  float64
	left  *Node
	right *Node
}

// compareSimilarity removes exact matches, ranks the remaining cross pairs
// by similarity rate, then greedily descends into the best pair each member
// appears in. Unpaired members report flat.
func compareSimilarity(left, right *Subset, sink Sink) {
	leftKeys := make([]Digest, 0, len(left.items))
	for _, key := range left.sortedKeys() {
		if _, ok := right.items[key]; !ok {
			leftKeys = append(leftKeys, key)
		}
	}
	rightKeys := make([]Digest, 0, len(right.items))
	for _, key := range right.sortedKeys() {
		if _, ok := left.items[key]; !ok {
			rightKeys = append(rightKeys, key)
		}
	}
	if len(leftKeys) == 0 || len(rightKeys) == 0 {
		for _, key := range leftKeys {
			sink.AppendDiff(SideLeft, left.items[key], "")
		}
		for _, key := range rightKeys {
			sink.AppendDiff(SideRight, right.items[key], "")
		}
		return
	}

	// Candidates with no shared content never pair; they report flat.
	pairs := make([]simPair, 0, len(leftKeys)*len(rightKeys))
	for _, lk := range leftKeys {
		for _, rk := range rightKeys {
			l, r := left.items[lk], right.items[rk]
			if rate := nodeSim(l, r).Rate(); rate > 0 {
				pairs = append(pairs, simPair{rate: rate, left: l, right: r})
			}
		}
	}
	slices.SortFunc(pairs, func(p1, p2 simPair) int {
		switch {
		case p1.rate > p2.rate:
			return -1
		case p1.rate < p2.rate:
			return 1
		}
		if c := compareDigests(&p1.left.Full, &p2.left.Full); c != 0 {
			return c
		}
		return compareDigests(&p1.right.Full, &p2.right.Full)
	})

	usedLeft := make(map[Digest]bool, len(leftKeys))
	usedRight := make(map[Digest]bool, len(rightKeys))
	for _, p := range pairs {
		if usedLeft[p.left.Full] || usedRight[p.right.Full] {
			continue
		}
		usedLeft[p.left.Full] = true
		usedRight[p.right.Full] = true
		Compare(p.left, p.right, sink.AppendChild(p.left, p.right))
	}
	for _, key := range leftKeys {
		if !usedLeft[key] {
			sink.AppendDiff(SideLeft, left.items[key], "")
		}
	}
	for _, key := range rightKeys {
		if !usedRight[key] {
			sink.AppendDiff(SideRight, right.items[key], "")
		}
	}
}

// subsetSim scores two buckets. Equal buckets contribute their full member
// count as common; otherwise members pair up by the same rules the
// comparison uses and unpaired members count toward their own side.
func subsetSim(left, right *Subset) Sim {
	if left != nil && right != nil && left.Full == right.Full {
		return Sim{Common: len(left.items)}
	}
	if left == nil {
		return Sim{Right: len(right.items)}
	}
	if right == nil {
		return Sim{Left: len(left.items)}
	}
	var sim Sim
	for _, key := range left.sortedKeys() {
		if _, ok := right.items[key]; ok {
			sim.Common++
		}
	}
	for _, key := range left.sortedKeys() {
		if _, ok := right.items[key]; !ok {
			sim.Left++
		}
	}
	for _, key := range right.sortedKeys() {
		if _, ok := left.items[key]; !ok {
			sim.Right++
		}
	}
	return sim
}
