package compare

import "testing"

func TestHasherDeterministic(t *testing.T) {
	h1 := newHasher("avrule")
	h1.writeString("ta")
	h1.writeUint32(7)
	h2 := newHasher("avrule")
	h2.writeString("ta")
	h2.writeUint32(7)
	if h1.sum() != h2.sum() {
		t.Error("identical input produced different digests")
	}
}

func TestHasherTagSeparatesKinds(t *testing.T) {
	h1 := newHasher("type")
	h1.writeString("ta")
	h2 := newHasher("role")
	h2.writeString("ta")
	if h1.sum() == h2.sum() {
		t.Error("different tags produced the same digest")
	}
}

func TestHasherCloneForksState(t *testing.T) {
	h := newHasher("block")
	h.writeString("b1")
	fork := h.clone()
	h.writeString("extra")

	want := newHasher("block")
	want.writeString("b1")
	if fork.sum() != want.sum() {
		t.Error("clone does not preserve the state at fork time")
	}
	if fork.sum() == h.sum() {
		t.Error("writes after clone leaked into the fork")
	}
}

func TestStringTerminatorPreventsJoining(t *testing.T) {
	h1 := newHasher("roletype")
	h1.writeString("ab")
	h1.writeString("c")
	h2 := newHasher("roletype")
	h2.writeString("a")
	h2.writeString("bc")
	if h1.sum() == h2.sum() {
		t.Error("adjacent strings collided across the boundary")
	}
}

func TestCompareDigestsOrdersNilFirst(t *testing.T) {
	d := Digest{1}
	if compareDigests(nil, &d) >= 0 {
		t.Error("nil digest should sort before any value")
	}
	if compareDigests(&d, nil) <= 0 {
		t.Error("value should sort after nil")
	}
	if compareDigests(&d, &d) != 0 {
		t.Error("digest should compare equal to itself")
	}
}
