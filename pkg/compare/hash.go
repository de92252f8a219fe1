package compare

import (
	"bytes"
	"crypto/sha512"
	"encoding"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
)

// DigestSize is the number of hash bytes kept per node. SHA-512 output is
// truncated to this size.
const DigestSize = 32

// Digest is a truncated SHA-512 content hash. It is a comparable value type
// and is used directly as a map key.
type Digest [DigestSize]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Compare orders digests bytewise. An absent digest sorts before any
// present one, which keeps mixed nil/non-nil orderings stable.
func compareDigests(d1, d2 *Digest) int {
	if d1 == nil && d2 == nil {
		return 0
	}
	if d1 == nil {
		return -1
	}
	if d2 == nil {
		return 1
	}
	return bytes.Compare(d1[:], d2[:])
}

// hashRaw digests raw bytes with no kind tag and no terminator.
func hashRaw(data []byte) Digest {
	sum := sha512.Sum512(data)
	return Digest(sum[:DigestSize])
}

// hashString digests a single string the way string fields are absorbed
// into running hashes, including the NUL terminator.
func hashString(s string) Digest {
	h := sha512.New()
	h.Write([]byte(s))
	h.Write([]byte{0})
	return sumDigest(h)
}

func sumDigest(h hash.Hash) Digest {
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// hasher is an incremental digest over a node's semantic fields. Every
// hasher starts with the node kind tag so equal field bytes under different
// kinds never collide. The running state can be cloned at a fork point to
// derive the partial and full hashes from one shared prefix.
type hasher struct {
	h hash.Hash
}

func newHasher(tag string) *hasher {
	h := &hasher{h: sha512.New()}
	h.writeString(tag)
	return h
}

// writeString absorbs the string plus a NUL terminator, so adjacent fields
// cannot bleed into each other.
func (h *hasher) writeString(s string) {
	h.h.Write([]byte(s))
	h.h.Write([]byte{0})
}

func (h *hasher) writeBytes(b []byte) {
	h.h.Write(b)
}

func (h *hasher) writeDigest(d Digest) {
	h.h.Write(d[:])
}

func (h *hasher) writeBool(v bool) {
	if v {
		h.h.Write([]byte{1})
	} else {
		h.h.Write([]byte{0})
	}
}

func (h *hasher) writeUint16(v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	h.h.Write(buf[:])
}

func (h *hasher) writeUint32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	h.h.Write(buf[:])
}

func (h *hasher) writeUint64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	h.h.Write(buf[:])
}

// clone forks the running digest state. The stdlib SHA-512 state implements
// encoding.BinaryMarshaler, so the copy is cheap and exact; failure would
// mean a broken crypto implementation and is treated as fatal.
func (h *hasher) clone() *hasher {
	m, ok := h.h.(encoding.BinaryMarshaler)
	if !ok {
		panic("compare: hash state is not clonable")
	}
	state, err := m.MarshalBinary()
	if err != nil {
		panic(fmt.Sprintf("compare: marshal hash state: %v", err))
	}
	fresh := sha512.New()
	if err := fresh.(encoding.BinaryUnmarshaler).UnmarshalBinary(state); err != nil {
		panic(fmt.Sprintf("compare: unmarshal hash state: %v", err))
	}
	return &hasher{h: fresh}
}

func (h *hasher) sum() Digest {
	return sumDigest(h.h)
}
