// Package proof implements the cryptographic verification core for
// QLDB-style journal ledgers.
//
// A ledger proves the integrity of a document revision with a Merkle
// inclusion proof: an ordered list of sibling hashes that, folded pairwise
// into the revision's hash, reproduces the ledger digest published by the
// service. This package provides the three primitives that make up that
// check:
//
//   - Combine: pairwise hash combination (sorted concatenation + SHA-256)
//   - FoldProof: reduce a leaf hash and a proof into a candidate digest
//   - Verify: compare the candidate against a trusted digest
//
// All functions are pure and safe for concurrent use. Hashes are raw
// 32-byte SHA-256 values; an empty slice is the "absent" sentinel and acts
// as the identity element of Combine. Any other length is rejected with
// ErrInvalidHashLength.
//
// The pairwise ordering rule is deliberately unusual: hashes are compared
// as signed bytes, walking from the last index down to the first. Existing
// ledgers were written against this exact rule, so it must never be
// "corrected" to an unsigned lexicographic compare.
package proof

import (
	"crypto/sha256"
	"errors"
	"fmt"
)

// HashSize is the length in bytes of every hash this package operates on.
const HashSize = sha256.Size

// ErrInvalidHashLength reports a non-empty hash buffer whose length is not
// exactly HashSize bytes. It signals a caller bug, not a verification
// failure, and is never coerced into a false result.
var ErrInvalidHashLength = errors.New("hash must be empty or exactly 32 bytes")

// checkHash validates the length convention shared by all operations:
// empty means absent, anything else must be exactly HashSize bytes.
func checkHash(h []byte) error {
	if len(h) != 0 && len(h) != HashSize {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidHashLength, len(h))
	}
	return nil
}

// compareHashes orders two HashSize-byte hashes for pairwise combination.
// Bytes are interpreted as signed (two's complement) and compared from the
// last index down to the first; the first non-zero difference decides.
// Returns a negative value if a sorts before b, positive if after, zero if
// the hashes are equal.
//
// Both the signedness and the reversed walk are part of the ledger wire
// format. 0x80 compares as -128, below 0x7f.
func compareHashes(a, b []byte) int {
	for i := HashSize - 1; i >= 0; i-- {
		if d := int(int8(a[i])) - int(int8(b[i])); d != 0 {
			return d
		}
	}
	return 0
}

// Combine hashes two values into their Merkle parent: the inputs are
// concatenated in comparator order (see compareHashes) and the SHA-256 of
// the concatenation is returned.
//
// An empty operand is the identity: Combine(nil, b) returns b and
// Combine(a, nil) returns a. A non-empty operand of the wrong length
// returns ErrInvalidHashLength.
func Combine(a, b []byte) ([]byte, error) {
	if err := checkHash(a); err != nil {
		return nil, err
	}
	if err := checkHash(b); err != nil {
		return nil, err
	}
	if len(a) == 0 {
		return b, nil
	}
	if len(b) == 0 {
		return a, nil
	}

	h := sha256.New()
	if compareHashes(a, b) < 0 {
		h.Write(a)
		h.Write(b)
	} else {
		h.Write(b)
		h.Write(a)
	}
	return h.Sum(nil), nil
}
