package proof

import (
	"crypto/subtle"
	"fmt"
)

// FoldProof reduces a leaf hash and an ordered proof into a candidate
// ledger digest. The accumulator starts as leafHash and is combined with
// each proof hash in sequence; the order of the proof is part of its
// meaning and must be exactly the order the ledger service returned.
//
// An empty proof returns leafHash unchanged (the leaf is itself the root).
// Inputs are not modified. Any malformed hash returns ErrInvalidHashLength.
func FoldProof(leafHash []byte, proofHashes [][]byte) ([]byte, error) {
	if err := checkHash(leafHash); err != nil {
		return nil, fmt.Errorf("leaf hash: %w", err)
	}

	acc := leafHash
	for i, p := range proofHashes {
		next, err := Combine(acc, p)
		if err != nil {
			return nil, fmt.Errorf("proof hash %d: %w", i, err)
		}
		acc = next
	}
	return acc, nil
}

// Verify recomputes the ledger digest from leafHash and proofHashes and
// reports whether it equals trustedDigest.
//
// A false result is the expected outcome when the data has been tampered
// with; it is returned as a plain boolean, never as an error. An error is
// returned only for malformed input (ErrInvalidHashLength).
//
// The comparison is constant-time. This check does not handle live
// secrets, so constant time is not required here, but subtle costs
// nothing over bytes.Equal for fixed 32-byte inputs.
func Verify(leafHash, trustedDigest []byte, proofHashes [][]byte) (bool, error) {
	if err := checkHash(trustedDigest); err != nil {
		return false, fmt.Errorf("trusted digest: %w", err)
	}

	candidate, err := FoldProof(leafHash, proofHashes)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(candidate, trustedDigest) == 1, nil
}
