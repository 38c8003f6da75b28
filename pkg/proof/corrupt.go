package proof

import (
	"errors"
	"math/rand"
)

// CorruptRandomBit returns a copy of buf with one uniformly chosen bit
// flipped. It exists to demonstrate and test tamper detection: a corrupted
// leaf, proof hash or digest must fail Verify.
//
// buf must be non-empty; the input is never modified.
func CorruptRandomBit(buf []byte) ([]byte, error) {
	if len(buf) == 0 {
		return nil, errors.New("cannot corrupt an empty buffer")
	}

	altered := make([]byte, len(buf))
	copy(altered, buf)
	altered[rand.Intn(len(buf))] ^= 1 << rand.Intn(8)
	return altered, nil
}
