package journal

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jmerrifield20/veriledger/pkg/proof"
)

// Chain failure kinds. A *ChainError wraps one of these, so callers can
// branch with errors.Is.
var (
	// ErrChainBroken reports that a block's stored previousBlockHash does
	// not match its predecessor's blockHash.
	ErrChainBroken = errors.New("previous block hash does not match")

	// ErrBlockHashMismatch reports that recomputing a block's hash from
	// its entries hash and its predecessor's block hash does not
	// reproduce the stored blockHash.
	ErrBlockHashMismatch = errors.New("recomputed block hash does not match stored block hash")
)

// ChainError is the discriminated failure returned by ValidateChain. It
// identifies the first block at which the chain is inconsistent.
type ChainError struct {
	Address BlockAddress // address of the block that failed validation
	Kind    error        // ErrChainBroken or ErrBlockHashMismatch
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("block %s: %v", e.Address, e.Kind)
}

func (e *ChainError) Unwrap() error { return e.Kind }

// ValidateChain checks that blocks form a consistent hash chain within one
// strand. Blocks must be in journal order.
//
// An empty or single-block sequence is trivially valid. For every
// consecutive pair the predecessor's blockHash must equal the current
// block's previousBlockHash, and combining the current entriesHash with
// the predecessor's blockHash must reproduce the stored blockHash.
// Validation stops at the first inconsistent pair; once the chain is
// broken, nothing after the break can be trusted.
//
// A cryptographic inconsistency is reported as *ChainError. A malformed
// hash buffer is reported as proof.ErrInvalidHashLength, a distinct
// failure class.
func ValidateChain(blocks []JournalBlock) error {
	for i := 1; i < len(blocks); i++ {
		prev, cur := &blocks[i-1], &blocks[i]

		if !bytes.Equal(prev.BlockHash, cur.PreviousBlockHash) {
			return &ChainError{Address: cur.BlockAddress, Kind: ErrChainBroken}
		}

		expected, err := proof.Combine(cur.EntriesHash, prev.BlockHash)
		if err != nil {
			return fmt.Errorf("block %s: %w", cur.BlockAddress, err)
		}
		if !bytes.Equal(expected, cur.BlockHash) {
			return &ChainError{Address: cur.BlockAddress, Kind: ErrBlockHashMismatch}
		}
	}
	return nil
}
