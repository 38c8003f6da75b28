// Package journal models QLDB-style journal blocks and validates the hash
// chain that links them.
//
// A journal is a set of strands; each strand is one producer's linear
// sequence of blocks. Every block stores the SHA-256 of its own content
// (blockHash), the hash of its entries (entriesHash) and the hash of its
// predecessor (previousBlockHash). ValidateChain checks that a strand's
// blocks are consistent with each other.
//
// Blocks arrive as Amazon Ion, either from a journal export or wrapped in
// the ledger API's {IonText: …} value holders; the parse functions here
// extract the fields verification needs and carry the rest untouched.
package journal

import (
	"errors"
	"fmt"
	"io"

	"github.com/amazon-ion/ion-go/ion"
)

// BlockAddress identifies a block's position within one strand of the
// journal.
type BlockAddress struct {
	StrandID   string `ion:"strandId" json:"strandId"`
	SequenceNo int64  `ion:"sequenceNo" json:"sequenceNo"`
}

// String renders the address in the ledger API's Ion text form, e.g.
// {strandId: "JdxjkR9bSYB…", sequenceNo: 17}.
func (a BlockAddress) String() string {
	return fmt.Sprintf("{strandId: %q, sequenceNo: %d}", a.StrandID, a.SequenceNo)
}

// JournalBlock is one committed transaction's record in the journal.
//
// Only BlockHash, EntriesHash and PreviousBlockHash participate in chain
// validation. The remaining fields are opaque payload: they are decoded so
// callers can inspect or round-trip them, but the verification core never
// reads them.
type JournalBlock struct {
	BlockAddress      BlockAddress  `ion:"blockAddress" json:"blockAddress"`
	TransactionID     string        `ion:"transactionId" json:"transactionId,omitempty"`
	BlockTimestamp    ion.Timestamp `ion:"blockTimestamp" json:"-"`
	BlockHash         []byte        `ion:"blockHash" json:"blockHash"`
	EntriesHash       []byte        `ion:"entriesHash" json:"entriesHash"`
	PreviousBlockHash []byte        `ion:"previousBlockHash" json:"previousBlockHash,omitempty"`
	EntriesHashList   [][]byte      `ion:"entriesHashList" json:"entriesHashList,omitempty"`
	TransactionInfo   any           `ion:"transactionInfo" json:"transactionInfo,omitempty"`
	RedactionInfo     any           `ion:"redactionInfo" json:"redactionInfo,omitempty"`
	Revisions         any           `ion:"revisions" json:"revisions,omitempty"`
}

// ValueHolder mirrors the ledger API's wrapper around Ion text payloads.
type ValueHolder struct {
	IonText string `json:"IonText"`
}

// ParseBlock decodes a single journal block from Ion text, as returned by
// the ledger's get-block API or found in a journal export.
func ParseBlock(ionText string) (*JournalBlock, error) {
	var b JournalBlock
	if err := ion.Unmarshal([]byte(ionText), &b); err != nil {
		return nil, fmt.Errorf("decode journal block: %w", err)
	}
	return &b, nil
}

// ParseBlocks decodes a stream of top-level Ion block values, preserving
// their order. Journal export files are such streams, one block per
// top-level value.
func ParseBlocks(r io.Reader) ([]JournalBlock, error) {
	dec := ion.NewTextDecoder(r)

	var blocks []JournalBlock
	for {
		var b JournalBlock
		err := dec.DecodeTo(&b)
		if errors.Is(err, ion.ErrNoInput) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode journal block %d: %w", len(blocks), err)
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// ParseProof decodes a proof returned by the ledger's get-revision or
// get-block APIs: an Ion list of blob hashes, e.g. [{{…}},{{…}}]. The
// returned order is the service's order and must not be changed before
// folding.
func ParseProof(ionText string) ([][]byte, error) {
	var hashes [][]byte
	if err := ion.Unmarshal([]byte(ionText), &hashes); err != nil {
		return nil, fmt.Errorf("decode proof: %w", err)
	}
	return hashes, nil
}
