package journal_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jmerrifield20/veriledger/pkg/journal"
)

const sampleBlockIon = `{
  blockAddress: {strandId: "4bJT0Emx6qPV2cWFDMGdqy", sequenceNo: 17},
  transactionId: "D35qEYQJGZ8HCSqEQIPgDQ",
  blockTimestamp: 2020-07-06T20:16:34.547Z,
  blockHash: {{E51US4IbE+vqFPGw/hhXciLkFcKWbjo1EcQZYFUjIgI=}},
  entriesHash: {{ypeBEsobvcr6wjGzmiPcTaeG7/gUfE5yuYB3ha/uSLs=}},
  previousBlockHash: {{PiPoFgA5WUoziU9lZOGxNIu9egCI1CxKy3PurtWcAJ0=}},
  entriesHashList: [{{ypeBEsobvcr6wjGzmiPcTaeG7/gUfE5yuYB3ha/uSLs=}}],
  transactionInfo: { statements: [{ statement: "UPDATE Vehicle SET Owner = ?" }] }
}`

func TestParseBlock(t *testing.T) {
	b, err := journal.ParseBlock(sampleBlockIon)
	if err != nil {
		t.Fatalf("ParseBlock: %v", err)
	}

	if b.BlockAddress.StrandID != "4bJT0Emx6qPV2cWFDMGdqy" {
		t.Errorf("StrandID = %q", b.BlockAddress.StrandID)
	}
	if b.BlockAddress.SequenceNo != 17 {
		t.Errorf("SequenceNo = %d, want 17", b.BlockAddress.SequenceNo)
	}
	if b.TransactionID != "D35qEYQJGZ8HCSqEQIPgDQ" {
		t.Errorf("TransactionID = %q", b.TransactionID)
	}
	if !bytes.Equal(b.BlockHash, sha("doc")) {
		t.Errorf("BlockHash = %x, want sha256(doc)", b.BlockHash)
	}
	if !bytes.Equal(b.EntriesHash, sha("a")) {
		t.Errorf("EntriesHash = %x, want sha256(a)", b.EntriesHash)
	}
	if !bytes.Equal(b.PreviousBlockHash, sha("b")) {
		t.Errorf("PreviousBlockHash = %x, want sha256(b)", b.PreviousBlockHash)
	}
	if len(b.EntriesHashList) != 1 {
		t.Errorf("EntriesHashList has %d entries, want 1", len(b.EntriesHashList))
	}
	if b.TransactionInfo == nil {
		t.Error("TransactionInfo was dropped; opaque payload must be carried")
	}
}

func TestParseBlock_invalidIon(t *testing.T) {
	if _, err := journal.ParseBlock("{ blockHash: "); err == nil {
		t.Error("expected an error for truncated Ion text")
	}
}

// An exported strand is a stream of top-level block values; parsing then
// validating it must succeed end to end for a well-formed chain.
const sampleExportIon = `{
  blockAddress: {strandId: "4bJT0Emx6qPV2cWFDMGdqy", sequenceNo: 0},
  blockHash: {{mxl23bnCee4lfIKPnqbeMIEaEmJMNo5WoujcFQXsTCc=}},
  entriesHash: {{bhbweD09LHDq8me2B8itqbJKpfuRLhdNLvxWji8SEH0=}}
}
{
  blockAddress: {strandId: "4bJT0Emx6qPV2cWFDMGdqy", sequenceNo: 1},
  blockHash: {{sa5TU5PuiLsu+maWH8Kdr5glm5v89B3bU21lVn+8h9E=}},
  entriesHash: {{Tduqez/04uCh8DlxJQP+5bYJuk10AtMf601e3TJrQvQ=}},
  previousBlockHash: {{mxl23bnCee4lfIKPnqbeMIEaEmJMNo5WoujcFQXsTCc=}}
}
{
  blockAddress: {strandId: "4bJT0Emx6qPV2cWFDMGdqy", sequenceNo: 2},
  blockHash: {{tv+mPvkxM28ai3qKWa+MCLMKstDG+VIrGtqSW9jfCxY=}},
  entriesHash: {{tBpSn9mdtkr9naI60JRgVNPjF4MnYXgvaVbKo6y0XII=}},
  previousBlockHash: {{sa5TU5PuiLsu+maWH8Kdr5glm5v89B3bU21lVn+8h9E=}}
}`

func TestParseBlocks_preservesOrderAndValidates(t *testing.T) {
	blocks, err := journal.ParseBlocks(strings.NewReader(sampleExportIon))
	if err != nil {
		t.Fatalf("ParseBlocks: %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("parsed %d blocks, want 3", len(blocks))
	}
	for i, b := range blocks {
		if b.BlockAddress.SequenceNo != int64(i) {
			t.Errorf("block %d has sequenceNo %d; order not preserved", i, b.BlockAddress.SequenceNo)
		}
	}

	if err := journal.ValidateChain(blocks); err != nil {
		t.Errorf("ValidateChain on parsed export: %v", err)
	}
}

func TestParseProof(t *testing.T) {
	hashes, err := journal.ParseProof("[{{ypeBEsobvcr6wjGzmiPcTaeG7/gUfE5yuYB3ha/uSLs=}},{{PiPoFgA5WUoziU9lZOGxNIu9egCI1CxKy3PurtWcAJ0=}}]")
	if err != nil {
		t.Fatalf("ParseProof: %v", err)
	}
	if len(hashes) != 2 {
		t.Fatalf("parsed %d hashes, want 2", len(hashes))
	}
	if !bytes.Equal(hashes[0], sha("a")) || !bytes.Equal(hashes[1], sha("b")) {
		t.Error("proof hashes decoded out of order")
	}
}

func TestBlockAddress_String(t *testing.T) {
	a := journal.BlockAddress{StrandID: "4bJT0Emx6qPV2cWFDMGdqy", SequenceNo: 17}
	want := `{strandId: "4bJT0Emx6qPV2cWFDMGdqy", sequenceNo: 17}`
	if got := a.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}
