// Package service exposes the verification core over HTTP for non-Go
// callers. It performs no ledger service calls of its own: every request
// carries the hashes, proofs or blocks to check, and the response is the
// verification outcome.
package service

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jmerrifield20/veriledger/pkg/journal"
	"github.com/jmerrifield20/veriledger/pkg/proof"
)

// Handler serves the verification endpoints.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates a Handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// Register mounts the verification routes on the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/verify", h.Verify)
	rg.POST("/chain/validate", h.ValidateChain)
}

// verifyRequest carries a revision verification. Hash fields are base64
// (encoding/json's []byte convention). The proof may be given either as a
// base64 array or as the raw Ion text the ledger API returned.
type verifyRequest struct {
	DocumentHash []byte   `json:"documentHash" binding:"required"`
	Digest       []byte   `json:"digest" binding:"required"`
	Proof        [][]byte `json:"proof,omitempty"`
	ProofIonText string   `json:"proofIonText,omitempty"`
}

// Verify handles POST /v1/verify — recompute the candidate digest from the
// document hash and proof, compare against the trusted digest.
//
// A failed verification is a 200 with verified=false; only malformed input
// is a 400.
func (h *Handler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		recordVerification("malformed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proofHashes := req.Proof
	if req.ProofIonText != "" {
		parsed, err := journal.ParseProof(req.ProofIonText)
		if err != nil {
			recordVerification("malformed")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		proofHashes = parsed
	}

	verified, err := proof.Verify(req.DocumentHash, req.Digest, proofHashes)
	if err != nil {
		// Only ErrInvalidHashLength can happen here: caller bug, not tampering.
		recordVerification("malformed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if verified {
		recordVerification("verified")
	} else {
		recordVerification("rejected")
		h.logger.Warn("revision failed verification",
			zap.String("request_id", c.GetString("request_id")))
	}
	c.JSON(http.StatusOK, gin.H{"verified": verified})
}

// chainRequest carries the blocks of one strand, in journal order, either
// as JSON objects or as the Ion text of an export.
type chainRequest struct {
	Blocks  []journal.JournalBlock `json:"blocks,omitempty"`
	IonText string                 `json:"ionText,omitempty"`
}

// ValidateChain handles POST /v1/chain/validate — check that the submitted
// blocks form a consistent hash chain.
//
// A broken chain is a 200 with valid=false and the failure kind and block
// address; only malformed input is a 400.
func (h *Handler) ValidateChain(c *gin.Context) {
	var req chainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		recordChainValidation("malformed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	blocks := req.Blocks
	if req.IonText != "" {
		parsed, err := journal.ParseBlocks(strings.NewReader(req.IonText))
		if err != nil {
			recordChainValidation("malformed")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		blocks = parsed
	}

	err := journal.ValidateChain(blocks)
	if err == nil {
		recordChainValidation("valid")
		c.JSON(http.StatusOK, gin.H{"valid": true, "blocks": len(blocks)})
		return
	}

	var cerr *journal.ChainError
	if !errors.As(err, &cerr) {
		// Malformed hash buffer somewhere in the chain.
		recordChainValidation("malformed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reason := "block_hash_mismatch"
	if errors.Is(cerr, journal.ErrChainBroken) {
		reason = "chain_broken"
	}
	recordChainValidation(reason)
	h.logger.Warn("chain validation failed",
		zap.String("reason", reason),
		zap.String("block_address", cerr.Address.String()),
		zap.String("request_id", c.GetString("request_id")))

	c.JSON(http.StatusOK, gin.H{
		"valid":        false,
		"reason":       reason,
		"message":      cerr.Kind.Error(),
		"blockAddress": cerr.Address,
	})
}
