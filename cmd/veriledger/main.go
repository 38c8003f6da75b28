package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jmerrifield20/veriledger/internal/service"
	"github.com/jmerrifield20/veriledger/pkg/journal"
	"github.com/jmerrifield20/veriledger/pkg/proof"
)

// version is overridden by goreleaser via -ldflags "-X main.version=...".
var version = "dev"

var cfgFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "veriledger",
	Short: "Cryptographic verification for QLDB-style ledgers",
	Long: `veriledger verifies ledger data offline.

It recomputes Merkle inclusion proofs against a trusted ledger digest and
validates the hash chain of exported journal blocks. It never talks to the
ledger service itself: hashes, proofs and blocks are supplied as arguments
or files.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(home + "/.veriledger")
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
		viper.SetEnvPrefix("veriledger")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()
		_ = viper.ReadInConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.veriledger/config.yaml)")

	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(validateChainCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// decodeHash decodes a base64 hash argument, the encoding the ledger APIs
// use for hash values.
func decodeHash(name, s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%s is not valid base64: %w", name, err)
	}
	return b, nil
}

// ── verify ───────────────────────────────────────────────────────────────────

var (
	verifyLeaf      string
	verifyDigest    string
	verifyProof     []string
	verifyProofFile string
	verifyTamper    bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a document revision against a trusted ledger digest",
	Long: `Recomputes the ledger digest from the revision hash and its inclusion
proof, and compares it with the trusted digest.

The proof may be passed as repeated --proof flags (base64, in service
order) or as a file containing the Ion proof list returned by the ledger's
get-revision API. With --tamper, one random bit of the revision hash is
flipped first to demonstrate detection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		leaf, err := decodeHash("--leaf", verifyLeaf)
		if err != nil {
			return err
		}
		digest, err := decodeHash("--digest", verifyDigest)
		if err != nil {
			return err
		}

		var proofHashes [][]byte
		switch {
		case verifyProofFile != "":
			raw, err := os.ReadFile(verifyProofFile)
			if err != nil {
				return fmt.Errorf("read proof file: %w", err)
			}
			proofHashes, err = journal.ParseProof(string(raw))
			if err != nil {
				return err
			}
		default:
			for i, p := range verifyProof {
				h, err := decodeHash(fmt.Sprintf("--proof[%d]", i), p)
				if err != nil {
					return err
				}
				proofHashes = append(proofHashes, h)
			}
		}

		if verifyTamper {
			leaf, err = proof.CorruptRandomBit(leaf)
			if err != nil {
				return err
			}
			fmt.Println("flipped one random bit in the revision hash")
		}

		verified, err := proof.Verify(leaf, digest, proofHashes)
		if err != nil {
			return err
		}
		if !verified {
			fmt.Println("NOT VERIFIED: the revision does not match the ledger digest")
			return errors.New("verification failed")
		}
		fmt.Println("verified: the revision is covered by the ledger digest")
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyLeaf, "leaf", "", "base64 hash of the revision to verify (required)")
	verifyCmd.Flags().StringVar(&verifyDigest, "digest", "", "base64 trusted ledger digest (required)")
	verifyCmd.Flags().StringArrayVar(&verifyProof, "proof", nil, "base64 proof hash, repeatable, in service order")
	verifyCmd.Flags().StringVar(&verifyProofFile, "proof-file", "", "file containing the Ion proof list")
	verifyCmd.Flags().BoolVar(&verifyTamper, "tamper", false, "flip a random bit in the revision hash first")
	_ = verifyCmd.MarkFlagRequired("leaf")
	_ = verifyCmd.MarkFlagRequired("digest")
}

// ── validate-chain ───────────────────────────────────────────────────────────

var validateChainCmd = &cobra.Command{
	Use:   "validate-chain <export-file>",
	Short: "Validate the hash chain of an exported journal strand",
	Long: `Reads a journal export file (a stream of Ion block values, one strand in
journal order) and checks that every block links to its predecessor and
that every stored block hash can be recomputed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		blocks, err := journal.ParseBlocks(f)
		if err != nil {
			return err
		}

		if err := journal.ValidateChain(blocks); err != nil {
			var cerr *journal.ChainError
			if errors.As(err, &cerr) {
				fmt.Printf("NOT VALID: %v\n", cerr)
				return errors.New("chain validation failed")
			}
			return err
		}
		fmt.Printf("valid: %d blocks form a consistent hash chain\n", len(blocks))
		return nil
	},
}

// ── serve ────────────────────────────────────────────────────────────────────

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP verification service",
	RunE: func(cmd *cobra.Command, args []string) error {
		viper.SetDefault("server.addr", ":8080")
		viper.SetDefault("server.cors_origins", []string{})
		viper.SetDefault("server.rate_limit_rps", 20)
		viper.SetDefault("server.auth_secret", "")

		logger, err := zap.NewProduction()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		cfg := service.Config{
			Addr:         viper.GetString("server.addr"),
			CORSOrigins:  viper.GetStringSlice("server.cors_origins"),
			RateLimitRPS: viper.GetInt("server.rate_limit_rps"),
			AuthSecret:   viper.GetString("server.auth_secret"),
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return service.New(cfg, logger).Run(ctx)
	},
}

// ── version ──────────────────────────────────────────────────────────────────

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the veriledger version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("veriledger", version)
	},
}
