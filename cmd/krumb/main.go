package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"krumb/internal/store"
	"krumb/internal/types"
)

var (
	// Global flags
	verbose   bool
	storePath string

	// Logger for the non-interactive subcommands. The storefront UI
	// uses the category logger instead.
	logger *zap.Logger
)

// rootCmd launches the interactive storefront.
var rootCmd = &cobra.Command{
	Use:   "krumb",
	Short: "Choco Krumb - interactive bakery storefront",
	Long: `Choco Krumb is a terminal storefront for a home bakery.

Customers sign in with a name and Saudi mobile number, browse the
catalog, fill a cart and run a simulated checkout. The bakery admin
signs in with a password to edit the product catalog.

Run without arguments to start the interactive storefront.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logger init for interactive mode (it has its own UI)
		if cmd.Use == "krumb" && cmd.CalledAs() == "krumb" {
			return nil
		}

		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStorefront()
	},
}

// statusCmd inspects the persisted mirror without starting the UI.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the persisted storefront state",
	RunE:  runStatus,
}

// resetCmd wipes the persisted mirror.
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the persisted identity, catalog and cart",
	RunE:  runReset,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "override the mirror database path")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resetCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	start := time.Now()
	s, err := openLocalStore()
	if err != nil {
		return err
	}
	defer s.Close()

	keys, err := s.Keys()
	if err != nil {
		return fmt.Errorf("failed to read mirror: %w", err)
	}
	logger.Info("mirror opened",
		zap.Int("keys", len(keys)),
		zap.Duration("elapsed", time.Since(start)))

	if len(keys) == 0 {
		fmt.Println("mirror is empty")
		return nil
	}
	for _, k := range keys {
		data, ok := s.Load(k)
		if !ok {
			continue
		}
		fmt.Printf("%-10s %d bytes%s\n", k, len(data), describeKey(k, data))
	}
	return nil
}

// describeKey decodes the known mirror blobs into a human summary.
func describeKey(key string, data []byte) string {
	switch key {
	case store.KeyCatalog:
		var products []types.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return fmt.Sprintf("  (%d products)", len(products))
		}
	case store.KeyCart:
		var lines []types.CartLine
		if err := json.Unmarshal(data, &lines); err == nil {
			n := 0
			for _, l := range lines {
				n += l.Quantity
			}
			return fmt.Sprintf("  (%d lines, %d items)", len(lines), n)
		}
	case store.KeyIdentity:
		var id types.Identity
		if err := json.Unmarshal(data, &id); err == nil && id.Valid() {
			return fmt.Sprintf("  (%s, %d purchases)", id.Name, id.PurchaseCount)
		}
	}
	return ""
}

func runReset(cmd *cobra.Command, args []string) error {
	s, err := openLocalStore()
	if err != nil {
		return err
	}
	defer s.Close()

	for _, k := range []string{store.KeyIdentity, store.KeyCatalog, store.KeyCart} {
		s.Clear(k)
		logger.Info("cleared mirror key", zap.String("key", k))
	}
	fmt.Println("storefront state cleared")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
