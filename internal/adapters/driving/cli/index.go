package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var indexForce bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or refresh the document index",
	Long: `Scans the data directory, chunks every policy document, and builds
the keyword and vector indexes.

The index is fingerprinted against file names, modification times, and
the chunking configuration; when nothing changed the persisted index is
reused. Use --force to rebuild unconditionally.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexForce, "force", false, "rebuild even when the index is current")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if retrieverService == nil {
		return errors.New("retriever not configured")
	}

	ctx := context.Background()
	if err := retrieverService.BuildIndex(ctx, indexForce); err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	cmd.Println("Index ready.")
	return nil
}
