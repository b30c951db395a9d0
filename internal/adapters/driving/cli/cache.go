package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the response cache",
	Long:  `Inspect and maintain the cached answers to previously asked questions.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache counters",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached answer",
	RunE:  runCacheClear,
}

var cacheSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove expired cached answers",
	RunE:  runCacheSweep,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheSweepCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	if answerCache == nil {
		return errors.New("answer cache not configured")
	}

	stats := answerCache.Stats()
	hitRate := 0.0
	if stats.TotalQueries > 0 {
		hitRate = float64(stats.Hits) / float64(stats.TotalQueries) * 100
	}

	cmd.Println("Response cache")
	cmd.Println("==============")
	cmd.Printf("  Queries:      %d\n", stats.TotalQueries)
	cmd.Printf("  Hits:         %d (%.1f%%)\n", stats.Hits, hitRate)
	cmd.Printf("  Misses:       %d\n", stats.Misses)
	cmd.Printf("  Exact hits:   %d\n", stats.ExactHits)
	cmd.Printf("  Fuzzy hits:   %d\n", stats.FuzzyHits)
	cmd.Printf("  Memory hits:  %d\n", stats.MemoryHits)
	cmd.Printf("  Disk hits:    %d\n", stats.DiskHits)
	cmd.Println()
	cmd.Printf("  Memory entries: %d\n", stats.MemoryCacheSize)
	cmd.Printf("  Disk entries:   %d\n", stats.DiskCacheFiles)
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	if answerCache == nil {
		return errors.New("answer cache not configured")
	}

	if err := answerCache.ClearAll(); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	cmd.Println("Cache cleared.")
	return nil
}

func runCacheSweep(cmd *cobra.Command, _ []string) error {
	if answerCache == nil {
		return errors.New("answer cache not configured")
	}

	removed := answerCache.ClearExpired()
	cmd.Printf("Removed %d expired entries.\n", removed)
	return nil
}
