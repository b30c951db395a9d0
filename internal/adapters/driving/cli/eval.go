package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	evalFile    string
	evalWorkers int
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Run a batch of retrieval queries",
	Long: `Runs every query from a file against the index concurrently and
reports per-query latency and the top source. One query per line;
blank lines and lines starting with # are skipped.

Searches are independent reads against the immutable index generation,
so they parallelise safely.`,
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringVarP(&evalFile, "file", "f", "", "query file, one query per line (required)")
	evalCmd.Flags().IntVar(&evalWorkers, "workers", 4, "concurrent searches")
	evalCmd.MarkFlagRequired("file") //nolint:errcheck
	rootCmd.AddCommand(evalCmd)
}

type evalOutcome struct {
	query     string
	topSource string
	elapsed   time.Duration
	err       error
}

func runEval(cmd *cobra.Command, _ []string) error {
	queries, err := readQueries(evalFile)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		return fmt.Errorf("no queries in %s", evalFile)
	}

	workers := evalWorkers
	if workers < 1 {
		workers = 1
	}

	ctx := context.Background()
	if err := ensureIndex(ctx); err != nil {
		return fmt.Errorf("preparing index: %w", err)
	}

	outcomes := make([]evalOutcome, len(queries))
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, query := range queries {
		i, query := i, query
		g.Go(func() error {
			queryStart := time.Now()
			results, err := retrieverService.Search(gctx, query, 1)
			outcome := evalOutcome{
				query:   query,
				elapsed: time.Since(queryStart),
				err:     err,
			}
			if err == nil && len(results) > 0 {
				outcome.topSource = results[0].Source
			}
			outcomes[i] = outcome
			// Per-query failures are reported, not fatal to the batch.
			return nil
		})
	}
	g.Wait() //nolint:errcheck

	return reportEval(cmd, outcomes, time.Since(start))
}

func reportEval(cmd *cobra.Command, outcomes []evalOutcome, total time.Duration) error {
	failures := 0
	var cumulative time.Duration

	cmd.Printf("Ran %d queries with %d workers\n\n", len(outcomes), evalWorkers)
	for i, outcome := range outcomes {
		cumulative += outcome.elapsed
		switch {
		case outcome.err != nil:
			failures++
			cmd.Printf("  [%d] %-40s ERROR: %v\n", i+1, truncateQuery(outcome.query), outcome.err)
		case outcome.topSource == "":
			cmd.Printf("  [%d] %-40s %8s  (no results)\n", i+1, truncateQuery(outcome.query), outcome.elapsed.Round(time.Millisecond))
		default:
			cmd.Printf("  [%d] %-40s %8s  %s\n", i+1, truncateQuery(outcome.query), outcome.elapsed.Round(time.Millisecond), outcome.topSource)
		}
	}

	cmd.Println()
	cmd.Printf("Total %s, mean %s per query\n",
		total.Round(time.Millisecond),
		(cumulative / time.Duration(len(outcomes))).Round(time.Millisecond))

	if failures > 0 {
		return fmt.Errorf("%d of %d queries failed", failures, len(outcomes))
	}
	return nil
}

func readQueries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening query file: %w", err)
	}
	defer f.Close()

	var queries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	return queries, nil
}

func truncateQuery(query string) string {
	const max = 40
	runes := []rune(query)
	if len(runes) <= max {
		return query
	}
	return string(runes[:max-3]) + "..."
}
