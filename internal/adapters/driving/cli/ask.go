package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var askContext string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer an HR question",
	Long: `Answers an HR question from the response cache when a fresh exact or
sufficiently similar entry exists. On a miss, prints the retrieved
policy context block an assistant would answer from, with source
citations.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askContext, "context", "", "conversation context distinguishing otherwise identical questions")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if answerCache != nil && appSettings.CacheEnabled {
		if answer, ok := answerCache.Get(question, askContext); ok {
			cmd.Println("(cached)")
			cmd.Println(answer)
			return nil
		}
	}

	ctx := context.Background()
	if err := ensureIndex(ctx); err != nil {
		return fmt.Errorf("preparing index: %w", err)
	}

	block, err := retrieverService.SearchFormatted(ctx, question, 0)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	cmd.Println(block)
	return nil
}
