// Package cli provides the cobra command surface for HRDesk. Commands
// hold no business logic; they validate input, call the injected core
// services, and format output.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driven"
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driving"
	"github.com/custodia-labs/hrdesk-cli/internal/logger"
)

// Injected by Configure before Execute. Tests swap these for mocks.
var (
	retrieverService driving.Retriever
	answerCache      driven.AnswerCache
	appSettings      = domain.DefaultSettings()
	version          = "dev"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "hrdesk",
	Short: "HR policy document assistant",
	Long: `HRDesk answers HR policy questions from a local document corpus.

It builds a hybrid keyword + semantic index over the policy files,
retrieves the most relevant passages for a question, and caches
generated answers so repeated questions are served instantly.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Services bundles the core collaborators the commands call.
type Services struct {
	Retriever driving.Retriever
	Answers   driven.AnswerCache
	Settings  domain.Settings
}

// Configure injects services and the release version. Must be called
// before Execute.
func Configure(services Services, releaseVersion string) {
	retrieverService = services.Retriever
	answerCache = services.Answers
	appSettings = services.Settings
	if releaseVersion != "" {
		version = releaseVersion
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ensureIndex loads or builds the index generation before a command
// that searches. The persisted fast path makes this cheap when nothing
// changed.
func ensureIndex(ctx context.Context) error {
	if retrieverService == nil {
		return errors.New("retriever not configured")
	}
	return retrieverService.BuildIndex(ctx, false)
}
