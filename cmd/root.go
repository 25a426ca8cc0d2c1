package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arcanaland/mtgfixture/internal/card"
	"github.com/arcanaland/mtgfixture/internal/config"
)

var (
	verbose bool
	logger  = zap.NewNop()
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "mtgfixture",
	Short: "Tool for validating card and card-set fixtures",
	Long: `mtgfixture loads an AllSets-style JSON dataset of trading cards and card sets,
decodes every record into typed models and checks that re-encoding them
reproduces the original data. Release dates of any precision (YYYY-MM-DD,
YYYY-MM or YYYY) are parsed and written back in canonical form.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}

		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	RootCmd.AddCommand(validateCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// addDatePolicyFlag registers the --date-policy override on a command that
// decodes cards.
func addDatePolicyFlag(cmd *cobra.Command) {
	cmd.Flags().String("date-policy", card.RejectInvalidDates.String(),
		"What to do with unparseable card release dates: reject or tolerate. Overrides date_policy in the config file")
}

// datePolicy returns the --date-policy flag when it was given and the
// configured policy otherwise.
func datePolicy(cmd *cobra.Command, cfg *config.Config) (card.DatePolicy, error) {
	name := cfg.DatePolicy
	if cmd.Flags().Changed("date-policy") {
		name, _ = cmd.Flags().GetString("date-policy")
	}
	return card.ParseDatePolicy(name)
}

// logWarnings reports the card fields a tolerant decoder dropped.
func logWarnings(dec *card.Decoder) {
	for _, w := range dec.Warnings {
		logger.Warn("Ignored card field", zap.String("card", w.Card), zap.Int("index", w.Index),
			zap.String("key", w.Key), zap.Error(w.Err))
	}
}
