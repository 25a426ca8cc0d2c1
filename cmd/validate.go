package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/arcanaland/mtgfixture/internal/config"
	"github.com/arcanaland/mtgfixture/internal/dataset"
	"github.com/arcanaland/mtgfixture/internal/validator"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [dataset]",
	Short: "Round-trip every set and card in a dataset",
	Long: `Validate decodes every set and card record in the dataset into typed models,
encodes them back and reports any record that does not survive the round trip.

The dataset is looked up in your dataset library (XDG_DATA_HOME/mtgfixture/datasets)
or taken as a path. Without an argument the default dataset from your config is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		datasetPath, err := config.ResolveDataset(args)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		if format != "text" && format != "json" && format != "yaml" {
			return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
		}

		policy, err := datePolicy(cmd, cfg)
		if err != nil {
			return err
		}

		workers := cfg.Workers
		if cmd.Flags().Changed("workers") {
			workers, _ = cmd.Flags().GetInt("workers")
		}

		d, err := dataset.Load(datasetPath)
		if err != nil {
			return err
		}
		logger.Debug("Loaded dataset", zap.String("path", d.Path), zap.Int("sets", len(d.Sets)))

		v := validator.NewValidator(d.Sets)
		v.Policy = policy
		v.Workers = workers
		v.Logger = logger

		results, err := v.Validate(cmd.Context())
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}

		out := cmd.OutOrStdout()
		switch format {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(results); err != nil {
				return err
			}
		case "yaml":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(results); err != nil {
				return err
			}
			if err := enc.Close(); err != nil {
				return err
			}
		default:
			printResults(out, d.Path, results)
		}

		if len(results.Errors) > 0 {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringP("format", "f", "text", "Output format: text, json or yaml")
	validateCmd.Flags().IntP("workers", "w", 4, "Number of sets validated concurrently")
	addDatePolicyFlag(validateCmd)
}

func printResults(out io.Writer, path string, results validator.ValidationResults) {
	fmt.Fprintln(out, "Validation Results:")
	fmt.Fprintln(out, "-------------------")
	fmt.Fprintf(out, "%d sets, %d cards\n", results.Sets, results.Cards)

	precisions := make([]string, 0, len(results.Precision))
	for p := range results.Precision {
		precisions = append(precisions, p)
	}
	sort.Strings(precisions)
	for _, p := range precisions {
		fmt.Fprintf(out, "  release date %-6s %d\n", p+":", results.Precision[p])
	}

	if keys := results.UnmodeledKeys(); len(keys) > 0 {
		fmt.Fprintf(out, "%d unmodeled keys ignored:", len(keys))
		for _, k := range keys {
			fmt.Fprintf(out, " %s(%d)", k, results.Unmodeled[k])
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out)

	if len(results.Errors) == 0 {
		color.New(color.FgGreen).Fprintf(out, "✅ Dataset '%s' round-trips cleanly.\n", path)
	} else {
		color.New(color.FgRed).Fprintf(out, "❌ Dataset '%s' has %d validation errors:\n", path, len(results.Errors))
		for i, err := range results.Errors {
			fmt.Fprintf(out, "%d. %s\n", i+1, err)
		}
	}

	if len(results.Warnings) > 0 {
		color.New(color.FgYellow).Fprintln(out, "\nWarnings:")
		for i, warn := range results.Warnings {
			fmt.Fprintf(out, "%d. %s\n", i+1, warn)
		}
	}
}
