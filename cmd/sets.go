package cmd

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/mtgfixture/internal/card"
	"github.com/arcanaland/mtgfixture/internal/cardset"
	"github.com/arcanaland/mtgfixture/internal/config"
	"github.com/arcanaland/mtgfixture/internal/dataset"
	"github.com/arcanaland/mtgfixture/internal/releasedate"
)

// setsCmd represents the sets command group
var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "Inspect the card sets in a dataset",
}

// setsListCmd represents the sets ls command
var setsListCmd = &cobra.Command{
	Use:   "ls [dataset]",
	Short: "List the sets in a dataset with their release dates",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		policy, err := datePolicy(cmd, cfg)
		if err != nil {
			return err
		}

		datasetPath, err := config.ResolveDataset(args)
		if err != nil {
			return err
		}

		d, err := dataset.Load(datasetPath)
		if err != nil {
			return err
		}

		dec := card.NewDecoder(policy)
		sets, err := cardset.SetsFromRecords(d.Sets, dec)
		if err != nil {
			return fmt.Errorf("error decoding dataset: %w", err)
		}
		logWarnings(dec)

		if byDate, _ := cmd.Flags().GetBool("by-date"); byDate {
			sort.SliceStable(sets, func(i, j int) bool {
				return sets[i].Released().Before(sets[j].Released())
			})
		}

		out := cmd.OutOrStdout()
		for _, s := range sets {
			dated := 0
			for _, c := range s.Cards {
				if c.ReleaseDate.Precision() != releasedate.None {
					dated++
				}
			}

			line := fmt.Sprintf("%-8s %s  %-12s %4d cards", s.Code, releasedate.Format(s.ReleaseDate), s.Type, len(s.Cards))
			if dated > 0 {
				line += fmt.Sprintf(" (%d dated)", dated)
			}
			fmt.Fprintf(out, "%s  %s\n", line, color.HiWhiteString(s.Name))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(setsCmd)
	setsCmd.AddCommand(setsListCmd)

	setsListCmd.Flags().Bool("by-date", false, "Sort by release date instead of set code")
	addDatePolicyFlag(setsListCmd)
}
