package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/mtgfixture/internal/releasedate"
)

// dateCmd represents the date command group
var dateCmd = &cobra.Command{
	Use:   "date",
	Short: "Parse and format release dates",
	Long: `Commands for checking release date strings the way the dataset decoder does.
Accepted layouts are YYYY-MM-DD, YYYY-MM and YYYY.`,
}

// dateParseCmd represents the date parse command
var dateParseCmd = &cobra.Command{
	Use:   "parse [date...]",
	Short: "Show the precision and canonical form of release date strings",
	Example: `  mtgfixture date parse 2015-05-20 1993-08 1993
  mtgfixture date parse ""`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0

		for _, arg := range args {
			v, err := releasedate.Parse(arg)
			if err != nil {
				failed++
				fmt.Fprintf(out, "%-12q %s\n", arg, color.RedString(err.Error()))
				continue
			}
			fmt.Fprintf(out, "%-12q %-6s %s\n", arg, v.Precision(), color.HiWhiteString("%q", releasedate.Format(v)))
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d dates are invalid", failed, len(args))
		}
		return nil
	},
}

// dateFormatCmd represents the date format command
var dateFormatCmd = &cobra.Command{
	Use:     "format year [month [day]]",
	Short:   "Print the canonical form of a release date given as numbers",
	Example: `  mtgfixture date format 1993 8     # 1993-08`,
	Args:    cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		parts := make([]string, len(args))
		widths := []int{4, 2, 2}
		for i, arg := range args {
			n, err := strconv.Atoi(arg)
			if err != nil || n < 0 {
				return fmt.Errorf("not a date component: %s", arg)
			}
			parts[i] = fmt.Sprintf("%0*d", widths[i], n)
		}

		v, err := releasedate.Parse(strings.Join(parts, "-"))
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), releasedate.Format(v))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(dateCmd)
	dateCmd.AddCommand(dateParseCmd)
	dateCmd.AddCommand(dateFormatCmd)
}
