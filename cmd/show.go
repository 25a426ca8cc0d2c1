package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/term"

	"github.com/arcanaland/mtgfixture/internal/card"
	"github.com/arcanaland/mtgfixture/internal/cardset"
	"github.com/arcanaland/mtgfixture/internal/config"
	"github.com/arcanaland/mtgfixture/internal/dataset"
	"github.com/arcanaland/mtgfixture/internal/releasedate"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [set_code] [card_name]",
	Short: "Display information about a specific card",
	Long: `Show displays a card from a dataset along with a swatch of its colors.

You can specify a dataset using the --dataset flag, which will look for the
dataset in your dataset library (XDG_DATA_HOME/mtgfixture/datasets) or as a path.
If no dataset is specified, the default dataset from your config will be used.

Examples:
  mtgfixture show LEA "Black Lotus"
  mtgfixture show --dataset ./AllSets.json pMEI Arena`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		setCode, cardName := args[0], args[1]

		datasetFlag, _ := cmd.Flags().GetString("dataset")
		var datasetArgs []string
		if datasetFlag != "" {
			datasetArgs = []string{datasetFlag}
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		policy, err := datePolicy(cmd, cfg)
		if err != nil {
			return err
		}

		datasetPath, err := config.ResolveDataset(datasetArgs)
		if err != nil {
			return err
		}

		d, err := dataset.Load(datasetPath)
		if err != nil {
			return fmt.Errorf("error loading dataset: %w", err)
		}

		raw, err := d.Find(setCode)
		if err != nil {
			return err
		}

		dec := card.NewDecoder(policy)
		s, err := cardset.Decode(raw, dec)
		if err != nil {
			return fmt.Errorf("error decoding set %s: %w", setCode, err)
		}
		logWarnings(dec)

		c, err := s.FindCard(cardName)
		if err != nil {
			return err
		}

		width, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || width <= 0 {
			width = 80 // Default if we can't get terminal width
		}

		displayCard(cmd.OutOrStdout(), c, s, width)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().StringP("dataset", "d", "", "Specify a dataset from your dataset library or a path to one")
	addDatePolicyFlag(showCmd)
}

// manaColors maps the dataset's color names to swatch colors
var manaColors = map[string]string{
	"White": "#f8f6d8",
	"Blue":  "#1e88e5",
	"Black": "#3b3430",
	"Red":   "#e53935",
	"Green": "#2e7d32",
}

const colorlessHex = "#a0a0a0"

// colorSwatch renders a horizontal gradient through the card's colors
func colorSwatch(colors []string, width int) string {
	stops := make([]colorful.Color, 0, len(colors))
	for _, name := range colors {
		if hex, ok := manaColors[name]; ok {
			c, err := colorful.Hex(hex)
			if err == nil {
				stops = append(stops, c)
			}
		}
	}
	if len(stops) == 0 {
		c, _ := colorful.Hex(colorlessHex)
		stops = append(stops, c)
	}

	var buffer strings.Builder
	for x := 0; x < width; x++ {
		c := gradientAt(stops, float64(x)/float64(max(width-1, 1)))
		buffer.WriteString(ansiColorString('█', c))
	}
	return buffer.String()
}

// gradientAt returns the color at position t (0..1) along evenly spaced stops
func gradientAt(stops []colorful.Color, t float64) colorful.Color {
	if len(stops) == 1 {
		return stops[0]
	}

	segment := t * float64(len(stops)-1)
	i := int(segment)
	if i >= len(stops)-1 {
		return stops[len(stops)-1]
	}
	return stops[i].BlendLab(stops[i+1], segment-float64(i)).Clamped()
}

// ansiColorString formats a character with a 24-bit foreground color
func ansiColorString(char rune, c colorful.Color) string {
	r, g, b := c.RGB255()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%c\x1b[0m", r, g, b, char)
}

// wrapText wraps text to a specified width
func wrapText(text string, width int) []string {
	if width < 10 {
		width = 40
	}

	var result []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			result = append(result, "")
			continue
		}

		currentLine := ""
		for _, word := range words {
			if len(currentLine) == 0 {
				currentLine = word
			} else if len(currentLine)+1+len(word) <= width {
				currentLine += " " + word
			} else {
				result = append(result, currentLine)
				currentLine = word
			}
		}
		result = append(result, currentLine)
	}

	return result
}

// cardInfoLines builds the labelled detail lines for a card
func cardInfoLines(c *card.Card, s *cardset.CardSet, width int) []string {
	label := colorize.CyanString
	value := func(format string, a ...interface{}) string { return colorize.HiWhiteString(format, a...) }

	lines := []string{
		label("Card:   ") + value("%s", c.Name),
		label("Set:    ") + value("%s (%s, %s)", s.Name, s.Code, releasedate.Format(s.ReleaseDate)),
		label("Type:   ") + value("%s", c.Type),
		label("Rarity: ") + value("%s", c.Rarity),
	}

	if c.ManaCost != nil {
		lines = append(lines, label("Cost:   ")+value("%s", *c.ManaCost))
	}
	if c.Power != nil && c.Toughness != nil {
		lines = append(lines, label("P/T:    ")+value("%s/%s", *c.Power, *c.Toughness))
	}
	if c.Loyalty != nil {
		lines = append(lines, label("Loyal:  ")+value("%s", *c.Loyalty))
	}
	if c.MultiverseID != nil {
		lines = append(lines, label("MVID:   ")+value("%d", *c.MultiverseID))
	}
	if !c.ReleaseDate.IsZero() {
		lines = append(lines, label("Date:   ")+value("%s (%s)", releasedate.Format(c.ReleaseDate), c.ReleaseDate.Precision()))
	}
	lines = append(lines, label("Artist: ")+value("%s", c.Artist))

	if c.Text != nil {
		lines = append(lines, "", label("Text:"))
		lines = append(lines, wrapText(*c.Text, width)...)
	}
	if c.Flavor != nil {
		lines = append(lines, "")
		for _, l := range wrapText(*c.Flavor, width) {
			lines = append(lines, colorize.New(colorize.Italic).Sprint(l))
		}
	}

	return lines
}

// displayCard prints the color swatch followed by the card details
func displayCard(out io.Writer, c *card.Card, s *cardset.CardSet, width int) {
	textWidth := width - 4
	if textWidth < 20 {
		textWidth = 20
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", colorSwatch(c.Colors, min(textWidth, 40)))
	for _, line := range cardInfoLines(c, s, textWidth) {
		fmt.Fprintf(out, "  %s\n", line)
	}
	fmt.Fprintln(out)
}
