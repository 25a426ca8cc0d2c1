package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arcanaland/mtgfixture/internal/releasedate"
	"github.com/arcanaland/mtgfixture/internal/validator"
)

const fixture = `[
	{
		"name": "Arabian Nights",
		"code": "ARN",
		"releaseDate": "1993-12-17",
		"border": "black",
		"type": "expansion",
		"cards": [
			{"layout": "normal", "name": "Juzam Djinn", "manaCost": "{2}{B}{B}", "cmc": 4,
			 "colors": ["Black"], "type": "Creature — Djinn", "types": ["Creature"],
			 "subtypes": ["Djinn"], "rarity": "Rare", "artist": "Mark Tedin", "power": "5",
			 "toughness": "5", "text": "At the beginning of your upkeep, Juzam Djinn deals 1 damage to you.",
			 "reserved": true}
		]
	},
	{
		"name": "Media Inserts",
		"code": "pMEI",
		"releaseDate": "1995-01-01",
		"border": "black",
		"type": "promo",
		"cards": [
			{"layout": "normal", "name": "Arena", "type": "Land", "types": ["Land"], "rarity": "Special",
			 "artist": "Rob Alexander", "releaseDate": "1994-09"}
		]
	}
]`

// run executes the root command with fresh XDG directories.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	isolate(t)
	return execute(t, args...)
}

// isolate points the XDG directories at temporary ones.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	t.Cleanup(func() {
		RootCmd.SetArgs(nil)
		resetFlags(RootCmd)
	})

	err := RootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag in the command tree to its default and
// clears Changed, so one test's flags never leak into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeConfig(t *testing.T, body string) {
	t.Helper()
	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "mtgfixture")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0644))
}

func writeFixture(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "AllSets.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	return path
}

func TestDateParse(t *testing.T) {
	out, err := run(t, "date", "parse", "2015-05-20", "1993-08", "1993", "")
	require.NoError(t, err)

	assert.Contains(t, out, `"2015-05-20"`)
	assert.Contains(t, out, "full")
	assert.Contains(t, out, "month")
	assert.Contains(t, out, "year")
	assert.Contains(t, out, "none")
}

func TestDateParse_Invalid(t *testing.T) {
	out, err := run(t, "date", "parse", "1993", "2015-02-30", "not-a-date")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3")
	assert.Contains(t, out, "day out of range")
}

func TestDateFormat(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"2015", "5", "20"}, "2015-05-20"},
		{[]string{"1993", "8"}, "1993-08"},
		{[]string{"993"}, "0993"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			out, err := run(t, append([]string{"date", "format"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}

	_, err := run(t, "date", "format", "2015", "2", "30")
	assert.Error(t, err)

	_, err = run(t, "date", "format", "2015", "May")
	assert.Error(t, err)
}

func TestValidate_JSON(t *testing.T) {
	path := writeFixture(t, fixture)

	out, err := run(t, "validate", "--format", "json", path)
	require.NoError(t, err)

	var results validator.ValidationResults
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Equal(t, 2, results.Sets)
	assert.Equal(t, 2, results.Cards)
	assert.Equal(t, 1, results.Precision["month"])
	assert.Empty(t, results.Errors)
}

func TestValidate_YAML(t *testing.T) {
	path := writeFixture(t, fixture)

	out, err := run(t, "validate", "--format", "yaml", path)
	require.NoError(t, err)

	var results validator.ValidationResults
	require.NoError(t, yaml.Unmarshal([]byte(out), &results))
	assert.Equal(t, 2, results.Cards)
}

func TestValidate_TextFailure(t *testing.T) {
	path := writeFixture(t, strings.Replace(fixture, `"1994-09"`, `"1994-13"`, 1))

	out, err := run(t, "validate", path)
	require.Error(t, err)
	assert.Contains(t, out, "1 validation errors")
	assert.Contains(t, out, "1994-13")

	out, err = run(t, "validate", "--date-policy", "tolerate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "round-trips cleanly")
	assert.Contains(t, out, "Warnings:")
}

func TestValidate_UnpaddedDate(t *testing.T) {
	path := writeFixture(t, strings.Replace(fixture, `"1994-09"`, `"1994-9"`, 1))

	out, err := run(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "round-trips cleanly")
}

func TestConfiguredDatePolicy(t *testing.T) {
	isolate(t)
	writeConfig(t, `date_policy = "tolerate"`+"\n")
	path := writeFixture(t, strings.Replace(fixture, `"1994-09"`, `"1994-13"`, 1))

	_, err := execute(t, "validate", path)
	require.NoError(t, err)

	out, err := execute(t, "sets", "ls", path)
	require.NoError(t, err)
	assert.Contains(t, out, "pMEI")
	assert.NotContains(t, out, "dated")

	out, err = execute(t, "show", "--dataset", path, "pMEI", "Arena")
	require.NoError(t, err)
	assert.Contains(t, out, "Arena")

	_, err = execute(t, "sets", "ls", "--date-policy", "reject", path)
	assert.ErrorIs(t, err, releasedate.ErrInvalidFormat)
}

func TestFlagsDoNotLeak(t *testing.T) {
	isolate(t)
	writeConfig(t, `date_policy = "tolerate"`+"\n")
	path := writeFixture(t, strings.Replace(fixture, `"1994-09"`, `"1994-13"`, 1))

	_, err := execute(t, "validate", "--date-policy", "reject", "--workers", "2", path)
	require.Error(t, err)

	resetFlags(RootCmd)
	assert.False(t, validateCmd.Flags().Changed("date-policy"))
	assert.False(t, validateCmd.Flags().Changed("workers"))

	_, err = execute(t, "validate", path)
	assert.NoError(t, err)
}

func TestSetsList(t *testing.T) {
	path := writeFixture(t, fixture)

	out, err := run(t, "sets", "ls", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ARN"))
	assert.Contains(t, lines[0], "1993-12-17")
	assert.Contains(t, lines[1], "(1 dated)")
}

func TestShow(t *testing.T) {
	path := writeFixture(t, fixture)

	out, err := run(t, "show", "--dataset", path, "ARN", "Juzam Djinn")
	require.NoError(t, err)
	assert.Contains(t, out, "Juzam Djinn")
	assert.Contains(t, out, "5/5")
	assert.Contains(t, out, "Arabian Nights (ARN, 1993-12-17)")

	_, err = run(t, "show", "--dataset", path, "ARN", "Serendib Efreet")
	assert.Error(t, err)
}

func TestColorSwatch(t *testing.T) {
	swatch := colorSwatch([]string{"White", "Blue"}, 10)
	assert.Equal(t, 10, strings.Count(swatch, "█"))

	assert.True(t, strings.HasPrefix(swatch, "\x1b[38;2;248;246;216m"), "starts white")
	assert.True(t, strings.HasSuffix(swatch, "\x1b[38;2;30;136;229m█\x1b[0m"), "ends blue")

	gray := colorSwatch(nil, 3)
	assert.Equal(t, 3, strings.Count(gray, "38;2;160;160;160"))
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six seven eight nine ten eleven", 12)
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), 12)
	}
	assert.Equal(t, "one two", lines[0])

	assert.Equal(t, []string{"a", "", "b"}, wrapText("a\n\nb", 40))
}
