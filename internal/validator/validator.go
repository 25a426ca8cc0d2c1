package validator

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arcanaland/mtgfixture/internal/card"
	"github.com/arcanaland/mtgfixture/internal/cardset"
	"github.com/arcanaland/mtgfixture/internal/dataset"
	"github.com/arcanaland/mtgfixture/internal/record"
	"github.com/arcanaland/mtgfixture/internal/releasedate"
)

type ValidationResults struct {
	Sets  int `json:"sets" yaml:"sets"`
	Cards int `json:"cards" yaml:"cards"`

	// Cards per release date precision (none, full, month, year)
	Precision map[string]int `json:"release_date_precision" yaml:"release_date_precision"`

	// Record keys present in the dataset that the models do not carry
	Unmodeled map[string]int `json:"unmodeled_keys,omitempty" yaml:"unmodeled_keys,omitempty"`

	Errors   []string `json:"errors" yaml:"errors"`
	Warnings []string `json:"warnings" yaml:"warnings"`
}

type Validator struct {
	Sets    []map[string]any
	Policy  card.DatePolicy
	Workers int
	Logger  *zap.Logger
	Results ValidationResults
}

func NewValidator(sets []map[string]any) *Validator {
	return &Validator{
		Sets:    sets,
		Policy:  card.RejectInvalidDates,
		Workers: 1,
		Logger:  zap.NewNop(),
		Results: ValidationResults{},
	}
}

// setResult is what one worker learns about one set record.
type setResult struct {
	cards     int
	precision map[string]int
	unmodeled map[string]int
	errors    []string
	warnings  []string
}

// Validate decodes every set, re-encodes it and checks that the modeled part
// of each record survives the round trip unchanged. Sets are checked
// concurrently; the results are merged in set order.
func (v *Validator) Validate(ctx context.Context) (ValidationResults, error) {
	workers := v.Workers
	if workers < 1 {
		workers = 1
	}
	logger := v.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]setResult, len(v.Sets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, set := range v.Sets {
		i, set := i, set
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = v.validateSet(set)
			logger.Debug("Validated set",
				zap.String("code", dataset.Code(set)),
				zap.Int("cards", results[i].cards),
				zap.Int("errors", len(results[i].errors)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return v.Results, fmt.Errorf("validation interrupted: %w", err)
	}

	v.Results = ValidationResults{
		Sets:      len(v.Sets),
		Precision: map[string]int{},
		Unmodeled: map[string]int{},
	}
	for _, r := range results {
		v.Results.Cards += r.cards
		for k, n := range r.precision {
			v.Results.Precision[k] += n
		}
		for k, n := range r.unmodeled {
			v.Results.Unmodeled[k] += n
		}
		v.Results.Errors = append(v.Results.Errors, r.errors...)
		v.Results.Warnings = append(v.Results.Warnings, r.warnings...)
	}

	logger.Info("Validation finished",
		zap.Int("sets", v.Results.Sets),
		zap.Int("cards", v.Results.Cards),
		zap.Int("errors", len(v.Results.Errors)),
		zap.Int("warnings", len(v.Results.Warnings)))

	return v.Results, nil
}

func (v *Validator) validateSet(set map[string]any) setResult {
	res := setResult{precision: map[string]int{}, unmodeled: map[string]int{}}
	code := dataset.Code(set)

	dec := card.NewDecoder(v.Policy)
	s, err := cardset.Decode(set, dec)
	if err != nil {
		res.errors = append(res.errors, fmt.Sprintf("set %s: %v", code, err))
		return res
	}

	for _, w := range dec.Warnings {
		res.warnings = append(res.warnings, fmt.Sprintf("set %s: cards[%d] %s", code, w.Index, w))
	}

	want := project(record.Normalize(set).(map[string]any), res.unmodeled)
	for _, w := range dec.Warnings {
		// A tolerated field is dropped on purpose; do not expect it back.
		if cards, ok := want["cards"].([]any); ok && w.Index >= 0 && w.Index < len(cards) {
			delete(cards[w.Index].(map[string]any), w.Key)
		}
	}

	got := record.Normalize(s.Record())
	if diff := cmp.Diff(want, got); diff != "" {
		res.errors = append(res.errors,
			fmt.Sprintf("set %s: round trip changed the record (-dataset +encoded):\n%s", code, diff))
	}

	res.cards = len(s.Cards)
	for _, c := range s.Cards {
		res.precision[c.ReleaseDate.Precision().String()]++
	}

	return res
}

// project keeps only the keys the models know about, counting the rest. Kept
// values are compared in the form the models write them back.
func project(set map[string]any, unmodeled map[string]int) map[string]any {
	out := keep(set, cardset.Fields, unmodeled)

	if cards, ok := out["cards"].([]any); ok {
		for i, c := range cards {
			if cr, ok := c.(map[string]any); ok {
				cards[i] = keep(cr, card.Fields, unmodeled)
			}
		}
	}
	return out
}

func keep(r map[string]any, fields []string, unmodeled map[string]int) map[string]any {
	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[f] = true
	}

	out := make(map[string]any, len(r))
	for k, v := range r {
		if !known[k] {
			unmodeled[k]++
			continue
		}
		if b, ok := v.(bool); ok && !b {
			// Absent and false decode to the same flag.
			continue
		}
		if k == "releaseDate" {
			v = canonicalDate(v)
		}
		out[k] = v
	}
	return out
}

// canonicalDate rewrites a parseable, non-empty release date in its canonical
// layout. Anything else is left for the diff to report.
func canonicalDate(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	d, err := releasedate.Parse(s)
	if err != nil || d.IsZero() {
		return v
	}
	return releasedate.Format(d)
}

// UnmodeledKeys returns the unmodeled key names, most frequent first.
func (r ValidationResults) UnmodeledKeys() []string {
	keys := make([]string, 0, len(r.Unmodeled))
	for k := range r.Unmodeled {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if r.Unmodeled[keys[i]] != r.Unmodeled[keys[j]] {
			return r.Unmodeled[keys[i]] > r.Unmodeled[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
