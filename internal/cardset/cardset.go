package cardset

import (
	"errors"
	"fmt"
	"time"

	"github.com/arcanaland/mtgfixture/internal/card"
	"github.com/arcanaland/mtgfixture/internal/record"
	"github.com/arcanaland/mtgfixture/internal/releasedate"
)

// ErrDatePrecision is returned when a set's release date is not a full date.
var ErrDatePrecision = errors.New("release date must be a full date")

// Fields lists every record key a CardSet models.
var Fields = []string{
	"name", "code", "gathererCode", "oldCode", "magicCardsInfoCode", "releaseDate",
	"border", "type", "block", "onlineOnly", "booster", "cards",
}

// CardSet represents one expansion, core set or promo collection
type CardSet struct {
	Name               string
	Code               string
	GathererCode       *string
	OldCode            *string
	MagicCardsInfoCode *string
	ReleaseDate        releasedate.Value // Always Full precision
	Border             string
	Type               string
	Block              *string
	OnlineOnly         bool

	// Booster slots, each either a rarity name or a list of alternatives.
	// Kept as decoded since the dataset mixes both shapes.
	Booster []any

	Cards []*card.Card
}

// Released returns the release day as a UTC time.
func (s *CardSet) Released() time.Time {
	t, _ := s.ReleaseDate.Time()
	return t
}

// FromRecord decodes a set record, rejecting any card with an invalid release date.
func FromRecord(r map[string]any) (*CardSet, error) {
	return Decode(r, card.NewDecoder(card.RejectInvalidDates))
}

// Decode converts a generic set record into a CardSet. Card-level warnings
// accumulate on dec with their Index set to the card's position in the set.
func Decode(r map[string]any, dec *card.Decoder) (*CardSet, error) {
	s := &CardSet{}
	var err error

	if s.Name, err = record.String(r, "name"); err != nil {
		return nil, err
	}
	if s.Code, err = record.String(r, "code"); err != nil {
		return nil, err
	}
	if s.Border, err = record.String(r, "border"); err != nil {
		return nil, err
	}
	if s.Type, err = record.String(r, "type"); err != nil {
		return nil, err
	}
	if s.GathererCode, err = record.OptionalString(r, "gathererCode"); err != nil {
		return nil, err
	}
	if s.OldCode, err = record.OptionalString(r, "oldCode"); err != nil {
		return nil, err
	}
	if s.MagicCardsInfoCode, err = record.OptionalString(r, "magicCardsInfoCode"); err != nil {
		return nil, err
	}
	if s.Block, err = record.OptionalString(r, "block"); err != nil {
		return nil, err
	}
	if s.OnlineOnly, err = record.Bool(r, "onlineOnly"); err != nil {
		return nil, err
	}

	if err := s.decodeReleaseDate(r); err != nil {
		return nil, err
	}
	if s.Booster, err = decodeBooster(r); err != nil {
		return nil, err
	}

	cards, err := record.Objects(r, "cards")
	if err != nil {
		return nil, err
	}
	s.Cards = make([]*card.Card, 0, len(cards))
	for i, cr := range cards {
		before := len(dec.Warnings)

		c, err := dec.Decode(cr)
		if err != nil {
			name, _ := cr["name"].(string)
			return nil, fmt.Errorf("cards[%d] %q: %w", i, name, err)
		}

		for j := before; j < len(dec.Warnings); j++ {
			dec.Warnings[j].Index = i
		}
		s.Cards = append(s.Cards, c)
	}

	return s, nil
}

func (s *CardSet) decodeReleaseDate(r map[string]any) error {
	raw, err := record.String(r, "releaseDate")
	if err != nil {
		return err
	}

	v, err := releasedate.Parse(raw)
	if err != nil {
		return &record.FieldError{Key: "releaseDate", Err: err}
	}
	if v.Precision() != releasedate.Full {
		return &record.FieldError{
			Key: "releaseDate",
			Err: fmt.Errorf("%w: %q has %s precision", ErrDatePrecision, raw, v.Precision()),
		}
	}

	s.ReleaseDate = v
	return nil
}

func decodeBooster(r map[string]any) ([]any, error) {
	v, ok := r["booster"]
	if !ok || v == nil {
		return nil, nil
	}

	slots, ok := v.([]any)
	if !ok {
		return nil, &record.FieldError{Key: "booster", Err: fmt.Errorf("%w: want array, got %T", record.ErrWrongType, v)}
	}

	for i, slot := range slots {
		switch t := slot.(type) {
		case string:
		case []any:
			for _, alt := range t {
				if _, ok := alt.(string); !ok {
					return nil, &record.FieldError{
						Key: fmt.Sprintf("booster[%d]", i),
						Err: fmt.Errorf("%w: want string alternatives, got %T", record.ErrWrongType, alt),
					}
				}
			}
		default:
			return nil, &record.FieldError{
				Key: fmt.Sprintf("booster[%d]", i),
				Err: fmt.Errorf("%w: want string or array, got %T", record.ErrWrongType, slot),
			}
		}
	}

	return record.Normalize(slots).([]any), nil
}

// Record converts the set, cards included, back into its generic shape.
func (s *CardSet) Record() map[string]any {
	r := map[string]any{
		"name":        s.Name,
		"code":        s.Code,
		"releaseDate": releasedate.Format(s.ReleaseDate),
		"border":      s.Border,
		"type":        s.Type,
	}

	if s.GathererCode != nil {
		r["gathererCode"] = *s.GathererCode
	}
	if s.OldCode != nil {
		r["oldCode"] = *s.OldCode
	}
	if s.MagicCardsInfoCode != nil {
		r["magicCardsInfoCode"] = *s.MagicCardsInfoCode
	}
	if s.Block != nil {
		r["block"] = *s.Block
	}
	if s.OnlineOnly {
		r["onlineOnly"] = true
	}
	if s.Booster != nil {
		r["booster"] = s.Booster
	}

	cards := make([]map[string]any, len(s.Cards))
	for i, c := range s.Cards {
		cards[i] = c.Record()
	}
	r["cards"] = cards

	return r
}

// SetsFromRecords decodes a collection of set records with dec, stopping at
// the first one that fails.
func SetsFromRecords(records []map[string]any, dec *card.Decoder) ([]*CardSet, error) {
	sets := make([]*CardSet, 0, len(records))
	for i, r := range records {
		s, err := Decode(r, dec)
		if err != nil {
			code, _ := r["code"].(string)
			return nil, fmt.Errorf("set %d (%s): %w", i, code, err)
		}
		sets = append(sets, s)
	}
	return sets, nil
}

// Records is the inverse of SetsFromRecords.
func Records(sets []*CardSet) []map[string]any {
	out := make([]map[string]any, len(sets))
	for i, s := range sets {
		out[i] = s.Record()
	}
	return out
}

// FindCard returns the first card in the set with the given name.
func (s *CardSet) FindCard(name string) (*card.Card, error) {
	for _, c := range s.Cards {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("card not found in %s: %s", s.Code, name)
}
