package card

import (
	"fmt"

	"github.com/arcanaland/mtgfixture/internal/record"
	"github.com/arcanaland/mtgfixture/internal/releasedate"
)

// Card represents a single printed card within a set
type Card struct {
	Layout       string
	Name         string
	ManaCost     *string  // Absent for lands and most tokens
	CMC          *float64 // Converted mana cost
	Colors       []string
	Type         string // Full type line, e.g. "Legendary Creature — Elf"
	Supertypes   []string
	Types        []string
	Subtypes     []string
	Rarity       string
	Text         *string
	Flavor       *string
	Artist       string
	Number       *string // Collector number
	Power        *string
	Toughness    *string
	Loyalty      *string
	MultiverseID *int
	Variations   []int // Multiverse IDs of alternate arts
	Watermark    *string
	Border       *string // Only set when it differs from the set's border
	Timeshifted  bool
	Hand         *int // Vanguard hand modifier
	Life         *int // Vanguard life modifier
	Reserved     bool
	ReleaseDate  releasedate.Value // Promos only; precision varies
	Starter      bool
}

// Fields lists every record key a Card models.
var Fields = []string{
	"layout", "name", "manaCost", "cmc", "colors", "type", "supertypes", "types",
	"subtypes", "rarity", "text", "flavor", "artist", "number", "power", "toughness",
	"loyalty", "multiverseid", "variations", "watermark", "border", "timeshifted",
	"hand", "life", "reserved", "releaseDate", "starter",
}

// DatePolicy decides what happens to a card whose releaseDate is unparseable.
type DatePolicy int

const (
	// RejectInvalidDates fails the whole card record.
	RejectInvalidDates DatePolicy = iota
	// TolerateInvalidDates keeps the card with no release date and records a warning.
	TolerateInvalidDates
)

func (p DatePolicy) String() string {
	if p == TolerateInvalidDates {
		return "tolerate"
	}
	return "reject"
}

// ParseDatePolicy accepts the names used in the config file and on the command line.
func ParseDatePolicy(s string) (DatePolicy, error) {
	switch s {
	case "", "reject":
		return RejectInvalidDates, nil
	case "tolerate":
		return TolerateInvalidDates, nil
	default:
		return RejectInvalidDates, fmt.Errorf("unknown date policy %q (want reject or tolerate)", s)
	}
}

// Warning describes a field that was dropped instead of failing the record.
type Warning struct {
	Card  string
	Index int // Position of the card within its set, -1 when decoded standalone
	Key   string
	Err   error
}

func (w Warning) String() string {
	return fmt.Sprintf("card %q: %s dropped: %v", w.Card, w.Key, w.Err)
}

// Decoder turns card records into Cards under a given DatePolicy, collecting
// warnings along the way. It is not safe for concurrent use.
type Decoder struct {
	Policy   DatePolicy
	Warnings []Warning
}

// NewDecoder returns a decoder with the given policy.
func NewDecoder(policy DatePolicy) *Decoder {
	return &Decoder{Policy: policy}
}

// FromRecord decodes a card record, rejecting invalid release dates.
func FromRecord(r map[string]any) (*Card, error) {
	return NewDecoder(RejectInvalidDates).Decode(r)
}

// Decode converts a generic card record into a Card.
func (d *Decoder) Decode(r map[string]any) (*Card, error) {
	c := &Card{}
	var err error

	required := []struct {
		key string
		dst *string
	}{
		{"layout", &c.Layout},
		{"name", &c.Name},
		{"type", &c.Type},
		{"rarity", &c.Rarity},
		{"artist", &c.Artist},
	}
	for _, f := range required {
		if *f.dst, err = record.String(r, f.key); err != nil {
			return nil, err
		}
	}

	optional := []struct {
		key string
		dst **string
	}{
		{"manaCost", &c.ManaCost},
		{"text", &c.Text},
		{"flavor", &c.Flavor},
		{"number", &c.Number},
		{"power", &c.Power},
		{"toughness", &c.Toughness},
		{"loyalty", &c.Loyalty},
		{"watermark", &c.Watermark},
		{"border", &c.Border},
	}
	for _, f := range optional {
		if *f.dst, err = record.OptionalString(r, f.key); err != nil {
			return nil, err
		}
	}

	if c.Types, err = record.Strings(r, "types"); err != nil {
		return nil, err
	}
	if c.Colors, err = record.OptionalStrings(r, "colors"); err != nil {
		return nil, err
	}
	if c.Supertypes, err = record.OptionalStrings(r, "supertypes"); err != nil {
		return nil, err
	}
	if c.Subtypes, err = record.OptionalStrings(r, "subtypes"); err != nil {
		return nil, err
	}
	if c.CMC, err = record.OptionalNumber(r, "cmc"); err != nil {
		return nil, err
	}
	if c.MultiverseID, err = record.OptionalInt(r, "multiverseid"); err != nil {
		return nil, err
	}
	if c.Variations, err = record.OptionalInts(r, "variations"); err != nil {
		return nil, err
	}
	if c.Hand, err = record.OptionalInt(r, "hand"); err != nil {
		return nil, err
	}
	if c.Life, err = record.OptionalInt(r, "life"); err != nil {
		return nil, err
	}
	if c.Timeshifted, err = record.Bool(r, "timeshifted"); err != nil {
		return nil, err
	}
	if c.Reserved, err = record.Bool(r, "reserved"); err != nil {
		return nil, err
	}
	if c.Starter, err = record.Bool(r, "starter"); err != nil {
		return nil, err
	}

	if err := d.decodeReleaseDate(c, r); err != nil {
		return nil, err
	}

	return c, nil
}

func (d *Decoder) decodeReleaseDate(c *Card, r map[string]any) error {
	raw, err := record.OptionalString(r, "releaseDate")
	if err != nil {
		return err
	}

	c.ReleaseDate, err = releasedate.ParseOptional(raw)
	if err == nil {
		return nil
	}

	if d.Policy == TolerateInvalidDates {
		d.Warnings = append(d.Warnings, Warning{Card: c.Name, Index: -1, Key: "releaseDate", Err: err})
		return nil
	}
	return &record.FieldError{Key: "releaseDate", Err: err}
}

// Record converts the card back into the generic shape it was decoded from.
// Absent optionals and false flags are omitted.
func (c *Card) Record() map[string]any {
	r := map[string]any{
		"layout": c.Layout,
		"name":   c.Name,
		"type":   c.Type,
		"types":  c.Types,
		"rarity": c.Rarity,
		"artist": c.Artist,
	}

	putString(r, "manaCost", c.ManaCost)
	putString(r, "text", c.Text)
	putString(r, "flavor", c.Flavor)
	putString(r, "number", c.Number)
	putString(r, "power", c.Power)
	putString(r, "toughness", c.Toughness)
	putString(r, "loyalty", c.Loyalty)
	putString(r, "watermark", c.Watermark)
	putString(r, "border", c.Border)

	if c.CMC != nil {
		r["cmc"] = *c.CMC
	}
	if c.Colors != nil {
		r["colors"] = c.Colors
	}
	if c.Supertypes != nil {
		r["supertypes"] = c.Supertypes
	}
	if c.Subtypes != nil {
		r["subtypes"] = c.Subtypes
	}
	if c.MultiverseID != nil {
		r["multiverseid"] = *c.MultiverseID
	}
	if c.Variations != nil {
		r["variations"] = c.Variations
	}
	if c.Hand != nil {
		r["hand"] = *c.Hand
	}
	if c.Life != nil {
		r["life"] = *c.Life
	}
	if c.Timeshifted {
		r["timeshifted"] = true
	}
	if c.Reserved {
		r["reserved"] = true
	}
	if c.Starter {
		r["starter"] = true
	}
	if !c.ReleaseDate.IsZero() {
		r["releaseDate"] = releasedate.Format(c.ReleaseDate)
	}

	return r
}

func putString(r map[string]any, key string, v *string) {
	if v != nil {
		r[key] = *v
	}
}
