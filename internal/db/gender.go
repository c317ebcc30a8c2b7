package db

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

type GenderKind string

const (
	GenderMale   GenderKind = "male"
	GenderFemale GenderKind = "female"
	GenderOther  GenderKind = "other"
)

// Gender is the variant male | female | other(label). The label is only
// meaningful for the "other" kind and participates in equality, so
// other("nonbinary") and other("agender") are distinct variants.
type Gender struct {
	Kind  GenderKind `json:"kind"`
	Label string     `json:"label,omitempty"`
}

// encode flattens the variant into a single column value:
// "male", "female", or "other:<label>".
func (g Gender) encode() string {
	if g.Kind == GenderOther {
		return string(GenderOther) + ":" + g.Label
	}
	return string(g.Kind)
}

// ParseGender decodes the single-column form back into a variant.
func ParseGender(s string) (Gender, error) {
	switch {
	case s == string(GenderMale):
		return Gender{Kind: GenderMale}, nil
	case s == string(GenderFemale):
		return Gender{Kind: GenderFemale}, nil
	case strings.HasPrefix(s, string(GenderOther)+":"):
		return Gender{Kind: GenderOther, Label: strings.TrimPrefix(s, string(GenderOther)+":")}, nil
	case s == string(GenderOther):
		return Gender{Kind: GenderOther}, nil
	}
	return Gender{}, fmt.Errorf("invalid gender value %q", s)
}

func (g Gender) Valid() bool {
	switch g.Kind {
	case GenderMale, GenderFemale:
		return g.Label == ""
	case GenderOther:
		return true
	}
	return false
}

func (g Gender) Equal(o Gender) bool {
	return g.Kind == o.Kind && g.Label == o.Label
}

// Value implements driver.Valuer so Gender maps onto a VARCHAR column.
func (g Gender) Value() (driver.Value, error) {
	return g.encode(), nil
}

// Scan implements sql.Scanner.
func (g *Gender) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseGender(v)
		if err != nil {
			return err
		}
		*g = parsed
		return nil
	case []byte:
		parsed, err := ParseGender(string(v))
		if err != nil {
			return err
		}
		*g = parsed
		return nil
	}
	return fmt.Errorf("cannot scan %T into Gender", src)
}
