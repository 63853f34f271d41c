// Package normalize canonicalizes mapped field values. Every rule is a pure
// function whose output is a fixed point of itself, so re-normalizing
// already-normalized data is a no-op.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mwaga-code/voter-registration-framework/internal/errors"
	"github.com/mwaga-code/voter-registration-framework/internal/schema"
)

// Empty is the explicit marker for a present-but-blank value. It
// distinguishes a column that was mapped and empty from one that was never
// mapped at all.
const Empty = ""

var (
	lower = cases.Lower(language.Und)
	upper = cases.Upper(language.Und)
)

// streetAbbreviations maps uppercase street-type and directional tokens to
// their canonical abbreviation. Abbreviations map to themselves so a token
// that is already canonical stays untouched.
var streetAbbreviations = map[string]string{
	"STREET": "ST", "ST": "ST",
	"AVENUE": "AVE", "AVE": "AVE",
	"BOULEVARD": "BLVD", "BLVD": "BLVD",
	"DRIVE": "DR", "DR": "DR",
	"LANE": "LN", "LN": "LN",
	"ROAD": "RD", "RD": "RD",
	"COURT": "CT", "CT": "CT",
	"CIRCLE": "CIR", "CIR": "CIR",
	"PLACE": "PL", "PL": "PL",
	"TERRACE": "TER", "TER": "TER",
	"TRAIL": "TRL", "TRL": "TRL",
	"HIGHWAY": "HWY", "HWY": "HWY",
	"PARKWAY": "PKWY", "PKWY": "PKWY",
	"WAY": "WAY",
	"NORTH": "N", "N": "N",
	"SOUTH": "S", "S": "S",
	"EAST": "E", "E": "E",
	"WEST": "W", "W": "W",
	"NORTHEAST": "NE", "NE": "NE",
	"NORTHWEST": "NW", "NW": "NW",
	"SOUTHEAST": "SE", "SE": "SE",
	"SOUTHWEST": "SW", "SW": "SW",
}

// Field normalizes a raw value for the given canonical field. Whitespace-only
// input normalizes to the explicit Empty marker without error. A non-nil
// error means the value cannot be brought into canonical form; the original
// value is preserved in the error context.
func Field(canonicalField, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return Empty, nil
	}
	switch schema.KindOf(canonicalField) {
	case schema.KindName:
		return Name(value), nil
	case schema.KindStreet:
		return Street(value), nil
	case schema.KindZip:
		return Zip(value)
	case schema.KindState:
		return State(value), nil
	default:
		return collapseWhitespace(value), nil
	}
}

// collapseWhitespace trims a string and collapses internal whitespace runs
// to single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Name title-cases a name while preserving hyphenated and apostrophed
// segments: "o'brien" becomes "O'Brien", "SMITH-JONES" becomes
// "Smith-Jones".
func Name(value string) string {
	words := strings.Fields(value)
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

// titleWord capitalizes the first letter of each segment delimited by
// hyphens or apostrophes, lowercasing the rest.
func titleWord(w string) string {
	runes := []rune(lower.String(w))
	capNext := true
	for i, r := range runes {
		switch {
		case r == '-' || r == '\'':
			capNext = true
		case capNext && unicode.IsLetter(r):
			runes[i] = unicode.ToUpper(r)
			capNext = false
		}
	}
	return string(runes)
}

// Street collapses whitespace and rewrites street-type and directional
// tokens to their canonical uppercase abbreviation. House numbers, fractions
// and unit designators pass through untouched.
func Street(value string) string {
	tokens := strings.Fields(value)
	for i, tok := range tokens {
		if abbr, ok := streetAbbreviations[upper.String(tok)]; ok {
			tokens[i] = abbr
		}
	}
	return strings.Join(tokens, " ")
}

// Zip strips non-digit characters and formats the result as a 5-digit ZIP
// or a hyphenated ZIP+4. Any other digit count is a normalization failure.
func Zip(value string) (string, error) {
	var digits strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	switch d := digits.String(); len(d) {
	case 5:
		return d, nil
	case 9:
		return d[:5] + "-" + d[5:], nil
	default:
		return "", errors.Newf("zip has %d digits, want 5 or 9", len(digits.String())).
			Component("normalize").
			Category(errors.CategoryNormalization).
			Context("value", value).
			Build()
	}
}

// State uppercases a state abbreviation.
func State(value string) string {
	return upper.String(collapseWhitespace(value))
}
