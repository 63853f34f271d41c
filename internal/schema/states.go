package schema

// stateAbbreviations is the set of two-letter USPS state and territory codes
// used by the value-pattern signature for state columns.
var stateAbbreviations = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {},
	"DE": {}, "DC": {}, "FL": {}, "GA": {}, "HI": {}, "ID": {}, "IL": {},
	"IN": {}, "IA": {}, "KS": {}, "KY": {}, "LA": {}, "ME": {}, "MD": {},
	"MA": {}, "MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {}, "NE": {},
	"NV": {}, "NH": {}, "NJ": {}, "NM": {}, "NY": {}, "NC": {}, "ND": {},
	"OH": {}, "OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {}, "SD": {},
	"TN": {}, "TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {}, "WV": {},
	"WI": {}, "WY": {}, "AS": {}, "GU": {}, "MP": {}, "PR": {}, "VI": {},
}

// IsStateAbbreviation reports whether s is a known two-letter state code.
// Matching is case sensitive, state columns carry uppercase codes.
func IsStateAbbreviation(s string) bool {
	_, ok := stateAbbreviations[s]
	return ok
}
