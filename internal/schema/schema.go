// Package schema defines the canonical voter-record schema shared by the
// detector, the normalizer, the state configuration and the datastore.
package schema

// FieldKind selects the normalization rule applied to a canonical field.
type FieldKind string

const (
	KindName   FieldKind = "name"   // person or place names, title-cased
	KindStreet FieldKind = "street" // street lines, USPS-style abbreviations
	KindZip    FieldKind = "zip"    // 5 or 9 digit ZIP codes
	KindState  FieldKind = "state"  // two-letter state abbreviations
	KindText   FieldKind = "text"   // free text, whitespace cleanup only
)

// Canonical field names. These are the fixed target attributes every state
// extract is mapped onto.
const (
	FieldVoterID      = "voter_id"
	FieldFirstName    = "first_name"
	FieldMiddleName   = "middle_name"
	FieldLastName     = "last_name"
	FieldSuffix       = "suffix"
	FieldStreet       = "street" // combined address line
	FieldStreetNumber = "street_number"
	FieldStreetName   = "street_name"
	FieldUnit         = "unit"
	FieldCity         = "city"
	FieldState        = "state"
	FieldZip          = "zip"
	FieldBirthDate    = "birth_date"
	FieldRegDate      = "registration_date"
	FieldGender       = "gender"
	FieldParty        = "party"
	FieldPrecinct     = "precinct"
	FieldCounty       = "county"
	FieldStatusCode   = "status_code"
	FieldMailAddress  = "mailing_address"
	FieldMailCity     = "mailing_city"
	FieldMailState    = "mailing_state"
	FieldMailZip      = "mailing_zip"
)

// Field describes one canonical field of the voter schema.
type Field struct {
	Name     string
	Kind     FieldKind
	Required bool // reported by the detector when no mapping is found
}

// Fields lists every canonical field in a fixed order. Detection iterates
// this slice, so the order is part of the deterministic behavior.
var Fields = []Field{
	{Name: FieldVoterID, Kind: KindText, Required: true},
	{Name: FieldFirstName, Kind: KindName, Required: true},
	{Name: FieldMiddleName, Kind: KindName},
	{Name: FieldLastName, Kind: KindName, Required: true},
	{Name: FieldSuffix, Kind: KindName},
	{Name: FieldStreet, Kind: KindStreet},
	{Name: FieldStreetNumber, Kind: KindText},
	{Name: FieldStreetName, Kind: KindStreet},
	{Name: FieldUnit, Kind: KindText},
	{Name: FieldCity, Kind: KindName, Required: true},
	{Name: FieldState, Kind: KindState, Required: true},
	{Name: FieldZip, Kind: KindZip, Required: true},
	{Name: FieldBirthDate, Kind: KindText},
	{Name: FieldRegDate, Kind: KindText},
	{Name: FieldGender, Kind: KindText},
	{Name: FieldParty, Kind: KindText},
	{Name: FieldPrecinct, Kind: KindText},
	{Name: FieldCounty, Kind: KindName},
	{Name: FieldStatusCode, Kind: KindText},
	{Name: FieldMailAddress, Kind: KindStreet},
	{Name: FieldMailCity, Kind: KindName},
	{Name: FieldMailState, Kind: KindState},
	{Name: FieldMailZip, Kind: KindZip},
}

var fieldsByName = func() map[string]Field {
	m := make(map[string]Field, len(Fields))
	for _, f := range Fields {
		m[f.Name] = f
	}
	return m
}()

// Lookup returns the canonical field definition for name.
func Lookup(name string) (Field, bool) {
	f, ok := fieldsByName[name]
	return f, ok
}

// KindOf returns the normalization kind for a canonical field, defaulting
// to KindText for unknown names.
func KindOf(name string) FieldKind {
	if f, ok := fieldsByName[name]; ok {
		return f.Kind
	}
	return KindText
}

// RequiredFields returns the canonical fields the detector must account for.
func RequiredFields() []string {
	var out []string
	for _, f := range Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// AddressFields returns the canonical fields making up the split street
// representation. A config with mappings for all of them carries a complete
// address even without the combined street line.
func AddressFields() []string {
	return []string{FieldStreetNumber, FieldStreetName}
}

// Method identifies how a field mapping was established.
type Method string

const (
	MethodExact   Method = "exact"   // header equals the canonical name
	MethodAlias   Method = "alias"   // header matched a known synonym
	MethodPattern Method = "pattern" // sample values matched a type signature
	MethodManual  Method = "manual"  // confirmed by an operator
)

// FieldMapping associates one source column with a canonical field.
type FieldMapping struct {
	SourceColumn   string  `yaml:"source_column"`
	CanonicalField string  `yaml:"canonical_field"`
	Confidence     float64 `yaml:"confidence"`
	Method         Method  `yaml:"method"`
}
