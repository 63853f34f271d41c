package schema

import "strings"

// aliases maps canonical fields to known header synonyms as they appear in
// state voter extracts. Entries are matched after header normalization, so
// they contain only lowercase alphanumerics.
var aliases = map[string][]string{
	FieldVoterID: {
		"voterid", "vid", "votid", "statevoterid", "voterno", "voternum",
		"voternumber", "registrationid", "regid", "sosvoterid",
	},
	FieldFirstName: {
		"first", "firstname", "fname", "given", "givenname", "namefirst",
	},
	FieldMiddleName: {
		"middle", "middlename", "mname", "namemiddle",
	},
	FieldLastName: {
		"last", "lastname", "lname", "surname", "namelast",
	},
	FieldSuffix: {
		"suffix", "namesuffix", "generation",
	},
	FieldStreet: {
		"address", "addr", "addr1", "address1", "addressline1", "streetaddress",
		"residenceaddress", "resaddress", "fulladdress", "addressfull",
	},
	FieldStreetNumber: {
		"stnum", "stnumber", "streetnumber", "streetno", "housenumber",
		"houseno", "regstnum", "resstreetnumber", "addressnumber",
	},
	FieldStreetName: {
		"stname", "streetname", "regstname", "resstreetname", "addressstreet",
	},
	FieldUnit: {
		"unit", "unitnum", "unitnumber", "unitno", "apt", "aptnumber",
		"apartmentnumber", "addressunit", "regstunitnum",
	},
	FieldCity: {
		"city", "town", "municipality", "regcity", "rescity",
	},
	FieldState: {
		"st", "regstate", "resstate", "province",
	},
	FieldZip: {
		"zip", "zipcode", "zip5", "postal", "postalcode", "regzipcode", "reszip",
	},
	FieldBirthDate: {
		"dob", "birthdate", "dateofbirth", "birth", "birthyear",
	},
	FieldRegDate: {
		"regdate", "registrationdate", "dateregistered",
	},
	FieldGender: {
		"gender", "sex",
	},
	FieldParty: {
		"party", "politicalparty", "affiliation", "registrationparty",
	},
	FieldPrecinct: {
		"precinct", "precinctcode", "precinctid", "votingdistrict",
	},
	FieldCounty: {
		"county", "countyname", "countycode", "parish", "jurisdiction",
	},
	FieldStatusCode: {
		"status", "statuscode", "voterstatus", "registrationstatus",
	},
	FieldMailAddress: {
		"mail1", "mailingaddress", "mailaddress", "mailaddr",
	},
	FieldMailCity: {
		"mailcity", "mailingcity",
	},
	FieldMailState: {
		"mailstate", "mailingstate",
	},
	FieldMailZip: {
		"mailzip", "mailingzip", "mailingpostalcode",
	},
}

// aliasIndex is the inverted lookup from normalized header to canonical
// field, built once at init. Canonical names themselves are excluded, those
// are exact matches, not aliases.
var aliasIndex = func() map[string]string {
	idx := make(map[string]string)
	for field, list := range aliases {
		for _, a := range list {
			idx[a] = field
		}
	}
	return idx
}()

// NormalizeHeader lowercases a raw header and strips everything but letters
// and digits, collapsing separators like "_", "-" and whitespace. "Voter ID",
// "voter_id" and "VoterID" all normalize to "voterid".
func NormalizeHeader(header string) string {
	var b strings.Builder
	b.Grow(len(header))
	for _, r := range strings.ToLower(strings.TrimSpace(header)) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// canonicalIndex maps the normalized form of each canonical name to itself,
// used by exact matching.
var canonicalIndex = func() map[string]string {
	idx := make(map[string]string, len(Fields))
	for _, f := range Fields {
		idx[NormalizeHeader(f.Name)] = f.Name
	}
	return idx
}()

// ExactMatch reports the canonical field whose name equals the normalized
// header, if any.
func ExactMatch(normalizedHeader string) (string, bool) {
	f, ok := canonicalIndex[normalizedHeader]
	return f, ok
}

// AliasMatch reports the canonical field for which the normalized header is
// a known synonym, if any.
func AliasMatch(normalizedHeader string) (string, bool) {
	f, ok := aliasIndex[normalizedHeader]
	return f, ok
}
