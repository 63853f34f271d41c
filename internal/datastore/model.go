// model.go defines the stored form of a canonical voter record.
package datastore

import "time"

// Voter is one normalized voter-registration record as written to a
// destination table. Optional canonical fields stay empty when the source
// format does not carry them.
type Voter struct {
	ID      uint   `gorm:"primaryKey"`
	VoterID string `gorm:"column:voter_id"`

	FirstName  string
	MiddleName string
	LastName   string
	Suffix     string

	Street       string // combined address line
	StreetNumber string
	StreetName   string
	Unit         string
	City         string
	State        string
	Zip          string

	BirthDate        string
	RegistrationDate string
	Gender           string
	Party            string
	Precinct         string
	County           string
	StatusCode       string

	MailingAddress string
	MailingCity    string
	MailingState   string
	MailingZip     string

	StateCode string // set from the import run, not the source data
	SourceRow int    // 1-based data row in the source extract

	CreatedAt time.Time
}
