// interfaces.go: the storage sink interface the import pipeline writes to.
package datastore

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mwaga-code/voter-registration-framework/internal/conf"
)

// Scope identifies the destination unit within which voter ids are unique:
// one state's records in one table.
type Scope struct {
	StateCode string
	Table     string
}

// Key returns the scope's identity string used by the dedup index.
func (s Scope) Key() string {
	return s.StateCode + ":" + s.Table
}

// Interface abstracts the underlying database implementation. The sink owns
// physical table naming and creation; the pipeline only sees scopes.
type Interface interface {
	Open() error
	Close() error
	// EnsureScope creates the scope's table and its voter_id unique
	// constraint, the final arbiter of uniqueness across processes.
	EnsureScope(scope Scope) error
	// Exists reports whether the scope's table already exists.
	Exists(scope Scope) (bool, error)
	// ExistingVoterIDs returns the ids already committed to the scope,
	// used to seed the dedup index at the start of a run.
	ExistingVoterIDs(scope Scope) (map[string]struct{}, error)
	// Insert commits one record to the scope's table.
	Insert(scope Scope, voter *Voter) error
}

// New creates a store for the configured destination.
func New(settings *conf.Settings) Interface {
	return &SQLiteStore{Settings: settings}
}

// TableFor derives the destination table name for one import run, unique
// per state, source file and day so incremental loads land side by side.
func TableFor(stateCode, sourcePath string, now time.Time) string {
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	return fmt.Sprintf("voters_%s_%s_%s",
		strings.ToLower(stateCode), sanitizeTableName(base), now.Format("20060102"))
}

// sanitizeTableName keeps table names to lowercase letters, digits and
// underscores.
func sanitizeTableName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
