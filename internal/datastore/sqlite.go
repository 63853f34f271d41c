package datastore

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mwaga-code/voter-registration-framework/internal/conf"
	"github.com/mwaga-code/voter-registration-framework/internal/errors"
)

// SQLiteStore implements Interface for SQLite.
type SQLiteStore struct {
	Settings *conf.Settings
	DB       *gorm.DB
}

// Open sets up the SQLite database connection, creating the database
// directory when needed.
func (store *SQLiteStore) Open() error {
	path := store.Settings.Output.SQLite.Path
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.New(err).
				Component("datastore").
				Category(errors.CategoryFileIO).
				Context("dir", dir).
				Build()
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: newGormLogger(store.Settings.Debug)})
	if err != nil {
		return errors.Newf("failed to open SQLite database %s: %w", path, err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}

	store.DB = db
	return nil
}

// Close releases the underlying connection pool.
func (store *SQLiteStore) Close() error {
	if store.DB == nil {
		return nil
	}
	sqlDB, err := store.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// EnsureScope migrates the scope's table and creates the unique index on
// voter_id. The index is the durable uniqueness guarantee; the in-memory
// dedup index only covers a single run.
func (store *SQLiteStore) EnsureScope(scope Scope) error {
	if err := store.DB.Table(scope.Table).AutoMigrate(&Voter{}); err != nil {
		return errors.Newf("migrating table %s: %w", scope.Table, err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}

	indexSQL := fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_%s_voter_id ON %s(voter_id)",
		scope.Table, scope.Table)
	if err := store.DB.Exec(indexSQL).Error; err != nil {
		return errors.Newf("creating voter_id index on %s: %w", scope.Table, err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return nil
}

// Exists reports whether the scope's table exists.
func (store *SQLiteStore) Exists(scope Scope) (bool, error) {
	return store.DB.Migrator().HasTable(scope.Table), nil
}

// ExistingVoterIDs returns the voter ids already committed to the scope. A
// scope whose table does not exist yet has none.
func (store *SQLiteStore) ExistingVoterIDs(scope Scope) (map[string]struct{}, error) {
	ids := make(map[string]struct{})
	if !store.DB.Migrator().HasTable(scope.Table) {
		return ids, nil
	}

	var list []string
	if err := store.DB.Table(scope.Table).Pluck("voter_id", &list).Error; err != nil {
		return nil, errors.Newf("reading voter ids from %s: %w", scope.Table, err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	for _, id := range list {
		ids[id] = struct{}{}
	}
	return ids, nil
}

// Insert commits one record to the scope's table.
func (store *SQLiteStore) Insert(scope Scope, voter *Voter) error {
	if store.DB == nil {
		return errors.Newf("database connection is not initialized").
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}

	if err := store.DB.Table(scope.Table).Create(voter).Error; err != nil {
		return errors.Newf("inserting voter %s into %s: %w", voter.VoterID, scope.Table, err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("voter_id", voter.VoterID).
			Build()
	}
	return nil
}

// newGormLogger keeps gorm quiet unless debug output is requested.
func newGormLogger(debug bool) gormlogger.Interface {
	if debug {
		return gormlogger.Default.LogMode(gormlogger.Info)
	}
	return gormlogger.Default.LogMode(gormlogger.Silent)
}
