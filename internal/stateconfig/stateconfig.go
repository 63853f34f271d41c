// Package stateconfig holds the persisted, reusable schema mapping for one
// state's export format. Configs are produced during onboarding, stored as
// YAML, and treated as immutable for the duration of an import run.
package stateconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mwaga-code/voter-registration-framework/internal/detect"
	"github.com/mwaga-code/voter-registration-framework/internal/errors"
	"github.com/mwaga-code/voter-registration-framework/internal/schema"
)

// StateConfig is the persisted mapping for one state, identified uniquely by
// its state code.
type StateConfig struct {
	StateCode     string                `yaml:"state_code"`
	Version       int                   `yaml:"version"`
	FileFormat    string                `yaml:"file_format"`
	Delimiter     string                `yaml:"delimiter"`
	FieldMappings []schema.FieldMapping `yaml:"field_mappings"`
	CreatedAt     time.Time             `yaml:"created_at"`
	UpdatedAt     time.Time             `yaml:"updated_at"`
}

// ByField returns the mappings keyed by canonical field.
func (c *StateConfig) ByField() map[string]schema.FieldMapping {
	m := make(map[string]schema.FieldMapping, len(c.FieldMappings))
	for _, fm := range c.FieldMappings {
		m[fm.CanonicalField] = fm
	}
	return m
}

// MappingFor returns the mapping for a canonical field, if present.
func (c *StateConfig) MappingFor(field string) (schema.FieldMapping, bool) {
	for _, fm := range c.FieldMappings {
		if fm.CanonicalField == field {
			return fm, true
		}
	}
	return schema.FieldMapping{}, false
}

// MissingRequired lists the canonical fields an import cannot run without:
// the voter identifier and at least one complete address representation.
func (c *StateConfig) MissingRequired() []string {
	byField := c.ByField()
	var missing []string
	if _, ok := byField[schema.FieldVoterID]; !ok {
		missing = append(missing, schema.FieldVoterID)
	}
	if !detect.HasAddressMapping(byField) {
		missing = append(missing, schema.FieldStreet)
	}
	return missing
}

// Validate reports whether the config is complete enough to import against.
func (c *StateConfig) Validate() error {
	if missing := c.MissingRequired(); len(missing) > 0 {
		return errors.Newf("state config for %s is incomplete, unmapped required fields: %s",
			c.StateCode, strings.Join(missing, ", ")).
			Component("stateconfig").
			Category(errors.CategoryConfigIncomplete).
			Context("state_code", c.StateCode).
			Context("unmapped", missing).
			Build()
	}
	return nil
}

// Store reads and writes state configs under a single directory, one YAML
// file per state.
type Store struct {
	Dir string
}

// NewStore creates a config store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the config file path for a state code.
func (s *Store) Path(stateCode string) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s_config.yaml", strings.ToLower(stateCode)))
}

// Exists reports whether a config exists for the state.
func (s *Store) Exists(stateCode string) bool {
	_, err := os.Stat(s.Path(stateCode))
	return err == nil
}

// Load reads the config for a state. A missing file is a configuration
// error: onboarding has to run before an import can.
func (s *Store) Load(stateCode string) (*StateConfig, error) {
	data, err := os.ReadFile(s.Path(stateCode))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf("no state config found for %s, run onboard first", stateCode).
				Component("stateconfig").
				Category(errors.CategoryConfiguration).
				Context("state_code", stateCode).
				Context("path", s.Path(stateCode)).
				Build()
		}
		return nil, errors.New(err).
			Component("stateconfig").
			Category(errors.CategoryFileIO).
			Context("path", s.Path(stateCode)).
			Build()
	}

	var cfg StateConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.New(err).
			Component("stateconfig").
			Category(errors.CategoryConfiguration).
			Context("path", s.Path(stateCode)).
			Build()
	}
	return &cfg, nil
}

// Save writes the config, creating the store directory when needed.
func (s *Store) Save(cfg *StateConfig) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return errors.New(err).
			Component("stateconfig").
			Category(errors.CategoryFileIO).
			Context("dir", s.Dir).
			Build()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.New(err).
			Component("stateconfig").
			Category(errors.CategoryConfiguration).
			Context("state_code", cfg.StateCode).
			Build()
	}

	if err := os.WriteFile(s.Path(cfg.StateCode), data, 0o644); err != nil {
		return errors.New(err).
			Component("stateconfig").
			Category(errors.CategoryFileIO).
			Context("path", s.Path(cfg.StateCode)).
			Build()
	}
	return nil
}
