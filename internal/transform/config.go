// Package transform applies the table config to decoded features:
// field mapping, coercions, derived constants, geometry hashing, and
// reprojection (spec §4.8). Grounded on the teacher's config-driven
// style (internal/parser/objectclass.go maps raw attribute codes to
// typed object classes the same way a Field maps a raw attribute to a
// target column).
package transform

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TableType distinguishes a feature-backed table from a pair-backed
// relation table (spec §4.8).
type TableType string

const (
	TableFeatureCollection TableType = "FeatureCollection"
	TableRelation          TableType = "relation"
)

// Field describes one target column: its source selector (an attribute
// name, a constant key, or a relation's natural key) and the ordered
// coercions applied to reach the declared SQL type.
type Field struct {
	DB          string   `json:"db"`
	JSON        string   `json:"json,omitempty"`
	Const       string   `json:"const,omitempty"`
	Functions   []string `json:"functions,omitempty"`
	PgType      string   `json:"pgtype"`
	JSONSchema  string   `json:"jsonSchema,omitempty"`
	TableSource string   `json:"tableSource,omitempty"`
}

// GeomField carries the config's optional geomField entry. It is parsed
// but not read by the engine or the sink: geometry comes from the
// feature's assembled primitives, and the geometry column is always
// synthesized as "geom", never taken verbatim from an attribute.
type GeomField struct {
	Name string `json:"name"`
}

// TableConfig is one top-level entry of the JSON config (spec §6).
type TableConfig struct {
	Type            TableType   `json:"type"`
	Table           string      `json:"table"`
	GeomField       *GeomField  `json:"geomField,omitempty"`
	InsertGid       bool        `json:"insertGid,omitempty"`
	HashGeom        bool        `json:"hashGeom,omitempty"`
	Fields          []Field     `json:"fields"`
	PgConstraints   []string    `json:"pgCONSTRAINT,omitempty"`
	PgFkConstraints []string    `json:"pgFkCONSTRAINT,omitempty"`
}

// Config is the full table map: object kind or relation name →
// TableConfig.
type Config map[string]TableConfig

// validCoercions enumerates the coercion names §4.8 recognizes; an
// unrecognized name is a ConfigInvalid error caught at load time
// instead of silently ignored at transform time.
var validCoercions = map[string]bool{
	"addMillesime": true,
	"addDep":       true,
	"toInt":        true,
	"toFloat":      true,
	"toDate":       true,
	"toDateFR":     true,
}

// LoadConfig parses and validates a JSON table config.
func LoadConfig(data []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, ConfigInvalid.Wrap(fmt.Errorf("parse config: %w", err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// KeyOrder returns the top-level object keys in the order they appear
// in the source document. encoding/json's map decoding loses this
// order, but the sink needs it: tables must be created in declared
// order so FeatureCollection tables exist before relation tables that
// reference them (spec §5).
func KeyOrder(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, ConfigInvalid.Wrap(fmt.Errorf("read config token: %w", err))
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ConfigInvalid.Wrap(fmt.Errorf("expected a JSON object at the config root"))
	}

	var order []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, ConfigInvalid.Wrap(fmt.Errorf("read config key: %w", err))
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, ConfigInvalid.Wrap(fmt.Errorf("expected a string key, got %v", keyTok))
		}
		order = append(order, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, ConfigInvalid.Wrap(fmt.Errorf("read value for %q: %w", key, err))
		}
	}

	return order, nil
}

// Validate checks static config invariants: known coercion names, a
// table name, and at least one field per table (spec §7 ConfigInvalid
// "static, detected at startup").
func (c Config) Validate() error {
	for kind, tc := range c {
		if tc.Table == "" {
			return ConfigInvalid.Wrap(fmt.Errorf("%s: missing table name", kind))
		}
		if tc.Type != TableFeatureCollection && tc.Type != TableRelation {
			return ConfigInvalid.Wrap(fmt.Errorf("%s: unknown table type %q", kind, tc.Type))
		}
		if len(tc.Fields) == 0 {
			return ConfigInvalid.Wrap(fmt.Errorf("%s: table declares no fields", kind))
		}
		for _, f := range tc.Fields {
			if f.DB == "" {
				return ConfigInvalid.Wrap(fmt.Errorf("%s: field missing db column name", kind))
			}
			for _, fn := range f.Functions {
				if !validCoercions[fn] {
					return ConfigInvalid.Wrap(fmt.Errorf("%s.%s: unknown coercion %q", kind, f.DB, fn))
				}
			}
		}
	}
	return nil
}

// Preset selects a reduced config without reading a file from disk
// (spec §6 "a preset selector (full | light | bati) or explicit config
// path"). The preset tables themselves are supplied by the caller
// (internal/config) since they are deployment data, not transform
// logic.
type Preset string

const (
	PresetFull  Preset = "full"
	PresetLight Preset = "light"
	PresetBati  Preset = "bati"
)
