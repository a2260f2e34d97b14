// Package boltconfig decodes and validates the configuration bundle
// spec.md §6 calls for: proposed Bolt versions, user-agent string,
// auth tokens, and per-message extras. Grounded on the teacher's
// internal/config (a plain struct decoded from JSON and validated
// against an inline JSON Schema via santhosh-tekuri/jsonschema).
package boltconfig

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nexusgraph/bolt-go/pkg/bolt"
)

// schemaJSON mirrors Config's shape; unlike the teacher's config this
// one is small enough to keep inline rather than in a separate file.
const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["uri", "userAgent"],
  "properties": {
    "uri": {"type": "string"},
    "userAgent": {"type": "string", "minLength": 1},
    "boltAgentProduct": {"type": "string"},
    "authScheme": {"type": "string"},
    "authPrincipal": {"type": "string"},
    "authCredentials": {"type": "string"},
    "tlsMode": {"type": "string", "enum": ["disable", "require", "verify"]},
    "poolSize": {"type": "integer", "minimum": 1},
    "routingContext": {"type": "object"},
    "notificationsMinSeverity": {"type": "string"},
    "notificationsDisabledCategories": {"type": "array", "items": {"type": "string"}}
  }
}`

var compiledSchema *jsonschema.Schema

func compile() (*jsonschema.Schema, error) {
	if compiledSchema != nil {
		return compiledSchema, nil
	}
	sch, err := jsonschema.CompileString("boltconfig.json", schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("boltconfig: compile schema: %w", err)
	}
	compiledSchema = sch
	return sch, nil
}

// TLSMode selects how internal/transport dials.
type TLSMode string

const (
	TLSDisable TLSMode = "disable"
	TLSRequire TLSMode = "require"
	TLSVerify  TLSMode = "verify"
)

// Config is the driver-wide configuration bundle. ProposedVersions
// defaults to bolt-go's supported range if left empty.
type Config struct {
	URI       string `json:"uri"`
	UserAgent string `json:"userAgent"`

	BoltAgentProduct string `json:"boltAgentProduct"`

	AuthScheme      string `json:"authScheme"`
	AuthPrincipal   string `json:"authPrincipal"`
	AuthCredentials string `json:"authCredentials"`

	TLSMode  TLSMode `json:"tlsMode"`
	PoolSize int     `json:"poolSize"`

	RoutingContext map[string]string `json:"routingContext"`

	NotificationsMinSeverity        string   `json:"notificationsMinSeverity"`
	NotificationsDisabledCategories []string `json:"notificationsDisabledCategories"`

	ProposedVersions []bolt.Version `json:"-"`
}

// DefaultProposedVersions is what Load fills ProposedVersions with.
// ProposedVersions is not read from the JSON document, so a loaded
// Config always starts with these.
var DefaultProposedVersions = []bolt.Version{
	{Major: 5, Minor: 4}, {Major: 5, Minor: 0}, {Major: 4, Minor: 4}, {},
}

// Load decodes and validates raw JSON into a Config, the way the
// teacher's config.Init reads a file then calls schema.Validate before
// unmarshaling into the live struct.
func Load(raw []byte) (Config, error) {
	sch, err := compile()
	if err != nil {
		return Config{}, err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Config{}, fmt.Errorf("boltconfig: invalid JSON: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return Config{}, fmt.Errorf("boltconfig: schema validation: %w", err)
	}

	cfg := Config{PoolSize: 10, TLSMode: TLSRequire}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("boltconfig: decode: %w", err)
	}
	if len(cfg.ProposedVersions) == 0 {
		cfg.ProposedVersions = DefaultProposedVersions
	}
	return cfg, nil
}
