package supplier

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Definition describes one configured supplier integration.
type Definition struct {
	// Name identifies the supplier in reports, logs, and CLI filters.
	Name string `json:"name"`
	// Type selects the connector implementation ("api" or "portal").
	Type string `json:"type"`
	// Enabled excludes the supplier from runs when false.
	Enabled bool `json:"enabled"`
	// EnvPrefix overrides the prefix used for credential env lookups.
	EnvPrefix string `json:"env_prefix,omitempty"`
	// Config holds connector-specific settings (base_url, username, ...).
	Config map[string]string `json:"config"`
}

// File is the on-disk suppliers configuration document.
type File struct {
	Suppliers []Definition `json:"suppliers"`
	// StatusMapping translates supplier status text into quantities,
	// shared by all suppliers. Keys are matched case-insensitively.
	StatusMapping map[string]int `json:"status_mapping"`
}

// LoadFile reads and parses the suppliers configuration, then overlays
// credentials from the environment. Secrets belong in the environment, not
// in the JSON file; <PREFIX>_USERNAME and <PREFIX>_PASSWORD win over any
// file values. The prefix is the supplier name uppercased, with an optional
// env_prefix override and hyphen/underscore-stripped fallbacks.
func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suppliers config %s: %w", path, err)
	}

	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse suppliers config %s: %w", path, err)
	}

	for i := range f.Suppliers {
		applyEnvCredentials(&f.Suppliers[i])
	}

	return &f, nil
}

// Enabled returns the suppliers that should take part in a run, optionally
// restricted to a single name. An unknown filter name yields an error rather
// than a silently empty run.
func (f *File) Enabled(filter string) ([]Definition, error) {
	var out []Definition
	for _, def := range f.Suppliers {
		if filter != "" && !strings.EqualFold(def.Name, filter) {
			continue
		}
		if def.Enabled {
			out = append(out, def)
		}
	}
	if filter != "" && len(out) == 0 {
		return nil, fmt.Errorf("no enabled supplier named %q", filter)
	}
	return out, nil
}

func applyEnvCredentials(def *Definition) {
	if def.Name == "" {
		return
	}
	if def.Config == nil {
		def.Config = map[string]string{}
	}

	var prefixes []string
	if def.EnvPrefix != "" {
		prefixes = append(prefixes, def.EnvPrefix)
	}
	prefixes = append(prefixes,
		def.Name,
		strings.ReplaceAll(def.Name, "-", "_"),
		strings.NewReplacer("-", "", "_", "").Replace(def.Name),
	)

	for _, key := range []string{"username", "password"} {
		for _, prefix := range prefixes {
			env := strings.ToUpper(prefix) + "_" + strings.ToUpper(key)
			if v := os.Getenv(env); v != "" {
				def.Config[key] = v
				break
			}
		}
	}
}
