package config

import (
	"path/filepath"

	json "github.com/goccy/go-json"
)

// Catalog is the JSON document written next to the configuration for
// consumers that only need the model list.
type Catalog struct {
	Providers map[string]*ProviderConfig `json:"providers"`
}

// CatalogPath resolves the catalog file relative to the config file directory.
func CatalogPath(configPath string, cfg *Config) string {
	if cfg == nil || cfg.Models == nil || cfg.Models.CatalogFile == "" {
		return ""
	}
	if filepath.IsAbs(cfg.Models.CatalogFile) {
		return cfg.Models.CatalogFile
	}
	return filepath.Join(filepath.Dir(configPath), cfg.Models.CatalogFile)
}

// MarshalCatalog renders the providers of cfg as an indented JSON catalog.
// API keys are dropped; the catalog is meant to be world readable.
func MarshalCatalog(cfg *Config) ([]byte, error) {
	cat := Catalog{Providers: map[string]*ProviderConfig{}}
	if cfg != nil && cfg.Models != nil {
		for name, p := range cfg.Models.Providers {
			if p == nil {
				continue
			}
			cp := *p
			cp.APIKey = ""
			if cp.Models == nil {
				cp.Models = []ModelDefinition{}
			}
			cat.Providers[name] = &cp
		}
	}
	return json.MarshalIndent(cat, "", "  ")
}
