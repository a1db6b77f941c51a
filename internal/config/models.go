package config

import "maps"

// Provider returns the named provider section, or nil when it is not configured.
func (c *Config) Provider(name string) *ProviderConfig {
	if c == nil || c.Models == nil {
		return nil
	}
	return c.Models.Providers[name]
}

// WithProviderModels returns a new Config in which only the named provider's
// model list is replaced. Every other field, including other providers and the
// provider's own endpoint settings, is carried over unchanged. The receiver is
// not modified.
func (c *Config) WithProviderModels(provider string, models []ModelDefinition) *Config {
	next := *c

	var modelsCfg ModelsConfig
	if c.Models != nil {
		modelsCfg = *c.Models
	}
	providers := make(map[string]*ProviderConfig, len(modelsCfg.Providers)+1)
	maps.Copy(providers, modelsCfg.Providers)

	var p ProviderConfig
	if existing := providers[provider]; existing != nil {
		p = *existing
	}
	p.Models = append([]ModelDefinition(nil), models...)
	providers[provider] = &p

	modelsCfg.Providers = providers
	next.Models = &modelsCfg
	return &next
}
