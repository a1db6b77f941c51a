package config

import (
	"net/url"
	"strings"

	ferrors "git.home.luguber.info/inful/refreshd/internal/foundation/errors"
)

// Validate checks invariants that defaults cannot repair.
func (c *Config) Validate() error {
	if c == nil {
		return ferrors.ValidationError("configuration is nil").Build()
	}
	if raw := strings.TrimSpace(c.Gateway.BaseURL); raw != "" {
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			return ferrors.ValidationError("gateway.base_url must be an absolute URL").
				WithContext("base_url", raw).
				Build()
		}
	}
	if c.Discovery.Retry.MaxRetries < 0 {
		return ferrors.ValidationError("discovery.retry.max_retries cannot be negative").Build()
	}
	if c.Models != nil {
		for name, p := range c.Models.Providers {
			if p == nil {
				continue
			}
			for i, m := range p.Models {
				if strings.TrimSpace(m.ID) == "" {
					return ferrors.ValidationError("model id cannot be empty").
						WithContext("provider", name).
						WithContext("index", i).
						Build()
				}
			}
		}
	}
	return nil
}
