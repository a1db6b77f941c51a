package config

import "time"

const (
	DefaultAdminAddr      = "127.0.0.1:8089"
	DefaultInitialView    = "overview"
	DefaultGatewayTimeout = 10 * time.Second
	DefaultFetchTimeout   = 5 * time.Second
	DefaultNotifySubject  = "refreshd.models.changed"
)

// applyDefaults fills unset fields in place. It runs on freshly decoded values
// only, before the snapshot is published.
func applyDefaults(cfg *Config) {
	if cfg.Daemon.AdminAddr == "" {
		cfg.Daemon.AdminAddr = DefaultAdminAddr
	}
	if cfg.Daemon.InitialView == "" {
		cfg.Daemon.InitialView = DefaultInitialView
	}
	if cfg.Gateway.Timeout <= 0 {
		cfg.Gateway.Timeout = DefaultGatewayTimeout
	}
	if cfg.Discovery.Provider == "" {
		cfg.Discovery.Provider = ProviderLMStudio
	}
	if cfg.Discovery.FetchTimeout <= 0 {
		cfg.Discovery.FetchTimeout = DefaultFetchTimeout
	}
	if mode := NormalizeRetryBackoff(string(cfg.Discovery.Retry.Backoff)); mode != "" {
		cfg.Discovery.Retry.Backoff = mode
	} else {
		cfg.Discovery.Retry.Backoff = RetryBackoffLinear
	}
	if cfg.Discovery.Retry.InitialDelay <= 0 {
		cfg.Discovery.Retry.InitialDelay = 250 * time.Millisecond
	}
	if cfg.Discovery.Retry.MaxDelay <= 0 {
		cfg.Discovery.Retry.MaxDelay = 2 * time.Second
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultNotifySubject
	}
}
