package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/refreshd/internal/foundation/errors"
)

const sampleYAML = `
gateway:
  base_url: http://gw.local:18789
  timeout: 3s
models:
  catalog_file: models.json
  providers:
    lmstudio:
      base_url: http://127.0.0.1:1234/v1
      api_key: ${LMSTUDIO_API_KEY}
      api: openai-completions
      models:
        - id: a
          name: Model A
        - id: b
    ollama:
      base_url: http://127.0.0.1:11434
      models:
        - id: llama3
discovery:
  retry:
    backoff: EXPONENTIAL
    max_retries: 2
`

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	require.Equal(t, DefaultAdminAddr, cfg.Daemon.AdminAddr)
	require.Equal(t, DefaultInitialView, cfg.Daemon.InitialView)
	require.Equal(t, 3*time.Second, cfg.Gateway.Timeout)
	require.Equal(t, ProviderLMStudio, cfg.Discovery.Provider)
	require.Equal(t, DefaultFetchTimeout, cfg.Discovery.FetchTimeout)
	require.Equal(t, RetryBackoffExponential, cfg.Discovery.Retry.Backoff)
	require.Equal(t, 2, cfg.Discovery.Retry.MaxRetries)
	require.Equal(t, DefaultNotifySubject, cfg.Notify.Subject)

	p := cfg.Provider(ProviderLMStudio)
	require.NotNil(t, p)
	require.Equal(t, "${LMSTUDIO_API_KEY}", p.APIKey, "secrets stay unexpanded in the snapshot")
	require.Len(t, p.Models, 2)
	require.Equal(t, "Model A", p.Models[0].Name)
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"relative gateway": "gateway:\n  base_url: gw.local\n",
		"negative retries": "discovery:\n  retry:\n    max_retries: -1\n",
		"empty model id":   "models:\n  providers:\n    lmstudio:\n      models:\n        - id: \"  \"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(body))
			require.Error(t, err)
			require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
		})
	}
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("gateway: [unterminated"))
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestInitWritesExampleAndRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refreshd.yaml")

	require.NoError(t, Init(path, false))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Provider(ProviderLMStudio))

	err = Init(path, false)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	require.NoError(t, Init(path, true))
}

func TestProviderOnNilModels(t *testing.T) {
	var cfg Config
	require.Nil(t, cfg.Provider(ProviderLMStudio))
	var nilCfg *Config
	require.Nil(t, nilCfg.Provider(ProviderLMStudio))
}

func TestExpand(t *testing.T) {
	t.Setenv("REFRESHD_TEST_KEY", "  secret  ")
	require.Equal(t, "secret", Expand("${REFRESHD_TEST_KEY}"))
	require.Equal(t, "plain", Expand(" plain "))
	require.Empty(t, Expand("${REFRESHD_TEST_UNSET}"))
}

func TestLoadEnvFilesMissingIsNotAnError(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, os.Chdir(t.TempDir()))

	require.NoError(t, LoadEnvFiles())
}

func TestLoadEnvFilesDoesNotOverride(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("REFRESHD_ENV_A=fromfile\n"), 0o600))

	t.Setenv("REFRESHD_ENV_A", "fromprocess")
	require.NoError(t, LoadEnvFiles())
	require.Equal(t, "fromprocess", os.Getenv("REFRESHD_ENV_A"))
}
