package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, "eng", cfg.OCR.Language)
	assert.Equal(t, "heuristic", cfg.LLM.Provider)
	assert.Equal(t, int32(1500), cfg.LLM.MaxOutputTokens)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-6)
	assert.Equal(t, "csv", cfg.Output.Format)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sv.yaml")
	data := []byte(`
server:
  addr: ":9090"
llm:
  provider: gemini
  model: gemini-2.0-flash
output:
  format: xlsx
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.Equal(t, "xlsx", cfg.Output.Format)
	// Untouched sections keep defaults.
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, 32, cfg.Server.MaxUploadMB)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err, "an explicit path must exist")

	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"SV_LLM_PROVIDER":  "gemini",
		"GEMINI_API_KEY":   "secret",
		"SV_OCR_DPI":       "200",
		"SV_OUTPUT_FORMAT": "xlsx",
		"SV_LOG_LEVEL":     "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "secret", cfg.LLM.APIKey)
	assert.Equal(t, 200, cfg.OCR.DPI)
	assert.Equal(t, "xlsx", cfg.Output.Format)
	assert.Equal(t, "info", cfg.Logging.Level, "empty values are ignored")

	env["SV_MAX_UPLOAD_MB"] = "lots"
	assert.Error(t, Default().ApplyEnv(lookup))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.LLM.Provider = "mistral" }},
		{"unknown format", func(c *Config) { c.Output.Format = "pdf" }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"zero upload size", func(c *Config) { c.Server.MaxUploadMB = 0 }},
		{"zero dpi", func(c *Config) { c.OCR.DPI = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sv.yaml")
	cfg := Default()
	cfg.LLM.Provider = "gemini"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
