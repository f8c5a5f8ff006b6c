package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "statement-validator.yaml"

// Config represents the top-level statement-validator.yaml configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	OCR     OCRConfig     `yaml:"ocr"`
	LLM     LLMConfig     `yaml:"llm"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig controls the HTTP front end.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	UploadDir   string `yaml:"upload_dir"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
	StaticDir   string `yaml:"static_dir,omitempty"`
}

// OCRConfig controls page rendering and Tesseract.
type OCRConfig struct {
	DPI      int    `yaml:"dpi"`
	Language string `yaml:"language"`
	PSM      int    `yaml:"psm"`
}

// LLMConfig selects the transaction-line extractor.
type LLMConfig struct {
	Provider        string  `yaml:"provider"` // "gemini" or "heuristic"
	Model           string  `yaml:"model"`
	APIKey          string  `yaml:"api_key,omitempty"`
	Temperature     float32 `yaml:"temperature"`
	MaxOutputTokens int32   `yaml:"max_output_tokens"`
}

// OutputConfig controls the ledger sink.
type OutputConfig struct {
	Format string `yaml:"format"` // "csv" or "xlsx"
	Dir    string `yaml:"dir"`
}

// LoggingConfig controls zerolog output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// Default returns a Config that works without any file or environment.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8080",
			UploadDir:   "uploads",
			MaxUploadMB: 32,
		},
		OCR: OCRConfig{
			DPI:      300,
			Language: "eng",
			PSM:      4,
		},
		LLM: LLMConfig{
			Provider:        "heuristic",
			Model:           "gemini-2.5-flash",
			Temperature:     0.2,
			MaxOutputTokens: 1500,
		},
		Output: OutputConfig{
			Format: "csv",
			Dir:    ".",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a YAML file over the defaults. A missing file is not an error
// when path is DefaultPath or empty.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != "" && path != DefaultPath
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return cfg, nil
}

// LoadWithEnv loads .env (if present), the YAML file, then applies
// environment overrides and validates the result.
func LoadWithEnv(path string) (*Config, error) {
	// .env is optional for local runs.
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"SV_SERVER_ADDR":   &c.Server.Addr,
		"SV_UPLOAD_DIR":    &c.Server.UploadDir,
		"SV_STATIC_DIR":    &c.Server.StaticDir,
		"SV_OCR_LANGUAGE":  &c.OCR.Language,
		"SV_LLM_PROVIDER":  &c.LLM.Provider,
		"SV_LLM_MODEL":     &c.LLM.Model,
		"GEMINI_API_KEY":   &c.LLM.APIKey,
		"SV_OUTPUT_FORMAT": &c.Output.Format,
		"SV_OUTPUT_DIR":    &c.Output.Dir,
		"SV_LOG_LEVEL":     &c.Logging.Level,
		"SV_LOG_FORMAT":    &c.Logging.Format,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"SV_MAX_UPLOAD_MB": &c.Server.MaxUploadMB,
		"SV_OCR_DPI":       &c.OCR.DPI,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
	}
	return nil
}

// Validate rejects unknown enum values and impossible sizes.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "gemini", "heuristic":
	default:
		return fmt.Errorf("llm.provider must be gemini or heuristic, got %q", c.LLM.Provider)
	}
	switch c.Output.Format {
	case "csv", "xlsx":
	default:
		return fmt.Errorf("output.format must be csv or xlsx, got %q", c.Output.Format)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	if c.OCR.DPI <= 0 {
		return fmt.Errorf("ocr.dpi must be positive, got %d", c.OCR.DPI)
	}
	return nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
