package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Paths contains directory and bind address configuration.
type Paths struct {
	UploadDir string `toml:"upload_dir"`
	DataDir   string `toml:"data_dir"`
	LogDir    string `toml:"log_dir"`
	APIBind   string `toml:"api_bind"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// OpenAI contains remote AI service connection settings shared by the four
// remote stage strategies.
type OpenAI struct {
	APIKey                   string `toml:"api_key"`
	BaseURL                  string `toml:"base_url"`
	Model                    string `toml:"model"`
	TranscribeModel          string `toml:"transcribe_model"`
	Language                 string `toml:"language"`
	TimeoutSeconds           int    `toml:"timeout_seconds"`
	TranscribeTimeoutSeconds int    `toml:"transcribe_timeout_seconds"`
	TranscribeRetries        int    `toml:"transcribe_retries"`
}

// Whisper contains the local speech-recognition fallback settings.
type Whisper struct {
	Binary   string `toml:"binary"`
	Model    string `toml:"model"`
	Language string `toml:"language"`
}

// Analysis contains content-analysis policy knobs.
type Analysis struct {
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
	TopTopics           int     `toml:"top_topics"`
}

// Summary contains summarization policy knobs.
type Summary struct {
	MaxSentences int `toml:"max_sentences"`
}

// Planning contains plan-generation policy knobs.
type Planning struct {
	DefaultDurationDays int `toml:"default_duration_days"`
}

// Tracking contains the optional durable store settings for tracked
// objectives and tasks.
type Tracking struct {
	Persist bool `toml:"persist"`
}

// Config is the root configuration for the recap daemon.
type Config struct {
	Paths    `toml:"paths"`
	OpenAI   OpenAI   `toml:"openai"`
	Whisper  Whisper  `toml:"whisper"`
	Analysis Analysis `toml:"analysis"`
	Summary  Summary  `toml:"summary"`
	Planning Planning `toml:"planning"`
	Tracking Tracking `toml:"tracking"`
}

// DefaultConfigPath returns the expected location of the user config file.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "recap", "config.toml"), nil
}

// Load reads configuration from path, falling back to the default location
// and then to built-in defaults when no file exists. The resolved path is
// returned alongside the configuration.
func Load(path string) (*Config, string, error) {
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, "", err
		}
		resolved = defaultPath
	}
	resolved = ExpandPath(resolved)

	cfg := Default()
	data, err := os.ReadFile(resolved)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, resolved, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Defaults apply when no config file exists.
	default:
		return nil, resolved, fmt.Errorf("read config %s: %w", resolved, err)
	}

	cfg.applyEnvOverrides()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, resolved, err
	}
	return &cfg, resolved, nil
}

func (c *Config) applyEnvOverrides() {
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		c.OpenAI.APIKey = key
	}
	if bind := strings.TrimSpace(os.Getenv("RECAP_API_BIND")); bind != "" {
		c.Paths.APIBind = bind
	}
}

func (c *Config) normalize() {
	c.UploadDir = ExpandPath(c.UploadDir)
	c.DataDir = ExpandPath(c.DataDir)
	c.LogDir = ExpandPath(c.LogDir)
}

// EnsureDirectories creates the configured directories when missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.UploadDir, c.DataDir, c.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// RemoteConfigured reports whether the remote AI service can be attempted.
func (c *Config) RemoteConfigured() bool {
	key := strings.TrimSpace(c.OpenAI.APIKey)
	return key != "" && key != "your_openai_api_key"
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
