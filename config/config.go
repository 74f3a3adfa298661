package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend identifiers accepted in settings.toml and SEVI_BACKEND.
const (
	BackendLMS       = "lms"
	BackendOpenAI    = "openai"
	BackendAnthropic = "anthropic"
	BackendOllama    = "ollama"
)

type ServerConfig struct {
	BaseURL        string `toml:"base_url"`
	SessionCookie  string `toml:"session_cookie,omitempty"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type AssistantConfig struct {
	Backend         string `toml:"backend"`
	Model           string `toml:"model,omitempty"`
	APIKey          string `toml:"api_key,omitempty"`
	BaseURL         string `toml:"base_url,omitempty"`
	UserAvatar      string `toml:"user_avatar"`
	AssistantAvatar string `toml:"assistant_avatar"`
	Greeting        string `toml:"greeting"`
}

// Settings mirrors settings.toml on disk.
type Settings struct {
	DataDirectory string            `toml:"data_directory"`
	Server        ServerConfig      `toml:"server"`
	Assistant     AssistantConfig   `toml:"assistant"`
	Keybindings   KeyBindingsConfig `toml:"keybindings"`
}

// Config is the resolved runtime configuration (settings + environment).
type Config struct {
	DataDirectory   string
	BaseURL         string
	SessionCookie   string
	Timeout         time.Duration
	Backend         string
	Model           string
	APIKey          string
	BackendURL      string
	UserAvatar      string
	AssistantAvatar string
	Greeting        string
	Keybindings     *KeyBindingsConfig
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SEVI_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("SEVI_COOKIE"); v != "" {
		c.SessionCookie = v
	}
	if v := os.Getenv("SEVI_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.Timeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("SEVI_BACKEND"); v != "" {
		c.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("SEVI_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("SEVI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("SEVI_BACKEND_URL"); v != "" {
		c.BackendURL = v
	}
	if v := os.Getenv("SEVI_DATA_DIR"); v != "" {
		c.DataDirectory = v
	}
}

// Validate checks the fields every backend relies on.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendLMS:
		if c.BaseURL == "" {
			return fmt.Errorf("server base_url cannot be empty")
		}
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("server base_url %q is not an absolute URL", c.BaseURL)
		}
	case BackendOpenAI, BackendAnthropic:
		if c.APIKey == "" {
			return fmt.Errorf("%s backend requires an API key (SEVI_API_KEY)", c.Backend)
		}
	case BackendOllama:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	if c.Keybindings != nil {
		if ok, msg := c.Keybindings.Validate(); !ok {
			return fmt.Errorf("keybindings: %s", msg)
		}
	}
	return nil
}

func CheckDebug() bool {
	debug := os.Getenv("SEVI_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (SEVI_DEBUG=%s) ===", os.Getenv("SEVI_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// Load reads .env (if any), settings.toml and the SEVI_* environment.
func Load() (*Config, error) {
	return LoadFrom(GetSettingsFilePath())
}

// LoadFrom is Load with an explicit settings path.
func LoadFrom(settingsPath string) (*Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	settings, err := LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}

	cfg := fromSettings(settings)
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	return cfg, nil
}

func fromSettings(s *Settings) *Config {
	kb := s.Keybindings
	if kb.Modifiers.Primary == "" {
		kb.Modifiers.Primary = "alt"
	}
	if kb.Modifiers.Secondary == "" {
		kb.Modifiers.Secondary = "alt+shift"
	}
	backend := strings.ToLower(strings.TrimSpace(s.Assistant.Backend))
	if backend == "" {
		backend = BackendLMS
	}

	return &Config{
		DataDirectory:   s.DataDirectory,
		BaseURL:         s.Server.BaseURL,
		SessionCookie:   s.Server.SessionCookie,
		Timeout:         time.Duration(s.Server.TimeoutSeconds) * time.Second,
		Backend:         backend,
		Model:           s.Assistant.Model,
		APIKey:          s.Assistant.APIKey,
		BackendURL:      s.Assistant.BaseURL,
		UserAvatar:      s.Assistant.UserAvatar,
		AssistantAvatar: s.Assistant.AssistantAvatar,
		Greeting:        s.Assistant.Greeting,
		Keybindings:     &kb,
	}
}
