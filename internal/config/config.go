package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/supertoolshq/gateway/internal/providers"
)

const (
	DefaultPort           = 6970
	DefaultHost           = "127.0.0.1"
	DefaultConfigFilename = "config.json"
	DefaultYAMLFilename   = "config.yaml"
)

// Tool names used as keys in the routing table.
const (
	ToolQuickReceipt       = "quickreceipt"
	ToolPantry             = "pantry"
	ToolRecipes            = "recipes"
	ToolVoiceTask          = "voicetask"
	ToolSettle             = "settle"
	ToolArgumentScreenshot = "argument_screenshot"
	ToolPersonaScreenshot  = "persona_screenshot"
	ToolAnalyzeStyle       = "analyze_style"
	ToolDraftReply         = "draft_reply"
	ToolFormalize          = "formalize"
)

type Provider struct {
	Name     string `json:"name" yaml:"name"`
	APIKey   string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// Route binds one tool to a provider and model. Which provider is canonical
// for a tool is configuration, not code.
type Route struct {
	Provider string `json:"provider" yaml:"provider"`
	Model    string `json:"model" yaml:"model"`
}

type Config struct {
	Host      string           `json:"host,omitempty" yaml:"host,omitempty"`
	Port      int              `json:"port,omitempty" yaml:"port,omitempty"`
	APIKey    string           `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Providers []Provider       `json:"providers,omitempty" yaml:"providers,omitempty"`
	Routes    map[string]Route `json:"routes,omitempty" yaml:"routes,omitempty"`
}

// DefaultRoutes mirrors the provider choices of the newest tool versions.
func DefaultRoutes() map[string]Route {
	return map[string]Route{
		ToolQuickReceipt:       {Provider: providers.ProviderOpenAI, Model: "gpt-4o"},
		ToolPantry:             {Provider: providers.ProviderOpenAI, Model: "gpt-4o"},
		ToolRecipes:            {Provider: providers.ProviderOpenAI, Model: "gpt-4o"},
		ToolVoiceTask:          {Provider: providers.ProviderOpenAI, Model: "gpt-4o"},
		ToolSettle:             {Provider: providers.ProviderOpenAI, Model: "gpt-4o"},
		ToolArgumentScreenshot: {Provider: providers.ProviderOpenAI, Model: "gpt-4o"},
		ToolPersonaScreenshot:  {Provider: providers.ProviderOpenAI, Model: "gpt-4o"},
		ToolAnalyzeStyle:       {Provider: providers.ProviderOpenAI, Model: "gpt-4o"},
		ToolDraftReply:         {Provider: providers.ProviderOpenAI, Model: "gpt-4o"},
		ToolFormalize:          {Provider: providers.ProviderAnthropic, Model: "claude-3-5-sonnet-20241022"},
	}
}

// RouteFor returns the configured route for a tool, falling back to the
// default routing table.
func (c *Config) RouteFor(tool string) Route {
	if route, ok := c.Routes[tool]; ok && route.Provider != "" {
		return route
	}

	return DefaultRoutes()[tool]
}

// ProviderSettings resolves per-provider credentials and endpoint overrides.
// A key present in the config file wins; otherwise the provider's environment
// variable is consulted. Absence is not an error here — the factory reports a
// missing credential when a route actually needs the provider.
func (c *Config) ProviderSettings() map[string]providers.ProviderSettings {
	settings := map[string]providers.ProviderSettings{
		providers.ProviderOpenAI:    {APIKey: os.Getenv("OPENAI_API_KEY")},
		providers.ProviderAnthropic: {APIKey: os.Getenv("ANTHROPIC_API_KEY")},
		providers.ProviderGroq:      {APIKey: os.Getenv("GROQ_API_KEY")},
	}

	for _, p := range c.Providers {
		s := settings[p.Name]
		if p.APIKey != "" {
			s.APIKey = p.APIKey
		}

		if p.Endpoint != "" {
			s.Endpoint = p.Endpoint
		}

		settings[p.Name] = s
	}

	return settings
}

// Manager loads and caches the gateway configuration. The cached value is
// swapped atomically so concurrent request handlers read a consistent config.
type Manager struct {
	baseDir     string
	configValue atomic.Value
}

func NewManager(baseDir string) *Manager {
	return &Manager{baseDir: baseDir}
}

// Load reads config.json or, if absent, config.yaml from the base directory.
func (m *Manager) Load() (*Config, error) {
	var (
		cfg  Config
		path string
	)

	jsonPath := filepath.Join(m.baseDir, DefaultConfigFilename)
	yamlPath := filepath.Join(m.baseDir, DefaultYAMLFilename)

	switch {
	case fileExists(jsonPath):
		path = jsonPath

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	case fileExists(yamlPath):
		path = yamlPath

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	default:
		return nil, fmt.Errorf("no config file found in %s", m.baseDir)
	}

	applyDefaults(&cfg)
	m.configValue.Store(&cfg)

	return &cfg, nil
}

// Get returns the cached configuration, loading it on first use. Falls back
// to defaults when no config file exists, since all credentials can come from
// the environment.
func (m *Manager) Get() *Config {
	if v := m.configValue.Load(); v != nil {
		return v.(*Config)
	}

	cfg, err := m.Load()
	if err != nil {
		cfg = &Config{}
		applyDefaults(cfg)
		m.configValue.Store(cfg)
	}

	return cfg
}

func (m *Manager) Save(cfg *Config) error {
	if err := os.MkdirAll(m.baseDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(m.baseDir, DefaultConfigFilename), data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	applyDefaults(cfg)
	m.configValue.Store(cfg)

	return nil
}

func (m *Manager) GetPath() string {
	return filepath.Join(m.baseDir, DefaultConfigFilename)
}

func (m *Manager) Exists() bool {
	return fileExists(filepath.Join(m.baseDir, DefaultConfigFilename)) ||
		fileExists(filepath.Join(m.baseDir, DefaultYAMLFilename))
}

func applyDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}

	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
