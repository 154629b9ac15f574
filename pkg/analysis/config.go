package analysis

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultDeepSeekBaseURL = "https://api.deepseek.com/v1"
	defaultDeepSeekModel   = "deepseek-chat"

	defaultDashScopeBaseURL = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"
	defaultDashScopeModel   = "qwen-vl-plus"

	defaultMaxTokens      = 2000
	defaultTemperature    = 0.7
	defaultRequestTimeout = 90 * time.Second
	defaultOverallTimeout = 180 * time.Second
	defaultLogLevel       = "info"

	envDeepSeekAPIKey  = "DEEPSEEK_API_KEY"
	envDashScopeAPIKey = "DASHSCOPE_API_KEY"
)

// ProviderConfig holds the settings for one network-backed provider. An empty
// APIKey means the provider is unconfigured and will be skipped.
type ProviderConfig struct {
	APIKey      string   `yaml:"api_key"`
	BaseURL     string   `yaml:"base_url"`
	Model       string   `yaml:"model"`
	MaxTokens   int      `yaml:"max_tokens"`
	Temperature *float64 `yaml:"temperature,omitempty"`
}

// Config holds runtime settings for the analysis gateway.
type Config struct {
	DeepSeek  ProviderConfig `yaml:"deepseek"`
	DashScope ProviderConfig `yaml:"dashscope"`

	MaxAttempts    int           `yaml:"max_attempts"`
	RetryDelay     time.Duration `yaml:"-"`
	RequestTimeout time.Duration `yaml:"-"`
	OverallTimeout time.Duration `yaml:"-"`
	LogLevel       string        `yaml:"log_level"`

	retryDelayRaw     string
	requestTimeoutRaw string
	overallTimeoutRaw string
}

// LoadConfig reads gateway configuration from disk.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open analysis config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from a reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	var raw struct {
		DeepSeek       ProviderConfig `yaml:"deepseek"`
		DashScope      ProviderConfig `yaml:"dashscope"`
		MaxAttempts    int            `yaml:"max_attempts"`
		RetryDelay     string         `yaml:"retry_delay"`
		RequestTimeout string         `yaml:"request_timeout"`
		OverallTimeout string         `yaml:"overall_timeout"`
		LogLevel       string         `yaml:"log_level"`
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read analysis config: %w", err)
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal analysis config: %w", err)
	}

	cfg := &Config{
		DeepSeek:          raw.DeepSeek,
		DashScope:         raw.DashScope,
		MaxAttempts:       raw.MaxAttempts,
		LogLevel:          raw.LogLevel,
		retryDelayRaw:     raw.RetryDelay,
		requestTimeoutRaw: raw.RequestTimeout,
		overallTimeoutRaw: raw.OverallTimeout,
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	if err := cfg.parseDurations(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns a config with every default applied and no
// credentials beyond what the environment provides.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	cfg.RetryDelay = defaultRetryDelay
	cfg.RequestTimeout = defaultRequestTimeout
	cfg.OverallTimeout = defaultOverallTimeout
	return cfg
}

// Validate checks that the configuration is coherent. Missing API keys are
// allowed: unconfigured providers fall through to the local substitute.
func (c *Config) Validate() error {
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("analysis config: max_attempts must be positive")
	}
	if c.RequestTimeout <= 0 || c.OverallTimeout <= 0 {
		return fmt.Errorf("analysis config: timeouts must be positive")
	}
	if c.OverallTimeout < c.RequestTimeout {
		return fmt.Errorf("analysis config: overall_timeout %s is shorter than request_timeout %s", c.OverallTimeout, c.RequestTimeout)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func (c *Config) applyDefaults() {
	applyProviderDefaults(&c.DeepSeek, defaultDeepSeekBaseURL, defaultDeepSeekModel)
	applyProviderDefaults(&c.DashScope, defaultDashScopeBaseURL, defaultDashScopeModel)
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = defaultLogLevel
	}
}

func applyProviderDefaults(p *ProviderConfig, baseURL, model string) {
	if strings.TrimSpace(p.BaseURL) == "" {
		p.BaseURL = baseURL
	}
	if strings.TrimSpace(p.Model) == "" {
		p.Model = model
	}
	if p.MaxTokens <= 0 {
		p.MaxTokens = defaultMaxTokens
	}
	if p.Temperature == nil {
		t := defaultTemperature
		p.Temperature = &t
	}
}

func (c *Config) applyEnvOverrides() {
	c.DeepSeek.APIKey = expandAndOverride(c.DeepSeek.APIKey, envDeepSeekAPIKey)
	c.DashScope.APIKey = expandAndOverride(c.DashScope.APIKey, envDashScopeAPIKey)

	if raw := os.Getenv("ANALYSIS_MAX_ATTEMPTS"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			c.MaxAttempts = v
		}
	}
	if raw := os.Getenv("ANALYSIS_REQUEST_TIMEOUT"); raw != "" {
		c.requestTimeoutRaw = raw
	}
	if raw := os.Getenv("ANALYSIS_OVERALL_TIMEOUT"); raw != "" {
		c.overallTimeoutRaw = raw
	}
}

func (c *Config) parseDurations() error {
	var err error
	if c.RetryDelay, err = parseDuration(c.retryDelayRaw, defaultRetryDelay); err != nil {
		return fmt.Errorf("analysis config: retry_delay: %w", err)
	}
	if c.RequestTimeout, err = parseDuration(c.requestTimeoutRaw, defaultRequestTimeout); err != nil {
		return fmt.Errorf("analysis config: request_timeout: %w", err)
	}
	if c.OverallTimeout, err = parseDuration(c.overallTimeoutRaw, defaultOverallTimeout); err != nil {
		return fmt.Errorf("analysis config: overall_timeout: %w", err)
	}
	return nil
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}

func expandAndOverride(current, envKey string) string {
	current = os.ExpandEnv(current)
	if envVal := os.Getenv(envKey); envVal != "" {
		return envVal
	}
	return current
}
