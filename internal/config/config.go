// Package config loads the application configuration: where the data files
// live, who the author is, and how the analysis gateway reaches its
// providers.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zeromicro/go-zero/core/conf"

	"github.com/Kenneth-cs/DeepReview/internal/prefs"
	"github.com/Kenneth-cs/DeepReview/pkg/analysis"
	"github.com/Kenneth-cs/DeepReview/pkg/confkit"
)

// Config is the top-level application configuration.
type Config struct {
	// Env indicates the running environment: test | dev | prod.
	Env string `json:",default=dev"`
	// DataDir is where reviews.json and its backup live, resolved relative
	// to the main config file when not absolute.
	DataDir string `json:",default=data"`
	// UserName is embedded in analysis prompts. Overridable via preferences.
	UserName string `json:",optional"`

	Analysis confkit.Section[analysis.Config] `json:",optional"`

	mainPath string
	baseDir  string
}

// MustLoad is Load, panicking on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the main config file, applies env expansion and hydrates the
// analysis section.
func Load(path string) (*Config, error) {
	confkit.LoadDotenvOnce()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %s: %w", path, err)
	}

	var cfg Config
	if err := conf.Load(absPath, &cfg, conf.UseEnv()); err != nil {
		return nil, fmt.Errorf("load config %s: %w", absPath, err)
	}

	cfg.mainPath = absPath
	cfg.baseDir = filepath.Dir(absPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Analysis.Hydrate(cfg.baseDir, analysis.LoadConfig); err != nil {
		return nil, fmt.Errorf("load analysis config: %w", err)
	}
	return &cfg, nil
}

// Validate checks required fields and normalizes Env.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "", "test", "dev", "prod":
		if strings.TrimSpace(c.Env) == "" {
			c.Env = "dev"
		}
	default:
		return errors.New("config: env must be one of test|dev|prod")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("config: dataDir is required")
	}
	return nil
}

// PrefsPath returns the location of the preference file inside the data
// directory.
func (c *Config) PrefsPath() string {
	return filepath.Join(c.DataPath(), "prefs.json")
}

// ApplyPreferences overlays stored preferences onto the loaded config. Values
// set via the config file or environment win; preferences fill what those
// left blank.
func (c *Config) ApplyPreferences(p *prefs.Prefs) {
	if p == nil {
		return
	}

	if strings.TrimSpace(c.UserName) == "" {
		c.UserName = p.Get(prefs.KeyUserName)
	}

	if c.Analysis.Value == nil {
		c.Analysis.Value = analysis.DefaultConfig()
	}
	ac := c.Analysis.Value
	if strings.TrimSpace(ac.DeepSeek.APIKey) == "" {
		ac.DeepSeek.APIKey = p.Get(prefs.KeyDeepSeekAPIKey)
	}
	if strings.TrimSpace(ac.DashScope.APIKey) == "" {
		ac.DashScope.APIKey = p.Get(prefs.KeyDashScopeAPIKey)
	}
}

// DataPath returns the absolute data directory.
func (c *Config) DataPath() string {
	return confkit.ResolvePath(c.baseDir, c.DataDir)
}

// AnalysisConfig returns the hydrated analysis section, or defaults when the
// main config names no section file.
func (c *Config) AnalysisConfig() *analysis.Config {
	if c.Analysis.Value != nil {
		return c.Analysis.Value
	}
	return analysis.DefaultConfig()
}
