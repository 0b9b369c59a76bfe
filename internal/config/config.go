// Package config assembles the immutable run configuration from layered
// sources: hardcoded defaults, an optional .tmx.yaml file, environment
// variables, then command-line flags. The result is constructed once at
// startup and passed by value; nothing reads ambient state afterwards.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/tmx/internal/policy"
)

// Defaults.
const (
	DefaultToolchain = "toxc"
	DefaultTestExt   = "_test.tox"
	DefaultGen       = "gen2"
	DefaultTheme     = "unicode"
	DefaultDir       = "."
)

// CliFlags holds parsed command-line flag values. The *Set fields record
// whether the user supplied the flag explicitly, so unset flags never
// clobber file or environment settings.
type CliFlags struct {
	Dir       string
	Gen       string
	Toolchain string
	ThemeName string
	JSONPath  string
	CI        bool
	FailFast  bool
	Watch     bool
	NoColor   bool
	Debug     bool

	CISet       bool
	FailFastSet bool
	NoColorSet  bool
	DebugSet    bool
}

// FileConfig is the .tmx.yaml shape. Pointer fields distinguish "absent"
// from zero values.
type FileConfig struct {
	Toolchain string       `yaml:"toolchain,omitempty"`
	TestExt   string       `yaml:"test_ext,omitempty"`
	Gen       string       `yaml:"gen,omitempty"`
	Theme     string       `yaml:"theme,omitempty"`
	CI        *bool        `yaml:"ci,omitempty"`
	FailFast  *bool        `yaml:"fail_fast,omitempty"`
	NoColor   *bool        `yaml:"no_color,omitempty"`
	Debug     *bool        `yaml:"debug,omitempty"`
	Rules     policy.Rules `yaml:"rules,omitempty"`
}

// Config is the resolved, immutable run configuration.
type Config struct {
	Dir       string
	Toolchain string
	TestExt   string
	Gen       string
	ThemeName string
	JSONPath  string
	CI        bool
	FailFast  bool
	Watch     bool
	NoColor   bool
	Debug     bool
	Rules     policy.Rules
}

// Env returns the policy environment slice of the config.
func (c Config) Env() policy.Env {
	return policy.Env{Gen: c.Gen, CI: c.CI, FailFast: c.FailFast}
}

// Load resolves the full configuration. Layering, lowest to highest
// precedence: defaults, config file, environment, CLI flags.
func Load(flags CliFlags) (Config, error) {
	cfg := Config{
		Dir:       DefaultDir,
		Toolchain: DefaultToolchain,
		TestExt:   DefaultTestExt,
		Gen:       DefaultGen,
		ThemeName: DefaultTheme,
		Rules:     policy.Default(),
	}

	if path := configPath(); path != "" {
		fileCfg, err := readFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
		applyFile(&cfg, fileCfg)
	}

	applyEnv(&cfg)
	applyFlags(&cfg, flags)
	return cfg, nil
}

func readFile(path string) (FileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, err
	}
	var fc FileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return FileConfig{}, err
	}
	return fc, nil
}

func applyFile(cfg *Config, fc FileConfig) {
	if fc.Toolchain != "" {
		cfg.Toolchain = fc.Toolchain
	}
	if fc.TestExt != "" {
		cfg.TestExt = fc.TestExt
	}
	if fc.Gen != "" {
		cfg.Gen = fc.Gen
	}
	if fc.Theme != "" {
		cfg.ThemeName = fc.Theme
	}
	if fc.CI != nil {
		cfg.CI = *fc.CI
	}
	if fc.FailFast != nil {
		cfg.FailFast = *fc.FailFast
	}
	if fc.NoColor != nil {
		cfg.NoColor = *fc.NoColor
	}
	if fc.Debug != nil {
		cfg.Debug = *fc.Debug
	}
	cfg.Rules = cfg.Rules.Merge(fc.Rules)
}

func applyEnv(cfg *Config) {
	if v := envBool("TMX_CI", "CI"); v != nil {
		cfg.CI = *v
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TMX_NO_COLOR") != "" {
		cfg.NoColor = true
	}
	if os.Getenv("TMX_DEBUG") != "" {
		cfg.Debug = true
	}
}

func applyFlags(cfg *Config, flags CliFlags) {
	if flags.Dir != "" {
		cfg.Dir = flags.Dir
	}
	if flags.Gen != "" {
		cfg.Gen = flags.Gen
	}
	if flags.Toolchain != "" {
		cfg.Toolchain = flags.Toolchain
	}
	if flags.ThemeName != "" {
		cfg.ThemeName = flags.ThemeName
	}
	if flags.JSONPath != "" {
		cfg.JSONPath = flags.JSONPath
	}
	cfg.Watch = flags.Watch
	if flags.CISet {
		cfg.CI = flags.CI
	}
	if flags.FailFastSet {
		cfg.FailFast = flags.FailFast
	}
	if flags.NoColorSet {
		cfg.NoColor = flags.NoColor
	}
	if flags.DebugSet {
		cfg.Debug = flags.Debug
	}
}

// envBool reads the first set variable of names as a boolean, tolerating
// the usual truthy spellings. Returns nil when none are set or parseable.
func envBool(names ...string) *bool {
	for _, name := range names {
		raw := os.Getenv(name)
		if raw == "" {
			continue
		}
		if v, err := strconv.ParseBool(raw); err == nil {
			return &v
		}
	}
	return nil
}

// configPath locates .tmx.yaml: the working directory first, then the
// user config directory under a tmx/ subdirectory.
func configPath() string {
	local := ".tmx.yaml"
	if _, err := os.Stat(local); err == nil {
		return local
	}
	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdg := filepath.Join(configHome, "tmx", ".tmx.yaml")
	if _, err := os.Stat(xdg); err == nil {
		return xdg
	}
	return ""
}
