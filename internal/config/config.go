package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/manas300/portfolio/internal/viewctl"
)

// EnvPrefix namespaces environment overrides. A double underscore descends
// one level: PORTFOLIO_SERVER__PORT sets server.port.
const EnvPrefix = "PORTFOLIO_"

// Config is the top-level configuration, corresponding to portfolio.yml.
type Config struct {
	Server      ServerConfig  `yaml:"server" koanf:"server"`
	Store       StoreConfig   `yaml:"store" koanf:"store"`
	SMTP        SMTPConfig    `yaml:"smtp" koanf:"smtp"`
	Admin       AdminConfig   `yaml:"admin" koanf:"admin"`
	Contact     ContactConfig `yaml:"contact" koanf:"contact"`
	View        ViewConfig    `yaml:"view" koanf:"view"`
	ContentFile string        `yaml:"content_file" koanf:"content_file"`
	LogDir      string        `yaml:"log_dir" koanf:"log_dir"`
}

type ServerConfig struct {
	Host string `yaml:"host" koanf:"host"`
	Port int    `yaml:"port" koanf:"port"`
	// Mode is the gin mode: debug, release or test.
	Mode           string   `yaml:"mode" koanf:"mode"`
	TrustedProxies []string `yaml:"trusted_proxies" koanf:"trusted_proxies"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

type StoreConfig struct {
	Path string `yaml:"path" koanf:"path"`
	// Retention bounds how long visitor rows are kept.
	Retention time.Duration `yaml:"retention" koanf:"retention"`
}

// SMTPConfig configures contact form delivery. Mail is skipped when User
// or Pass is empty; messages are still stored.
type SMTPConfig struct {
	Host string `yaml:"host" koanf:"host"`
	Port string `yaml:"port" koanf:"port"`
	User string `yaml:"user" koanf:"user"`
	Pass string `yaml:"pass" koanf:"pass"`
	To   string `yaml:"to" koanf:"to"`
}

// Enabled reports whether credentials are present.
func (s SMTPConfig) Enabled() bool {
	return s.User != "" && s.Pass != ""
}

type AdminConfig struct {
	Username string `yaml:"username" koanf:"username"`
	Password string `yaml:"password" koanf:"password"`
}

type ContactConfig struct {
	// PerMinute is the sustained submission rate allowed per visitor.
	PerMinute  float64 `yaml:"per_minute" koanf:"per_minute"`
	Burst      int     `yaml:"burst" koanf:"burst"`
	MaxMessage int     `yaml:"max_message" koanf:"max_message"`
}

type ViewConfig struct {
	SplashDelay        time.Duration `yaml:"splash_delay" koanf:"splash_delay"`
	RotateInterval     time.Duration `yaml:"rotate_interval" koanf:"rotate_interval"`
	ScrollTopThreshold float64       `yaml:"scroll_top_threshold" koanf:"scroll_top_threshold"`
	ActiveLine         float64       `yaml:"active_line" koanf:"active_line"`
	// LineUnit is how many viewport units one terminal row counts for.
	LineUnit float64 `yaml:"line_unit" koanf:"line_unit"`
}

// Options builds controller options for the given sections and role count.
func (v ViewConfig) Options(sections []string, roles int) viewctl.Options {
	return viewctl.Options{
		Sections:           sections,
		RoleCount:          roles,
		SplashDelay:        v.SplashDelay,
		RotateInterval:     v.RotateInterval,
		ScrollTopThreshold: v.ScrollTopThreshold,
		ActiveLine:         v.ActiveLine,
		Behavior:           viewctl.Smooth,
	}
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
			Mode: "release",
		},
		Store: StoreConfig{
			Path:      "data/portfolio.db",
			Retention: 365 * 24 * time.Hour,
		},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: "587",
		},
		Contact: ContactConfig{
			PerMinute:  2,
			Burst:      3,
			MaxMessage: 5000,
		},
		View: ViewConfig{
			SplashDelay:        viewctl.DefaultSplashDelay,
			RotateInterval:     viewctl.DefaultRotateInterval,
			ScrollTopThreshold: viewctl.DefaultScrollTopThreshold,
			ActiveLine:         viewctl.DefaultActiveLine,
			LineUnit:           20,
		},
		LogDir: ".portfolio/logs",
	}
}

// Load builds the configuration from defaults, the legacy deployment
// variables, the YAML file at path (if it exists) and PORTFOLIO_*
// overrides, in that order.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()
	applyLegacyEnv(cfg)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// applyLegacyEnv honours the plain variables older deployments set.
func applyLegacyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.SMTP.Host, "SMTP_HOST")
	set(&cfg.SMTP.Port, "SMTP_PORT")
	set(&cfg.SMTP.User, "SMTP_USER")
	set(&cfg.SMTP.Pass, "SMTP_PASS")
	set(&cfg.SMTP.To, "TO_EMAIL")
	set(&cfg.Admin.Username, "ADMIN_USERNAME")
	set(&cfg.Admin.Password, "ADMIN_PASSWORD")
}

var validModes = map[string]bool{"debug": true, "release": true, "test": true}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if !validModes[c.Server.Mode] {
		return fmt.Errorf("invalid server.mode %q: must be one of debug, release, test", c.Server.Mode)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.View.SplashDelay < 2*time.Second || c.View.SplashDelay > 3*time.Second {
		return fmt.Errorf("view.splash_delay %s must be between 2s and 3s", c.View.SplashDelay)
	}
	if c.View.RotateInterval <= 0 {
		return fmt.Errorf("view.rotate_interval must be positive")
	}
	if c.View.LineUnit <= 0 {
		return fmt.Errorf("view.line_unit must be positive")
	}
	if c.Contact.PerMinute <= 0 || c.Contact.Burst < 1 {
		return fmt.Errorf("contact rate limit must allow at least one message")
	}
	return nil
}

// Marshal renders the configuration as YAML with secrets masked.
func (c *Config) Marshal() ([]byte, error) {
	masked := *c
	if masked.SMTP.Pass != "" {
		masked.SMTP.Pass = "********"
	}
	if masked.Admin.Password != "" {
		masked.Admin.Password = "********"
	}
	data, err := yamlv3.Marshal(&masked)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	return data, nil
}
