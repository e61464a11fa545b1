package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.View.SplashDelay != 2500*time.Millisecond {
		t.Errorf("expected default splash delay 2.5s, got %s", cfg.View.SplashDelay)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.yml")
	doc := `
server:
  port: 9000
  mode: debug
view:
  splash_delay: 2s
  rotate_interval: 5s
store:
  path: /tmp/p.db
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORTFOLIO_SERVER__PORT", "9100")
	t.Setenv("PORTFOLIO_CONTACT__BURST", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("env should override file port: got %d", cfg.Server.Port)
	}
	if cfg.Server.Mode != "debug" {
		t.Errorf("mode = %q", cfg.Server.Mode)
	}
	if cfg.View.SplashDelay != 2*time.Second || cfg.View.RotateInterval != 5*time.Second {
		t.Errorf("view = %+v", cfg.View)
	}
	if cfg.Contact.Burst != 7 {
		t.Errorf("burst = %d", cfg.Contact.Burst)
	}
	// untouched defaults survive
	if cfg.View.ActiveLine != 100 || cfg.SMTP.Host != "smtp.gmail.com" {
		t.Errorf("defaults lost: %+v %+v", cfg.View, cfg.SMTP)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
}

func TestLegacyEnv(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("SMTP_USER", "me@example.com")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("ADMIN_PASSWORD", "hunter2")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 3000 || !cfg.SMTP.Enabled() || cfg.Admin.Password != "hunter2" {
		t.Errorf("legacy env not applied: %+v %+v", cfg.Server, cfg.SMTP)
	}

	out, err := cfg.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "secret") || strings.Contains(string(out), "hunter2") {
		t.Errorf("secrets leaked: %s", out)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Server.Port = 70000 }},
		{"mode", func(c *Config) { c.Server.Mode = "prod" }},
		{"store", func(c *Config) { c.Store.Path = "" }},
		{"splash short", func(c *Config) { c.View.SplashDelay = time.Second }},
		{"splash long", func(c *Config) { c.View.SplashDelay = 4 * time.Second }},
		{"interval", func(c *Config) { c.View.RotateInterval = 0 }},
		{"line unit", func(c *Config) { c.View.LineUnit = 0 }},
		{"rate", func(c *Config) { c.Contact.Burst = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestViewOptions(t *testing.T) {
	o := DefaultConfig().View.Options([]string{"about", "contact"}, 3)
	if len(o.Sections) != 2 || o.RoleCount != 3 || o.ScrollTopThreshold != 400 {
		t.Errorf("options = %+v", o)
	}
}
