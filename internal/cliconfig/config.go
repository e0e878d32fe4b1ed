// Package cliconfig loads the sellerdesk CLI configuration file.
package cliconfig

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/PabloPavan/sellerdesk/internal/render"
)

const (
	DefaultPath       = "~/.config/sellerdesk/config.toml"
	defaultBaseURL    = "http://127.0.0.1:8080"
	defaultCookieFile = "~/.config/sellerdesk/session.json"

	// BaseURLEnv overrides base_url from the file.
	BaseURLEnv = "SELLERDESK_BASE_URL"
)

type Config struct {
	BaseURL    string
	CookieFile string
	Output     render.OutputFormat
	// RecaptchaSiteKey enables the captcha step on login. The CLI cannot
	// solve captchas, so login fails when the server requires one.
	RecaptchaSiteKey string
}

// Load reads the config at path, or DefaultPath when empty. A missing file
// yields defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		BaseURL:    defaultBaseURL,
		CookieFile: mustExpand(defaultCookieFile),
		Output:     render.FormatText,
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		BaseURL          string `toml:"base_url"`
		CookieFile       string `toml:"cookie_file"`
		Output           string `toml:"output"`
		RecaptchaSiteKey string `toml:"recaptcha_site_key"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(raw.CookieFile); v != "" {
		cfg.CookieFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.Output); v != "" {
		format, err := render.ParseFormat(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		cfg.Output = format
	}
	cfg.RecaptchaSiteKey = strings.TrimSpace(raw.RecaptchaSiteKey)

	applyEnv(&cfg)
	return cfg, nil
}

// Save writes cfg to path, or DefaultPath when empty.
func Save(path string, cfg Config) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}
	raw := struct {
		BaseURL          string `toml:"base_url"`
		CookieFile       string `toml:"cookie_file"`
		Output           string `toml:"output"`
		RecaptchaSiteKey string `toml:"recaptcha_site_key,omitempty"`
	}{
		BaseURL:          cfg.BaseURL,
		CookieFile:       cfg.CookieFile,
		Output:           string(cfg.Output),
		RecaptchaSiteKey: cfg.RecaptchaSiteKey,
	}
	out, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(resolved, out, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(BaseURLEnv)); v != "" {
		cfg.BaseURL = v
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(DefaultPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
