package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"dqx0.com/go/plainhttp/httpx"
	"dqx0.com/go/plainhttp/internal/obs"
)

// Proxy is the optional HTTP proxy every request goes through.
type Proxy struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
}

// Config holds the client settings a fetch run starts from.
type Config struct {
	UserAgent      string
	Timeout        time.Duration
	MaxRedirects   int
	BufferLimit    int
	MaxBodyBytes   int64
	ConnectRetries int
	StandardBase64 bool
	LogLevel       obs.Level
	Proxy          Proxy
}

const (
	defaultConfigPath = "~/.config/plainhttp/config.toml"
	defaultProxyPort  = 8080
)

// Default returns the settings used when no file exists.
func Default() Config {
	return Config{
		UserAgent:      httpx.DefaultUserAgent,
		Timeout:        httpx.DefaultTimeout,
		MaxRedirects:   httpx.DefaultMaxRedirects,
		BufferLimit:    httpx.DefaultBufferLimit,
		ConnectRetries: httpx.DefaultConnectRetries,
		LogLevel:       obs.Info,
		Proxy:          Proxy{Port: defaultProxyPort},
	}
}

type rawConfig struct {
	UserAgent      string `toml:"user_agent"`
	Timeout        string `toml:"timeout"`
	MaxRedirects   *int   `toml:"max_redirects"`
	BufferLimit    *int   `toml:"buffer_limit"`
	MaxBodyBytes   *int64 `toml:"max_body_bytes"`
	ConnectRetries *int   `toml:"connect_retries"`
	StandardBase64 bool   `toml:"standard_base64"`
	LogLevel       string `toml:"log_level"`
	Proxy          struct {
		Enabled  bool   `toml:"enabled"`
		Host     string `toml:"host"`
		Port     int    `toml:"port"`
		Username string `toml:"username"`
		Password string `toml:"password"`
	} `toml:"proxy"`
}

// Load parses the TOML file at path, or the default location when path is
// empty. A missing file yields Default().
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.apply(raw); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) apply(raw rawConfig) error {
	if ua := strings.TrimSpace(raw.UserAgent); ua != "" {
		c.UserAgent = ua
	}
	if s := strings.TrimSpace(raw.Timeout); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return fmt.Errorf("parse config: timeout %q: want a positive duration", s)
		}
		c.Timeout = d
	}
	if raw.MaxRedirects != nil {
		if *raw.MaxRedirects < 0 {
			return fmt.Errorf("parse config: max_redirects must not be negative")
		}
		c.MaxRedirects = *raw.MaxRedirects
	}
	if raw.BufferLimit != nil {
		if *raw.BufferLimit <= 0 {
			return fmt.Errorf("parse config: buffer_limit must be positive")
		}
		c.BufferLimit = *raw.BufferLimit
	}
	if raw.MaxBodyBytes != nil {
		if *raw.MaxBodyBytes < 0 {
			return fmt.Errorf("parse config: max_body_bytes must not be negative")
		}
		c.MaxBodyBytes = *raw.MaxBodyBytes
	}
	if raw.ConnectRetries != nil {
		if *raw.ConnectRetries < 0 {
			return fmt.Errorf("parse config: connect_retries must not be negative")
		}
		c.ConnectRetries = *raw.ConnectRetries
	}
	c.StandardBase64 = raw.StandardBase64
	if s := strings.TrimSpace(raw.LogLevel); s != "" {
		lvl, ok := obs.ParseLevel(s)
		if !ok {
			return fmt.Errorf("parse config: unknown log_level %q", s)
		}
		c.LogLevel = lvl
	}

	c.Proxy.Enabled = raw.Proxy.Enabled
	c.Proxy.Host = strings.TrimSpace(raw.Proxy.Host)
	if raw.Proxy.Port != 0 {
		if raw.Proxy.Port < 0 || raw.Proxy.Port > 65535 {
			return fmt.Errorf("parse config: proxy port %d out of range", raw.Proxy.Port)
		}
		c.Proxy.Port = raw.Proxy.Port
	}
	c.Proxy.Username = raw.Proxy.Username
	c.Proxy.Password = raw.Proxy.Password
	if c.Proxy.Enabled && c.Proxy.Host == "" {
		return fmt.Errorf("parse config: proxy enabled without a host")
	}
	return nil
}

// ClientOptions translates the settings into httpx options. The proxy is
// only applied when enabled.
func (c Config) ClientOptions() []httpx.Option {
	opts := []httpx.Option{
		httpx.WithUserAgent(c.UserAgent),
		httpx.WithTimeout(c.Timeout),
		httpx.WithMaxRedirects(c.MaxRedirects),
		httpx.WithBufferLimit(c.BufferLimit),
		httpx.WithMaxBodyBytes(c.MaxBodyBytes),
		httpx.WithConnectRetries(c.ConnectRetries),
	}
	if c.StandardBase64 {
		opts = append(opts, httpx.WithStandardBase64())
	}
	if c.Proxy.Enabled && c.Proxy.Host != "" {
		opts = append(opts, httpx.WithProxy(c.Proxy.Host, c.Proxy.Port))
		if c.Proxy.Username != "" {
			opts = append(opts, httpx.WithProxyAuth(c.Proxy.Username, c.Proxy.Password))
		}
	}
	return opts
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
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
