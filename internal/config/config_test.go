package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dqx0.com/go/plainhttp/httpx"
	"dqx0.com/go/plainhttp/httpx/httpxtest"
	"dqx0.com/go/plainhttp/internal/obs"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults %+v", cfg, Default())
	}
	if cfg.UserAgent != httpx.DefaultUserAgent || cfg.MaxRedirects != 10 || cfg.ConnectRetries != 3 {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoad_DefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := resolvePath("")
	if err != nil {
		t.Fatalf("resolvePath: %v", err)
	}
	if !strings.HasPrefix(got, home) || !strings.HasSuffix(got, filepath.Join(".config", "plainhttp", "config.toml")) {
		t.Fatalf("default path = %q", got)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	path := writeConfig(t, `
user_agent = "  fetcher/2.0  "
timeout = " 5s "
max_redirects = 0
buffer_limit = 4096
max_body_bytes = 1048576
connect_retries = 1
standard_base64 = true
log_level = "DEBUG"

[proxy]
enabled = true
host = " 10.0.0.8 "
port = 3128
username = "proxy"
password = "pw"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Config{
		UserAgent:      "fetcher/2.0",
		Timeout:        5 * time.Second,
		MaxRedirects:   0,
		BufferLimit:    4096,
		MaxBodyBytes:   1 << 20,
		ConnectRetries: 1,
		StandardBase64: true,
		LogLevel:       obs.Debug,
		Proxy:          Proxy{Enabled: true, Host: "10.0.0.8", Port: 3128, Username: "proxy", Password: "pw"},
	}
	if cfg != want {
		t.Fatalf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	path := writeConfig(t, `
user_agent = "   "
timeout = ""
log_level = ""
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]string{
		"syntax":        "user_agent = ",
		"timeout":       `timeout = "soon"`,
		"negative":      "max_redirects = -1",
		"buffer":        "buffer_limit = 0",
		"level":         `log_level = "loud"`,
		"proxy no host": "[proxy]\nenabled = true",
		"proxy port":    "[proxy]\nhost = \"x\"\nport = 70000",
	}
	for name, body := range cases {
		_, err := Load(writeConfig(t, body))
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if !strings.Contains(err.Error(), "parse config") {
			t.Fatalf("%s: err = %v, want parse config prefix", name, err)
		}
	}
}

func TestClientOptions_DriveClient(t *testing.T) {
	proxy := httpxtest.NewServer(t, func(r *httpxtest.Request) httpxtest.Reply {
		return httpxtest.Status(200, nil, "proxied")
	})
	cfg := Default()
	cfg.UserAgent = "cfg-agent"
	cfg.Proxy = Proxy{Enabled: true, Host: proxy.Host, Port: proxy.Port, Username: "u", Password: "p"}

	c := httpx.New(cfg.ClientOptions()...)
	res, err := c.Get(context.Background(), "http://origin.test/page")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(res.Body) != "proxied" {
		t.Fatalf("body = %q", res.Body)
	}
	r := proxy.Requests()[0]
	if r.Target != "http://origin.test/page" || r.Header["USER-AGENT"] != "cfg-agent" {
		t.Fatalf("request = %s %v", r.Target, r.Header)
	}
	if r.Header["PROXY-AUTHORIZATION"] != "Basic dTpw" {
		t.Fatalf("proxy auth = %q", r.Header["PROXY-AUTHORIZATION"])
	}
}

func TestClientOptions_DisabledProxyIgnored(t *testing.T) {
	cfg := Default()
	cfg.Proxy = Proxy{Enabled: false, Host: "10.0.0.8", Port: 3128}
	if got, want := len(cfg.ClientOptions()), len(Default().ClientOptions()); got != want {
		t.Fatalf("options = %d, want %d", got, want)
	}
}
