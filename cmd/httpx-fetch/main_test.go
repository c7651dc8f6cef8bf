package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"dqx0.com/go/plainhttp/httpx"
	"dqx0.com/go/plainhttp/httpx/httpxtest"
	"dqx0.com/go/plainhttp/internal/obs"
)

func runCLI(t *testing.T, opts []httpx.Option, argv ...string) (string, error) {
	t.Helper()
	var args cli
	parser, err := kong.New(&args, kong.Name("httpx-fetch"))
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}
	kctx, err := parser.Parse(argv)
	if err != nil {
		t.Fatalf("parse %v: %v", argv, err)
	}
	var out bytes.Buffer
	err = kctx.Run(&env{ctx: context.Background(), client: httpx.New(opts...), out: &out})
	return out.String(), err
}

func TestGetPrintsBody(t *testing.T) {
	srv := httpxtest.NewServer(t, func(r *httpxtest.Request) httpxtest.Reply {
		return httpxtest.Status(200, nil, "hello\n")
	})
	out, err := runCLI(t, nil, "get", "--cookie", "a=1", srv.URL+"/x")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != "hello\n" {
		t.Fatalf("out=%q", out)
	}
	if got := srv.Requests()[0].Header["COOKIE"]; got != "a=1" {
		t.Fatalf("cookie=%q", got)
	}
}

func TestPostSendsData(t *testing.T) {
	srv := httpxtest.NewServer(t, func(r *httpxtest.Request) httpxtest.Reply {
		return httpxtest.Status(200, nil, string(r.Body))
	})
	out, err := runCLI(t, nil, "post", "-d", "k=v", srv.URL+"/")
	if err != nil || out != "k=v" {
		t.Fatalf("out=%q err=%v", out, err)
	}
}

func TestHeadPrintsHeaders(t *testing.T) {
	srv := httpxtest.NewServer(t, func(r *httpxtest.Request) httpxtest.Reply {
		return httpxtest.Status(200, map[string]string{"X-B": "2", "X-A": "1"}, "skip")
	})
	out, err := runCLI(t, nil, "head", srv.URL+"/")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	want := "HTTP/1.1 200 OK\nCONTENT-LENGTH: 4\nX-A: 1\nX-B: 2\n\n"
	if out != want {
		t.Fatalf("out=%q want %q", out, want)
	}
}

func TestGetStatusErrorShowsHead(t *testing.T) {
	srv := httpxtest.NewServer(t, func(r *httpxtest.Request) httpxtest.Reply {
		return httpxtest.Status(404, nil, "")
	})
	out, err := runCLI(t, nil, "get", "-i", srv.URL+"/")
	if httpx.StatusCode(err) != 404 {
		t.Fatalf("err=%v", err)
	}
	if !strings.HasPrefix(out, "HTTP/1.1 404 Not Found\n") {
		t.Fatalf("out=%q", out)
	}
}

func TestConnectivityCommand(t *testing.T) {
	srv := httpxtest.NewServer(t, func(r *httpxtest.Request) httpxtest.Reply {
		return httpxtest.Status(204, nil, "")
	})
	opts := []httpx.Option{httpx.WithProbeURLs(srv.URL+"/", srv.URL+"/")}
	out, err := runCLI(t, opts, "probe")
	if err != nil || out != "online\n" {
		t.Fatalf("out=%q err=%v", out, err)
	}
}

func TestNewLoggerFormats(t *testing.T) {
	for _, format := range []string{"text", "json"} {
		lg, flush := newLogger(format, obs.Error)
		if lg == nil {
			t.Fatalf("%s: nil logger", format)
		}
		flush()
	}
	if zapLevel(obs.Warn).String() != "warn" {
		t.Fatalf("zap level=%v", zapLevel(obs.Warn))
	}
}

func TestExecuteFlushesLogsOnFailure(t *testing.T) {
	srv := httpxtest.NewServer(t, func(r *httpxtest.Request) httpxtest.Reply {
		return httpxtest.Status(500, nil, "")
	})
	flushed := 0
	var lines []string
	prev := loggerFactory
	loggerFactory = func(format string, lvl obs.Level) (obs.Logger, func()) {
		lg := recLogger(func(s string) { lines = append(lines, s) })
		return lg, func() { flushed++ }
	}
	defer func() { loggerFactory = prev }()

	dir := t.TempDir()
	metrics := filepath.Join(dir, "metrics.prom")
	var args cli
	parser, err := kong.New(&args, kong.Name("httpx-fetch"))
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}
	argv := []string{"--config", filepath.Join(dir, "none.toml"), "--log-format", "json", "--metrics", metrics, "get", srv.URL + "/"}
	kctx, err := parser.Parse(argv)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var out bytes.Buffer
	err = execute(kctx, &args, &out)
	if httpx.StatusCode(err) != 500 {
		t.Fatalf("err=%v want status 500", err)
	}
	if flushed != 1 {
		t.Fatalf("flush calls=%d want 1", flushed)
	}
	if len(lines) == 0 {
		t.Fatal("nothing logged")
	}
	b, err := os.ReadFile(metrics)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	if !strings.Contains(string(b), "plainhttp_client_requests_total") {
		t.Fatalf("metrics=%q", b)
	}
}

type recLogger func(string)

func (r recLogger) Logf(level obs.Level, format string, args ...interface{}) {
	r(fmt.Sprintf(format, args...))
}
