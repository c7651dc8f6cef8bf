// Command httpx-fetch performs a single GET, POST or HEAD with the httpx
// engine, or probes for connectivity.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dqx0.com/go/plainhttp/httpx"
	"dqx0.com/go/plainhttp/internal/config"
	"dqx0.com/go/plainhttp/internal/obs"
)

type Globals struct {
	Config    string `short:"c" type:"path" help:"Config file (default ~/.config/plainhttp/config.toml)"`
	Verbose   bool   `short:"v" help:"Log at debug level"`
	LogFormat string `enum:"text,json" default:"text" help:"Log output format (text or json)"`
	Metrics   string `type:"path" help:"Write Prometheus metrics in text format to this file on exit"`
}

type cli struct {
	Globals

	Get   getCmd   `cmd:"" help:"Fetch a URL and print the body"`
	Post  postCmd  `cmd:"" help:"Send form data to a URL and print the body"`
	Head  headCmd  `cmd:"" help:"Fetch only the reply head and print the headers"`
	Probe probeCmd `cmd:"" help:"Report whether the internet is reachable"`
}

// env is what every command runs against.
type env struct {
	ctx    context.Context
	client *httpx.Client
	out    io.Writer
}

type RequestFlags struct {
	URL     string `arg:"" help:"Absolute http URL"`
	Cookie  string `help:"Cookie header value"`
	Referer string `help:"Referer header value"`
	Include bool   `short:"i" help:"Print the status line and headers before the body"`
}

func (f RequestFlags) apply(c *httpx.Client) {
	c.SetCookie(f.Cookie)
	c.SetReferer(f.Referer)
}

type getCmd struct {
	RequestFlags
}

func (cmd *getCmd) Run(e *env) error {
	cmd.apply(e.client)
	res, err := e.client.Get(e.ctx, cmd.URL)
	return printResponse(e.out, res, err, cmd.Include)
}

type postCmd struct {
	RequestFlags
	Data string `short:"d" help:"Form-encoded request body"`
}

func (cmd *postCmd) Run(e *env) error {
	cmd.apply(e.client)
	res, err := e.client.Post(e.ctx, cmd.URL, []byte(cmd.Data))
	return printResponse(e.out, res, err, cmd.Include)
}

type headCmd struct {
	RequestFlags
}

func (cmd *headCmd) Run(e *env) error {
	cmd.apply(e.client)
	res, err := e.client.Head(e.ctx, cmd.URL)
	return printResponse(e.out, res, err, true)
}

type probeCmd struct {
	DNS bool `help:"Probe by host name so name resolution is checked too"`
}

func (cmd *probeCmd) Run(e *env) error {
	if !e.client.IsInternet(e.ctx, cmd.DNS) {
		fmt.Fprintln(e.out, "offline")
		return fmt.Errorf("no connectivity")
	}
	fmt.Fprintln(e.out, "online")
	return nil
}

func printResponse(w io.Writer, res *httpx.Response, err error, head bool) error {
	if res != nil && head {
		fmt.Fprintf(w, "%s %s\n", res.Proto, res.Status)
		for _, k := range sortedKeys(res.Header) {
			fmt.Fprintf(w, "%s: %s\n", k, res.Header[k])
		}
		fmt.Fprintln(w)
	}
	if err != nil {
		return err
	}
	_, werr := w.Write(res.Body)
	return werr
}

func sortedKeys(h httpx.Header) []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newLogger(format string, lvl obs.Level) (obs.Logger, func()) {
	if format == "json" {
		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapLevel(lvl))
		zl, err := zcfg.Build()
		if err == nil {
			return obs.NewZapLogger(zl), func() { _ = zl.Sync() }
		}
	}
	lg := logrus.New()
	lg.SetOutput(os.Stderr)
	lg.SetLevel(obs.LogrusLevel(lvl))
	lg.SetFormatter(&logrus.TextFormatter{
		DisableColors: !isatty.IsTerminal(os.Stderr.Fd()),
		FullTimestamp: true,
	})
	return obs.LogrusLogger{L: lg}, func() {}
}

func zapLevel(l obs.Level) zapcore.Level {
	switch l {
	case obs.Debug:
		return zapcore.DebugLevel
	case obs.Info:
		return zapcore.InfoLevel
	case obs.Warn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// loggerFactory builds the log sink and its flush func.
var loggerFactory = newLogger

// execute runs the selected command. Deferred cleanup happens here so it
// still runs when main exits with an error.
func execute(kctx *kong.Context, args *cli, out io.Writer) error {
	cfg, err := config.Load(args.Config)
	if err != nil {
		return err
	}
	if args.Verbose {
		cfg.LogLevel = obs.Debug
	}
	logger, flush := loggerFactory(args.LogFormat, cfg.LogLevel)
	defer flush()

	reg := prometheus.NewRegistry()
	opts := append(cfg.ClientOptions(), httpx.WithLogger(logger), httpx.WithMeter(obs.NewPromMeter(reg)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = kctx.Run(&env{ctx: ctx, client: httpx.New(opts...), out: out})
	if args.Metrics != "" {
		if werr := prometheus.WriteToTextfile(args.Metrics, reg); werr != nil {
			logger.Logf(obs.Warn, "write metrics: %v", werr)
		}
	}
	return err
}

func main() {
	var args cli
	kctx := kong.Parse(&args,
		kong.Name("httpx-fetch"),
		kong.Description("Plaintext HTTP/1.x fetcher."),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(execute(kctx, &args, os.Stdout))
}
