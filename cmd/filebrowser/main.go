// filebrowser - client for the upload/browse file server
//
// Sub-commands:
//
//	filebrowser ls [path]                   List a directory
//	filebrowser upload <dir> <files...>     Upload local files into dir
//	filebrowser mkdir <dir> <name>          Create a folder inside dir
//	filebrowser rm <path>                   Delete a file or folder
//	filebrowser rename <path> <name>        Rename an item
//	filebrowser mv <path> <folder>          Move an item into folder (relative to its directory)
//	filebrowser preview <path>              Print the hover preview of a file
//	filebrowser get <path> [out]            Download a file
//	filebrowser tui [path]                  Interactive browser (default)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fruitsalade/filebrowser/internal/browser"
	"github.com/fruitsalade/filebrowser/internal/config"
	"github.com/fruitsalade/filebrowser/internal/logging"
	"github.com/fruitsalade/filebrowser/internal/metrics"
	"github.com/fruitsalade/filebrowser/internal/tui"
	"github.com/fruitsalade/filebrowser/pkg/client"
	"github.com/fruitsalade/filebrowser/pkg/retry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := "tui", os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "ls":
		err = cmdList(ctx, args)
	case "upload":
		err = cmdUpload(ctx, args)
	case "mkdir":
		err = cmdMkdir(ctx, args)
	case "rm":
		err = cmdRemove(ctx, args)
	case "rename":
		err = cmdRename(ctx, args)
	case "mv":
		err = cmdMove(ctx, args)
	case "preview":
		err = cmdPreview(ctx, args)
	case "get":
		err = cmdGet(ctx, args)
	case "tui":
		err = cmdTUI(ctx, args)
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(2)
	}
	logging.Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: filebrowser <command> [flags] [args]

Commands:
  ls [path]                 List a directory
  upload <dir> <files...>   Upload local files into dir
  mkdir <dir> <name>        Create a folder inside dir
  rm <path>                 Delete a file or folder
  rename <path> <name>      Rename an item
  mv <path> <folder>        Move an item into folder, relative to its directory
  preview <path>            Print the hover preview of a file
  get <path> [out]          Download a file
  tui [path]                Interactive browser (default)

Every command accepts -server, -log-level and -strict. Run
"filebrowser <command> -h" for the rest.

Environment: SERVER_URL, LOG_LEVEL, LOG_FORMAT, LOG_FILE, PREVIEW_DELAY,
READ_ATTEMPTS, REQUEST_TIMEOUT, STRICT_STATUS, DOWNLOAD_DIR, METRICS_ADDR,
FILEBROWSER_CONFIG (TOML file).
`)
}

// commonFlags are accepted by every sub-command and override the
// environment.
type commonFlags struct {
	server   *string
	logLevel *string
	strict   *bool
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	return &commonFlags{
		server:   fs.String("server", "", "Server URL (overrides SERVER_URL)"),
		logLevel: fs.String("log-level", "", "Log level: debug, info, warn, error"),
		strict:   fs.Bool("strict", false, "Treat non-2xx mutation responses as errors"),
	}
}

type app struct {
	cfg    *config.Config
	client *client.Client
}

// setup loads configuration, applies flag overrides and builds the client.
// Logs go to stderr unless a log file is configured; logFile is the default
// used when neither LOG_FILE nor the TOML file name one.
func setup(fs *flag.FlagSet, cf *commonFlags, logFile string) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if *cf.server != "" {
		cfg.ServerURL = *cf.server
	}
	if *cf.logLevel != "" {
		cfg.LogLevel = *cf.logLevel
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "strict" {
			cfg.StrictStatus = *cf.strict
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	output := cfg.LogFile
	if output == "" {
		output = logFile
	}
	if output == "" {
		output = "stderr"
	}
	if err := logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		OutputPath: output,
	}); err != nil {
		return nil, fmt.Errorf("logging init: %w", err)
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr)
	}

	c := client.New(client.Config{
		BaseURL:      cfg.ServerURL,
		Timeout:      cfg.RequestTimeout,
		Transport:    logging.Transport(metrics.Transport(nil)),
		ReadRetry:    retry.Reads(cfg.ReadAttempts),
		StrictStatus: cfg.StrictStatus,
		Logger:       logging.L(),
	})
	logging.Debug("client ready", zap.String("server", cfg.ServerURL),
		zap.Bool("strict_status", cfg.StrictStatus))
	return &app{cfg: cfg, client: c}, nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logging.Info("metrics listener starting", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Error("metrics listener failed", zap.Error(err))
	}
}

func cmdTUI(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tui", flag.ExitOnError)
	cf := addCommonFlags(fs)
	fs.Parse(args)

	a, err := setup(fs, cf, "filebrowser.log")
	if err != nil {
		return err
	}
	return tui.Run(ctx, tui.Options{
		Client:       a.client,
		StartPath:    fs.Arg(0),
		DownloadDir:  a.cfg.DownloadDir,
		PreviewDelay: a.cfg.PreviewDelay,
		Logger:       logging.L(),
	})
}

// newSession builds a non-interactive session rooted at dir.
func (a *app) newSession(dir string, d browser.Dialogs, nav browser.Navigator) *browser.Session {
	return browser.NewSession(a.client, d, nav, browser.Config{
		CurrentPath:  dir,
		PreviewDelay: time.Millisecond,
		Logger:       logging.L(),
	})
}
