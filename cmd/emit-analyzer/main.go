package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/ritzau/emit-analyzer/pkg/config"
	"github.com/ritzau/emit-analyzer/pkg/cycles"
	"github.com/ritzau/emit-analyzer/pkg/graph"
	"github.com/ritzau/emit-analyzer/pkg/logging"
	"github.com/ritzau/emit-analyzer/pkg/output"
	"github.com/ritzau/emit-analyzer/pkg/rebuild"
	"github.com/ritzau/emit-analyzer/pkg/watcher"
	"github.com/ritzau/emit-analyzer/pkg/web"
)

func main() {
	flags := pflag.NewFlagSet("emit-analyzer", pflag.ExitOnError)
	flags.String("workspace", ".", "Path to the workspace root containing .sem.json manifests")
	flags.Bool("web", false, "Start web server instead of printing to console")
	flags.Int("port", 8080, "Port for web server (only used with --web)")
	flags.Bool("watch", false, "Keep running and rebuild when manifests change")
	flags.Bool("open", true, "Open the browser when the web server starts")
	flags.Bool("json", false, "Log in JSON format")
	flags.Bool("no-color", false, "Disable colored output")
	flags.CountP("verbose", "v", "Increase log verbosity (-v, -vv)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg)
	if cfg.NoColor {
		color.NoColor = true
	}

	rebuilder := rebuild.NewRebuilder(cfg.Workspace)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case cfg.WebMode:
		runWeb(ctx, cfg, rebuilder)
	case cfg.Watch:
		runWatch(ctx, cfg, rebuilder, nil)
	default:
		if err := runOnce(ctx, cfg, rebuilder); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	switch {
	case cfg.VerboseCnt >= 2:
		level = slog.LevelDebug - 4 // trace
	case cfg.VerboseCnt == 1:
		level = slog.LevelDebug
	}
	switch cfg.Verbosity {
	case "trace":
		level = slog.LevelDebug - 4
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	if cfg.JSONOutput {
		logging.SetJSONOutput(level)
	} else {
		logging.SetLevel(level)
	}
}

// runOnce performs a single rebuild and prints the report.
func runOnce(ctx context.Context, cfg *config.Config, rebuilder *rebuild.Rebuilder) error {
	build, err := rebuilder.Rebuild(ctx)
	if err != nil {
		return err
	}

	ug := graph.BuildUsageGraph(rebuilder.Snapshot())
	output.PrintBuildReport(cfg.Workspace, build, cycles.FindUsageCycles(ug))
	return nil
}

// runWatch rebuilds on every debounced manifest change until the context is
// cancelled. server may be nil in console mode.
func runWatch(ctx context.Context, cfg *config.Config, rebuilder *rebuild.Rebuilder, server *web.Server) {
	if err := runOnce(ctx, cfg, rebuilder); err != nil {
		logging.Error("initial build failed", "error", err)
	}
	publishBuild(server, rebuilder)

	fw, err := watcher.NewFileWatcher(cfg.Workspace)
	if err != nil {
		logging.Fatal("failed to create watcher", "error", err)
	}
	if err := fw.Start(ctx); err != nil {
		logging.Fatal("failed to start watcher", "error", err)
	}

	debouncer := watcher.NewDebouncer(fw.Events(), 200*time.Millisecond, 2*time.Second)
	debouncer.Start(ctx)

	for {
		select {
		case <-ctx.Done():
			logging.Info("shutting down")
			return

		case event, ok := <-debouncer.Output():
			if !ok {
				return
			}

			analysis := watcher.AnalyzeChanges([]watcher.ChangeEvent{event})
			if !analysis.NeedRebuild {
				continue
			}
			logging.Info("manifests changed",
				"changed", len(analysis.ChangedManifests),
				"removed", len(analysis.RemovedManifests))

			if server != nil {
				server.PublishBuildStatus("rebuilding", "Rebuilding semantic graph", nil)
			}
			if err := runOnce(ctx, cfg, rebuilder); err != nil {
				logging.Error("rebuild failed", "error", err)
				if server != nil {
					server.PublishBuildStatus("failed", err.Error(), nil)
				}
				continue
			}
			publishBuild(server, rebuilder)
		}
	}
}

func publishBuild(server *web.Server, rebuilder *rebuild.Rebuilder) {
	if server == nil {
		return
	}
	build := rebuilder.LastBuild()
	if build == nil {
		return
	}
	server.PublishBuildStatus("ready", "Build complete", build)
	server.PublishUsageGraph("graph_updated", true)
}

// runWeb starts the web server and the watch loop behind it.
func runWeb(ctx context.Context, cfg *config.Config, rebuilder *rebuild.Rebuilder) {
	server := web.NewServer(rebuilder)

	url := fmt.Sprintf("http://localhost:%d", cfg.Port)
	go func() {
		if err := server.Start(cfg.Port); err != nil {
			logging.Fatal("failed to start server", "error", err)
		}
	}()

	// Wait a moment for server to start
	time.Sleep(500 * time.Millisecond)
	if cfg.OpenBrowser {
		openBrowser(url)
	}

	server.PublishBuildStatus("rebuilding", "Analyzing workspace", nil)
	runWatch(ctx, cfg, rebuilder, server)
}

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "linux":
		cmd = "xdg-open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		logging.Warn("cannot open browser on platform", "platform", runtime.GOOS)
		return
	}

	if err := exec.Command(cmd, args...).Start(); err != nil {
		logging.Warn("failed to open browser", "error", err)
	}
}
