// Command dragdemo shows a list of cheeses that can be reordered by dragging.
// Long press a row (or click it with -click) to pick it up, move the mouse and
// release to drop. Keys 1-4 switch the reorder policy.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xqrs/dragview"
	"github.com/xqrs/dragview/animate"
	"github.com/xqrs/dragview/collection"
	"github.com/xqrs/dragview/drag"
	"github.com/xqrs/dragview/internal/config"
	"github.com/xqrs/dragview/internal/logging"
	"github.com/xqrs/dragview/layers"
	"github.com/xqrs/dragview/metrics"
	"github.com/xqrs/dragview/policy"
)

func main() {
	configPath := flag.String("config", "dragdemo.yaml", "Path to configuration file")
	isDebug := flag.Bool("debug", false, "Enable debug logging")
	dragOnClick := flag.Bool("click", false, "Start drags with a plain click")
	flag.Parse()

	if err := run(*configPath, *isDebug, *dragOnClick); err != nil {
		fmt.Fprintln(os.Stderr, "dragdemo:", err)
		os.Exit(1)
	}
}

func run(configPath string, isDebug, dragOnClick bool) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	if isDebug {
		level = slog.LevelDebug
	}
	logger, closer, err := logging.Open(cfg.Logging.File, level)
	if err != nil {
		return err
	}
	defer closer.Close()
	slog.SetDefault(logger)
	logger.Info("Logger initialized", "level", level.String())

	kind, err := cfg.PolicyKind()
	if err != nil {
		return err
	}

	dragview.LongPressInterval = cfg.Drag.LongPress
	dragview.FrameInterval = time.Second / time.Duration(cfg.Animation.FrameRate)

	var collector *metrics.Collector
	var server *http.Server
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		collector = metrics.New(reg)
		server = startMetricsServer(cfg.Metrics.Addr, reg, logger)
	}

	items := collection.New(cfg.List.Items...)
	list := buildList(cfg, items, collector, logger)
	list.SetDragOnClick(dragOnClick || cfg.Drag.DragOnClick)

	home := newPage(list)
	picker := newPicker()
	root := layers.New()
	root.AddLayer(home, layers.WithName("main"), layers.WithResize(true))
	root.AddLayer(picker, layers.WithName("picker"), layers.WithResize(true), layers.WithOverlay(), layers.WithVisible(false))

	selectPolicy := func(kind policy.Kind) {
		controller := list.Controller()
		if controller.Active() {
			controller.Cancel()
		}
		p := policy.New(kind).SetChangedFunc(func(outcome policy.Outcome) {
			if collector != nil {
				collector.Reordered(outcome.Op)
			}
			home.status.SetText(statusText(kind, outcome, items.Len()))
		})
		controller.SetPolicy(p)
		picker.SetSelected(kind)
		home.status.SetText(statusText(kind, policy.Outcome{}, items.Len()))
		logger.Info("Reorder policy selected", "policy", kind)
	}
	home.onPolicy = selectPolicy
	home.onPicker = func() { root.ShowLayer("picker") }
	picker.onSelect = func(kind policy.Kind) {
		selectPolicy(kind)
		root.HideLayer("picker")
	}
	picker.onClose = func() { root.HideLayer("picker") }
	selectPolicy(kind)

	app := dragview.NewApplication().SetLogger(logger).SetRoot(root)
	runErr := app.Run()

	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Error during metrics server shutdown", "error", err)
		}
	}
	if runErr != nil {
		return fmt.Errorf("failed to run application: %w", runErr)
	}
	logger.Info("Demo stopped")
	return nil
}

// buildList wires the list, its animator and its controller from cfg.
func buildList(cfg *config.Config, items *collection.List[string], collector *metrics.Collector, logger *slog.Logger) *dragview.ReorderList {
	list := dragview.NewReorderList(items, items, logger)
	list.SetRowHeight(cfg.List.RowHeight).
		SetScrollPause(cfg.Animation.Duration).
		SetBorders(dragview.BordersAll).
		SetTitle(" Cheeses ")
	if set, ok := dragview.BorderSetByName(cfg.List.Border); ok {
		list.SetBorderSet(set)
	}
	if set, ok := dragview.BorderSetByName(cfg.Drag.HoverBorder); ok {
		list.SetHoverBorder(set)
	}

	animator := animate.New(list, animate.WithDuration(cfg.Animation.Duration), animate.WithLogger(logger))
	options := []drag.Option{
		drag.WithLogger(logger),
		drag.WithAutoScrollAmount(cfg.Drag.AutoScrollAmount),
	}
	if collector != nil {
		options = append(options, drag.WithObserver(collector))
	}
	list.SetAnimator(animator)
	list.SetController(drag.NewController(list, items, animator, options...))
	return list
}

func startMetricsServer(addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Metrics server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "error", err)
		}
	}()
	return server
}

func statusText(kind policy.Kind, last policy.Outcome, n int) string {
	text := fmt.Sprintf(" policy: %s · items: %d", kind, n)
	switch last.Op {
	case "":
	case "delete":
		text += fmt.Sprintf(" · deleted %d", last.From)
	default:
		text += fmt.Sprintf(" · %s %d → %d", last.Op, last.From, last.To)
	}
	return text
}
