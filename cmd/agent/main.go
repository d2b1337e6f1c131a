package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dgnsrekt/apisync/internal/api"
	"github.com/dgnsrekt/apisync/internal/browser"
	"github.com/dgnsrekt/apisync/internal/capture"
	"github.com/dgnsrekt/apisync/internal/cdp"
	"github.com/dgnsrekt/apisync/internal/config"
	"github.com/dgnsrekt/apisync/internal/netutil"
	"github.com/dgnsrekt/apisync/internal/notify"
	"github.com/dgnsrekt/apisync/internal/relay"
	"github.com/dgnsrekt/apisync/internal/storage"
	"github.com/dgnsrekt/apisync/internal/syncer"
	"github.com/dgnsrekt/apisync/internal/types"
)

// capturePublisher fans capture events to the relay broker and mirrors
// finalized requests into the audit log when enabled.
type capturePublisher struct {
	broker *relay.Broker
	log    *storage.CaptureLog
}

func (p *capturePublisher) Publish(kind string, payload any) {
	p.broker.Publish(kind, payload)
	if p.log != nil && kind == "request.captured" {
		if err := p.log.Write(payload); err != nil {
			slog.Debug("capture audit write failed", "error", err)
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll("logs", 0o755); err != nil {
		slog.Debug("log directory creation failed", "error", err)
	}
	logWriter := &lumberjack.Logger{
		Filename:   "logs/agent.log",
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}
	handler := slog.NewTextHandler(io.MultiWriter(os.Stdout, logWriter), &slog.HandlerOptions{Level: cfg.SlogLevel()})
	slog.SetDefault(slog.New(handler))

	slog.Info("starting apisync agent",
		"cdp_address", cfg.CDPAddress,
		"cdp_port", cfg.CDPPort,
		"listen_addr", cfg.ListenAddr,
		"tab_url_filter", cfg.TabURLFilter,
		"buffer_cap", cfg.BufferCap,
		"capture_log", cfg.CaptureLog,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	settings, err := storage.OpenSettings(cfg.DataDir)
	if err != nil {
		slog.Error("failed to open settings store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := settings.Close(); err != nil {
			slog.Warn("settings close failed", "error", err)
		}
	}()

	broker := relay.NewBroker()

	var captureLog *storage.CaptureLog
	if cfg.CaptureLog {
		captureLog = storage.NewCaptureLog(cfg.DataDir, cfg.BufferCap, cfg.CaptureLogSizeMB)
		defer func() {
			if err := captureLog.Close(); err != nil {
				slog.Warn("capture log close failed", "error", err)
			}
		}()
	}

	buffer := capture.NewBuffer(cfg.BufferCap, &capturePublisher{broker: broker, log: captureLog})
	intake := capture.NewIntake(buffer)
	defer intake.Close()

	orch := syncer.NewOrchestrator(cfg.PostmanBaseURL, settings, &http.Client{Timeout: 30 * time.Second})
	worker := syncer.NewWorker(orch, buffer, cfg.SyncQueueSize)
	defer worker.Close()

	var launcher *browser.Launcher
	if cfg.LaunchBrowser {
		launcher = browser.NewLauncher(browser.Config{
			CDPAddress: cfg.CDPAddress,
			CDPPort:    cfg.CDPPort,
			StartURL:   cfg.BrowserStartURL,
			ProfileDir: cfg.BrowserProfileDir,
		})
		if err := launcher.Launch(context.Background()); err != nil {
			slog.Error("failed to launch browser", "error", err)
			os.Exit(1)
		}
		defer launcher.Stop()
	}

	cdpClient := cdp.NewClient(cfg, intake)
	if err := cdpClient.Connect(context.Background()); err != nil {
		slog.Error("failed to connect to browser", "error", err)
		slog.Info("make sure Chromium is running with --remote-debugging-port")
		os.Exit(1)
	}
	defer func() {
		if err := cdpClient.Close(); err != nil {
			slog.Warn("CDP close failed", "error", err)
		}
	}()

	listenAddr, err := netutil.SelectBindAddr(cfg.ListenAddr, cfg.FallbackListenAddrs(), cfg.ListenAutoFallback)
	if err != nil {
		slog.Error("no usable listen address", "error", err)
		os.Exit(1)
	}

	var notifyFn func(context.Context, types.CaptureState)
	if cfg.NotifyURL != "" {
		notifyClient := &http.Client{Timeout: 10 * time.Second}
		notifyURL := cfg.NotifyURL
		notifyFn = func(ctx context.Context, state types.CaptureState) {
			if err := notify.SendSessionSummary(ctx, notifyClient, notifyURL, state); err != nil {
				slog.Warn("session notification failed", "error", err)
			}
		}
	}

	srv := &http.Server{
		Addr: listenAddr,
		Handler: api.NewServer(api.Deps{
			Buffer:   buffer,
			Intake:   intake,
			Orch:     orch,
			Worker:   worker,
			Settings: settings,
			Broker:   broker,
			Tabs:     cdpClient,
			Notify:   notifyFn,
		}),
	}
	go func() {
		slog.Info("command surface listening", "addr", listenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			sigCh <- syscall.SIGTERM
		}
	}()

	slog.Info("agent running", "tabs", cdpClient.GetTabCount())

	<-sigCh
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown failed", "error", err)
	}
	slog.Info("agent stopped")
}
