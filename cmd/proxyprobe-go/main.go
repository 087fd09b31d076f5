package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/August26/proxyprobe-go/internal/analytics"
	"github.com/August26/proxyprobe-go/internal/checker"
	"github.com/August26/proxyprobe-go/internal/config"
	"github.com/August26/proxyprobe-go/internal/geo"
	"github.com/August26/proxyprobe-go/internal/logging"
	"github.com/August26/proxyprobe-go/internal/model"
	"github.com/August26/proxyprobe-go/internal/output"
	"github.com/August26/proxyprobe-go/internal/parser"
)

func main() {
	var (
		configFile string
		timeoutSec float64
		flags      = config.Defaults()
	)

	flag.StringVar(&configFile, "config", "", "optional YAML config file; flags override its values")
	flag.StringVar(&flags.InputFile, "input", "", "path to file with proxy list, one host:port per line")
	flag.IntVar(&flags.Workers, "workers", flags.Workers, "number of concurrent workers")
	flag.Float64Var(&timeoutSec, "timeout", flags.Timeout.Seconds(), "timeout in seconds for each protocol attempt")
	flag.StringVar(&flags.TestHost, "test-host", flags.TestHost, "host the proxy is asked to reach")
	flag.IntVar(&flags.TestPort, "test-port", flags.TestPort, "port of the test host")
	flag.StringVar(&flags.TestURL, "test-url", "", "absolute URL requested through HTTP proxies (default http://<test-host>)")
	flag.Float64Var(&flags.RatePerSecond, "rate", 0, "max probes started per second (0 = unlimited)")
	flag.StringVar(&flags.Format, "format", flags.Format, "output format: report | table | json | csv")
	flag.StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "log format: json | text")
	flag.StringVar(&flags.GeoIPDB, "geoip", "", "optional GeoLite2/GeoIP2 City database to locate reachable proxies")
	flag.BoolVar(&flags.Progress, "progress", false, "show a progress bar on stderr")
	flag.BoolVar(&flags.Verbose, "verbose", false, "enable debug logs")

	flag.Parse()

	cfg := config.Defaults()
	if configFile != "" {
		if err := config.LoadFile(configFile, &cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	// Explicit flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.InputFile = flags.InputFile
		case "workers":
			cfg.Workers = flags.Workers
		case "timeout":
			cfg.Timeout = config.Seconds(timeoutSec)
		case "test-host":
			cfg.TestHost = flags.TestHost
		case "test-port":
			cfg.TestPort = flags.TestPort
		case "test-url":
			cfg.TestURL = flags.TestURL
		case "rate":
			cfg.RatePerSecond = flags.RatePerSecond
		case "format":
			cfg.Format = flags.Format
		case "log-format":
			cfg.LogFormat = flags.LogFormat
		case "geoip":
			cfg.GeoIPDB = flags.GeoIPDB
		case "progress":
			cfg.Progress = flags.Progress
		case "verbose":
			cfg.Verbose = flags.Verbose
		}
	})

	if cfg.InputFile == "" {
		fmt.Fprintln(os.Stderr, "--input is required")
		os.Exit(1)
	}
	if err := config.Finalize(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logging.NewLogger(os.Stderr, cfg.Verbose, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("run failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg model.Config, log *slog.Logger) error {
	log.Info("starting proxyprobe-go",
		"workers", cfg.Workers,
		"timeout", cfg.Timeout.String(),
		"test_host", cfg.TestHost,
		"test_port", cfg.TestPort,
		"test_url", cfg.TestURL,
		"rate_per_second", cfg.RatePerSecond,
	)

	lines, err := parser.LoadFromFile(cfg.InputFile)
	if err != nil {
		return fmt.Errorf("load candidates: %w", err)
	}

	log.Info("candidates loaded", "count", len(lines))

	if cfg.GeoIPDB != "" {
		resolver, err := geo.Open(cfg.GeoIPDB)
		if err != nil {
			log.Error("geoip disabled", "err", err, "path", cfg.GeoIPDB)
		} else {
			defer resolver.Close()
			cfg.Resolver = resolver
		}
	}

	var bar *progressbar.ProgressBar
	if cfg.Progress {
		bar = progressbar.NewOptions(len(lines),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("probing"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	start := time.Now()

	sched := checker.NewScheduler(log, cfg)
	stream, err := sched.Stream(ctx, slices.Values(lines), cfg)
	if err != nil {
		return err
	}

	reports := make([]model.Report, 0, len(lines))
	for r := range stream {
		reports = append(reports, r)
		if cfg.Format == "report" {
			output.PrintReport(os.Stdout, r)
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	stats := analytics.Compute(reports, time.Since(start))

	log.Info("batch finished",
		"total_ms", stats.TotalProcessingTimeMs,
		"reachable", stats.Reachable,
		"probed", stats.Probed,
		"malformed", stats.Malformed,
	)

	if cfg.Format == "report" {
		output.PrintSuccessList(os.Stdout, checker.Successes(reports))
		return nil
	}
	return output.Write(os.Stdout, cfg.Format, reports, stats)
}
