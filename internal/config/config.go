package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/August26/proxyprobe-go/internal/model"
)

const (
	DefaultWorkers  = 10
	DefaultTimeout  = time.Second
	DefaultTestHost = "www.google.com"
	DefaultTestPort = 80
)

// File is the optional YAML configuration. Zero values leave the
// defaults untouched.
type File struct {
	Input          string  `yaml:"input"`
	Workers        int     `yaml:"workers"`
	TimeoutSeconds float64 `yaml:"timeout_seconds"`
	TestHost       string  `yaml:"test_host"`
	TestPort       int     `yaml:"test_port"`
	TestURL        string  `yaml:"test_url"`
	RatePerSecond  float64 `yaml:"rate_per_second"`
	GeoIPDB        string  `yaml:"geoip_db"`
	Format         string  `yaml:"format"`
	LogFormat      string  `yaml:"log_format"`
}

func Defaults() model.Config {
	return model.Config{
		Workers:   DefaultWorkers,
		Timeout:   DefaultTimeout,
		TestHost:  DefaultTestHost,
		TestPort:  DefaultTestPort,
		Format:    "report",
		LogFormat: "json",
	}
}

// LoadFile reads path and applies its values over cfg.
func LoadFile(path string, cfg *model.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	f.apply(cfg)
	return nil
}

func (f File) apply(cfg *model.Config) {
	if f.Input != "" {
		cfg.InputFile = f.Input
	}
	if f.Workers != 0 {
		cfg.Workers = f.Workers
	}
	if f.TimeoutSeconds != 0 {
		cfg.Timeout = Seconds(f.TimeoutSeconds)
	}
	if f.TestHost != "" {
		cfg.TestHost = f.TestHost
	}
	if f.TestPort != 0 {
		cfg.TestPort = f.TestPort
	}
	if f.TestURL != "" {
		cfg.TestURL = f.TestURL
	}
	if f.RatePerSecond != 0 {
		cfg.RatePerSecond = f.RatePerSecond
	}
	if f.GeoIPDB != "" {
		cfg.GeoIPDB = f.GeoIPDB
	}
	if f.Format != "" {
		cfg.Format = f.Format
	}
	if f.LogFormat != "" {
		cfg.LogFormat = f.LogFormat
	}
}

// Seconds converts a possibly fractional number of seconds.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Finalize derives TestURL from TestHost when unset and validates cfg.
func Finalize(cfg *model.Config) error {
	if cfg.TestURL == "" {
		cfg.TestURL = "http://" + cfg.TestHost
	}

	var errs []error
	if cfg.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1, got %d", cfg.Workers))
	}
	if cfg.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %v", cfg.Timeout))
	}
	if cfg.TestHost == "" {
		errs = append(errs, errors.New("test host is empty"))
	}
	if cfg.TestPort < 0 || cfg.TestPort > 65535 {
		errs = append(errs, fmt.Errorf("test port out of range: %d", cfg.TestPort))
	}
	if cfg.RatePerSecond < 0 {
		errs = append(errs, fmt.Errorf("rate must not be negative, got %v", cfg.RatePerSecond))
	}
	switch cfg.Format {
	case "report", "table", "json", "csv":
	default:
		errs = append(errs, fmt.Errorf("unsupported format: %s", cfg.Format))
	}
	return errors.Join(errs...)
}
