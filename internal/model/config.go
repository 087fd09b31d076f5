package model

import "time"

type GeoInfo struct {
	Country string
	City    string
}

type IPResolver interface {
	Lookup(ip string) (GeoInfo, error)
}

// Config is built once before a run starts and is read-only afterwards.
// Every worker shares the same value.
type Config struct {
	InputFile string
	TestHost  string        // host the proxy is asked to reach
	TestPort  int
	TestURL   string        // absolute-form target for HTTP proxies
	Timeout   time.Duration // per protocol attempt
	Workers   int

	RatePerSecond float64 // 0 = unlimited dial rate
	Format        string  // report | table | json | csv
	LogFormat     string  // json | text
	Verbose       bool
	Progress      bool
	GeoIPDB       string

	Resolver IPResolver
}
