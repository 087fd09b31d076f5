package model

import (
	"net"
	"strconv"
)

// Endpoint is a validated proxy candidate, produced by the parser
// from lines such as:
//   1.2.3.4:1080
//   proxy.example.com:3128
type Endpoint struct {
	Host string // IPv4 or hostname, never empty
	Port uint16
}

func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(int(e.Port)))
}

// Protocol is the proxy protocol a candidate answered to.
type Protocol int

const (
	ProtocolNone Protocol = iota
	ProtocolSOCKS5
	ProtocolHTTP
)

func (p Protocol) String() string {
	switch p {
	case ProtocolSOCKS5:
		return "SOCKS5"
	case ProtocolHTTP:
		return "HTTP"
	default:
		return "NONE"
	}
}

// Scheme returns the URL scheme prefix used when listing reachable proxies.
func (p Protocol) Scheme() string {
	switch p {
	case ProtocolSOCKS5:
		return "socks5://"
	case ProtocolHTTP:
		return "http://"
	default:
		return ""
	}
}

func (p Protocol) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ProbeResult is the outcome of probing a single endpoint.
type ProbeResult struct {
	Endpoint  Endpoint
	Reachable bool
	Protocol  Protocol
	LatencyMs int64 // of the attempt that succeeded
	Geo       GeoInfo
}

// URL returns the endpoint prefixed with its scheme, e.g. socks5://1.2.3.4:1080.
// Unreachable results return the bare host:port.
func (r ProbeResult) URL() string {
	return r.Protocol.Scheme() + r.Endpoint.String()
}

// Report is emitted once per candidate line.
//
// Err is nil when the candidate was probed. Otherwise it tells why the
// candidate has no meaningful Result: a parse outcome (skip / malformed)
// or a failure of the worker itself.
type Report struct {
	Line   string
	Result ProbeResult
	Err    error
}

// BatchStats aggregates summary analytics for an entire run.
type BatchStats struct {
	Candidates            int     `json:"candidates"`
	Skipped               int     `json:"skipped"`
	Malformed             int     `json:"malformed"`
	Probed                int     `json:"probed"`
	TaskFailures          int     `json:"task_failures"`
	UniqueEndpoints       int     `json:"unique_endpoints"`
	Reachable             int     `json:"reachable"`
	SOCKS5                int     `json:"socks5"`
	HTTP                  int     `json:"http"`
	AvgLatencyMs          float64 `json:"avg_latency_ms"`
	TotalProcessingTimeMs int64   `json:"total_processing_time_ms"`
	SuccessRatePct        float64 `json:"success_rate_pct"`
}
