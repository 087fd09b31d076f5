package checker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/August26/proxyprobe-go/internal/model"
)

// UserAgent is sent with the HTTP proxy probe.
const UserAgent = "proxyprobe-go/1.0"

// responseBufSize caps how much of the probe response is read.
const responseBufSize = 1024

var (
	httpMarker = []byte("HTTP/")

	errNotHTTP = errors.New("response carries no HTTP/ marker")
)

// Attempt performs one protocol probe against ep. A nil error means the
// endpoint relayed the probe request and answered with an HTTP response.
type Attempt func(ctx context.Context, ep model.Endpoint, cfg model.Config) error

// Strategy binds an Attempt to the protocol it proves.
type Strategy struct {
	Protocol model.Protocol
	Attempt  Attempt
}

// DefaultStrategies tries SOCKS5 first, then a plain HTTP proxy.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Protocol: model.ProtocolSOCKS5, Attempt: attemptSOCKS5},
		{Protocol: model.ProtocolHTTP, Attempt: attemptHTTP},
	}
}

// Prober runs the strategies in order and stops at the first success.
type Prober struct {
	Strategies []Strategy
	Log        *slog.Logger
}

func NewProber(log *slog.Logger) *Prober {
	return &Prober{Strategies: DefaultStrategies(), Log: log}
}

// Probe never fails: every network fault ends up as an unreachable result.
func (p *Prober) Probe(ctx context.Context, ep model.Endpoint, cfg model.Config) model.ProbeResult {
	res := model.ProbeResult{Endpoint: ep, Protocol: model.ProtocolNone}

	for _, s := range p.Strategies {
		start := time.Now()
		err := s.Attempt(ctx, ep, cfg)
		if err != nil {
			p.logger().Debug("probe attempt failed",
				"endpoint", ep.String(),
				"protocol", s.Protocol.String(),
				"err", err,
			)
			continue
		}

		res.Reachable = true
		res.Protocol = s.Protocol
		res.LatencyMs = time.Since(start).Milliseconds()
		p.locate(&res, cfg.Resolver)
		return res
	}

	return res
}

func (p *Prober) locate(res *model.ProbeResult, resolver model.IPResolver) {
	if resolver == nil {
		return
	}
	info, err := resolver.Lookup(res.Endpoint.Host)
	if err != nil {
		p.logger().Debug("geo lookup failed", "endpoint", res.Endpoint.String(), "err", err)
		return
	}
	res.Geo = info
}

func (p *Prober) logger() *slog.Logger {
	if p.Log == nil {
		return slog.Default()
	}
	return p.Log
}

// expectHTTP reads at most responseBufSize bytes from r and succeeds as
// soon as the HTTP/ marker shows up. Any status code is accepted.
func expectHTTP(r io.Reader) error {
	buf := make([]byte, responseBufSize)
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if bytes.Contains(buf[:n], httpMarker) {
			return nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("read response: %w", err)
		}
	}
	return fmt.Errorf("%w (%d bytes read)", errNotHTTP, n)
}
