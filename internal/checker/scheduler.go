package checker

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"

	"github.com/August26/proxyprobe-go/internal/model"
	"github.com/August26/proxyprobe-go/internal/parser"
)

var (
	// ErrTaskFailure wraps faults of the worker itself (a panic, a pool
	// that refused the task), as opposed to an unreachable proxy.
	ErrTaskFailure = errors.New("probe task failed")

	ErrInvalidWorkers = errors.New("worker count must be positive")
)

// Scheduler fans probes out over a fixed pool of workers.
type Scheduler struct {
	Prober *Prober
	Log    *slog.Logger

	// Limiter, when set, paces how fast probes start.
	Limiter *rate.Limiter
}

func NewScheduler(log *slog.Logger, cfg model.Config) *Scheduler {
	s := &Scheduler{
		Prober: NewProber(log),
		Log:    log,
	}
	if cfg.RatePerSecond > 0 {
		s.Limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}
	return s
}

type task struct {
	line string
	ep   model.Endpoint
}

// Stream parses every candidate and probes the valid ones on cfg.Workers
// workers. Exactly one Report per candidate is sent, in completion order;
// the channel is closed once all of them are delivered.
//
// Blank, comment and malformed lines are reported straight away and never
// take a worker.
func (s *Scheduler) Stream(ctx context.Context, candidates iter.Seq[string], cfg model.Config) (<-chan model.Report, error) {
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkers, cfg.Workers)
	}

	prober := s.Prober
	if prober == nil {
		prober = NewProber(s.Log)
	}

	out := make(chan model.Report, cfg.Workers)
	wg := &sync.WaitGroup{}

	pool, err := ants.NewPoolWithFunc(cfg.Workers, func(arg interface{}) {
		defer wg.Done()
		out <- s.runTask(ctx, prober, arg.(task), cfg)
	})
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	go func() {
		defer close(out)
		defer pool.Release()

		for line := range candidates {
			ep, err := parser.Parse(line)
			if err != nil {
				out <- model.Report{Line: line, Err: err}
				continue
			}

			wg.Add(1)
			// Blocks while every worker is busy.
			if err := pool.Invoke(task{line: line, ep: ep}); err != nil {
				wg.Done()
				s.logger().Error("submit probe", "endpoint", ep.String(), "err", err)
				out <- model.Report{
					Line:   line,
					Result: model.ProbeResult{Endpoint: ep},
					Err:    fmt.Errorf("%w: submit: %v", ErrTaskFailure, err),
				}
			}
		}
		wg.Wait()
	}()

	return out, nil
}

// Run is Stream collected into a slice, still in completion order.
func (s *Scheduler) Run(ctx context.Context, candidates iter.Seq[string], cfg model.Config) ([]model.Report, error) {
	ch, err := s.Stream(ctx, candidates, cfg)
	if err != nil {
		return nil, err
	}

	var out []model.Report
	for r := range ch {
		out = append(out, r)
	}
	return out, nil
}

func (s *Scheduler) runTask(ctx context.Context, prober *Prober, t task, cfg model.Config) (rep model.Report) {
	rep = model.Report{
		Line:   t.line,
		Result: model.ProbeResult{Endpoint: t.ep},
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger().Error("probe task panicked", "endpoint", t.ep.String(), "panic", r)
			rep.Result = model.ProbeResult{Endpoint: t.ep}
			rep.Err = fmt.Errorf("%w: %v", ErrTaskFailure, r)
		}
	}()

	if s.Limiter != nil {
		// Only fails once ctx is done; the candidate stays unreachable.
		if err := s.Limiter.Wait(ctx); err != nil {
			return rep
		}
	}

	rep.Result = prober.Probe(ctx, t.ep, cfg)
	return rep
}

func (s *Scheduler) logger() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}

// Successes lists the reachable proxies of reports with their scheme
// prefix, e.g. socks5://1.2.3.4:1080.
func Successes(reports []model.Report) []string {
	var out []string
	for _, r := range reports {
		if r.Err == nil && r.Result.Reachable {
			out = append(out, r.Result.URL())
		}
	}
	return out
}
