package analytics

import (
	"errors"
	"time"

	"github.com/August26/proxyprobe-go/internal/checker"
	"github.com/August26/proxyprobe-go/internal/model"
	"github.com/August26/proxyprobe-go/internal/parser"
)

func Compute(reports []model.Report, totalDuration time.Duration) model.BatchStats {
	var (
		stats          = model.BatchStats{Candidates: len(reports)}
		uniqueSet      = map[model.Endpoint]struct{}{}
		totalLatencyMs int64
	)

	for _, r := range reports {
		switch {
		case errors.Is(r.Err, parser.ErrSkip):
			stats.Skipped++
			continue
		case errors.Is(r.Err, parser.ErrMalformedAddress):
			stats.Malformed++
			continue
		case errors.Is(r.Err, checker.ErrTaskFailure):
			stats.TaskFailures++
		default:
			stats.Probed++
		}

		uniqueSet[r.Result.Endpoint] = struct{}{}

		if !r.Result.Reachable {
			continue
		}
		stats.Reachable++
		totalLatencyMs += r.Result.LatencyMs

		switch r.Result.Protocol {
		case model.ProtocolSOCKS5:
			stats.SOCKS5++
		case model.ProtocolHTTP:
			stats.HTTP++
		}
	}

	stats.UniqueEndpoints = len(uniqueSet)

	if stats.Reachable > 0 {
		stats.AvgLatencyMs = float64(totalLatencyMs) / float64(stats.Reachable)
	}

	if tested := stats.Probed + stats.TaskFailures; tested > 0 {
		stats.SuccessRatePct = (float64(stats.Reachable) / float64(tested)) * 100.0
	}

	stats.TotalProcessingTimeMs = totalDuration.Milliseconds()
	return stats
}
