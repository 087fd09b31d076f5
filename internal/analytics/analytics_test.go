package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/August26/proxyprobe-go/internal/checker"
	"github.com/August26/proxyprobe-go/internal/model"
	"github.com/August26/proxyprobe-go/internal/parser"
)

func TestCompute(t *testing.T) {
	socks := model.Endpoint{Host: "1.1.1.1", Port: 1080}
	httpEP := model.Endpoint{Host: "2.2.2.2", Port: 3128}
	dead := model.Endpoint{Host: "3.3.3.3", Port: 80}

	reports := []model.Report{
		{Line: "1.1.1.1:1080", Result: model.ProbeResult{Endpoint: socks, Reachable: true, Protocol: model.ProtocolSOCKS5, LatencyMs: 100}},
		{Line: "2.2.2.2:3128", Result: model.ProbeResult{Endpoint: httpEP, Reachable: true, Protocol: model.ProtocolHTTP, LatencyMs: 300}},
		{Line: "3.3.3.3:80", Result: model.ProbeResult{Endpoint: dead}},
		{Line: "3.3.3.3:80", Result: model.ProbeResult{Endpoint: dead}},
		{Line: "4.4.4.4:80", Result: model.ProbeResult{Endpoint: model.Endpoint{Host: "4.4.4.4", Port: 80}}, Err: fmt.Errorf("%w: boom", checker.ErrTaskFailure)},
		{Line: "", Err: parser.ErrSkip},
		{Line: "badline", Err: fmt.Errorf("%w: %q", parser.ErrMalformedAddress, "badline")},
	}

	stats := Compute(reports, 1500*time.Millisecond)

	want := model.BatchStats{
		Candidates:            7,
		Skipped:               1,
		Malformed:             1,
		Probed:                4,
		TaskFailures:          1,
		UniqueEndpoints:       4,
		Reachable:             2,
		SOCKS5:                1,
		HTTP:                  1,
		AvgLatencyMs:          200,
		TotalProcessingTimeMs: 1500,
		SuccessRatePct:        40,
	}
	if stats != want {
		t.Fatalf("got %#v\nwant %#v", stats, want)
	}
}

func TestCompute_Empty(t *testing.T) {
	stats := Compute(nil, 0)
	if stats != (model.BatchStats{}) {
		t.Fatalf("expected zero stats, got %#v", stats)
	}
}
