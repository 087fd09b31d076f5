package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, false, "json")
	log.Debug("hidden")
	log.Info("shown", "k", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line logged without verbose: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Fatalf("expected json info line, got %s", out)
	}
}

func TestNewLogger_VerboseText(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, true, "text")
	log.Debug("probe attempt failed", "protocol", "SOCKS5")

	if !strings.Contains(buf.String(), "level=DEBUG") || !strings.Contains(buf.String(), "protocol=SOCKS5") {
		t.Fatalf("expected text debug line, got %s", buf.String())
	}
}
