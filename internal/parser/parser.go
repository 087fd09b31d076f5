package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/August26/proxyprobe-go/internal/model"
)

var (
	// ErrSkip marks a line that carries no candidate (blank or comment).
	// It is not a malformed address.
	ErrSkip = errors.New("skip line")

	ErrMalformedAddress = errors.New("malformed address")

	ErrNoCandidates = errors.New("no candidates in input")
)

// LoadFromFile reads the candidate lines of path. Lines are returned raw;
// validation happens later through Parse so that bad lines can be reported.
func LoadFromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	return ReadLines(f)
}

// ReadLines returns every line of r. Fails with ErrNoCandidates when r
// holds nothing but whitespace.
func ReadLines(r io.Reader) ([]string, error) {
	var (
		out   []string
		blank = true
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) != "" {
			blank = false
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan input: %w", err)
	}
	if blank {
		return nil, ErrNoCandidates
	}
	return out, nil
}

// Parse turns a single candidate line into an Endpoint.
//
// Accepted form is host:port with exactly one ':' and a decimal port
// in [0, 65535]. Empty lines and '#' comments return ErrSkip.
func Parse(line string) (model.Endpoint, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return model.Endpoint{}, ErrSkip
	}

	host, portStr, ok := strings.Cut(line, ":")
	if !ok || strings.Contains(portStr, ":") {
		return model.Endpoint{}, fmt.Errorf("%w: %q: expected host:port", ErrMalformedAddress, line)
	}
	if host == "" || portStr == "" {
		return model.Endpoint{}, fmt.Errorf("%w: %q: empty host or port", ErrMalformedAddress, line)
	}

	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return model.Endpoint{}, fmt.Errorf("%w: %q: invalid port %q", ErrMalformedAddress, line, portStr)
	}

	return model.Endpoint{Host: host, Port: uint16(port)}, nil
}
