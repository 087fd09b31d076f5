package checker

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/August26/proxyprobe-go/internal/model"
)

// attemptHTTP sends a proxy-style (absolute-form) HEAD request for
// cfg.TestURL straight to ep.
func attemptHTTP(ctx context.Context, ep model.Endpoint, cfg model.Config) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", ep.String())
	if err != nil {
		return fmt.Errorf("dial proxy: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return fmt.Errorf("set deadline: %w", err)
		}
	}

	if _, err := io.WriteString(conn, httpProbeRequest(cfg)); err != nil {
		return fmt.Errorf("write probe request: %w", err)
	}

	return expectHTTP(conn)
}

func httpProbeRequest(cfg model.Config) string {
	return "HEAD " + cfg.TestURL + " HTTP/1.1\r\n" +
		"Host: " + cfg.TestHost + "\r\n" +
		"User-Agent: " + UserAgent + "\r\n" +
		"Connection: close\r\n\r\n"
}
