package checker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"

	"golang.org/x/net/proxy"

	"github.com/August26/proxyprobe-go/internal/model"
)

// attemptSOCKS5 negotiates a no-auth SOCKS5 session with ep, asks it to
// CONNECT to the test target and sends a HEAD request through the tunnel.
// Greeting, CONNECT and the reply parse follow RFC 1928 via x/net/proxy.
func attemptSOCKS5(ctx context.Context, ep model.Endpoint, cfg model.Config) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	dialer, err := proxy.SOCKS5("tcp", ep.String(), nil, &net.Dialer{
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return fmt.Errorf("build socks5 dialer: %w", err)
	}
	cd, ok := dialer.(proxy.ContextDialer)
	if !ok {
		return errors.New("socks5 dialer does not implement DialContext")
	}

	target := net.JoinHostPort(cfg.TestHost, strconv.Itoa(cfg.TestPort))
	conn, err := cd.DialContext(ctx, "tcp", target)
	if err != nil {
		return fmt.Errorf("socks5 connect to %s: %w", target, err)
	}
	defer conn.Close()

	// The handshake deadline is dropped by x/net once the tunnel is up,
	// so the remaining exchange gets the same one back.
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return fmt.Errorf("set deadline: %w", err)
		}
	}

	req := "HEAD / HTTP/1.1\r\nHost: " + cfg.TestHost + "\r\n\r\n"
	if _, err := io.WriteString(conn, req); err != nil {
		return fmt.Errorf("write probe request: %w", err)
	}

	return expectHTTP(conn)
}
