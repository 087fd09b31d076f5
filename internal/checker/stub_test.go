package checker

import (
	"bytes"
	"io"
	"log"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/armon/go-socks5"

	"github.com/August26/proxyprobe-go/internal/model"
)

var discardLogger = slog.New(slog.DiscardHandler)

// countingListener counts accepted connections so tests can tell how
// many protocol attempts reached an endpoint.
type countingListener struct {
	net.Listener
	accepts atomic.Int32
}

func (l *countingListener) Accept() (net.Conn, error) {
	c, err := l.Listener.Accept()
	if err == nil {
		l.accepts.Add(1)
	}
	return c, err
}

func endpointOf(t *testing.T, addr net.Addr) model.Endpoint {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		t.Fatalf("split %s: %v", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("port %s: %v", portStr, err)
	}
	return model.Endpoint{Host: host, Port: uint16(port)}
}

// newTarget starts the HTTP server probes are relayed to.
func newTarget(t *testing.T) model.Endpoint {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return endpointOf(t, srv.Listener.Addr())
}

// newSOCKS5Stub starts a no-auth SOCKS5 server that relays anywhere.
func newSOCKS5Stub(t *testing.T) (model.Endpoint, *countingListener) {
	t.Helper()
	srv, err := socks5.New(&socks5.Config{
		Logger: log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("socks5 server: %v", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	cl := &countingListener{Listener: ln}
	go srv.Serve(cl)
	t.Cleanup(func() { ln.Close() })
	return endpointOf(t, ln.Addr()), cl
}

// httpProxyStub answers proxy-style HTTP requests and hangs up on
// anything that starts like a SOCKS5 greeting.
type httpProxyStub struct {
	ep model.Endpoint
	ln *countingListener

	mu       sync.Mutex
	requests []string
}

func newHTTPProxyStub(t *testing.T) *httpProxyStub {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := &httpProxyStub{ep: endpointOf(t, ln.Addr()), ln: &countingListener{Listener: ln}}
	go s.serve()
	t.Cleanup(func() { ln.Close() })
	return s
}

func (s *httpProxyStub) serve() {
	for {
		c, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(c)
	}
}

func (s *httpProxyStub) handle(c net.Conn) {
	defer c.Close()
	_ = c.SetDeadline(time.Now().Add(5 * time.Second))

	var req []byte
	buf := make([]byte, 512)
	for !bytes.Contains(req, []byte("\r\n\r\n")) {
		n, err := c.Read(buf)
		req = append(req, buf[:n]...)
		if len(req) > 0 && req[0] == 0x05 {
			return
		}
		if err != nil {
			return
		}
	}

	s.mu.Lock()
	s.requests = append(s.requests, string(req))
	s.mu.Unlock()

	io.WriteString(c, "HTTP/1.1 200 OK\r\nContent-Length: 0\r\nConnection: close\r\n\r\n")
}

func (s *httpProxyStub) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// closedEndpoint returns a loopback address nothing listens on.
func closedEndpoint(t *testing.T) model.Endpoint {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ep := endpointOf(t, ln.Addr())
	ln.Close()
	return ep
}

func testConfig(target model.Endpoint) model.Config {
	return model.Config{
		TestHost: target.Host,
		TestPort: int(target.Port),
		TestURL:  "http://" + target.String() + "/",
		Timeout:  2 * time.Second,
		Workers:  4,
	}
}
