package model

import "testing"

func TestEndpointString(t *testing.T) {
	ep := Endpoint{Host: "127.0.0.1", Port: 1080}
	if ep.String() != "127.0.0.1:1080" {
		t.Fatalf("got %q", ep.String())
	}
}

func TestProbeResultURL(t *testing.T) {
	ep := Endpoint{Host: "proxy.example.com", Port: 3128}
	cases := []struct {
		p    Protocol
		name string
		url  string
	}{
		{ProtocolSOCKS5, "SOCKS5", "socks5://proxy.example.com:3128"},
		{ProtocolHTTP, "HTTP", "http://proxy.example.com:3128"},
		{ProtocolNone, "NONE", "proxy.example.com:3128"},
	}
	for _, c := range cases {
		r := ProbeResult{Endpoint: ep, Protocol: c.p, Reachable: c.p != ProtocolNone}
		if r.URL() != c.url {
			t.Fatalf("%v: got %q want %q", c.p, r.URL(), c.url)
		}
		if c.p.String() != c.name {
			t.Fatalf("got %q want %q", c.p.String(), c.name)
		}
	}
}
