// Package geo locates reachable proxies with a local MaxMind database.
package geo

import (
	"errors"
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"

	"github.com/August26/proxyprobe-go/internal/model"
)

var ErrNotIP = errors.New("host is not an IP address")

// Resolver implements model.IPResolver on top of a GeoLite2/GeoIP2 City database.
type Resolver struct {
	db *geoip2.Reader
}

func Open(path string) (*Resolver, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip db: %w", err)
	}
	return &Resolver{db: db}, nil
}

// Lookup only handles IP literals; hostnames are not resolved.
func (r *Resolver) Lookup(ip string) (model.GeoInfo, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return model.GeoInfo{}, fmt.Errorf("%w: %q", ErrNotIP, ip)
	}

	rec, err := r.db.City(parsed)
	if err != nil {
		return model.GeoInfo{}, fmt.Errorf("geoip lookup %s: %w", ip, err)
	}
	return model.GeoInfo{
		Country: rec.Country.IsoCode,
		City:    rec.City.Names["en"],
	}, nil
}

func (r *Resolver) Close() error {
	return r.db.Close()
}
