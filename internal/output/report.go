package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/August26/proxyprobe-go/internal/model"
	"github.com/August26/proxyprobe-go/internal/parser"
)

var (
	successColor   = color.New(color.FgGreen)
	failedColor    = color.New(color.FgRed)
	malformedColor = color.New(color.FgYellow)
	errorColor     = color.New(color.FgMagenta)
	headerColor    = color.New(color.FgHiCyan)
)

// PrintReport writes the one-line outcome of a candidate. Skipped lines
// print nothing and return false.
func PrintReport(w io.Writer, r model.Report) bool {
	switch {
	case errors.Is(r.Err, parser.ErrSkip):
		return false
	case errors.Is(r.Err, parser.ErrMalformedAddress):
		malformedColor.Fprintf(w, "[malformed] %s\n", strings.TrimSpace(r.Line))
	case r.Err != nil:
		errorColor.Fprintf(w, "[error] %s: %v\n", strings.TrimSpace(r.Line), r.Err)
	case r.Result.Reachable:
		successColor.Fprintf(w, "[success][%s] %s%s\n", r.Result.Protocol, r.Result.URL(), geoSuffix(r.Result.Geo))
	default:
		failedColor.Fprintf(w, "[failed] %s\n", r.Result.Endpoint)
	}
	return true
}

// PrintSuccessList writes the consolidated list of reachable proxies.
func PrintSuccessList(w io.Writer, proxies []string) {
	fmt.Fprintln(w)
	headerColor.Fprintln(w, "========= reachable proxies =========")
	for _, p := range proxies {
		fmt.Fprintln(w, p)
	}
}

func geoSuffix(g model.GeoInfo) string {
	switch {
	case g.Country != "" && g.City != "":
		return fmt.Sprintf(" (%s, %s)", g.City, g.Country)
	case g.Country != "":
		return fmt.Sprintf(" (%s)", g.Country)
	default:
		return ""
	}
}
