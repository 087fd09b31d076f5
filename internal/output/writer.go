package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/August26/proxyprobe-go/internal/model"
	"github.com/August26/proxyprobe-go/internal/parser"
)

// PrintResultsTable prints a human-readable table of per-candidate results.
func PrintResultsTable(w io.Writer, reports []model.Report) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)

	// header
	fmt.Fprintln(tw, "ADDRESS\tREACHABLE\tPROTOCOL\tLAT(ms)\tCOUNTRY\tCITY\tERROR")

	for _, row := range rows(reports) {
		lat := "-"
		if row.LatencyMs > 0 {
			lat = strconv.FormatInt(row.LatencyMs, 10)
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Address,
			boolToYN(row.Reachable),
			row.Protocol,
			lat,
			dashIfEmpty(row.Country),
			dashIfEmpty(row.City),
			dashIfEmpty(row.Error),
		)
	}

	tw.Flush()
}

// PrintSummary prints the aggregated batch stats.
func PrintSummary(w io.Writer, stats model.BatchStats) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  Candidates:               %d\n", stats.Candidates)
	fmt.Fprintf(w, "  Skipped / malformed:      %d / %d\n", stats.Skipped, stats.Malformed)
	fmt.Fprintf(w, "  Probed (unique):          %d (%d)\n", stats.Probed, stats.UniqueEndpoints)
	fmt.Fprintf(w, "  Reachable:                %d (socks5 %d, http %d)\n", stats.Reachable, stats.SOCKS5, stats.HTTP)
	if stats.TaskFailures > 0 {
		fmt.Fprintf(w, "  Task failures:            %d\n", stats.TaskFailures)
	}
	fmt.Fprintf(w, "  Success rate:             %.1f %%\n", stats.SuccessRatePct)
	fmt.Fprintf(w, "  Avg latency (reachable):  %.1f ms\n", stats.AvgLatencyMs)
	fmt.Fprintf(w, "  Batch time:               %.2f s\n", float64(stats.TotalProcessingTimeMs)/1000.0)
}

// Write renders reports in one of the batch formats: table, json or csv.
func Write(w io.Writer, format string, reports []model.Report, stats model.BatchStats) error {
	switch format {
	case "table":
		PrintResultsTable(w, reports)
		PrintSummary(w, stats)
		return nil
	case "json":
		return writeJSON(w, reports, stats)
	case "csv":
		return writeCSV(w, reports)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

type row struct {
	Line      string `json:"line"`
	Address   string `json:"address"`
	Reachable bool   `json:"reachable"`
	Protocol  string `json:"protocol"`
	URL       string `json:"url,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Country   string `json:"country,omitempty"`
	City      string `json:"city,omitempty"`
	Error     string `json:"error,omitempty"`
}

// rows flattens reports, dropping skipped lines.
func rows(reports []model.Report) []row {
	out := make([]row, 0, len(reports))
	for _, r := range reports {
		if errors.Is(r.Err, parser.ErrSkip) {
			continue
		}

		res := r.Result
		rw := row{
			Line:      r.Line,
			Address:   res.Endpoint.String(),
			Reachable: res.Reachable,
			Protocol:  res.Protocol.String(),
			LatencyMs: res.LatencyMs,
			Country:   res.Geo.Country,
			City:      res.Geo.City,
		}
		if res.Reachable {
			rw.URL = res.URL()
		}
		if r.Err != nil {
			rw.Error = r.Err.Error()
			if errors.Is(r.Err, parser.ErrMalformedAddress) {
				rw.Address = r.Line
			}
		}
		out = append(out, rw)
	}
	return out
}

// writeJSON writes an object with "results", "reachable" and "summary".
func writeJSON(w io.Writer, reports []model.Report, stats model.BatchStats) error {
	var reachable []string
	for _, r := range rows(reports) {
		if r.Reachable {
			reachable = append(reachable, r.URL)
		}
	}

	payload := struct {
		Results   []row            `json:"results"`
		Reachable []string         `json:"reachable"`
		Summary   model.BatchStats `json:"summary"`
	}{
		Results:   rows(reports),
		Reachable: reachable,
		Summary:   stats,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// writeCSV writes a CSV with per-candidate rows (summary is not included in CSV).
func writeCSV(w io.Writer, reports []model.Report) error {
	cw := csv.NewWriter(w)

	// header
	header := []string{
		"address",
		"reachable",
		"protocol",
		"url",
		"latency_ms",
		"country",
		"city",
		"error",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range rows(reports) {
		rec := []string{
			r.Address,
			boolToYN(r.Reachable),
			r.Protocol,
			r.URL,
			strconv.FormatInt(r.LatencyMs, 10),
			r.Country,
			r.City,
			r.Error,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func boolToYN(b bool) string {
	if b {
		return "y"
	}
	return "n"
}
