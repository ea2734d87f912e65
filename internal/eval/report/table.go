package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"
	"github.com/DjordjeVuckovic/video-hunter/internal/eval/runner"
)

func WriteTable(r *Report, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== Video Retrieval Evaluation ===\n")
	if r.Meta.JobName != "" {
		fmt.Fprintf(tw, "Job: %s\tStore: %s\tRun: %s\n", r.Meta.JobName, r.Meta.Store, r.Meta.RunID)
	}
	fmt.Fprintln(tw)

	writeSummaryTable(tw, r.Summary)
	if r.Latency != nil && r.Latency.SampleCount > 0 {
		writeLatencyTable(tw, r.Latency)
	}
	writePerQueryTable(tw, r.Summary)

	return tw.Flush()
}

func writeSummaryTable(tw *tabwriter.Writer, s *Summary) {
	fmt.Fprintf(tw, "Aggregated Results (mean across %d of %d queries, %d skipped)\n\n", s.Included, s.QueryCount, s.Skipped)

	keys := ReportKeys()
	header := append(append([]string{}, keys...), "mrr")
	writeRow(tw, header)
	writeSeparator(tw, len(header))

	row := make([]string, 0, len(header))
	for _, key := range keys {
		row = append(row, fmt.Sprintf("%.4f", s.Scores[key]))
	}
	row = append(row, fmt.Sprintf("%.4f", s.MRR))
	writeRow(tw, row)

	fmt.Fprintln(tw)
}

func writeLatencyTable(tw *tabwriter.Writer, l *runner.LatencyStats) {
	fmt.Fprintf(tw, "Search Latency\n\n")

	header := []string{"Min", "p50", "p95", "p99", "Max", "Mean", "Stddev", "Samples"}
	writeRow(tw, header)
	writeSeparator(tw, len(header))
	writeRow(tw, []string{
		fmtDuration(l.Min),
		fmtDuration(l.P50()),
		fmtDuration(l.P95()),
		fmtDuration(l.P99()),
		fmtDuration(l.Max),
		fmtDuration(l.Mean),
		fmtDuration(l.Stddev),
		fmt.Sprintf("%d", l.SampleCount),
	})

	fmt.Fprintln(tw)
}

func writePerQueryTable(tw *tabwriter.Writer, s *Summary) {
	fmt.Fprintf(tw, "Per-Query Results\n\n")

	header := []string{"Query", "Truth"}
	for _, k := range resultset.Cutoffs {
		header = append(header, fmt.Sprintf("R@%d", k))
	}
	header = append(header, "AP", fmt.Sprintf("NDCG@%d", resultset.MaxDepth), "Hits")
	writeRow(tw, header)
	writeSeparator(tw, len(header))

	for _, e := range s.PerQuery {
		row := []string{truncate(e.Query, 48), e.GroundTruth.String()}
		for _, k := range resultset.Cutoffs {
			row = append(row, fmt.Sprintf("%.0f", e.Recall[k]))
		}
		row = append(row,
			fmt.Sprintf("%.4f", e.AP),
			fmt.Sprintf("%.4f", e.NDCG[resultset.MaxDepth]),
			fmt.Sprintf("%d", e.Hits),
		)
		writeRow(tw, row)
	}

	for _, q := range s.SkippedQueries {
		writeRow(tw, []string{truncate(q, 48), "-", "SKIPPED"})
	}

	fmt.Fprintln(tw)
}

func writeRow(tw *tabwriter.Writer, cols []string) {
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
}

func writeSeparator(tw *tabwriter.Writer, n int) {
	sep := make([]string, n)
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(tw, sep)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func fmtDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
