package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/webharvest/internal/model"
)

// SimpleWriter outputs human-readable text summaries.
// This format is designed for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the crawl summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.CrawlSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeFetches(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the summary header with crawl information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.CrawlSummary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        WEBHARVEST CRAWL SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Index Page:    %s\n", summary.IndexURL))
	sb.WriteString(fmt.Sprintf("Crawl Date:    %s\n", summary.Started.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Instances:     %d\n", summary.Instances))
	sb.WriteString(fmt.Sprintf("Duration:      %s\n", summary.Elapsed.Round(time.Millisecond)))
	sb.WriteString("\n")
}

// writeFetches writes the fetch statistics section.
func (w *SimpleWriter) writeFetches(sb *strings.Builder, summary *model.CrawlSummary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FETCHES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  TOTAL:     %d\n", summary.Fetches))
	sb.WriteString(fmt.Sprintf("  NETWORK:   %d\n", summary.NetworkFetches))
	sb.WriteString(fmt.Sprintf("  CACHED:    %d\n", summary.CacheHits))
	sb.WriteString(fmt.Sprintf("  RECOVERED: %d\n", summary.Recovered))
	sb.WriteString(fmt.Sprintf("  BYTES:     %d\n", summary.Bytes))
	sb.WriteString("\n")
}

// writeFooter writes the summary footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by webharvest\n")
	sb.WriteString("https://github.com/nao1215/webharvest\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
