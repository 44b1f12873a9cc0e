package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/webharvest/internal/model"
)

// MarkdownWriter outputs crawl summaries in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the crawl summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.CrawlSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeFetches(md, summary)

	return len(md.String()), md.Build()
}

// writeHeader writes the summary header with crawl information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.CrawlSummary) {
	md.H1("Webharvest Crawl Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Index Page", "`" + summary.IndexURL + "`"},
			{"Crawl Date", summary.Started.Format("2006-01-02 15:04:05 MST")},
			{"Instances", strconv.Itoa(summary.Instances)},
			{"Duration", summary.Elapsed.String()},
		},
	})
	md.PlainText("")
}

// writeFetches writes the fetch statistics section.
func (w *MarkdownWriter) writeFetches(md *markdown.Markdown, summary *model.CrawlSummary) {
	md.H2("Fetches")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Count"},
		Rows: [][]string{
			{"Network", strconv.Itoa(summary.NetworkFetches)},
			{"Cached", strconv.Itoa(summary.CacheHits)},
			{"Recovered", strconv.Itoa(summary.Recovered)},
			{"**Total**", "**" + strconv.Itoa(summary.Fetches) + "**"},
			{"Bytes", strconv.FormatInt(summary.Bytes, 10)},
		},
	})
	md.PlainText("")

	if summary.Fetches > 0 {
		w.writePieChart(md, summary)
	}
}

// writePieChart writes a mermaid pie chart of the fetch source split.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.CrawlSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Fetch Sources"),
		piechart.WithShowData(true),
	)

	netOK := summary.NetworkFetches - summary.Recovered
	if netOK > 0 {
		chart.LabelAndIntValue("Network", uint64(netOK))
	}
	if summary.CacheHits > 0 {
		chart.LabelAndIntValue("Cached", uint64(summary.CacheHits))
	}
	if summary.Recovered > 0 {
		chart.LabelAndIntValue("Recovered", uint64(summary.Recovered))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}
