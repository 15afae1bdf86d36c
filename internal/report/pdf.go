// Package report renders screening results as PDF reports.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/nordvik/nordscreen/internal/contracts"
	"github.com/nordvik/nordscreen/pkg/logger"
)

// Generator renders ranked screening results into a PDF.
type Generator struct {
	reportDir string
	topN      int
	logger    *logger.Logger
}

// NewGenerator creates a PDF report generator
func NewGenerator(reportDir string, topN int, log *logger.Logger) *Generator {
	return &Generator{
		reportDir: reportDir,
		topN:      topN,
		logger:    log.WithField("module", "report"),
	}
}

// Generate renders the report and returns the PDF bytes. Results are
// expected ranked; only the top N appear in the detail table.
func (g *Generator) Generate(runAt time.Time, results []contracts.ScreeningResult) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()

	g.renderHeader(pdf, runAt, results)
	g.renderTable(pdf, results)
	g.renderCriteriaLegend(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("generate PDF output: %w", err)
	}

	g.logger.WithFields(map[string]interface{}{
		"companies": len(results),
		"pdf_size":  buf.Len(),
	}).Debug("Generated screening report")

	return buf.Bytes(), nil
}

// Save renders the report and writes it to the report directory with a
// timestamped filename, returning the path.
func (g *Generator) Save(runAt time.Time, results []contracts.ScreeningResult) (string, error) {
	data, err := g.Generate(runAt, results)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(g.reportDir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	path := filepath.Join(g.reportDir, fmt.Sprintf("screening_%s.pdf", runAt.Format("20060102_150405")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	g.logger.WithField("path", path).Info("Saved screening report")
	return path, nil
}

func (g *Generator) renderHeader(pdf *fpdf.Fpdf, runAt time.Time, results []contracts.ScreeningResult) {
	passed := 0
	failed := 0
	for _, r := range results {
		if r.PassedAll {
			passed++
		}
		if r.FailReason != "" {
			failed++
		}
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Nordic Fundamental Screening", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Run: %s", runAt.Format("2006-01-02 15:04 MST")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Companies screened: %d    Passed all criteria: %d    Unreachable: %d",
		len(results), passed, failed), "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

// column layout for the detail table
var tableColumns = []struct {
	header string
	width  float64
}{
	{"#", 8},
	{"Ticker", 26},
	{"Name", 52},
	{"Industry", 44},
	{"Score", 14},
	{"PE", 16},
	{"ROIC min", 18},
	{"D/E", 14},
	{"CF Yield", 18},
	{"Criteria", 58},
}

func (g *Generator) renderTable(pdf *fpdf.Fpdf, results []contracts.ScreeningResult) {
	limit := g.topN
	if limit <= 0 || limit > len(results) {
		limit = len(results)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Top %d", limit), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range tableColumns {
		pdf.CellFormat(col.width, 7, col.header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, r := range results[:limit] {
		pdf.CellFormat(tableColumns[0].width, 6, fmt.Sprintf("%d", r.Rank), "1", 0, "C", false, 0, "")
		pdf.CellFormat(tableColumns[1].width, 6, r.Company.Ticker, "1", 0, "L", false, 0, "")
		pdf.CellFormat(tableColumns[2].width, 6, truncate(r.Company.Name, 30), "1", 0, "L", false, 0, "")
		pdf.CellFormat(tableColumns[3].width, 6, truncate(r.Company.Industry, 26), "1", 0, "L", false, 0, "")
		pdf.CellFormat(tableColumns[4].width, 6, fmt.Sprintf("%d/%d", r.PassedCount, len(r.Filters)), "1", 0, "C", false, 0, "")
		pdf.CellFormat(tableColumns[5].width, 6, formatMetric(r.Metrics.PE, "%.1f"), "1", 0, "R", false, 0, "")
		pdf.CellFormat(tableColumns[6].width, 6, formatROIC(r.Metrics.ROIC), "1", 0, "R", false, 0, "")
		pdf.CellFormat(tableColumns[7].width, 6, formatMetric(r.Metrics.DebtToEquity, "%.2f"), "1", 0, "R", false, 0, "")
		pdf.CellFormat(tableColumns[8].width, 6, formatPercent(r.Metrics.CFYield), "1", 0, "R", false, 0, "")
		pdf.CellFormat(tableColumns[9].width, 6, criteriaMarks(r.Filters), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func (g *Generator) renderCriteriaLegend(pdf *fpdf.Fpdf) {
	pdf.SetFont("Arial", "I", 8)
	legend := "Criteria order: PE below industry, ROIC, revenue growth, earnings growth, " +
		"debt/equity, free cash flow, CF yield, positive earnings. P = passed, - = failed."
	pdf.CellFormat(0, 5, legend, "", 1, "L", false, 0, "")
}

func criteriaMarks(filters []contracts.FilterResult) string {
	marks := make([]byte, 0, len(filters)*2)
	for i, f := range filters {
		if i > 0 {
			marks = append(marks, ' ')
		}
		if f.Passed {
			marks = append(marks, 'P')
		} else {
			marks = append(marks, '-')
		}
	}
	return string(marks)
}

func formatMetric(m contracts.Metric, layout string) string {
	if !m.Valid {
		return "n/a"
	}
	return fmt.Sprintf(layout, m.Value)
}

func formatPercent(m contracts.Metric) string {
	if !m.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", m.Value*100)
}

func formatROIC(h contracts.ROICHistory) string {
	if !h.Valid || len(h.Years) == 0 {
		return "n/a"
	}
	worst := h.Years[0]
	for _, y := range h.Years[1:] {
		if y < worst {
			worst = y
		}
	}
	return fmt.Sprintf("%.1f%%", worst*100)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
