package usecase

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"CapLens/internal/domain/models"
	"CapLens/internal/services/scoring"
)

type exportColumn struct {
	header string
	value  func(d *Dashboard, c *models.Company) (float64, bool)
	text   func(c *models.Company) string
}

func metricColumn(header, name string) exportColumn {
	return exportColumn{header: header, value: func(_ *Dashboard, c *models.Company) (float64, bool) {
		return scoring.GetMetric(c, name)
	}}
}

func textColumn(header string, text func(c *models.Company) string) exportColumn {
	return exportColumn{header: header, text: text}
}

var exportColumns = []exportColumn{
	metricColumn("Rank", "ranking"),
	textColumn("Ticker", func(c *models.Company) string { return c.Ticker }),
	textColumn("Company", func(c *models.Company) string { return c.Name }),
	textColumn("Sector", func(c *models.Company) string { return c.Sector }),
	metricColumn("Score", "score"),
	metricColumn("Current Price", "currentPrice"),
	metricColumn("Target 12M", "targetPrice"),
	metricColumn("Upside 12M", "upside"),
	metricColumn("Target 1Y", "target1Y"),
	metricColumn("Target 3Y", "target3Y"),
	metricColumn("Target 5Y", "target5Y"),
	metricColumn("Target 10Y", "target10Y"),
	{header: "Confidence", value: func(d *Dashboard, c *models.Company) (float64, bool) {
		return d.scorer.BaseConfidence(c), true
	}},
	metricColumn("P/E", "pe"),
	{header: "GVR", value: func(d *Dashboard, c *models.Company) (float64, bool) {
		if v, ok := scoring.GetMetric(c, "growthValueRatio"); ok {
			return v, true
		}
		return d.scorer.GrowthValueRatio(c), true
	}},
	metricColumn("ROE", "roe"),
	metricColumn("ROIC", "roic"),
	metricColumn("DY", "dividendYield"),
	metricColumn("Net Debt/EBITDA", "netDebtToEbitda"),
	metricColumn("EBITDA Margin", "ebitdaMargin"),
	metricColumn("Revenue Growth", "revenueGrowth"),
	metricColumn("Earnings Growth", "earningsGrowth"),
	metricColumn("P/B", "pb"),
	metricColumn("EV/EBITDA", "evEbitda"),
	metricColumn("Beta", "beta"),
	metricColumn("Market Cap", "marketCap"),
	metricColumn("YTD", "ytd"),
	textColumn("Recommendation", func(c *models.Company) string { return string(c.Recommendation) }),
}

// ExportHeader lists the CSV columns in output order.
func ExportHeader() []string {
	out := make([]string, len(exportColumns))
	for i, col := range exportColumns {
		out[i] = col.header
	}
	return out
}

// ExportCSV writes one row per company in catalog order. Unknown values are empty cells.
func (d *Dashboard) ExportCSV(w io.Writer) error {
	d.metrics.RecordScoring("export")

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(exportColumns))
	for _, c := range d.companies.Companies() {
		for i, col := range exportColumns {
			row[i] = col.render(d, c)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", c.Ticker, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func (col exportColumn) render(d *Dashboard, c *models.Company) string {
	if col.text != nil {
		return col.text(c)
	}
	v, ok := col.value(d, c)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
