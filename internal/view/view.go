// Package view builds the ignoring-blocks view of a transaction. The result is
// a plain value tree; the terminal and HTML renderers only lay it out.
package view

import (
	"strconv"

	"ignorebtc/internal/format"
	"ignorebtc/internal/route"
	"ignorebtc/pkg/models"
)

const (
	satoshiPerByteLostNote = "Sum of (Tx.satByte-blockMinSatBytes) for each ignoring block"
	feesLostNote           = "TotalSatvBytesLost*tx.vSize"
)

// View is one of Nothing, Notice or Report.
type View interface {
	view()
}

// Nothing renders as empty output.
type Nothing struct{}

// Notice is a single informational line.
type Notice struct {
	Text string
}

type Report struct {
	Heading string
	Summary Summary
	Detail  Detail
}

// Summary is a header row and exactly one value row.
type Summary struct {
	Headers []Header
	Values  []string
}

type Header struct {
	Title string
	Note  string
}

// Detail is a transposed table: every row holds one cell per record, in
// record order.
type Detail struct {
	Rows []Row
}

type Row struct {
	Label string
	Cells []Cell
}

// Cell is a table value. A non-empty Link makes it navigable; Note is shown
// as an annotation next to the value.
type Cell struct {
	Text string
	Link string
	Note string
}

func (Nothing) view() {}
func (Notice) view()  {}
func (Report) view()  {}

// Build renders the input for the transaction and algorithm.
func Build(in models.ReportInput, tx models.TransactionContext, algo models.Algorithm) View {
	switch in := in.(type) {
	case models.EmptyReport:
		return Notice{Text: "Transaction has not been ignored by miners comparing against " + algo.Label() + " algorithm."}
	case models.Reported:
		if len(in.Report.Records) == 0 {
			return Build(models.EmptyReport{}, tx, algo)
		}
		return buildReport(in.Report, tx, algo)
	default:
		return Nothing{}
	}
}

func buildReport(r models.IgnoringReport, tx models.TransactionContext, algo models.Algorithm) Report {
	return Report{
		Heading: "Transaction has been ignored by miners comparing against " + algo.Label() + " algorithm:",
		Summary: Summary{
			Headers: []Header{
				{Title: "# Times ignored"},
				{Title: "Transaction Time"},
				{Title: "Total Satoshi/Byte Lost", Note: satoshiPerByteLostNote},
				{Title: "Total Fees Lost", Note: feesLostNote},
			},
			Values: []string{
				format.Count(len(r.Records)),
				format.ISOTime(tx.Time),
				format.Fixed6(r.TotalSatoshiPerByteLost),
				format.Grouped(r.TotalFeesLost),
			},
		},
		Detail: buildDetail(r.Records, tx, algo),
	}
}

func buildDetail(records []models.IgnoringBlockRecord, tx models.TransactionContext, algo models.Algorithm) Detail {
	rows := []struct {
		label string
		cell  func(models.IgnoringBlockRecord) Cell
	}{
		{"Block#", func(r models.IgnoringBlockRecord) Cell {
			return Cell{Text: itoa(r.Height), Link: route.BlockPath(r.Height, algo)}
		}},
		{"#Txs in mined block", func(r models.IgnoringBlockRecord) Cell {
			return Cell{Text: itoa(int64(r.TxsInMinedBlock))}
		}},
		{"#Txs in candidate block", func(r models.IgnoringBlockRecord) Cell {
			return Cell{Text: itoa(int64(r.TxsInCandidateBlock))}
		}},
		{"Position in candidate block", func(r models.IgnoringBlockRecord) Cell {
			return Cell{Text: format.Ordinal(r.PositionInCandidateBlock + 1)}
		}},
		{"Block Time", func(r models.IgnoringBlockRecord) Cell {
			return Cell{Text: format.ISOTime(r.Time)}
		}},
		{"Delta Time", func(r models.IgnoringBlockRecord) Cell {
			return Cell{Text: format.Delta(tx.Time, r.Time)}
		}},
		{"Miner Name", func(r models.IgnoringBlockRecord) Cell {
			return Cell{
				Text: r.Miner.Name,
				Link: route.MinerPath(r.Miner.Name),
				Note: "Coinbase: " + r.Miner.CoinbaseASCII,
			}
		}},
	}

	d := Detail{Rows: make([]Row, 0, len(rows))}
	for _, spec := range rows {
		row := Row{Label: spec.label, Cells: make([]Cell, 0, len(records))}
		for _, rec := range records {
			row.Cells = append(row.Cells, spec.cell(rec))
		}
		d.Rows = append(d.Rows, row)
	}
	return d
}

// LinkRef locates a navigable cell inside Detail.
type LinkRef struct {
	Row    int
	Column int
	Path   string
}

// Links lists the navigable cells row by row, left to right.
func (r Report) Links() []LinkRef {
	var links []LinkRef
	for i, row := range r.Detail.Rows {
		for j, c := range row.Cells {
			if c.Link != "" {
				links = append(links, LinkRef{Row: i, Column: j, Path: c.Link})
			}
		}
	}
	return links
}

// Columns is the number of record columns in the detail table.
func (d Detail) Columns() int {
	if len(d.Rows) == 0 {
		return 0
	}
	return len(d.Rows[0].Cells)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// Kind names the variant of v for logs and metrics.
func Kind(v View) string {
	switch v.(type) {
	case Notice:
		return "notice"
	case Report:
		return "report"
	default:
		return "nothing"
	}
}
