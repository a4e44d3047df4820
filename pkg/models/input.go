package models

// ReportInput is what the statistics engine knows about a transaction. It is
// one of NoData, EmptyReport or Reported.
type ReportInput interface {
	reportInput()
}

// NoData means no ignoring-block information exists for the transaction.
type NoData struct{}

// EmptyReport means the transaction was checked and no block ignored it.
type EmptyReport struct{}

// Reported carries a report with at least one record.
type Reported struct {
	Report IgnoringReport
}

func (NoData) reportInput()      {}
func (EmptyReport) reportInput() {}
func (Reported) reportInput()    {}

// InputFromReport picks EmptyReport for a report without records.
func InputFromReport(r IgnoringReport) ReportInput {
	if len(r.Records) == 0 {
		return EmptyReport{}
	}
	return Reported{Report: r}
}
