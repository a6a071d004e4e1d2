package cli

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"

	"github.com/bstrange24/XRPL-Utility-sub000/internal/history"
)

// printSink collects the records and filter published by the sync controller
// and renders the filtered history as a table on demand.
type printSink struct {
	mu      sync.Mutex
	records []history.BalanceChange
	match   func(history.BalanceChange) bool
}

func newPrintSink() *printSink {
	return &printSink{match: func(history.BalanceChange) bool { return true }}
}

func (s *printSink) SetRecords(records []history.BalanceChange) {
	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
}

func (s *printSink) SetFilter(match func(history.BalanceChange) bool) {
	s.mu.Lock()
	s.match = match
	s.mu.Unlock()
}

// render writes the filtered records as a table and returns how many matched.
func (s *printSink) render(w io.Writer) int {
	s.mu.Lock()
	records := s.records
	match := s.match
	s.mu.Unlock()

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tCHANGE\tCURRENCY\tBALANCE AFTER\tFEE\tCOUNTERPARTY\tHASH")
	n := 0
	for _, r := range records {
		if !match(r) {
			continue
		}
		n++
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Date.Format("2006-01-02 15:04:05"),
			r.Type,
			r.Change.String(),
			r.Currency,
			r.BalanceAfter.String(),
			r.Fee.String(),
			r.Counterparty,
			r.Hash,
		)
	}
	tw.Flush()
	return n
}
