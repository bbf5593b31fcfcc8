package cashflow

import "fmt"

// OutOfOrderError is returned when an entry is appended out of month order.
type OutOfOrderError struct {
	Want int
	Got  int
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("ledger: expected month %d, got %d", e.Want, e.Got)
}

// Ledger is the append-only month log of one run. Entry i is month i; there
// are no gaps and entries are never modified once appended.
type Ledger struct {
	entries []LedgerEntry
}

// NewLedger creates an empty ledger sized for capacity months.
func NewLedger(capacity int) *Ledger {
	return &Ledger{entries: make([]LedgerEntry, 0, capacity)}
}

// Append adds the next month. The entry's Month must equal Len().
func (l *Ledger) Append(e LedgerEntry) error {
	if e.Month != len(l.entries) {
		return &OutOfOrderError{Want: len(l.entries), Got: e.Month}
	}
	l.entries = append(l.entries, e)
	return nil
}

// Len is the number of months recorded so far.
func (l *Ledger) Len() int { return len(l.entries) }

// Entries returns the appended months in order.
func (l *Ledger) Entries() []LedgerEntry { return l.entries }
