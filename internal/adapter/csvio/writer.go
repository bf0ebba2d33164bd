package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/iho/payengine/internal/domain"
)

var outputHeader = []string{"client", "available", "held", "total", "locked"}

// Writer renders the final account table as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer targeting w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteAccounts writes the header followed by one row per account.
// Balances are rendered with exactly four decimal places.
func (w *Writer) WriteAccounts(accounts []*domain.Account) error {
	if err := w.csv.Write(outputHeader); err != nil {
		return err
	}

	for _, acc := range accounts {
		row := []string{
			strconv.FormatUint(uint64(acc.Client), 10),
			acc.Available.StringFixed(4),
			acc.Held.StringFixed(4),
			acc.Total().StringFixed(4),
			strconv.FormatBool(acc.Locked),
		}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}

	w.csv.Flush()

	return w.csv.Error()
}
