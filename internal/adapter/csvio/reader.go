package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/payengine/internal/domain"
)

// Decode errors. All of them are fatal: a record that cannot be turned
// into a typed event means the input itself is broken.
var (
	ErrMalformedHeader = errors.New("malformed header row")
	ErrFieldCount      = errors.New("wrong field count")
	ErrMissingAmount   = errors.New("missing amount")
)

// Reader decodes payment events from CSV, one record at a time, in
// file order. The first row must be the header.
type Reader struct {
	csv        *csv.Reader
	record     int
	headerRead bool
}

// NewReader creates a Reader over r. Rows may have three or four
// fields; cells are whitespace-trimmed before decoding.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	return &Reader{csv: cr}
}

// Next returns the next event in file order. io.EOF signals a clean end
// of input; any other error is fatal and the run must abort.
func (r *Reader) Next() (domain.Event, error) {
	if !r.headerRead {
		if err := r.readHeader(); err != nil {
			return domain.Event{}, err
		}
		r.headerRead = true
	}

	rec, err := r.csv.Read()
	if err != nil {
		// io.EOF passes through untouched as end-of-stream.
		return domain.Event{}, err
	}

	r.record++

	ev, err := r.decode(rec)
	if err != nil {
		return domain.Event{}, fmt.Errorf("record %d: %w", r.record, err)
	}

	return ev, nil
}

func (r *Reader) readHeader() error {
	header, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("read header: %w", err)
	}

	if len(header) == 0 || strings.TrimSpace(header[0]) != "type" {
		return fmt.Errorf("%w: first column must be \"type\"", ErrMalformedHeader)
	}

	return nil
}

func (r *Reader) decode(rec []string) (domain.Event, error) {
	if len(rec) < 3 || len(rec) > 4 {
		return domain.Event{}, fmt.Errorf("%w: got %d fields", ErrFieldCount, len(rec))
	}

	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}

	typ := domain.EventType(rec[0])
	if !typ.Valid() {
		return domain.Event{}, fmt.Errorf("%w %q", domain.ErrUnknownEventType, rec[0])
	}

	client, err := strconv.ParseUint(rec[1], 10, 16)
	if err != nil {
		return domain.Event{}, fmt.Errorf("client id %q: %w", rec[1], err)
	}

	txID, err := strconv.ParseUint(rec[2], 10, 32)
	if err != nil {
		return domain.Event{}, fmt.Errorf("transaction id %q: %w", rec[2], err)
	}

	ev := domain.Event{
		Type:   typ,
		Client: uint16(client),
		TxID:   uint32(txID),
	}

	var raw string
	if len(rec) == 4 {
		raw = rec[3]
	}

	if typ.RequiresAmount() && raw == "" {
		return domain.Event{}, fmt.Errorf("%w for %s", ErrMissingAmount, typ)
	}

	if raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.Event{}, fmt.Errorf("amount %q: %w", raw, err)
		}

		// Reference events carry no amount of their own; a parseable
		// value in that column is tolerated and ignored.
		if typ.RequiresAmount() {
			ev.Amount = amount
			ev.HasAmount = true
		}
	}

	return ev, nil
}
