// Package csvio reads and writes the kiosk and ticket CSV files.
//
// Files use a comma separator and double-quoted fields; quoted fields may hold
// commas, doubled quotes and line breaks. Rows end in LF or CRLF. A leading
// UTF-8 byte order mark is ignored. Blank lines, including lines holding only
// spaces or tabs, are skipped.
package csvio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Column sets of the supported files.
var (
	KioskHeader        = []string{"serial_number", "name", "location", "status", "notes"}
	TicketImportHeader = []string{"kiosk_serial", "title", "description", "status", "priority"}
	TicketExportHeader = []string{
		"id", "kiosk_serial", "kiosk_name", "title", "description", "status", "priority",
		"assignee_email", "created_at", "updated_at",
	}
)

// ErrEmpty is returned for a file with no header or no data rows.
var ErrEmpty = errors.New("csv file has no data rows")

var bom = []byte{0xEF, 0xBB, 0xBF}

// RowError is a problem with one cell or row. Line is the 1-based physical
// line where the record starts; Column is empty for row-level problems.
type RowError struct {
	Line    int    `json:"line"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

func (e RowError) String() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Column, e.Message)
}

// Errors collects every RowError found in a file.
type Errors []RowError

// Sort orders es by line, keeping the order of errors on the same line.
func (es Errors) Sort() {
	sort.SliceStable(es, func(i, j int) bool { return es[i].Line < es[j].Line })
}

func (es Errors) Error() string {
	if len(es) == 1 {
		return "csv: " + es[0].String()
	}
	return fmt.Sprintf("csv: %d errors, first: %s", len(es), es[0].String())
}

// Add records a problem.
func (es *Errors) Add(line int, column, message string) {
	*es = append(*es, RowError{Line: line, Column: column, Message: message})
}

// Err returns es as an error, or nil when it is empty.
func (es Errors) Err() error {
	if len(es) == 0 {
		return nil
	}
	return es
}

// Record is one data row keyed by column name.
type Record struct {
	Line   int
	fields map[string]string
}

// Get returns the trimmed value of column.
func (r Record) Get(column string) string {
	return strings.TrimSpace(r.fields[column])
}

// Read parses a file whose header must match header, ignoring case and
// surrounding spaces. Reading stops after maxRows data rows; maxRows <= 0 means
// no limit.
//
// Row problems (wrong field count, malformed quoting, too many rows) come back
// as Errors together with the well-formed records read so far, so callers can
// validate those too. A header mismatch returns no records.
func Read(r io.Reader, header []string, maxRows int) ([]Record, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(bom)); err == nil && bytes.Equal(b, bom) {
		_, _ = br.Discard(len(bom))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	got, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, syntaxErrors(err, nil)
	}
	if !headerMatches(got, header) {
		line, _ := cr.FieldPos(0)
		return nil, Errors{{
			Line:    line,
			Message: fmt.Sprintf("header must be %q", strings.Join(header, ",")),
		}}
	}

	var (
		records []Record
		errs    Errors
	)
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if !isSyntaxError(err) {
				return nil, err
			}
			return records, syntaxErrors(err, errs)
		}
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}
		line, _ := cr.FieldPos(0)

		if maxRows > 0 && len(records)+len(errs) >= maxRows {
			errs.Add(line, "", fmt.Sprintf("file exceeds %d rows", maxRows))
			break
		}
		if len(fields) != len(header) {
			errs.Add(line, "", fmt.Sprintf("expected %d fields, got %d", len(header), len(fields)))
			continue
		}

		rec := Record{Line: line, fields: make(map[string]string, len(header))}
		for i, col := range header {
			rec.fields[col] = fields[i]
		}
		records = append(records, rec)
	}

	if len(errs) > 0 {
		return records, errs
	}
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	return records, nil
}

func headerMatches(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if !strings.EqualFold(strings.TrimSpace(got[i]), want[i]) {
			return false
		}
	}
	return true
}

func isSyntaxError(err error) bool {
	var pe *csv.ParseError
	return errors.As(err, &pe)
}

// syntaxErrors adds a quoting error to errs. Errors from the underlying reader
// are returned unchanged.
func syntaxErrors(err error, errs Errors) error {
	var pe *csv.ParseError
	if !errors.As(err, &pe) {
		return err
	}
	errs.Add(pe.StartLine, "", pe.Err.Error())
	return errs
}

// Writer emits CSV rows. A field is quoted when it holds a comma, a quote or a
// line break, when it starts with Unicode whitespace such as a space or tab,
// and when it is exactly \.
type Writer struct {
	cw *csv.Writer
}

// NewWriter writes header to w and returns a Writer for the rows.
func NewWriter(w io.Writer, header []string) (*Writer, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return nil, err
	}
	return &Writer{cw: cw}, nil
}

func (w *Writer) Write(row []string) error {
	return w.cw.Write(row)
}

// Flush writes buffered rows and reports any write error.
func (w *Writer) Flush() error {
	w.cw.Flush()
	return w.cw.Error()
}
