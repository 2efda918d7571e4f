package sheetimport

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row represents a parsed sheet row with its data and line number
type Row struct {
	LineNumber int
	Data       map[string]string
	index      headerIndex
}

// Get returns the value for a column by raw header name
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// Field returns the value of a logical field using the alias table
func (r *Row) Field(f Field) string {
	if r.index == nil {
		r.index = newHeaderIndex(keys(r.Data))
	}
	return r.index.lookup(r.Data, f)
}

// Number returns a logical field parsed with SafeParse
func (r *Row) Number(f Field) *float64 {
	return SafeParse(r.Field(f))
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// NewRow builds a row from raw header/value pairs
func NewRow(lineNumber int, data map[string]string) *Row {
	return &Row{LineNumber: lineNumber, Data: data}
}

// Sheet is the decoded content of a workbook's first sheet
type Sheet struct {
	Name    string
	Headers []string
	Rows    []*Row
}

// Reader decodes distributor workbooks
type Reader struct {
	maxRows int
}

// ReaderOption is a functional option for Reader configuration
type ReaderOption func(*Reader)

// WithMaxRows rejects sheets with more than n data rows (0 means unlimited)
func WithMaxRows(n int) ReaderOption {
	return func(r *Reader) {
		r.maxRows = n
	}
}

// NewReader creates a new workbook reader
func NewReader(opts ...ReaderOption) *Reader {
	r := &Reader{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read parses the first sheet of the workbook in src. The first row is the
// header; blank rows are skipped. A workbook that cannot be opened or has no
// data rows yields ErrEmptyOrInvalidFormat. More data rows than the configured
// maximum yields ErrTooManyRows; the sheet is never truncated.
func (r *Reader) Read(src io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmptyOrInvalidFormat, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyOrInvalidFormat
	}
	name := sheets[0]

	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmptyOrInvalidFormat, err)
	}
	if len(raw) < 2 {
		return nil, ErrEmptyOrInvalidFormat
	}

	headers := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		headers[i] = strings.TrimSpace(h)
	}
	idx := newHeaderIndex(headers)

	sheet := &Sheet{Name: name, Headers: headers}
	for i, cells := range raw[1:] {
		row := &Row{
			LineNumber: i + 2,
			Data:       make(map[string]string, len(headers)),
			index:      idx,
		}
		for col, header := range headers {
			if header == "" {
				continue
			}
			if col < len(cells) {
				row.Data[header] = strings.TrimSpace(cells[col])
			} else {
				row.Data[header] = ""
			}
		}
		if row.IsEmpty() {
			continue
		}
		if r.maxRows > 0 && len(sheet.Rows) >= r.maxRows {
			return nil, fmt.Errorf("%w: limite de %d linhas, excedido na linha %d",
				ErrTooManyRows, r.maxRows, row.LineNumber)
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	if len(sheet.Rows) == 0 {
		return nil, ErrEmptyOrInvalidFormat
	}
	return sheet, nil
}

// CellPeriod normalizes a period cell. Date-typed cells arrive as Excel
// serial numbers and are converted to MM/YYYY; text is returned trimmed.
func CellPeriod(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.ContainsAny(value, "/-") {
		return value
	}
	serial := SafeParse(value)
	if serial == nil || *serial < 1 {
		return value
	}
	t, err := excelize.ExcelDateToTime(*serial, false)
	if err != nil {
		return value
	}
	return fmt.Sprintf("%02d/%04d", int(t.Month()), t.Year())
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
