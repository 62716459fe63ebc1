package feed

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var (
	// ErrEmptyFile is returned when a feed file has no content
	ErrEmptyFile = errors.New("feed file is empty")

	// ErrInvalidEncoding is returned when a feed file is not UTF-8
	ErrInvalidEncoding = errors.New("feed file is not valid UTF-8")

	// ErrMissingHeader is returned when a feed file has no header row
	ErrMissingHeader = errors.New("feed file missing header row")
)

// Parser reads a CSV feed whose first row names the columns
type Parser struct {
	reader  *csv.Reader
	headers map[string]int
	line    int
}

// Row is one data row keyed by header name
type Row struct {
	Line int
	Data map[string]string
}

// Get returns the trimmed value of column, empty when absent
func (r *Row) Get(column string) string {
	return r.Data[column]
}

func (r *Row) isEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// NewParser strips a UTF-8 BOM, checks the encoding and reads the header row
func NewParser(r io.Reader) (*Parser, error) {
	buf := bufio.NewReader(r)

	bom, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}
	if len(bom) == 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	head, err := buf.Peek(4096)
	if err != nil && err != io.EOF && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(trimPartialRune(head)) {
		return nil, ErrInvalidEncoding
	}

	reader := csv.NewReader(buf)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	p := &Parser{reader: reader, headers: make(map[string]int)}
	record, err := reader.Read()
	if err == io.EOF {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, h := range record {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			p.headers[h] = i
		}
	}
	if len(p.headers) == 0 {
		return nil, ErrMissingHeader
	}
	p.line = 1
	return p, nil
}

// trimPartialRune drops an incomplete rune cut off by the peek window
func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax-1 && len(b) > 0; i++ {
		if r, _ := utf8.DecodeLastRune(b); r != utf8.RuneError {
			return b
		}
		b = b[:len(b)-1]
	}
	return b
}

// MissingHeaders returns the required columns absent from the header row
func (p *Parser) MissingHeaders(required ...string) []string {
	var missing []string
	for _, h := range required {
		if _, ok := p.headers[h]; !ok {
			missing = append(missing, h)
		}
	}
	return missing
}

// ReadRow returns the next row or io.EOF
func (p *Parser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	p.line++
	if err != nil {
		return nil, fmt.Errorf("error reading line %d: %w", p.line, err)
	}

	row := &Row{Line: p.line, Data: make(map[string]string, len(p.headers))}
	for header, i := range p.headers {
		if i < len(record) {
			row.Data[header] = strings.TrimSpace(record[i])
		} else {
			row.Data[header] = ""
		}
	}
	return row, nil
}

// ReadAll returns every remaining non-empty row
func (p *Parser) ReadAll() ([]*Row, error) {
	var rows []*Row
	for {
		row, err := p.ReadRow()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		if !row.isEmpty() {
			rows = append(rows, row)
		}
	}
}
