package tabular

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ougirez/injuries/internal/pkg/constants"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Table is a decoded CSV: a header and string rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// Index maps every header name to its column position. The first occurrence wins.
func (t *Table) Index() map[string]int {
	idx := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		if _, ok := idx[h]; !ok {
			idx[h] = i
		}
	}
	return idx
}

// Missing returns the names from required that the header does not contain.
func (t *Table) Missing(required []string) []string {
	idx := t.Index()
	var missing []string
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts data to UTF-8 trying the encodings in order and returns the one that worked.
func Decode(data []byte, encodings []string) ([]byte, string, error) {
	for _, name := range encodings {
		switch strings.ToLower(name) {
		case "utf-8", "utf8":
			if utf8.Valid(data) {
				return bytes.TrimPrefix(data, utf8BOM), name, nil
			}
		case "iso-8859-1", "latin1":
			if out, err := decodeWith(charmap.ISO8859_1, data); err == nil {
				return out, name, nil
			}
		case "cp1252", "windows-1252":
			if out, err := decodeWith(charmap.Windows1252, data); err == nil {
				return out, name, nil
			}
		}
	}
	return nil, "", fmt.Errorf("tried %s: %w", strings.Join(encodings, ", "), constants.ErrDecode)
}

func decodeWith(enc encoding.Encoding, data []byte) ([]byte, error) {
	return enc.NewDecoder().Bytes(data)
}

// ReadCSV parses UTF-8 CSV text whose first record is the header.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	return &Table{Header: header, Rows: rows}, nil
}

// FileSource is a CSV file on disk read with encoding fallback.
type FileSource struct {
	Path      string
	Encodings []string
}

func (s FileSource) Name() string {
	return s.Path
}

func (s FileSource) Read(ctx context.Context) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	decoded, _, err := Decode(data, s.Encodings)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.Path, err)
	}

	return ReadCSV(bytes.NewReader(decoded))
}
