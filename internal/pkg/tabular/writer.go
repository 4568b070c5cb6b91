package tabular

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
)

func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll: %w", err)
	}
	return os.Create(path)
}

// WriteCSV writes the table header and rows to path, creating parent directories.
func WriteCSV(path string, t *Table) (err error) {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := f.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()

	w := csv.NewWriter(f)
	if err = w.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err = w.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// WriteJSON encodes v as indented JSON to path.
func WriteJSON(path string, v interface{}) (err error) {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := f.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()

	data, err := sonic.ConfigStd.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("sonic.MarshalIndent: %w", err)
	}

	bw := bufio.NewWriter(f)
	if _, err = bw.Write(data); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadJSON decodes a JSON file written by WriteJSON.
func ReadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("os.ReadFile: %w", err)
	}
	if err := sonic.ConfigStd.Unmarshal(data, v); err != nil {
		return fmt.Errorf("sonic.Unmarshal: %w", err)
	}
	return nil
}
