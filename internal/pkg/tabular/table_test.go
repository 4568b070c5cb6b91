package tabular

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ougirez/injuries/internal/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUTF8StripsBOM(t *testing.T) {
	out, enc, err := Decode([]byte("\xEF\xBB\xBFa,b\n"), []string{"utf-8", "cp1252"})
	require.NoError(t, err)
	assert.Equal(t, "utf-8", enc)
	assert.Equal(t, "a,b\n", string(out))
}

func TestDecodeFallsBackToLatin1(t *testing.T) {
	// "Café" in ISO-8859-1, invalid as UTF-8.
	out, enc, err := Decode([]byte{'C', 'a', 'f', 0xE9}, []string{"utf-8", "iso-8859-1"})
	require.NoError(t, err)
	assert.Equal(t, "iso-8859-1", enc)
	assert.Equal(t, "Café", string(out))
}

func TestDecodeFails(t *testing.T) {
	_, _, err := Decode([]byte{0xFF, 0xFE, 0xE9}, []string{"utf-8"})
	assert.ErrorIs(t, err, constants.ErrDecode)
}

func TestReadCSV(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(" a ,b,c\n1,2,3\n4,5\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, tbl.Header)
	assert.Equal(t, [][]string{{"1", "2", "3"}, {"4", "5"}}, tbl.Rows)
	assert.Equal(t, map[string]int{"a": 0, "b": 1, "c": 2}, tbl.Index())
	assert.Equal(t, []string{"d"}, tbl.Missing([]string{"a", "d"}))
}

func TestReadCSVEmpty(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, tbl.Header)
	assert.Empty(t, tbl.Rows)
}

func TestFileSourceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "t.csv")
	want := &Table{Header: []string{"zip_code", "name"}, Rows: [][]string{{"01234", "A, Inc."}}}
	require.NoError(t, WriteCSV(path, want))

	src := FileSource{Path: path, Encodings: []string{"utf-8"}}
	assert.Equal(t, path, src.Name())

	got, err := src.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileSourceMissingFile(t *testing.T) {
	src := FileSource{Path: filepath.Join(t.TempDir(), "nope.csv"), Encodings: []string{"utf-8"}}
	_, err := src.Read(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteReadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v.json")
	in := map[string][]*int{"a": {nil, ptr(2)}}
	require.NoError(t, WriteJSON(path, in))

	var out map[string][]*int
	require.NoError(t, ReadJSON(path, &out))
	require.Len(t, out["a"], 2)
	assert.Nil(t, out["a"][0])
	assert.Equal(t, 2, *out["a"][1])
}

func ptr(v int) *int { return &v }
