package tabular

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadCSV_NullsAndBadLines(t *testing.T) {
	input := "text,label,,label\n" +
		"hello,a,x,b\n" +
		",b,y,c\n" +
		"too,many,fields,here,extra\n" +
		"short\n"

	tbl, skipped, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	wantCols := []string{"text", "label", "Unnamed: 2", "label.1"}
	if strings.Join(tbl.Columns, "|") != strings.Join(wantCols, "|") {
		t.Errorf("Columns = %v, want %v", tbl.Columns, wantCols)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if tbl.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tbl.Len())
	}

	if _, ok := tbl.Rows[1].Get("text"); ok {
		t.Error("empty cell loaded as non-null")
	}
	if v, ok := tbl.Rows[2].Get("text"); !ok || v != "short" {
		t.Errorf("short row text = %q, %v", v, ok)
	}
	if _, ok := tbl.Rows[2].Get("label"); ok {
		t.Error("missing cell in short row loaded as non-null")
	}
}

func TestReadCSV_NullMarkers(t *testing.T) {
	input := "text,id\n" +
		"NA,1\n" +
		"null,2\n" +
		"N/A,3\n" +
		"NaN,4\n" +
		"hello,5\n" +
		"na,6\n" +
		" NA,7\n"

	tbl, _, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if tbl.Len() != 7 {
		t.Fatalf("Len() = %d, want 7", tbl.Len())
	}

	for i := 0; i < 4; i++ {
		if v, ok := tbl.Rows[i].Get("text"); ok {
			t.Errorf("row %d: marker loaded as non-null %q", i, v)
		}
	}
	for i, want := range map[int]string{4: "hello", 5: "na", 6: " NA"} {
		if v, ok := tbl.Rows[i].Get("text"); !ok || v != want {
			t.Errorf("row %d text = %q, %v; want %q", i, v, ok, want)
		}
	}
}

func TestIsNullCell(t *testing.T) {
	tests := map[string]bool{
		"":     true,
		"NA":   true,
		"NULL": true,
		"None": true,
		"<NA>": true,
		"#N/A": true,
		"nan":  true,
		"Null": false,
		"none": false,
		"0":    false,
		" ":    false,
	}
	for cell, want := range tests {
		if got := IsNullCell(cell); got != want {
			t.Errorf("IsNullCell(%q) = %v, want %v", cell, got, want)
		}
	}
}

func TestReadCSV_Empty(t *testing.T) {
	if _, _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Error("ReadCSV(empty) error = nil")
	}
}

func TestWriteCSV(t *testing.T) {
	tbl := New("a", "b")
	tbl.Append(Record{"a": "1"})
	tbl.Append(Record{"a": "x,y", "b": "2"})

	var buf bytes.Buffer
	if err := WriteCSV(&buf, tbl); err != nil {
		t.Fatal(err)
	}

	want := "a,b\n1,\n\"x,y\",2\n"
	if buf.String() != want {
		t.Errorf("WriteCSV() = %q, want %q", buf.String(), want)
	}
}

func TestConcat_UnionColumns(t *testing.T) {
	a := New("text", "id")
	a.Append(Record{"text": "one", "id": "1"})
	b := New("text", "source")
	b.Append(Record{"text": "two", "source": "hf"})
	b.Append(Record{"text": "three"})

	out := Concat(a, nil, b)

	if got := strings.Join(out.Columns, ","); got != "text,id,source" {
		t.Errorf("Columns = %s", got)
	}
	if out.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", out.Len())
	}
	if out.Rows[0]["text"] != "one" || out.Rows[2]["text"] != "three" {
		t.Error("row order not preserved")
	}
	if _, ok := out.Rows[0].Get("source"); ok {
		t.Error("absent column not null")
	}
}

func TestAppend_AddsNewColumnsSorted(t *testing.T) {
	tbl := New("a")
	tbl.Append(Record{"a": "1", "z": "2", "m": "3"})

	if got := strings.Join(tbl.Columns, ","); got != "a,m,z" {
		t.Errorf("Columns = %s, want a,m,z", got)
	}
	if tbl.Shape() != "(1, 3)" {
		t.Errorf("Shape() = %s", tbl.Shape())
	}
}

func TestParquet_WriteThenRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.parquet")

	tbl := New("text", "label")
	for i := 0; i < parquetBatchSize+10; i++ {
		tbl.Append(Record{"text": strings.Repeat("x", i%7) + "row", "label": "L"})
	}
	tbl.Append(Record{"text": "no label"})

	if err := WriteParquetFile(path, tbl); err != nil {
		t.Fatalf("WriteParquetFile() error = %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only data.parquet", len(entries))
	}

	got, err := ReadParquetFile(path)
	if err != nil {
		t.Fatalf("ReadParquetFile() error = %v", err)
	}

	if strings.Join(got.Columns, ",") != "label,text" {
		t.Errorf("Columns = %v, want lexical order", got.Columns)
	}
	if got.Len() != tbl.Len() {
		t.Fatalf("Len() = %d, want %d", got.Len(), tbl.Len())
	}

	last := got.Rows[got.Len()-1]
	if last["text"] != "no label" {
		t.Errorf("last text = %q", last["text"])
	}
	if _, ok := last.Get("label"); ok {
		t.Error("null label read back as non-null")
	}

	n, err := CountParquetRows(path)
	if err != nil || n != int64(tbl.Len()) {
		t.Errorf("CountParquetRows() = %d, %v", n, err)
	}
}

func TestWriteParquet_NoColumns(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteParquet(&buf, New()); err == nil {
		t.Error("WriteParquet(no columns) error = nil")
	}
}

func TestXLSX_WriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.xlsx")

	tbl := New("text", "label")
	tbl.Append(Record{"text": "hello", "label": "a"})
	tbl.Append(Record{"text": "world"})

	if err := WriteXLSXFile(path, "sample", tbl); err != nil {
		t.Fatalf("WriteXLSXFile() error = %v", err)
	}

	got, err := ReadXLSXFile(path)
	if err != nil {
		t.Fatalf("ReadXLSXFile() error = %v", err)
	}
	if got.Len() != 2 || got.Rows[1]["text"] != "world" {
		t.Errorf("rows = %+v", got.Rows)
	}
	if _, ok := got.Rows[1].Get("label"); ok {
		t.Error("blank cell read back as non-null")
	}
}
