package ingest

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/brandlens/brandlens/internal/errs"
	"github.com/brandlens/brandlens/internal/model"
)

// FromXLSX reads the first sheet of a spreadsheet export. The sheet follows
// the same column contract as the CSV layout, so rows are re-serialized and
// fed through the CSV path.
func FromXLSX(path string) ([]model.CreatorRecord, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	if len(f.Sheets) == 0 {
		return nil, errs.Validationf("xlsx: no sheets")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = cell.String()
		}
		if err := w.Write(cells); err != nil {
			return nil, eris.Wrap(err, "xlsx: buffer row")
		}
	}
	w.Flush()

	return FromCSV(&buf)
}

// FromFile dispatches on the file extension. Unsupported extensions are a
// ValidationError.
func FromFile(path string) ([]model.CreatorRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: open %s", path)
		}
		defer f.Close()
		return FromCSV(f)
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: open %s", path)
		}
		defer f.Close()
		return FromJSON(f)
	case ".xlsx":
		return FromXLSX(path)
	default:
		return nil, errs.Validationf("ingest: unsupported file type %s", filepath.Ext(path))
	}
}
