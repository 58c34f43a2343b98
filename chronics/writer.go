package chronics

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-gota/gota/dataframe"
)

// floatPrecision is the number of decimals chronic values are written with.
const floatPrecision = 1

// WriteOptions controls serialization of a chronic table.
type WriteOptions struct {
	// Shift moves every value up one row, zero-filling the vacated final
	// row, before writing.
	Shift bool

	// Index includes the timestamp column in the output. The grid simulator
	// input format omits it.
	Index bool
}

// WriteCSV serializes the table: rows sorted ascending by timestamp, site
// columns in natural order, the final row dropped, values at fixed precision,
// fields separated by ';'.
func (t Table) WriteCSV(w io.Writer, opts WriteOptions) error {
	df := t.dataframe().Arrange(dataframe.Sort("datetime"))
	if df.Err != nil {
		return fmt.Errorf("arrange table: %w", df.Err)
	}

	// drop the final row: the horizon is inclusive of its end point but the
	// simulator consumes half-open intervals
	if n := df.Nrow(); n > 1 {
		keep := make([]int, n-1)
		for i := range keep {
			keep[i] = i
		}
		df = df.Subset(keep)
		if df.Err != nil {
			return fmt.Errorf("drop final row: %w", df.Err)
		}
	}

	stamps := df.Col("datetime").Records()
	names := df.Names()[1:]
	columns := make([][]float64, len(names))
	for j, name := range names {
		columns[j] = df.Col(name).Float()
	}

	if opts.Shift {
		for _, col := range columns {
			copy(col, col[1:])
			col[len(col)-1] = 0
		}
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	header := make([]string, 0, len(names)+1)
	if opts.Index {
		header = append(header, "datetime")
	}
	header = append(header, names...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, 0, len(names)+1)
	for i := range stamps {
		record = record[:0]
		if opts.Index {
			record = append(record, stamps[i])
		}
		for j := range columns {
			record = append(record, strconv.FormatFloat(columns[j][i], 'f', floatPrecision, 64))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the table to the given path, creating the file.
func (t Table) WriteFile(path string, opts WriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chronic file: %w", err)
	}
	defer f.Close()

	if err := t.WriteCSV(f, opts); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
