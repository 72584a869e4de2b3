// Package netfile reads the tab-delimited input tables and reads and writes
// the semicolon-delimited NET model text.
package netfile

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	apperrors "github.com/turtacn/netmodel/pkg/errors"
)

// Row is one record of a tab-delimited table with its 1-based line number.
type Row struct {
	Line   int
	Fields []string
}

// ReadTable reads every non-empty record of a tab-delimited table. Quote
// characters are taken literally and trailing carriage returns are dropped.
func ReadTable(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeReadFailed, "failed to read table")
		}
		line, _ := cr.FieldPos(0)
		for i := range rec {
			rec[i] = strings.TrimRight(rec[i], "\r")
		}
		rows = append(rows, Row{Line: line, Fields: rec})
	}
}

// ReadMetaboliteTable reads "name<TAB>id" rows into a name to identifier
// table. A later row for the same name replaces an earlier one.
func ReadMetaboliteTable(r io.Reader) (map[string]string, error) {
	rows, err := ReadTable(r)
	if err != nil {
		return nil, err
	}
	table := make(map[string]string, len(rows))
	for _, row := range rows {
		if len(row.Fields) != 2 {
			return nil, apperrors.Newf(apperrors.ErrCodeIdentifierTable,
				"metabolite table line %d: expected 2 columns, got %d", row.Line, len(row.Fields))
		}
		table[strings.TrimSpace(row.Fields[0])] = strings.TrimSpace(row.Fields[1])
	}
	return table, nil
}

// TableReaction is one row of a reaction table.
type TableReaction struct {
	ID       string
	Equation string
}

// ReadReactionTable reads "id<TAB>equation" rows. Duplicate identifiers keep
// the last equation.
func ReadReactionTable(r io.Reader) ([]TableReaction, error) {
	rows, err := ReadTable(r)
	if err != nil {
		return nil, err
	}
	out := make([]TableReaction, 0, len(rows))
	index := make(map[string]int, len(rows))
	for _, row := range rows {
		if len(row.Fields) != 2 {
			return nil, apperrors.Newf(apperrors.ErrCodeReadFailed,
				"reaction table line %d: expected 2 columns, got %d", row.Line, len(row.Fields))
		}
		rx := TableReaction{ID: row.Fields[0], Equation: strings.TrimSpace(row.Fields[1])}
		if i, ok := index[rx.ID]; ok {
			out[i] = rx
			continue
		}
		index[rx.ID] = len(out)
		out = append(out, rx)
	}
	return out, nil
}

// CompartmentRow is one row of a compartment description table: the original
// tag followed by its property columns.
type CompartmentRow struct {
	Tag     string
	Columns []string
}

// ReadCompartmentTable reads "tag<TAB>pH<TAB>IS<TAB>..." rows.
func ReadCompartmentTable(r io.Reader) ([]CompartmentRow, error) {
	rows, err := ReadTable(r)
	if err != nil {
		return nil, err
	}
	out := make([]CompartmentRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, CompartmentRow{Tag: strings.TrimSpace(row.Fields[0]), Columns: row.Fields[1:]})
	}
	return out, nil
}
