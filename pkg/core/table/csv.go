package table

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV serializes the table as UTF-8 comma-separated text. The time index
// is emitted as its own leading "Date" column in ISO form; a "Company" column
// follows when any row is tagged; line-item columns keep their declared order.
// Nil values are emitted as empty cells.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	var fields []string
	var rows []Row
	if t != nil {
		fields = t.Fields
		rows = t.Rows
	}

	withCompany := t.tagged()
	header := []string{"Date"}
	if withCompany {
		header = append(header, "Company")
	}
	header = append(header, fields...)
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, 0, len(header))
	for _, r := range rows {
		record = record[:0]
		record = append(record, r.End.Format("2006-01-02"))
		if withCompany {
			record = append(record, r.Company)
		}
		for _, f := range fields {
			record = append(record, formatCell(r.Values[f]))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// CSV returns the table serialized as CSV bytes.
func (t *Table) CSV() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
