package mitrisk

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Risk is one record from the MIT AI Risk Repository database.
type Risk struct {
	ID          string
	Risk        string
	Domain      string
	Subdomain   string
	Entity      string
	Intent      string
	Timing      string
	SourceTitle string
	Authors     string
	Year        string
	Quote       string
	PageNumber  string
}

// ParseCSV decodes risk records from the sheet's CSV export. Columns are
// located by header name; unknown columns are ignored and missing ones
// yield empty fields.
func ParseCSV(r io.Reader) ([]Risk, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var risks []Risk
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		risks = append(risks, Risk{
			ID:          field(row, "ID"),
			Risk:        field(row, "Risk"),
			Domain:      field(row, "Domain"),
			Subdomain:   field(row, "Subdomain"),
			Entity:      field(row, "Entity"),
			Intent:      field(row, "Intent"),
			Timing:      field(row, "Timing"),
			SourceTitle: field(row, "Source Title"),
			Authors:     field(row, "Authors"),
			Year:        field(row, "Year"),
			Quote:       field(row, "Quote"),
			PageNumber:  field(row, "Page Number"),
		})
	}
	return risks, nil
}
