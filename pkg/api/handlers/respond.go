// Package handlers implements the HTTP handlers for statements, ratio
// sheets, rankings, and health assessments.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"finhealth/pkg/core/table"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

func respondCSV(w http.ResponseWriter, t *table.Table, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	t.WriteCSV(w)
}

// tableView is the JSON shape of a table: the column list plus one object
// per period row. Missing values serialize as null.
type tableView struct {
	Fields []string  `json:"fields"`
	Rows   []rowView `json:"rows"`
}

type rowView struct {
	Date    string              `json:"date"`
	Company string              `json:"company,omitempty"`
	Values  map[string]*float64 `json:"values"`
}

func viewOf(t *table.Table) tableView {
	if t == nil {
		return tableView{Fields: []string{}, Rows: []rowView{}}
	}
	v := tableView{Fields: t.Fields, Rows: make([]rowView, 0, t.Len())}
	for _, r := range t.Rows {
		v.Rows = append(v.Rows, rowView{
			Date:    r.End.Format("2006-01-02"),
			Company: r.Company,
			Values:  r.Values,
		})
	}
	return v
}

// respondTable writes a table as JSON, or as a CSV download when the request
// asks for format=csv.
func respondTable(w http.ResponseWriter, r *http.Request, t *table.Table, csvName string) {
	if r.URL.Query().Get("format") == "csv" {
		respondCSV(w, t, csvName)
		return
	}
	respondJSON(w, http.StatusOK, viewOf(t))
}
