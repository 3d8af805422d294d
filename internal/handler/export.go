package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"day", "order", "point_name", "category", "address", "city",
	"latitude", "longitude", "visited",
}

// ExportRow is one row of the JSON export.
type ExportRow struct {
	Day       *openapi_types.Date `json:"day"`
	Order     *int                `json:"order"`
	PointName string              `json:"pointName"`
	Category  string              `json:"category"`
	Address   string              `json:"address"`
	City      string              `json:"city"`
	Latitude  float64             `json:"latitude"`
	Longitude float64             `json:"longitude"`
	Visited   bool                `json:"visited"`
}

// CategorySummary is one entry of GET /trips/{tripId}/categories.
type CategorySummary struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Color   string `json:"color"`
	Count   int    `json:"count"`
	Visited int    `json:"visited"`
}

// GetExport handles GET /trips/{tripId}/export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "tripId")
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format != "" && format != "csv" && format != "json" {
		requestError(w, "format must be csv or json")
		return
	}

	rows, err := s.export.Export(r.Context(), ids[0])
	if err != nil {
		s.serviceError(w, r, "trip", err)
		return
	}

	if format == "csv" {
		writeCSV(w, ids[0].String(), rows)
		return
	}
	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, exportRowToResponse(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetCategories handles GET /trips/{tripId}/categories.
func (s *Server) GetCategories(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathUUIDs(w, r, "tripId")
	if !ok {
		return
	}

	sums, err := s.categories.Summary(r.Context(), ids[0])
	if err != nil {
		s.serviceError(w, r, "trip", err)
		return
	}
	out := make([]CategorySummary, 0, len(sums))
	for _, c := range sums {
		out = append(out, CategorySummary{Key: c.Key, Label: c.Label, Color: c.Color, Count: c.Count, Visited: c.Visited})
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes rows as an attachment. Unscheduled rows leave day and
// order empty.
func writeCSV(w http.ResponseWriter, name string, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write(exportRowToCSVRecord(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trip-`+name+`.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func exportRowToResponse(r domain.ExportRow) ExportRow {
	out := ExportRow{
		PointName: r.PointName,
		Category:  r.Category,
		Address:   r.Address,
		City:      r.City,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Visited:   r.Visited,
	}
	if r.Day != nil {
		out.Day = &openapi_types.Date{Time: *r.Day}
		order := r.Order
		out.Order = &order
	}
	return out
}

func exportRowToCSVRecord(r domain.ExportRow) []string {
	day, order := "", ""
	if r.Day != nil {
		day = r.Day.Format(time.DateOnly)
		order = strconv.Itoa(r.Order)
	}
	return []string{
		day,
		order,
		r.PointName,
		r.Category,
		r.Address,
		r.City,
		strconv.FormatFloat(r.Latitude, 'f', -1, 64),
		strconv.FormatFloat(r.Longitude, 'f', -1, 64),
		strconv.FormatBool(r.Visited),
	}
}
