package domain

import "time"

// ExportRow is a single row in a trip export.
// It is a flat, denormalized view: one row per itinerary item, followed by
// one row per point that is not scheduled on any day. Unscheduled rows leave
// Day and Order empty.
type ExportRow struct {
	// Day fields: nil/zero for unscheduled points.
	Day   *time.Time
	Order int

	// Point fields: empty when the item references a deleted point.
	PointName string
	Category  string
	Address   string
	City      string
	Latitude  float64
	Longitude float64
	Visited   bool
}
