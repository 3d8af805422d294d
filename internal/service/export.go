package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ExportService flattens a trip into rows for CSV/JSON download.
type ExportService struct {
	trips *TripService
}

// NewExportService constructs an ExportService on top of the trip aggregator.
func NewExportService(trips *TripService) *ExportService {
	return &ExportService{trips: trips}
}

// Export returns one row per itinerary item, days in date order and items
// by order value, followed by one row per point not scheduled on any day.
// Items whose point is gone produce a row with empty point fields.
func (s *ExportService) Export(ctx context.Context, tripID uuid.UUID) ([]domain.ExportRow, error) {
	view, err := s.trips.View(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := []domain.ExportRow{}
	scheduled := map[uuid.UUID]bool{}
	for _, it := range view.Itineraries {
		day := it.Itinerary.Date
		for _, ri := range it.ByOrder() {
			row := domain.ExportRow{Day: &day, Order: ri.Item.Order}
			if ri.Point != nil {
				fillPoint(&row, *ri.Point)
				scheduled[ri.Point.ID] = true
			}
			rows = append(rows, row)
		}
	}

	for _, p := range view.Points {
		if scheduled[p.ID] {
			continue
		}
		var row domain.ExportRow
		fillPoint(&row, p)
		rows = append(rows, row)
	}
	return rows, nil
}

func fillPoint(row *domain.ExportRow, p domain.Point) {
	row.PointName = p.Name
	row.Category = deref(p.Category)
	row.Address = deref(p.Address)
	row.City = deref(p.City)
	row.Latitude = p.Latitude
	row.Longitude = p.Longitude
	row.Visited = p.Visited
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
