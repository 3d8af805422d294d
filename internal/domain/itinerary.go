package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Itinerary is one planned day of a trip. Items is the ordered list of
// stops for that day; it is stored as a single field so a reorder replaces
// it wholesale.
type Itinerary struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	Date      time.Time
	Items     []ItineraryItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItineraryItem places a point within a day.
// ID is unique within its itinerary and survives reorders as long as the
// caller passes it back. Order is positive but not required to be unique or
// contiguous at rest.
type ItineraryItem struct {
	ID      string    `json:"id"`
	PointID uuid.UUID `json:"pointId"`
	Order   int       `json:"order"`
}

// ItemInput is one entry of a reorder request. An empty ID means the item is
// treated as new and receives a fresh identity.
type ItemInput struct {
	ID      string
	PointID uuid.UUID
	Order   int
}

// NewItemID returns a fresh itinerary-local item identifier.
func NewItemID() string {
	return uuid.NewString()
}

// NextOrder returns max(order)+1, or 1 for an empty day.
func (it Itinerary) NextOrder() int {
	maxOrder := 0
	for _, item := range it.Items {
		if item.Order > maxOrder {
			maxOrder = item.Order
		}
	}
	return maxOrder + 1
}

// Append adds a new item for pointID at NextOrder. The item is appended to
// the end of the stored list, never sorted into place.
func (it *Itinerary) Append(pointID uuid.UUID) ItineraryItem {
	item := ItineraryItem{
		ID:      NewItemID(),
		PointID: pointID,
		Order:   it.NextOrder(),
	}
	it.Items = append(it.Items, item)
	return item
}

// ReplaceItems overwrites the item list with inputs verbatim, assigning a
// fresh ID to any input that lacks one.
func (it *Itinerary) ReplaceItems(inputs []ItemInput) {
	items := make([]ItineraryItem, 0, len(inputs))
	for _, in := range inputs {
		id := in.ID
		if id == "" {
			id = NewItemID()
		}
		items = append(items, ItineraryItem{ID: id, PointID: in.PointID, Order: in.Order})
	}
	it.Items = items
}

// RemovePoint drops every item referencing pointID and reports whether the
// list changed.
func (it *Itinerary) RemovePoint(pointID uuid.UUID) bool {
	return it.filter(func(item ItineraryItem) bool { return item.PointID != pointID })
}

// RemoveItem drops the item with the given id and reports whether it existed.
func (it *Itinerary) RemoveItem(itemID string) bool {
	return it.filter(func(item ItineraryItem) bool { return item.ID != itemID })
}

func (it *Itinerary) filter(keep func(ItineraryItem) bool) bool {
	kept := make([]ItineraryItem, 0, len(it.Items))
	for _, item := range it.Items {
		if keep(item) {
			kept = append(kept, item)
		}
	}
	changed := len(kept) != len(it.Items)
	if changed {
		it.Items = kept
	}
	return changed
}

// ResolvedItem is an itinerary item joined with its point.
// Point is nil when the item references a point that no longer resolves.
type ResolvedItem struct {
	Item  ItineraryItem
	Point *Point
}

// ItineraryView is an itinerary whose items are resolved against the trip's points.
type ItineraryView struct {
	Itinerary Itinerary
	Items     []ResolvedItem
}

// Resolve joins the itinerary's items against points in memory, keeping
// storage order. Dangling items are kept with a nil Point.
func (it Itinerary) Resolve(points map[uuid.UUID]*Point) ItineraryView {
	items := make([]ResolvedItem, 0, len(it.Items))
	for _, item := range it.Items {
		items = append(items, ResolvedItem{Item: item, Point: points[item.PointID]})
	}
	return ItineraryView{Itinerary: it, Items: items}
}

// ByOrder returns the resolved items sorted by Order; ties keep list position.
func (v ItineraryView) ByOrder() []ResolvedItem {
	out := make([]ResolvedItem, len(v.Items))
	copy(out, v.Items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Item.Order < out[j].Item.Order })
	return out
}

// IndexPoints builds the lookup table used by Resolve.
func IndexPoints(points []Point) map[uuid.UUID]*Point {
	idx := make(map[uuid.UUID]*Point, len(points))
	for i := range points {
		idx[points[i].ID] = &points[i]
	}
	return idx
}
