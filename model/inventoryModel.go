package model

import "time"

// DateLayout is the wire and storage format for calendar dates. Inventory
// dates carry no time-of-day component; they are UTC midnights.
const DateLayout = "2006-01-02"

// InventoryRecord is the sellable capacity of one room type under one rate
// plan on one calendar date. Unique per
// (tenant_id, property_id, room_id, rate_plan_id, date).
type InventoryRecord struct {
	ID                int64          `json:"id"`
	TenantID          int64          `json:"tenant_id"`
	PropertyID        int64          `json:"property_id"`
	RoomID            int64          `json:"room_id"`
	RatePlanID        int64          `json:"rate_plan_id"`
	Date              time.Time      `json:"date"`
	AvailableRooms    int            `json:"available_rooms"`
	TotalRooms        int            `json:"total_rooms"`
	Price             float64        `json:"price"`
	Currency          string         `json:"currency"`
	MinStay           *int           `json:"min_stay,omitempty"`
	ClosedToArrival   bool           `json:"closed_to_arrival"`
	ClosedToDeparture bool           `json:"closed_to_departure"`
	StopSell          bool           `json:"stop_sell"`
	Restrictions      map[string]any `json:"restrictions,omitempty"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// EffectiveAvailability is zero when the date is stop-sold, regardless of
// the stored count.
func (r *InventoryRecord) EffectiveAvailability() int {
	if r.StopSell {
		return 0
	}
	return r.AvailableRooms
}
