package model

import "time"

type Property struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	Rating    float64   `json:"rating"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Room is a sellable room category, not a physical unit.
type Room struct {
	ID           int64    `json:"id"`
	TenantID     int64    `json:"tenant_id"`
	PropertyID   int64    `json:"property_id"`
	Name         string   `json:"name"`
	RoomType     string   `json:"room_type"`
	MaxAdults    int      `json:"max_adults"`
	MaxOccupancy int      `json:"max_occupancy"`
	TotalUnits   int      `json:"total_units"`
	Amenities    []string `json:"amenities,omitempty"`
	IsActive     bool     `json:"is_active"`
}
