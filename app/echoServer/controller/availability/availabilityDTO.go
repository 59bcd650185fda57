package availability

type SearchReq struct {
	CheckInDate  string   `json:"check_in_date" validate:"required"`
	CheckOutDate string   `json:"check_out_date" validate:"required"`
	Adults       int      `json:"adults" validate:"required,gte=1"`
	Children     int      `json:"children" validate:"gte=0"`
	Rooms        int      `json:"rooms" validate:"gte=0"`
	PropertyID   *int64   `json:"property_id" validate:"omitempty,gt=0"`
	City         *string  `json:"city"`
	Country      *string  `json:"country"`
	RoomType     *string  `json:"room_type"`
	Amenities    []string `json:"amenities"`
	MinPrice     *float64 `json:"min_price" validate:"omitempty,gte=0"`
	MaxPrice     *float64 `json:"max_price" validate:"omitempty,gte=0"`
	DemandLevel  string   `json:"demand_level" validate:"omitempty,oneof=low medium high"`
	Season       string   `json:"season" validate:"omitempty,oneof=low_season normal high_season"`
	SortBy       string   `json:"sort_by" validate:"omitempty,oneof=price rating name"`
	SortOrder    string   `json:"sort_order" validate:"omitempty,oneof=asc desc"`
}
