package booking

type CreateBookingReq struct {
	PropertyID      int64   `json:"property_id" validate:"required,gt=0"`
	RoomID          int64   `json:"room_id" validate:"required,gt=0"`
	RatePlanID      int64   `json:"rate_plan_id" validate:"required,gt=0"`
	GuestName       string  `json:"guest_name" validate:"required"`
	GuestEmail      string  `json:"guest_email" validate:"required,email"`
	CheckInDate     string  `json:"check_in_date" validate:"required"`
	CheckOutDate    string  `json:"check_out_date" validate:"required"`
	Adults          int     `json:"adults" validate:"required,gte=1"`
	Children        int     `json:"children" validate:"gte=0"`
	Rooms           int     `json:"rooms" validate:"gte=0"`
	SpecialRequests *string `json:"special_requests"`
	PaymentMethod   string  `json:"payment_method" validate:"omitempty,oneof=property_collect virtual_card"`
	DemandLevel     string  `json:"demand_level" validate:"omitempty,oneof=low medium high"`
	Season          string  `json:"season" validate:"omitempty,oneof=low_season normal high_season"`
}
