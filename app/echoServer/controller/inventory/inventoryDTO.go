package inventory

type UpdateRecordReq struct {
	AvailableRooms    *int     `json:"available_rooms" validate:"omitempty,gte=0"`
	Price             *float64 `json:"price" validate:"omitempty,gte=0"`
	MinStay           *int     `json:"min_stay" validate:"omitempty,gte=1"`
	ClosedToArrival   *bool    `json:"closed_to_arrival"`
	ClosedToDeparture *bool    `json:"closed_to_departure"`
	StopSell          *bool    `json:"stop_sell"`
}

type BulkItemReq struct {
	RoomID         int64    `json:"room_id" validate:"required,gt=0"`
	RatePlanID     int64    `json:"rate_plan_id" validate:"required,gt=0"`
	Date           string   `json:"date" validate:"required"`
	AvailableRooms *int     `json:"available_rooms"`
	Price          *float64 `json:"price"`
}

type BulkUpdateReq struct {
	Updates []BulkItemReq `json:"updates" validate:"required,min=1,max=500,dive"`
}

type ProvisionReq struct {
	RoomID      int64   `json:"room_id" validate:"required,gt=0"`
	RatePlanIDs []int64 `json:"rate_plan_ids"`
	StartDate   string  `json:"start_date" validate:"required"`
	Days        int     `json:"days" validate:"required,gte=1,lte=365"`
}
