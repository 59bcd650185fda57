package pricing

import "github.com/sarperhorata/hotel-extranet-sub001/model"

type QuoteReq struct {
	BasePrice     float64             `json:"base_price" validate:"gte=0"`
	DynamicRules  *model.DynamicRules `json:"dynamic_rules"`
	DemandLevel   string              `json:"demand_level" validate:"omitempty,oneof=low medium high"`
	Season        string              `json:"season" validate:"omitempty,oneof=low_season normal high_season"`
	OccupancyRate *float64            `json:"occupancy_rate"`
}
