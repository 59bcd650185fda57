// Package pricing computes adjusted nightly prices for dynamic rate plans.
// The chain is fixed: base -> demand -> season -> occupancy -> clamp -> round.
// Absent multipliers are identity, never zero.
package pricing

import (
	"math"

	"github.com/sarperhorata/hotel-extranet-sub001/model"
)

type Signals struct {
	DemandLevel   string  // low | medium | high
	Season        string  // low_season | normal | high_season
	OccupancyRate float64 // conventionally in [0,1]; passed through unvalidated
}

// DefaultSignals is what callers get when they supply nothing.
func DefaultSignals() Signals {
	return Signals{
		DemandLevel:   model.DemandMedium,
		Season:        model.SeasonNormal,
		OccupancyRate: 0.5,
	}
}

// Applied echoes the multipliers that actually changed the price, for
// auditability. Clamp bounds appear only when they bit.
type Applied struct {
	BaseMultiplier      *float64 `json:"baseMultiplier,omitempty"`
	DemandMultiplier    *float64 `json:"demandMultiplier,omitempty"`
	SeasonMultiplier    *float64 `json:"seasonMultiplier,omitempty"`
	OccupancyMultiplier *float64 `json:"occupancyMultiplier,omitempty"`
	MinPrice            *float64 `json:"minPrice,omitempty"`
	MaxPrice            *float64 `json:"maxPrice,omitempty"`
}

type Quote struct {
	Price   float64 `json:"price"`
	Applied Applied `json:"applied"`
}

// Calculate is pure: identical inputs yield identical quotes. Callers must
// branch on RatePlan.IsDynamic upstream; a nil rule set only rounds.
func Calculate(basePrice float64, rules *model.DynamicRules, sig Signals) Quote {
	if sig.DemandLevel == "" {
		sig.DemandLevel = model.DemandMedium
	}
	if sig.Season == "" {
		sig.Season = model.SeasonNormal
	}

	price := basePrice
	var applied Applied

	if rules != nil {
		if rules.BaseMultiplier != nil {
			price *= *rules.BaseMultiplier
			applied.BaseMultiplier = rules.BaseMultiplier
		}
		if m, ok := rules.DemandMultipliers[sig.DemandLevel]; ok {
			price *= m
			applied.DemandMultiplier = &m
		}
		if m, ok := rules.SeasonMultipliers[sig.Season]; ok {
			price *= m
			applied.SeasonMultiplier = &m
		}
		if om := rules.OccupancyMultipliers; om != nil {
			// Mutually exclusive bands; no adjustment between 0.3 and 0.8.
			switch {
			case sig.OccupancyRate < 0.3 && om.LowOccupancy != nil:
				price *= *om.LowOccupancy
				applied.OccupancyMultiplier = om.LowOccupancy
			case sig.OccupancyRate > 0.8 && om.HighOccupancy != nil:
				price *= *om.HighOccupancy
				applied.OccupancyMultiplier = om.HighOccupancy
			}
		}
		if rules.MinPrice != nil && price < *rules.MinPrice {
			price = *rules.MinPrice
			applied.MinPrice = rules.MinPrice
		}
		if rules.MaxPrice != nil && price > *rules.MaxPrice {
			price = *rules.MaxPrice
			applied.MaxPrice = rules.MaxPrice
		}
	}

	return Quote{Price: Round2(price), Applied: applied}
}

// Round2 rounds to two decimals, half up.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
