package model

type PlanType string

const (
	PlanStandard  PlanType = "standard"
	PlanMember    PlanType = "member"
	PlanCorporate PlanType = "corporate"
	PlanPromo     PlanType = "promo"
	PlanDynamic   PlanType = "dynamic"
)

type RatePlan struct {
	ID           int64         `json:"id"`
	TenantID     int64         `json:"tenant_id"`
	PropertyID   int64         `json:"property_id"`
	Name         string        `json:"name"`
	PlanType     PlanType      `json:"plan_type"`
	BasePrice    float64       `json:"base_price"`
	Currency     string        `json:"currency"`
	IsDynamic    bool          `json:"is_dynamic"`
	DynamicRules *DynamicRules `json:"dynamic_rules,omitempty"`
	IsActive     bool          `json:"is_active"`
}

// DynamicRules is the pricing rule set of a dynamic rate plan. Every field
// is optional; an absent multiplier means "leave the price alone" (identity),
// never zero.
type DynamicRules struct {
	BaseMultiplier       *float64              `json:"baseMultiplier,omitempty"`
	DemandMultipliers    map[string]float64    `json:"demandMultipliers,omitempty"`
	SeasonMultipliers    map[string]float64    `json:"seasonMultipliers,omitempty"`
	OccupancyMultipliers *OccupancyMultipliers `json:"occupancyMultipliers,omitempty"`
	MinPrice             *float64              `json:"minPrice,omitempty"`
	MaxPrice             *float64              `json:"maxPrice,omitempty"`
}

type OccupancyMultipliers struct {
	LowOccupancy  *float64 `json:"lowOccupancy,omitempty"`
	HighOccupancy *float64 `json:"highOccupancy,omitempty"`
}

// Demand / season tags accepted by the pricing calculator.
const (
	DemandLow    = "low"
	DemandMedium = "medium"
	DemandHigh   = "high"

	SeasonLow    = "low_season"
	SeasonNormal = "normal"
	SeasonHigh   = "high_season"
)
