package searchrepo

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sarperhorata/hotel-extranet-sub001/model"
)

// Candidate is one (property, room, rate plan) combination that could host
// the requested party; per-night availability is judged by the service.
type Candidate struct {
	PropertyID   int64
	PropertyName string
	City         string
	Country      string
	Rating       float64
	RoomID       int64
	RoomName     string
	RoomType     string
	MaxAdults    int
	MaxOccupancy int
	RatePlanID   int64
	RatePlanName string
	PlanType     model.PlanType
	Currency     string
	IsDynamic    bool
	DynamicRules *model.DynamicRules
}

type Filters struct {
	PropertyID *int64
	City       *string
	Country    *string
	RoomType   *string
	Amenities  []string
}

type Repo interface {
	ListCandidates(ctx context.Context, tenantID int64, f Filters, adults, children int) ([]Candidate, error)
}

type repo struct{ db *pgxpool.Pool }

func New(db *pgxpool.Pool) Repo { return &repo{db} }

func (r *repo) ListCandidates(ctx context.Context, tenantID int64, f Filters, adults, children int) ([]Candidate, error) {
	const q = `
		SELECT p.id, p.name, p.city, p.country, p.rating,
		       rm.id, rm.name, rm.room_type, rm.max_adults, rm.max_occupancy,
		       rp.id, rp.name, rp.plan_type, rp.currency, rp.is_dynamic, rp.dynamic_rules
		FROM properties p
		JOIN rooms rm      ON rm.property_id = p.id AND rm.tenant_id = p.tenant_id AND rm.is_active
		JOIN rate_plans rp ON rp.property_id = p.id AND rp.tenant_id = p.tenant_id AND rp.is_active
		WHERE p.tenant_id = $1 AND p.is_active
		  AND rm.max_adults >= $2
		  AND rm.max_occupancy >= $3
		  AND ($4::bigint IS NULL OR p.id = $4)
		  AND ($5::text IS NULL OR lower(p.city) = lower($5))
		  AND ($6::text IS NULL OR lower(p.country) = lower($6))
		  AND ($7::text IS NULL OR rm.room_type = $7)
		  AND ($8::text[] IS NULL OR rm.amenities @> $8)
		ORDER BY p.name, rm.id, rp.id`
	var amenities any
	if len(f.Amenities) > 0 {
		amenities = f.Amenities
	}
	rows, err := r.db.Query(ctx, q, tenantID, adults, adults+children,
		f.PropertyID, f.City, f.Country, f.RoomType, amenities)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		var (
			c        Candidate
			rulesRaw []byte
		)
		if err := rows.Scan(
			&c.PropertyID, &c.PropertyName, &c.City, &c.Country, &c.Rating,
			&c.RoomID, &c.RoomName, &c.RoomType, &c.MaxAdults, &c.MaxOccupancy,
			&c.RatePlanID, &c.RatePlanName, &c.PlanType, &c.Currency, &c.IsDynamic, &rulesRaw,
		); err != nil {
			return nil, err
		}
		if len(rulesRaw) > 0 {
			var rules model.DynamicRules
			if err := json.Unmarshal(rulesRaw, &rules); err != nil {
				return nil, err
			}
			c.DynamicRules = &rules
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
