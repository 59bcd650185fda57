package availability

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/sarperhorata/hotel-extranet-sub001/model"
	searchrepo "github.com/sarperhorata/hotel-extranet-sub001/repository/search"
	"github.com/sarperhorata/hotel-extranet-sub001/service/pricing"
)

// errors used by controllers

type ErrCode string

const ErrBadInput ErrCode = "BAD_INPUT"

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return string(e.code)
}
func (e codedError) Code() ErrCode        { return e.code }
func makeErr(c ErrCode, msg string) error { return codedError{code: c, msg: msg} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

const (
	SortByPrice  = "price"
	SortByRating = "rating"
	SortByName   = "name"
	OrderAsc     = "asc"
	OrderDesc    = "desc"
)

type Request struct {
	CheckInDate  time.Time
	CheckOutDate time.Time // exclusive
	Adults       int
	Children     int
	Rooms        int
	Filters      searchrepo.Filters
	MinPrice     *float64 // bound on avg nightly price
	MaxPrice     *float64
	DemandLevel  string
	Season       string
	SortBy       string
	SortOrder    string
}

// Result aggregates one room + rate plan over the whole stay. Ephemeral,
// never persisted.
type Result struct {
	PropertyID        int64     `json:"property_id"`
	PropertyName      string    `json:"property_name"`
	City              string    `json:"city"`
	Country           string    `json:"country"`
	Rating            float64   `json:"rating"`
	RoomID            int64     `json:"room_id"`
	RoomName          string    `json:"room_name"`
	RoomType          string    `json:"room_type"`
	RatePlanID        int64     `json:"rate_plan_id"`
	RatePlanName      string    `json:"rate_plan_name"`
	PlanType          string    `json:"plan_type"`
	Currency          string    `json:"currency"`
	IsDynamic         bool      `json:"is_dynamic"`
	Nights            int       `json:"nights"`
	NightlyPrices     []float64 `json:"nightly_prices"`
	AvgPrice          float64   `json:"avg_price"`
	MinPrice          float64   `json:"min_price"`
	MaxPrice          float64   `json:"max_price"`
	TotalPrice        float64   `json:"total_price"`
	MinAvailableRooms int       `json:"min_available_rooms"`
}

type SearchRepo interface {
	ListCandidates(ctx context.Context, tenantID int64, f searchrepo.Filters, adults, children int) ([]searchrepo.Candidate, error)
}

type InventoryRepo interface {
	ListForStay(ctx context.Context, tenantID, roomID, ratePlanID int64, from, to time.Time) ([]model.InventoryRecord, error)
}

type Service interface {
	Search(ctx context.Context, tenantID int64, req Request) ([]Result, error)
}

type service struct {
	sr SearchRepo
	ir InventoryRepo
}

func New(sr SearchRepo, ir InventoryRepo) Service { return &service{sr: sr, ir: ir} }

func (s *service) Search(ctx context.Context, tenantID int64, req Request) ([]Result, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}
	nights := int(req.CheckOutDate.Sub(req.CheckInDate).Hours() / 24)

	candidates, err := s.sr.ListCandidates(ctx, tenantID, req.Filters, req.Adults, req.Children)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		recs, err := s.ir.ListForStay(ctx, tenantID, c.RoomID, c.RatePlanID, req.CheckInDate, req.CheckOutDate)
		if err != nil {
			return nil, err
		}
		res, ok := judgeStay(&c, recs, nights, &req)
		if !ok {
			continue
		}
		if req.MinPrice != nil && res.AvgPrice < *req.MinPrice {
			continue
		}
		if req.MaxPrice != nil && res.AvgPrice > *req.MaxPrice {
			continue
		}
		results = append(results, *res)
	}

	sortResults(results, req.SortBy, req.SortOrder)
	return results, nil
}

func validate(req *Request) error {
	if req.CheckInDate.IsZero() || req.CheckOutDate.IsZero() {
		return makeErr(ErrBadInput, "check-in and check-out dates required")
	}
	if !req.CheckOutDate.After(req.CheckInDate) {
		return makeErr(ErrBadInput, "check-out must be after check-in")
	}
	if req.Adults < 1 {
		return makeErr(ErrBadInput, "at least one adult required")
	}
	if req.Children < 0 {
		return makeErr(ErrBadInput, "children must be >= 0")
	}
	if req.Rooms == 0 {
		req.Rooms = 1
	}
	if req.Rooms < 1 {
		return makeErr(ErrBadInput, "rooms must be >= 1")
	}
	switch req.SortBy {
	case "":
		req.SortBy = SortByPrice
	case SortByPrice, SortByRating, SortByName:
	default:
		return makeErr(ErrBadInput, "sort_by must be price, rating or name")
	}
	switch req.SortOrder {
	case "":
		req.SortOrder = OrderAsc
	case OrderAsc, OrderDesc:
	default:
		return makeErr(ErrBadInput, "sort_order must be asc or desc")
	}
	return nil
}

// judgeStay excludes a candidate unless every night of the stay is
// satisfiable: present, not stop-sold, enough rooms, no arrival/departure
// closure on the edge nights, min-stay honored. No partial matches.
func judgeStay(c *searchrepo.Candidate, recs []model.InventoryRecord, nights int, req *Request) (*Result, bool) {
	if len(recs) != nights {
		return nil, false
	}

	res := Result{
		PropertyID:   c.PropertyID,
		PropertyName: c.PropertyName,
		City:         c.City,
		Country:      c.Country,
		Rating:       c.Rating,
		RoomID:       c.RoomID,
		RoomName:     c.RoomName,
		RoomType:     c.RoomType,
		RatePlanID:   c.RatePlanID,
		RatePlanName: c.RatePlanName,
		PlanType:     string(c.PlanType),
		Currency:     c.Currency,
		IsDynamic:    c.IsDynamic,
		Nights:       nights,
	}

	var sum float64
	for i := range recs {
		rec := &recs[i]
		if rec.StopSell || rec.AvailableRooms < req.Rooms {
			return nil, false
		}
		if i == 0 && rec.ClosedToArrival {
			return nil, false
		}
		if i == nights-1 && rec.ClosedToDeparture {
			return nil, false
		}
		if rec.MinStay != nil && nights < *rec.MinStay {
			return nil, false
		}

		night := rec.Price
		if c.IsDynamic {
			night = pricing.Calculate(rec.Price, c.DynamicRules, pricing.Signals{
				DemandLevel:   req.DemandLevel,
				Season:        req.Season,
				OccupancyRate: soldRatio(rec),
			}).Price
		}
		sum += night
		res.NightlyPrices = append(res.NightlyPrices, night)

		if i == 0 {
			res.MinPrice, res.MaxPrice = night, night
			res.MinAvailableRooms = rec.AvailableRooms
		} else {
			if night < res.MinPrice {
				res.MinPrice = night
			}
			if night > res.MaxPrice {
				res.MaxPrice = night
			}
			if rec.AvailableRooms < res.MinAvailableRooms {
				res.MinAvailableRooms = rec.AvailableRooms
			}
		}
	}

	res.AvgPrice = pricing.Round2(sum / float64(nights))
	res.TotalPrice = pricing.Round2(sum * float64(req.Rooms))
	return &res, true
}

// soldRatio is the occupancy signal a date derives about itself.
func soldRatio(rec *model.InventoryRecord) float64 {
	if rec.TotalRooms <= 0 {
		return 0
	}
	return float64(rec.TotalRooms-rec.AvailableRooms) / float64(rec.TotalRooms)
}

func sortResults(rs []Result, key, order string) {
	sort.SliceStable(rs, func(i, j int) bool {
		a, b := &rs[i], &rs[j]
		var less, eq bool
		switch key {
		case SortByRating:
			less, eq = a.Rating < b.Rating, a.Rating == b.Rating
		case SortByName:
			less, eq = a.PropertyName < b.PropertyName, a.PropertyName == b.PropertyName
		default:
			less, eq = a.AvgPrice < b.AvgPrice, a.AvgPrice == b.AvgPrice
		}
		if eq {
			// Deterministic tiebreak regardless of direction.
			return a.PropertyName < b.PropertyName
		}
		if order == OrderDesc {
			return !less
		}
		return less
	})
}
