package inventorysvc

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sarperhorata/hotel-extranet-sub001/model"
	inventoryrepo "github.com/sarperhorata/hotel-extranet-sub001/repository/inventory"
)

// errors used by controllers

type ErrCode string

const (
	ErrBadInput         ErrCode = "BAD_INPUT"
	ErrPropertyNotFound ErrCode = "PROPERTY_NOT_FOUND"
	ErrRoomNotFound     ErrCode = "ROOM_NOT_FOUND"
	ErrRatePlanNotFound ErrCode = "RATE_PLAN_NOT_FOUND"
	ErrRecordNotFound   ErrCode = "RECORD_NOT_FOUND"
)

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

// UpdateFields = repository shape
type UpdateFields = inventoryrepo.UpdateFields

type BulkItem struct {
	RoomID         int64
	RatePlanID     int64
	Date           time.Time
	AvailableRooms *int
	Price          *float64
}

type BulkResult struct {
	RoomID     int64  `json:"room_id"`
	RatePlanID int64  `json:"rate_plan_id"`
	Date       string `json:"date"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
}

type Repo interface {
	ListByDate(ctx context.Context, tenantID, propertyID int64, date time.Time, roomID, ratePlanID *int64) ([]model.InventoryRecord, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, tenantID, recordID int64) (*model.InventoryRecord, error)
	UpdateRecord(ctx context.Context, tx pgx.Tx, recordID int64, f UpdateFields) error
	Begin(ctx context.Context) (pgx.Tx, error)
	UpdateByKey(ctx context.Context, tenantID, propertyID, roomID, ratePlanID int64, date time.Time, availableRooms *int, price *float64) error
	InsertMany(ctx context.Context, recs []model.InventoryRecord) (int64, error)
}

type PropertyRepo interface {
	Exists(ctx context.Context, tenantID, propertyID int64) (bool, error)
	GetRoom(ctx context.Context, tenantID, propertyID, roomID int64) (*model.Room, error)
}

type RatePlanRepo interface {
	GetByID(ctx context.Context, tenantID, ratePlanID int64) (*model.RatePlan, error)
	ListActiveIDs(ctx context.Context, tenantID, propertyID int64) ([]int64, error)
}

type Service interface {
	GetByDate(ctx context.Context, tenantID, propertyID int64, date time.Time, roomID, ratePlanID *int64) ([]model.InventoryRecord, error)
	Update(ctx context.Context, tenantID, recordID int64, f UpdateFields) (*model.InventoryRecord, error)
	BulkUpdate(ctx context.Context, tenantID, propertyID int64, items []BulkItem) ([]BulkResult, error)
	ProvisionRange(ctx context.Context, tenantID, propertyID, roomID int64, ratePlanIDs []int64, start time.Time, days int) (int64, error)
}

type service struct {
	r  Repo
	pr PropertyRepo
	rp RatePlanRepo
}

func New(r Repo, pr PropertyRepo, rp RatePlanRepo) Service {
	return &service{r: r, pr: pr, rp: rp}
}

func (s *service) GetByDate(ctx context.Context, tenantID, propertyID int64, date time.Time, roomID, ratePlanID *int64) ([]model.InventoryRecord, error) {
	ok, err := s.pr.Exists(ctx, tenantID, propertyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErr(ErrPropertyNotFound, "property not found")
	}
	return s.r.ListByDate(ctx, tenantID, propertyID, date, roomID, ratePlanID)
}

// Update applies a partial edit under a row lock so the invariant check sees
// the current counts.
func (s *service) Update(ctx context.Context, tenantID, recordID int64, f UpdateFields) (rec *model.InventoryRecord, err error) {
	if err := validateFields(f, nil); err != nil {
		return nil, err
	}

	tx, err := s.r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	rec, err = s.r.GetForUpdate(ctx, tx, tenantID, recordID)
	if errors.Is(err, inventoryrepo.ErrNotFound) {
		return nil, makeErr(ErrRecordNotFound, "inventory record not found")
	}
	if err != nil {
		return nil, err
	}

	if err = validateFields(f, rec); err != nil {
		return nil, err
	}

	if err = s.r.UpdateRecord(ctx, tx, recordID, f); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	applyFields(rec, f)
	return rec, nil
}

// validateFields rejects (never clamps) values that would break
// 0 <= available_rooms <= total_rooms. The rec-aware half runs once the row
// is locked.
func validateFields(f UpdateFields, rec *model.InventoryRecord) error {
	if f.AvailableRooms != nil && *f.AvailableRooms < 0 {
		return makeErr(ErrBadInput, "available_rooms must be >= 0")
	}
	if f.Price != nil && *f.Price < 0 {
		return makeErr(ErrBadInput, "price must be >= 0")
	}
	if f.MinStay != nil && *f.MinStay < 1 {
		return makeErr(ErrBadInput, "min_stay must be >= 1")
	}
	if rec != nil && f.AvailableRooms != nil && *f.AvailableRooms > rec.TotalRooms {
		return makeErr(ErrBadInput, "available_rooms exceeds total_rooms")
	}
	return nil
}

func applyFields(rec *model.InventoryRecord, f UpdateFields) {
	if f.AvailableRooms != nil {
		rec.AvailableRooms = *f.AvailableRooms
	}
	if f.Price != nil {
		rec.Price = *f.Price
	}
	if f.MinStay != nil {
		rec.MinStay = f.MinStay
	}
	if f.ClosedToArrival != nil {
		rec.ClosedToArrival = *f.ClosedToArrival
	}
	if f.ClosedToDeparture != nil {
		rec.ClosedToDeparture = *f.ClosedToDeparture
	}
	if f.StopSell != nil {
		rec.StopSell = *f.StopSell
	}
}

// BulkUpdate applies each item independently; one bad item never aborts the
// rest. The result list is aligned with the input order.
func (s *service) BulkUpdate(ctx context.Context, tenantID, propertyID int64, items []BulkItem) ([]BulkResult, error) {
	ok, err := s.pr.Exists(ctx, tenantID, propertyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErr(ErrPropertyNotFound, "property not found")
	}

	out := make([]BulkResult, 0, len(items))
	for _, it := range items {
		res := BulkResult{
			RoomID:     it.RoomID,
			RatePlanID: it.RatePlanID,
			Date:       it.Date.Format(model.DateLayout),
		}
		switch {
		case it.AvailableRooms == nil && it.Price == nil:
			res.Error = "nothing to update"
		default:
			err := s.r.UpdateByKey(ctx, tenantID, propertyID, it.RoomID, it.RatePlanID, it.Date, it.AvailableRooms, it.Price)
			switch {
			case err == nil:
				res.OK = true
			case errors.Is(err, inventoryrepo.ErrNotFound):
				res.Error = "inventory record not found"
			case errors.Is(err, inventoryrepo.ErrOutOfRange):
				res.Error = "value outside allowed range"
			default:
				res.Error = "update failed"
			}
		}
		out = append(out, res)
	}
	return out, nil
}

const maxProvisionDays = 365

func (s *service) ProvisionRange(ctx context.Context, tenantID, propertyID, roomID int64, ratePlanIDs []int64, start time.Time, days int) (int64, error) {
	if days < 1 || days > maxProvisionDays {
		return 0, makeErr(ErrBadInput, "days must be between 1 and 365")
	}
	if start.IsZero() {
		return 0, makeErr(ErrBadInput, "start date required")
	}

	room, err := s.pr.GetRoom(ctx, tenantID, propertyID, roomID)
	if err != nil {
		return 0, err
	}
	if room == nil {
		return 0, makeErr(ErrRoomNotFound, "room not found")
	}

	if len(ratePlanIDs) == 0 {
		ratePlanIDs, err = s.rp.ListActiveIDs(ctx, tenantID, propertyID)
		if err != nil {
			return 0, err
		}
		if len(ratePlanIDs) == 0 {
			return 0, makeErr(ErrRatePlanNotFound, "property has no active rate plans")
		}
	}

	recs := make([]model.InventoryRecord, 0, len(ratePlanIDs)*days)
	for _, planID := range ratePlanIDs {
		plan, err := s.rp.GetByID(ctx, tenantID, planID)
		if err != nil {
			return 0, err
		}
		if plan == nil || plan.PropertyID != propertyID {
			return 0, makeErr(ErrRatePlanNotFound, "rate plan not found")
		}
		for d := 0; d < days; d++ {
			recs = append(recs, model.InventoryRecord{
				TenantID:       tenantID,
				PropertyID:     propertyID,
				RoomID:         roomID,
				RatePlanID:     planID,
				Date:           start.AddDate(0, 0, d),
				AvailableRooms: room.TotalUnits,
				TotalRooms:     room.TotalUnits,
				Price:          plan.BasePrice,
				Currency:       plan.Currency,
			})
		}
	}
	return s.r.InsertMany(ctx, recs)
}
