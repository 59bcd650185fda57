package bookingsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sarperhorata/hotel-extranet-sub001/model"
	bookingrepo "github.com/sarperhorata/hotel-extranet-sub001/repository/booking"
	vccrepo "github.com/sarperhorata/hotel-extranet-sub001/repository/vcc"
	"github.com/sarperhorata/hotel-extranet-sub001/service/pricing"
)

// errors used by controllers

type ErrCode string

const (
	ErrBadInput         ErrCode = "BAD_INPUT"
	ErrRoomNotFound     ErrCode = "ROOM_NOT_FOUND"
	ErrRatePlanNotFound ErrCode = "RATE_PLAN_NOT_FOUND"
	ErrBookingNotFound  ErrCode = "BOOKING_NOT_FOUND"
	ErrNoAvailability   ErrCode = "NO_AVAILABILITY"
	ErrNotConfirmed     ErrCode = "NOT_CONFIRMED"
	ErrCommitFailed     ErrCode = "BOOKING_COMMIT_FAILED"
)

type codedError struct {
	code  ErrCode
	msg   string
	cause error
}

func (e codedError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return string(e.code)
}
func (e codedError) Code() ErrCode { return e.code }
func (e codedError) Unwrap() error { return e.cause }

func makeErr(c ErrCode, msg string) error { return codedError{code: c, msg: msg} }
func wrapErr(c ErrCode, cause error) error {
	return codedError{code: c, msg: fmt.Sprintf("%s: %v", c, cause), cause: cause}
}

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type CreateInput struct {
	PropertyID      int64
	RoomID          int64
	RatePlanID      int64
	GuestName       string
	GuestEmail      string
	CheckInDate     time.Time
	CheckOutDate    time.Time // exclusive
	Adults          int
	Children        int
	Rooms           int
	SpecialRequests *string
	PaymentMethod   model.PaymentMethod
	DemandLevel     string
	Season          string
}

type Repo interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, tenantID, id int64) (*model.Booking, error)
	ListByProperty(ctx context.Context, tenantID, propertyID int64, limit, offset int) ([]model.Booking, error)
	Cancel(ctx context.Context, tenantID, id int64, restockFrom time.Time) error
}

type PropertyRepo interface {
	GetRoom(ctx context.Context, tenantID, propertyID, roomID int64) (*model.Room, error)
}

type RatePlanRepo interface {
	GetByID(ctx context.Context, tenantID, ratePlanID int64) (*model.RatePlan, error)
}

type InventoryRepo interface {
	ListForStay(ctx context.Context, tenantID, roomID, ratePlanID int64, from, to time.Time) ([]model.InventoryRecord, error)
}

type Service interface {
	// Create validates the stay, recomputes prices server-side and commits
	// booking + inventory decrement atomically.
	Create(ctx context.Context, tenantID int64, in CreateInput) (*model.Booking, error)

	// Cancel flips status and restores inventory for not-yet-elapsed nights.
	Cancel(ctx context.Context, tenantID, bookingID int64) error

	Get(ctx context.Context, tenantID, bookingID int64) (*model.Booking, error)
	ListByProperty(ctx context.Context, tenantID, propertyID int64, limit, offset int) ([]model.Booking, error)
}

type service struct {
	r   Repo
	pr  PropertyRepo
	rp  RatePlanRepo
	ir  InventoryRepo
	vcc vccrepo.Repo // nil when no issuer is configured
	now func() time.Time
}

func New(r Repo, pr PropertyRepo, rp RatePlanRepo, ir InventoryRepo, vcc vccrepo.Repo) Service {
	return &service{r: r, pr: pr, rp: rp, ir: ir, vcc: vcc, now: time.Now}
}

func (s *service) Create(ctx context.Context, tenantID int64, in CreateInput) (*model.Booking, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	room, err := s.pr.GetRoom(ctx, tenantID, in.PropertyID, in.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, makeErr(ErrRoomNotFound, "room not found")
	}
	if in.Adults > room.MaxAdults || in.Adults+in.Children > room.MaxOccupancy {
		return nil, makeErr(ErrBadInput, "party exceeds room capacity")
	}

	plan, err := s.rp.GetByID(ctx, tenantID, in.RatePlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil || plan.PropertyID != in.PropertyID {
		return nil, makeErr(ErrRatePlanNotFound, "rate plan not found")
	}

	nights := int(in.CheckOutDate.Sub(in.CheckInDate).Hours() / 24)
	recs, err := s.ir.ListForStay(ctx, tenantID, in.RoomID, in.RatePlanID, in.CheckInDate, in.CheckOutDate)
	if err != nil {
		return nil, err
	}
	total, basePrice, err := priceStay(plan, recs, nights, &in)
	if err != nil {
		return nil, err
	}

	b := &model.Booking{
		TenantID:        tenantID,
		PropertyID:      in.PropertyID,
		RoomID:          in.RoomID,
		RatePlanID:      in.RatePlanID,
		Reference:       newReference(s.now()),
		GuestName:       in.GuestName,
		GuestEmail:      in.GuestEmail,
		CheckInDate:     in.CheckInDate,
		CheckOutDate:    in.CheckOutDate,
		Rooms:           in.Rooms,
		Adults:          in.Adults,
		Children:        in.Children,
		TotalNights:     nights,
		BasePrice:       basePrice,
		TotalAmount:     total,
		Currency:        plan.Currency,
		Status:          model.BookingConfirmed,
		PaymentStatus:   model.PaymentPending,
		PaymentMethod:   in.PaymentMethod,
		SpecialRequests: in.SpecialRequests,
	}

	if in.PaymentMethod == model.PayVirtualCard {
		if s.vcc == nil {
			return nil, makeErr(ErrBadInput, "virtual card payments not configured")
		}
		card, err := s.vcc.IssueCard(ctx, vccrepo.IssueCardReq{
			ExternalID:  b.Reference,
			Amount:      total,
			Currency:    plan.Currency,
			ValidUntil:  in.CheckOutDate.Format(model.DateLayout),
			Description: fmt.Sprintf("booking %s", b.Reference),
		})
		if err != nil {
			return nil, fmt.Errorf("issue virtual card: %w", err)
		}
		b.VCCCardID = &card.CardID
	}

	err = s.r.Create(ctx, b)
	if errors.Is(err, bookingrepo.ErrDuplicateReference) {
		// One bounded retry with a fresh suffix.
		b.Reference = newReference(s.now())
		err = s.r.Create(ctx, b)
	}
	switch {
	case err == nil:
		return b, nil
	case errors.Is(err, bookingrepo.ErrNoAvailability):
		return nil, makeErr(ErrNoAvailability, "no longer available")
	default:
		return nil, wrapErr(ErrCommitFailed, err)
	}
}

func validateInput(in *CreateInput) error {
	if in.CheckInDate.IsZero() || in.CheckOutDate.IsZero() {
		return makeErr(ErrBadInput, "check-in and check-out dates required")
	}
	if !in.CheckOutDate.After(in.CheckInDate) {
		return makeErr(ErrBadInput, "check-out must be after check-in")
	}
	if in.Adults < 1 {
		return makeErr(ErrBadInput, "at least one adult required")
	}
	if in.Children < 0 {
		return makeErr(ErrBadInput, "children must be >= 0")
	}
	if in.Rooms == 0 {
		in.Rooms = 1
	}
	if in.Rooms < 1 {
		return makeErr(ErrBadInput, "rooms must be >= 1")
	}
	if strings.TrimSpace(in.GuestName) == "" || strings.TrimSpace(in.GuestEmail) == "" {
		return makeErr(ErrBadInput, "guest name and email required")
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = model.PayPropertyCollect
	}
	return nil
}

// priceStay recomputes the stay total from stored inventory; a
// client-supplied amount is never trusted. The same restrictions that hide a
// stay from search refuse it here.
func priceStay(plan *model.RatePlan, recs []model.InventoryRecord, nights int, in *CreateInput) (total, basePrice float64, err error) {
	if len(recs) != nights {
		return 0, 0, makeErr(ErrNoAvailability, "stay not fully available")
	}
	var sum float64
	for i := range recs {
		rec := &recs[i]
		if rec.StopSell || rec.AvailableRooms < in.Rooms {
			return 0, 0, makeErr(ErrNoAvailability, "no longer available")
		}
		if i == 0 && rec.ClosedToArrival {
			return 0, 0, makeErr(ErrNoAvailability, "closed to arrival on check-in date")
		}
		if i == nights-1 && rec.ClosedToDeparture {
			return 0, 0, makeErr(ErrNoAvailability, "closed to departure on check-out date")
		}
		if rec.MinStay != nil && nights < *rec.MinStay {
			return 0, 0, makeErr(ErrNoAvailability, "stay shorter than minimum")
		}

		night := rec.Price
		if plan.IsDynamic {
			occ := 0.0
			if rec.TotalRooms > 0 {
				occ = float64(rec.TotalRooms-rec.AvailableRooms) / float64(rec.TotalRooms)
			}
			night = pricing.Calculate(rec.Price, plan.DynamicRules, pricing.Signals{
				DemandLevel:   in.DemandLevel,
				Season:        in.Season,
				OccupancyRate: occ,
			}).Price
		}
		sum += night
	}
	total = pricing.Round2(sum * float64(in.Rooms))
	basePrice = pricing.Round2(sum / float64(nights))
	return total, basePrice, nil
}

// newReference builds a human-readable reference like BK-20260824-7F3A2C1B.
func newReference(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("BK-%s-%s", now.UTC().Format("20060102"), suffix)
}

func (s *service) Cancel(ctx context.Context, tenantID, bookingID int64) error {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	err := s.r.Cancel(ctx, tenantID, bookingID, today)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bookingrepo.ErrNotFound):
		return makeErr(ErrBookingNotFound, "booking not found")
	case errors.Is(err, bookingrepo.ErrNotConfirmed):
		return makeErr(ErrNotConfirmed, "booking is not confirmed")
	default:
		return err
	}
}

func (s *service) Get(ctx context.Context, tenantID, bookingID int64) (*model.Booking, error) {
	b, err := s.r.GetByID(ctx, tenantID, bookingID)
	if errors.Is(err, bookingrepo.ErrNotFound) {
		return nil, makeErr(ErrBookingNotFound, "booking not found")
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) ListByProperty(ctx context.Context, tenantID, propertyID int64, limit, offset int) ([]model.Booking, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return s.r.ListByProperty(ctx, tenantID, propertyID, limit, offset)
}
