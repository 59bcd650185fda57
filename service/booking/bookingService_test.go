package bookingsvc

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sarperhorata/hotel-extranet-sub001/model"
	bookingrepo "github.com/sarperhorata/hotel-extranet-sub001/repository/booking"
	vccrepo "github.com/sarperhorata/hotel-extranet-sub001/repository/vcc"
)

type repoMock struct {
	createFn func(ctx context.Context, b *model.Booking) error
	getFn    func(ctx context.Context, tenantID, id int64) (*model.Booking, error)
	listFn   func(ctx context.Context, tenantID, propertyID int64, limit, offset int) ([]model.Booking, error)
	cancelFn func(ctx context.Context, tenantID, id int64, restockFrom time.Time) error
}

func (m *repoMock) Create(ctx context.Context, b *model.Booking) error { return m.createFn(ctx, b) }
func (m *repoMock) GetByID(ctx context.Context, tenantID, id int64) (*model.Booking, error) {
	return m.getFn(ctx, tenantID, id)
}
func (m *repoMock) ListByProperty(ctx context.Context, tenantID, propertyID int64, limit, offset int) ([]model.Booking, error) {
	return m.listFn(ctx, tenantID, propertyID, limit, offset)
}
func (m *repoMock) Cancel(ctx context.Context, tenantID, id int64, restockFrom time.Time) error {
	return m.cancelFn(ctx, tenantID, id, restockFrom)
}

type propertyMock struct {
	getRoomFn func(ctx context.Context, tenantID, propertyID, roomID int64) (*model.Room, error)
}

func (m *propertyMock) GetRoom(ctx context.Context, tenantID, propertyID, roomID int64) (*model.Room, error) {
	return m.getRoomFn(ctx, tenantID, propertyID, roomID)
}

type planMock struct {
	getFn func(ctx context.Context, tenantID, ratePlanID int64) (*model.RatePlan, error)
}

func (m *planMock) GetByID(ctx context.Context, tenantID, ratePlanID int64) (*model.RatePlan, error) {
	return m.getFn(ctx, tenantID, ratePlanID)
}

type invMock struct {
	stayFn func(ctx context.Context, tenantID, roomID, ratePlanID int64, from, to time.Time) ([]model.InventoryRecord, error)
}

func (m *invMock) ListForStay(ctx context.Context, tenantID, roomID, ratePlanID int64, from, to time.Time) ([]model.InventoryRecord, error) {
	return m.stayFn(ctx, tenantID, roomID, ratePlanID, from, to)
}

var day0 = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return day0.AddDate(0, 0, n) }

func stdRoom() *model.Room {
	return &model.Room{ID: 3, PropertyID: 2, MaxAdults: 2, MaxOccupancy: 4, TotalUnits: 10}
}

func stdPlan() *model.RatePlan {
	return &model.RatePlan{ID: 4, PropertyID: 2, Currency: "EUR", BasePrice: 100}
}

func stayRecs(avail int, price float64, nights int) []model.InventoryRecord {
	out := make([]model.InventoryRecord, 0, nights)
	for i := 0; i < nights; i++ {
		out = append(out, model.InventoryRecord{
			RoomID: 3, RatePlanID: 4, Date: day(i),
			AvailableRooms: avail, TotalRooms: 10, Price: price, Currency: "EUR",
		})
	}
	return out
}

func input(nights int) CreateInput {
	return CreateInput{
		PropertyID: 2, RoomID: 3, RatePlanID: 4,
		GuestName: "Ada Lovelace", GuestEmail: "ada@example.com",
		CheckInDate: day(0), CheckOutDate: day(nights),
		Adults: 2, Rooms: 1,
	}
}

func newService(r Repo, recs []model.InventoryRecord) Service {
	return New(r,
		&propertyMock{getRoomFn: func(context.Context, int64, int64, int64) (*model.Room, error) {
			return stdRoom(), nil
		}},
		&planMock{getFn: func(context.Context, int64, int64) (*model.RatePlan, error) {
			return stdPlan(), nil
		}},
		&invMock{stayFn: func(context.Context, int64, int64, int64, time.Time, time.Time) ([]model.InventoryRecord, error) {
			return recs, nil
		}},
		nil,
	)
}

func TestCreate_RecomputesTotals(t *testing.T) {
	var saved *model.Booking
	r := &repoMock{createFn: func(_ context.Context, b *model.Booking) error {
		saved = b
		return nil
	}}
	s := newService(r, stayRecs(5, 100, 2))

	in := input(2)
	in.Rooms = 2
	b, err := s.Create(context.Background(), 1, in)
	require.NoError(t, err)
	require.NotNil(t, saved)
	require.Equal(t, 400.00, b.TotalAmount) // 2 nights x 100 x 2 rooms
	require.Equal(t, 100.00, b.BasePrice)
	require.Equal(t, 2, b.TotalNights)
	require.Equal(t, model.BookingConfirmed, b.Status)
	require.Equal(t, model.PaymentPending, b.PaymentStatus)
	require.Equal(t, model.PayPropertyCollect, b.PaymentMethod)
	require.Regexp(t, regexp.MustCompile(`^BK-\d{8}-[0-9A-F]{8}$`), b.Reference)
}

func TestCreate_ZeroNightStayRejected(t *testing.T) {
	s := newService(&repoMock{}, nil)
	in := input(0)
	_, err := s.Create(context.Background(), 1, in)
	require.Equal(t, ErrBadInput, Code(err))
}

func TestCreate_PartyExceedsCapacity(t *testing.T) {
	s := newService(&repoMock{}, nil)

	in := input(1)
	in.Adults = 3 // max_adults = 2
	_, err := s.Create(context.Background(), 1, in)
	require.Equal(t, ErrBadInput, Code(err))

	in = input(1)
	in.Adults = 2
	in.Children = 3 // occupancy 5 > max 4
	_, err = s.Create(context.Background(), 1, in)
	require.Equal(t, ErrBadInput, Code(err))
}

func TestCreate_RoomNotFound(t *testing.T) {
	s := New(&repoMock{},
		&propertyMock{getRoomFn: func(context.Context, int64, int64, int64) (*model.Room, error) {
			return nil, nil
		}},
		&planMock{}, &invMock{}, nil)
	_, err := s.Create(context.Background(), 1, input(1))
	require.Equal(t, ErrRoomNotFound, Code(err))
}

func TestCreate_StayRestrictionsRefused(t *testing.T) {
	stop := stayRecs(5, 100, 2)
	stop[1].StopSell = true

	cta := stayRecs(5, 100, 2)
	cta[0].ClosedToArrival = true

	short := stayRecs(5, 100, 2)
	ms := 3
	short[0].MinStay = &ms

	for name, recs := range map[string][]model.InventoryRecord{
		"missing night":     stayRecs(5, 100, 1),
		"stop sell":         stop,
		"closed to arrival": cta,
		"min stay":          short,
		"short on rooms":    stayRecs(0, 100, 2),
	} {
		s := newService(&repoMock{createFn: func(context.Context, *model.Booking) error {
			t.Fatalf("%s: commit must not be reached", name)
			return nil
		}}, recs)
		_, err := s.Create(context.Background(), 1, input(2))
		require.Equal(t, ErrNoAvailability, Code(err), name)
	}
}

func TestCreate_ContentionSurfacesConflict(t *testing.T) {
	r := &repoMock{createFn: func(context.Context, *model.Booking) error {
		return bookingrepo.ErrNoAvailability
	}}
	s := newService(r, stayRecs(1, 100, 1))
	_, err := s.Create(context.Background(), 1, input(1))
	require.Equal(t, ErrNoAvailability, Code(err))
}

func TestCreate_CommitFailureWrapped(t *testing.T) {
	boom := errors.New("connection reset")
	r := &repoMock{createFn: func(context.Context, *model.Booking) error { return boom }}
	s := newService(r, stayRecs(5, 100, 1))
	_, err := s.Create(context.Background(), 1, input(1))
	require.Equal(t, ErrCommitFailed, Code(err))
	require.ErrorIs(t, err, boom)
}

func TestCreate_DuplicateReferenceRetriedOnce(t *testing.T) {
	var refs []string
	calls := 0
	r := &repoMock{createFn: func(_ context.Context, b *model.Booking) error {
		calls++
		refs = append(refs, b.Reference)
		if calls == 1 {
			return bookingrepo.ErrDuplicateReference
		}
		return nil
	}}
	s := newService(r, stayRecs(5, 100, 1))
	b, err := s.Create(context.Background(), 1, input(1))
	require.NoError(t, err)
	require.Equal(t, 2, calls)
	require.NotEqual(t, refs[0], refs[1])
	require.Equal(t, refs[1], b.Reference)
}

func TestCreate_DynamicPlanPricing(t *testing.T) {
	plan := stdPlan()
	plan.IsDynamic = true
	plan.DynamicRules = &model.DynamicRules{
		DemandMultipliers: map[string]float64{"high": 1.2},
	}
	var saved *model.Booking
	s := New(
		&repoMock{createFn: func(_ context.Context, b *model.Booking) error { saved = b; return nil }},
		&propertyMock{getRoomFn: func(context.Context, int64, int64, int64) (*model.Room, error) {
			return stdRoom(), nil
		}},
		&planMock{getFn: func(context.Context, int64, int64) (*model.RatePlan, error) { return plan, nil }},
		&invMock{stayFn: func(context.Context, int64, int64, int64, time.Time, time.Time) ([]model.InventoryRecord, error) {
			return stayRecs(5, 100, 1), nil
		}},
		nil,
	)
	in := input(1)
	in.DemandLevel = "high"
	_, err := s.Create(context.Background(), 1, in)
	require.NoError(t, err)
	require.Equal(t, 120.00, saved.TotalAmount)
}

func TestCreate_VirtualCardAttached(t *testing.T) {
	issued := 0
	vcc := &vccMock{issueFn: func(_ context.Context, req vccrepo.IssueCardReq) (*vccrepo.IssueCardResp, error) {
		issued++
		require.Equal(t, 100.00, req.Amount)
		return &vccrepo.IssueCardResp{CardID: "card_123"}, nil
	}}
	var saved *model.Booking
	s := New(
		&repoMock{createFn: func(_ context.Context, b *model.Booking) error { saved = b; return nil }},
		&propertyMock{getRoomFn: func(context.Context, int64, int64, int64) (*model.Room, error) {
			return stdRoom(), nil
		}},
		&planMock{getFn: func(context.Context, int64, int64) (*model.RatePlan, error) { return stdPlan(), nil }},
		&invMock{stayFn: func(context.Context, int64, int64, int64, time.Time, time.Time) ([]model.InventoryRecord, error) {
			return stayRecs(5, 100, 1), nil
		}},
		vcc,
	)
	in := input(1)
	in.PaymentMethod = model.PayVirtualCard
	_, err := s.Create(context.Background(), 1, in)
	require.NoError(t, err)
	require.Equal(t, 1, issued)
	require.NotNil(t, saved.VCCCardID)
	require.Equal(t, "card_123", *saved.VCCCardID)
}

type vccMock struct {
	issueFn func(ctx context.Context, req vccrepo.IssueCardReq) (*vccrepo.IssueCardResp, error)
}

func (m *vccMock) IssueCard(ctx context.Context, req vccrepo.IssueCardReq) (*vccrepo.IssueCardResp, error) {
	return m.issueFn(ctx, req)
}
func (m *vccMock) VerifyCallbackSignature(string, []byte) error { return nil }

// contentionRepo reproduces the repository's conditional-decrement contract
// in memory: a create succeeds only while stock remains, under a lock.
type contentionRepo struct {
	mu    sync.Mutex
	avail int
}

func (r *contentionRepo) Create(_ context.Context, b *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.avail < b.Rooms {
		return bookingrepo.ErrNoAvailability
	}
	r.avail -= b.Rooms
	return nil
}
func (r *contentionRepo) GetByID(context.Context, int64, int64) (*model.Booking, error) {
	return nil, bookingrepo.ErrNotFound
}
func (r *contentionRepo) ListByProperty(context.Context, int64, int64, int, int) ([]model.Booking, error) {
	return nil, nil
}
func (r *contentionRepo) Cancel(context.Context, int64, int64, time.Time) error { return nil }

func TestCreate_ConcurrentBookingsNeverOverdraw(t *testing.T) {
	const (
		attempts = 20
		perReq   = 2
		stock    = 7
	)
	cr := &contentionRepo{avail: stock}
	// The pre-check reads a snapshot with stock still present; the
	// repository's guarded decrement is what must hold the line.
	s := newServiceWithRepo(cr)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			in := input(1)
			in.Rooms = perReq
			if _, err := s.Create(context.Background(), 1, in); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.LessOrEqual(t, succeeded*perReq, stock)
	require.GreaterOrEqual(t, cr.avail, 0, "availability must never go negative")
	require.Equal(t, stock-succeeded*perReq, cr.avail)
	require.Equal(t, stock/perReq, succeeded, "every satisfiable request should have won a slot")
}

func TestCreate_TwoConcurrentForLastRoom(t *testing.T) {
	cr := &contentionRepo{avail: 1}
	s := newServiceWithRepo(cr)

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := s.Create(context.Background(), 1, input(1))
			results <- err
		}()
	}
	var errs []error
	for i := 0; i < 2; i++ {
		errs = append(errs, <-results)
	}

	okCount, conflictCount := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case Code(err) == ErrNoAvailability:
			conflictCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, okCount, "exactly one booking wins")
	require.Equal(t, 1, conflictCount, "the loser gets a conflict")
	require.Equal(t, 0, cr.avail)
}

func newServiceWithRepo(r Repo) Service {
	return New(r,
		&propertyMock{getRoomFn: func(context.Context, int64, int64, int64) (*model.Room, error) {
			return stdRoom(), nil
		}},
		&planMock{getFn: func(context.Context, int64, int64) (*model.RatePlan, error) {
			return stdPlan(), nil
		}},
		&invMock{stayFn: func(context.Context, int64, int64, int64, time.Time, time.Time) ([]model.InventoryRecord, error) {
			return stayRecs(10, 100, 1), nil
		}},
		nil,
	)
}

func TestCancel_RestocksFromToday(t *testing.T) {
	var gotFrom time.Time
	r := &repoMock{cancelFn: func(_ context.Context, _, _ int64, restockFrom time.Time) error {
		gotFrom = restockFrom
		return nil
	}}
	s := newService(r, nil)
	require.NoError(t, s.Cancel(context.Background(), 1, 42))

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	require.Equal(t, today, gotFrom)
}

func TestCancel_NotFoundAndNotConfirmed(t *testing.T) {
	r := &repoMock{cancelFn: func(context.Context, int64, int64, time.Time) error {
		return bookingrepo.ErrNotFound
	}}
	s := newService(r, nil)
	require.Equal(t, ErrBookingNotFound, Code(s.Cancel(context.Background(), 1, 42)))

	r.cancelFn = func(context.Context, int64, int64, time.Time) error {
		return bookingrepo.ErrNotConfirmed
	}
	require.Equal(t, ErrNotConfirmed, Code(s.Cancel(context.Background(), 1, 42)))
}

func TestListByProperty_LimitDefaults(t *testing.T) {
	var gotLimit, gotOffset int
	r := &repoMock{listFn: func(_ context.Context, _, _ int64, limit, offset int) ([]model.Booking, error) {
		gotLimit, gotOffset = limit, offset
		return nil, nil
	}}
	s := newService(r, nil)

	_, err := s.ListByProperty(context.Background(), 1, 2, 0, -5)
	require.NoError(t, err)
	require.Equal(t, 50, gotLimit)
	require.Equal(t, 0, gotOffset)

	_, err = s.ListByProperty(context.Background(), 1, 2, 1000, 10)
	require.NoError(t, err)
	require.Equal(t, 200, gotLimit)
	require.Equal(t, 10, gotOffset)
}
