package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sarperhorata/hotel-extranet-sub001/model"
	searchrepo "github.com/sarperhorata/hotel-extranet-sub001/repository/search"
)

type searchMock struct {
	listFn func(ctx context.Context, tenantID int64, f searchrepo.Filters, adults, children int) ([]searchrepo.Candidate, error)
}

func (m *searchMock) ListCandidates(ctx context.Context, tenantID int64, f searchrepo.Filters, adults, children int) ([]searchrepo.Candidate, error) {
	return m.listFn(ctx, tenantID, f, adults, children)
}

type invMock struct {
	stayFn func(ctx context.Context, tenantID, roomID, ratePlanID int64, from, to time.Time) ([]model.InventoryRecord, error)
}

func (m *invMock) ListForStay(ctx context.Context, tenantID, roomID, ratePlanID int64, from, to time.Time) ([]model.InventoryRecord, error) {
	return m.stayFn(ctx, tenantID, roomID, ratePlanID, from, to)
}

var day0 = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return day0.AddDate(0, 0, n) }

func candidate(roomID, planID int64, name string) searchrepo.Candidate {
	return searchrepo.Candidate{
		PropertyID:   1,
		PropertyName: name,
		RoomID:       roomID,
		RoomName:     "Standard Double",
		RatePlanID:   planID,
		RatePlanName: "BAR",
		PlanType:     model.PlanStandard,
		Currency:     "EUR",
	}
}

func nightsOf(roomID, planID int64, recs ...model.InventoryRecord) func(context.Context, int64, int64, int64, time.Time, time.Time) ([]model.InventoryRecord, error) {
	return func(_ context.Context, _ int64, r, p int64, _, _ time.Time) ([]model.InventoryRecord, error) {
		if r == roomID && p == planID {
			return recs, nil
		}
		return nil, nil
	}
}

func rec(date time.Time, avail, total int, price float64) model.InventoryRecord {
	return model.InventoryRecord{
		RoomID: 10, RatePlanID: 20, Date: date,
		AvailableRooms: avail, TotalRooms: total, Price: price, Currency: "EUR",
	}
}

func baseRequest(nights int) Request {
	return Request{
		CheckInDate:  day(0),
		CheckOutDate: day(nights),
		Adults:       2,
		Rooms:        1,
	}
}

func TestSearch_TwoNightAggregation(t *testing.T) {
	s := New(
		&searchMock{listFn: func(context.Context, int64, searchrepo.Filters, int, int) ([]searchrepo.Candidate, error) {
			return []searchrepo.Candidate{candidate(10, 20, "Alp Hotel")}, nil
		}},
		&invMock{stayFn: nightsOf(10, 20,
			rec(day(0), 5, 10, 100.00),
			rec(day(1), 5, 10, 100.00),
		)},
	)

	out, err := s.Search(context.Background(), 1, baseRequest(2))
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, 200.00, out[0].TotalPrice)
	require.Equal(t, 100.00, out[0].AvgPrice)
	require.Equal(t, 5, out[0].MinAvailableRooms)
	require.Equal(t, 2, out[0].Nights)
}

func TestSearch_ZeroNightStayRejected(t *testing.T) {
	s := New(&searchMock{}, &invMock{})
	req := baseRequest(0) // check-out == check-in
	_, err := s.Search(context.Background(), 1, req)
	require.Error(t, err)
	require.Equal(t, ErrBadInput, Code(err))
}

func TestSearch_ExactAvailabilityBoundary(t *testing.T) {
	mk := func(avail int) Service {
		return New(
			&searchMock{listFn: func(context.Context, int64, searchrepo.Filters, int, int) ([]searchrepo.Candidate, error) {
				return []searchrepo.Candidate{candidate(10, 20, "Alp Hotel")}, nil
			}},
			&invMock{stayFn: nightsOf(10, 20, rec(day(0), avail, 10, 100))},
		)
	}
	req := baseRequest(1)
	req.Rooms = 3

	out, err := mk(3).Search(context.Background(), 1, req)
	require.NoError(t, err)
	require.Len(t, out, 1, "available == requested must satisfy")

	out, err = mk(2).Search(context.Background(), 1, req)
	require.NoError(t, err)
	require.Empty(t, out, "available == requested-1 must exclude")
}

func TestSearch_ExclusionRules(t *testing.T) {
	cases := map[string][]model.InventoryRecord{
		"missing night": {rec(day(0), 5, 10, 100)}, // only 1 of 2
		"stop sell": {
			rec(day(0), 5, 10, 100),
			func() model.InventoryRecord { r := rec(day(1), 5, 10, 100); r.StopSell = true; return r }(),
		},
		"closed to arrival first night": {
			func() model.InventoryRecord { r := rec(day(0), 5, 10, 100); r.ClosedToArrival = true; return r }(),
			rec(day(1), 5, 10, 100),
		},
		"closed to departure last night": {
			rec(day(0), 5, 10, 100),
			func() model.InventoryRecord { r := rec(day(1), 5, 10, 100); r.ClosedToDeparture = true; return r }(),
		},
		"min stay longer than stay": {
			func() model.InventoryRecord { r := rec(day(0), 5, 10, 100); ms := 3; r.MinStay = &ms; return r }(),
			rec(day(1), 5, 10, 100),
		},
	}
	for name, recs := range cases {
		s := New(
			&searchMock{listFn: func(context.Context, int64, searchrepo.Filters, int, int) ([]searchrepo.Candidate, error) {
				return []searchrepo.Candidate{candidate(10, 20, "Alp Hotel")}, nil
			}},
			&invMock{stayFn: nightsOf(10, 20, recs...)},
		)
		out, err := s.Search(context.Background(), 1, baseRequest(2))
		require.NoError(t, err, name)
		require.Empty(t, out, name)
	}
}

func TestSearch_ClosureOnMiddleNightIrrelevant(t *testing.T) {
	// CTA/CTD only bind on the edge nights.
	mid := rec(day(1), 5, 10, 100)
	mid.ClosedToArrival = true
	mid.ClosedToDeparture = true
	s := New(
		&searchMock{listFn: func(context.Context, int64, searchrepo.Filters, int, int) ([]searchrepo.Candidate, error) {
			return []searchrepo.Candidate{candidate(10, 20, "Alp Hotel")}, nil
		}},
		&invMock{stayFn: nightsOf(10, 20,
			rec(day(0), 5, 10, 100), mid, rec(day(2), 5, 10, 100),
		)},
	)
	out, err := s.Search(context.Background(), 1, baseRequest(3))
	require.NoError(t, err)
	require.Len(t, out, 1)
}

func TestSearch_StoredPriceReturnedExactly(t *testing.T) {
	// Non-dynamic plan: no hidden markup.
	s := New(
		&searchMock{listFn: func(context.Context, int64, searchrepo.Filters, int, int) ([]searchrepo.Candidate, error) {
			return []searchrepo.Candidate{candidate(10, 20, "Alp Hotel")}, nil
		}},
		&invMock{stayFn: nightsOf(10, 20, rec(day(0), 5, 10, 123.45))},
	)
	out, err := s.Search(context.Background(), 1, baseRequest(1))
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, []float64{123.45}, out[0].NightlyPrices)
	require.Equal(t, 123.45, out[0].AvgPrice)
}

func TestSearch_DynamicPlanUsesDerivedOccupancy(t *testing.T) {
	high := 1.3
	c := candidate(10, 20, "Alp Hotel")
	c.IsDynamic = true
	c.DynamicRules = &model.DynamicRules{
		OccupancyMultipliers: &model.OccupancyMultipliers{HighOccupancy: &high},
	}
	// 1 of 10 left -> sold ratio 0.9 -> high-occupancy multiplier applies.
	s := New(
		&searchMock{listFn: func(context.Context, int64, searchrepo.Filters, int, int) ([]searchrepo.Candidate, error) {
			return []searchrepo.Candidate{c}, nil
		}},
		&invMock{stayFn: nightsOf(10, 20, rec(day(0), 1, 10, 100))},
	)
	out, err := s.Search(context.Background(), 1, baseRequest(1))
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, 130.00, out[0].NightlyPrices[0])
}

func TestSearch_PriceBoundsPostFilter(t *testing.T) {
	s := New(
		&searchMock{listFn: func(context.Context, int64, searchrepo.Filters, int, int) ([]searchrepo.Candidate, error) {
			return []searchrepo.Candidate{candidate(10, 20, "Alp Hotel")}, nil
		}},
		&invMock{stayFn: nightsOf(10, 20, rec(day(0), 5, 10, 100))},
	)

	req := baseRequest(1)
	maxP := 90.0
	req.MaxPrice = &maxP
	out, err := s.Search(context.Background(), 1, req)
	require.NoError(t, err)
	require.Empty(t, out)

	req = baseRequest(1)
	minP := 150.0
	req.MinPrice = &minP
	out, err = s.Search(context.Background(), 1, req)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestSearch_SortingDeterministic(t *testing.T) {
	a := candidate(10, 20, "Bravo Hotel")
	b := candidate(11, 21, "Alpha Hotel")
	cheap := candidate(12, 22, "Charlie Hotel")
	inv := func(_ context.Context, _ int64, roomID, _ int64, _, _ time.Time) ([]model.InventoryRecord, error) {
		price := 100.0
		if roomID == 12 {
			price = 50.0
		}
		r := rec(day(0), 5, 10, price)
		r.RoomID = roomID
		return []model.InventoryRecord{r}, nil
	}
	s := New(
		&searchMock{listFn: func(context.Context, int64, searchrepo.Filters, int, int) ([]searchrepo.Candidate, error) {
			return []searchrepo.Candidate{a, b, cheap}, nil
		}},
		&invMock{stayFn: inv},
	)

	req := baseRequest(1)
	req.SortBy = SortByPrice
	out, err := s.Search(context.Background(), 1, req)
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.Equal(t, "Charlie Hotel", out[0].PropertyName)
	// 100.00 tie broken by property name ascending
	require.Equal(t, "Alpha Hotel", out[1].PropertyName)
	require.Equal(t, "Bravo Hotel", out[2].PropertyName)

	req.SortOrder = OrderDesc
	out, err = s.Search(context.Background(), 1, req)
	require.NoError(t, err)
	require.Equal(t, "Charlie Hotel", out[2].PropertyName)
	require.Equal(t, "Alpha Hotel", out[0].PropertyName, "tie still name-ascending")
}

func TestSearch_InvalidSortRejected(t *testing.T) {
	s := New(&searchMock{}, &invMock{})
	req := baseRequest(1)
	req.SortBy = "stars"
	_, err := s.Search(context.Background(), 1, req)
	require.Equal(t, ErrBadInput, Code(err))
}
