package paymentsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sarperhorata/hotel-extranet-sub001/model"
	vccrepo "github.com/sarperhorata/hotel-extranet-sub001/repository/vcc"
)

type vccMock struct {
	verifyErr error
}

func (m *vccMock) IssueCard(context.Context, vccrepo.IssueCardReq) (*vccrepo.IssueCardResp, error) {
	return nil, errors.New("not used")
}
func (m *vccMock) VerifyCallbackSignature(string, []byte) error { return m.verifyErr }

type bookingMock struct {
	setFn func(ctx context.Context, cardID string, st model.PaymentStatus) (int64, error)
}

func (m *bookingMock) SetPaymentStatusByCardID(ctx context.Context, cardID string, st model.PaymentStatus) (int64, error) {
	return m.setFn(ctx, cardID, st)
}

func TestHandleIssuerEvent_ChargedMarksPaid(t *testing.T) {
	var gotCard string
	var gotStatus model.PaymentStatus
	s := New(&vccMock{}, &bookingMock{setFn: func(_ context.Context, cardID string, st model.PaymentStatus) (int64, error) {
		gotCard, gotStatus = cardID, st
		return 1, nil
	}})

	err := s.HandleIssuerEvent(context.Background(), "sig", []byte(`{"card_id":"card_9","status":"charged"}`))
	require.NoError(t, err)
	require.Equal(t, "card_9", gotCard)
	require.Equal(t, model.PaymentPaid, gotStatus)
}

func TestHandleIssuerEvent_DeclinedMarksFailed(t *testing.T) {
	var gotStatus model.PaymentStatus
	s := New(&vccMock{}, &bookingMock{setFn: func(_ context.Context, _ string, st model.PaymentStatus) (int64, error) {
		gotStatus = st
		return 1, nil
	}})

	err := s.HandleIssuerEvent(context.Background(), "sig", []byte(`{"card_id":"card_9","status":"declined"}`))
	require.NoError(t, err)
	require.Equal(t, model.PaymentFailed, gotStatus)
}

func TestHandleIssuerEvent_UnknownStatusIgnored(t *testing.T) {
	s := New(&vccMock{}, &bookingMock{setFn: func(context.Context, string, model.PaymentStatus) (int64, error) {
		t.Fatal("unknown status must not touch bookings")
		return 0, nil
	}})
	err := s.HandleIssuerEvent(context.Background(), "sig", []byte(`{"card_id":"card_9","status":"pending_auth"}`))
	require.NoError(t, err)
}

func TestHandleIssuerEvent_BadSignatureRejected(t *testing.T) {
	s := New(&vccMock{verifyErr: errors.New("signature mismatch")}, &bookingMock{setFn: func(context.Context, string, model.PaymentStatus) (int64, error) {
		t.Fatal("unverified payload must not touch bookings")
		return 0, nil
	}})
	err := s.HandleIssuerEvent(context.Background(), "bad", []byte(`{"card_id":"c","status":"charged"}`))
	require.Error(t, err)
}

func TestHandleIssuerEvent_MalformedPayload(t *testing.T) {
	s := New(&vccMock{}, &bookingMock{})

	require.Error(t, s.HandleIssuerEvent(context.Background(), "sig", []byte(`{not json`)))
	require.Error(t, s.HandleIssuerEvent(context.Background(), "sig", []byte(`{"status":"charged"}`)))
}

func TestHandleIssuerEvent_NoIssuerConfigured(t *testing.T) {
	s := New(nil, &bookingMock{})
	require.Error(t, s.HandleIssuerEvent(context.Background(), "sig", []byte(`{}`)))
}
