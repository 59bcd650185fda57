package paymentsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sarperhorata/hotel-extranet-sub001/model"
	vccrepo "github.com/sarperhorata/hotel-extranet-sub001/repository/vcc"
)

type BookingRepo interface {
	SetPaymentStatusByCardID(ctx context.Context, cardID string, st model.PaymentStatus) (int64, error)
}

type Service interface {
	HandleIssuerEvent(ctx context.Context, sigHeader string, raw []byte) error
}

type service struct {
	vcc vccrepo.Repo
	br  BookingRepo
}

func New(vcc vccrepo.Repo, br BookingRepo) Service {
	return &service{vcc: vcc, br: br}
}

type cardEvent struct {
	CardID     string `json:"card_id"`
	Status     string `json:"status"`
	ExternalID string `json:"external_id"`
}

// HandleIssuerEvent applies a card-issuer webhook to the booking holding the
// card. Unknown statuses and already-applied transitions are no-ops, so
// replayed deliveries are harmless.
func (s *service) HandleIssuerEvent(ctx context.Context, sigHeader string, raw []byte) error {
	if s.vcc == nil {
		return errors.New("no card issuer configured")
	}
	if err := s.vcc.VerifyCallbackSignature(sigHeader, raw); err != nil {
		return err
	}

	var ev cardEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return fmt.Errorf("bad webhook json: %w", err)
	}
	if ev.CardID == "" || ev.Status == "" {
		return errors.New("missing card event fields")
	}

	switch ev.Status {
	case "charged":
		_, err := s.br.SetPaymentStatusByCardID(ctx, ev.CardID, model.PaymentPaid)
		return err
	case "declined":
		_, err := s.br.SetPaymentStatusByCardID(ctx, ev.CardID, model.PaymentFailed)
		return err
	default:
		return nil
	}
}
