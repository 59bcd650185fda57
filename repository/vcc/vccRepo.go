package vccrepo

import "context"

// IssueCardReq asks the issuer for a single-use virtual credit card funded
// with a booking's total, valid until the stay ends.
type IssueCardReq struct {
	ExternalID  string
	Amount      float64
	Currency    string
	ValidUntil  string // YYYY-MM-DD
	Description string
}

type IssueCardResp struct {
	CardID       string
	MaskedNumber string
	ExpiresAt    string
}

type Repo interface {
	IssueCard(ctx context.Context, req IssueCardReq) (*IssueCardResp, error)
	VerifyCallbackSignature(sigHeader string, rawBody []byte) error
}
