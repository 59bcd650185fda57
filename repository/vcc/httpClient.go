package vccrepo

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sarperhorata/hotel-extranet-sub001/util/httpx"
)

type httpRepo struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewHTTP(apiKey, baseURL string) Repo {
	return &httpRepo{apiKey: apiKey, baseURL: baseURL, client: httpx.Client()}
}

func (r *httpRepo) IssueCard(ctx context.Context, req IssueCardReq) (*IssueCardResp, error) {
	body := map[string]any{
		"external_id": req.ExternalID,
		"amount":      req.Amount,
		"currency":    req.Currency,
		"valid_until": req.ValidUntil,
		"description": req.Description,
	}
	b, _ := json.Marshal(body)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/cards", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(r.apiKey, "")
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("vcc issue card failed: %s", resp.Status)
	}

	var out struct {
		ID           string `json:"id"`
		MaskedNumber string `json:"masked_number"`
		ExpiresAt    string `json:"expires_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("vcc: empty card id")
	}

	return &IssueCardResp{CardID: out.ID, MaskedNumber: out.MaskedNumber, ExpiresAt: out.ExpiresAt}, nil
}

// VerifyCallbackSignature checks the issuer's HMAC-SHA256 webhook signature.
func (r *httpRepo) VerifyCallbackSignature(sigHeader string, rawBody []byte) error {
	if sigHeader == "" {
		return errors.New("vcc: missing signature header")
	}
	mac := hmac.New(sha256.New, []byte(r.apiKey))
	mac.Write(rawBody)
	want := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(want), []byte(sigHeader)) {
		return errors.New("vcc: signature mismatch")
	}
	return nil
}
