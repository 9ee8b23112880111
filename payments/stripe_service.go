package payments

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	config "github.com/otienobrian/fundi_connect/configs"
)

// TransferClient is the slice of the provider used by instant payouts.
type TransferClient interface {
	CreateTransfer(destinationAccount string, amountCents int64, idempotencyKey string) (string, error)
}

// RefundClient is the slice of the provider used by cancellations.
type RefundClient interface {
	CreateRefund(providerTxnID string, amountCents int64) (string, error)
}

type VerificationSession struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret"`
	URL          string `json:"url"`
}

type StripeService struct {
	apiKey  string
	apiBase string
	client  *http.Client
}

func NewStripeService() *StripeService {
	apiBase := config.Config("STRIPE_API_BASE_URL")
	if apiBase == "" {
		apiBase = "https://api.stripe.com"
	}
	return &StripeService{
		apiKey:  config.Config("STRIPE_SECRET_KEY"),
		apiBase: apiBase,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type stripeErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *StripeService) post(path string, form url.Values, idempotencyKey string, out interface{}) error {
	if s.apiKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is not configured")
	}

	req, err := http.NewRequest("POST", s.apiBase+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.apiKey, "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var stripeErr stripeErrorResponse
		if json.Unmarshal(body, &stripeErr) == nil && stripeErr.Error.Message != "" {
			return fmt.Errorf("stripe: %s", stripeErr.Error.Message)
		}
		return fmt.Errorf("stripe: unexpected status %s: %s", resp.Status, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *StripeService) get(path string, out interface{}) error {
	if s.apiKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is not configured")
	}

	req, err := http.NewRequest("GET", s.apiBase+path, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.apiKey, "")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("stripe: unexpected status %s: %s", resp.Status, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// CreateTransfer moves amountCents to a connected account. The idempotency
// key (our payout ID) makes retries of the same payout safe on the provider
// side and ties the transfer back to its audit record.
func (s *StripeService) CreateTransfer(destinationAccount string, amountCents int64, idempotencyKey string) (string, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", "usd")
	form.Set("destination", destinationAccount)
	form.Set("metadata[payout_id]", idempotencyKey)

	var transfer struct {
		ID string `json:"id"`
	}
	if err := s.post("/v1/transfers", form, idempotencyKey, &transfer); err != nil {
		return "", err
	}
	return transfer.ID, nil
}

// CreateRefund refunds amountCents of a charge back to the customer.
func (s *StripeService) CreateRefund(providerTxnID string, amountCents int64) (string, error) {
	form := url.Values{}
	form.Set("payment_intent", providerTxnID)
	form.Set("amount", strconv.FormatInt(amountCents, 10))

	var refund struct {
		ID string `json:"id"`
	}
	if err := s.post("/v1/refunds", form, "", &refund); err != nil {
		return "", err
	}
	return refund.ID, nil
}

// CreateVerificationSession opens an identity check for a fundi. The
// returned URL is handed to the client to complete document verification.
func (s *StripeService) CreateVerificationSession(fundiUserID string) (*VerificationSession, error) {
	form := url.Values{}
	form.Set("type", "document")
	form.Set("metadata[user_id]", fundiUserID)

	var session VerificationSession
	if err := s.post("/v1/identity/verification_sessions", form, "", &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *StripeService) RetrieveVerificationSession(sessionID string) (*VerificationSession, error) {
	var session VerificationSession
	if err := s.get("/v1/identity/verification_sessions/"+sessionID, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
