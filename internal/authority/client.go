// Package authority is the HTTP client for the destination's arrival-card
// service. It exposes the two calls the submission pipeline needs: exchanging
// a verification token for a short-lived action token, and submitting the
// encoded card form.
//
// Transport failures and timeouts are retried with exponential backoff; any
// response the authority actually produced, success or not, is final and is
// never retried here.
package authority

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/entrypass/entrypass/internal/logging"
)

const (
	tokenPath  = "/api/v1/token/exchange"
	submitPath = "/api/v1/arrival-card/submit"
)

// CardPayload is the fully encoded arrival-card form: every enumerated field
// already carries its authority identifier, names are split, and the phone
// number is digits only.
type CardPayload struct {
	FamilyName      string `json:"familyName" validate:"required"`
	FirstName       string `json:"firstName"`
	MiddleName      string `json:"middleName,omitempty"`
	GenderCode      string `json:"gender" validate:"required"`
	NationalityID   string `json:"nationalityId" validate:"required"`
	PassportNo      string `json:"passportNo" validate:"required"`
	BirthDate       string `json:"birthDate" validate:"required,datetime=2006-01-02"`
	Occupation      string `json:"occupation,omitempty"`
	BoardedCountry  string `json:"countryBoarded,omitempty"`
	CountryOfStay   string `json:"countryResidence,omitempty"`
	CityOfStay      string `json:"cityResidence,omitempty"`
	PhoneCode       string `json:"phoneCode,omitempty" validate:"omitempty,numeric"`
	PhoneNo         string `json:"phoneNo,omitempty"`
	Email           string `json:"email,omitempty" validate:"omitempty,email"`
	ArrivalDate     string `json:"arrivalDate" validate:"required,datetime=2006-01-02"`
	DepartureDate   string `json:"departureDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	FlightNo        string `json:"flightNo,omitempty"`
	PurposeID       string `json:"purposeId" validate:"required"`
	TransportID     string `json:"traModeId" validate:"required"`
	AccommodationID string `json:"accTypeId,omitempty"`
	Address         string `json:"address,omitempty"`
	Province        string `json:"province,omitempty"`
	District        string `json:"district,omitempty"`
	PostCode        string `json:"postCode,omitempty"`
}

// CardReceipt is the authority's acknowledgement of a successful submission.
type CardReceipt struct {
	CardNo  string
	RawBody string
}

type tokenRequest struct {
	Token    string `json:"token"`
	Language string `json:"language"`
}

type tokenResponse struct {
	Data struct {
		ActionToken string `json:"actionToken"`
	} `json:"data"`
}

type submitRequest struct {
	ActionToken string      `json:"actionToken"`
	Card        CardPayload `json:"card"`
}

type submitResponse struct {
	Data struct {
		ArrCardNo string `json:"arrCardNo"`
	} `json:"data"`
}

// Client talks to one authority endpoint.
type Client struct {
	baseURL    string
	language   string
	timeout    time.Duration
	maxRetries uint64
	httpClient *http.Client
	log        logging.Logger
}

// NewClient builds a Client. timeout bounds each individual attempt;
// maxRetries is the number of extra attempts after the first.
func NewClient(baseURL, language string, timeout time.Duration, maxRetries uint64, log logging.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		language:   language,
		timeout:    timeout,
		maxRetries: maxRetries,
		httpClient: &http.Client{},
		log:        log.With("component", "authority"),
	}
}

// ExchangeToken trades a verification token for a single-use action token.
// retries is the number of network attempts made beyond the first.
func (c *Client) ExchangeToken(ctx context.Context, verificationToken string) (string, int, error) {
	body, retries, err := c.doPost(ctx, tokenPath, tokenRequest{Token: verificationToken, Language: c.language})
	if err != nil {
		return "", retries, err
	}

	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", retries, fmt.Errorf("decoding token response: %w", err)
	}
	if resp.Data.ActionToken == "" {
		return "", retries, &APIError{StatusCode: http.StatusOK, Category: CategoryOther, Body: string(body)}
	}
	return resp.Data.ActionToken, retries, nil
}

// SubmitCard sends the encoded card form under the given action token.
func (c *Client) SubmitCard(ctx context.Context, actionToken string, p CardPayload) (*CardReceipt, int, error) {
	body, retries, err := c.doPost(ctx, submitPath, submitRequest{ActionToken: actionToken, Card: p})
	if err != nil {
		return nil, retries, err
	}

	var resp submitResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, retries, fmt.Errorf("decoding submit response: %w", err)
	}
	return &CardReceipt{CardNo: resp.Data.ArrCardNo, RawBody: string(body)}, retries, nil
}

// doPost performs one JSON POST with per-attempt timeout and exponential
// backoff on transport failures. It returns the response body, the number of
// retries performed and, on failure, an *APIError.
func (c *Client) doPost(ctx context.Context, path string, reqBody any) ([]byte, int, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("encoding request: %w", err)
	}

	var body []byte
	attempts := 0
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(2*time.Second))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.log.Warn(ctx, "authority call failed", "path", path, "attempt", attempts, "err", err)
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			c.log.Warn(ctx, "reading authority response failed", "path", path, "attempt", attempts, "err", err)
			return retry.RetryableError(err)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			// The authority answered; its verdict is final.
			return &APIError{StatusCode: resp.StatusCode, Category: Classify(resp.StatusCode), Body: string(b)}
		}

		body = b
		return nil
	})

	retries := attempts - 1
	if retries < 0 {
		retries = 0
	}

	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, retries, apiErr
		}
		return nil, retries, &APIError{Category: CategoryNetwork, Body: err.Error()}
	}
	return body, retries, nil
}
