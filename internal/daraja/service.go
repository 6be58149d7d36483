package daraja

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// AccessTokenResponse is the OAuth payload from /oauth/v1/generate.
type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// STKPushResponse is the acknowledgement from /mpesa/stkpush/v1/processrequest.
// On gateway-side rejection the errorCode/errorMessage pair is set instead.
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
	ErrorCode           string `json:"errorCode"`
	ErrorMessage        string `json:"errorMessage"`
}

// APIError surfaces a non-2xx gateway response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("daraja api error: status=%d body=%s", e.StatusCode, e.Body)
}

// Service performs the two remote Daraja operations. Each call emits exactly
// a Loading value followed by one terminal Success or Error, then closes the
// channel. Implementations never panic or leak raw faults.
type Service interface {
	AccessToken(ctx context.Context, basicCredential string) <-chan Resource[AccessTokenResponse]
	STKPush(ctx context.Context, req STKPushRequest, bearerToken string) <-chan Resource[STKPushResponse]
}

// BaseURL returns the Daraja endpoint for the environment.
func BaseURL(environment string) string {
	if environment == "production" {
		return "https://api.safaricom.co.ke"
	}
	return "https://sandbox.safaricom.co.ke"
}

type stkService struct {
	http    *http.Client
	baseURL string
}

// NewService creates the HTTP transport against the given environment.
func NewService(environment string) Service {
	return &stkService{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: BaseURL(environment),
	}
}

// NewServiceWithBaseURL is the test seam: same transport, explicit endpoint.
func NewServiceWithBaseURL(baseURL string, client *http.Client) Service {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &stkService{http: client, baseURL: baseURL}
}

func (s *stkService) AccessToken(ctx context.Context, basicCredential string) <-chan Resource[AccessTokenResponse] {
	out := make(chan Resource[AccessTokenResponse], 2)
	go func() {
		defer close(out)
		out <- Loading[AccessTokenResponse]()

		url := s.baseURL + "/oauth/v1/generate?grant_type=client_credentials"
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			out <- Failure[AccessTokenResponse]("", fmt.Errorf("build auth request: %w", err))
			return
		}
		req.Header.Set("Authorization", "Basic "+basicCredential)

		var token AccessTokenResponse
		if err := s.do(req, &token); err != nil {
			out <- Failure[AccessTokenResponse](gatewayReason(err), err)
			return
		}
		out <- Success(&token)
	}()
	return out
}

func (s *stkService) STKPush(ctx context.Context, pushReq STKPushRequest, bearerToken string) <-chan Resource[STKPushResponse] {
	out := make(chan Resource[STKPushResponse], 2)
	go func() {
		defer close(out)
		out <- Loading[STKPushResponse]()

		body, err := json.Marshal(pushReq)
		if err != nil {
			out <- Failure[STKPushResponse]("", fmt.Errorf("marshal stk payload: %w", err))
			return
		}

		url := s.baseURL + "/mpesa/stkpush/v1/processrequest"
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			out <- Failure[STKPushResponse]("", fmt.Errorf("build stk request: %w", err))
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+bearerToken)

		var ack STKPushResponse
		if err := s.do(req, &ack); err != nil {
			out <- Failure[STKPushResponse](gatewayReason(err), err)
			return
		}
		if ack.ErrorCode != "" {
			out <- Failure[STKPushResponse](ack.ErrorMessage, &APIError{StatusCode: http.StatusOK, Body: ack.ErrorMessage})
			return
		}
		if ack.ResponseCode != "" && ack.ResponseCode != "0" {
			out <- Failure[STKPushResponse](ack.ResponseDescription, &APIError{StatusCode: http.StatusOK, Body: ack.ResponseDescription})
			return
		}
		out <- Success(&ack)
	}()
	return out
}

// do executes the request and decodes a 2xx JSON body into v. Non-2xx
// responses become *APIError carrying the raw body.
func (s *stkService) do(req *http.Request, v any) error {
	log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("daraja request")

	res, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("daraja request failed: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read daraja response: %w", err)
	}

	log.Debug().Int("status_code", res.StatusCode).Int("body_length", len(data)).Msg("daraja response")

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &APIError{StatusCode: res.StatusCode, Body: string(data)}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode daraja response: %w", err)
	}
	return nil
}

// gatewayReason pulls the gateway's own error text out of an APIError body
// when present, so the state message shows the real rejection reason.
func gatewayReason(err error) string {
	apiErr, ok := err.(*APIError)
	if !ok {
		return ""
	}
	var payload struct {
		ErrorMessage string `json:"errorMessage"`
	}
	if json.Unmarshal([]byte(apiErr.Body), &payload) == nil && payload.ErrorMessage != "" {
		return payload.ErrorMessage
	}
	return ""
}
