package external

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PlatformClient calls the hosted platform's remote procedures. Check-in
// token validation and the check-in state transition live there, not in
// this service.
type PlatformClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type PlatformConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// RPC request/response models. Responses are a tagged success/error pair
// parsed once at this boundary.
type ValidateTokenRequest struct {
	Token   string `json:"token"`
	GuideID int64  `json:"guide_id"`
}

type ValidateTokenResponse struct {
	Success   bool   `json:"success"`
	BookingID int64  `json:"booking_id"`
	Error     string `json:"error,omitempty"`
}

type ProcessCheckinRequest struct {
	BookingID int64  `json:"booking_id"`
	Token     string `json:"token"`
	GuideID   int64  `json:"guide_id"`
}

type ProcessCheckinResponse struct {
	Success     bool   `json:"success"`
	CheckinTime string `json:"checkin_time,omitempty"`
	Error       string `json:"error,omitempty"`
}

// RemoteError carries the platform's error message verbatim so the UI can
// surface it unchanged.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

func NewPlatformClient(cfg PlatformConfig) *PlatformClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &PlatformClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// ValidateCheckinToken asks the platform whether the scanned token belongs
// to a booking this guide may check in.
func (pc *PlatformClient) ValidateCheckinToken(token string, guideID int64) (*ValidateTokenResponse, error) {
	req := ValidateTokenRequest{Token: token, GuideID: guideID}

	var result ValidateTokenResponse
	if err := pc.post("/rpc/validate_checkin_token", req, &result); err != nil {
		return nil, err
	}

	if !result.Success {
		return nil, &RemoteError{Message: result.Error}
	}

	return &result, nil
}

// ProcessCheckin performs the check-in state transition on the platform.
func (pc *PlatformClient) ProcessCheckin(bookingID int64, token string, guideID int64) (*ProcessCheckinResponse, error) {
	req := ProcessCheckinRequest{BookingID: bookingID, Token: token, GuideID: guideID}

	var result ProcessCheckinResponse
	if err := pc.post("/rpc/process_checkin", req, &result); err != nil {
		return nil, err
	}

	if !result.Success {
		return nil, &RemoteError{Message: result.Error}
	}

	return &result, nil
}

func (pc *PlatformClient) post(path string, payload, result any) error {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, pc.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if pc.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+pc.apiKey)
	}

	resp, err := pc.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
