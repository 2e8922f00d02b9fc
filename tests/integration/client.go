package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/Kenia972/myyowntour-sub000/internal/models"
)

// TestClient drives the running API over HTTP.
type TestClient struct {
	BaseURL    string
	Email      string
	Password   string
	HTTPClient *http.Client
}

// NewTestClient builds a client from the environment. Integration tests
// are skipped unless API_BASE_URL points at a running server.
func NewTestClient(t *testing.T) *TestClient {
	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		t.Skip("API_BASE_URL not set, skipping integration test")
	}

	return &TestClient{
		BaseURL:  baseURL,
		Email:    envOr("API_TEST_EMAIL", "guide@example.cm"),
		Password: envOr("API_TEST_PASSWORD", "password123"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *TestClient) makeRequest(t *testing.T, method, path string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reqBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	req.SetBasicAuth(c.Email, c.Password)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}

	return resp
}

func decode[T any](t *testing.T, resp *http.Response, expectStatus int) T {
	defer resp.Body.Close()

	var result T
	if resp.StatusCode != expectStatus {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status %d, got %d. Body: %s", expectStatus, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	return result
}

// CreateExcursion registers an excursion.
func (c *TestClient) CreateExcursion(t *testing.T, req models.CreateExcursionRequest) models.CreateExcursionResponse {
	resp := c.makeRequest(t, "POST", "/api/excursions", req)
	return decode[models.CreateExcursionResponse](t, resp, http.StatusCreated)
}

// CreateSlot adds an availability slot.
func (c *TestClient) CreateSlot(t *testing.T, req models.CreateSlotRequest) models.AvailabilitySlot {
	resp := c.makeRequest(t, "POST", "/api/slots", req)
	return decode[models.AvailabilitySlot](t, resp, http.StatusCreated)
}

// ListSlots lists an excursion's slots with derived availability.
func (c *TestClient) ListSlots(t *testing.T, excursionID int64) models.ListSlotsResponse {
	resp := c.makeRequest(t, "GET", fmt.Sprintf("/api/excursions/%d/slots", excursionID), nil)
	return decode[models.ListSlotsResponse](t, resp, http.StatusOK)
}

// SubmitBooking runs the booking submission flow.
func (c *TestClient) SubmitBooking(t *testing.T, req models.SubmitBookingRequest) models.SubmitBookingResponse {
	resp := c.makeRequest(t, "POST", "/api/bookings", req)
	return decode[models.SubmitBookingResponse](t, resp, http.StatusCreated)
}

// SubmitBookingExpectingError posts a submission expected to be
// rejected and returns the error message.
func (c *TestClient) SubmitBookingExpectingError(t *testing.T, req models.SubmitBookingRequest, expectStatus int) string {
	resp := c.makeRequest(t, "POST", "/api/bookings", req)
	result := decode[map[string]string](t, resp, expectStatus)
	return result["error"]
}

// ConfirmBooking confirms a booking after payment.
func (c *TestClient) ConfirmBooking(t *testing.T, bookingID int64) {
	resp := c.makeRequest(t, "PATCH", "/api/bookings/confirm", models.ConfirmBookingRequest{BookingID: bookingID})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, string(body))
	}
}
