package checkin

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeParsePayload(t *testing.T) {
	payload := &QRPayload{
		BookingID:         42,
		CheckinToken:      "2f9c4c5e-1111-4a2b-9c3d-deadbeef0042",
		ExcursionID:       7,
		ClientName:        "Marie Dubois",
		ClientEmail:       "marie@example.com",
		ExcursionTitle:    "Kayak dans la mangrove",
		BookingDate:       "2026-09-12",
		ParticipantsCount: 3,
		TotalAmountCents:  13500,
	}

	code, err := EncodePayload(payload)
	require.NoError(t, err)

	parsed, err := ParsePayload(code)
	require.NoError(t, err)

	assert.Equal(t, PayloadType, parsed.Type)
	assert.Equal(t, PayloadVersion, parsed.Version)
	assert.Equal(t, int64(42), parsed.BookingID)
	assert.Equal(t, "Marie Dubois", parsed.ClientName)
	assert.Equal(t, 3, parsed.ParticipantsCount)
	assert.WithinDuration(t, time.Now(), parsed.GeneratedAt, time.Minute)
}

func TestParsePayload_RejectsGarbage(t *testing.T) {
	_, err := ParsePayload("not-base64!!!")
	assert.Error(t, err)

	_, err = ParsePayload(base64.StdEncoding.EncodeToString([]byte("plain text")))
	assert.Error(t, err)
}

func TestParsePayload_RejectsForeignType(t *testing.T) {
	code := base64.StdEncoding.EncodeToString([]byte(
		`{"type":"other_app_ticket","version":1,"booking_id":1,"checkin_token":"t"}`))

	_, err := ParsePayload(code)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized code type")
}

func TestParsePayload_RejectsFutureVersion(t *testing.T) {
	code := base64.StdEncoding.EncodeToString([]byte(
		`{"type":"myowntour_checkin","version":9,"booking_id":1,"checkin_token":"t"}`))

	_, err := ParsePayload(code)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported payload version")
}

func TestParsePayload_RequiresTokenAndBooking(t *testing.T) {
	noToken := base64.StdEncoding.EncodeToString([]byte(
		`{"type":"myowntour_checkin","version":1,"booking_id":1}`))
	_, err := ParsePayload(noToken)
	assert.Error(t, err)

	noBooking := base64.StdEncoding.EncodeToString([]byte(
		`{"type":"myowntour_checkin","version":1,"checkin_token":"t"}`))
	_, err = ParsePayload(noBooking)
	assert.Error(t, err)
}
