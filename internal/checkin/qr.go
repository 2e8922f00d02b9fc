package checkin

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// PayloadType is the fixed discriminator embedded in every scannable code.
const PayloadType = "myowntour_checkin"

// PayloadVersion is the current protocol version of the code payload.
const PayloadVersion = 1

// QRPayload is the structured record serialized into the scannable code:
// JSON, base64-encoded.
type QRPayload struct {
	Type              string    `json:"type"`
	Version           int       `json:"version"`
	BookingID         int64     `json:"booking_id"`
	CheckinToken      string    `json:"checkin_token"`
	ExcursionID       int64     `json:"excursion_id"`
	ClientName        string    `json:"client_name"`
	ClientEmail       string    `json:"client_email"`
	ExcursionTitle    string    `json:"excursion_title"`
	BookingDate       string    `json:"booking_date"`
	ParticipantsCount int       `json:"participants_count"`
	TotalAmountCents  int64     `json:"total_amount_cents"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// EncodePayload serializes a payload into the encoded text embedded in the
// scannable code.
func EncodePayload(p *QRPayload) (string, error) {
	p.Type = PayloadType
	if p.Version == 0 {
		p.Version = PayloadVersion
	}
	if p.GeneratedAt.IsZero() {
		p.GeneratedAt = time.Now()
	}

	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	return base64.StdEncoding.EncodeToString(data), nil
}

// ParsePayload decodes scanned text into a payload record. The type
// discriminator and version are checked strictly: codes from other apps or
// future protocol versions are rejected here rather than at the platform.
func ParsePayload(code string) (*QRPayload, error) {
	data, err := base64.StdEncoding.DecodeString(code)
	if err != nil {
		return nil, fmt.Errorf("code is not valid base64: %w", err)
	}

	var payload QRPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("code is not a valid payload: %w", err)
	}

	if payload.Type != PayloadType {
		return nil, fmt.Errorf("unrecognized code type %q", payload.Type)
	}
	if payload.Version != PayloadVersion {
		return nil, fmt.Errorf("unsupported payload version %d", payload.Version)
	}
	if payload.CheckinToken == "" {
		return nil, fmt.Errorf("payload has no check-in token")
	}
	if payload.BookingID == 0 {
		return nil, fmt.Errorf("payload has no booking id")
	}

	return &payload, nil
}
