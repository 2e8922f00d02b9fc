// Package checkin drives the QR check-in flow: decoding scanned codes,
// delegating validation to the platform's remote procedures and tracking
// the scanner state machine.
package checkin

import (
	"fmt"
	"sync"
	"time"

	"github.com/Kenia972/myyowntour-sub000/internal/external"
)

// State is the scanner state. Transitions:
// idle → scanning → processing → success | failure, failure → scanning on
// retry, and any state → idle on close.
type State string

const (
	StateIdle       State = "idle"
	StateScanning   State = "scanning"
	StateProcessing State = "processing"
	StateSuccess    State = "success"
	StateFailure    State = "failure"
)

// CodeSource abstracts the camera stream: a blocking feed of decoded code
// text. Close must release the underlying capture resource.
type CodeSource interface {
	Next() (string, error)
	Close() error
}

// Validator is the pair of platform remote procedures the coordinator
// delegates to. The validation logic itself lives on the platform.
type Validator interface {
	ValidateCheckinToken(token string, guideID int64) (*external.ValidateTokenResponse, error)
	ProcessCheckin(bookingID int64, token string, guideID int64) (*external.ProcessCheckinResponse, error)
}

// Result is the outcome of a successful check-in.
type Result struct {
	Payload     *QRPayload
	CheckinTime time.Time
}

// Coordinator runs the check-in flow for one guide's scanner session.
type Coordinator struct {
	validator Validator
	guideID   int64
	onSuccess func(Result)

	mu      sync.Mutex
	state   State
	lastErr string
	source  CodeSource
}

// NewCoordinator creates an idle coordinator. onSuccess is invoked after a
// completed check-in (notification dispatch); it may be nil.
func NewCoordinator(validator Validator, guideID int64, onSuccess func(Result)) *Coordinator {
	return &Coordinator{
		validator: validator,
		guideID:   guideID,
		onSuccess: onSuccess,
		state:     StateIdle,
	}
}

// State returns the current scanner state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError returns the remote error message of the last failure, verbatim.
func (c *Coordinator) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Open activates the scanner with the given code source and starts
// awaiting codes. Captured codes are submitted sequentially; the loop ends
// when the source is closed or fails.
func (c *Coordinator) Open(source CodeSource) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return fmt.Errorf("scanner already open (state %s)", c.state)
	}
	c.source = source
	c.state = StateScanning
	c.mu.Unlock()

	go func() {
		for {
			code, err := source.Next()
			if err != nil {
				return
			}
			c.Submit(code)
		}
	}()

	return nil
}

// Submit runs one captured code through the flow: parse, validate, check
// in. It returns the result on success; on failure the coordinator holds
// the remote error message and the caller may Retry.
func (c *Coordinator) Submit(code string) (*Result, error) {
	c.mu.Lock()
	if c.state != StateScanning {
		state := c.state
		c.mu.Unlock()
		return nil, fmt.Errorf("scanner not awaiting a code (state %s)", state)
	}
	c.state = StateProcessing
	c.mu.Unlock()

	payload, err := ParsePayload(code)
	if err != nil {
		return nil, c.fail(err)
	}

	// Two sequential remote validations; this service owns neither.
	validated, err := c.validator.ValidateCheckinToken(payload.CheckinToken, c.guideID)
	if err != nil {
		return nil, c.fail(err)
	}

	processed, err := c.validator.ProcessCheckin(validated.BookingID, payload.CheckinToken, c.guideID)
	if err != nil {
		return nil, c.fail(err)
	}

	checkinTime := time.Now()
	if processed.CheckinTime != "" {
		if t, parseErr := time.Parse(time.RFC3339, processed.CheckinTime); parseErr == nil {
			checkinTime = t
		}
	}

	result := Result{Payload: payload, CheckinTime: checkinTime}

	c.mu.Lock()
	c.state = StateSuccess
	c.lastErr = ""
	c.mu.Unlock()

	if c.onSuccess != nil {
		c.onSuccess(result)
	}

	return &result, nil
}

// Rearm readies a scanner for the next participant after a successful
// check-in.
func (c *Coordinator) Rearm() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateSuccess {
		return fmt.Errorf("nothing to rearm (state %s)", c.state)
	}
	c.state = StateScanning
	return nil
}

// Retry returns a failed scanner to the scanning state.
func (c *Coordinator) Retry() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateFailure {
		return fmt.Errorf("nothing to retry (state %s)", c.state)
	}
	c.state = StateScanning
	return nil
}

// Close stops the code source and returns to idle. An in-flight remote
// call is not cancelled; it settles on its own.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	source := c.source
	c.source = nil
	c.state = StateIdle
	c.lastErr = ""
	c.mu.Unlock()

	if source != nil {
		return source.Close()
	}
	return nil
}

func (c *Coordinator) fail(err error) error {
	c.mu.Lock()
	c.state = StateFailure
	c.lastErr = err.Error()
	c.mu.Unlock()
	return err
}
