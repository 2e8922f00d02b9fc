package external

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// EmailClient sends transactional email through the hosted delivery
// platform.
type EmailClient struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
}

type EmailConfig struct {
	BaseURL     string
	APIKey      string
	FromAddress string
	Timeout     time.Duration
}

type sendEmailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html,omitempty"`
	Text    string `json:"text,omitempty"`
}

type sendEmailResponse struct {
	ID string `json:"id"`
}

func NewEmailClient(cfg EmailConfig) *EmailClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &EmailClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		from:    cfg.FromAddress,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Send delivers one message. HTML and text bodies are both optional but at
// least one should be set.
func (ec *EmailClient) Send(to, subject, htmlBody, textBody string) error {
	req := sendEmailRequest{
		From:    ec.from,
		To:      to,
		Subject: subject,
		HTML:    htmlBody,
		Text:    textBody,
	}

	jsonBody, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, ec.baseURL+"/emails", bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+ec.apiKey)

	resp, err := ec.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result sendEmailResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// SendBookingConfirmation delivers the confirmation with the encoded
// check-in code the guide will scan.
func (ec *EmailClient) SendBookingConfirmation(to, excursionTitle, qrCode string) error {
	subject := fmt.Sprintf("Réservation confirmée : %s", excursionTitle)
	html := fmt.Sprintf("<p>Votre réservation pour <strong>%s</strong> est confirmée.</p><p>Présentez ce code à votre guide :</p><pre>%s</pre>", excursionTitle, qrCode)
	return ec.Send(to, subject, html, "")
}

// SendReminder nudges a client the day before the excursion.
func (ec *EmailClient) SendReminder(to, excursionTitle, slotDate string) error {
	subject := fmt.Sprintf("Rappel : %s demain", excursionTitle)
	text := fmt.Sprintf("Votre excursion %s a lieu le %s. À demain !", excursionTitle, slotDate)
	return ec.Send(to, subject, "", text)
}
