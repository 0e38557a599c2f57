package gateways

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hecksum/hecksum/internal/domain/entities"
)

// DefaultTrackerURL is the Checks table the hosted tracker lives in.
const DefaultTrackerURL = "https://api.airtable.com/v0/appPt1p6IWk5Cjv2E/Checks"

// AirtableTracker implements gateways.Tracker against the Airtable records
// API. One POST files one check; there is no retry or idempotency contract,
// so a failed submission is returned to the caller untouched.
type AirtableTracker struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewAirtableTracker creates a tracker gateway. baseURL is the full records
// endpoint for the Checks table; apiKey is the bearer credential.
func NewAirtableTracker(baseURL, apiKey string) *AirtableTracker {
	return &AirtableTracker{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// checkRecord is the wire shape of one submitted check. Field names match
// the columns of the tracking table; typecast lets the service coerce the
// status string into its single-select column.
type checkRecord struct {
	Fields   checkFields `json:"fields"`
	Typecast bool        `json:"typecast"`
}

type checkFields struct {
	Project     []string `json:"Project"`
	Status      string   `json:"Status"`
	ChecksumURL string   `json:"Checksum URL,omitempty"`
	Download    string   `json:"Download,omitempty"`
	Checksum    string   `json:"Checksum,omitempty"`
}

// SubmitCheck files one check result with the tracking service.
func (t *AirtableTracker) SubmitCheck(ctx context.Context, check *entities.Check) error {
	record := checkRecord{
		Fields: checkFields{
			Project:     []string{check.Project.TrackerID},
			Status:      string(check.Status),
			ChecksumURL: check.ChecksumURL,
			Download:    check.DownloadURL,
			Checksum:    check.Checksum,
		},
		Typecast: true,
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode check record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("tracker request failed: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 512))
		if readErr != nil {
			return fmt.Errorf("tracker error %d (failed to read response)", resp.StatusCode)
		}
		return fmt.Errorf("tracker error %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
