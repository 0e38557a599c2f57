package gateways

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hecksum/hecksum/internal/domain/entities"
)

func TestAirtableTracker_SubmitCheck(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q, want bearer credential", auth)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tracker := NewAirtableTracker(server.URL, "test-key")
	check := &entities.Check{
		Project:     entities.Project{Name: "transmission-mac", TrackerID: "recPGEEzOeJ2gNh7u"},
		Status:      entities.StatusPassing,
		Checksum:    "deadbeef",
		ChecksumURL: "https://transmissionbt.com/includes/js/constants.js",
		DownloadURL: "https://releases.example/Transmission-3.00.dmg",
	}

	if err := tracker.SubmitCheck(context.Background(), check); err != nil {
		t.Fatalf("SubmitCheck() error = %v", err)
	}

	if got["typecast"] != true {
		t.Error("payload typecast = false, want true")
	}
	fields, ok := got["fields"].(map[string]any)
	if !ok {
		t.Fatalf("payload fields missing: %v", got)
	}
	project, ok := fields["Project"].([]any)
	if !ok || len(project) != 1 || project[0] != "recPGEEzOeJ2gNh7u" {
		t.Errorf(`fields["Project"] = %v, want record id list`, fields["Project"])
	}
	if fields["Status"] != "Passing" {
		t.Errorf(`fields["Status"] = %v, want "Passing"`, fields["Status"])
	}
	if fields["Checksum URL"] != check.ChecksumURL {
		t.Errorf(`fields["Checksum URL"] = %v, want %q`, fields["Checksum URL"], check.ChecksumURL)
	}
	if fields["Download"] != check.DownloadURL {
		t.Errorf(`fields["Download"] = %v, want %q`, fields["Download"], check.DownloadURL)
	}
	if fields["Checksum"] != check.Checksum {
		t.Errorf(`fields["Checksum"] = %v, want %q`, fields["Checksum"], check.Checksum)
	}
}

// Empty optional fields stay off the wire so the tracker's columns keep their
// blanks instead of storing empty strings.
func TestAirtableTracker_SubmitCheck_OmitsEmptyFields(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tracker := NewAirtableTracker(server.URL, "test-key")
	check := &entities.Check{
		Project: entities.Project{Name: "ghost", TrackerID: "recGhost000000001"},
		Status:  entities.StatusError,
	}

	if err := tracker.SubmitCheck(context.Background(), check); err != nil {
		t.Fatalf("SubmitCheck() error = %v", err)
	}

	fields, ok := got["fields"].(map[string]any)
	if !ok {
		t.Fatalf("payload fields missing: %v", got)
	}
	for _, key := range []string{"Checksum URL", "Download", "Checksum"} {
		if _, present := fields[key]; present {
			t.Errorf("fields[%q] present, want omitted", key)
		}
	}
}

func TestAirtableTracker_SubmitCheck_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"INVALID_REQUEST"}`, http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	tracker := NewAirtableTracker(server.URL, "test-key")
	check := &entities.Check{
		Project: entities.Project{Name: "ghost", TrackerID: "recGhost000000001"},
		Status:  entities.StatusError,
	}

	err := tracker.SubmitCheck(context.Background(), check)
	if err == nil {
		t.Fatal("SubmitCheck() error = nil, want tracker error")
	}
}
