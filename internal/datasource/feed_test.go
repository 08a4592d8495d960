package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/rank-engine/internal/models"
)

func testFeedClient(serverURL string) *OutcomeFeedClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	client := NewRateLimitedHTTPClient(cfg, nil)
	return NewOutcomeFeedClient(client, serverURL, "test-key")
}

func feedOutcome(correct bool) *models.VerifiedOutcome {
	predID := uuid.New()
	return &models.VerifiedOutcome{
		Prediction: models.PredictionRecord{
			ID:         predID,
			ModelID:    uuid.New(),
			Sport:      "nba",
			BetType:    models.BetTypeMoneyline,
			Subject:    "LAL@BOS",
			Prediction: "BOS",
			Confidence: 0.65,
			Odds:       decimal.NewFromFloat(1.91),
			Stance:     models.StanceOriginal,
			CreatedAt:  time.Now().Add(-48 * time.Hour),
		},
		Outcome: models.OutcomeRecord{
			ID:           uuid.New(),
			PredictionID: predID,
			Correct:      correct,
			ROI:          0.91,
			VerifiedAt:   time.Now().Add(-24 * time.Hour),
		},
	}
}

// TestFetchVerifiedPagination tests that the client follows the cursor until
// the feed reports no further pages
func TestFetchVerifiedPagination(t *testing.T) {
	pages := map[string]feedPage{
		"":     {Outcomes: []*models.VerifiedOutcome{feedOutcome(true), feedOutcome(false)}, NextCursor: "page2"},
		"page2": {Outcomes: []*models.VerifiedOutcome{feedOutcome(true)}, NextCursor: ""},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("sport") != "nba" {
			t.Errorf("Expected sport=nba, got %s", r.URL.Query().Get("sport"))
		}
		page := pages[r.URL.Query().Get("cursor")]
		json.NewEncoder(w).Encode(page)
	}))
	defer server.Close()

	client := testFeedClient(server.URL)
	outcomes, err := client.FetchVerified(context.Background(), "nba", models.BetTypeMoneyline, time.Now().Add(-30*24*time.Hour), time.Now())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(outcomes) != 3 {
		t.Errorf("Expected 3 outcomes across pages, got %d", len(outcomes))
	}
}

// TestFetchVerifiedAuthFailure tests that rejected credentials surface as an
// unavailability error
func TestFetchVerifiedAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := testFeedClient(server.URL)
	_, err := client.FetchVerified(context.Background(), "nba", models.BetTypeMoneyline, time.Now().Add(-time.Hour), time.Now())
	if err == nil {
		t.Fatal("Expected error for unauthorized response, got nil")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got: %v", err)
	}
}

// TestFetchVerifiedBadJSON tests that a malformed feed body is reported as
// invalid data, not unavailability
func TestFetchVerifiedBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	client := testFeedClient(server.URL)
	_, err := client.FetchVerified(context.Background(), "nba", models.BetTypeMoneyline, time.Now().Add(-time.Hour), time.Now())
	if err == nil {
		t.Fatal("Expected error for malformed body, got nil")
	}
	if !errors.Is(err, ErrInvalidData) {
		t.Errorf("Expected ErrInvalidData, got: %v", err)
	}
}

// TestSourceErrorFormat tests the error string layout
func TestSourceErrorFormat(t *testing.T) {
	err := NewSourceError("outcome_feed", ErrCodeServerError, "feed returned 503", nil)
	expected := "outcome_feed: server_error: feed returned 503"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}
}
