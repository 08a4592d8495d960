package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/yourusername/rank-engine/internal/models"
)

const feedSourceName = "outcome_feed"

// OutcomeFeedClient pulls settled outcomes from the external verification
// feed over HTTP. The feed returns prediction and outcome pairs already
// joined, paginated by a cursor token.
type OutcomeFeedClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
}

// NewOutcomeFeedClient creates a client for the verification feed
func NewOutcomeFeedClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string) *OutcomeFeedClient {
	return &OutcomeFeedClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// Name returns the name of the outcome source
func (c *OutcomeFeedClient) Name() string {
	return feedSourceName
}

// feedPage is one page of the feed response
type feedPage struct {
	Outcomes   []*models.VerifiedOutcome `json:"outcomes"`
	NextCursor string                    `json:"next_cursor"`
}

// FetchVerified retrieves settled outcomes for one partition in the range,
// following pagination until the feed reports no further pages.
func (c *OutcomeFeedClient) FetchVerified(ctx context.Context, sport models.Sport, betType models.BetType, start, end time.Time) ([]*models.VerifiedOutcome, error) {
	var all []*models.VerifiedOutcome
	cursor := ""

	for {
		page, err := c.fetchPage(ctx, sport, betType, start, end, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Outcomes...)
		if page.NextCursor == "" {
			return all, nil
		}
		cursor = page.NextCursor
	}
}

func (c *OutcomeFeedClient) fetchPage(ctx context.Context, sport models.Sport, betType models.BetType, start, end time.Time, cursor string) (*feedPage, error) {
	endpoint, err := url.Parse(c.baseURL + "/v1/outcomes")
	if err != nil {
		return nil, NewSourceError(feedSourceName, ErrCodeInvalidData, "invalid feed URL", err)
	}

	params := endpoint.Query()
	params.Set("sport", string(sport))
	params.Set("bet_type", string(betType))
	params.Set("verified_after", start.UTC().Format(time.RFC3339))
	params.Set("verified_before", end.UTC().Format(time.RFC3339))
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewSourceError(feedSourceName, ErrCodeNetworkError, "feed request failed", fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, NewSourceError(feedSourceName, ErrCodeAuthenticationFailed, "feed rejected credentials", ErrUnavailable)
	case resp.StatusCode >= 500:
		return nil, NewSourceError(feedSourceName, ErrCodeServerError, fmt.Sprintf("feed returned %d", resp.StatusCode), ErrUnavailable)
	case resp.StatusCode != http.StatusOK:
		return nil, NewSourceError(feedSourceName, ErrCodeInvalidData, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewSourceError(feedSourceName, ErrCodeNetworkError, "failed to read feed response", err)
	}

	var page feedPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, NewSourceError(feedSourceName, ErrCodeInvalidData, "failed to decode feed response", fmt.Errorf("%w: %v", ErrInvalidData, err))
	}

	return &page, nil
}
