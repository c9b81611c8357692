package fitbit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

var (
	ErrRequestFailed     = errors.New("fitbit request failed")
	ErrMalformedResponse = errors.New("malformed fitbit response")
)

// Client performs authenticated GETs against the Fitbit Web API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

func NewClient(baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, timeout: timeout}
}

// SeriesPath is the per-user date range path of a time series endpoint, e.g.
// SeriesPath("1.2", "sleep/date", "2023-10-30", "2024-02-07").
func SeriesPath(version, endpoint, start, end string) string {
	return fmt.Sprintf("/%s/user/-/%s/%s/%s.json", version, endpoint, start, end)
}

// Get fetches path with accessToken and decodes the JSON object body.
// Numbers are kept as json.Number so they can be exported verbatim.
func (c *Client) Get(ctx context.Context, accessToken, path string) (map[string]any, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer res.Body.Close()

	if err := googleapi.CheckResponse(res); err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrRequestFailed, path, err)
	}

	var body map[string]any
	dec := json.NewDecoder(res.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", ErrMalformedResponse, path, err)
	}
	return body, nil
}
