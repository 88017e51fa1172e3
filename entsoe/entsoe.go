package entsoe

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dayahead/types"
)

// ErrUnauthorized marks a rejected security token, wrapped in a FetchError.
var ErrUnauthorized = errors.New("authentication failed, check api_token")

const (
	apiURL = "https://web-api.tp.entsoe.eu/api"
	// documentType for day-ahead prices
	documentTypeDayAhead = "A44"
	periodLayout         = "200601021504"
)

// Client queries the ENTSO-E Transparency Platform for one bidding zone.
type Client struct {
	token      string
	zone       string
	eic        string
	baseURL    string
	httpClient *http.Client
}

func New(token, country string) (*Client, error) {
	eic, err := ZoneCode(country)
	if err != nil {
		return nil, err
	}
	return &Client{
		token:      token,
		zone:       strings.ToUpper(country),
		eic:        eic,
		baseURL:    apiURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (c *Client) Zone() string { return c.zone }

// GetDayAheadPrices fetches the hourly day-ahead prices covering [start, end)
// in UTC. The returned series is in EUR/MWh with UTC timestamps; hours the
// provider did not publish are simply absent.
func (c *Client) GetDayAheadPrices(ctx context.Context, start, end time.Time) (*types.PriceSeries, error) {
	params := url.Values{}
	params.Set("securityToken", c.token)
	params.Set("documentType", documentTypeDayAhead)
	params.Set("in_Domain", c.eic)
	params.Set("out_Domain", c.eic)
	params.Set("periodStart", start.UTC().Format(periodLayout))
	params.Set("periodEnd", end.UTC().Format(periodLayout))

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &types.FetchError{Reason: "failed to create request", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &types.FetchError{Reason: "provider unreachable", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.FetchError{Reason: "failed to read response body", Err: err}
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &types.FetchError{Reason: "request rejected", Err: ErrUnauthorized}
	default:
		return nil, &types.FetchError{Reason: fmt.Sprintf("unexpected status code %d: %s", resp.StatusCode, snippet(body))}
	}

	// The platform answers some bad requests with status 200 and an
	// acknowledgement document instead of price data.
	if bytes.Contains(body, []byte("Acknowledgement_MarketDocument")) {
		var ack acknowledgementDocument
		if err := xml.Unmarshal(body, &ack); err != nil {
			return nil, &types.FetchError{Reason: "failed to decode acknowledgement", Err: err}
		}
		return nil, &types.FetchError{Reason: fmt.Sprintf("provider rejected the request: %s", ack.reason())}
	}

	return parsePublication(body, c.zone)
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
