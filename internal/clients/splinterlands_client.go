package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// DefaultSplinterlandsURL public Splinterlands API.
const DefaultSplinterlandsURL = "https://api.splinterlands.com"

// TokenBalance balance of one token symbol held by a player.
type TokenBalance struct {
	Player  string          `json:"player"`
	Token   string          `json:"token"`
	Balance decimal.Decimal `json:"balance"`
}

// SplinterlandsClient reads player data from the Splinterlands API.
type SplinterlandsClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewSplinterlandsClient creates a client against the public API.
func NewSplinterlandsClient(timeout time.Duration) *SplinterlandsClient {
	return NewSplinterlandsClientWithHTTP(&http.Client{Timeout: timeout}, DefaultSplinterlandsURL)
}

// NewSplinterlandsClientWithHTTP creates a client with a custom HTTP client and base URL.
func NewSplinterlandsClientWithHTTP(httpClient *http.Client, baseURL string) *SplinterlandsClient {
	return &SplinterlandsClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Balances returns every token balance of the player.
func (c *SplinterlandsClient) Balances(ctx context.Context, username string) ([]TokenBalance, error) {
	addr := fmt.Sprintf("%s/players/balances?username=%s", c.baseURL, url.QueryEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create balances request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "query balances of %s", username)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("balances of %s: unexpected status code: %d", username, resp.StatusCode)
	}

	var balances []TokenBalance
	if err := json.NewDecoder(resp.Body).Decode(&balances); err != nil {
		return nil, errors.Wrapf(err, "decode balances of %s", username)
	}

	return balances, nil
}
