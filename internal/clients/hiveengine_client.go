package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	// DefaultHiveEngineURL public Hive Engine contracts RPC endpoint.
	DefaultHiveEngineURL = "https://api.hive-engine.com/rpc/contracts"

	lastPricePath = "$.result.lastPrice"
)

// ErrNoPrice is returned when the market has no last price for a symbol.
var ErrNoPrice = errors.New("no last price")

// HiveEngineClient reads market metrics from the Hive Engine sidechain.
// Prices are quoted in HIVE.
type HiveEngineClient struct {
	httpClient *http.Client
	rpcURL     string
}

// NewHiveEngineClient creates a client against the public endpoint.
func NewHiveEngineClient(timeout time.Duration) *HiveEngineClient {
	return NewHiveEngineClientWithHTTP(&http.Client{Timeout: timeout}, DefaultHiveEngineURL)
}

// NewHiveEngineClientWithHTTP creates a client with a custom HTTP client and RPC URL.
func NewHiveEngineClientWithHTTP(httpClient *http.Client, rpcURL string) *HiveEngineClient {
	return &HiveEngineClient{
		httpClient: httpClient,
		rpcURL:     rpcURL,
	}
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      int       `json:"id"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
}

type rpcParams struct {
	Contract string            `json:"contract"`
	Table    string            `json:"table"`
	Query    map[string]string `json:"query"`
}

// LastPrice returns the last traded price of symbol in HIVE.
func (c *HiveEngineClient) LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "findOne",
		Params: rpcParams{
			Contract: "market",
			Table:    "metrics",
			Query:    map[string]string{"symbol": symbol},
		},
	})
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "encode market request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "create market request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "query market metrics for %s", symbol)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("market metrics for %s: unexpected status code: %d", symbol, resp.StatusCode)
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, errors.Wrapf(err, "decode market metrics for %s", symbol)
	}

	return parseLastPrice(symbol, payload)
}

func parseLastPrice(symbol string, payload any) (decimal.Decimal, error) {
	v, err := jsonpath.Get(lastPricePath, payload)
	if err != nil {
		// a null result makes the path unresolvable
		return decimal.Zero, errors.Wrapf(ErrNoPrice, "%s: %v", symbol, err)
	}

	var raw string
	switch p := v.(type) {
	case string:
		raw = strings.TrimSpace(p)
	case float64:
		return decimal.NewFromFloat(p), nil
	case nil:
	default:
		return decimal.Zero, errors.Errorf("%s: unexpected lastPrice type %T", symbol, v)
	}
	if raw == "" {
		return decimal.Zero, errors.Wrap(ErrNoPrice, symbol)
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "%s: parse lastPrice %q", symbol, raw)
	}
	return price, nil
}
