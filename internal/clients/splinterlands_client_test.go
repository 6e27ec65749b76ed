package clients_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/splvaluer/internal/clients"
)

const balancesResponse = `[
	{"player":"mythic534","token":"DEC","balance":1523.456},
	{"player":"mythic534","token":"SPS","balance":12.5},
	{"player":"mythic534","token":"SPSP","balance":100},
	{"player":"mythic534","token":"CREDITS","balance":0}
]`

func TestSplinterlandsClientParsesBalances(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/players/balances" || r.URL.Query().Get("username") != "mythic534" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(balancesResponse))
	}))
	defer server.Close()

	client := clients.NewSplinterlandsClientWithHTTP(server.Client(), server.URL+"/")

	balances, err := client.Balances(context.Background(), "mythic534")
	require.NoError(t, err)
	require.Len(t, balances, 4)

	assert.Equal(t, "DEC", balances[0].Token)
	assert.True(t, balances[0].Balance.Equal(decimal.RequireFromString("1523.456")))
	assert.Equal(t, "SPSP", balances[2].Token)
	assert.True(t, balances[2].Balance.Equal(decimal.NewFromInt(100)))
}

func TestSplinterlandsClientMalformedBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"player not found"}`))
	}))
	defer server.Close()

	client := clients.NewSplinterlandsClientWithHTTP(server.Client(), server.URL)

	_, err := client.Balances(context.Background(), "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode balances of ghost")
}

func TestSplinterlandsClientUnexpectedStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := clients.NewSplinterlandsClientWithHTTP(server.Client(), server.URL)

	_, err := client.Balances(context.Background(), "mythic534")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
