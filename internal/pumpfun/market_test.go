package pumpfun

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	solana "github.com/gagliardetto/solana-go"
)

func TestCoinData(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	curve := solana.NewWallet().PublicKey()
	assoc := solana.NewWallet().PublicKey()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/"+mint.String() {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprintf(w, `{"virtual_token_reserves": 500000000, "virtual_sol_reserves": 1000000, "bonding_curve": %q, "associated_bonding_curve": %q}`, curve, assoc)
	}))
	defer server.Close()

	client := NewMarketClient(server.URL, time.Second)
	data, err := client.CoinData(context.Background(), mint)
	if err != nil {
		t.Fatalf("CoinData returned error: %v", err)
	}
	if data.VirtualTokenReserves != 500_000_000 || data.VirtualSolReserves != 1_000_000 {
		t.Fatalf("unexpected reserves: %+v", data)
	}
	if !data.BondingCurve.Equals(curve) || !data.AssociatedBondingCurve.Equals(assoc) {
		t.Fatalf("unexpected curve accounts: %+v", data)
	}
}

func TestCoinDataNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewMarketClient(server.URL, time.Second)
	_, err := client.CoinData(context.Background(), solana.NewWallet().PublicKey())
	if !errors.Is(err, ErrMarketUnavailable) {
		t.Fatalf("expected ErrMarketUnavailable, got %v", err)
	}
}

func TestCoinDataMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"virtual_token_reserves": "not a number"`)
	}))
	defer server.Close()

	client := NewMarketClient(server.URL, time.Second)
	_, err := client.CoinData(context.Background(), solana.NewWallet().PublicKey())
	if !errors.Is(err, ErrMarketUnavailable) {
		t.Fatalf("expected ErrMarketUnavailable, got %v", err)
	}
}

func TestCoinDataMissingFields(t *testing.T) {
	cases := map[string]string{
		"zero reserves": `{"virtual_token_reserves": 0, "virtual_sol_reserves": 1, "bonding_curve": "x", "associated_bonding_curve": "x"}`,
		"bad curve key": `{"virtual_token_reserves": 1, "virtual_sol_reserves": 1, "bonding_curve": "not-base58!", "associated_bonding_curve": "also-bad"}`,
		"empty body":    `{}`,
	}
	for name, body := range cases {
		body := body
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, body)
			}))
			defer server.Close()

			client := NewMarketClient(server.URL, time.Second)
			_, err := client.CoinData(context.Background(), solana.NewWallet().PublicKey())
			if !errors.Is(err, ErrMarketUnavailable) {
				t.Fatalf("expected ErrMarketUnavailable, got %v", err)
			}
		})
	}
}

func TestCoinDataUnreachable(t *testing.T) {
	client := NewMarketClient("http://127.0.0.1:0", time.Second)
	_, err := client.CoinData(context.Background(), solana.NewWallet().PublicKey())
	if !errors.Is(err, ErrMarketUnavailable) {
		t.Fatalf("expected ErrMarketUnavailable, got %v", err)
	}
}
