package pumpfun

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	solana "github.com/gagliardetto/solana-go"
)

// ErrMarketUnavailable covers every way the coin-data source can fail to
// produce a usable snapshot: transport errors, non-200 statuses, malformed
// bodies, and zero reserves. All of them are transient from the caller's view.
var ErrMarketUnavailable = errors.New("pumpfun: market data unavailable")

// CoinData is one fresh snapshot of the bonding curve. Reserves move with every
// trade, including our own, so snapshots are never reused across trades.
type CoinData struct {
	VirtualTokenReserves   uint64
	VirtualSolReserves     uint64
	BondingCurve           solana.PublicKey
	AssociatedBondingCurve solana.PublicKey
}

type coinResponse struct {
	VirtualTokenReserves   uint64 `json:"virtual_token_reserves"`
	VirtualSolReserves     uint64 `json:"virtual_sol_reserves"`
	BondingCurve           string `json:"bonding_curve"`
	AssociatedBondingCurve string `json:"associated_bonding_curve"`
}

// MarketClient fetches coin data from the pump.fun frontend API.
type MarketClient struct {
	Base string
	Http *http.Client
}

// NewMarketClient points a client at the coin-data endpoint with a bounded timeout.
func NewMarketClient(base string, timeout time.Duration) *MarketClient {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &MarketClient{
		Base: strings.TrimSuffix(base, "/"),
		Http: &http.Client{Timeout: timeout},
	}
}

// CoinData fetches and strictly decodes the curve snapshot for a mint.
func (m *MarketClient) CoinData(ctx context.Context, mint solana.PublicKey) (*CoinData, error) {
	url := fmt.Sprintf("%s/coins/%s", m.Base, mint.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarketUnavailable, err)
	}
	req.Header.Set("Accept", "*/*")

	resp, err := m.Http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarketUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrMarketUnavailable, resp.StatusCode)
	}

	var wire coinResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: decode body: %v", ErrMarketUnavailable, err)
	}
	return wire.validate()
}

// validate rejects partial responses instead of letting zero values reach the
// quote math.
func (w coinResponse) validate() (*CoinData, error) {
	if w.VirtualTokenReserves == 0 || w.VirtualSolReserves == 0 {
		return nil, fmt.Errorf("%w: zero virtual reserves", ErrMarketUnavailable)
	}
	curve, err := solana.PublicKeyFromBase58(w.BondingCurve)
	if err != nil {
		return nil, fmt.Errorf("%w: bad bonding_curve %q", ErrMarketUnavailable, w.BondingCurve)
	}
	assoc, err := solana.PublicKeyFromBase58(w.AssociatedBondingCurve)
	if err != nil {
		return nil, fmt.Errorf("%w: bad associated_bonding_curve %q", ErrMarketUnavailable, w.AssociatedBondingCurve)
	}
	return &CoinData{
		VirtualTokenReserves:   w.VirtualTokenReserves,
		VirtualSolReserves:     w.VirtualSolReserves,
		BondingCurve:           curve,
		AssociatedBondingCurve: assoc,
	}, nil
}
