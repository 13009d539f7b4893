// Package curve prices trades against the pump.fun constant-product bonding curve.
//
// Both quotes mirror the on-chain program's integer truncation: every division
// floors, so the local estimate never exceeds what the program will settle.
package curve

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrInvalidInput marks quote parameters that can never price a trade.
	ErrInvalidInput = errors.New("curve: invalid input")
	// ErrOverflow marks a quote whose result does not fit the program's u64 operands.
	ErrOverflow = errors.New("curve: amount overflows u64")
)

// bpsDenom is the basis-point denominator shared by both slippage bounds.
const bpsDenom = 10_000

// BuyQuote is the priced outcome of spending solIn lamports on the curve.
type BuyQuote struct {
	TokenOut   uint64 // floor(solIn * tokenReserves / solReserves)
	MaxSolCost uint64 // floor(solIn * (1 + slippage))
}

// QuoteBuy prices a buy of solInLamports against the virtual reserves with the
// given slippage tolerance in basis points.
func QuoteBuy(solReserves, tokenReserves, solInLamports, slippageBps uint64) (BuyQuote, error) {
	if solReserves == 0 || tokenReserves == 0 || solInLamports == 0 {
		return BuyQuote{}, fmt.Errorf("%w: reserves and input must be positive", ErrInvalidInput)
	}

	tokenOut, err := mulDiv(solInLamports, tokenReserves, 1, solReserves, 1)
	if err != nil {
		return BuyQuote{}, err
	}
	maxSolCost, err := mulDiv(solInLamports, bpsDenom+slippageBps, 1, bpsDenom, 1)
	if err != nil {
		return BuyQuote{}, err
	}
	return BuyQuote{TokenOut: tokenOut, MaxSolCost: maxSolCost}, nil
}

// QuoteSell returns the minimum lamports acceptable for selling tokenIn into the
// curve after applying the slippage haircut. A tolerance of one (10000 bps) or
// more would floor the guarantee to nothing and is rejected.
func QuoteSell(solReserves, tokenReserves, tokenIn, slippageBps uint64) (uint64, error) {
	if solReserves == 0 || tokenReserves == 0 || tokenIn == 0 {
		return 0, fmt.Errorf("%w: reserves and input must be positive", ErrInvalidInput)
	}
	if slippageBps >= bpsDenom {
		return 0, fmt.Errorf("%w: slippage %d bps leaves no output", ErrInvalidInput, slippageBps)
	}
	// floor(tokenIn * (10000-bps) * solReserves / (tokenReserves * 10000)),
	// a single truncation at the end.
	return mulDiv(tokenIn, bpsDenom-slippageBps, solReserves, tokenReserves, bpsDenom)
}

// mulDiv computes floor(a*b*c / (d*e)) exactly, rejecting results beyond u64.
func mulDiv(a, b, c, d, e uint64) (uint64, error) {
	num := new(big.Int).SetUint64(a)
	num.Mul(num, new(big.Int).SetUint64(b))
	num.Mul(num, new(big.Int).SetUint64(c))
	den := new(big.Int).SetUint64(d)
	den.Mul(den, new(big.Int).SetUint64(e))
	num.Quo(num, den)
	if !num.IsUint64() {
		return 0, ErrOverflow
	}
	return num.Uint64(), nil
}
