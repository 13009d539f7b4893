package pumpfun

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
)

// BondingCurveAccount is the on-chain state of one curve, borsh-encoded. It
// carries the same virtual reserves the HTTP source reports and lets a caller
// cross-check the API against the ledger.
type BondingCurveAccount struct {
	Discriminator        [8]byte
	VirtualTokenReserves uint64
	VirtualSolReserves   uint64
	RealTokenReserves    uint64
	RealSolReserves      uint64
	TokenTotalSupply     uint64
	Complete             bool
}

// DecodeBondingCurve parses raw curve account data fetched from the ledger.
func DecodeBondingCurve(data []byte) (*BondingCurveAccount, error) {
	var account BondingCurveAccount
	if err := bin.NewBorshDecoder(data).Decode(&account); err != nil {
		return nil, fmt.Errorf("decode bonding curve account: %w", err)
	}
	if account.VirtualTokenReserves == 0 || account.VirtualSolReserves == 0 {
		return nil, fmt.Errorf("bonding curve account has zero virtual reserves")
	}
	return &account, nil
}
