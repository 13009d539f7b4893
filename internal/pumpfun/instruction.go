package pumpfun

import (
	"encoding/binary"

	solana "github.com/gagliardetto/solana-go"
)

// TradeAccounts names the per-trade accounts that vary between calls; the
// protocol-constant accounts are filled in by the builders.
type TradeAccounts struct {
	Mint                   solana.PublicKey
	BondingCurve           solana.PublicKey
	AssociatedBondingCurve solana.PublicKey
	UserTokenAccount       solana.PublicKey
	Owner                  solana.PublicKey
}

// BuyInstruction assembles the buy against the curve. The account order is
// positional protocol ABI and must not change.
func BuyInstruction(accts TradeAccounts, tokenOut, maxSolCost uint64) solana.Instruction {
	metas := solana.AccountMetaSlice{
		solana.NewAccountMeta(GlobalState, false, false),
		solana.NewAccountMeta(FeeRecipient, true, false),
		solana.NewAccountMeta(accts.Mint, false, false),
		solana.NewAccountMeta(accts.BondingCurve, true, false),
		solana.NewAccountMeta(accts.AssociatedBondingCurve, true, false),
		solana.NewAccountMeta(accts.UserTokenAccount, true, false),
		solana.NewAccountMeta(accts.Owner, true, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(solana.SysVarRentPubkey, false, false),
		solana.NewAccountMeta(EventAuthority, false, false),
		solana.NewAccountMeta(ProgramID, false, false),
	}
	return solana.NewInstruction(ProgramID, metas, encodeOperands(buyDiscriminator, tokenOut, maxSolCost))
}

// SellInstruction assembles the sell. Relative to buy, the rent sysvar slot is
// replaced by the associated token program ahead of the token program.
func SellInstruction(accts TradeAccounts, tokenIn, minSolOut uint64) solana.Instruction {
	metas := solana.AccountMetaSlice{
		solana.NewAccountMeta(GlobalState, false, false),
		solana.NewAccountMeta(FeeRecipient, true, false),
		solana.NewAccountMeta(accts.Mint, false, false),
		solana.NewAccountMeta(accts.BondingCurve, true, false),
		solana.NewAccountMeta(accts.AssociatedBondingCurve, true, false),
		solana.NewAccountMeta(accts.UserTokenAccount, true, false),
		solana.NewAccountMeta(accts.Owner, true, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(solana.SPLAssociatedTokenAccountProgramID, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(EventAuthority, false, false),
		solana.NewAccountMeta(ProgramID, false, false),
	}
	return solana.NewInstruction(ProgramID, metas, encodeOperands(sellDiscriminator, tokenIn, minSolOut))
}

// encodeOperands packs discriminator, amount, and bound as three u64 LE words.
func encodeOperands(discriminator, amount, bound uint64) []byte {
	data := make([]byte, 24)
	binary.LittleEndian.PutUint64(data[0:8], discriminator)
	binary.LittleEndian.PutUint64(data[8:16], amount)
	binary.LittleEndian.PutUint64(data[16:24], bound)
	return data
}
