package pumpfun

import (
	"bytes"
	"encoding/binary"
	"testing"

	solana "github.com/gagliardetto/solana-go"
)

func testAccounts() TradeAccounts {
	return TradeAccounts{
		Mint:                   solana.NewWallet().PublicKey(),
		BondingCurve:           solana.NewWallet().PublicKey(),
		AssociatedBondingCurve: solana.NewWallet().PublicKey(),
		UserTokenAccount:       solana.NewWallet().PublicKey(),
		Owner:                  solana.NewWallet().PublicKey(),
	}
}

func TestBuyInstructionAccountOrder(t *testing.T) {
	accts := testAccounts()
	inst := BuyInstruction(accts, 5_000_000, 12_500)

	if !inst.ProgramID().Equals(ProgramID) {
		t.Fatalf("unexpected program id %s", inst.ProgramID())
	}

	want := []solana.PublicKey{
		GlobalState,
		FeeRecipient,
		accts.Mint,
		accts.BondingCurve,
		accts.AssociatedBondingCurve,
		accts.UserTokenAccount,
		accts.Owner,
		solana.SystemProgramID,
		solana.TokenProgramID,
		solana.SysVarRentPubkey,
		EventAuthority,
		ProgramID,
	}
	metas := inst.Accounts()
	if len(metas) != len(want) {
		t.Fatalf("expected %d accounts, got %d", len(want), len(metas))
	}
	for i, meta := range metas {
		if !meta.PublicKey.Equals(want[i]) {
			t.Fatalf("account %d: expected %s, got %s", i, want[i], meta.PublicKey)
		}
	}

	writable := []bool{false, true, false, true, true, true, true, false, false, false, false, false}
	for i, meta := range metas {
		if meta.IsWritable != writable[i] {
			t.Fatalf("account %d: expected writable=%v", i, writable[i])
		}
		if meta.IsSigner {
			t.Fatalf("account %d: no instruction-level signers expected", i)
		}
	}
}

func TestSellInstructionAccountOrder(t *testing.T) {
	accts := testAccounts()
	inst := SellInstruction(accts, 5_000_000, 7_500)

	metas := inst.Accounts()
	if len(metas) != 12 {
		t.Fatalf("expected 12 accounts, got %d", len(metas))
	}
	if !metas[8].PublicKey.Equals(solana.SPLAssociatedTokenAccountProgramID) {
		t.Fatalf("expected associated token program at slot 8, got %s", metas[8].PublicKey)
	}
	if !metas[9].PublicKey.Equals(solana.TokenProgramID) {
		t.Fatalf("expected token program at slot 9, got %s", metas[9].PublicKey)
	}
	for i, meta := range metas {
		if meta.PublicKey.Equals(solana.SysVarRentPubkey) {
			t.Fatalf("rent sysvar must not appear in sell (slot %d)", i)
		}
	}
}

func TestOperandEncoding(t *testing.T) {
	inst := BuyInstruction(testAccounts(), 5_000_000, 12_500)
	data, err := inst.Data()
	if err != nil {
		t.Fatalf("Data returned error: %v", err)
	}
	if len(data) != 24 {
		t.Fatalf("expected 24-byte operand blob, got %d", len(data))
	}

	want := make([]byte, 24)
	binary.LittleEndian.PutUint64(want[0:8], buyDiscriminator)
	binary.LittleEndian.PutUint64(want[8:16], 5_000_000)
	binary.LittleEndian.PutUint64(want[16:24], 12_500)
	if !bytes.Equal(data, want) {
		t.Fatalf("operand blob mismatch:\n got %x\nwant %x", data, want)
	}

	sell := SellInstruction(testAccounts(), 1, 2)
	sellData, err := sell.Data()
	if err != nil {
		t.Fatalf("Data returned error: %v", err)
	}
	if binary.LittleEndian.Uint64(sellData[0:8]) != sellDiscriminator {
		t.Fatalf("sell discriminator mismatch")
	}
}
