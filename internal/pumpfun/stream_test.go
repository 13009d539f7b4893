package pumpfun

import "testing"

func TestDecodeTradeEvent(t *testing.T) {
	frame := []byte(`{"signature":"5sig","mint":"MintAAA","txType":"buy","tokenAmount":123.5,"solAmount":0.01,"traderPublicKey":"TraderBBB"}`)
	event, ok := decodeTradeEvent(frame)
	if !ok {
		t.Fatalf("expected trade event")
	}
	if event.Signature != "5sig" || event.Mint != "MintAAA" || event.TxType != "buy" {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.TokenAmount != 123.5 {
		t.Fatalf("unexpected token amount: %f", event.TokenAmount)
	}
}

func TestDecodeTradeEventSkipsNonTradeFrames(t *testing.T) {
	for _, frame := range []string{
		`{"message":"Successfully subscribed"}`,
		`not json at all`,
		`{"signature":"","mint":""}`,
	} {
		if _, ok := decodeTradeEvent([]byte(frame)); ok {
			t.Fatalf("expected frame to be skipped: %s", frame)
		}
	}
}
