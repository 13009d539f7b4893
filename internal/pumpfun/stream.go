package pumpfun

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"bumpbot-go/internal/metrics"
)

// TradeEvent is one live trade observed on the curve for a watched mint.
type TradeEvent struct {
	Signature    string  `json:"signature"`
	Mint         string  `json:"mint"`
	TxType       string  `json:"txType"` // buy|sell
	TokenAmount  float64 `json:"tokenAmount"`
	SolAmount    float64 `json:"solAmount"`
	TraderPubkey string  `json:"traderPublicKey"`
}

// Stream subscribes to the PumpPortal trade feed for a single mint.
type Stream struct {
	url  string
	mint solana.PublicKey
	log  zerolog.Logger
}

// NewStream wires a watcher for live trades on mint.
func NewStream(url string, mint solana.PublicKey, log zerolog.Logger) *Stream {
	return &Stream{url: url, mint: mint, log: log}
}

// Run pushes trade events onto out until the context is canceled, reconnecting
// with capped backoff on transport errors.
func (s *Stream) Run(ctx context.Context, out chan<- TradeEvent) error {
	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.consume(ctx, out); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Warn().Err(err).Msg("trade stream disconnected, retrying")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff = time.Duration(math.Min(float64(maxBackoff), float64(backoff)*1.8))
			continue
		}
		return nil
	}
}

func (s *Stream) consume(ctx context.Context, out chan<- TradeEvent) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	sub := map[string]any{"method": "subscribeTokenTrade", "keys": []string{s.mint.String()}}
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	s.log.Info().Str("mint", s.mint.String()).Msg("subscribed to curve trades")

	conn.SetReadLimit(1 << 20)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		event, ok := decodeTradeEvent(message)
		if !ok {
			continue
		}
		if event.Mint != s.mint.String() {
			continue
		}
		select {
		case out <- event:
			metrics.StreamEventsTotal.WithLabelValues(event.Mint).Inc()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// decodeTradeEvent tolerates non-trade frames (acks, keepalives) by reporting
// ok=false for anything without a signature and mint.
func decodeTradeEvent(message []byte) (TradeEvent, bool) {
	var event TradeEvent
	if err := json.Unmarshal(message, &event); err != nil {
		return TradeEvent{}, false
	}
	if event.Signature == "" || event.Mint == "" {
		return TradeEvent{}, false
	}
	return event, true
}
