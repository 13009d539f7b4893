// Package wallet owns signing material: the funding key from the environment
// and the persisted child-wallet pool.
package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	solana "github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
)

// FundingKeyEnv names the variable holding the funding wallet's base58 secret.
const FundingKeyEnv = "PUMP_FUNDING_KEY_BASE58"

const secretKeyLen = 64

// FundingKeyFromEnv loads the funding wallet key, honoring a local .env file.
func FundingKeyFromEnv() (solana.PrivateKey, error) {
	_ = godotenv.Load() // best-effort
	b58 := os.Getenv(FundingKeyEnv)
	if b58 == "" {
		return nil, errors.New(FundingKeyEnv + " not set")
	}
	return solana.PrivateKeyFromBase58(b58)
}

// Pool is the persisted set of child wallets. The on-disk form is a JSON list
// of 64-byte secret-key arrays, compatible across runs: once the pool holds at
// least one entry it is never regenerated.
type Pool struct {
	Path string
}

// NewPool points a pool at its backing file.
func NewPool(path string) *Pool { return &Pool{Path: path} }

// Load reads the pool from disk. A missing file is an empty pool, not an error.
func (p *Pool) Load() ([]*solana.Wallet, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read pool: %w", err)
	}

	var raw [][]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode pool: %w", err)
	}

	wallets := make([]*solana.Wallet, 0, len(raw))
	for i, entry := range raw {
		if len(entry) != secretKeyLen {
			return nil, fmt.Errorf("pool entry %d: expected %d bytes, got %d", i, secretKeyLen, len(entry))
		}
		secret := make(solana.PrivateKey, secretKeyLen)
		for j, v := range entry {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("pool entry %d: byte %d out of range", i, j)
			}
			secret[j] = byte(v)
		}
		wallets = append(wallets, &solana.Wallet{PrivateKey: secret})
	}
	return wallets, nil
}

// Ensure returns the persisted pool, generating and saving count fresh wallets
// only when no pool exists yet. An existing pool is returned untouched even if
// its size differs from count.
func (p *Pool) Ensure(count int) ([]*solana.Wallet, error) {
	wallets, err := p.Load()
	if err != nil {
		return nil, err
	}
	if len(wallets) > 0 {
		return wallets, nil
	}

	wallets = make([]*solana.Wallet, count)
	for i := range wallets {
		wallets[i] = solana.NewWallet()
	}
	if err := p.Save(wallets); err != nil {
		return nil, err
	}
	return wallets, nil
}

// Save writes the pool to disk, owner-readable only.
func (p *Pool) Save(wallets []*solana.Wallet) error {
	raw := make([][]int, len(wallets))
	for i, w := range wallets {
		entry := make([]int, len(w.PrivateKey))
		for j, b := range w.PrivateKey {
			entry[j] = int(b)
		}
		raw[i] = entry
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode pool: %w", err)
	}
	if err := os.WriteFile(p.Path, data, 0o600); err != nil {
		return fmt.Errorf("write pool: %w", err)
	}
	return nil
}

// PublicKeys projects the pool onto its distribution targets, in pool order.
func PublicKeys(wallets []*solana.Wallet) []solana.PublicKey {
	keys := make([]solana.PublicKey, len(wallets))
	for i, w := range wallets {
		keys[i] = w.PublicKey()
	}
	return keys
}
