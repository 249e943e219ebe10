// Package domain defines core data structures used throughout the ledger engine.
package domain

import "fmt"

// Asset fungible asset symbol tracked by the ledger.
type Asset string

const (
	// AssetUSDC USD Coin stablecoin.
	AssetUSDC Asset = "USDC"
	// AssetUSDT Tether stablecoin.
	AssetUSDT Asset = "USDT"
	// AssetN9G native protocol token, the staking asset.
	AssetN9G Asset = "N9G"
)

// Assets lists every asset the ledger tracks, in display order.
func Assets() []Asset {
	return []Asset{AssetUSDC, AssetUSDT, AssetN9G}
}

// String returns the string representation.
func (a Asset) String() string {
	return string(a)
}

// IsValid checks if the Asset value is valid.
func (a Asset) IsValid() bool {
	switch a {
	case AssetUSDC, AssetUSDT, AssetN9G:
		return true
	}
	return false
}

// ParseAsset converts a symbol string into an Asset.
func ParseAsset(s string) (Asset, error) {
	a := Asset(s)
	if !a.IsValid() {
		return "", fmt.Errorf("unknown asset: %s", s)
	}
	return a, nil
}
