// Package ledgerstate persists ledger balances, cumulative earnings and
// the staking position so restarts keep the simulated account intact.
// The order book is regenerable and deliberately not stored.
package ledgerstate

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/nonagonchain/dexcore/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const defaultStateDir = "./wal/state"

// Store persists engine state as a single JSON document.
type Store struct {
	path string
}

// NewStore creates a state store under dir, falling back to the default
// state directory when empty.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = defaultStateDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create ledger state dir")
	}
	return &Store{path: filepath.Join(dir, "ledger.json")}, nil
}

// State is the persisted document. Decimal values are stored as strings
// to keep exact precision across the JSON boundary.
type State struct {
	Balances       map[string]string `json:"balances"`
	Earnings       string            `json:"earnings"`
	Staked         string            `json:"staked"`
	LockPeriodDays int               `json:"lock_period_days"`
}

// Snapshot is the decoded counterpart of State.
type Snapshot struct {
	Balances       map[domain.Asset]decimal.Decimal
	Earnings       decimal.Decimal
	Staked         decimal.Decimal
	LockPeriodDays int
}

// Load reads persisted state from disk. Returns nil when nothing was
// saved yet.
func (s *Store) Load() (*Snapshot, error) {
	if s == nil || s.path == "" {
		return nil, nil
	}

	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read ledger state")
	}
	if len(payload) == 0 {
		return nil, nil
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, errors.Wrap(err, "decode ledger state")
	}

	snapshot := &Snapshot{
		Balances:       make(map[domain.Asset]decimal.Decimal, len(state.Balances)),
		LockPeriodDays: state.LockPeriodDays,
	}

	for symbol, value := range state.Balances {
		asset, err := domain.ParseAsset(symbol)
		if err != nil {
			return nil, errors.Wrap(err, "restore balance")
		}
		parsed, err := decimal.NewFromString(value)
		if err != nil {
			return nil, errors.Wrapf(err, "decode %s balance", symbol)
		}
		snapshot.Balances[asset] = parsed
	}

	snapshot.Earnings, err = parseOrZero(state.Earnings)
	if err != nil {
		return nil, errors.Wrap(err, "decode earnings")
	}
	snapshot.Staked, err = parseOrZero(state.Staked)
	if err != nil {
		return nil, errors.Wrap(err, "decode staked amount")
	}

	return snapshot, nil
}

// Save writes state to disk atomically via temp file.
func (s *Store) Save(snapshot Snapshot) error {
	if s == nil || s.path == "" {
		return nil
	}

	state := State{
		Balances:       make(map[string]string, len(snapshot.Balances)),
		Earnings:       snapshot.Earnings.String(),
		Staked:         snapshot.Staked.String(),
		LockPeriodDays: snapshot.LockPeriodDays,
	}
	for asset, amount := range snapshot.Balances {
		state.Balances[asset.String()] = amount.String()
	}

	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode ledger state")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return errors.Wrap(err, "write ledger state temp file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "persist ledger state")
	}

	return nil
}

func parseOrZero(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(value)
}
