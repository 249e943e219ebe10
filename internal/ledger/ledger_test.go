package ledger

import (
	"sync"
	"testing"

	"github.com/nonagonchain/dexcore/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLedger() *Ledger {
	return New(map[domain.Asset]decimal.Decimal{
		domain.AssetUSDC: decimal.NewFromInt(10000),
		domain.AssetUSDT: decimal.NewFromInt(10000),
		domain.AssetN9G:  decimal.NewFromInt(5000),
	}, zap.NewNop())
}

func TestLedger_CreditDebit(t *testing.T) {
	l := newTestLedger()

	require.NoError(t, l.Credit(domain.AssetUSDC, decimal.NewFromInt(500)))
	assert.True(t, l.Balance(domain.AssetUSDC).Equal(decimal.NewFromInt(10500)))

	require.NoError(t, l.Debit(domain.AssetUSDC, decimal.NewFromInt(10500)))
	assert.True(t, l.Balance(domain.AssetUSDC).Equal(decimal.Zero))
}

func TestLedger_DebitInsufficientIsNoop(t *testing.T) {
	l := newTestLedger()

	// one epsilon over the full balance must fail and leave state unchanged
	over := l.Balance(domain.AssetUSDT).Add(decimal.NewFromFloat(0.00000001))
	err := l.Debit(domain.AssetUSDT, over)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	assert.True(t, l.Balance(domain.AssetUSDT).Equal(decimal.NewFromInt(10000)))
}

func TestLedger_NegativeAmountsRejected(t *testing.T) {
	l := newTestLedger()

	err := l.Credit(domain.AssetUSDC, decimal.NewFromInt(-1))
	assert.True(t, errors.Is(err, ErrInvalidAmount))

	err = l.Debit(domain.AssetUSDC, decimal.NewFromInt(-1))
	assert.True(t, errors.Is(err, ErrInvalidAmount))

	assert.True(t, l.Balance(domain.AssetUSDC).Equal(decimal.NewFromInt(10000)))
}

func TestLedger_TransferAtomic(t *testing.T) {
	l := newTestLedger()

	require.NoError(t, l.Transfer(domain.AssetUSDT, decimal.NewFromInt(1000), domain.AssetUSDC, decimal.NewFromInt(999)))
	assert.True(t, l.Balance(domain.AssetUSDT).Equal(decimal.NewFromInt(9000)))
	assert.True(t, l.Balance(domain.AssetUSDC).Equal(decimal.NewFromInt(10999)))

	// failing leg must roll the whole transfer back
	err := l.Transfer(domain.AssetUSDT, decimal.NewFromInt(9001), domain.AssetUSDC, decimal.NewFromInt(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	assert.True(t, l.Balance(domain.AssetUSDT).Equal(decimal.NewFromInt(9000)))
	assert.True(t, l.Balance(domain.AssetUSDC).Equal(decimal.NewFromInt(10999)))
}

func TestLedger_RecordEarningsAnySign(t *testing.T) {
	l := newTestLedger()

	l.RecordEarnings(decimal.NewFromFloat(4.5))
	l.RecordEarnings(decimal.NewFromFloat(-0.2999))
	assert.True(t, l.Earnings().Equal(decimal.NewFromFloat(4.2001)))
}

func TestLedger_SnapshotIsIsolatedCopy(t *testing.T) {
	l := newTestLedger()

	snap := l.Snapshot()
	snap.Balances[domain.AssetUSDC] = decimal.NewFromInt(1)

	assert.True(t, l.Balance(domain.AssetUSDC).Equal(decimal.NewFromInt(10000)))
}

func TestLedger_SnapshotIdempotentRead(t *testing.T) {
	l := newTestLedger()
	l.RecordEarnings(decimal.NewFromFloat(1.23))

	first := l.Snapshot()
	second := l.Snapshot()

	assert.True(t, first.Earnings.Equal(second.Earnings))
	for _, asset := range domain.Assets() {
		assert.True(t, first.Balance(asset).Equal(second.Balance(asset)))
	}
}

func TestLedger_ConcurrentDebitsNeverGoNegative(t *testing.T) {
	l := New(map[domain.Asset]decimal.Decimal{
		domain.AssetUSDC: decimal.NewFromInt(100),
	}, zap.NewNop())

	const workers = 50
	one := decimal.NewFromInt(1)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	// 50 workers issue 4 debits of 1 each against a balance of 100:
	// exactly 100 debits may succeed, the rest must fail cleanly.
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 4; j++ {
				if err := l.Debit(domain.AssetUSDC, one); err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, succeeded)
	assert.True(t, l.Balance(domain.AssetUSDC).Equal(decimal.Zero))
	assert.False(t, l.Balance(domain.AssetUSDC).IsNegative())
}

func TestLedger_ConcurrentMixedOpsConserveSum(t *testing.T) {
	l := New(map[domain.Asset]decimal.Decimal{
		domain.AssetUSDT: decimal.NewFromInt(1000),
	}, zap.NewNop())

	const rounds = 200
	amount := decimal.NewFromInt(2)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			assert.NoError(t, l.Credit(domain.AssetUSDT, amount))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			assert.NoError(t, l.Debit(domain.AssetUSDT, amount))
		}
	}()
	wg.Wait()

	// equal numbers of valid credits and debits of the same size
	assert.True(t, l.Balance(domain.AssetUSDT).Equal(decimal.NewFromInt(1000)))
}
