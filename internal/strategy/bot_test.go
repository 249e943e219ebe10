package strategy

import (
	"context"
	"testing"
	"time"

	"github.com/nonagonchain/dexcore/internal/activity"
	"github.com/nonagonchain/dexcore/internal/domain"
	"github.com/nonagonchain/dexcore/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticPair struct {
	pair domain.Pair
}

func (s staticPair) Pair() domain.Pair { return s.pair }

func newTestBot() (*Bot, *ledger.Ledger, *activity.Log) {
	l := ledger.New(nil, zap.NewNop())
	log := activity.NewLog(activity.DefaultCapacity)
	bot := NewBot(l, log, staticPair{pair: domain.DefaultPair}, 10*time.Millisecond, zap.NewNop())
	return bot, l, log
}

func TestBot_TickWhileDisabledIsNoop(t *testing.T) {
	bot, l, log := newTestBot()

	assert.True(t, bot.Tick().IsZero())
	assert.True(t, l.Earnings().IsZero())
	assert.Equal(t, 0, log.Len())
}

func TestBot_TickCreditsBoundedProfit(t *testing.T) {
	bot, l, log := newTestBot()
	bot.Enable()

	profit := bot.Tick()

	assert.True(t, profit.GreaterThanOrEqual(decimal.NewFromInt(2)))
	assert.True(t, profit.LessThan(decimal.NewFromInt(7)))
	assert.True(t, l.Earnings().Equal(profit))

	events := log.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.DefaultPair.String(), events[0].Pair)
	assert.Contains(t, domain.BotStrategies(), events[0].Strategy)
	assert.True(t, events[0].Profit.Equal(profit))
}

func TestBot_StatsAccumulate(t *testing.T) {
	bot, _, _ := newTestBot()
	bot.Enable()

	total := decimal.Zero
	for i := 0; i < 5; i++ {
		total = total.Add(bot.Tick())
	}

	stats := bot.Stats()
	assert.True(t, stats.Enabled)
	assert.Equal(t, int64(5), stats.Ticks)
	assert.True(t, stats.TotalProfit.Equal(total))
}

func TestBot_DisableHaltsFutureTicks(t *testing.T) {
	bot, l, _ := newTestBot()
	bot.Enable()
	bot.Tick()
	earned := l.Earnings()

	bot.Disable()
	assert.True(t, bot.Tick().IsZero())
	// committed credit is never rolled back
	assert.True(t, l.Earnings().Equal(earned))
}

func TestBot_RunLifecycle(t *testing.T) {
	bot, l, _ := newTestBot()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = bot.Run(ctx)
	}()

	bot.Enable()
	require.Eventually(t, func() bool {
		return l.Earnings().IsPositive()
	}, time.Second, 5*time.Millisecond)

	bot.Disable()
	// allow an in-flight tick to finish, then the total must hold steady
	time.Sleep(30 * time.Millisecond)
	settled := l.Earnings()
	time.Sleep(50 * time.Millisecond)
	assert.True(t, l.Earnings().Equal(settled), "no ticks after disable")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("bot loop did not stop on cancellation")
	}
}
