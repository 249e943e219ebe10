package fees

import (
	"testing"

	"github.com/nonagonchain/dexcore/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRate(t *testing.T) {
	assert.True(t, Rate(domain.RoleMaker).Equal(decimal.NewFromFloat(-0.0001)))
	assert.True(t, Rate(domain.RoleTaker).Equal(decimal.NewFromFloat(0.0003)))
}

func TestQuote_BuyTaker(t *testing.T) {
	price := decimal.NewFromFloat(0.9998)
	amount := decimal.NewFromInt(1000)

	legs := Quote(domain.SideBuy, domain.RoleTaker, price, amount)

	notional := decimal.NewFromFloat(999.8)
	fee := notional.Mul(decimal.NewFromFloat(0.0003)) // 0.29994

	assert.True(t, legs.Notional.Equal(notional))
	assert.True(t, legs.Fee.Equal(fee))
	assert.True(t, legs.QuoteDelta.Equal(notional.Add(fee)), "buyer pays notional plus fee")
	assert.True(t, legs.BaseDelta.Equal(amount))
	assert.True(t, legs.EarningsDelta.Equal(fee.Neg()), "taker fee reduces earnings")
}

func TestQuote_BuyMakerRebate(t *testing.T) {
	price := decimal.NewFromInt(1)
	amount := decimal.NewFromInt(1000)

	legs := Quote(domain.SideBuy, domain.RoleMaker, price, amount)

	fee := decimal.NewFromFloat(0.1)
	assert.True(t, legs.Fee.Equal(fee))
	assert.True(t, legs.QuoteDelta.Equal(decimal.NewFromFloat(999.9)), "rebate lowers the cost")
	assert.True(t, legs.EarningsDelta.Equal(fee), "maker rebate increases earnings")
}

func TestQuote_SellMirrorsBuy(t *testing.T) {
	price := decimal.NewFromFloat(0.9997)
	amount := decimal.NewFromInt(500)
	notional := price.Mul(amount)

	taker := Quote(domain.SideSell, domain.RoleTaker, price, amount)
	assert.True(t, taker.QuoteDelta.Equal(notional.Sub(taker.Fee)), "taker proceeds are net of fee")

	maker := Quote(domain.SideSell, domain.RoleMaker, price, amount)
	assert.True(t, maker.QuoteDelta.Equal(notional.Add(maker.Fee)), "maker proceeds include rebate")
}

func TestQuote_ConservationAtTradePrice(t *testing.T) {
	// value moved in quote terms must equal notional once the fee leg is
	// separated out: quote spent - fee == base received * price
	price := decimal.NewFromFloat(0.9998)
	amount := decimal.NewFromInt(1234)

	legs := Quote(domain.SideBuy, domain.RoleTaker, price, amount)

	baseValue := legs.BaseDelta.Mul(price)
	assert.True(t, legs.QuoteDelta.Sub(legs.Fee).Equal(baseValue))
}
