package domain

import "github.com/shopspring/decimal"

// BookLevel one price level of the synthetic order book.
type BookLevel struct {
	Price  decimal.Decimal `json:"price"`
	Amount decimal.Decimal `json:"amount"`
}

// OrderBookSnapshot full depth snapshot for a pair. Bids are sorted
// descending by price, asks ascending. Snapshots are immutable once
// published; the generator always replaces the whole book.
type OrderBookSnapshot struct {
	Pair Pair        `json:"pair"`
	Bids []BookLevel `json:"bids"`
	Asks []BookLevel `json:"asks"`
}

// BestBid returns the highest bid, or false when the book is empty.
func (s *OrderBookSnapshot) BestBid() (BookLevel, bool) {
	if s == nil || len(s.Bids) == 0 {
		return BookLevel{}, false
	}
	return s.Bids[0], true
}

// BestAsk returns the lowest ask, or false when the book is empty.
func (s *OrderBookSnapshot) BestAsk() (BookLevel, bool) {
	if s == nil || len(s.Asks) == 0 {
		return BookLevel{}, false
	}
	return s.Asks[0], true
}
