package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpeningTrade is a position opened by a filled ENTRY order and not closed yet.
type OpeningTrade struct {
	ID         string       `yaml:"id" json:"id" csv:"id"`
	EntryOrder TradingOrder `yaml:"entry_order" json:"entry_order" csv:"-"`
	// TradeQuantity is the asset quantity actually held: the entry quantity minus the fee
	// when the fee was charged in the asset currency.
	TradeQuantity    decimal.Decimal `yaml:"trade_quantity" json:"trade_quantity" csv:"trade_quantity"`
	MaxPrice         decimal.Decimal `yaml:"max_price" json:"max_price" csv:"max_price"`
	MinPrice         decimal.Decimal `yaml:"min_price" json:"min_price" csv:"min_price"`
	MaxRunup         decimal.Decimal `yaml:"max_runup" json:"max_runup" csv:"max_runup"`
	MaxDrawdown      decimal.Decimal `yaml:"max_drawdown" json:"max_drawdown" csv:"max_drawdown"`
	UnrealizedReturn decimal.Decimal `yaml:"unrealized_return" json:"unrealized_return" csv:"unrealized_return"`
}

// EntryPrice is the fill price of the entry order.
func (t OpeningTrade) EntryPrice() decimal.Decimal {
	return FilledPrice(t.EntryOrder)
}

// EntryQuantity is the quantity of the entry order, fees included.
func (t OpeningTrade) EntryQuantity() decimal.Decimal {
	return t.EntryOrder.GetQuantity()
}

// EntryValue is the capital spent on the entry.
func (t OpeningTrade) EntryValue() decimal.Decimal {
	return t.EntryQuantity().Mul(t.EntryPrice())
}

// OpenedAt is the fill time of the entry order.
func (t OpeningTrade) OpenedAt() time.Time {
	return t.EntryOrder.Header().FilledAt.TakeOr(t.EntryOrder.Header().CreatedAt)
}

// ClosedTrade is an opening trade fully matched against a filled EXIT order.
type ClosedTrade struct {
	OpeningTrade `yaml:",inline" json:"opening_trade"`
	ExitOrder    TradingOrder `yaml:"exit_order" json:"exit_order" csv:"-"`
	// NetReturn is (exit value - exit fee) - entry value.
	NetReturn decimal.Decimal `yaml:"net_return" json:"net_return" csv:"net_return"`
}

// ClosedAt is the fill time of the exit order.
func (t ClosedTrade) ClosedAt() time.Time {
	return t.ExitOrder.Header().FilledAt.TakeOr(t.ExitOrder.Header().CreatedAt)
}

// Trades holds the opening and closed trades of a strategy in creation order.
type Trades struct {
	Opening []OpeningTrade `yaml:"opening" json:"opening"`
	Closed  []ClosedTrade  `yaml:"closed" json:"closed"`
}

// NewTrades returns an empty trade history.
func NewTrades() Trades {
	return Trades{
		Opening: []OpeningTrade{},
		Closed:  []ClosedTrade{},
	}
}

// Snapshot is the full state of a strategy between two processing steps.
type Snapshot struct {
	Strategy StrategyModule `yaml:"strategy" json:"strategy"`
	Orders   Orders         `yaml:"orders" json:"orders"`
	Trades   Trades         `yaml:"trades" json:"trades"`
}

// NewSnapshot returns the state of a strategy before its first kline.
func NewSnapshot(strategy StrategyModule) Snapshot {
	return Snapshot{
		Strategy: strategy,
		Orders:   NewOrders(),
		Trades:   NewTrades(),
	}
}
