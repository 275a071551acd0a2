package runtime

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/shopspring/decimal"
)

// StrategyApi is what a strategy sees while it processes a kline. Order methods queue a
// PENDING order and return its id. Quantities and prices are rounded to the symbol's
// precision, lot step and tick before the order is queued; the order processor validates
// them when the pending queue is processed.
//
//nolint:interfacebloat // one method per order type and side
type StrategyApi interface {
	EnterMarket(quantity decimal.Decimal) (string, error)
	EnterLimit(quantity, limitPrice decimal.Decimal) (string, error)
	EnterStopMarket(quantity, stopPrice decimal.Decimal) (string, error)
	EnterStopLimit(quantity, stopPrice, limitPrice decimal.Decimal) (string, error)

	ExitMarket(quantity decimal.Decimal) (string, error)
	ExitLimit(quantity, limitPrice decimal.Decimal) (string, error)
	ExitStopMarket(quantity, stopPrice decimal.Decimal) (string, error)
	ExitStopLimit(quantity, stopPrice, limitPrice decimal.Decimal) (string, error)

	// CancelOrder queues a CANCEL order for the opening order orderID.
	CancelOrder(orderID string) (string, error)
	// CancelAllOrders queues a CANCEL order for every opening order matching filter and
	// returns the ids of the CANCEL orders.
	CancelAllOrders(filter CancelFilter) ([]string, error)

	StrategyModule() types.StrategyModule
	OpeningOrders() []types.TradingOrder
	OpeningTrades() []types.OpeningTrade
	ClosedTrades() []types.ClosedTrade
}
