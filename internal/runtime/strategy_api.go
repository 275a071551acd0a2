package runtime

import (
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/trading_rules"
	"github.com/rxtech-lab/argo-backtest/internal/clock"
	"github.com/rxtech-lab/argo-backtest/internal/idgen"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/shopspring/decimal"
)

// BacktestStrategyApi queues orders on a snapshot. The engine creates one per kline and
// reads the resulting snapshot back with Snapshot.
type BacktestStrategyApi struct {
	snapshot types.Snapshot
	clock    clock.Clock
	ids      idgen.IdGenerator
}

var _ StrategyApi = (*BacktestStrategyApi)(nil)

func NewBacktestStrategyApi(snapshot types.Snapshot, clock clock.Clock, ids idgen.IdGenerator) *BacktestStrategyApi {
	return &BacktestStrategyApi{
		snapshot: snapshot,
		clock:    clock,
		ids:      ids,
	}
}

// Snapshot returns the snapshot with every order queued so far.
func (a *BacktestStrategyApi) Snapshot() types.Snapshot {
	return a.snapshot
}

func (a *BacktestStrategyApi) EnterMarket(quantity decimal.Decimal) (string, error) {
	return a.market(types.OrderSideEntry, quantity)
}

func (a *BacktestStrategyApi) EnterLimit(quantity, limitPrice decimal.Decimal) (string, error) {
	return a.limit(types.OrderSideEntry, quantity, limitPrice)
}

func (a *BacktestStrategyApi) EnterStopMarket(quantity, stopPrice decimal.Decimal) (string, error) {
	return a.stopMarket(types.OrderSideEntry, quantity, stopPrice)
}

func (a *BacktestStrategyApi) EnterStopLimit(quantity, stopPrice, limitPrice decimal.Decimal) (string, error) {
	return a.stopLimit(types.OrderSideEntry, quantity, stopPrice, limitPrice)
}

func (a *BacktestStrategyApi) ExitMarket(quantity decimal.Decimal) (string, error) {
	return a.market(types.OrderSideExit, quantity)
}

func (a *BacktestStrategyApi) ExitLimit(quantity, limitPrice decimal.Decimal) (string, error) {
	return a.limit(types.OrderSideExit, quantity, limitPrice)
}

func (a *BacktestStrategyApi) ExitStopMarket(quantity, stopPrice decimal.Decimal) (string, error) {
	return a.stopMarket(types.OrderSideExit, quantity, stopPrice)
}

func (a *BacktestStrategyApi) ExitStopLimit(quantity, stopPrice, limitPrice decimal.Decimal) (string, error) {
	return a.stopLimit(types.OrderSideExit, quantity, stopPrice, limitPrice)
}

func (a *BacktestStrategyApi) CancelOrder(orderID string) (string, error) {
	if orderID == "" {
		return "", errors.New(errors.ErrCodeMissingParameter, "order id to cancel is required")
	}

	order := types.CancelOrder{
		OrderHeader:     a.header(),
		OrderIDToCancel: orderID,
	}

	return a.queue(order)
}

func (a *BacktestStrategyApi) CancelAllOrders(filter CancelFilter) ([]string, error) {
	ids := []string{}

	for _, order := range a.snapshot.Orders.Opening {
		if !filter.Matches(order) {
			continue
		}

		id, err := a.CancelOrder(order.GetID())
		if err != nil {
			return ids, err
		}

		ids = append(ids, id)
	}

	return ids, nil
}

func (a *BacktestStrategyApi) StrategyModule() types.StrategyModule {
	return a.snapshot.Strategy
}

func (a *BacktestStrategyApi) OpeningOrders() []types.TradingOrder {
	return a.snapshot.Orders.Opening
}

func (a *BacktestStrategyApi) OpeningTrades() []types.OpeningTrade {
	return a.snapshot.Trades.Opening
}

func (a *BacktestStrategyApi) ClosedTrades() []types.ClosedTrade {
	return a.snapshot.Trades.Closed
}

func (a *BacktestStrategyApi) market(side types.OrderSide, quantity decimal.Decimal) (string, error) {
	return a.queue(types.MarketOrder{
		OrderHeader: a.header(),
		OrderSide:   side,
		Quantity:    a.quantity(quantity, true),
	})
}

func (a *BacktestStrategyApi) limit(side types.OrderSide, quantity, limitPrice decimal.Decimal) (string, error) {
	return a.queue(types.LimitOrder{
		OrderHeader: a.header(),
		OrderSide:   side,
		Quantity:    a.quantity(quantity, false),
		LimitPrice:  a.price(limitPrice),
	})
}

func (a *BacktestStrategyApi) stopMarket(side types.OrderSide, quantity, stopPrice decimal.Decimal) (string, error) {
	return a.queue(types.StopMarketOrder{
		OrderHeader: a.header(),
		OrderSide:   side,
		Quantity:    a.quantity(quantity, false),
		StopPrice:   a.price(stopPrice),
	})
}

func (a *BacktestStrategyApi) stopLimit(side types.OrderSide, quantity, stopPrice, limitPrice decimal.Decimal) (string, error) {
	return a.queue(types.StopLimitOrder{
		OrderHeader: a.header(),
		OrderSide:   side,
		Quantity:    a.quantity(quantity, false),
		StopPrice:   a.price(stopPrice),
		LimitPrice:  a.price(limitPrice),
	})
}

func (a *BacktestStrategyApi) header() types.OrderHeader {
	return types.NewHeader(a.ids.NewOrderID(), a.clock.Now())
}

func (a *BacktestStrategyApi) quantity(quantity decimal.Decimal, isMarket bool) decimal.Decimal {
	return trading_rules.AdjustQuantity(quantity, a.snapshot.Strategy.Symbol, isMarket)
}

func (a *BacktestStrategyApi) price(price decimal.Decimal) decimal.Decimal {
	return trading_rules.AdjustPrice(price, a.snapshot.Strategy.Symbol)
}

func (a *BacktestStrategyApi) queue(order types.Order) (string, error) {
	if err := types.ValidateOrder(order); err != nil {
		return "", err
	}

	a.snapshot.Orders = a.snapshot.Orders.WithPending(order)

	return order.GetID(), nil
}
