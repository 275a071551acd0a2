package engine

import (
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/ledger"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/trade_tracker"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/trading_rules"
	"github.com/rxtech-lab/argo-backtest/internal/clock"
	"github.com/rxtech-lab/argo-backtest/internal/idgen"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderProcessor advances orders through their lifecycle. It never mutates the snapshot it
// receives: every call returns the next snapshot.
//
// A failing order is REJECTED with a reason and leaves the ledger and the trades as they
// were, so processing always continues with the next order.
type OrderProcessor struct {
	fees  commission_fee.CommissionFee
	clock clock.Clock
	ids   idgen.IdGenerator
	log   *logger.Logger
}

func NewOrderProcessor(fees commission_fee.CommissionFee, clock clock.Clock, ids idgen.IdGenerator, log *logger.Logger) *OrderProcessor {
	return &OrderProcessor{
		fees:  fees,
		clock: clock,
		ids:   ids,
		log:   log,
	}
}

// ProcessPendingOrder takes order out of the pending queue and submits it at currentPrice.
//
// MARKET orders and LIMIT orders whose price is already marketable fill at currentPrice.
// Other LIMIT orders and every stop order start resting on the book with a reservation.
// CANCEL orders cancel the opening order they reference.
func (p *OrderProcessor) ProcessPendingOrder(snapshot types.Snapshot, order types.Order, currentPrice decimal.Decimal) types.Snapshot {
	now := p.clock.Now()
	snapshot.Orders = snapshot.Orders.WithoutPending(order.GetID())

	var (
		next types.Snapshot
		err  error
	)

	switch o := order.(type) {
	case types.MarketOrder:
		next, err = p.executeAtMarket(snapshot, o, currentPrice, now)
	case types.LimitOrder:
		if commission_fee.IsMarketable(o.OrderSide, o.LimitPrice, currentPrice) {
			next, err = p.executeAtMarket(snapshot, o, currentPrice, now)
		} else {
			next, err = p.rest(snapshot, o, now)
		}
	case types.StopMarketOrder:
		next, err = p.rest(snapshot, o, now)
	case types.StopLimitOrder:
		next, err = p.rest(snapshot, o, now)
	case types.CancelOrder:
		next, err = p.cancel(snapshot, o, now)
	default:
		err = errors.Newf(errors.ErrCodeUnsupportedOrderType, "unsupported order type %s", order.GetType())
	}

	if err != nil {
		return p.reject(snapshot, order, err, now)
	}

	return next
}

// ProcessOpeningOrder matches an OPENING or TRIGGERED order against kline.
//
// LIMIT and TRIGGERED STOP_LIMIT orders fill at their limit price once the kline reaches it,
// STOP_MARKET orders fill at their stop price. An OPENING STOP_LIMIT order whose stop price
// is reached becomes TRIGGERED and keeps its reservation until its limit price is reached on
// a later kline. Orders the kline does not reach are left as they are.
func (p *OrderProcessor) ProcessOpeningOrder(snapshot types.Snapshot, order types.TradingOrder, kline types.Kline) types.Snapshot {
	switch o := order.(type) {
	case types.LimitOrder:
		if crossesLimit(o.OrderSide, o.LimitPrice, kline) {
			return p.fillOpening(snapshot, o, o.LimitPrice, kline)
		}
	case types.StopMarketOrder:
		if crossesStop(o.OrderSide, o.StopPrice, kline) {
			return p.fillOpening(snapshot, o, o.StopPrice, kline)
		}
	case types.StopLimitOrder:
		if o.Status == types.OrderStatusTriggered {
			if crossesLimit(o.OrderSide, o.LimitPrice, kline) {
				return p.fillOpening(snapshot, o, o.LimitPrice, kline)
			}

			return snapshot
		}

		if crossesStop(o.OrderSide, o.StopPrice, kline) {
			triggered := types.TriggerOrder(o, p.clock.Now())
			snapshot.Orders = snapshot.Orders.ReplaceOpening(triggered)
			p.logOrder(triggered)
		}
	}

	return snapshot
}

// crossesLimit is true when the kline traded at or through a limit price: down to it for a
// buy, up to it for a sell.
func crossesLimit(side types.OrderSide, price decimal.Decimal, kline types.Kline) bool {
	if side == types.OrderSideEntry {
		return kline.Low.LessThanOrEqual(price)
	}

	return kline.High.GreaterThanOrEqual(price)
}

// crossesStop is true when the kline traded at or through a stop price: up to it for a buy,
// down to it for a sell.
func crossesStop(side types.OrderSide, price decimal.Decimal, kline types.Kline) bool {
	if side == types.OrderSideEntry {
		return kline.High.GreaterThanOrEqual(price)
	}

	return kline.Low.LessThanOrEqual(price)
}

func (p *OrderProcessor) executeAtMarket(snapshot types.Snapshot, order types.TradingOrder, currentPrice decimal.Decimal, now time.Time) (types.Snapshot, error) {
	if err := trading_rules.ValidateMarketOrder(order, snapshot.Strategy.Symbol, currentPrice); err != nil {
		return types.Snapshot{}, err
	}

	fee := p.fees.CalculateFee(snapshot.Strategy, order, currentPrice)
	filled := types.FillOrder(order, currentPrice, fee, now)

	strategy, err := ledger.ApplyFill(snapshot.Strategy, filled)
	if err != nil {
		return types.Snapshot{}, err
	}

	return p.settle(snapshot, strategy, filled)
}

func (p *OrderProcessor) rest(snapshot types.Snapshot, order types.TradingOrder, now time.Time) (types.Snapshot, error) {
	if err := trading_rules.ValidateRestingOrder(order, snapshot.Strategy.Symbol); err != nil {
		return types.Snapshot{}, err
	}

	opening := types.OpenOrder(order, now)

	strategy, err := ledger.ApplyOpen(snapshot.Strategy, opening)
	if err != nil {
		return types.Snapshot{}, err
	}

	snapshot.Strategy = strategy
	snapshot.Orders = snapshot.Orders.WithOpening(opening)
	p.logOrder(opening)

	return snapshot, nil
}

func (p *OrderProcessor) cancel(snapshot types.Snapshot, order types.CancelOrder, now time.Time) (types.Snapshot, error) {
	target, ok := snapshot.Orders.FindOpening(order.OrderIDToCancel)
	if !ok {
		return types.Snapshot{}, errors.Newf(errors.ErrCodeNoMatchingOrder, "no opening order with id %s", order.OrderIDToCancel)
	}

	canceled := types.CancelTradingOrder(target, now)
	submitted := types.SubmitCancelOrder(order, now)

	snapshot.Strategy = ledger.ApplyCancel(snapshot.Strategy, canceled)
	snapshot.Orders = snapshot.Orders.
		WithoutOpening(target.GetID()).
		WithCanceled(canceled).
		WithSubmitted(submitted)

	p.logOrder(canceled)
	p.logOrder(submitted)

	return snapshot, nil
}

// fillOpening fills a resting order at price. The fee rate is decided against the kline close.
// When the fill cannot be settled the order is rejected and its reservation released.
func (p *OrderProcessor) fillOpening(snapshot types.Snapshot, order types.TradingOrder, price decimal.Decimal, kline types.Kline) types.Snapshot {
	now := p.clock.Now()
	snapshot.Orders = snapshot.Orders.WithoutOpening(order.GetID())

	fee := p.fees.CalculateFee(snapshot.Strategy, order, kline.Close)
	filled := types.FillOrder(order, price, fee, now)

	strategy, err := ledger.FillOpening(snapshot.Strategy, order, filled)
	if err == nil {
		var next types.Snapshot

		next, err = p.settle(snapshot, strategy, filled)
		if err == nil {
			return next
		}
	}

	snapshot.Strategy = ledger.Release(snapshot.Strategy, order)

	return p.reject(snapshot, order, err, now)
}

// settle records a filled order: an ENTRY opens a trade, an EXIT closes one.
func (p *OrderProcessor) settle(snapshot types.Snapshot, strategy types.StrategyModule, filled types.TradingOrder) (types.Snapshot, error) {
	trades := snapshot.Trades

	if filled.GetSide() == types.OrderSideEntry {
		trade := trade_tracker.OpenTrade(p.ids.NewTradeID(), filled, strategy.AssetCurrency())
		trades.Opening = append(append([]types.OpeningTrade{}, trades.Opening...), trade)
	} else {
		opening, closed, err := trade_tracker.CloseTrades(trades.Opening, filled)
		if err != nil {
			return types.Snapshot{}, err
		}

		trades.Opening = opening
		trades.Closed = append(append([]types.ClosedTrade{}, trades.Closed...), closed)
	}

	snapshot.Strategy = strategy
	snapshot.Trades = trades
	snapshot.Orders = snapshot.Orders.WithFilled(filled)
	p.logOrder(filled)

	return snapshot, nil
}

func (p *OrderProcessor) reject(snapshot types.Snapshot, order types.Order, err error, now time.Time) types.Snapshot {
	rejected := types.RejectOrder(order, errors.Reason(err), now)
	snapshot.Orders = snapshot.Orders.WithRejected(rejected)

	fields := []zap.Field{
		zap.String("order_id", order.GetID()),
		zap.String("type", string(order.GetType())),
		zap.Int("code", int(errors.GetCode(err))),
		zap.String("category", rejectCategory(err)),
		zap.String("reason", errors.Reason(err)),
	}

	// validation and trading rejections are part of a normal run
	if errors.IsValidationError(err) || errors.IsTradingError(err) {
		p.log.Debug("Order rejected", fields...)
	} else {
		p.log.Warn("Order rejected", fields...)
	}

	return snapshot
}

func rejectCategory(err error) string {
	switch {
	case errors.IsValidationError(err):
		return "validation"
	case errors.IsTradingError(err):
		return "trading"
	default:
		return "other"
	}
}

func (p *OrderProcessor) logOrder(order types.Order) {
	p.log.Debug("Order processed",
		zap.String("order_id", order.GetID()),
		zap.String("type", string(order.GetType())),
		zap.String("status", string(order.GetStatus())),
	)
}
