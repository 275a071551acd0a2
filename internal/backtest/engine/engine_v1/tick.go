package engine

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/ledger"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/trade_tracker"
	"github.com/rxtech-lab/argo-backtest/internal/runtime"
	"github.com/rxtech-lab/argo-backtest/internal/strategy"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/shopspring/decimal"
)

// ProcessPendingOrders submits the pending orders in the order they were queued. Each order
// sees the snapshot left by the previous one.
func (p *OrderProcessor) ProcessPendingOrders(snapshot types.Snapshot, currentPrice decimal.Decimal) types.Snapshot {
	for _, order := range snapshot.Orders.Pending {
		snapshot = p.ProcessPendingOrder(snapshot, order, currentPrice)
	}

	return snapshot
}

// ProcessOpeningOrders matches the opening orders against kline in the order they were opened.
func (p *OrderProcessor) ProcessOpeningOrders(snapshot types.Snapshot, kline types.Kline) types.Snapshot {
	for _, order := range snapshot.Orders.Opening {
		snapshot = p.ProcessOpeningOrder(snapshot, order, kline)
	}

	return snapshot
}

// ProcessKline matches the opening orders against kline, then marks the opening trades to
// it and recomputes the ledger statistics. Trades held before kline see its high and low.
// Trades opened by a resting fill during kline only see its close, since the order of
// prices inside the kline is unknown.
func (p *OrderProcessor) ProcessKline(snapshot types.Snapshot, kline types.Kline) types.Snapshot {
	held := snapshot.Trades.Opening
	snapshot = p.ProcessOpeningOrders(snapshot, kline)
	openedDuring := trade_tracker.NewTradeIDs(held, snapshot.Trades.Opening)
	snapshot.Trades.Opening = trade_tracker.UpdateOpenedBefore(snapshot.Trades.Opening, kline, openedDuring)
	snapshot.Strategy = ledger.RecomputeStats(snapshot.Strategy, snapshot.Trades.Opening, snapshot.Trades.Closed)

	return snapshot
}

// ProcessTick runs one kline through the engine: ProcessKline, then the strategy, then the
// orders the strategy queued at the kline close. Trades opened at the close keep the
// extremes of their fill price. The snapshot returned with an error is the one before the
// strategy ran.
func (p *OrderProcessor) ProcessTick(ctx context.Context, snapshot types.Snapshot, kline types.Kline, s strategy.Strategy) (types.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return snapshot, err
	}

	p.advanceClock(kline.OpenTime)
	snapshot = p.ProcessKline(snapshot, kline)

	// the strategy and the orders it queues act at the kline close
	p.advanceClock(kline.CloseTime)

	api := runtime.NewBacktestStrategyApi(snapshot, p.clock, p.ids)
	if err := s.ProcessKline(ctx, api, kline); err != nil {
		return snapshot, errors.Wrapf(errors.ErrCodeStrategyRuntimeError, err, "strategy %s failed at %s", s.Name(), kline.OpenTime)
	}

	snapshot = p.ProcessPendingOrders(api.Snapshot(), kline.Close)
	snapshot.Strategy = ledger.RecomputeStats(snapshot.Strategy, snapshot.Trades.Opening, snapshot.Trades.Closed)

	return snapshot, nil
}

type advancer interface {
	Advance(t time.Time)
}

func (p *OrderProcessor) advanceClock(t time.Time) {
	if c, ok := p.clock.(advancer); ok {
		c.Advance(t)
	}
}
