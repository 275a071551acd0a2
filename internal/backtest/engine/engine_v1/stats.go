package engine

import (
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/shopspring/decimal"
)

// RunInfo identifies a single run in its statistics.
type RunInfo struct {
	ID           string
	StrategyName string
	DataPath     string
	Timestamp    time.Time
	// FirstClose and LastClose are the closes of the first and the last kline of the run.
	FirstClose decimal.Decimal
	LastClose  decimal.Decimal
}

// ComputeStats summarizes the final snapshot of a run.
func ComputeStats(info RunInfo, snapshot types.Snapshot) types.BacktestStats {
	ledger := snapshot.Strategy

	return types.BacktestStats{
		ID:               info.ID,
		Timestamp:        info.Timestamp,
		Symbol:           ledger.Symbol.Name,
		Strategy:         info.StrategyName,
		TradeResult:      tradeResult(snapshot.Trades),
		OrderResult:      orderResult(snapshot.Orders),
		TradeHoldingTime: holdingTime(snapshot.Trades.Closed),
		InitialCapital:   ledger.InitialCapital.String(),
		FinalEquity:      ledger.Equity.String(),
		NetReturn:        ledger.NetReturn.String(),
		NetProfit:        ledger.NetProfit.String(),
		NetLoss:          ledger.NetLoss.String(),
		OpenReturn:       ledger.OpenReturn.String(),
		MaxDrawdown:      ledger.MaxDrawdown.String(),
		MaxRunup:         ledger.MaxRunup.String(),
		TotalFees: map[string]string{
			ledger.CapitalCurrency(): ledger.TotalFees.Capital.String(),
			ledger.AssetCurrency():   ledger.TotalFees.Asset.String(),
		},
		BuyAndHoldReturn: buyAndHoldReturn(ledger.InitialCapital, info.FirstClose, info.LastClose).String(),
		OrdersFilePath:   "",
		TradesFilePath:   "",
		DataPath:         info.DataPath,
	}
}

func tradeResult(trades types.Trades) types.TradeResult {
	result := types.TradeResult{
		NumberOfTrades:        len(trades.Closed),
		NumberOfWinningTrades: 0,
		NumberOfLosingTrades:  0,
		NumberOfOpenTrades:    len(trades.Opening),
		WinRate:               0,
	}

	for _, trade := range trades.Closed {
		switch {
		case trade.NetReturn.IsPositive():
			result.NumberOfWinningTrades++
		case trade.NetReturn.IsNegative():
			result.NumberOfLosingTrades++
		}
	}

	if result.NumberOfTrades > 0 {
		result.WinRate = float64(result.NumberOfWinningTrades) / float64(result.NumberOfTrades)
	}

	return result
}

func orderResult(orders types.Orders) types.OrderResult {
	return types.OrderResult{
		Filled:    len(orders.Filled),
		Canceled:  len(orders.Canceled),
		Rejected:  len(orders.Rejected),
		Opening:   len(orders.Opening),
		Submitted: len(orders.Submitted),
		Settled:   len(orders.Settled()),
	}
}

// holdingTime is in whole seconds.
func holdingTime(closed []types.ClosedTrade) types.TradeHoldingTime {
	result := types.TradeHoldingTime{Min: 0, Max: 0, Avg: 0}
	if len(closed) == 0 {
		return result
	}

	var total time.Duration

	for i, trade := range closed {
		held := trade.ClosedAt().Sub(trade.OpenedAt())
		seconds := int(held.Seconds())

		if i == 0 || seconds < result.Min {
			result.Min = seconds
		}

		if seconds > result.Max {
			result.Max = seconds
		}

		total += held
	}

	result.Avg = int((total / time.Duration(len(closed))).Seconds())

	return result
}

// buyAndHoldReturn is what spending the initial capital at the first close and holding
// until the last close would have returned, fees excluded.
func buyAndHoldReturn(initialCapital, firstClose, lastClose decimal.Decimal) decimal.Decimal {
	if !firstClose.IsPositive() {
		return decimal.Zero
	}

	return initialCapital.Mul(lastClose.Sub(firstClose)).Div(firstClose)
}
