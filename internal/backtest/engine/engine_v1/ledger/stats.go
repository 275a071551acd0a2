package ledger

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/shopspring/decimal"
)

// RecomputeStats derives the performance figures of the ledger from its trades.
// MaxRunup and MaxDrawdown ratchet: they only grow to the widest excursion of
// Equity - InitialCapital observed so far.
func RecomputeStats(ledger types.StrategyModule, openingTrades []types.OpeningTrade, closedTrades []types.ClosedTrade) types.StrategyModule {
	openReturn := decimal.Zero
	for _, trade := range openingTrades {
		openReturn = openReturn.Add(trade.UnrealizedReturn)
	}

	netProfit := decimal.Zero
	netLoss := decimal.Zero

	for _, trade := range closedTrades {
		if trade.NetReturn.IsPositive() {
			netProfit = netProfit.Add(trade.NetReturn)
		} else {
			netLoss = netLoss.Add(trade.NetReturn)
		}
	}

	netReturn := netProfit.Add(netLoss)

	ledger.OpenReturn = openReturn
	ledger.NetReturn = netReturn
	ledger.NetProfit = netProfit
	ledger.NetLoss = netLoss
	ledger.Equity = ledger.InitialCapital.Add(openReturn).Add(netReturn)

	excursion := ledger.Equity.Sub(ledger.InitialCapital)
	ledger.MaxRunup = decimal.Max(ledger.MaxRunup, excursion)
	ledger.MaxDrawdown = decimal.Max(ledger.MaxDrawdown, excursion.Neg())

	return ledger
}
