package engine

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type StatsTestSuite struct {
	suite.Suite
}

func TestStatsSuite(t *testing.T) {
	suite.Run(t, new(StatsTestSuite))
}

func (suite *StatsTestSuite) closedTrade(id string, openedAt time.Time, held time.Duration, netReturn string) types.ClosedTrade {
	entry := types.FillOrder(
		types.MarketOrder{OrderHeader: types.NewHeader(id+"-entry", openedAt), OrderSide: types.OrderSideEntry, Quantity: dec("1")},
		dec("100"), types.Fee{Amount: decimal.Zero, Currency: "BTC"}, openedAt,
	)
	exit := types.FillOrder(
		types.MarketOrder{OrderHeader: types.NewHeader(id+"-exit", openedAt), OrderSide: types.OrderSideExit, Quantity: dec("1")},
		dec("100").Add(dec(netReturn)), types.Fee{Amount: decimal.Zero, Currency: "USDT"}, openedAt.Add(held),
	)

	return types.ClosedTrade{
		OpeningTrade: types.OpeningTrade{ID: id, EntryOrder: entry, TradeQuantity: dec("1")},
		ExitOrder:    exit,
		NetReturn:    dec(netReturn),
	}
}

func (suite *StatsTestSuite) TestComputeStats() {
	snapshot := types.NewSnapshot(types.NewStrategyModule(testSymbol(), dec("1000"), dec("0.001"), dec("0.002")))
	snapshot.Trades.Closed = []types.ClosedTrade{
		suite.closedTrade("win", startTime, time.Minute, "10"),
		suite.closedTrade("loss", startTime, 3*time.Minute, "-4"),
	}
	snapshot.Trades.Opening = []types.OpeningTrade{{ID: "open"}}
	snapshot.Orders = snapshot.Orders.
		WithFilled(snapshot.Trades.Closed[0].EntryOrder).
		WithFilled(snapshot.Trades.Closed[0].ExitOrder).
		WithRejected(types.RejectOrder(types.CancelOrder{OrderHeader: types.NewHeader("cancel", startTime), OrderIDToCancel: "x"}, "unknown", startTime))
	snapshot.Strategy.NetReturn = dec("6")
	snapshot.Strategy.NetProfit = dec("10")
	snapshot.Strategy.NetLoss = dec("-4")
	snapshot.Strategy.Equity = dec("1006")
	snapshot.Strategy.TotalFees = types.TotalFees{Capital: dec("1.5"), Asset: dec("0.01")}

	info := RunInfo{
		ID:           "run",
		StrategyName: "sma",
		DataPath:     "data.parquet",
		Timestamp:    startTime,
		FirstClose:   dec("100"),
		LastClose:    dec("110"),
	}

	stats := ComputeStats(info, snapshot)

	suite.Equal("run", stats.ID)
	suite.Equal("BTCUSDT", stats.Symbol)
	suite.Equal("sma", stats.Strategy)
	suite.Equal("data.parquet", stats.DataPath)

	suite.Equal(2, stats.TradeResult.NumberOfTrades)
	suite.Equal(1, stats.TradeResult.NumberOfWinningTrades)
	suite.Equal(1, stats.TradeResult.NumberOfLosingTrades)
	suite.Equal(1, stats.TradeResult.NumberOfOpenTrades)
	suite.InDelta(0.5, stats.TradeResult.WinRate, 1e-9)

	suite.Equal(2, stats.OrderResult.Filled)
	suite.Equal(1, stats.OrderResult.Rejected)
	suite.Equal(0, stats.OrderResult.Opening)
	suite.Equal(3, stats.OrderResult.Settled)

	suite.Equal(60, stats.TradeHoldingTime.Min)
	suite.Equal(180, stats.TradeHoldingTime.Max)
	suite.Equal(120, stats.TradeHoldingTime.Avg)

	suite.Equal("1000", stats.InitialCapital)
	suite.Equal("1006", stats.FinalEquity)
	suite.Equal("-4", stats.NetLoss)
	suite.Equal("1.5", stats.TotalFees["USDT"])
	suite.Equal("0.01", stats.TotalFees["BTC"])
	suite.Equal("100", stats.BuyAndHoldReturn)
}

func (suite *StatsTestSuite) TestComputeStatsWithoutTrades() {
	snapshot := types.NewSnapshot(types.NewStrategyModule(testSymbol(), dec("1000"), decimal.Zero, decimal.Zero))

	stats := ComputeStats(RunInfo{FirstClose: decimal.Zero, LastClose: dec("5")}, snapshot)

	suite.Equal(0, stats.TradeResult.NumberOfTrades)
	suite.Zero(stats.TradeResult.WinRate)
	suite.Equal(types.TradeHoldingTime{}, stats.TradeHoldingTime)
	suite.Equal("0", stats.BuyAndHoldReturn)
	suite.Equal("1000", stats.FinalEquity)
}
