package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-backtest/internal/clock"
	"github.com/rxtech-lab/argo-backtest/internal/idgen"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type OrderProcessorTestSuite struct {
	suite.Suite
	clock     *clock.KlineClock
	processor *OrderProcessor
	snapshot  types.Snapshot
}

func TestOrderProcessorSuite(t *testing.T) {
	suite.Run(t, new(OrderProcessorTestSuite))
}

var startTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func testSymbol() types.Symbol {
	return types.Symbol{
		Name:                "BTCUSDT",
		BaseAsset:           "BTC",
		QuoteAsset:          "USDT",
		BaseAssetPrecision:  8,
		QuoteAssetPrecision: 8,
		OrderTypes:          types.AllTradingOrderTypes,
		Filters:             types.SymbolFilters{},
	}
}

func (suite *OrderProcessorTestSuite) SetupTest() {
	suite.clock = clock.NewKlineClock()
	suite.clock.Advance(startTime)

	suite.processor = NewOrderProcessor(
		commission_fee.NewMakerTakerCommissionFee(),
		suite.clock,
		idgen.NewSeeded("order-processor-test"),
		logger.NewNopLogger(),
	)

	suite.snapshot = types.NewSnapshot(types.NewStrategyModule(testSymbol(), dec("1000"), dec("0.01"), dec("0.02")))
}

func header(id string) types.OrderHeader {
	return types.NewHeader(id, startTime)
}

func kline(open, high, low, close string) types.Kline {
	return types.Kline{
		Symbol:    "BTCUSDT",
		OpenTime:  startTime,
		CloseTime: startTime.Add(time.Minute),
		Open:      dec(open),
		High:      dec(high),
		Low:       dec(low),
		Close:     dec(close),
		Volume:    dec("1"),
	}
}

func (suite *OrderProcessorTestSuite) queue(snapshot types.Snapshot, orders ...types.Order) types.Snapshot {
	for _, order := range orders {
		snapshot.Orders = snapshot.Orders.WithPending(order)
	}

	return snapshot
}

func (suite *OrderProcessorTestSuite) assertConserved(ledger types.StrategyModule) {
	suite.True(ledger.TotalCapital.Equal(ledger.AvailableCapital.Add(ledger.InOrdersCapital)))
	suite.True(ledger.TotalAssetQuantity.Equal(ledger.AvailableAssetQuantity.Add(ledger.InOrdersAssetQuantity)))
	suite.False(ledger.AvailableCapital.IsNegative())
	suite.False(ledger.AvailableAssetQuantity.IsNegative())
}

// enterAtFour runs an ENTRY LIMIT of 2 at 4 against a kline that reaches it.
func (suite *OrderProcessorTestSuite) enterAtFour() types.Snapshot {
	entry := types.LimitOrder{OrderHeader: header("entry"), OrderSide: types.OrderSideEntry, Quantity: dec("2"), LimitPrice: dec("4")}

	snapshot := suite.processor.ProcessPendingOrders(suite.queue(suite.snapshot, entry), dec("5"))
	suite.Require().Len(snapshot.Orders.Opening, 1)

	return suite.processor.ProcessOpeningOrders(snapshot, kline("6", "12", "2", "5"))
}

func (suite *OrderProcessorTestSuite) TestLimitEntryFillsAtLimitWithMakerFee() {
	snapshot := suite.enterAtFour()

	suite.Empty(snapshot.Orders.Opening)
	suite.Require().Len(snapshot.Orders.Filled, 1)

	filled := snapshot.Orders.Filled[0]
	suite.Equal(types.OrderStatusFilled, filled.GetStatus())
	suite.Equal("4", types.FilledPrice(filled).String())
	suite.Equal("0.02", types.FilledFee(filled).Amount.String())
	suite.Equal("BTC", types.FilledFee(filled).Currency)

	suite.Require().Len(snapshot.Trades.Opening, 1)
	suite.Equal("1.98", snapshot.Trades.Opening[0].TradeQuantity.String())

	suite.Equal("992", snapshot.Strategy.TotalCapital.String())
	suite.True(snapshot.Strategy.InOrdersCapital.IsZero())
	suite.Equal("1.98", snapshot.Strategy.TotalAssetQuantity.String())
	suite.assertConserved(snapshot.Strategy)
}

func (suite *OrderProcessorTestSuite) TestLimitExitClosesTrade() {
	snapshot := suite.enterAtFour()

	// top up the position so the exit can deliver the full entry quantity
	snapshot.Strategy.TotalAssetQuantity = snapshot.Strategy.TotalAssetQuantity.Add(dec("0.02"))
	snapshot.Strategy.AvailableAssetQuantity = snapshot.Strategy.AvailableAssetQuantity.Add(dec("0.02"))

	exit := types.LimitOrder{OrderHeader: header("exit"), OrderSide: types.OrderSideExit, Quantity: dec("2"), LimitPrice: dec("8")}

	snapshot = suite.processor.ProcessPendingOrders(suite.queue(snapshot, exit), dec("5"))
	suite.Require().Len(snapshot.Orders.Opening, 1)
	suite.Equal("2", snapshot.Strategy.InOrdersAssetQuantity.String())

	snapshot = suite.processor.ProcessOpeningOrders(snapshot, kline("6", "12", "2", "5"))
	suite.Empty(snapshot.Orders.Opening)
	suite.Require().Len(snapshot.Orders.Filled, 2)

	filled := snapshot.Orders.Filled[1]
	suite.Equal("8", types.FilledPrice(filled).String())
	suite.Equal("0.16", types.FilledFee(filled).Amount.String())
	suite.Equal("USDT", types.FilledFee(filled).Currency)

	suite.Empty(snapshot.Trades.Opening)
	suite.Require().Len(snapshot.Trades.Closed, 1)
	suite.Equal("7.84", snapshot.Trades.Closed[0].NetReturn.String())

	suite.Equal("1007.84", snapshot.Strategy.TotalCapital.String())
	suite.True(snapshot.Strategy.TotalAssetQuantity.IsZero())
	suite.assertConserved(snapshot.Strategy)
}

func (suite *OrderProcessorTestSuite) TestMarketEntryWithoutCapitalIsRejected() {
	snapshot := suite.snapshot
	snapshot.Strategy.TotalCapital = dec("50")
	snapshot.Strategy.AvailableCapital = dec("50")

	order := types.MarketOrder{OrderHeader: header("market"), OrderSide: types.OrderSideEntry, Quantity: dec("10")}

	result := suite.processor.ProcessPendingOrder(snapshot, order, dec("7"))

	suite.Equal(snapshot.Strategy, result.Strategy)
	suite.Equal(snapshot.Trades, result.Trades)
	suite.Empty(result.Orders.Pending)
	suite.Empty(result.Orders.Filled)
	suite.Require().Len(result.Orders.Rejected, 1)

	rejected := result.Orders.Rejected[0].Header()
	suite.Equal(types.OrderStatusRejected, rejected.Status)
	suite.True(rejected.RejectReason.IsSome())
	suite.Contains(rejected.RejectReason.Unwrap(), "not enough capital")
	suite.Equal(optional.Some(startTime), rejected.RejectedAt)
}

func (suite *OrderProcessorTestSuite) TestCancelReleasesReservation() {
	snapshot := suite.snapshot
	snapshot.Strategy.AvailableCapital = dec("800")
	snapshot.Strategy.InOrdersCapital = dec("200")

	target := types.OpenOrder(types.LimitOrder{OrderHeader: header("target"), OrderSide: types.OrderSideEntry, Quantity: dec("5"), LimitPrice: dec("10")}, startTime)
	snapshot.Orders = snapshot.Orders.WithOpening(target)

	cancel := types.CancelOrder{OrderHeader: header("cancel"), OrderIDToCancel: "target"}

	result := suite.processor.ProcessPendingOrder(suite.queue(snapshot, cancel), cancel, dec("12"))

	suite.Equal("150", result.Strategy.InOrdersCapital.String())
	suite.Equal("850", result.Strategy.AvailableCapital.String())
	suite.Empty(result.Orders.Opening)
	suite.Empty(result.Orders.Pending)
	suite.Require().Len(result.Orders.Canceled, 1)
	suite.Equal("target", result.Orders.Canceled[0].GetID())
	suite.Equal(types.OrderStatusCanceled, result.Orders.Canceled[0].GetStatus())
	suite.Require().Len(result.Orders.Submitted, 1)
	suite.Equal("cancel", result.Orders.Submitted[0].GetID())
	suite.Equal(types.OrderStatusSubmitted, result.Orders.Submitted[0].GetStatus())
	suite.assertConserved(result.Strategy)
}

func (suite *OrderProcessorTestSuite) TestCancelUnknownOrderIsRejected() {
	cancel := types.CancelOrder{OrderHeader: header("cancel"), OrderIDToCancel: "missing"}

	result := suite.processor.ProcessPendingOrder(suite.snapshot, cancel, dec("12"))

	suite.Equal(suite.snapshot.Strategy, result.Strategy)
	suite.Empty(result.Orders.Submitted)
	suite.Require().Len(result.Orders.Rejected, 1)
	suite.Contains(result.Orders.Rejected[0].Header().RejectReason.Unwrap(), "missing")
}

func (suite *OrderProcessorTestSuite) TestMarketableLimitFillsAtCurrentPrice() {
	order := types.LimitOrder{OrderHeader: header("limit"), OrderSide: types.OrderSideEntry, Quantity: dec("1"), LimitPrice: dec("110")}

	result := suite.processor.ProcessPendingOrder(suite.snapshot, order, dec("100"))

	suite.Empty(result.Orders.Opening)
	suite.Require().Len(result.Orders.Filled, 1)
	suite.Equal("100", types.FilledPrice(result.Orders.Filled[0]).String())
	suite.Equal("0.02", types.FilledFee(result.Orders.Filled[0]).Amount.String())
	suite.Equal("900", result.Strategy.TotalCapital.String())
	suite.Len(result.Trades.Opening, 1)
}

func (suite *OrderProcessorTestSuite) TestMarketExitWithoutPositionIsRejected() {
	order := types.MarketOrder{OrderHeader: header("exit"), OrderSide: types.OrderSideExit, Quantity: dec("1")}

	result := suite.processor.ProcessPendingOrder(suite.snapshot, order, dec("100"))

	suite.Equal(suite.snapshot.Strategy, result.Strategy)
	suite.Require().Len(result.Orders.Rejected, 1)
}

func (suite *OrderProcessorTestSuite) TestMarketRoundTrip() {
	processor := NewOrderProcessor(commission_fee.NewZeroCommissionFee(), suite.clock, idgen.NewSeeded("round-trip"), logger.NewNopLogger())

	entry := types.MarketOrder{OrderHeader: header("entry"), OrderSide: types.OrderSideEntry, Quantity: dec("3")}
	exit := types.MarketOrder{OrderHeader: header("exit"), OrderSide: types.OrderSideExit, Quantity: dec("3")}

	snapshot := processor.ProcessPendingOrders(suite.queue(suite.snapshot, entry, exit), dec("25"))

	suite.Len(snapshot.Orders.Filled, 2)
	suite.Empty(snapshot.Orders.Rejected)
	suite.Empty(snapshot.Trades.Opening)
	suite.Require().Len(snapshot.Trades.Closed, 1)
	suite.True(snapshot.Trades.Closed[0].NetReturn.IsZero())
	suite.Equal("1000", snapshot.Strategy.TotalCapital.String())
	suite.True(snapshot.Strategy.TotalAssetQuantity.IsZero())
}

func (suite *OrderProcessorTestSuite) TestStopMarketEntry() {
	order := types.StopMarketOrder{OrderHeader: header("stop"), OrderSide: types.OrderSideEntry, Quantity: dec("2"), StopPrice: dec("110")}

	snapshot := suite.processor.ProcessPendingOrder(suite.snapshot, order, dec("100"))
	suite.Require().Len(snapshot.Orders.Opening, 1)
	suite.Equal(types.OrderStatusOpening, snapshot.Orders.Opening[0].GetStatus())
	suite.Equal("220", snapshot.Strategy.InOrdersCapital.String())

	// not reached yet
	snapshot = suite.processor.ProcessOpeningOrders(snapshot, kline("100", "109", "98", "105"))
	suite.Len(snapshot.Orders.Opening, 1)

	snapshot = suite.processor.ProcessOpeningOrders(snapshot, kline("105", "115", "104", "112"))
	suite.Empty(snapshot.Orders.Opening)
	suite.Require().Len(snapshot.Orders.Filled, 1)
	suite.Equal("110", types.FilledPrice(snapshot.Orders.Filled[0]).String())
	suite.Equal("0.04", types.FilledFee(snapshot.Orders.Filled[0]).Amount.String())
	suite.Equal("780", snapshot.Strategy.TotalCapital.String())
	suite.True(snapshot.Strategy.InOrdersCapital.IsZero())
	suite.assertConserved(snapshot.Strategy)
}

func (suite *OrderProcessorTestSuite) TestStopLimitTriggersThenFills() {
	order := types.StopLimitOrder{OrderHeader: header("stop-limit"), OrderSide: types.OrderSideEntry, Quantity: dec("1"), StopPrice: dec("105"), LimitPrice: dec("104")}

	snapshot := suite.processor.ProcessPendingOrder(suite.snapshot, order, dec("100"))
	suite.Equal("104", snapshot.Strategy.InOrdersCapital.String())

	// the stop is reached: the order triggers but does not fill on the same kline
	snapshot = suite.processor.ProcessOpeningOrders(snapshot, kline("100", "106", "99", "103"))
	suite.Require().Len(snapshot.Orders.Opening, 1)
	suite.Equal(types.OrderStatusTriggered, snapshot.Orders.Opening[0].GetStatus())
	suite.True(snapshot.Orders.Opening[0].Header().TriggeredAt.IsSome())
	suite.Empty(snapshot.Orders.Filled)
	suite.Equal("104", snapshot.Strategy.InOrdersCapital.String())

	// the limit is not reached
	snapshot = suite.processor.ProcessOpeningOrders(snapshot, kline("106", "110", "105", "108"))
	suite.Len(snapshot.Orders.Opening, 1)

	snapshot = suite.processor.ProcessOpeningOrders(snapshot, kline("108", "108", "103", "107"))
	suite.Empty(snapshot.Orders.Opening)
	suite.Require().Len(snapshot.Orders.Filled, 1)
	suite.Equal("104", types.FilledPrice(snapshot.Orders.Filled[0]).String())
	// close above the buy limit: maker
	suite.Equal("0.01", types.FilledFee(snapshot.Orders.Filled[0]).Amount.String())
	suite.Equal("896", snapshot.Strategy.TotalCapital.String())
	suite.True(snapshot.Strategy.InOrdersCapital.IsZero())
	suite.assertConserved(snapshot.Strategy)
}

func (suite *OrderProcessorTestSuite) TestCrossingIsInclusive() {
	tests := []struct {
		name   string
		order  types.TradingOrder
		kline  types.Kline
		filled bool
	}{
		{
			name:   "entry limit at the low",
			order:  types.LimitOrder{OrderHeader: header("1"), OrderSide: types.OrderSideEntry, Quantity: dec("1"), LimitPrice: dec("95")},
			kline:  kline("100", "101", "95", "96"),
			filled: true,
		},
		{
			name:   "entry limit above the range",
			order:  types.LimitOrder{OrderHeader: header("2"), OrderSide: types.OrderSideEntry, Quantity: dec("1"), LimitPrice: dec("94")},
			kline:  kline("100", "101", "95", "96"),
			filled: false,
		},
		{
			name:   "entry stop at the high",
			order:  types.StopMarketOrder{OrderHeader: header("3"), OrderSide: types.OrderSideEntry, Quantity: dec("1"), StopPrice: dec("101")},
			kline:  kline("100", "101", "95", "96"),
			filled: true,
		},
		{
			name:   "entry stop above the range",
			order:  types.StopMarketOrder{OrderHeader: header("4"), OrderSide: types.OrderSideEntry, Quantity: dec("1"), StopPrice: dec("102")},
			kline:  kline("100", "101", "95", "96"),
			filled: false,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			snapshot := suite.processor.ProcessPendingOrder(suite.snapshot, tc.order, dec("98"))
			suite.Require().Len(snapshot.Orders.Opening, 1)

			snapshot = suite.processor.ProcessOpeningOrders(snapshot, tc.kline)
			suite.Equal(tc.filled, len(snapshot.Orders.Filled) == 1)
		})
	}
}

func (suite *OrderProcessorTestSuite) TestInvalidQuantityIsRejected() {
	snapshot := suite.snapshot
	symbol := testSymbol()
	symbol.Filters.LotSize = optional.Some(types.LotSizeFilter{MinQuantity: dec("0.1"), MaxQuantity: dec("100"), StepSize: dec("0.1")})
	snapshot.Strategy.Symbol = symbol

	order := types.LimitOrder{OrderHeader: header("limit"), OrderSide: types.OrderSideEntry, Quantity: dec("0.15"), LimitPrice: dec("10")}

	result := suite.processor.ProcessPendingOrder(snapshot, order, dec("20"))
	suite.Empty(result.Orders.Opening)
	suite.Require().Len(result.Orders.Rejected, 1)
	suite.Contains(result.Orders.Rejected[0].Header().RejectReason.Unwrap(), "step size")
	suite.Equal(snapshot.Strategy, result.Strategy)
}

func (suite *OrderProcessorTestSuite) TestRejectionsAreLoggedWithCategory() {
	core, logs := observer.New(zapcore.DebugLevel)
	processor := NewOrderProcessor(
		commission_fee.NewMakerTakerCommissionFee(),
		suite.clock,
		idgen.NewSeeded("rejections"),
		&logger.Logger{Logger: zap.New(core)},
	)

	snapshot := suite.snapshot
	symbol := testSymbol()
	symbol.Filters.LotSize = optional.Some(types.LotSizeFilter{MinQuantity: dec("0.1"), MaxQuantity: dec("100"), StepSize: dec("0.1")})
	snapshot.Strategy.Symbol = symbol

	snapshot = processor.ProcessPendingOrder(snapshot,
		types.LimitOrder{OrderHeader: header("step"), OrderSide: types.OrderSideEntry, Quantity: dec("0.15"), LimitPrice: dec("10")}, dec("20"))
	snapshot = processor.ProcessPendingOrder(snapshot,
		types.MarketOrder{OrderHeader: header("broke"), OrderSide: types.OrderSideEntry, Quantity: dec("99")}, dec("20"))
	suite.Require().Len(snapshot.Orders.Rejected, 2)

	rejections := logs.FilterMessage("Order rejected").All()
	suite.Require().Len(rejections, 2)
	suite.Equal("step", rejections[0].ContextMap()["order_id"])
	suite.Equal("validation", rejections[0].ContextMap()["category"])
	suite.Equal(zapcore.DebugLevel, rejections[0].Level)
	suite.Equal("broke", rejections[1].ContextMap()["order_id"])
	suite.Equal("trading", rejections[1].ContextMap()["category"])
	suite.Equal(zapcore.DebugLevel, rejections[1].Level)

	suite.Equal("other", rejectCategory(errors.New("disk full")))
}

func (suite *OrderProcessorTestSuite) TestDisallowedOrderTypeIsRejected() {
	snapshot := suite.snapshot
	snapshot.Strategy.Symbol.OrderTypes = []types.OrderType{types.OrderTypeMarket}

	order := types.StopLimitOrder{OrderHeader: header("sl"), OrderSide: types.OrderSideEntry, Quantity: dec("1"), StopPrice: dec("10"), LimitPrice: dec("11")}

	result := suite.processor.ProcessPendingOrder(snapshot, order, dec("5"))
	suite.Require().Len(result.Orders.Rejected, 1)
	suite.Contains(result.Orders.Rejected[0].Header().RejectReason.Unwrap(), "not allowed")
}

func (suite *OrderProcessorTestSuite) TestLaterOrdersSeeEarlierEffects() {
	first := types.MarketOrder{OrderHeader: header("first"), OrderSide: types.OrderSideEntry, Quantity: dec("6")}
	second := types.MarketOrder{OrderHeader: header("second"), OrderSide: types.OrderSideEntry, Quantity: dec("6")}

	snapshot := suite.processor.ProcessPendingOrders(suite.queue(suite.snapshot, first, second), dec("100"))

	suite.Empty(snapshot.Orders.Pending)
	suite.Require().Len(snapshot.Orders.Filled, 1)
	suite.Equal("first", snapshot.Orders.Filled[0].GetID())
	suite.Require().Len(snapshot.Orders.Rejected, 1)
	suite.Equal("second", snapshot.Orders.Rejected[0].GetID())
	suite.Equal("400", snapshot.Strategy.AvailableCapital.String())
}

func (suite *OrderProcessorTestSuite) TestOpeningExitWithoutMatchingTradeReleasesReservation() {
	snapshot := suite.enterAtFour()

	exit := types.LimitOrder{OrderHeader: header("exit"), OrderSide: types.OrderSideExit, Quantity: dec("1"), LimitPrice: dec("8")}

	snapshot = suite.processor.ProcessPendingOrder(snapshot, exit, dec("5"))
	suite.Require().Len(snapshot.Orders.Opening, 1)
	suite.Equal("1", snapshot.Strategy.InOrdersAssetQuantity.String())

	before := snapshot.Trades
	snapshot = suite.processor.ProcessOpeningOrders(snapshot, kline("6", "12", "2", "5"))

	suite.Empty(snapshot.Orders.Opening)
	suite.Require().Len(snapshot.Orders.Rejected, 1)
	suite.True(snapshot.Strategy.InOrdersAssetQuantity.IsZero())
	suite.Equal("1.98", snapshot.Strategy.AvailableAssetQuantity.String())
	suite.Equal(before, snapshot.Trades)
	suite.assertConserved(snapshot.Strategy)
}

func (suite *OrderProcessorTestSuite) TestOneClockReadPerOrder() {
	ctrl := gomock.NewController(suite.T())
	defer ctrl.Finish()

	mockClock := mocks.NewMockClock(ctrl)
	mockIds := mocks.NewMockIdGenerator(ctrl)

	mockClock.EXPECT().Now().Return(startTime).Times(1)
	mockIds.EXPECT().NewTradeID().Return("trade-1").Times(1)

	processor := NewOrderProcessor(commission_fee.NewMakerTakerCommissionFee(), mockClock, mockIds, logger.NewNopLogger())

	order := types.MarketOrder{OrderHeader: header("market"), OrderSide: types.OrderSideEntry, Quantity: dec("1")}
	result := processor.ProcessPendingOrder(suite.snapshot, order, dec("100"))

	suite.Require().Len(result.Trades.Opening, 1)
	suite.Equal("trade-1", result.Trades.Opening[0].ID)
}
