package commission_fee

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/shopspring/decimal"
)

type CommissionFee interface {
	// CalculateFee returns the fee charged when order fills. currentPrice is the market price
	// the order is compared against to decide between the maker and the taker rate.
	CalculateFee(ledger types.StrategyModule, order types.TradingOrder, currentPrice decimal.Decimal) types.Fee
}

type Broker string

const (
	BrokerMakerTaker Broker = "maker_taker"
	BrokerZero       Broker = "zero_commission"
)

var AllBrokers = []any{
	BrokerMakerTaker,
	BrokerZero,
}

func GetCommissionFeeHandler(broker Broker) CommissionFee {
	switch broker {
	case BrokerMakerTaker:
		return NewMakerTakerCommissionFee()
	case BrokerZero:
		return NewZeroCommissionFee()
	default:
		return NewMakerTakerCommissionFee()
	}
}

// IsTaker reports whether order takes liquidity at currentPrice. MARKET and STOP_MARKET
// orders always do. LIMIT and STOP_LIMIT orders do when their limit price is marketable.
func IsTaker(order types.TradingOrder, currentPrice decimal.Decimal) bool {
	switch order.GetType() {
	case types.OrderTypeMarket, types.OrderTypeStopMarket:
		return true
	}

	limitPrice := types.LimitPriceOf(order)
	if limitPrice.IsNone() {
		return true
	}

	return IsMarketable(order.GetSide(), limitPrice.Unwrap(), currentPrice)
}

// IsMarketable reports whether a limit price would execute immediately at currentPrice.
func IsMarketable(side types.OrderSide, limitPrice, currentPrice decimal.Decimal) bool {
	if side == types.OrderSideEntry {
		return limitPrice.GreaterThanOrEqual(currentPrice)
	}

	return limitPrice.LessThanOrEqual(currentPrice)
}

// FillPrice is the price order executes at: its filled price once FILLED, its threshold
// while it rests on the book, currentPrice otherwise.
func FillPrice(order types.TradingOrder, currentPrice decimal.Decimal) decimal.Decimal {
	if filledPrice := order.Header().FilledPrice; filledPrice.IsSome() {
		return filledPrice.Unwrap()
	}

	switch order.GetStatus() {
	case types.OrderStatusOpening, types.OrderStatusTriggered:
		if limitPrice := types.LimitPriceOf(order); limitPrice.IsSome() {
			return limitPrice.Unwrap()
		}

		if stopPrice := types.StopPriceOf(order); stopPrice.IsSome() {
			return stopPrice.Unwrap()
		}
	}

	return currentPrice
}

// feeCurrency is the asset for ENTRY fills and the capital for EXIT fills.
func feeCurrency(ledger types.StrategyModule, side types.OrderSide) string {
	if side == types.OrderSideEntry {
		return ledger.AssetCurrency()
	}

	return ledger.CapitalCurrency()
}
