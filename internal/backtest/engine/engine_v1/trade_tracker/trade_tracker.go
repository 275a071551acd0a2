// Package trade_tracker turns filled orders into trades. An ENTRY fill opens a trade,
// an EXIT fill closes the oldest opening trade of the same quantity.
package trade_tracker

import (
	"slices"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/shopspring/decimal"
)

// OpenTrade creates the trade of a filled ENTRY order. The trade holds the entry quantity
// minus the fee when the fee was charged in assetCurrency.
func OpenTrade(id string, entryFilled types.TradingOrder, assetCurrency string) types.OpeningTrade {
	price := types.FilledPrice(entryFilled)
	fee := types.FilledFee(entryFilled)

	quantity := entryFilled.GetQuantity()
	if fee.Currency == assetCurrency {
		quantity = quantity.Sub(fee.Amount)
	}

	trade := types.OpeningTrade{
		ID:            id,
		EntryOrder:    entryFilled,
		TradeQuantity: quantity,
		MaxPrice:      price,
		MinPrice:      price,
		MaxRunup:      decimal.Zero,
		MaxDrawdown:   decimal.Zero,
	}
	trade.UnrealizedReturn = markToMarket(trade, price)

	return trade
}

// CloseTrades closes the oldest opening trade whose trade quantity or entry quantity equals
// the quantity of exitFilled. It returns the remaining opening trades and the closed trade.
func CloseTrades(openingTrades []types.OpeningTrade, exitFilled types.TradingOrder) ([]types.OpeningTrade, types.ClosedTrade, error) {
	quantity := exitFilled.GetQuantity()

	index := slices.IndexFunc(openingTrades, func(trade types.OpeningTrade) bool {
		return trade.TradeQuantity.Equal(quantity) || trade.EntryQuantity().Equal(quantity)
	})
	if index < 0 {
		return nil, types.ClosedTrade{}, errors.Newf(errors.ErrCodeInsufficientPosition,
			"no opening trade matches exit quantity %s of order %s", quantity, exitFilled.GetID())
	}

	trade := openingTrades[index]

	// exit fees are charged in the capital currency
	exitValue := quantity.Mul(types.FilledPrice(exitFilled)).Sub(types.FilledFee(exitFilled).Amount)

	closed := types.ClosedTrade{
		OpeningTrade: trade,
		ExitOrder:    exitFilled,
		NetReturn:    exitValue.Sub(trade.EntryValue()),
	}

	remaining := slices.Delete(slices.Clone(openingTrades), index, index+1)

	return remaining, closed, nil
}

// UpdateTradeExtremes records the kline's high and low on the trade and marks it to the
// kline's close.
func UpdateTradeExtremes(trade types.OpeningTrade, kline types.Kline) types.OpeningTrade {
	return extend(trade, kline.High, kline.Low, kline.Close)
}

// MarkToClose extends the trade's extremes with the kline's close only. A trade opened
// during the kline never saw the prices before its fill.
func MarkToClose(trade types.OpeningTrade, kline types.Kline) types.OpeningTrade {
	return extend(trade, kline.Close, kline.Close, kline.Close)
}

func extend(trade types.OpeningTrade, high, low, closePrice decimal.Decimal) types.OpeningTrade {
	trade.MaxPrice = decimal.Max(trade.MaxPrice, high)
	trade.MinPrice = decimal.Min(trade.MinPrice, low)
	trade.MaxRunup = decimal.Max(decimal.Zero, markToMarket(trade, trade.MaxPrice))
	trade.MaxDrawdown = decimal.Max(decimal.Zero, markToMarket(trade, trade.MinPrice).Neg())
	trade.UnrealizedReturn = markToMarket(trade, closePrice)

	return trade
}

// UpdateOpenedBefore applies UpdateTradeExtremes to the trades opened before kline and
// MarkToClose to the trades in openedDuring.
func UpdateOpenedBefore(trades []types.OpeningTrade, kline types.Kline, openedDuring map[string]bool) []types.OpeningTrade {
	updated := make([]types.OpeningTrade, 0, len(trades))
	for _, trade := range trades {
		if openedDuring[trade.ID] {
			updated = append(updated, MarkToClose(trade, kline))

			continue
		}

		updated = append(updated, UpdateTradeExtremes(trade, kline))
	}

	return updated
}

// NewTradeIDs returns the ids in after that are not in before.
func NewTradeIDs(before []types.OpeningTrade, after []types.OpeningTrade) map[string]bool {
	known := make(map[string]bool, len(before))
	for _, trade := range before {
		known[trade.ID] = true
	}

	opened := make(map[string]bool)

	for _, trade := range after {
		if !known[trade.ID] {
			opened[trade.ID] = true
		}
	}

	return opened
}

func markToMarket(trade types.OpeningTrade, price decimal.Decimal) decimal.Decimal {
	return price.Mul(trade.TradeQuantity).Sub(trade.EntryValue())
}
