package trading_rules

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/shopspring/decimal"
)

// AdjustQuantity truncates quantity to the base asset precision and rounds it down to the
// LOT_SIZE step (and the MARKET_LOT_SIZE step for market orders). Quantities above the
// maximum are clamped to it. Quantities below the minimum are left as they are so that
// validation reports them.
func AdjustQuantity(quantity decimal.Decimal, symbol types.Symbol, isMarket bool) decimal.Decimal {
	adjusted := quantity.Truncate(symbol.BaseAssetPrecision)

	if symbol.Filters.LotSize.IsSome() {
		adjusted = roundDownToStep(adjusted, symbol.Filters.LotSize.Unwrap())
	}

	if isMarket && symbol.Filters.MarketLotSize.IsSome() {
		adjusted = roundDownToStep(adjusted, symbol.Filters.MarketLotSize.Unwrap())
	}

	return adjusted
}

func roundDownToStep(quantity decimal.Decimal, filter types.LotSizeFilter) decimal.Decimal {
	if filter.MaxQuantity.IsPositive() && quantity.GreaterThan(filter.MaxQuantity) {
		quantity = filter.MaxQuantity
	}

	if !filter.StepSize.IsPositive() || quantity.LessThan(filter.MinQuantity) {
		return quantity
	}

	steps := quantity.Sub(filter.MinQuantity).Div(filter.StepSize).Floor()

	return filter.MinQuantity.Add(steps.Mul(filter.StepSize))
}

// AdjustPrice rounds price to the quote asset precision and to the nearest PRICE_FILTER tick.
func AdjustPrice(price decimal.Decimal, symbol types.Symbol) decimal.Decimal {
	adjusted := price.Round(symbol.QuoteAssetPrecision)

	if symbol.Filters.Price.IsNone() {
		return adjusted
	}

	filter := symbol.Filters.Price.Unwrap()
	if !filter.TickSize.IsPositive() || adjusted.LessThan(filter.MinPrice) {
		return adjusted
	}

	ticks := adjusted.Sub(filter.MinPrice).Div(filter.TickSize).Round(0)

	return filter.MinPrice.Add(ticks.Mul(filter.TickSize))
}
