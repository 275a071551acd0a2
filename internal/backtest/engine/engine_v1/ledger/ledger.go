// Package ledger applies order events to a strategy's capital and asset ledger.
//
// Every function returns a new types.StrategyModule and leaves its input untouched.
// A failed transform returns the error and a zero ledger, callers keep their original.
package ledger

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/shopspring/decimal"
)

// ReservedAmount is what an opening order holds in the ledger: capital for ENTRY orders
// (quantity * limit price for LIMIT and STOP_LIMIT, quantity * stop price for STOP_MARKET)
// and asset quantity for EXIT orders. MARKET orders never reserve anything.
func ReservedAmount(order types.TradingOrder) decimal.Decimal {
	if order.GetType() == types.OrderTypeMarket {
		return decimal.Zero
	}

	if order.GetSide() == types.OrderSideExit {
		return order.GetQuantity()
	}

	price := types.LimitPriceOf(order)
	if price.IsNone() {
		price = types.StopPriceOf(order)
	}

	return order.GetQuantity().Mul(price.TakeOr(decimal.Zero))
}

// ApplyOpen moves the amount reserved by an opening order from available to in orders.
func ApplyOpen(ledger types.StrategyModule, opening types.TradingOrder) (types.StrategyModule, error) {
	amount := ReservedAmount(opening)

	if opening.GetSide() == types.OrderSideEntry {
		if ledger.AvailableCapital.LessThan(amount) {
			return types.StrategyModule{}, errors.Newf(errors.ErrCodeInsufficientFunds,
				"not enough capital to open order %s: available %s %s, required %s %s",
				opening.GetID(), ledger.AvailableCapital, ledger.CapitalCurrency(), amount, ledger.CapitalCurrency())
		}

		ledger.AvailableCapital = ledger.AvailableCapital.Sub(amount)
		ledger.InOrdersCapital = ledger.InOrdersCapital.Add(amount)

		return ledger, nil
	}

	if ledger.AvailableAssetQuantity.LessThan(amount) {
		return types.StrategyModule{}, errors.Newf(errors.ErrCodeInsufficientPosition,
			"not enough %s to open order %s: available %s, required %s",
			ledger.AssetCurrency(), opening.GetID(), ledger.AvailableAssetQuantity, amount)
	}

	ledger.AvailableAssetQuantity = ledger.AvailableAssetQuantity.Sub(amount)
	ledger.InOrdersAssetQuantity = ledger.InOrdersAssetQuantity.Add(amount)

	return ledger, nil
}

// Release moves the amount reserved by order back from in orders to available.
func Release(ledger types.StrategyModule, order types.TradingOrder) types.StrategyModule {
	amount := ReservedAmount(order)

	if order.GetSide() == types.OrderSideEntry {
		ledger.InOrdersCapital = ledger.InOrdersCapital.Sub(amount)
		ledger.AvailableCapital = ledger.AvailableCapital.Add(amount)

		return ledger
	}

	ledger.InOrdersAssetQuantity = ledger.InOrdersAssetQuantity.Sub(amount)
	ledger.AvailableAssetQuantity = ledger.AvailableAssetQuantity.Add(amount)

	return ledger
}

// ApplyCancel releases the reservation of a canceled order. It never fails.
func ApplyCancel(ledger types.StrategyModule, canceled types.TradingOrder) types.StrategyModule {
	return Release(ledger, canceled)
}

// ApplyFill settles a filled order. An ENTRY fill pays quantity * price in capital and
// receives the quantity net of an asset fee. An EXIT fill delivers the quantity and
// receives quantity * price net of a capital fee.
func ApplyFill(ledger types.StrategyModule, filled types.TradingOrder) (types.StrategyModule, error) {
	price := types.FilledPrice(filled)
	fee := types.FilledFee(filled)
	quantity := filled.GetQuantity()

	capitalFee := decimal.Zero
	assetFee := decimal.Zero

	switch fee.Currency {
	case ledger.CapitalCurrency():
		capitalFee = fee.Amount
	case ledger.AssetCurrency():
		assetFee = fee.Amount
	}

	var capitalDelta, assetDelta decimal.Decimal

	if filled.GetSide() == types.OrderSideEntry {
		required := quantity.Mul(price).Add(capitalFee)
		if ledger.AvailableCapital.LessThan(required) {
			return types.StrategyModule{}, errors.Newf(errors.ErrCodeInsufficientFunds,
				"not enough capital to fill order %s: available %s %s, required %s %s",
				filled.GetID(), ledger.AvailableCapital, ledger.CapitalCurrency(), required, ledger.CapitalCurrency())
		}

		capitalDelta = required.Neg()
		assetDelta = quantity.Sub(assetFee)
	} else {
		required := quantity.Add(assetFee)
		if ledger.AvailableAssetQuantity.LessThan(required) {
			return types.StrategyModule{}, errors.Newf(errors.ErrCodeInsufficientPosition,
				"not enough %s to fill order %s: available %s, required %s",
				ledger.AssetCurrency(), filled.GetID(), ledger.AvailableAssetQuantity, required)
		}

		capitalDelta = quantity.Mul(price).Sub(capitalFee)
		assetDelta = required.Neg()
	}

	ledger.TotalCapital = ledger.TotalCapital.Add(capitalDelta)
	ledger.AvailableCapital = ledger.AvailableCapital.Add(capitalDelta)
	ledger.TotalAssetQuantity = ledger.TotalAssetQuantity.Add(assetDelta)
	ledger.AvailableAssetQuantity = ledger.AvailableAssetQuantity.Add(assetDelta)
	ledger.TotalFees = types.TotalFees{
		Capital: ledger.TotalFees.Capital.Add(capitalFee),
		Asset:   ledger.TotalFees.Asset.Add(assetFee),
	}

	return ledger, nil
}

// FillOpening releases the reservation of an opening order and settles its fill.
// On error the ledger passed in is still the one to keep.
func FillOpening(ledger types.StrategyModule, opening, filled types.TradingOrder) (types.StrategyModule, error) {
	return ApplyFill(Release(ledger, opening), filled)
}
