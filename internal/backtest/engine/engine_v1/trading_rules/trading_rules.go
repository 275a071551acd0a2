// Package trading_rules checks order quantities and prices against the exchange
// filters of a symbol (LOT_SIZE, MARKET_LOT_SIZE, PRICE_FILTER, MIN_NOTIONAL, NOTIONAL).
//
// Filters are independent and all of them must pass. A filter missing from the symbol
// never fails, but quantities, prices and notionals must always be strictly positive.
package trading_rules

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/shopspring/decimal"
)

// ValidateOrderType fails when the symbol does not allow the order's type.
func ValidateOrderType(order types.Order, symbol types.Symbol) error {
	if !symbol.AllowsOrderType(order.GetType()) {
		return errors.Newf(errors.ErrCodeOrderTypeNotAllowed, "order type %s is not allowed for symbol %s", order.GetType(), symbol.Name)
	}

	return nil
}

// ValidateQuantity checks the order quantity against LOT_SIZE. MARKET orders must also
// satisfy MARKET_LOT_SIZE.
func ValidateQuantity(order types.TradingOrder, symbol types.Symbol) error {
	quantity := order.GetQuantity()
	if !quantity.IsPositive() {
		return errors.Newf(errors.ErrCodeInvalidQuantity, "quantity must be greater than zero, got %s", quantity)
	}

	if symbol.Filters.LotSize.IsSome() {
		if err := checkLotSize("LOT_SIZE", quantity, symbol.Filters.LotSize.Unwrap()); err != nil {
			return err
		}
	}

	if order.GetType() == types.OrderTypeMarket && symbol.Filters.MarketLotSize.IsSome() {
		if err := checkLotSize("MARKET_LOT_SIZE", quantity, symbol.Filters.MarketLotSize.Unwrap()); err != nil {
			return err
		}
	}

	return nil
}

func checkLotSize(name string, quantity decimal.Decimal, filter types.LotSizeFilter) error {
	if quantity.LessThan(filter.MinQuantity) {
		return errors.Newf(errors.ErrCodeInvalidQuantity, "quantity %s is below the %s minimum %s", quantity, name, filter.MinQuantity)
	}

	if filter.MaxQuantity.IsPositive() && quantity.GreaterThan(filter.MaxQuantity) {
		return errors.Newf(errors.ErrCodeInvalidQuantity, "quantity %s is above the %s maximum %s", quantity, name, filter.MaxQuantity)
	}

	if filter.StepSize.IsPositive() && !quantity.Sub(filter.MinQuantity).Mod(filter.StepSize).IsZero() {
		return errors.Newf(errors.ErrCodeInvalidQuantity, "quantity %s is not a multiple of the %s step size %s", quantity, name, filter.StepSize)
	}

	return nil
}

// ValidatePrice checks a price against PRICE_FILTER.
func ValidatePrice(price decimal.Decimal, symbol types.Symbol) error {
	if !price.IsPositive() {
		return errors.Newf(errors.ErrCodeInvalidPrice, "price must be greater than zero, got %s", price)
	}

	if symbol.Filters.Price.IsNone() {
		return nil
	}

	filter := symbol.Filters.Price.Unwrap()

	if price.LessThan(filter.MinPrice) {
		return errors.Newf(errors.ErrCodeInvalidPrice, "price %s is below the PRICE_FILTER minimum %s", price, filter.MinPrice)
	}

	if filter.MaxPrice.IsPositive() && price.GreaterThan(filter.MaxPrice) {
		return errors.Newf(errors.ErrCodeInvalidPrice, "price %s is above the PRICE_FILTER maximum %s", price, filter.MaxPrice)
	}

	if filter.TickSize.IsPositive() && !price.Sub(filter.MinPrice).Mod(filter.TickSize).IsZero() {
		return errors.Newf(errors.ErrCodeInvalidPrice, "price %s is not a multiple of the tick size %s", price, filter.TickSize)
	}

	return nil
}

// ValidateLimitPrice validates the limit price of LIMIT and STOP_LIMIT orders.
// Other order types have no limit price and always pass.
func ValidateLimitPrice(order types.Order, symbol types.Symbol) error {
	limitPrice := types.LimitPriceOf(order)
	if limitPrice.IsNone() {
		return nil
	}

	if err := ValidatePrice(limitPrice.Unwrap(), symbol); err != nil {
		return errors.Wrap(errors.GetCode(err), "invalid limit price", err)
	}

	return nil
}

// ValidateStopPrice validates the stop price of STOP_MARKET and STOP_LIMIT orders.
// Other order types have no stop price and always pass.
func ValidateStopPrice(order types.Order, symbol types.Symbol) error {
	stopPrice := types.StopPriceOf(order)
	if stopPrice.IsNone() {
		return nil
	}

	if err := ValidatePrice(stopPrice.Unwrap(), symbol); err != nil {
		return errors.Wrap(errors.GetCode(err), "invalid stop price", err)
	}

	return nil
}

// ValidateNotional checks price * quantity of a resting order. The price is the limit
// price for LIMIT, the stop price for STOP_MARKET, and both the stop and the limit price
// for STOP_LIMIT. MARKET orders are checked by ValidateMarketNotional instead.
func ValidateNotional(order types.TradingOrder, symbol types.Symbol) error {
	prices := make([]decimal.Decimal, 0, 2)

	if stopPrice := types.StopPriceOf(order); stopPrice.IsSome() {
		prices = append(prices, stopPrice.Unwrap())
	}

	if limitPrice := types.LimitPriceOf(order); limitPrice.IsSome() {
		prices = append(prices, limitPrice.Unwrap())
	}

	for _, price := range prices {
		if err := checkNotional(price.Mul(order.GetQuantity()), symbol, false); err != nil {
			return err
		}
	}

	return nil
}

// ValidateMarketNotional checks currentPrice * quantity of an order executed at market.
// A min or max bound is only enforced for market orders when its apply flag is set and
// the filter does not average the price (avgPriceMins == 0), since the backtest has no
// averaged price to compare against.
func ValidateMarketNotional(order types.TradingOrder, symbol types.Symbol, currentPrice decimal.Decimal) error {
	return checkNotional(currentPrice.Mul(order.GetQuantity()), symbol, true)
}

func checkNotional(notional decimal.Decimal, symbol types.Symbol, isMarket bool) error {
	if !notional.IsPositive() {
		return errors.Newf(errors.ErrCodeInvalidNotional, "notional must be greater than zero, got %s", notional)
	}

	if symbol.Filters.MinNotional.IsSome() {
		filter := symbol.Filters.MinNotional.Unwrap()
		apply := !isMarket || (filter.ApplyToMarket && filter.AvgPriceMins == 0)

		if apply && notional.LessThan(filter.MinNotional) {
			return errors.Newf(errors.ErrCodeInvalidNotional, "notional %s is below the MIN_NOTIONAL minimum %s", notional, filter.MinNotional)
		}
	}

	if symbol.Filters.Notional.IsSome() {
		filter := symbol.Filters.Notional.Unwrap()
		applyMin := !isMarket || (filter.ApplyMinToMarket && filter.AvgPriceMins == 0)
		applyMax := !isMarket || (filter.ApplyMaxToMarket && filter.AvgPriceMins == 0)

		if applyMin && notional.LessThan(filter.MinNotional) {
			return errors.Newf(errors.ErrCodeInvalidNotional, "notional %s is below the NOTIONAL minimum %s", notional, filter.MinNotional)
		}

		if applyMax && filter.MaxNotional.IsPositive() && notional.GreaterThan(filter.MaxNotional) {
			return errors.Newf(errors.ErrCodeInvalidNotional, "notional %s is above the NOTIONAL maximum %s", notional, filter.MaxNotional)
		}
	}

	return nil
}

// ValidateMarketOrder runs every check an order executed at market must pass.
func ValidateMarketOrder(order types.TradingOrder, symbol types.Symbol, currentPrice decimal.Decimal) error {
	if err := ValidateOrderType(order, symbol); err != nil {
		return err
	}

	if err := ValidateQuantity(order, symbol); err != nil {
		return err
	}

	return ValidateMarketNotional(order, symbol, currentPrice)
}

// ValidateRestingOrder runs every check a LIMIT, STOP_MARKET or STOP_LIMIT order must pass
// before it starts resting on the book.
func ValidateRestingOrder(order types.TradingOrder, symbol types.Symbol) error {
	if err := ValidateOrderType(order, symbol); err != nil {
		return err
	}

	if err := ValidateQuantity(order, symbol); err != nil {
		return err
	}

	if err := ValidateStopPrice(order, symbol); err != nil {
		return err
	}

	if err := ValidateLimitPrice(order, symbol); err != nil {
		return err
	}

	return ValidateNotional(order, symbol)
}
