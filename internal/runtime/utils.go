package runtime

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// CancelFilter selects opening orders by side and type. An empty filter selects every order.
type CancelFilter struct {
	Side optional.Option[types.OrderSide]
	Type optional.Option[types.OrderType]
}

// CancelAll selects every opening order.
func CancelAll() CancelFilter {
	return CancelFilter{
		Side: optional.None[types.OrderSide](),
		Type: optional.None[types.OrderType](),
	}
}

// CancelSide selects the opening orders of one side.
func CancelSide(side types.OrderSide) CancelFilter {
	return CancelFilter{
		Side: optional.Some(side),
		Type: optional.None[types.OrderType](),
	}
}

// Matches reports whether order is selected by the filter.
func (f CancelFilter) Matches(order types.TradingOrder) bool {
	if f.Side.IsSome() && f.Side.Unwrap() != order.GetSide() {
		return false
	}

	if f.Type.IsSome() && f.Type.Unwrap() != order.GetType() {
		return false
	}

	return true
}
