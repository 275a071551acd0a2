package commission_fee

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/shopspring/decimal"
)

// MakerTakerCommissionFee charges the maker and taker rates configured on the ledger.
// ENTRY fills pay quantity * rate in the asset. EXIT fills pay quantity * fill price * rate
// in the capital currency.
type MakerTakerCommissionFee struct{}

func NewMakerTakerCommissionFee() CommissionFee {
	return &MakerTakerCommissionFee{}
}

func (c *MakerTakerCommissionFee) CalculateFee(ledger types.StrategyModule, order types.TradingOrder, currentPrice decimal.Decimal) types.Fee {
	rate := ledger.MakerFeeRate
	if IsTaker(order, currentPrice) {
		rate = ledger.TakerFeeRate
	}

	amount := order.GetQuantity().Mul(rate)
	if order.GetSide() == types.OrderSideExit {
		amount = amount.Mul(FillPrice(order, currentPrice))
	}

	return types.Fee{
		Amount:   amount,
		Currency: feeCurrency(ledger, order.GetSide()),
	}
}
