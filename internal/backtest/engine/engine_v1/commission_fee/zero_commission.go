package commission_fee

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/shopspring/decimal"
)

// ZeroCommissionFee implements CommissionFee interface with zero commission.
type ZeroCommissionFee struct{}

// NewZeroCommissionFee creates a new zero commission fee.
func NewZeroCommissionFee() CommissionFee {
	return &ZeroCommissionFee{}
}

// CalculateFee returns a zero fee in the currency the fill would be charged in.
func (c *ZeroCommissionFee) CalculateFee(ledger types.StrategyModule, order types.TradingOrder, _ decimal.Decimal) types.Fee {
	return types.Fee{
		Amount:   decimal.Zero,
		Currency: feeCurrency(ledger, order.GetSide()),
	}
}
