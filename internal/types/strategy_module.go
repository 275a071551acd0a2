package types

import (
	"github.com/shopspring/decimal"
)

// TotalFees accumulates paid fees per currency.
type TotalFees struct {
	Capital decimal.Decimal `yaml:"capital" json:"capital"`
	Asset   decimal.Decimal `yaml:"asset" json:"asset"`
}

// StrategyModule is the ledger of a strategy: its capital, its asset holdings and
// the performance figures derived from its trades.
//
// Capital and asset quantity each satisfy Total = Available + InOrders.
// Reserved (in orders) amounts belong to OPENING and TRIGGERED orders.
type StrategyModule struct {
	Symbol         Symbol          `yaml:"symbol" json:"symbol"`
	InitialCapital decimal.Decimal `yaml:"initial_capital" json:"initial_capital"`
	MakerFeeRate   decimal.Decimal `yaml:"maker_fee_rate" json:"maker_fee_rate"`
	TakerFeeRate   decimal.Decimal `yaml:"taker_fee_rate" json:"taker_fee_rate"`

	TotalCapital     decimal.Decimal `yaml:"total_capital" json:"total_capital"`
	InOrdersCapital  decimal.Decimal `yaml:"in_orders_capital" json:"in_orders_capital"`
	AvailableCapital decimal.Decimal `yaml:"available_capital" json:"available_capital"`

	TotalAssetQuantity     decimal.Decimal `yaml:"total_asset_quantity" json:"total_asset_quantity"`
	InOrdersAssetQuantity  decimal.Decimal `yaml:"in_orders_asset_quantity" json:"in_orders_asset_quantity"`
	AvailableAssetQuantity decimal.Decimal `yaml:"available_asset_quantity" json:"available_asset_quantity"`

	TotalFees TotalFees `yaml:"total_fees" json:"total_fees"`

	// OpenReturn is the sum of the unrealized returns of the opening trades.
	OpenReturn decimal.Decimal `yaml:"open_return" json:"open_return"`
	// NetReturn is the sum of the net returns of the closed trades.
	NetReturn decimal.Decimal `yaml:"net_return" json:"net_return"`
	NetProfit decimal.Decimal `yaml:"net_profit" json:"net_profit"`
	NetLoss   decimal.Decimal `yaml:"net_loss" json:"net_loss"`
	Equity    decimal.Decimal `yaml:"equity" json:"equity"`
	// MaxDrawdown and MaxRunup are non-negative magnitudes of the widest equity excursion
	// below and above the initial capital.
	MaxDrawdown decimal.Decimal `yaml:"max_drawdown" json:"max_drawdown"`
	MaxRunup    decimal.Decimal `yaml:"max_runup" json:"max_runup"`
}

// NewStrategyModule returns the ledger of a strategy that has not traded yet.
func NewStrategyModule(symbol Symbol, initialCapital, makerFeeRate, takerFeeRate decimal.Decimal) StrategyModule {
	return StrategyModule{
		Symbol:                 symbol,
		InitialCapital:         initialCapital,
		MakerFeeRate:           makerFeeRate,
		TakerFeeRate:           takerFeeRate,
		TotalCapital:           initialCapital,
		InOrdersCapital:        decimal.Zero,
		AvailableCapital:       initialCapital,
		TotalAssetQuantity:     decimal.Zero,
		InOrdersAssetQuantity:  decimal.Zero,
		AvailableAssetQuantity: decimal.Zero,
		TotalFees:              TotalFees{Capital: decimal.Zero, Asset: decimal.Zero},
		OpenReturn:             decimal.Zero,
		NetReturn:              decimal.Zero,
		NetProfit:              decimal.Zero,
		NetLoss:                decimal.Zero,
		Equity:                 initialCapital,
		MaxDrawdown:            decimal.Zero,
		MaxRunup:               decimal.Zero,
	}
}

func (m StrategyModule) AssetCurrency() string {
	return m.Symbol.AssetCurrency()
}

func (m StrategyModule) CapitalCurrency() string {
	return m.Symbol.CapitalCurrency()
}
