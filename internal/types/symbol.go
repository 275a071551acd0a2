package types

import (
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/shopspring/decimal"
)

// LotSizeFilter bounds the quantity of an order. It is used for both the LOT_SIZE
// and the MARKET_LOT_SIZE exchange filters.
// A zero MaxQuantity means no upper bound, a zero StepSize disables the step check.
type LotSizeFilter struct {
	MinQuantity decimal.Decimal `yaml:"min_quantity" json:"min_quantity"`
	MaxQuantity decimal.Decimal `yaml:"max_quantity" json:"max_quantity"`
	StepSize    decimal.Decimal `yaml:"step_size" json:"step_size"`
}

// PriceFilter bounds the limit and stop prices of an order.
// A zero MaxPrice means no upper bound, a zero TickSize disables the tick check.
type PriceFilter struct {
	MinPrice decimal.Decimal `yaml:"min_price" json:"min_price"`
	MaxPrice decimal.Decimal `yaml:"max_price" json:"max_price"`
	TickSize decimal.Decimal `yaml:"tick_size" json:"tick_size"`
}

// MinNotionalFilter requires price * quantity to reach MinNotional.
type MinNotionalFilter struct {
	MinNotional   decimal.Decimal `yaml:"min_notional" json:"min_notional"`
	ApplyToMarket bool            `yaml:"apply_to_market" json:"apply_to_market"`
	// AvgPriceMins is the number of minutes the exchange averages the price over for market orders.
	// 0 means the last price is used.
	AvgPriceMins int `yaml:"avg_price_mins" json:"avg_price_mins"`
}

// NotionalFilter bounds price * quantity from both sides.
// A zero MaxNotional means no upper bound.
type NotionalFilter struct {
	MinNotional      decimal.Decimal `yaml:"min_notional" json:"min_notional"`
	ApplyMinToMarket bool            `yaml:"apply_min_to_market" json:"apply_min_to_market"`
	MaxNotional      decimal.Decimal `yaml:"max_notional" json:"max_notional"`
	ApplyMaxToMarket bool            `yaml:"apply_max_to_market" json:"apply_max_to_market"`
	AvgPriceMins     int             `yaml:"avg_price_mins" json:"avg_price_mins"`
}

// SymbolFilters is the set of exchange filters of a symbol. Every filter is optional,
// a missing filter never fails validation.
type SymbolFilters struct {
	LotSize       optional.Option[LotSizeFilter]     `yaml:"lot_size" json:"lot_size"`
	MarketLotSize optional.Option[LotSizeFilter]     `yaml:"market_lot_size" json:"market_lot_size"`
	Price         optional.Option[PriceFilter]       `yaml:"price" json:"price"`
	MinNotional   optional.Option[MinNotionalFilter] `yaml:"min_notional" json:"min_notional"`
	Notional      optional.Option[NotionalFilter]    `yaml:"notional" json:"notional"`
}

// Symbol is the trading pair a strategy trades. The base asset is the asset currency
// and the quote asset is the capital currency.
type Symbol struct {
	Name                string        `yaml:"name" json:"name" validate:"required"`
	BaseAsset           string        `yaml:"base_asset" json:"base_asset" validate:"required"`
	QuoteAsset          string        `yaml:"quote_asset" json:"quote_asset" validate:"required,nefield=BaseAsset"`
	BaseAssetPrecision  int32         `yaml:"base_asset_precision" json:"base_asset_precision" validate:"gte=0,lte=18"`
	QuoteAssetPrecision int32         `yaml:"quote_asset_precision" json:"quote_asset_precision" validate:"gte=0,lte=18"`
	OrderTypes          []OrderType   `yaml:"order_types" json:"order_types" validate:"dive,oneof=MARKET LIMIT STOP_MARKET STOP_LIMIT"`
	Filters             SymbolFilters `yaml:"filters" json:"filters"`
}

// AssetCurrency returns the currency the strategy buys and sells.
func (s Symbol) AssetCurrency() string {
	return s.BaseAsset
}

// CapitalCurrency returns the currency the strategy pays with.
func (s Symbol) CapitalCurrency() string {
	return s.QuoteAsset
}

// AllowsOrderType reports whether orders of the given type may be placed on the symbol.
// Cancel requests are always allowed.
func (s Symbol) AllowsOrderType(orderType OrderType) bool {
	if orderType == OrderTypeCancel {
		return true
	}

	return slices.Contains(s.OrderTypes, orderType)
}

// Validate validates the Symbol struct.
func (s *Symbol) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSymbol, "invalid symbol", err)
	}

	return nil
}
