// Package exchangeinfo converts Binance exchange information into the symbol definitions
// the backtest engine trades.
package exchangeinfo

import (
	"context"
	"encoding/json"
	"os"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/shopspring/decimal"
)

var orderTypes = map[string]types.OrderType{
	string(binance.OrderTypeMarket):        types.OrderTypeMarket,
	string(binance.OrderTypeLimit):         types.OrderTypeLimit,
	string(binance.OrderTypeStopLoss):      types.OrderTypeStopMarket,
	string(binance.OrderTypeStopLossLimit): types.OrderTypeStopLimit,
	string(types.OrderTypeStopMarket):      types.OrderTypeStopMarket,
	string(types.OrderTypeStopLimit):       types.OrderTypeStopLimit,
}

// FromBinance converts a Binance symbol. Order types the engine cannot simulate
// (TAKE_PROFIT, LIMIT_MAKER, ...) are dropped.
func FromBinance(symbol binance.Symbol) (types.Symbol, error) {
	result := types.Symbol{
		Name:                symbol.Symbol,
		BaseAsset:           symbol.BaseAsset,
		QuoteAsset:          symbol.QuoteAsset,
		BaseAssetPrecision:  int32(symbol.BaseAssetPrecision),
		QuoteAssetPrecision: int32(symbol.QuoteAssetPrecision),
		OrderTypes:          []types.OrderType{},
		Filters:             types.SymbolFilters{},
	}

	for _, name := range symbol.OrderTypes {
		orderType, ok := orderTypes[name]
		if ok && !result.AllowsOrderType(orderType) {
			result.OrderTypes = append(result.OrderTypes, orderType)
		}
	}

	var err error

	if f := symbol.LotSizeFilter(); f != nil {
		result.Filters.LotSize, err = lotSize(f.MinQuantity, f.MaxQuantity, f.StepSize)
		if err != nil {
			return result, errors.Wrapf(errors.ErrCodeInvalidSymbol, err, "invalid LOT_SIZE filter of %s", symbol.Symbol)
		}
	}

	if f := symbol.MarketLotSizeFilter(); f != nil {
		result.Filters.MarketLotSize, err = lotSize(f.MinQuantity, f.MaxQuantity, f.StepSize)
		if err != nil {
			return result, errors.Wrapf(errors.ErrCodeInvalidSymbol, err, "invalid MARKET_LOT_SIZE filter of %s", symbol.Symbol)
		}
	}

	if f := symbol.PriceFilter(); f != nil {
		values, err := parseAll(f.MinPrice, f.MaxPrice, f.TickSize)
		if err != nil {
			return result, errors.Wrapf(errors.ErrCodeInvalidSymbol, err, "invalid PRICE_FILTER of %s", symbol.Symbol)
		}

		result.Filters.Price = optional.Some(types.PriceFilter{MinPrice: values[0], MaxPrice: values[1], TickSize: values[2]})
	}

	if f, ok := minNotionalFilter(symbol); ok {
		values, err := parseAll(f.MinNotional)
		if err != nil {
			return result, errors.Wrapf(errors.ErrCodeInvalidSymbol, err, "invalid MIN_NOTIONAL filter of %s", symbol.Symbol)
		}

		result.Filters.MinNotional = optional.Some(types.MinNotionalFilter{
			MinNotional:   values[0],
			ApplyToMarket: f.ApplyToMarket,
			AvgPriceMins:  f.AvgPriceMins,
		})
	}

	if f := symbol.NotionalFilter(); f != nil {
		values, err := parseAll(f.MinNotional, f.MaxNotional)
		if err != nil {
			return result, errors.Wrapf(errors.ErrCodeInvalidSymbol, err, "invalid NOTIONAL filter of %s", symbol.Symbol)
		}

		result.Filters.Notional = optional.Some(types.NotionalFilter{
			MinNotional:      values[0],
			ApplyMinToMarket: f.ApplyMinToMarket,
			MaxNotional:      values[1],
			ApplyMaxToMarket: f.ApplyMaxToMarket,
			AvgPriceMins:     f.AvgPriceMins,
		})
	}

	if err := result.Validate(); err != nil {
		return result, err
	}

	return result, nil
}

type minNotional struct {
	MinNotional   string
	ApplyToMarket bool
	AvgPriceMins  int
}

// minNotionalFilter reads the legacy MIN_NOTIONAL filter, which go-binance has no accessor for.
func minNotionalFilter(symbol binance.Symbol) (minNotional, bool) {
	for _, filter := range symbol.Filters {
		if filterType, _ := filter["filterType"].(string); filterType != string(binance.SymbolFilterTypeMinNotional) {
			continue
		}

		var f minNotional

		f.MinNotional, _ = filter["minNotional"].(string)
		f.ApplyToMarket, _ = filter["applyToMarket"].(bool)

		if v, ok := filter["avgPriceMins"]; ok {
			if mins, err := common.ToInt(v); err == nil {
				f.AvgPriceMins = mins
			}
		}

		return f, true
	}

	return minNotional{}, false
}

func lotSize(minQuantity, maxQuantity, stepSize string) (optional.Option[types.LotSizeFilter], error) {
	values, err := parseAll(minQuantity, maxQuantity, stepSize)
	if err != nil {
		return optional.None[types.LotSizeFilter](), err
	}

	return optional.Some(types.LotSizeFilter{MinQuantity: values[0], MaxQuantity: values[1], StepSize: values[2]}), nil
}

// parseAll parses exchange decimals. Empty strings are zero.
func parseAll(values ...string) ([]decimal.Decimal, error) {
	parsed := make([]decimal.Decimal, len(values))

	for i, value := range values {
		if value == "" {
			parsed[i] = decimal.Zero

			continue
		}

		d, err := decimal.NewFromString(value)
		if err != nil {
			return nil, err
		}

		parsed[i] = d
	}

	return parsed, nil
}

// LoadSymbolFile reads a symbol file, the JSON of one entry of the "symbols" array of
// Binance's /api/v3/exchangeInfo.
func LoadSymbolFile(path string) (types.Symbol, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Symbol{}, errors.Wrapf(errors.ErrCodeInvalidSymbol, err, "failed to read symbol file %s", path)
	}

	var symbol binance.Symbol
	if err := json.Unmarshal(data, &symbol); err != nil {
		return types.Symbol{}, errors.Wrapf(errors.ErrCodeInvalidSymbol, err, "failed to parse symbol file %s", path)
	}

	return FromBinance(symbol)
}

// Fetch downloads the exchange information of one symbol. The raw Binance symbol is
// returned so it can be stored as a symbol file.
func Fetch(ctx context.Context, client *binance.Client, name string) (binance.Symbol, error) {
	info, err := client.NewExchangeInfoService().Symbol(name).Do(ctx)
	if err != nil {
		return binance.Symbol{}, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch exchange info of %s", name)
	}

	for _, symbol := range info.Symbols {
		if symbol.Symbol == name {
			return symbol, nil
		}
	}

	return binance.Symbol{}, errors.Newf(errors.ErrCodeDataNotFound, "symbol %s not found in exchange info", name)
}

// WriteSymbolFile stores a Binance symbol so LoadSymbolFile can read it back.
func WriteSymbolFile(path string, symbol binance.Symbol) error {
	data, err := json.MarshalIndent(symbol, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSymbol, "failed to encode symbol", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidSymbol, err, "failed to write symbol file %s", path)
	}

	return nil
}
