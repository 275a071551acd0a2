package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kline is one candlestick of historical market data.
type Kline struct {
	Symbol    string          `csv:"symbol" json:"symbol"`
	OpenTime  time.Time       `csv:"open_time" json:"open_time"`
	CloseTime time.Time       `csv:"close_time" json:"close_time"`
	Open      decimal.Decimal `csv:"open" json:"open"`
	High      decimal.Decimal `csv:"high" json:"high"`
	Low       decimal.Decimal `csv:"low" json:"low"`
	Close     decimal.Decimal `csv:"close" json:"close"`
	Volume    decimal.Decimal `csv:"volume" json:"volume"`
}

// Contains reports whether price lies within the [low, high] range of the kline.
func (k Kline) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(k.Low) && price.LessThanOrEqual(k.High)
}
