package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/shopspring/decimal"
)

// DataGenerator generates realistic klines for testing.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how klines are generated.
type GeneratorConfig struct {
	Symbol    string
	StartTime time.Time
	// Interval is the duration of each kline
	Interval time.Duration
	Count    int
	// InitialPrice is the open of the first kline
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% per kline)
	Volatility float64
	// Trend is the total drift over the series (-0.01 to 0.01 for bearish to bullish)
	Trend      float64
	VolumeBase float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:       "BTCUSDT",
		StartTime:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:     time.Minute,
		Count:        1000,
		InitialPrice: 100.0,
		Volatility:   0.002,
		Trend:        0.0,
		VolumeBase:   10,
	}
}

// Generate creates klines following a geometric Brownian motion.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Kline {
	klines := make([]types.Kline, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := range config.Count {
		open := currentPrice

		// Box-Muller transform for a normally distributed move
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Count)

		close := open * (1 + config.Volatility*z + drift)
		if close <= 0 {
			close = open * 0.99
		}

		high := math.Max(open, close) + math.Abs(g.rng.Float64()*config.Volatility*open*0.5)
		low := math.Min(open, close) - math.Abs(g.rng.Float64()*config.Volatility*open*0.5)

		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		volume := config.VolumeBase * (0.5 + g.rng.Float64())

		klines[i] = types.Kline{
			Symbol:    config.Symbol,
			OpenTime:  currentTime,
			CloseTime: currentTime.Add(config.Interval),
			Open:      roundToDecimals(open, 4),
			High:      roundToDecimals(high, 4),
			Low:       roundToDecimals(low, 4),
			Close:     roundToDecimals(close, 4),
			Volume:    roundToDecimals(volume, 2),
		}

		currentPrice = close
		currentTime = currentTime.Add(config.Interval)
	}

	return klines
}

// GenerateKlines generates count klines with default settings and a fixed seed.
func GenerateKlines(count int) []types.Kline {
	config := DefaultConfig()
	config.Count = count

	return NewDataGenerator(42).Generate(config)
}

// KlineIterator adapts a slice of klines to the iterator returned by DataSource.ReadAll.
func KlineIterator(klines []types.Kline) func(yield func(types.Kline, error) bool) {
	return func(yield func(types.Kline, error) bool) {
		for _, kline := range klines {
			if !yield(kline, nil) {
				return
			}
		}
	}
}

func roundToDecimals(val float64, decimals int32) decimal.Decimal {
	return decimal.NewFromFloat(val).Round(decimals)
}
