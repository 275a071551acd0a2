package datasource

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval4h  Interval = "4h"
	Interval6h  Interval = "6h"
	Interval8h  Interval = "8h"
	Interval12h Interval = "12h"
	Interval1d  Interval = "1d"
	Interval1w  Interval = "1w"
)

var AllIntervals = []any{
	Interval1m, Interval5m, Interval15m, Interval30m,
	Interval1h, Interval4h, Interval6h, Interval8h, Interval12h,
	Interval1d, Interval1w,
}

type DataSource interface {
	// Initialize loads the klines stored at path. Parquet and CSV files are supported,
	// a glob pattern loads several files as one series.
	Initialize(path string) error
	// ReadAll yields the klines between start and end in ascending open time.
	ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.Kline, error) bool)
	// Count returns the number of klines between start and end.
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Close closes the data source and releases any resources
	Close() error
}
