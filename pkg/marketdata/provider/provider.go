package provider

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/pkg/marketdata/writer"
)

// OnDownloadProgress reports the download progress. current and total are millisecond
// timestamps: the open time of the last downloaded kline and the requested end time.
type OnDownloadProgress = func(current float64, total float64, message string)

type Provider interface {
	// ConfigWriter configures the writer the downloaded klines are stored with.
	ConfigWriter(writer writer.KlineWriter)
	// Download downloads the klines of symbol between start and end and returns the path of
	// the written file. The context can be used to cancel the download operation.
	// example:
	// Download(ctx, "BTCUSDT", datasource.Interval1m, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), onProgress)
	Download(ctx context.Context, symbol string, interval datasource.Interval, start time.Time, end time.Time, onProgress OnDownloadProgress) (path string, err error)
}
