// Package marketdata downloads historical klines into parquet files the backtest engine
// can replay.
package marketdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/rxtech-lab/argo-backtest/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-backtest/pkg/marketdata/writer"
	"go.uber.org/zap"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	// DataPath is the folder the parquet files are written to.
	DataPath string `validate:"required"`
	// BaseURL overrides the Binance API endpoint.
	BaseURL string `validate:"omitempty,url"`
}

// DownloadParams holds the parameters for a market data download request.
type DownloadParams struct {
	Symbol    string              `validate:"required"`
	Interval  datasource.Interval `validate:"required"`
	StartDate time.Time           `validate:"required"`
	EndDate   time.Time           `validate:"required,gtfield=StartDate"`
}

// Client downloads klines from a provider and stores them with a DuckDB writer.
type Client struct {
	provider   provider.Provider
	config     ClientConfig
	validate   *validator.Validate
	onProgress provider.OnDownloadProgress
	log        *logger.Logger
}

// NewClient creates a market data client downloading from Binance.
func NewClient(config ClientConfig, onProgress provider.OnDownloadProgress, log *logger.Logger) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	return newClient(config, provider.NewBinanceClient(config.BaseURL), onProgress, log), nil
}

func newClient(config ClientConfig, p provider.Provider, onProgress provider.OnDownloadProgress, log *logger.Logger) *Client {
	return &Client{
		provider:   p,
		config:     config,
		validate:   validator.New(),
		onProgress: onProgress,
		log:        log,
	}
}

// Download downloads the klines described by params and returns the path of the parquet
// file. The context can be used to cancel the download operation.
func (c *Client) Download(ctx context.Context, params DownloadParams) (string, error) {
	if err := c.validate.Struct(params); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidParameter, "invalid download parameters", err)
	}

	if err := os.MkdirAll(c.config.DataPath, 0755); err != nil {
		return "", errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to create data folder", err)
	}

	klineWriter := writer.NewDuckDBWriter(filepath.Join(c.config.DataPath, OutputFileName(params)), c.log)

	defer func() {
		if err := klineWriter.Close(); err != nil {
			c.log.Warn("Failed to close writer", zap.Error(err))
		}
	}()

	c.provider.ConfigWriter(klineWriter)

	path, err := c.provider.Download(ctx, params.Symbol, params.Interval, params.StartDate, params.EndDate, c.onProgress)
	if err != nil {
		return "", err
	}

	c.log.Info("Download finished",
		zap.String("symbol", params.Symbol),
		zap.String("interval", string(params.Interval)),
		zap.String("path", path),
	)

	return path, nil
}

// OutputFileName is SYMBOL_INTERVAL_START_END.parquet with dates formatted as YYYY-MM-DD.
func OutputFileName(params DownloadParams) string {
	return fmt.Sprintf("%s_%s_%s_%s.parquet",
		params.Symbol,
		params.Interval,
		params.StartDate.Format("2006-01-02"),
		params.EndDate.Format("2006-01-02"),
	)
}
