package provider

import (
	"context"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/rxtech-lab/argo-backtest/pkg/marketdata/writer"
	"github.com/shopspring/decimal"
)

// binanceKlinesLimit is the largest page the klines endpoint returns.
const binanceKlinesLimit = 1000

// BinanceAPIClient is the part of binance.Client the provider uses.
type BinanceAPIClient interface {
	NewKlinesService() BinanceKlinesService
}

// BinanceKlinesService is the part of binance.KlinesService the provider uses.
type BinanceKlinesService interface {
	Symbol(symbol string) BinanceKlinesService
	Interval(interval string) BinanceKlinesService
	StartTime(startTime int64) BinanceKlinesService
	EndTime(endTime int64) BinanceKlinesService
	Limit(limit int) BinanceKlinesService
	Do(ctx context.Context) ([]*binance.Kline, error)
}

type realBinanceAPIClient struct {
	client *binance.Client
}

func (c *realBinanceAPIClient) NewKlinesService() BinanceKlinesService {
	return &realBinanceKlinesService{service: c.client.NewKlinesService()}
}

type realBinanceKlinesService struct {
	service *binance.KlinesService
}

func (s *realBinanceKlinesService) Symbol(symbol string) BinanceKlinesService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realBinanceKlinesService) Interval(interval string) BinanceKlinesService {
	s.service = s.service.Interval(interval)

	return s
}

func (s *realBinanceKlinesService) StartTime(startTime int64) BinanceKlinesService {
	s.service = s.service.StartTime(startTime)

	return s
}

func (s *realBinanceKlinesService) EndTime(endTime int64) BinanceKlinesService {
	s.service = s.service.EndTime(endTime)

	return s
}

func (s *realBinanceKlinesService) Limit(limit int) BinanceKlinesService {
	s.service = s.service.Limit(limit)

	return s
}

func (s *realBinanceKlinesService) Do(ctx context.Context) ([]*binance.Kline, error) {
	return s.service.Do(ctx)
}

type BinanceClient struct {
	apiClient BinanceAPIClient
	writer    writer.KlineWriter
}

// NewBinanceClient returns a provider for the public Binance spot API. baseURL overrides
// the API endpoint when set.
func NewBinanceClient(baseURL string) Provider {
	client := binance.NewClient("", "")
	if baseURL != "" {
		client.BaseURL = baseURL
	}

	return NewBinanceClientWithAPI(&realBinanceAPIClient{client: client})
}

// NewBinanceClientWithAPI returns a provider using apiClient for its requests.
func NewBinanceClientWithAPI(apiClient BinanceAPIClient) *BinanceClient {
	return &BinanceClient{
		apiClient: apiClient,
		writer:    nil,
	}
}

func (c *BinanceClient) ConfigWriter(w writer.KlineWriter) {
	c.writer = w
}

// Download pages through the klines endpoint from start to end and writes every kline.
func (c *BinanceClient) Download(ctx context.Context, symbol string, interval datasource.Interval, start time.Time, end time.Time, onProgress OnDownloadProgress) (path string, err error) {
	if _, err := datasource.IntervalDuration(interval); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidParameter, "unsupported interval", err)
	}

	if c.writer == nil {
		return "", errors.New(errors.ErrCodeInvalidConfiguration, "writer is not configured")
	}

	if err := c.writer.Initialize(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to initialize writer", err)
	}

	endMillis := end.UnixMilli()
	currentStart := start.UnixMilli()

	for currentStart < endMillis {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		klines, err := c.apiClient.NewKlinesService().
			Symbol(symbol).
			Interval(string(interval)).
			StartTime(currentStart).
			EndTime(endMillis).
			Limit(binanceKlinesLimit).
			Do(ctx)
		if err != nil {
			return "", errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch %s klines from Binance", symbol)
		}

		if len(klines) == 0 {
			break
		}

		if err := processKlines(c.writer, symbol, klines); err != nil {
			return "", err
		}

		last := klines[len(klines)-1]
		if onProgress != nil {
			onProgress(float64(last.OpenTime), float64(endMillis), "Downloading "+symbol+" klines from Binance")
		}

		if len(klines) < binanceKlinesLimit {
			break
		}

		// the close time of a kline is one millisecond before the next open time
		currentStart = last.CloseTime + 1
	}

	outputPath, err := c.writer.Finalize()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to finalize writer", err)
	}

	return outputPath, nil
}

// processKlines converts Binance klines and writes them.
func processKlines(w writer.KlineWriter, symbol string, klines []*binance.Kline) error {
	for _, k := range klines {
		kline, err := convertKline(symbol, k)
		if err != nil {
			return err
		}

		if err := w.Write(kline); err != nil {
			return errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to write kline", err)
		}
	}

	return nil
}

func convertKline(symbol string, k *binance.Kline) (types.Kline, error) {
	values := [5]decimal.Decimal{}

	for i, raw := range []string{k.Open, k.High, k.Low, k.Close, k.Volume} {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return types.Kline{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid kline value %q at %d", raw, k.OpenTime)
		}

		values[i] = value
	}

	return types.Kline{
		Symbol:    symbol,
		OpenTime:  time.UnixMilli(k.OpenTime).UTC(),
		CloseTime: time.UnixMilli(k.CloseTime + 1).UTC(),
		Open:      values[0],
		High:      values[1],
		Low:       values[2],
		Close:     values[3],
		Volume:    values[4],
	}, nil
}
