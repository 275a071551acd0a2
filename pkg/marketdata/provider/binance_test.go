package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	argoErrors "github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// mockWriter records the klines written to it.
type mockWriter struct {
	initializeErr error
	writeErr      error
	finalizeErr   error
	outputPath    string
	written       []types.Kline
	finalized     int
}

func (m *mockWriter) Initialize() error {
	return m.initializeErr
}

func (m *mockWriter) Write(kline types.Kline) error {
	if m.writeErr != nil {
		return m.writeErr
	}

	m.written = append(m.written, kline)

	return nil
}

func (m *mockWriter) Finalize() (string, error) {
	m.finalized++

	return m.outputPath, m.finalizeErr
}

func (m *mockWriter) Close() error {
	return nil
}

func (m *mockWriter) GetOutputPath() string {
	return m.outputPath
}

// mockBinanceAPIClient returns one page per call and records the requested start times.
type mockBinanceAPIClient struct {
	pages  [][]*binance.Kline
	errs   []error
	starts []int64
	limit  int
	calls  int
}

func (m *mockBinanceAPIClient) NewKlinesService() BinanceKlinesService {
	return &mockBinanceKlinesService{client: m}
}

type mockBinanceKlinesService struct {
	client   *mockBinanceAPIClient
	symbol   string
	interval string
	start    int64
}

func (m *mockBinanceKlinesService) Symbol(symbol string) BinanceKlinesService {
	m.symbol = symbol

	return m
}

func (m *mockBinanceKlinesService) Interval(interval string) BinanceKlinesService {
	m.interval = interval

	return m
}

func (m *mockBinanceKlinesService) StartTime(startTime int64) BinanceKlinesService {
	m.start = startTime

	return m
}

func (m *mockBinanceKlinesService) EndTime(_ int64) BinanceKlinesService {
	return m
}

func (m *mockBinanceKlinesService) Limit(limit int) BinanceKlinesService {
	m.client.limit = limit

	return m
}

func (m *mockBinanceKlinesService) Do(_ context.Context) ([]*binance.Kline, error) {
	idx := m.client.calls
	m.client.calls++
	m.client.starts = append(m.client.starts, m.start)

	var err error
	if idx < len(m.client.errs) {
		err = m.client.errs[idx]
	}

	if idx < len(m.client.pages) {
		return m.client.pages[idx], err
	}

	return nil, err
}

var downloadStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// page returns count one-minute klines starting at from.
func page(from time.Time, count int) []*binance.Kline {
	klines := make([]*binance.Kline, count)

	for i := range count {
		open := from.Add(time.Duration(i) * time.Minute)
		klines[i] = &binance.Kline{
			OpenTime:  open.UnixMilli(),
			CloseTime: open.Add(time.Minute).UnixMilli() - 1,
			Open:      "100.5",
			High:      "101",
			Low:       "99.75",
			Close:     fmt.Sprintf("%d.25", 100+i%3),
			Volume:    "12.5",
		}
	}

	return klines
}

type BinanceClientTestSuite struct {
	suite.Suite
}

func TestBinanceClientSuite(t *testing.T) {
	suite.Run(t, new(BinanceClientTestSuite))
}

func (suite *BinanceClientTestSuite) TestNewBinanceClient() {
	client, ok := NewBinanceClient("").(*BinanceClient)
	suite.Require().True(ok)
	suite.NotNil(client.apiClient)
	suite.Nil(client.writer)
}

func (suite *BinanceClientTestSuite) TestDownloadWithoutWriter() {
	client := NewBinanceClientWithAPI(&mockBinanceAPIClient{})

	_, err := client.Download(context.Background(), "BTCUSDT", datasource.Interval1m, downloadStart, downloadStart.Add(time.Hour), nil)
	suite.Error(err)
	suite.Equal(argoErrors.ErrCodeInvalidConfiguration, argoErrors.GetCode(err))
}

func (suite *BinanceClientTestSuite) TestDownloadWithInvalidInterval() {
	client := NewBinanceClientWithAPI(&mockBinanceAPIClient{})
	client.ConfigWriter(&mockWriter{})

	_, err := client.Download(context.Background(), "BTCUSDT", datasource.Interval("3d"), downloadStart, downloadStart.Add(time.Hour), nil)
	suite.Equal(argoErrors.ErrCodeInvalidParameter, argoErrors.GetCode(err))
}

func (suite *BinanceClientTestSuite) TestDownloadWriterInitializationError() {
	client := NewBinanceClientWithAPI(&mockBinanceAPIClient{})
	client.ConfigWriter(&mockWriter{initializeErr: errors.New("initialization failed")})

	_, err := client.Download(context.Background(), "BTCUSDT", datasource.Interval1m, downloadStart, downloadStart.Add(time.Hour), nil)
	suite.Error(err)
	suite.Contains(err.Error(), "failed to initialize writer")
}

func (suite *BinanceClientTestSuite) TestDownloadPaginates() {
	first := page(downloadStart, binanceKlinesLimit)
	secondStart := downloadStart.Add(binanceKlinesLimit * time.Minute)
	api := &mockBinanceAPIClient{pages: [][]*binance.Kline{first, page(secondStart, 10)}}

	w := &mockWriter{outputPath: "/tmp/BTCUSDT.parquet"}
	client := NewBinanceClientWithAPI(api)
	client.ConfigWriter(w)

	var progress []float64

	path, err := client.Download(context.Background(), "BTCUSDT", datasource.Interval1m, downloadStart, downloadStart.Add(48*time.Hour),
		func(current, _ float64, _ string) { progress = append(progress, current) })
	suite.Require().NoError(err)

	suite.Equal("/tmp/BTCUSDT.parquet", path)
	suite.Equal(2, api.calls)
	suite.Equal(binanceKlinesLimit, api.limit)
	suite.Equal([]int64{downloadStart.UnixMilli(), secondStart.UnixMilli()}, api.starts)
	suite.Len(w.written, binanceKlinesLimit+10)
	suite.Equal(1, w.finalized)
	suite.Len(progress, 2)

	kline := w.written[0]
	suite.Equal("BTCUSDT", kline.Symbol)
	suite.True(kline.OpenTime.Equal(downloadStart))
	suite.True(kline.CloseTime.Equal(downloadStart.Add(time.Minute)))
	suite.True(kline.Open.Equal(decimal.RequireFromString("100.5")))
	suite.True(kline.Low.Equal(decimal.RequireFromString("99.75")))
	suite.True(kline.Volume.Equal(decimal.RequireFromString("12.5")))
}

func (suite *BinanceClientTestSuite) TestDownloadEmptyRange() {
	api := &mockBinanceAPIClient{}
	w := &mockWriter{outputPath: "empty.parquet"}
	client := NewBinanceClientWithAPI(api)
	client.ConfigWriter(w)

	path, err := client.Download(context.Background(), "BTCUSDT", datasource.Interval1m, downloadStart, downloadStart.Add(time.Hour), nil)
	suite.Require().NoError(err)
	suite.Equal("empty.parquet", path)
	suite.Equal(1, api.calls)
	suite.Empty(w.written)
}

func (suite *BinanceClientTestSuite) TestDownloadErrors() {
	broken := page(downloadStart, 1)
	broken[0].Close = "not-a-number"

	tests := []struct {
		name   string
		api    *mockBinanceAPIClient
		writer *mockWriter
		code   argoErrors.ErrorCode
	}{
		{
			name:   "fetch error",
			api:    &mockBinanceAPIClient{errs: []error{errors.New("rate limited")}},
			writer: &mockWriter{},
			code:   argoErrors.ErrCodeMarketDataFetchFailed,
		},
		{
			name:   "invalid kline",
			api:    &mockBinanceAPIClient{pages: [][]*binance.Kline{broken}},
			writer: &mockWriter{},
			code:   argoErrors.ErrCodeMarketDataParseFailed,
		},
		{
			name:   "write error",
			api:    &mockBinanceAPIClient{pages: [][]*binance.Kline{page(downloadStart, 1)}},
			writer: &mockWriter{writeErr: errors.New("disk full")},
			code:   argoErrors.ErrCodeMarketDataFetchFailed,
		},
		{
			name:   "finalize error",
			api:    &mockBinanceAPIClient{pages: [][]*binance.Kline{page(downloadStart, 1)}},
			writer: &mockWriter{finalizeErr: errors.New("export failed")},
			code:   argoErrors.ErrCodeMarketDataFetchFailed,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			client := NewBinanceClientWithAPI(tc.api)
			client.ConfigWriter(tc.writer)

			_, err := client.Download(context.Background(), "BTCUSDT", datasource.Interval1m, downloadStart, downloadStart.Add(time.Hour), nil)
			suite.Error(err)
			suite.Equal(tc.code, argoErrors.GetCode(err))
		})
	}
}

func (suite *BinanceClientTestSuite) TestDownloadCanceled() {
	api := &mockBinanceAPIClient{}
	client := NewBinanceClientWithAPI(api)
	client.ConfigWriter(&mockWriter{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Download(ctx, "BTCUSDT", datasource.Interval1m, downloadStart, downloadStart.Add(time.Hour), nil)
	suite.ErrorIs(err, context.Canceled)
	suite.Equal(0, api.calls)
}
