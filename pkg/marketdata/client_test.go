package marketdata

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/mocks"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// ClientTestSuite is a test suite for the Client implementation
type ClientTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockProvider *mocks.MockProvider
	tempDir      string
}

func (suite *ClientTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockProvider = mocks.NewMockProvider(suite.ctrl)
	suite.tempDir = suite.T().TempDir()
}

func (suite *ClientTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (suite *ClientTestSuite) newClient() *Client {
	return newClient(ClientConfig{DataPath: suite.tempDir}, suite.mockProvider, nil, logger.NewNopLogger())
}

func validParams() DownloadParams {
	return DownloadParams{
		Symbol:    "BTCUSDT",
		Interval:  datasource.Interval1m,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
}

func (suite *ClientTestSuite) TestDownload() {
	params := validParams()
	expectedPath := filepath.Join(suite.tempDir, "BTCUSDT_1m_2024-01-01_2024-01-31.parquet")

	suite.mockProvider.EXPECT().ConfigWriter(gomock.Any()).Times(1)
	suite.mockProvider.EXPECT().
		Download(gomock.Any(), "BTCUSDT", datasource.Interval1m, params.StartDate, params.EndDate, gomock.Any()).
		Return(expectedPath, nil).
		Times(1)

	path, err := suite.newClient().Download(context.Background(), params)
	suite.Require().NoError(err)
	suite.Equal(expectedPath, path)
}

func (suite *ClientTestSuite) TestDownloadInvalidParams() {
	testCases := []struct {
		name   string
		modify func(p *DownloadParams)
	}{
		{
			name:   "missing symbol",
			modify: func(p *DownloadParams) { p.Symbol = "" },
		},
		{
			name:   "missing interval",
			modify: func(p *DownloadParams) { p.Interval = "" },
		},
		{
			name:   "end before start",
			modify: func(p *DownloadParams) { p.EndDate = p.StartDate.Add(-time.Hour) },
		},
		{
			name:   "end equals start",
			modify: func(p *DownloadParams) { p.EndDate = p.StartDate },
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			params := validParams()
			tc.modify(&params)

			_, err := suite.newClient().Download(context.Background(), params)
			suite.Require().Error(err)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
		})
	}
}

func (suite *ClientTestSuite) TestDownloadProviderError() {
	suite.mockProvider.EXPECT().ConfigWriter(gomock.Any()).Times(1)
	suite.mockProvider.EXPECT().
		Download(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New(errors.ErrCodeMarketDataFetchFailed, "rate limited")).
		Times(1)

	path, err := suite.newClient().Download(context.Background(), validParams())
	suite.Require().Error(err)
	suite.Empty(path)
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataFetchFailed))
}

func (suite *ClientTestSuite) TestDownloadCreatesDataFolder() {
	dataPath := filepath.Join(suite.tempDir, "nested", "data")
	client := newClient(ClientConfig{DataPath: dataPath}, suite.mockProvider, nil, logger.NewNopLogger())

	suite.mockProvider.EXPECT().ConfigWriter(gomock.Any()).Times(1)
	suite.mockProvider.EXPECT().
		Download(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(filepath.Join(dataPath, "out.parquet"), nil)

	_, err := client.Download(context.Background(), validParams())
	suite.Require().NoError(err)
	suite.DirExists(dataPath)
}

func (suite *ClientTestSuite) TestNewClient() {
	testCases := []struct {
		name        string
		config      ClientConfig
		expectError bool
	}{
		{
			name:   "valid config",
			config: ClientConfig{DataPath: suite.tempDir},
		},
		{
			name:   "valid config with base url",
			config: ClientConfig{DataPath: suite.tempDir, BaseURL: "http://localhost:8080"},
		},
		{
			name:        "missing data path",
			config:      ClientConfig{},
			expectError: true,
		},
		{
			name:        "invalid base url",
			config:      ClientConfig{DataPath: suite.tempDir, BaseURL: "not a url"},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			client, err := NewClient(tc.config, nil, logger.NewNopLogger())
			if tc.expectError {
				suite.Require().Error(err)
				suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
				suite.Nil(client)

				return
			}

			suite.Require().NoError(err)
			suite.NotNil(client)
		})
	}
}

func (suite *ClientTestSuite) TestOutputFileName() {
	params := validParams()
	params.Symbol = "ETHUSDT"
	params.Interval = datasource.Interval1h

	suite.Equal("ETHUSDT_1h_2024-01-01_2024-01-31.parquet", OutputFileName(params))
}
