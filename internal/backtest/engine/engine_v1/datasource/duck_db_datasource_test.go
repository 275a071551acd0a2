package datasource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/stretchr/testify/suite"
)

type DuckDBDataSourceTestSuite struct {
	suite.Suite
	dataSource DataSource
	dataPath   string
}

func TestDuckDBDataSourceSuite(t *testing.T) {
	suite.Run(t, new(DuckDBDataSourceTestSuite))
}

const klineCSV = `time,symbol,open,high,low,close,volume
2024-01-01 00:00:00,BTCUSDT,100.5,110,95,105.25,12
2024-01-01 00:01:00,BTCUSDT,105.25,108,101,102,8.5
2024-01-01 00:02:00,BTCUSDT,102,104,99,103.75,10
2024-01-01 00:03:00,BTCUSDT,103.75,112,103,111,20
`

func (suite *DuckDBDataSourceTestSuite) SetupTest() {
	suite.dataPath = filepath.Join(suite.T().TempDir(), "klines.csv")
	suite.Require().NoError(os.WriteFile(suite.dataPath, []byte(klineCSV), 0600))

	dataSource, err := NewDataSource("", Interval1m, logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.Require().NoError(dataSource.Initialize(suite.dataPath))

	suite.dataSource = dataSource
}

func (suite *DuckDBDataSourceTestSuite) TearDownTest() {
	suite.NoError(suite.dataSource.Close())
}

func (suite *DuckDBDataSourceTestSuite) readAll(start, end optional.Option[time.Time]) []types.Kline {
	klines := []types.Kline{}

	for kline, err := range suite.dataSource.ReadAll(start, end) {
		suite.Require().NoError(err)

		klines = append(klines, kline)
	}

	return klines
}

func (suite *DuckDBDataSourceTestSuite) TestReadAll() {
	klines := suite.readAll(optional.None[time.Time](), optional.None[time.Time]())
	suite.Len(klines, 4)

	first := klines[0]
	suite.Equal("BTCUSDT", first.Symbol)
	suite.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), first.OpenTime.UTC())
	suite.Equal(first.OpenTime.Add(time.Minute), first.CloseTime)
	suite.Equal("100.5", first.Open.String())
	suite.Equal("110", first.High.String())
	suite.Equal("95", first.Low.String())
	suite.Equal("105.25", first.Close.String())
	suite.Equal("12", first.Volume.String())

	for i := 1; i < len(klines); i++ {
		suite.True(klines[i].OpenTime.After(klines[i-1].OpenTime))
	}
}

func (suite *DuckDBDataSourceTestSuite) TestReadRange() {
	start := optional.Some(time.Date(2024, 1, 1, 0, 1, 0, 0, time.UTC))
	end := optional.Some(time.Date(2024, 1, 1, 0, 2, 0, 0, time.UTC))

	klines := suite.readAll(start, end)
	suite.Len(klines, 2)
	suite.Equal("102", klines[0].Close.String())
	suite.Equal("103.75", klines[1].Close.String())

	count, err := suite.dataSource.Count(start, end)
	suite.NoError(err)
	suite.Equal(2, count)
}

func (suite *DuckDBDataSourceTestSuite) TestCount() {
	count, err := suite.dataSource.Count(optional.None[time.Time](), optional.None[time.Time]())
	suite.NoError(err)
	suite.Equal(4, count)

	count, err = suite.dataSource.Count(optional.Some(time.Date(2024, 1, 1, 0, 3, 0, 0, time.UTC)), optional.None[time.Time]())
	suite.NoError(err)
	suite.Equal(1, count)
}

func (suite *DuckDBDataSourceTestSuite) TestStopEarly() {
	read := 0

	for _, err := range suite.dataSource.ReadAll(optional.None[time.Time](), optional.None[time.Time]()) {
		suite.NoError(err)

		read++
		if read == 2 {
			break
		}
	}

	suite.Equal(2, read)
}

func (suite *DuckDBDataSourceTestSuite) TestInitializeMissingFile() {
	dataSource, err := NewDataSource("", Interval1m, logger.NewNopLogger())
	suite.Require().NoError(err)

	defer dataSource.Close()

	suite.Error(dataSource.Initialize(filepath.Join(suite.T().TempDir(), "missing.parquet")))
}

func (suite *DuckDBDataSourceTestSuite) TestUnsupportedInterval() {
	_, err := NewDataSource("", Interval("2m"), logger.NewNopLogger())
	suite.Error(err)
}
