package types

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type StatisticsTestSuite struct {
	suite.Suite
}

func TestStatisticsSuite(t *testing.T) {
	suite.Run(t, new(StatisticsTestSuite))
}

func (suite *StatisticsTestSuite) TestWriteBacktestStats() {
	path := filepath.Join(suite.T().TempDir(), "stats.yaml")

	stats := BacktestStats{
		ID:        "run-1",
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Symbol:    "BTCUSDT",
		Strategy:  "SmaCrossover",
		TradeResult: TradeResult{
			NumberOfTrades:        4,
			NumberOfWinningTrades: 3,
			NumberOfLosingTrades:  1,
			WinRate:               0.75,
		},
		FinalEquity: "1007.84",
		TotalFees:   map[string]string{"BTC": "0.02", "USDT": "0.16"},
	}

	suite.Require().NoError(WriteBacktestStats(path, stats))

	data, err := os.ReadFile(path)
	suite.Require().NoError(err)

	var decoded map[string]any
	suite.Require().NoError(yaml.Unmarshal(data, &decoded))

	suite.Equal("run-1", decoded["id"])
	suite.Equal("1007.84", decoded["final_equity"])
	suite.Equal(map[string]any{"BTC": "0.02", "USDT": "0.16"}, decoded["total_fees"])

	tradeResult, ok := decoded["trade_result"].(map[string]any)
	suite.Require().True(ok)
	suite.Equal(4, tradeResult["number_of_trades"])
	suite.Equal(0.75, tradeResult["win_rate"])
}

func (suite *StatisticsTestSuite) TestWriteBacktestStatsBadPath() {
	err := WriteBacktestStats(filepath.Join(suite.T().TempDir(), "missing", "stats.yaml"), BacktestStats{})
	suite.Error(err)
}
