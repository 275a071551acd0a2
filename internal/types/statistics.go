package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type TradeResult struct {
	// Count of closed trades.
	NumberOfTrades int `yaml:"number_of_trades"`
	// Count of closed trades with a positive net return.
	NumberOfWinningTrades int `yaml:"number_of_winning_trades"`
	// Count of closed trades with a negative net return.
	NumberOfLosingTrades int `yaml:"number_of_losing_trades"`
	// Count of trades still open at the end of the run.
	NumberOfOpenTrades int `yaml:"number_of_open_trades"`
	// Winning trades / closed trades.
	WinRate float64 `yaml:"win_rate"`
}

type OrderResult struct {
	Filled    int `yaml:"filled"`
	Canceled  int `yaml:"canceled"`
	Rejected  int `yaml:"rejected"`
	Opening   int `yaml:"opening"`
	Submitted int `yaml:"submitted"`
	// Settled counts the orders in a terminal status.
	Settled int `yaml:"settled"`
}

type TradeHoldingTime struct {
	// Minimum holding time of a closed trade in seconds
	Min int `yaml:"min"`
	// Maximum holding time of a closed trade in seconds
	Max int `yaml:"max"`
	// Average holding time of a closed trade in seconds
	Avg int `yaml:"avg"`
}

type BacktestStats struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	Symbol    string    `yaml:"symbol" json:"symbol"`
	Strategy  string    `yaml:"strategy" json:"strategy"`

	TradeResult      TradeResult      `yaml:"trade_result"`
	OrderResult      OrderResult      `yaml:"order_result"`
	TradeHoldingTime TradeHoldingTime `yaml:"trade_holding_time"`

	InitialCapital string `yaml:"initial_capital"`
	FinalEquity    string `yaml:"final_equity"`
	NetReturn      string `yaml:"net_return"`
	NetProfit      string `yaml:"net_profit"`
	NetLoss        string `yaml:"net_loss"`
	OpenReturn     string `yaml:"open_return"`
	MaxDrawdown    string `yaml:"max_drawdown"`
	MaxRunup       string `yaml:"max_runup"`
	// Fees paid, keyed by currency.
	TotalFees map[string]string `yaml:"total_fees"`
	// BuyAndHoldReturn is what holding the asset from the first to the last close would have returned.
	BuyAndHoldReturn string `yaml:"buy_and_hold_return"`

	// OrdersFilePath is the path to the orders parquet file.
	OrdersFilePath string `yaml:"orders_file_path" json:"orders_file_path"`
	// TradesFilePath is the path to the trades parquet file.
	TradesFilePath string `yaml:"trades_file_path" json:"trades_file_path"`
	// DataPath is the path to the market data file used for this backtest.
	DataPath string `yaml:"data_path" json:"data_path"`
}

func WriteBacktestStats(path string, stats BacktestStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest stats to file: %w", err)
	}

	return nil
}
