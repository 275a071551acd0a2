package writer

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

const (
	OrdersFileName = "orders.parquet"
	TradesFileName = "trades.parquet"
	StatsFileName  = "stats.yaml"
)

// ResultWriter persists the outcome of a run.
type ResultWriter interface {
	// Write stores the orders and trades of snapshot and the run statistics in dir, creating
	// it when missing. The returned stats carry the paths of the written files.
	Write(dir string, snapshot types.Snapshot, stats types.BacktestStats) (types.BacktestStats, error)
}
