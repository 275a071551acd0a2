package writer

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// KlineWriter stores downloaded klines in a file the backtest data source can read.
type KlineWriter interface {
	// Initialize sets up the writer, potentially creating tables or files.
	Initialize() error
	// Write persists a single kline.
	Write(kline types.Kline) error
	// Finalize completes the writing process and returns the path of the written file.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}
