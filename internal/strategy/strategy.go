// Package strategy holds the strategies the backtest engine can run.
package strategy

import (
	"context"

	"github.com/rxtech-lab/argo-backtest/internal/runtime"
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

type Strategy interface {
	// Name returns a stable name used in result folder names.
	Name() string
	// Initialize configures the strategy from its YAML configuration.
	Initialize(config string) error
	// ProcessKline is called once per kline after the opening orders were matched against it.
	ProcessKline(ctx context.Context, api runtime.StrategyApi, kline types.Kline) error
}

// ConfigSchemaProvider is implemented by strategies that can describe their configuration
// as a JSON schema.
type ConfigSchemaProvider interface {
	GetConfigSchema() (string, error)
}
