package mocks

//go:generate mockgen -destination=./mock_clock.go -package=mocks github.com/rxtech-lab/argo-backtest/internal/clock Clock
//go:generate mockgen -destination=./mock_idgen.go -package=mocks github.com/rxtech-lab/argo-backtest/internal/idgen IdGenerator
//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource DataSource
//go:generate mockgen -destination=./mock_strategy.go -package=mocks github.com/rxtech-lab/argo-backtest/internal/strategy Strategy
//go:generate mockgen -destination=./mock_strategy_api.go -package=mocks github.com/rxtech-lab/argo-backtest/internal/runtime StrategyApi
//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/rxtech-lab/argo-backtest/pkg/marketdata/provider Provider
