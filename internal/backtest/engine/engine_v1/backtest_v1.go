package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/writer"
	"github.com/rxtech-lab/argo-backtest/internal/clock"
	"github.com/rxtech-lab/argo-backtest/internal/idgen"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/strategy"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/rxtech-lab/argo-backtest/pkg/exchangeinfo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type BacktestEngineV1 struct {
	config              BacktestEngineV1Config
	strategies          []strategy.Strategy
	strategyConfigPaths []string
	strategyConfigs     []string
	dataPaths           []string
	resultsFolder       string
	log                 *logger.Logger
	symbol              types.Symbol
	fees                commission_fee.CommissionFee
	writer              writer.ResultWriter
	datasource          datasource.DataSource
	// wallClock stamps the run statistics.
	wallClock clock.Clock
	// ownsDatasource is set when Initialize opened the data source itself.
	ownsDatasource bool
}

func NewBacktestEngineV1() engine.Engine {
	return newBacktestEngineV1(logger.NewNopLogger())
}

func newBacktestEngineV1(log *logger.Logger) *BacktestEngineV1 {
	return &BacktestEngineV1{
		config:              EmptyConfig(),
		strategies:          nil,
		strategyConfigPaths: nil,
		strategyConfigs:     nil,
		dataPaths:           nil,
		resultsFolder:       "",
		log:                 log,
		symbol:              types.Symbol{},
		fees:                nil,
		writer:              nil,
		datasource:          nil,
		wallClock:           clock.NewSystemClock(),
		ownsDatasource:      false,
	}
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	b.config = EmptyConfig()
	if err := yaml.Unmarshal([]byte(config), &b.config); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse backtest config", err)
	}

	if err := b.config.Validate(); err != nil {
		return err
	}

	log, err := logger.NewLogger()
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to create logger", err)
	}

	b.log = log

	b.log.Debug("Backtest engine initialized",
		zap.String("config", config),
	)

	b.symbol, err = exchangeinfo.LoadSymbolFile(b.config.SymbolFile)
	if err != nil {
		return err
	}

	b.fees = commission_fee.GetCommissionFeeHandler(b.config.Broker)
	b.writer = writer.NewDuckDBResultWriter(b.log)

	if b.datasource == nil {
		b.datasource, err = datasource.NewDataSource("", b.config.Interval, b.log)
		if err != nil {
			return errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to open data source", err)
		}

		b.ownsDatasource = true
	}

	return nil
}

// LoadStrategy implements engine.Engine.
func (b *BacktestEngineV1) LoadStrategy(strategy strategy.Strategy) error {
	b.strategies = append(b.strategies, strategy)
	b.log.Debug("Strategy loaded",
		zap.String("strategy", strategy.Name()),
		zap.Int("total_strategies", len(b.strategies)),
	)

	return nil
}

// SetConfigPath implements engine.Engine.
func (b *BacktestEngineV1) SetConfigPath(path string) error {
	// use glob to get all the files that match the path
	files, err := filepath.Glob(path)
	if err != nil {
		b.log.Error("Failed to set config path",
			zap.String("path", path),
			zap.Error(err),
		)

		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid config path pattern", err)
	}

	b.strategyConfigPaths = files
	b.strategyConfigs = nil
	b.log.Debug("Config paths set",
		zap.Strings("files", files),
	)

	return nil
}

// SetConfigContent implements engine.Engine.
func (b *BacktestEngineV1) SetConfigContent(configs []string) error {
	b.strategyConfigs = configs
	b.strategyConfigPaths = nil
	b.log.Debug("Config content set",
		zap.Int("count", len(configs)),
	)

	return nil
}

// SetDataPath implements engine.Engine.
func (b *BacktestEngineV1) SetDataPath(path string) error {
	// use glob to get all the files that match the path
	files, err := filepath.Glob(path)
	if err != nil {
		b.log.Error("Failed to set data path",
			zap.String("path", path),
			zap.Error(err),
		)

		return errors.Wrap(errors.ErrCodeBacktestDataPathError, "invalid data path pattern", err)
	}

	// Convert all paths to absolute paths
	absolutePaths := make([]string, len(files))

	for i, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			b.log.Error("Failed to get absolute path",
				zap.String("path", file),
				zap.Error(err),
			)

			return errors.Wrap(errors.ErrCodeBacktestDataPathError, "failed to resolve data path", err)
		}

		absolutePaths[i] = absPath
	}

	b.dataPaths = absolutePaths
	b.log.Debug("Data paths set",
		zap.Strings("files", absolutePaths),
	)

	return nil
}

// SetResultsFolder implements engine.Engine.
func (b *BacktestEngineV1) SetResultsFolder(folder string) error {
	b.resultsFolder = folder
	b.log.Debug("Results folder set",
		zap.String("folder", folder),
	)

	return nil
}

// SetDataSource implements engine.Engine.
func (b *BacktestEngineV1) SetDataSource(datasource datasource.DataSource) error {
	if b.ownsDatasource && b.datasource != nil {
		if err := b.datasource.Close(); err != nil {
			b.log.Warn("Failed to close default data source", zap.Error(err))
		}
	}

	b.datasource = datasource
	b.ownsDatasource = false

	return nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := b.config

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to generate schema", err)
	}

	return schema, nil
}

// Close implements engine.Engine.
func (b *BacktestEngineV1) Close() error {
	if !b.ownsDatasource || b.datasource == nil {
		return nil
	}

	err := b.datasource.Close()
	b.datasource = nil
	b.ownsDatasource = false

	if err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to close data source", err)
	}

	return nil
}

type configItem struct {
	name    string
	content string
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(ctx context.Context, callbacks engine.LifecycleCallbacks) (runErr error) {
	defer func() {
		if callbacks.OnBacktestEnd != nil {
			(*callbacks.OnBacktestEnd)(runErr)
		}
	}()

	if err := b.preRunCheck(); err != nil {
		return err
	}

	configs, err := b.loadConfigs()
	if err != nil {
		return err
	}

	// clean the results folder
	if err := os.RemoveAll(b.resultsFolder); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to clean results folder", err)
	}

	if err := os.MkdirAll(b.resultsFolder, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to create results folder", err)
	}

	if callbacks.OnBacktestStart != nil {
		if err := (*callbacks.OnBacktestStart)(len(b.strategies), len(configs), len(b.dataPaths)); err != nil {
			return errors.Wrap(errors.ErrCodeCallbackFailed, "OnBacktestStart callback failed", err)
		}
	}

	for strategyIndex, s := range b.strategies {
		if callbacks.OnStrategyStart != nil {
			if err := (*callbacks.OnStrategyStart)(strategyIndex, s.Name(), len(b.strategies)); err != nil {
				return errors.Wrap(errors.ErrCodeCallbackFailed, "OnStrategyStart callback failed", err)
			}
		}

		for configIndex, cfg := range configs {
			for dataIndex, dataPath := range b.dataPaths {
				if err := b.runOne(ctx, callbacks, s, cfg, configIndex, dataPath, dataIndex); err != nil {
					return err
				}
			}
		}

		if callbacks.OnStrategyEnd != nil {
			(*callbacks.OnStrategyEnd)(strategyIndex, s.Name())
		}
	}

	return nil
}

// runOne runs one strategy with one config against one data file and writes its results.
func (b *BacktestEngineV1) runOne(
	ctx context.Context,
	callbacks engine.LifecycleCallbacks,
	s strategy.Strategy,
	cfg configItem,
	configIndex int,
	dataPath string,
	dataIndex int,
) error {
	if err := s.Initialize(cfg.content); err != nil {
		return errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "failed to initialize strategy %s with %s", s.Name(), cfg.name)
	}

	if err := b.datasource.Initialize(dataPath); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to load %s", dataPath)
	}

	count, err := b.datasource.Count(b.config.StartTime, b.config.EndTime)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to count klines", err)
	}

	runID := uuid.NewString()
	resultFolderPath := getResultFolder(cfg.name, dataPath, b, s)

	b.log.Debug("Running strategy",
		zap.String("run_id", runID),
		zap.String("strategy", s.Name()),
		zap.String("config", cfg.name),
		zap.String("data", dataPath),
		zap.String("result", resultFolderPath),
	)

	if callbacks.OnRunStart != nil {
		if err := (*callbacks.OnRunStart)(runID, configIndex, cfg.name, dataIndex, dataPath, count); err != nil {
			return errors.Wrap(errors.ErrCodeCallbackFailed, "OnRunStart callback failed", err)
		}
	}

	processor := NewOrderProcessor(b.fees, clock.NewKlineClock(), b.newIdGenerator(), b.log)
	snapshot := types.NewSnapshot(types.NewStrategyModule(b.symbol, b.config.InitialCapital, b.config.MakerFeeRate, b.config.TakerFeeRate))

	info := RunInfo{
		ID:           runID,
		StrategyName: s.Name(),
		DataPath:     dataPath,
		Timestamp:    b.wallClock.Now(),
		FirstClose:   decimal.Zero,
		LastClose:    decimal.Zero,
	}

	current := 0

	for kline, err := range b.datasource.ReadAll(b.config.StartTime, b.config.EndTime) {
		if err != nil {
			return errors.Wrap(errors.ErrCodeQueryFailed, "failed to read klines", err)
		}

		snapshot, err = processor.ProcessTick(ctx, snapshot, kline, s)
		if err != nil {
			return err
		}

		if current == 0 {
			info.FirstClose = kline.Close
		}

		info.LastClose = kline.Close
		current++

		if callbacks.OnProcessData != nil {
			if err := (*callbacks.OnProcessData)(current, count); err != nil {
				return errors.Wrap(errors.ErrCodeCallbackFailed, "OnProcessData callback failed", err)
			}
		}
	}

	stats, err := b.writer.Write(resultFolderPath, snapshot, ComputeStats(info, snapshot))
	if err != nil {
		return err
	}

	b.log.Info("Run finished",
		zap.String("run_id", runID),
		zap.String("strategy", s.Name()),
		zap.Int("klines", current),
		zap.String("final_equity", stats.FinalEquity),
		zap.Int("closed_trades", stats.TradeResult.NumberOfTrades),
	)

	if callbacks.OnRunEnd != nil {
		(*callbacks.OnRunEnd)(configIndex, cfg.name, dataIndex, dataPath, resultFolderPath)
	}

	return nil
}

func (b *BacktestEngineV1) newIdGenerator() idgen.IdGenerator {
	if b.config.Seed != "" {
		return idgen.NewSeeded(b.config.Seed)
	}

	return idgen.NewRandom()
}

// loadConfigs returns the strategy configs set with SetConfigContent, or else the content
// of the files matched by SetConfigPath.
func (b *BacktestEngineV1) loadConfigs() ([]configItem, error) {
	configs := make([]configItem, 0, len(b.strategyConfigs)+len(b.strategyConfigPaths))

	if len(b.strategyConfigs) > 0 {
		for i, content := range b.strategyConfigs {
			configs = append(configs, configItem{
				name:    fmt.Sprintf("config_%d", i),
				content: content,
			})
		}

		return configs, nil
	}

	for _, configPath := range b.strategyConfigPaths {
		content, err := os.ReadFile(configPath)
		if err != nil {
			b.log.Error("Failed to read config",
				zap.String("config", configPath),
				zap.Error(err),
			)

			return nil, errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "failed to read config %s", configPath)
		}

		configs = append(configs, configItem{
			name:    configPath,
			content: string(content),
		})
	}

	return configs, nil
}

func (b *BacktestEngineV1) preRunCheck() error {
	if b.fees == nil || b.writer == nil {
		b.log.Error("Engine not initialized")

		return errors.New(errors.ErrCodeBacktestInitFailed, "engine not initialized")
	}

	if len(b.strategies) == 0 {
		b.log.Error("No strategies loaded")

		return errors.New(errors.ErrCodeBacktestNoStrategies, "no strategies loaded")
	}

	if len(b.strategyConfigPaths) == 0 && len(b.strategyConfigs) == 0 {
		b.log.Error("No strategy configs loaded")

		return errors.New(errors.ErrCodeBacktestNoConfigs, "no strategy configs loaded")
	}

	if len(b.dataPaths) == 0 {
		b.log.Error("No data paths loaded")

		return errors.New(errors.ErrCodeBacktestNoDataPaths, "no data paths loaded")
	}

	if b.resultsFolder == "" {
		b.log.Error("No results folder set")

		return errors.New(errors.ErrCodeBacktestNoResultsDir, "no results folder set")
	}

	if b.datasource == nil {
		b.log.Error("No datasource set")

		return errors.New(errors.ErrCodeBacktestNoDatasource, "no datasource set")
	}

	return nil
}
