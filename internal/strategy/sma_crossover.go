package strategy

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/markcheno/go-talib"
	"github.com/rxtech-lab/argo-backtest/internal/runtime"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/rxtech-lab/argo-backtest/pkg/utils"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// SmaCrossoverConfig configures SmaCrossover.
type SmaCrossoverConfig struct {
	FastPeriod int             `yaml:"fast_period" validate:"required,gt=1" jsonschema:"title=Fast Period,description=Number of klines in the fast SMA,minimum=2"`
	SlowPeriod int             `yaml:"slow_period" validate:"required,gtfield=FastPeriod" jsonschema:"title=Slow Period,description=Number of klines in the slow SMA. Must exceed the fast period"`
	Quantity   decimal.Decimal `yaml:"quantity" jsonschema:"title=Quantity,description=Base asset quantity of every entry"`
}

// SmaCrossover enters with a market order when the fast SMA of the closes crosses above the
// slow SMA and exits every open trade when it crosses back below.
type SmaCrossover struct {
	config SmaCrossoverConfig
	closes []float64
}

func NewSmaCrossover() Strategy {
	return &SmaCrossover{
		config: SmaCrossoverConfig{FastPeriod: 0, SlowPeriod: 0, Quantity: decimal.Zero},
		closes: nil,
	}
}

func (s *SmaCrossover) Name() string {
	return "SmaCrossover"
}

func (s *SmaCrossover) GetConfigSchema() (string, error) {
	return utils.GetSchemaFromConfig(SmaCrossoverConfig{FastPeriod: 0, SlowPeriod: 0, Quantity: decimal.Zero})
}

func (s *SmaCrossover) Initialize(config string) error {
	var cfg SmaCrossoverConfig
	if err := yaml.Unmarshal([]byte(config), &cfg); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to parse sma crossover config", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid sma crossover config", err)
	}

	if !cfg.Quantity.IsPositive() {
		return errors.Newf(errors.ErrCodeStrategyConfigError, "quantity must be greater than zero, got %s", cfg.Quantity)
	}

	s.config = cfg
	s.closes = make([]float64, 0, cfg.SlowPeriod+1)

	return nil
}

func (s *SmaCrossover) ProcessKline(_ context.Context, api runtime.StrategyApi, kline types.Kline) error {
	s.closes = append(s.closes, kline.Close.InexactFloat64())
	if len(s.closes) > s.config.SlowPeriod+1 {
		s.closes = s.closes[len(s.closes)-s.config.SlowPeriod-1:]
	}

	if len(s.closes) <= s.config.SlowPeriod {
		return nil
	}

	fast := talib.Sma(s.closes, s.config.FastPeriod)
	slow := talib.Sma(s.closes, s.config.SlowPeriod)

	last := len(s.closes) - 1
	crossedAbove := fast[last-1] <= slow[last-1] && fast[last] > slow[last]
	crossedBelow := fast[last-1] >= slow[last-1] && fast[last] < slow[last]

	switch {
	case crossedAbove && len(api.OpeningTrades()) == 0 && len(api.OpeningOrders()) == 0:
		if _, err := api.EnterMarket(s.config.Quantity); err != nil {
			return fmt.Errorf("failed to enter: %w", err)
		}
	case crossedBelow:
		for _, trade := range api.OpeningTrades() {
			if _, err := api.ExitMarket(trade.TradeQuantity); err != nil {
				return fmt.Errorf("failed to exit trade %s: %w", trade.ID, err)
			}
		}
	}

	return nil
}
