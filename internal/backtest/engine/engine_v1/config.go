package engine

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type BacktestEngineV1Config struct {
	InitialCapital decimal.Decimal            `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting capital in the quote asset of the symbol"`
	Broker         commission_fee.Broker      `yaml:"broker" json:"broker" validate:"omitempty,oneof=maker_taker zero_commission" jsonschema:"title=Broker,description=The broker to use for commission calculations"`
	MakerFeeRate   decimal.Decimal            `yaml:"maker_fee_rate" json:"maker_fee_rate" jsonschema:"title=Maker Fee Rate,description=Fee rate charged on orders that add liquidity"`
	TakerFeeRate   decimal.Decimal            `yaml:"taker_fee_rate" json:"taker_fee_rate" jsonschema:"title=Taker Fee Rate,description=Fee rate charged on orders that take liquidity"`
	SymbolFile     string                     `yaml:"symbol_file" json:"symbol_file" validate:"required" jsonschema:"title=Symbol File,description=Path to the exchange info JSON of the traded symbol"`
	Interval       datasource.Interval        `yaml:"interval" json:"interval" validate:"required" jsonschema:"title=Interval,description=Length of one kline"`
	Seed           string                     `yaml:"seed" json:"seed" jsonschema:"title=Seed,description=Seed for deterministic order and trade ids. Random ids are used when empty"`
	StartTime      optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start time for the backtest period"`
	EndTime        optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end time for the backtest period"`
}

// yamlConfig is the on-disk shape of BacktestEngineV1Config. Optional times are pointers.
type yamlConfig struct {
	InitialCapital string                `yaml:"initial_capital"`
	Broker         commission_fee.Broker `yaml:"broker"`
	MakerFeeRate   string                `yaml:"maker_fee_rate"`
	TakerFeeRate   string                `yaml:"taker_fee_rate"`
	SymbolFile     string                `yaml:"symbol_file"`
	Interval       datasource.Interval   `yaml:"interval"`
	Seed           string                `yaml:"seed"`
	StartTime      *time.Time            `yaml:"start_time,omitempty"`
	EndTime        *time.Time            `yaml:"end_time,omitempty"`
}

// MarshalYAML writes decimals as strings and leaves unset times out.
func (c BacktestEngineV1Config) MarshalYAML() (interface{}, error) {
	config := yamlConfig{
		InitialCapital: c.InitialCapital.String(),
		Broker:         c.Broker,
		MakerFeeRate:   c.MakerFeeRate.String(),
		TakerFeeRate:   c.TakerFeeRate.String(),
		SymbolFile:     c.SymbolFile,
		Interval:       c.Interval,
		Seed:           c.Seed,
		StartTime:      nil,
		EndTime:        nil,
	}

	if c.StartTime.IsSome() {
		start := c.StartTime.Unwrap()
		config.StartTime = &start
	}

	if c.EndTime.IsSome() {
		end := c.EndTime.Unwrap()
		config.EndTime = &end
	}

	return config, nil
}

// UnmarshalYAML implements custom unmarshaling for BacktestEngineV1Config
func (c *BacktestEngineV1Config) UnmarshalYAML(value *yaml.Node) error {
	type Config struct {
		InitialCapital decimal.Decimal       `yaml:"initial_capital"`
		Broker         commission_fee.Broker `yaml:"broker"`
		MakerFeeRate   decimal.Decimal       `yaml:"maker_fee_rate"`
		TakerFeeRate   decimal.Decimal       `yaml:"taker_fee_rate"`
		SymbolFile     string                `yaml:"symbol_file"`
		Interval       datasource.Interval   `yaml:"interval"`
		Seed           string                `yaml:"seed"`
		StartTime      *time.Time            `yaml:"start_time"`
		EndTime        *time.Time            `yaml:"end_time"`
	}

	var config Config
	if err := value.Decode(&config); err != nil {
		return err
	}

	c.InitialCapital = config.InitialCapital
	c.Broker = config.Broker
	c.MakerFeeRate = config.MakerFeeRate
	c.TakerFeeRate = config.TakerFeeRate
	c.SymbolFile = config.SymbolFile
	c.Interval = config.Interval
	c.Seed = config.Seed
	c.StartTime = optional.None[time.Time]()
	c.EndTime = optional.None[time.Time]()

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

// Validate checks the struct tags and the ranges the tags cannot express.
func (c BacktestEngineV1Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid backtest config", err)
	}

	if _, err := datasource.IntervalDuration(c.Interval); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid backtest config", err)
	}

	if !c.InitialCapital.IsPositive() {
		return errors.Newf(errors.ErrCodeBacktestConfigError, "initial capital must be greater than zero, got %s", c.InitialCapital)
	}

	if err := validateFeeRate("maker", c.MakerFeeRate); err != nil {
		return err
	}

	if err := validateFeeRate("taker", c.TakerFeeRate); err != nil {
		return err
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.Newf(errors.ErrCodeBacktestConfigError, "end time %s is before start time %s", c.EndTime.Unwrap(), c.StartTime.Unwrap())
	}

	return nil
}

func validateFeeRate(name string, rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return errors.Newf(errors.ErrCodeInvalidFeeRate, "%s fee rate must be in [0, 1), got %s", name, rate)
	}

	return nil
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch {
			case t.String() == "optional.Option[time.Time]":
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			case t == reflect.TypeOf(decimal.Decimal{}):
				return &jsonschema.Schema{
					Type:    "string",
					Pattern: `^-?[0-9]+(\.[0-9]+)?$`,
				}
			case strings.Contains(t.String(), "commission_fee.Broker"):
				return &jsonschema.Schema{
					Type: "string",
					Enum: commission_fee.AllBrokers,
				}
			case strings.Contains(t.String(), "datasource.Interval"):
				return &jsonschema.Schema{
					Type: "string",
					Enum: datasource.AllIntervals,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema: %w", err)
	}

	return string(schemaBytes), nil
}

// TestConfig returns a valid config with 10000 of capital, 0.1% fees and fixed ids.
func TestConfig(startTime time.Time, endTime time.Time, broker commission_fee.Broker) BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital: decimal.NewFromInt(10000),
		Broker:         broker,
		MakerFeeRate:   decimal.RequireFromString("0.001"),
		TakerFeeRate:   decimal.RequireFromString("0.001"),
		SymbolFile:     "symbol.json",
		Interval:       datasource.Interval1m,
		Seed:           "test",
		StartTime:      optional.Some(startTime),
		EndTime:        optional.Some(endTime),
	}
}

// EmptyConfig returns a BacktestEngineV1Config with default values
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital: decimal.Zero,
		Broker:         commission_fee.BrokerMakerTaker,
		MakerFeeRate:   decimal.Zero,
		TakerFeeRate:   decimal.Zero,
		SymbolFile:     "",
		Interval:       datasource.Interval1m,
		Seed:           "",
		StartTime:      optional.None[time.Time](),
		EndTime:        optional.None[time.Time](),
	}
}
