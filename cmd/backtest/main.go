package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	engine "github.com/rxtech-lab/argo-backtest/internal/backtest/engine"
	engine_v1 "github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-backtest/internal/strategy"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

// strategies lists the strategies selectable with --strategy.
var strategies = map[string]func() strategy.Strategy{
	"sma_crossover": strategy.NewSmaCrossover,
}

// progressCallbacks draws one progress bar per run.
func progressCallbacks(showProgress bool) engine.LifecycleCallbacks {
	var bar *progressbar.ProgressBar

	onRunStart := engine.OnRunStartCallback(func(runID string, _ int, configName string, _ int, dataFilePath string, totalDataPoints int) error {
		if !showProgress {
			return nil
		}

		bar = progressbar.NewOptions(totalDataPoints,
			progressbar.OptionSetDescription(fmt.Sprintf("%s %s", configName, dataFilePath)),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
		)

		return nil
	})
	onProcessData := engine.OnProcessDataCallback(func(current int, _ int) error {
		if bar != nil {
			return bar.Set(current)
		}

		return nil
	})
	onRunEnd := engine.OnRunEndCallback(func(_ int, _ string, _ int, _ string, resultFolderPath string) {
		if bar != nil {
			_ = bar.Finish()
			bar = nil
		}

		log.Printf("Results written to %s", resultFolderPath)
	})

	return engine.LifecycleCallbacks{
		OnBacktestStart: nil,
		OnBacktestEnd:   nil,
		OnStrategyStart: nil,
		OnStrategyEnd:   nil,
		OnRunStart:      &onRunStart,
		OnRunEnd:        &onRunEnd,
		OnProcessData:   &onProcessData,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	config, err := os.ReadFile(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	backtest := engine_v1.NewBacktestEngineV1()

	if err := backtest.Initialize(string(config)); err != nil {
		return err
	}

	defer func() {
		if err := backtest.Close(); err != nil {
			log.Printf("Failed to close engine: %v", err)
		}
	}()

	for _, name := range cmd.StringSlice("strategy") {
		newStrategy, ok := strategies[name]
		if !ok {
			return fmt.Errorf("unknown strategy %q", name)
		}

		if err := backtest.LoadStrategy(newStrategy()); err != nil {
			return err
		}
	}

	if err := backtest.SetConfigPath(cmd.String("strategy-config")); err != nil {
		return err
	}

	if err := backtest.SetDataPath(cmd.String("data")); err != nil {
		return err
	}

	if err := backtest.SetResultsFolder(cmd.String("results")); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return backtest.Run(ctx, progressCallbacks(!cmd.Bool("quiet")))
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	schema, err := configSchema(cmd.String("strategy"))
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "" {
		fmt.Println(schema)

		return nil
	}

	return os.WriteFile(output, []byte(schema), 0644)
}

// configSchema returns the schema of the engine config, or of the strategy config when a
// strategy is named.
func configSchema(strategyName string) (string, error) {
	if strategyName == "" {
		return engine_v1.NewBacktestEngineV1().GetConfigSchema()
	}

	newStrategy, ok := strategies[strategyName]
	if !ok {
		return "", fmt.Errorf("unknown strategy %q", strategyName)
	}

	provider, ok := newStrategy().(strategy.ConfigSchemaProvider)
	if !ok {
		return "", fmt.Errorf("strategy %q does not describe its config", strategyName)
	}

	return provider.GetConfigSchema()
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "backtest",
		Usage: "Replay klines through strategies and record orders, trades and statistics",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run every strategy with every strategy config against every data file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to the engine config YAML",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:    "strategy",
						Aliases: []string{"s"},
						Usage:   "Strategy to run. Can be repeated",
						Value:   []string{"sma_crossover"},
					},
					&cli.StringFlag{
						Name:     "strategy-config",
						Usage:    "Path or glob pattern of the strategy configs",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Path or glob pattern of the kline files",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "results",
						Aliases: []string{"r"},
						Usage:   "Results folder",
						Value:   "results",
					},
					&cli.BoolFlag{
						Name:    "quiet",
						Aliases: []string{"q"},
						Usage:   "Hide the progress bars",
					},
				},
				Action: runAction,
			},
			{
				Name:  "schema",
				Usage: "Print the JSON schema of the engine config or of a strategy config",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "strategy",
						Aliases: []string{"s"},
						Usage:   "Print the config schema of this strategy instead",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the schema to a file instead of stdout",
					},
				},
				Action: schemaAction,
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
