package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/pkg/exchangeinfo"
	"github.com/rxtech-lab/argo-backtest/pkg/marketdata"
	"github.com/rxtech-lab/argo-backtest/pkg/marketdata/provider"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// downloadAction downloads the klines of a symbol into a parquet file under the data folder.
func downloadAction(ctx context.Context, cmd *cli.Command) error {
	symbol := cmd.String("symbol")
	interval := datasource.Interval(cmd.String("interval"))
	startDate := cmd.Timestamp("start")
	endDate := cmd.Timestamp("end")

	log, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	bar := progressbar.NewOptions64(
		endDate.UnixMilli()-startDate.UnixMilli(),
		progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s %s", symbol, interval)),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)

	client, err := marketdata.NewClient(marketdata.ClientConfig{
		DataPath: cmd.String("data"),
		BaseURL:  cmd.String("base-url"),
	}, progressReporter(bar, startDate), log)
	if err != nil {
		return fmt.Errorf("failed to create market data client: %w", err)
	}

	path, err := client.Download(ctx, marketdata.DownloadParams{
		Symbol:    symbol,
		Interval:  interval,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	_ = bar.Finish()

	log.Info("Klines written", zap.String("path", path))

	return nil
}

// progressReporter moves bar to the open time of the last downloaded kline.
func progressReporter(bar *progressbar.ProgressBar, start time.Time) provider.OnDownloadProgress {
	return func(current float64, _ float64, _ string) {
		_ = bar.Set64(int64(current) - start.UnixMilli())
	}
}

// symbolAction stores the exchange info of a symbol so a backtest config can point at it.
func symbolAction(ctx context.Context, cmd *cli.Command) error {
	client := binance.NewClient("", "")
	if baseURL := cmd.String("base-url"); baseURL != "" {
		client.BaseURL = baseURL
	}

	symbol, err := exchangeinfo.Fetch(ctx, client, cmd.String("symbol"))
	if err != nil {
		return err
	}

	if _, err := exchangeinfo.FromBinance(symbol); err != nil {
		return fmt.Errorf("symbol %s cannot be backtested: %w", symbol.Symbol, err)
	}

	output := cmd.String("output")
	if output == "" {
		output = symbol.Symbol + ".json"
	}

	if err := exchangeinfo.WriteSymbolFile(output, symbol); err != nil {
		return err
	}

	log, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	log.Info("Symbol written", zap.String("symbol", symbol.Symbol), zap.String("path", output))

	return nil
}

func symbolFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "symbol",
		Aliases:  []string{"s"},
		Usage:    "Trading pair, e.g. BTCUSDT",
		Required: true,
	}
}

func baseURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "base-url",
		Usage: "Override the Binance API endpoint",
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "market",
		Usage: "Download historical market data and symbol definitions",
		Commands: []*cli.Command{
			{
				Name:  "download",
				Usage: "Download klines into a parquet file",
				Flags: []cli.Flag{
					symbolFlag(),
					baseURLFlag(),
					&cli.StringFlag{
						Name:    "interval",
						Aliases: []string{"i"},
						Usage:   "Kline interval",
						Value:   string(datasource.Interval1m),
					},
					&cli.TimestampFlag{
						Name:     "start",
						Usage:    "Start date in `YYYY-MM-DD` format",
						Required: true,
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
					},
					&cli.TimestampFlag{
						Name:  "end",
						Usage: "End date in `YYYY-MM-DD` format. Defaults to today.",
						Value: time.Now(),
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
					},
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "Path to the data output directory",
						Value:   "data",
					},
				},
				Action: downloadAction,
			},
			{
				Name:  "symbol",
				Usage: "Fetch the exchange info of a symbol",
				Flags: []cli.Flag{
					symbolFlag(),
					baseURLFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file. Defaults to <symbol>.json",
					},
				},
				Action: symbolAction,
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
