package writer

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"go.uber.org/zap"
)

// DuckDBWriter buffers klines in an in-memory DuckDB table and exports them to a parquet
// file with the columns time, symbol, open, high, low, close and volume.
type DuckDBWriter struct {
	db         *sql.DB
	tx         *sql.Tx
	stmt       *sql.Stmt
	outputPath string
	log        *logger.Logger
}

// NewDuckDBWriter creates a new DuckDBWriter exporting to the parquet file outputPath.
func NewDuckDBWriter(outputPath string, log *logger.Logger) KlineWriter {
	return &DuckDBWriter{
		db:         nil,
		tx:         nil,
		stmt:       nil,
		outputPath: outputPath,
		log:        log,
	}
}

// Initialize opens the database, creates the klines table, begins a transaction and
// prepares the insert statement.
func (w *DuckDBWriter) Initialize() (err error) {
	w.db, err = sql.Open("duckdb", "")
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to open DuckDB connection", err)
	}

	_, err = w.db.Exec(`
		CREATE TABLE IF NOT EXISTS klines (
			time TIMESTAMP,
			symbol TEXT,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE
		)
	`)
	if err != nil {
		w.db.Close()

		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to create klines table", err)
	}

	w.tx, err = w.db.Begin()
	if err != nil {
		w.db.Close()

		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to begin transaction", err)
	}

	w.stmt, err = w.tx.Prepare(`
		INSERT INTO klines (time, symbol, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		w.tx.Rollback()
		w.db.Close()

		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to prepare statement", err)
	}

	return nil
}

// Write inserts a kline within the open transaction.
func (w *DuckDBWriter) Write(kline types.Kline) error {
	if w.stmt == nil {
		return errors.New(errors.ErrCodeBacktestWriteFailed, "writer not initialized")
	}

	_, err := w.stmt.Exec(
		kline.OpenTime,
		kline.Symbol,
		kline.Open.InexactFloat64(),
		kline.High.InexactFloat64(),
		kline.Low.InexactFloat64(),
		kline.Close.InexactFloat64(),
		kline.Volume.InexactFloat64(),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to insert kline", err)
	}

	return nil
}

// Finalize commits the transaction and exports the klines to parquet, ordered by time
// with one row per open time.
func (w *DuckDBWriter) Finalize() (outputPath string, err error) {
	if w.tx == nil {
		return "", errors.New(errors.ErrCodeBacktestWriteFailed, "writer not initialized or already finalized")
	}

	if err = w.tx.Commit(); err != nil {
		w.tx.Rollback()

		return "", errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to commit transaction", err)
	}

	w.tx = nil

	_, err = w.db.Exec(fmt.Sprintf(`
		COPY (
			SELECT time, ANY_VALUE(symbol) AS symbol, ANY_VALUE(open) AS open, ANY_VALUE(high) AS high,
				ANY_VALUE(low) AS low, ANY_VALUE(close) AS close, ANY_VALUE(volume) AS volume
			FROM klines
			GROUP BY time
			ORDER BY time ASC
		) TO '%s' (FORMAT PARQUET)
	`, strings.ReplaceAll(w.outputPath, "'", "''")))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to export to parquet", err)
	}

	w.log.Info("Klines exported", zap.String("path", w.outputPath))

	return w.outputPath, nil
}

// Close rolls back an unfinished transaction and closes the database.
func (w *DuckDBWriter) Close() error {
	var closeErrors []string

	if w.stmt != nil {
		if err := w.stmt.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to close statement: %v", err))
		}

		w.stmt = nil
	}

	if w.tx != nil {
		if err := w.tx.Rollback(); err != nil {
			w.log.Warn("Failed to rollback transaction during close", zap.Error(err))
		}

		w.tx = nil
	}

	if w.db != nil {
		if err := w.db.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to close db connection: %v", err))
		}

		w.db = nil
	}

	if len(closeErrors) > 0 {
		return errors.Newf(errors.ErrCodeBacktestWriteFailed, "errors occurred during close: %s", strings.Join(closeErrors, "; "))
	}

	return nil
}

// GetOutputPath implements KlineWriter.
func (w *DuckDBWriter) GetOutputPath() string {
	return w.outputPath
}
