package writer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DuckDBResultWriter loads orders and trades into an in-memory DuckDB database and exports
// each table to parquet.
type DuckDBResultWriter struct {
	log *logger.Logger
	sq  squirrel.StatementBuilderType
}

func NewDuckDBResultWriter(log *logger.Logger) ResultWriter {
	return &DuckDBResultWriter{
		log: log,
		sq:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const createOrdersTable = `
	CREATE TABLE orders (
		id TEXT,
		order_type TEXT,
		side TEXT,
		status TEXT,
		quantity DOUBLE,
		limit_price DOUBLE,
		stop_price DOUBLE,
		order_id_to_cancel TEXT,
		created_at TIMESTAMP,
		submitted_at TIMESTAMP,
		triggered_at TIMESTAMP,
		filled_at TIMESTAMP,
		canceled_at TIMESTAMP,
		rejected_at TIMESTAMP,
		filled_price DOUBLE,
		fee_amount DOUBLE,
		fee_currency TEXT,
		reject_reason TEXT
	)
`

const createTradesTable = `
	CREATE TABLE trades (
		id TEXT,
		status TEXT,
		entry_order_id TEXT,
		exit_order_id TEXT,
		entry_price DOUBLE,
		exit_price DOUBLE,
		entry_quantity DOUBLE,
		trade_quantity DOUBLE,
		opened_at TIMESTAMP,
		closed_at TIMESTAMP,
		max_price DOUBLE,
		min_price DOUBLE,
		max_runup DOUBLE,
		max_drawdown DOUBLE,
		unrealized_return DOUBLE,
		net_return DOUBLE
	)
`

// Write implements ResultWriter.
func (w *DuckDBResultWriter) Write(dir string, snapshot types.Snapshot, stats types.BacktestStats) (types.BacktestStats, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return stats, errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to create results folder", err)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return stats, errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to open DuckDB connection", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return stats, errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to begin transaction", err)
	}

	if err := w.insertOrders(tx, snapshot.Orders); err != nil {
		_ = tx.Rollback()

		return stats, err
	}

	if err := w.insertTrades(tx, snapshot.Trades); err != nil {
		_ = tx.Rollback()

		return stats, err
	}

	if err := tx.Commit(); err != nil {
		return stats, errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to commit transaction", err)
	}

	stats.OrdersFilePath = filepath.Join(dir, OrdersFileName)
	stats.TradesFilePath = filepath.Join(dir, TradesFileName)

	if err := exportToParquet(db, "SELECT * FROM orders ORDER BY created_at ASC", stats.OrdersFilePath); err != nil {
		return stats, err
	}

	if err := exportToParquet(db, "SELECT * FROM trades ORDER BY opened_at ASC", stats.TradesFilePath); err != nil {
		return stats, err
	}

	if err := types.WriteBacktestStats(filepath.Join(dir, StatsFileName), stats); err != nil {
		return stats, errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to write stats", err)
	}

	w.log.Debug("Results written",
		zap.String("folder", dir),
		zap.Int("orders", snapshot.Orders.Count()),
		zap.Int("trades", len(snapshot.Trades.Opening)+len(snapshot.Trades.Closed)),
	)

	return stats, nil
}

func (w *DuckDBResultWriter) insertOrders(tx *sql.Tx, orders types.Orders) error {
	if _, err := tx.Exec(createOrdersTable); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to create orders table", err)
	}

	all := orders.All()

	if len(all) == 0 {
		return nil
	}

	insert := w.sq.Insert("orders").Columns(
		"id", "order_type", "side", "status", "quantity", "limit_price", "stop_price", "order_id_to_cancel",
		"created_at", "submitted_at", "triggered_at", "filled_at", "canceled_at", "rejected_at",
		"filled_price", "fee_amount", "fee_currency", "reject_reason",
	)

	for _, order := range all {
		insert = insert.Values(orderRow(order)...)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to build orders insert", err)
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to insert orders", err)
	}

	return nil
}

func (w *DuckDBResultWriter) insertTrades(tx *sql.Tx, trades types.Trades) error {
	if _, err := tx.Exec(createTradesTable); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to create trades table", err)
	}

	if len(trades.Opening)+len(trades.Closed) == 0 {
		return nil
	}

	insert := w.sq.Insert("trades").Columns(
		"id", "status", "entry_order_id", "exit_order_id", "entry_price", "exit_price",
		"entry_quantity", "trade_quantity", "opened_at", "closed_at", "max_price", "min_price",
		"max_runup", "max_drawdown", "unrealized_return", "net_return",
	)

	for _, trade := range trades.Closed {
		insert = insert.Values(
			trade.ID, "CLOSED", trade.EntryOrder.GetID(), trade.ExitOrder.GetID(),
			trade.EntryPrice().InexactFloat64(), types.FilledPrice(trade.ExitOrder).InexactFloat64(),
			trade.EntryQuantity().InexactFloat64(), trade.TradeQuantity.InexactFloat64(),
			trade.OpenedAt(), trade.ClosedAt(),
			trade.MaxPrice.InexactFloat64(), trade.MinPrice.InexactFloat64(),
			trade.MaxRunup.InexactFloat64(), trade.MaxDrawdown.InexactFloat64(),
			0.0, trade.NetReturn.InexactFloat64(),
		)
	}

	for _, trade := range trades.Opening {
		insert = insert.Values(
			trade.ID, "OPENING", trade.EntryOrder.GetID(), nil,
			trade.EntryPrice().InexactFloat64(), nil,
			trade.EntryQuantity().InexactFloat64(), trade.TradeQuantity.InexactFloat64(),
			trade.OpenedAt(), nil,
			trade.MaxPrice.InexactFloat64(), trade.MinPrice.InexactFloat64(),
			trade.MaxRunup.InexactFloat64(), trade.MaxDrawdown.InexactFloat64(),
			trade.UnrealizedReturn.InexactFloat64(), nil,
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to build trades insert", err)
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to insert trades", err)
	}

	return nil
}

func orderRow(order types.Order) []any {
	h := order.Header()

	var (
		side        any
		quantity    any
		cancelTo    any
		feeAmount   any
		feeCurrency any
	)

	if trading, ok := order.(types.TradingOrder); ok {
		side = string(trading.GetSide())
		quantity = trading.GetQuantity().InexactFloat64()
	}

	if cancel, ok := order.(types.CancelOrder); ok {
		cancelTo = cancel.OrderIDToCancel
	}

	if h.Fee.IsSome() {
		feeAmount = h.Fee.Unwrap().Amount.InexactFloat64()
		feeCurrency = h.Fee.Unwrap().Currency
	}

	return []any{
		h.ID, string(order.GetType()), side, string(h.Status), quantity,
		optionalFloat(types.LimitPriceOf(order)), optionalFloat(types.StopPriceOf(order)), cancelTo,
		h.CreatedAt, optionalTime(h.SubmittedAt), optionalTime(h.TriggeredAt), optionalTime(h.FilledAt),
		optionalTime(h.CanceledAt), optionalTime(h.RejectedAt),
		optionalFloat(h.FilledPrice), feeAmount, feeCurrency, optionalString(h.RejectReason),
	}
}

func optionalTime(value optional.Option[time.Time]) any {
	if value.IsNone() {
		return nil
	}

	return value.Unwrap()
}

func optionalFloat(value optional.Option[decimal.Decimal]) any {
	if value.IsNone() {
		return nil
	}

	return value.Unwrap().InexactFloat64()
}

func optionalString(value optional.Option[string]) any {
	if value.IsNone() {
		return nil
	}

	return value.Unwrap()
}

func exportToParquet(db *sql.DB, query string, path string) error {
	_, err := db.Exec(fmt.Sprintf(`COPY (%s) TO '%s' (FORMAT PARQUET)`, query, strings.ReplaceAll(path, "'", "''")))
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, fmt.Sprintf("failed to export %s", filepath.Base(path)), err)
	}

	return nil
}
