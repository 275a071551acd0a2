package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/shopspring/decimal"
)

type OrderType string

type OrderStatus string

type OrderSide string

const (
	OrderTypeMarket     OrderType = "MARKET"
	OrderTypeLimit      OrderType = "LIMIT"
	OrderTypeStopMarket OrderType = "STOP_MARKET"
	OrderTypeStopLimit  OrderType = "STOP_LIMIT"
	OrderTypeCancel     OrderType = "CANCEL"
)

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusOpening   OrderStatus = "OPENING"
	OrderStatusTriggered OrderStatus = "TRIGGERED"
	OrderStatusSubmitted OrderStatus = "SUBMITTED"
	OrderStatusFilled    OrderStatus = "FILLED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
	OrderStatusRejected  OrderStatus = "REJECTED"
)

const (
	OrderSideEntry OrderSide = "ENTRY"
	OrderSideExit  OrderSide = "EXIT"
)

// AllTradingOrderTypes lists the order types that carry a quantity.
var AllTradingOrderTypes = []OrderType{
	OrderTypeMarket,
	OrderTypeLimit,
	OrderTypeStopMarket,
	OrderTypeStopLimit,
}

// IsTerminal is true for statuses an order never leaves.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusFilled, OrderStatusCanceled, OrderStatusRejected, OrderStatusSubmitted:
		return true
	default:
		return false
	}
}

// Fee is the commission charged for a fill.
type Fee struct {
	Amount   decimal.Decimal `yaml:"amount" json:"amount" csv:"fee_amount"`
	Currency string          `yaml:"currency" json:"currency" csv:"fee_currency"`
}

// OrderHeader holds the fields shared by every order type.
type OrderHeader struct {
	ID        string      `yaml:"id" json:"id" csv:"id" validate:"required"`
	Status    OrderStatus `yaml:"status" json:"status" csv:"status" validate:"required,oneof=PENDING OPENING TRIGGERED SUBMITTED FILLED CANCELED REJECTED"`
	CreatedAt time.Time   `yaml:"created_at" json:"created_at" csv:"created_at" validate:"required"`

	SubmittedAt optional.Option[time.Time] `yaml:"submitted_at" json:"submitted_at" csv:"submitted_at"`
	TriggeredAt optional.Option[time.Time] `yaml:"triggered_at" json:"triggered_at" csv:"triggered_at"`
	FilledAt    optional.Option[time.Time] `yaml:"filled_at" json:"filled_at" csv:"filled_at"`
	CanceledAt  optional.Option[time.Time] `yaml:"canceled_at" json:"canceled_at" csv:"canceled_at"`
	RejectedAt  optional.Option[time.Time] `yaml:"rejected_at" json:"rejected_at" csv:"rejected_at"`

	// FilledPrice and Fee are set once the order is FILLED.
	FilledPrice optional.Option[decimal.Decimal] `yaml:"filled_price" json:"filled_price" csv:"filled_price"`
	Fee         optional.Option[Fee]             `yaml:"fee" json:"fee" csv:"fee"`
	// RejectReason is set once the order is REJECTED.
	RejectReason optional.Option[string] `yaml:"reject_reason" json:"reject_reason" csv:"reject_reason"`
}

func (h OrderHeader) GetID() string {
	return h.ID
}

func (h OrderHeader) GetStatus() OrderStatus {
	return h.Status
}

func (h OrderHeader) Header() OrderHeader {
	return h
}

// Order is one of MarketOrder, LimitOrder, StopMarketOrder, StopLimitOrder or CancelOrder.
// The set is closed: withHeader is unexported so no other package can add variants.
type Order interface {
	GetID() string
	GetStatus() OrderStatus
	GetType() OrderType
	Header() OrderHeader
	withHeader(header OrderHeader) Order
}

// TradingOrder is an order that buys or sells a quantity of the asset.
type TradingOrder interface {
	Order
	GetSide() OrderSide
	GetQuantity() decimal.Decimal
}

type MarketOrder struct {
	OrderHeader
	OrderSide OrderSide       `yaml:"order_side" json:"order_side" validate:"required,oneof=ENTRY EXIT"`
	Quantity  decimal.Decimal `yaml:"quantity" json:"quantity"`
}

type LimitOrder struct {
	OrderHeader
	OrderSide  OrderSide       `yaml:"order_side" json:"order_side" validate:"required,oneof=ENTRY EXIT"`
	Quantity   decimal.Decimal `yaml:"quantity" json:"quantity"`
	LimitPrice decimal.Decimal `yaml:"limit_price" json:"limit_price"`
}

type StopMarketOrder struct {
	OrderHeader
	OrderSide OrderSide       `yaml:"order_side" json:"order_side" validate:"required,oneof=ENTRY EXIT"`
	Quantity  decimal.Decimal `yaml:"quantity" json:"quantity"`
	StopPrice decimal.Decimal `yaml:"stop_price" json:"stop_price"`
}

type StopLimitOrder struct {
	OrderHeader
	OrderSide  OrderSide       `yaml:"order_side" json:"order_side" validate:"required,oneof=ENTRY EXIT"`
	Quantity   decimal.Decimal `yaml:"quantity" json:"quantity"`
	StopPrice  decimal.Decimal `yaml:"stop_price" json:"stop_price"`
	LimitPrice decimal.Decimal `yaml:"limit_price" json:"limit_price"`
}

// CancelOrder asks for the opening order OrderIDToCancel to be canceled.
type CancelOrder struct {
	OrderHeader
	OrderIDToCancel string `yaml:"order_id_to_cancel" json:"order_id_to_cancel" validate:"required"`
}

func (o MarketOrder) GetType() OrderType { return OrderTypeMarket }
func (o MarketOrder) GetSide() OrderSide { return o.OrderSide }
func (o MarketOrder) GetQuantity() decimal.Decimal { return o.Quantity }
func (o LimitOrder) GetType() OrderType { return OrderTypeLimit }
func (o LimitOrder) GetSide() OrderSide { return o.OrderSide }
func (o LimitOrder) GetQuantity() decimal.Decimal { return o.Quantity }
func (o StopMarketOrder) GetType() OrderType { return OrderTypeStopMarket }
func (o StopMarketOrder) GetSide() OrderSide { return o.OrderSide }
func (o StopMarketOrder) GetQuantity() decimal.Decimal { return o.Quantity }
func (o StopLimitOrder) GetType() OrderType { return OrderTypeStopLimit }
func (o StopLimitOrder) GetSide() OrderSide { return o.OrderSide }
func (o StopLimitOrder) GetQuantity() decimal.Decimal { return o.Quantity }
func (o CancelOrder) GetType() OrderType { return OrderTypeCancel }

func (o MarketOrder) withHeader(h OrderHeader) Order {
	o.OrderHeader = h

	return o
}

func (o LimitOrder) withHeader(h OrderHeader) Order {
	o.OrderHeader = h

	return o
}

func (o StopMarketOrder) withHeader(h OrderHeader) Order {
	o.OrderHeader = h

	return o
}

func (o StopLimitOrder) withHeader(h OrderHeader) Order {
	o.OrderHeader = h

	return o
}

func (o CancelOrder) withHeader(h OrderHeader) Order {
	o.OrderHeader = h

	return o
}

// NewHeader returns the header of a freshly created PENDING order.
func NewHeader(id string, createdAt time.Time) OrderHeader {
	return OrderHeader{
		ID:           id,
		Status:       OrderStatusPending,
		CreatedAt:    createdAt,
		SubmittedAt:  optional.None[time.Time](),
		TriggeredAt:  optional.None[time.Time](),
		FilledAt:     optional.None[time.Time](),
		CanceledAt:   optional.None[time.Time](),
		RejectedAt:   optional.None[time.Time](),
		FilledPrice:  optional.None[decimal.Decimal](),
		Fee:          optional.None[Fee](),
		RejectReason: optional.None[string](),
	}
}

// OpenOrder moves a trading order to OPENING.
func OpenOrder[T TradingOrder](order T, at time.Time) T {
	h := order.Header()
	h.Status = OrderStatusOpening
	h.SubmittedAt = optional.Some(at)

	return order.withHeader(h).(T)
}

// TriggerOrder moves an opening stop-limit order to TRIGGERED.
func TriggerOrder(order StopLimitOrder, at time.Time) StopLimitOrder {
	h := order.Header()
	h.Status = OrderStatusTriggered
	h.TriggeredAt = optional.Some(at)

	return order.withHeader(h).(StopLimitOrder)
}

// FillOrder moves a trading order to FILLED at the given price and fee.
func FillOrder[T TradingOrder](order T, price decimal.Decimal, fee Fee, at time.Time) T {
	h := order.Header()
	h.Status = OrderStatusFilled
	if h.SubmittedAt.IsNone() {
		h.SubmittedAt = optional.Some(at)
	}

	h.FilledAt = optional.Some(at)
	h.FilledPrice = optional.Some(price)
	h.Fee = optional.Some(fee)

	return order.withHeader(h).(T)
}

// CancelTradingOrder moves an opening trading order to CANCELED.
func CancelTradingOrder[T TradingOrder](order T, at time.Time) T {
	h := order.Header()
	h.Status = OrderStatusCanceled
	h.CanceledAt = optional.Some(at)

	return order.withHeader(h).(T)
}

// SubmitCancelOrder marks a cancel request as SUBMITTED once its target was canceled.
func SubmitCancelOrder(order CancelOrder, at time.Time) CancelOrder {
	h := order.Header()
	h.Status = OrderStatusSubmitted
	h.SubmittedAt = optional.Some(at)

	return order.withHeader(h).(CancelOrder)
}

// RejectOrder moves any order to REJECTED with a human readable reason.
func RejectOrder[T Order](order T, reason string, at time.Time) T {
	h := order.Header()
	h.Status = OrderStatusRejected
	h.RejectedAt = optional.Some(at)
	h.RejectReason = optional.Some(reason)

	return order.withHeader(h).(T)
}

// FilledPrice returns the execution price of a filled order, or zero.
func FilledPrice(order Order) decimal.Decimal {
	return order.Header().FilledPrice.TakeOr(decimal.Zero)
}

// FilledFee returns the fee of a filled order, or a zero fee.
func FilledFee(order Order) Fee {
	return order.Header().Fee.TakeOr(Fee{Amount: decimal.Zero, Currency: ""})
}

// LimitPriceOf returns the limit price of LIMIT and STOP_LIMIT orders.
func LimitPriceOf(order Order) optional.Option[decimal.Decimal] {
	switch o := order.(type) {
	case LimitOrder:
		return optional.Some(o.LimitPrice)
	case StopLimitOrder:
		return optional.Some(o.LimitPrice)
	default:
		return optional.None[decimal.Decimal]()
	}
}

// StopPriceOf returns the stop price of STOP_MARKET and STOP_LIMIT orders.
func StopPriceOf(order Order) optional.Option[decimal.Decimal] {
	switch o := order.(type) {
	case StopMarketOrder:
		return optional.Some(o.StopPrice)
	case StopLimitOrder:
		return optional.Some(o.StopPrice)
	default:
		return optional.None[decimal.Decimal]()
	}
}

// ValidateOrder checks the struct tags of an order. Trading rules are checked separately
// by the trading_rules package.
func ValidateOrder(order Order) error {
	validate := validator.New()

	if err := validate.Struct(order); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrder, "invalid order", err)
	}

	return nil
}
