package types

import (
	"slices"
)

// Orders is the order book of a strategy, grouped by lifecycle stage.
// Opening holds OPENING orders and TRIGGERED stop-limit orders, both of which keep a reservation.
// Orders values are never mutated in place: every With/Without method returns a copy.
type Orders struct {
	Pending   []Order        `yaml:"pending" json:"pending"`
	Opening   []TradingOrder `yaml:"opening" json:"opening"`
	Submitted []Order        `yaml:"submitted" json:"submitted"`
	Filled    []TradingOrder `yaml:"filled" json:"filled"`
	Canceled  []TradingOrder `yaml:"canceled" json:"canceled"`
	Rejected  []Order        `yaml:"rejected" json:"rejected"`
}

// NewOrders returns an empty order book.
func NewOrders() Orders {
	return Orders{
		Pending:   []Order{},
		Opening:   []TradingOrder{},
		Submitted: []Order{},
		Filled:    []TradingOrder{},
		Canceled:  []TradingOrder{},
		Rejected:  []Order{},
	}
}

func appendCopy[T any](list []T, item T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, list...)

	return append(out, item)
}

func withoutID[T Order](list []T, id string) []T {
	return slices.DeleteFunc(slices.Clone(list), func(o T) bool {
		return o.GetID() == id
	})
}

func replaceID[T Order](list []T, item T) []T {
	out := slices.Clone(list)
	for i, o := range out {
		if o.GetID() == item.GetID() {
			out[i] = item
		}
	}

	return out
}

func (o Orders) WithPending(order Order) Orders {
	o.Pending = appendCopy(o.Pending, order)

	return o
}

func (o Orders) WithoutPending(id string) Orders {
	o.Pending = withoutID(o.Pending, id)

	return o
}

func (o Orders) WithOpening(order TradingOrder) Orders {
	o.Opening = appendCopy(o.Opening, order)

	return o
}

func (o Orders) WithoutOpening(id string) Orders {
	o.Opening = withoutID(o.Opening, id)

	return o
}

// ReplaceOpening swaps the opening order with the same id, keeping its position in the book.
func (o Orders) ReplaceOpening(order TradingOrder) Orders {
	o.Opening = replaceID(o.Opening, order)

	return o
}

func (o Orders) WithSubmitted(order Order) Orders {
	o.Submitted = appendCopy(o.Submitted, order)

	return o
}

func (o Orders) WithFilled(order TradingOrder) Orders {
	o.Filled = appendCopy(o.Filled, order)

	return o
}

func (o Orders) WithCanceled(order TradingOrder) Orders {
	o.Canceled = appendCopy(o.Canceled, order)

	return o
}

func (o Orders) WithRejected(order Order) Orders {
	o.Rejected = appendCopy(o.Rejected, order)

	return o
}

// FindOpening returns the opening order with the given id.
func (o Orders) FindOpening(id string) (TradingOrder, bool) {
	for _, order := range o.Opening {
		if order.GetID() == id {
			return order, true
		}
	}

	return nil, false
}

// Count returns the total number of orders in the book.
func (o Orders) Count() int {
	return len(o.Pending) + len(o.Opening) + len(o.Submitted) + len(o.Filled) + len(o.Canceled) + len(o.Rejected)
}

// All returns every order in the book, pending first and rejected last.
func (o Orders) All() []Order {
	all := make([]Order, 0, o.Count())
	all = append(all, o.Pending...)

	for _, order := range o.Opening {
		all = append(all, order)
	}

	all = append(all, o.Submitted...)

	for _, order := range o.Filled {
		all = append(all, order)
	}

	for _, order := range o.Canceled {
		all = append(all, order)
	}

	return append(all, o.Rejected...)
}

// Settled returns the orders whose status will not change anymore.
func (o Orders) Settled() []Order {
	return slices.DeleteFunc(o.All(), func(order Order) bool {
		return !order.GetStatus().IsTerminal()
	})
}
