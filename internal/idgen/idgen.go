// Package idgen generates order and trade identifiers.
package idgen

import (
	"fmt"

	"github.com/google/uuid"
)

type IdGenerator interface {
	NewOrderID() string
	NewTradeID() string
}

// SeededGenerator derives UUIDv5 identifiers from a seed and a counter, so two runs
// with the same seed produce the same identifiers in the same order.
type SeededGenerator struct {
	namespace uuid.UUID
	counter   uint64
}

func NewSeeded(seed string) *SeededGenerator {
	return &SeededGenerator{
		namespace: uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)),
		counter:   0,
	}
}

func (g *SeededGenerator) NewOrderID() string {
	return g.next("order")
}

func (g *SeededGenerator) NewTradeID() string {
	return g.next("trade")
}

func (g *SeededGenerator) next(kind string) string {
	g.counter++

	return uuid.NewSHA1(g.namespace, fmt.Appendf(nil, "%s-%d", kind, g.counter)).String()
}

// RandomGenerator returns random UUIDv4 identifiers.
type RandomGenerator struct{}

func NewRandom() RandomGenerator {
	return RandomGenerator{}
}

func (RandomGenerator) NewOrderID() string {
	return uuid.New().String()
}

func (RandomGenerator) NewTradeID() string {
	return uuid.New().String()
}
