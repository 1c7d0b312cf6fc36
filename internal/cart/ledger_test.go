package cart

import (
	"math"
	"testing"

	"pos/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var widget = domain.Product{Code: "A1", Name: "Widget", Price: 2.5}

func TestAddIncrementsExistingLine(t *testing.T) {
	l := NewLedger()
	l.Add(widget)
	l.Add(widget)

	lines := l.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Empty(t, lines[0].Notes)
}

func TestAdjustQuantityRemovesLineAtZero(t *testing.T) {
	l := NewLedger()
	l.Add(widget)
	l.Add(widget)

	assert.True(t, l.AdjustQuantity("A1", -1))
	lines := l.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)

	assert.True(t, l.AdjustQuantity("A1", -1))
	assert.Zero(t, l.Len())
}

func TestAdjustQuantityFloorsAtZero(t *testing.T) {
	l := NewLedger()
	l.Add(widget)
	l.Add(domain.Product{Code: "B2", Name: "Gadget", Price: 1})

	l.AdjustQuantity("A1", -10)

	lines := l.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "B2", lines[0].Code)
}

func TestAdjustQuantityUnknownCode(t *testing.T) {
	l := NewLedger()
	l.Add(widget)

	assert.False(t, l.AdjustQuantity("nope", 1))
	assert.Equal(t, 1, l.Len())
}

func TestAdjustQuantityIncrease(t *testing.T) {
	l := NewLedger()
	l.Add(widget)
	l.AdjustQuantity("A1", 4)

	assert.Equal(t, 5, l.Lines()[0].Quantity)
	assert.Equal(t, 5, l.Quantity())
}

func TestRemoveAndClear(t *testing.T) {
	l := NewLedger()
	l.Add(widget)
	l.Add(widget)
	l.Add(domain.Product{Code: "B2", Name: "Gadget", Price: 1})

	assert.True(t, l.Remove("A1"))
	assert.False(t, l.Remove("A1"))
	assert.Equal(t, 1, l.Len())

	l.Clear()
	assert.Zero(t, l.Len())
	assert.Zero(t, l.Total())
}

func TestSetNotes(t *testing.T) {
	l := NewLedger()
	l.Add(widget)

	assert.True(t, l.SetNotes("A1", "blue one"))
	assert.False(t, l.SetNotes("B2", "x"))
	assert.Equal(t, "blue one", l.Lines()[0].Notes)
}

func TestTotal(t *testing.T) {
	l := NewLedger()
	l.Add(widget)
	l.Add(widget)
	l.Add(widget)
	l.Add(domain.Product{Code: "B2", Name: "Gadget", Price: 1})

	assert.Equal(t, 8.5, l.Total())
}

func TestLinesReturnsCopy(t *testing.T) {
	l := NewLedger()
	l.Add(widget)

	lines := l.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, l.Lines()[0].Quantity)
}

func TestAdjustQuantityLargeDeltaSaturates(t *testing.T) {
	l := NewLedger()
	l.Add(widget)
	l.Add(widget)
	l.Add(domain.Product{Code: "B2", Name: "Gadget", Price: 1})

	assert.True(t, l.AdjustQuantity("A1", math.MaxInt))
	lines := l.Lines()
	require.Len(t, lines, 2, "an increase must never remove the line")
	assert.Equal(t, math.MaxInt, lines[0].Quantity)
	assert.Equal(t, math.MaxInt, l.Quantity())

	l.Add(widget)
	assert.Equal(t, math.MaxInt, l.Lines()[0].Quantity)

	assert.True(t, l.AdjustQuantity("B2", math.MinInt))
	assert.Equal(t, 1, l.Len())
}
