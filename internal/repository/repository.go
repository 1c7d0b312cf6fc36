package repository

import (
	"errors"
	"math"
	"strings"

	"pos/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("product code already exists")
)

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 200
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// invoiceTotals sums in decimal so stored totals match the line totals
// to the cent. Line totals are recomputed from price and quantity, so a
// non-finite LineTotal never reaches decimal.
func invoiceTotals(lines []domain.InvoiceLine) (int, float64) {
	totalQty := 0
	totalAmount := decimal.Zero
	for _, line := range lines {
		if line.Quantity > math.MaxInt-totalQty {
			totalQty = math.MaxInt
		} else {
			totalQty += line.Quantity
		}
		if math.IsNaN(line.Price) || math.IsInf(line.Price, 0) {
			continue
		}
		lineTotal := decimal.NewFromFloat(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity)))
		totalAmount = totalAmount.Add(lineTotal)
	}
	return totalQty, totalAmount.InexactFloat64()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns a search term into a contains pattern for ILIKE with
// ESCAPE '\', so wildcard characters match literally as they do in memory.
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}

func matchesSearch(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
