package excel

import (
	"testing"

	"pos/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColumns(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   ColumnIndex
	}{
		{
			name:   "plain labels",
			header: []string{"Code", "Name", "Price"},
			want:   ColumnIndex{Code: 0, Name: 1, Price: 2},
		},
		{
			name:   "case and surrounding text",
			header: []string{"Notes", "PRODUCT PRICE (USD)", "Product Code", "product name"},
			want:   ColumnIndex{Code: 2, Name: 3, Price: 1},
		},
		{
			name:   "first matching cell wins",
			header: []string{"Barcode", "Product Code", "Name", "Price"},
			want:   ColumnIndex{Code: 0, Name: 2, Price: 3},
		},
		{
			name:   "nothing matches",
			header: []string{"sku", "title", "cost"},
			want:   ColumnIndex{Code: NotFound, Name: NotFound, Price: NotFound},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveColumns(tt.header))
		})
	}
}

func TestColumnIndexMissing(t *testing.T) {
	idx := ResolveColumns([]string{"Code", "Description", "Amount"})
	assert.Equal(t, []string{FieldName, FieldPrice}, idx.Missing())
	assert.Empty(t, ResolveColumns([]string{"code", "name", "price"}).Missing())
}

func TestValidateRow(t *testing.T) {
	idx := ColumnIndex{Code: 0, Name: 1, Price: 2}

	t.Run("trims code and name", func(t *testing.T) {
		product, ok, err := ValidateRow(2, []Cell{TextCell("  A1 "), TextCell("\tWidget  "), NumberCell(9.99)}, idx, Options{})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, domain.Product{Code: "A1", Name: "Widget", Price: 9.99}, product)
	})

	t.Run("empty row is skipped", func(t *testing.T) {
		_, ok, err := ValidateRow(5, nil, idx, Options{})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("short row reports the first missing field", func(t *testing.T) {
		_, _, err := ValidateRow(4, []Cell{TextCell("A1")}, idx, Options{})
		require.Error(t, err)
		assert.Equal(t, "Row 4: Name is missing.", err.Error())
	})

	t.Run("missing code", func(t *testing.T) {
		_, _, err := ValidateRow(7, []Cell{{}, TextCell("Widget"), NumberCell(1)}, idx, Options{})
		assert.Equal(t, "Row 7: Code is missing.", err.Error())
	})

	t.Run("missing price", func(t *testing.T) {
		_, _, err := ValidateRow(3, []Cell{TextCell("A1"), TextCell("Widget")}, idx, Options{})
		assert.Equal(t, "Row 3: Price is missing.", err.Error())
	})

	t.Run("blank code text counts as missing", func(t *testing.T) {
		_, _, err := ValidateRow(2, []Cell{TextCell("   "), TextCell("Widget"), NumberCell(1)}, idx, Options{})
		var rowErr *RowError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, FieldCode, rowErr.Field)
	})

	t.Run("numeric code is rendered without decimals", func(t *testing.T) {
		product, _, err := ValidateRow(2, []Cell{NumberCell(1001), TextCell("Mug"), TextCell(" 4.50 ")}, idx, Options{})
		require.NoError(t, err)
		assert.Equal(t, "1001", product.Code)
		assert.Equal(t, 4.5, product.Price)
	})
}

func TestValidateRowPriceCoercion(t *testing.T) {
	idx := ColumnIndex{Code: 0, Name: 1, Price: 2}
	prices := []Cell{
		TextCell("n/a"),
		TextCell("NaN"),
		TextCell("1,234"),
		NumberCell(-3),
		NumberCell(domain.MaxPrice),
		TextCell("1e308"),
	}

	for _, price := range prices {
		t.Run(price.String(), func(t *testing.T) {
			row := []Cell{TextCell("A1"), TextCell("Widget"), price}

			product, ok, err := ValidateRow(2, row, idx, Options{})
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Zero(t, product.Price)

			_, _, err = ValidateRow(2, row, idx, Options{StrictPrice: true})
			assert.EqualError(t, err, "Row 2: Price is invalid.")
		})
	}
}

func TestCellNumber(t *testing.T) {
	value, ok := TextCell(" 12.75 ").Number()
	assert.True(t, ok)
	assert.Equal(t, 12.75, value)

	value, ok = TextCell("  ").Number()
	assert.True(t, ok)
	assert.Zero(t, value)

	_, ok = TextCell("Infinity").Number()
	assert.False(t, ok)

	assert.True(t, TextCell("").Missing())
	assert.Equal(t, "2.5", NumberCell(2.5).String())
}
