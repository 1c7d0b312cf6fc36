package excel

import "strings"

const NotFound = -1

const (
	FieldCode  = "Code"
	FieldName  = "Name"
	FieldPrice = "Price"
)

// Synonyms are tried in order; the first header cell containing one wins.
var (
	codeSynonyms  = []string{"code", "product code"}
	nameSynonyms  = []string{"name", "product name"}
	priceSynonyms = []string{"price", "product price"}
)

type ColumnIndex struct {
	Code  int
	Name  int
	Price int
}

// Missing lists the logical fields the header did not resolve, in
// Code, Name, Price order.
func (c ColumnIndex) Missing() []string {
	var missing []string
	if c.Code == NotFound {
		missing = append(missing, FieldCode)
	}
	if c.Name == NotFound {
		missing = append(missing, FieldName)
	}
	if c.Price == NotFound {
		missing = append(missing, FieldPrice)
	}
	return missing
}

func ResolveColumns(header []string) ColumnIndex {
	normalized := make([]string, len(header))
	for idx, col := range header {
		normalized[idx] = normalizeHeader(col)
	}
	return ColumnIndex{
		Code:  findColumn(normalized, codeSynonyms),
		Name:  findColumn(normalized, nameSynonyms),
		Price: findColumn(normalized, priceSynonyms),
	}
}

func findColumn(header []string, synonyms []string) int {
	for _, synonym := range synonyms {
		for idx, col := range header {
			if col != "" && strings.Contains(col, synonym) {
				return idx
			}
		}
	}
	return NotFound
}

func normalizeHeader(raw string) string {
	value := strings.TrimPrefix(raw, "\ufeff")
	return strings.ToLower(strings.TrimSpace(value))
}

func headerText(row []Cell) []string {
	header := make([]string, len(row))
	for idx, cell := range row {
		header[idx] = cell.String()
	}
	return header
}
