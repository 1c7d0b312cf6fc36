package order

import (
	"strings"

	"pos/internal/domain"
)

type ExportRequest struct {
	SellerName string `json:"seller_name"`
	BuyerName  string `json:"buyer_name"`
	OrderNotes string `json:"order_notes"`
}

// Normalized trims the free-text fields.
func (r ExportRequest) Normalized() ExportRequest {
	return ExportRequest{
		SellerName: strings.TrimSpace(r.SellerName),
		BuyerName:  strings.TrimSpace(r.BuyerName),
		OrderNotes: strings.TrimSpace(r.OrderNotes),
	}
}

type ValidationError struct {
	Field   string `json:"field"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the export preconditions in the order the desk reports
// them: both names, a known buyer, then a non-empty cart. An empty buyer
// list accepts any buyer name.
func Validate(req ExportRequest, buyers []string, lines []domain.CartLine) error {
	req = req.Normalized()
	if req.SellerName == "" || req.BuyerName == "" {
		field := "seller_name"
		if req.SellerName != "" {
			field = "buyer_name"
		}
		return &ValidationError{
			Field:   field,
			Title:   "Missing Information",
			Message: "Please enter both seller and buyer names.",
		}
	}
	if len(buyers) > 0 && !containsFold(buyers, req.BuyerName) {
		return &ValidationError{
			Field:   "buyer_name",
			Title:   "Unknown Buyer",
			Message: "Please select a buyer from the list.",
		}
	}
	if len(lines) == 0 {
		return &ValidationError{
			Field:   "cart",
			Title:   "Cart is empty",
			Message: "Add products to the cart before exporting.",
		}
	}
	return nil
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), target) {
			return true
		}
	}
	return false
}
