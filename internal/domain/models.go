package domain

import "time"

// MaxPrice is the exclusive upper bound on a product price. It matches
// the NUMERIC(14,4) price column.
const MaxPrice = 1e10

type Product struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type CartLine struct {
	Product
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

// LineTotal is price times quantity, unrounded.
func (l CartLine) LineTotal() float64 {
	return l.Price * float64(l.Quantity)
}

type User struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

type Invoice struct {
	ID          string        `json:"id"`
	Owner       string        `json:"owner"`
	SellerName  string        `json:"seller_name"`
	BuyerName   string        `json:"buyer_name"`
	OrderNotes  string        `json:"order_notes"`
	TotalQty    int           `json:"total_qty"`
	TotalAmount float64       `json:"total_amount"`
	CreatedAt   time.Time     `json:"created_at"`
	Lines       []InvoiceLine `json:"lines"`
}

type InvoiceLine struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Notes     string  `json:"notes,omitempty"`
	LineTotal float64 `json:"line_total"`
}

type ActionEntry struct {
	ActionID   int64     `json:"action_id"`
	CreatedAt  time.Time `json:"created_at"`
	Username   string    `json:"username"`
	ActionType string    `json:"action_type"`
	Title      string    `json:"title"`
	Details    string    `json:"details"`
}

const (
	ActionLogin         = "login"
	ActionImport        = "import"
	ActionProductSave   = "product_save"
	ActionProductDelete = "product_delete"
	ActionOrderExport   = "order_export"
)
