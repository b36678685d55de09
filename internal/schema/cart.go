package schema

import "github.com/shopspring/decimal"

type CartLine struct {
	ProductID int             `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Icon      string          `json:"icon,omitempty"`
	Size      string          `json:"size,omitempty"`
	Quantity  int             `json:"quantity"`
}

type Cart struct {
	Lines            []CartLine `json:"lines"`
	InstallmentCount int        `json:"installmentCount"`
}
