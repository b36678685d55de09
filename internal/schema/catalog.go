package schema

import "github.com/shopspring/decimal"

type Variant struct {
	Color     string `json:"color"`
	ColorCode string `json:"colorCode,omitempty"`
	Image     string `json:"image,omitempty"`
}

type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Images      []string        `json:"images,omitempty"`
	Icon        string          `json:"icon"`
	Variants    []Variant       `json:"variants,omitempty"`
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Icon string `json:"icon"`
}
