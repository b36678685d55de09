package catalog

import (
	"errors"
	"sort"
	"strings"

	"bitbucket.org/sportshop/storefront/internal/schema"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	PageSize    = 12
	AllProducts = "all"
)

type SortOrder string

const (
	SortNameAsc   SortOrder = "name-asc"
	SortNameDesc  SortOrder = "name-desc"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
)

var ErrUnknownSort = errors.New("unknown sort order")

func ParseSort(raw string) (SortOrder, error) {
	switch order := SortOrder(raw); order {
	case "":
		return SortNameAsc, nil
	case SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc:
		return order, nil
	}
	return "", ErrUnknownSort
}

type Query struct {
	Category string    `form:"category"`
	Search   string    `form:"search"`
	Sort     SortOrder `form:"sort"`
	// Page is 1-based. Every page adds PageSize more products to the listing.
	Page int `form:"page"`
}

type Page struct {
	Products  []schema.Product `json:"products"`
	Total     int              `json:"total"`
	Remaining int              `json:"remaining"`
	HasMore   bool             `json:"hasMore"`
}

// Apply filters, sorts and cuts products for q. products is left untouched.
func Apply(products []schema.Product, q Query) Page {
	filtered := Filter(products, q.Category, q.Search)
	Sort(filtered, q.Sort)

	page := q.Page
	if page < 1 {
		page = 1
	}

	shown := min(page*PageSize, len(filtered))

	return Page{
		Products:  filtered[:shown],
		Total:     len(filtered),
		Remaining: len(filtered) - shown,
		HasMore:   shown < len(filtered),
	}
}

// Filter keeps the products of category whose name or description contains search, case-insensitively.
func Filter(products []schema.Product, category, search string) []schema.Product {
	search = strings.ToLower(strings.TrimSpace(search))

	filtered := make([]schema.Product, 0, len(products))
	for _, product := range products {
		if category != "" && category != AllProducts && product.Category != category {
			continue
		}

		if search != "" &&
			!strings.Contains(strings.ToLower(product.Name), search) &&
			!strings.Contains(strings.ToLower(product.Description), search) {
			continue
		}

		filtered = append(filtered, product)
	}

	return filtered
}

func Sort(products []schema.Product, order SortOrder) {
	switch order {
	case SortNameDesc:
		collator := collate.New(language.BrazilianPortuguese)
		sort.SliceStable(products, func(i, j int) bool {
			return collator.CompareString(products[i].Name, products[j].Name) > 0
		})
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.LessThan(products[j].Price)
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.GreaterThan(products[j].Price)
		})
	default:
		collator := collate.New(language.BrazilianPortuguese)
		sort.SliceStable(products, func(i, j int) bool {
			return collator.CompareString(products[i].Name, products[j].Name) < 0
		})
	}
}
