package catalog

import "bitbucket.org/sportshop/storefront/internal/schema"

const sectionSize = 6

type Sections struct {
	Highlights []schema.Product `json:"highlights"`
	Offers     []schema.Product `json:"offers"`
	Releases   []schema.Product `json:"releases"`
}

// BuildSections splits the catalog, in its original order, into the home page rows.
func BuildSections(products []schema.Product) Sections {
	return Sections{
		Highlights: window(products, 0),
		Offers:     window(products, sectionSize),
		Releases:   window(products, 2*sectionSize),
	}
}

func window(products []schema.Product, from int) []schema.Product {
	if from >= len(products) {
		return []schema.Product{}
	}

	to := min(from+sectionSize, len(products))
	return products[from:to]
}
