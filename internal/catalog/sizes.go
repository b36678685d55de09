package catalog

import "slices"

var (
	clothingSizes = []string{"PP", "P", "M", "G", "GG", "XG"}
	footwearSizes = []string{"37", "38", "39", "40", "41", "42", "43", "44"}
)

// SizesFor lists the sizes offered for category, nil when it has none.
func SizesFor(category string) []string {
	switch category {
	case "camisas", "jaquetas", "calcoes":
		return slices.Clone(clothingSizes)
	case "tenis", "chuteiras":
		return slices.Clone(footwearSizes)
	}
	return nil
}

func RequiresSize(category string) bool {
	return SizesFor(category) != nil
}

func ValidSize(category, size string) bool {
	sizes := SizesFor(category)
	if sizes == nil {
		return size == ""
	}
	return slices.Contains(sizes, size)
}
