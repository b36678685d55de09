package catalog

import "strings"

const defaultIcon = "🛍️"

var categoryIcons = map[string]string{
	"tenis":      "👟",
	"camisa":     "👕",
	"camisas":    "👕",
	"shorts":     "🩳",
	"jaqueta":    "🧥",
	"jaquetas":   "🧥",
	"bone":       "🧢",
	"meia":       "🧦",
	"acessorio":  "🎒",
	"acessorios": "🎒",
	"chuteiras":  "⚽",
	"calcoes":    "🏃",
}

var categoryNames = map[string]string{
	"camisas":   "Camisas",
	"tenis":     "Tênis",
	"chuteiras": "Chuteiras",
	"jaquetas":  "Jaquetas",
}

func CategoryIcon(category string) string {
	if icon, ok := categoryIcons[strings.ToLower(category)]; ok {
		return icon
	}
	return defaultIcon
}

// CategoryName is the display name of a category slug, the slug itself when unknown.
func CategoryName(category string) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return category
}
