package domain

import "strings"

// CategoryStyle is the display metadata for a point category.
type CategoryStyle struct {
	Key   string
	Label string
	Color string
}

// DefaultCategory is used for points without a recognised category.
const DefaultCategory = "default"

// categoryKeys is the order partial matching tries keys in.
var categoryKeys = []string{
	"hospedagem", "hotel",
	"restaurante", "comida", "cafe", "bar",
	"cultura", "museu", "arte",
	"natureza", "parque",
	"compras",
	"transporte",
	"turismo",
}

var categoryStyles = map[string]CategoryStyle{
	"hospedagem":    {Key: "hospedagem", Label: "Hospedagem", Color: "#F43F5E"},
	"hotel":         {Key: "hotel", Label: "Hotel", Color: "#F43F5E"},
	"restaurante":   {Key: "restaurante", Label: "Restaurante", Color: "#F97316"},
	"comida":        {Key: "comida", Label: "Comida", Color: "#F97316"},
	"cafe":          {Key: "cafe", Label: "Café", Color: "#D97706"},
	"bar":           {Key: "bar", Label: "Bar", Color: "#EAB308"},
	"cultura":       {Key: "cultura", Label: "Cultura", Color: "#8B5CF6"},
	"museu":         {Key: "museu", Label: "Museu", Color: "#8B5CF6"},
	"arte":          {Key: "arte", Label: "Arte", Color: "#A855F7"},
	"natureza":      {Key: "natureza", Label: "Natureza", Color: "#10B981"},
	"parque":        {Key: "parque", Label: "Parque", Color: "#10B981"},
	"compras":       {Key: "compras", Label: "Compras", Color: "#EC4899"},
	"transporte":    {Key: "transporte", Label: "Transporte", Color: "#3B82F6"},
	"turismo":       {Key: "turismo", Label: "Turismo", Color: "#06B6D4"},
	DefaultCategory: {Key: DefaultCategory, Label: "Outros", Color: "#64748B"},
}

// ClassifyCategory maps a free-text category to its display style.
// Matching is case-insensitive: exact key first, then the first key the
// value contains, then DefaultCategory.
func ClassifyCategory(category *string) CategoryStyle {
	if category == nil {
		return categoryStyles[DefaultCategory]
	}
	normalized := strings.ToLower(strings.TrimSpace(*category))
	if normalized == "" {
		return categoryStyles[DefaultCategory]
	}
	if style, ok := categoryStyles[normalized]; ok {
		return style
	}
	for _, key := range categoryKeys {
		if strings.Contains(normalized, key) {
			return categoryStyles[key]
		}
	}
	return categoryStyles[DefaultCategory]
}

// CategorySummary counts a trip's points per category style.
type CategorySummary struct {
	CategoryStyle
	Count   int
	Visited int
}
