// Package productimage maps shopping items to the emoji shown next to them.
package productimage

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultEmoji is returned when neither the product nor its category is known.
const DefaultEmoji = "📝"

var categoryEmojis = map[string]string{
	"מזון":         "🥘",
	"ירקות ופירות": "🥬",
	"מוצרי חלב":    "🥛",
	"ניקיון":       "🧹",
	"אחר":          "📦",
}

var categoryOrder = []string{"מזון", "ירקות ופירות", "מוצרי חלב", "ניקיון", "אחר"}

var productEmojis = map[string]string{
	// dairy
	"חלב":    "🥛",
	"גבינה":  "🧀",
	"יוגורט": "🥛",

	// fruit and vegetables
	"תפוח":      "🍎",
	"בננה":      "🍌",
	"תפוז":      "🍊",
	"לימון":     "🍋",
	"ענבים":     "🍇",
	"עגבניה":    "🍅",
	"תפוח אדמה": "🥔",
	"גזר":       "🥕",
	"חסה":       "🥬",

	// bread and grains
	"לחם":  "🍞",
	"פיתה": "🫓",
	"אורז": "🍚",

	// proteins
	"ביצים": "🥚",
	"עוף":   "🍗",
	"בשר":   "🥩",
	"דג":    "🐟",

	// snacks
	"עוגיות": "🍪",
	"שוקולד": "🍫",

	// drinks
	"מים":  "💧",
	"קפה":  "☕",
	"תה":   "🫖",
	"יין":  "🍷",
	"בירה": "🍺",
}

// Emoji returns the glyph for a product, trying the product name first,
// then the category, then DefaultEmoji.
func Emoji(productName, category string) string {
	if e, ok := productEmojis[normalize(productName)]; ok {
		return e
	}
	if e, ok := categoryEmojis[category]; ok {
		return e
	}
	return DefaultEmoji
}

// Categories lists the categories that have a dedicated glyph, in picker order.
func Categories() []string {
	return append([]string(nil), categoryOrder...)
}

// normalize lower-cases with a fresh Caser; Casers are not safe for concurrent use.
func normalize(name string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(name))
}
