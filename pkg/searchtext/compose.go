// Package searchtext builds the canonical text representation of a product
// that gets embedded for similarity search.
package searchtext

import "strings"

// DefaultKeywords maps a product category to the semantic keywords appended
// to its search text. New categories are additive configuration: extend the
// map, the composition algorithm never changes.
var DefaultKeywords = map[string]string{
	"rings":     "ring band jewelry engagement wedding",
	"earrings":  "earring ear jewelry studs hoops",
	"necklaces": "necklace chain jewelry pendant",
	"dresses":   "dress clothing fashion wear outfit",
	"tops":      "shirt blouse top clothing fashion",
	"shoes":     "shoes footwear boots heels sneakers",
}

// Composer composes search text from product attributes.
//
// The same composer must be used for every ingested record so that stored
// embeddings remain comparable. It is never applied to query strings: the
// keyword augmentation is catalog-specific and would distort the meaning of
// free-text queries, which are embedded as typed (trimmed only).
type Composer struct {
	keywords map[string]string
}

// New creates a Composer. A nil keyword map selects DefaultKeywords.
func New(keywords map[string]string) *Composer {
	if keywords == nil {
		keywords = DefaultKeywords
	}
	return &Composer{keywords: keywords}
}

// Compose concatenates name, description, category and brand, appends the
// category keyword augmentation when one exists, joins the non-empty parts
// with single spaces and lower-cases the result.
//
// Pure function: no side effects, no external calls.
func (c *Composer) Compose(name, description, category, brand string) string {
	parts := make([]string, 0, 5)
	for _, part := range []string{name, description, category, brand, c.keywords[category]} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Keywords returns the augmentation string for a category, if any.
func (c *Composer) Keywords(category string) (string, bool) {
	words, ok := c.keywords[category]
	return words, ok
}
