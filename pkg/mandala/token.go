package mandala

// TokenKind discriminates the two token variants.
type TokenKind int

const (
	// TokenItem is a numbered scenario entry.
	TokenItem TokenKind = iota
	// TokenMarker is a visual separator between entries.
	TokenMarker
)

// MarkerKind classifies a separator marker by its asset signature.
type MarkerKind int

const (
	// MarkerUnknown is a separator that matched neither known signature.
	MarkerUnknown MarkerKind = iota
	// MarkerGroupBoundary is the thin single rule between groups.
	MarkerGroupBoundary
	// MarkerCategoryBoundary is the thick double rule between categories.
	MarkerCategoryBoundary
)

// String returns the marker kind name for logs and warnings.
func (k MarkerKind) String() string {
	switch k {
	case MarkerGroupBoundary:
		return "group-boundary"
	case MarkerCategoryBoundary:
		return "category-boundary"
	}
	return "unknown"
}

// Token is one element of a tokenized scenario page. Tokens are produced
// once per page in source order and are immutable thereafter.
type Token struct {
	Kind   TokenKind
	Text   string     // item text, set for TokenItem
	Marker MarkerKind // classification, set for TokenMarker
	Asset  string     // separator asset reference, set for TokenMarker
}

// Item builds an item token.
func Item(text string) Token {
	return Token{Kind: TokenItem, Text: text}
}

// Marker builds a marker token, classifying the asset reference.
func Marker(asset string) Token {
	return Token{Kind: TokenMarker, Marker: Classify(asset), Asset: asset}
}
